package cmd

import (
	"fmt"
	"os"

	"aac2alac/domain/conversion"
	"aac2alac/infrastructure/config"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

// Prompter interface for interactive prompts (allows mocking in tests)
type Prompter interface {
	Input(message string, defaultValue string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
	Select(message string, options []string, defaultValue string) (string, error)
}

// SurveyPrompter implements Prompter using the survey library
type SurveyPrompter struct{}

func (p *SurveyPrompter) Input(message string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

func (p *SurveyPrompter) Select(message string, options []string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Select{
		Message: message,
		Options: options,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

// DefaultPrompter is the prompter used in production
var DefaultPrompter Prompter = &SurveyPrompter{}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create configuration file interactively",
	Long: `Prompts for configuration values and writes config.yaml.

Every value has a sensible default, so pressing enter throughout produces
a file equivalent to running without one.`,
	Args: cobra.NoArgs,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return err
		}
	}
	return RunSetupWithPrompter(DefaultPrompter, path, os.Stdout)
}

// RunSetupWithPrompter runs the setup with a given prompter (for testing)
func RunSetupWithPrompter(prompter Prompter, configPath string, output OutputWriter) error {
	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		overwrite, err := prompter.Confirm("config.yaml already exists. Overwrite?", false)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if !overwrite {
			fmt.Fprintln(output, "Setup cancelled.")
			return nil
		}
	}

	fmt.Fprintln(output, "Welcome to aac2alac setup!")
	fmt.Fprintln(output)

	cfg := config.Default()

	if err := promptTools(prompter, cfg); err != nil {
		return err
	}

	if err := promptOutput(prompter, cfg); err != nil {
		return err
	}

	requireAAC, err := prompter.Confirm("Refuse files whose audio is not AAC?", cfg.Conversion.RequireAAC)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Conversion.RequireAAC = requireAAC

	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := config.Save(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Fprintln(output)
	fmt.Fprintf(output, "Configuration saved to %s\n", configPath)
	return nil
}

func promptTools(prompter Prompter, cfg *config.Config) error {
	ffmpegPath, err := prompter.Input("Path to ffmpeg?", cfg.Tools.FFmpeg)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if ffmpegPath != "" {
		cfg.Tools.FFmpeg = ffmpegPath
	}

	ffprobePath, err := prompter.Input("Path to ffprobe?", cfg.Tools.FFprobe)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if ffprobePath != "" {
		cfg.Tools.FFprobe = ffprobePath
	}

	return nil
}

func promptOutput(prompter Prompter, cfg *config.Config) error {
	dir, err := prompter.Input("Where should converted files go? (empty: next to the source)", "")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Output.Directory = dir

	suffix, err := prompter.Input("Suffix for converted file names?", cfg.Output.Suffix)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Output.Suffix = suffix

	streams, err := prompter.Select(
		"What should happen to video and other non-audio streams?",
		[]string{string(conversion.StreamsKeep), string(conversion.StreamsAudioOnly)},
		cfg.Output.Streams,
	)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Output.Streams = streams

	overwrite, err := prompter.Confirm("Replace an existing converted file?", cfg.Output.Overwrite)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Output.Overwrite = overwrite

	return nil
}
