package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"aac2alac/infrastructure/ffmpeg"
	"aac2alac/infrastructure/logging"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify ffmpeg, ffprobe and the ALAC encoder are available",
	Long: `Verify the external tools this program relies on.

Checks that the configured ffmpeg and ffprobe can be executed and that
ffmpeg was built with the alac encoder.

Example:
  aac2alac check
  aac2alac --config ./config.yaml check`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}

	converter := ffmpeg.NewConverter(ffmpeg.WithFFmpegPath(cfg.Tools.FFmpeg))
	prober := ffmpeg.NewProber(ffmpeg.WithFFprobePath(cfg.Tools.FFprobe))

	return RunCheckWithDependencies(cmd.Context(), converter, prober, os.Stdout, logging.IsTerminal(os.Stdout))
}

// RunCheckWithDependencies runs the check command with injected dependencies (for testing)
func RunCheckWithDependencies(ctx context.Context, converter *ffmpeg.Converter, prober *ffmpeg.Prober, output OutputWriter, colorize bool) error {
	statuses := ffmpeg.CheckInstallation(ctx, converter, prober)

	fmt.Fprintln(output, "Requirements:")
	for _, s := range statuses {
		kind := statusOK
		message := s.Command
		if !s.Available {
			kind = statusError
			message = s.Detail
		}
		fmt.Fprintln(output, renderStatusLine(s.Name, kind, message, colorize))
	}

	if !ffmpeg.AllAvailable(statuses) {
		return &ExitError{Code: ExitFailure, Err: errors.New("one or more requirements are unavailable")}
	}
	return nil
}
