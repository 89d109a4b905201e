package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	appconv "aac2alac/application/conversion"
	"aac2alac/domain/conversion"
	"aac2alac/infrastructure/ffmpeg"
	"aac2alac/infrastructure/filesystem"
	"aac2alac/infrastructure/logging"

	"github.com/spf13/cobra"
)

var convertFlags conversionFlags

var convertCmd = &cobra.Command{
	Use:   "convert <input> [output]",
	Short: "Convert the AAC audio of one file to ALAC",
	Long: `Convert the AAC audio of one file to ALAC.

Video, subtitle and data streams are copied unchanged. Without an explicit
output path the result is written next to the input as <name>_alac.mov
(or <name>_alac.m4a with --streams audio-only). The input is never modified.

Exit status:
  0    converted
  1    input missing, unreadable or not a media file
  3    no audio stream, or audio that is not AAC
  127  ffmpeg or ffprobe not found
  any other non-zero value is ffmpeg's own exit status

Example:
  aac2alac convert sample.mov
  aac2alac convert --streams audio-only sample.mov
  aac2alac convert --progress "/media/Day 1/A001.mov" /tmp/A001.mov`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertFlags.register(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}

	opts, err := convertFlags.options(cmd, cfg)
	if err != nil {
		return err
	}

	outputPath := ""
	if len(args) > 1 {
		outputPath = args[1]
	}

	// Create dependencies using production implementations
	logger := logging.New(os.Stderr, verbose)
	converter := ffmpeg.NewConverter(
		ffmpeg.WithFFmpegPath(cfg.Tools.FFmpeg),
		ffmpeg.WithStderr(os.Stderr),
		ffmpeg.WithLogger(logger),
	)
	prober := ffmpeg.NewProber(ffmpeg.WithFFprobePath(cfg.Tools.FFprobe))
	files := filesystem.NewChecker()

	return RunConvertWithDependencies(
		cmd.Context(),
		converter,
		prober,
		files,
		opts,
		logger,
		args[0],
		outputPath,
		convertFlags.progress,
		os.Stdout,
	)
}

// RunConvertWithDependencies runs the convert command with injected dependencies (for testing)
func RunConvertWithDependencies(
	ctx context.Context,
	converter conversion.Converter,
	prober conversion.Prober,
	files conversion.FileSystem,
	opts appconv.Options,
	logger *slog.Logger,
	sourcePath string,
	outputPath string,
	progress bool,
	output OutputWriter,
) error {
	service := appconv.NewService(converter, prober, files, opts, logger)

	input := appconv.Input{
		SourcePath: sourcePath,
		OutputPath: outputPath,
	}

	if progress {
		input.OnProgress = func(pct float64) {
			fmt.Fprintf(output, "PROGRESS %.1f\n", pct)
		}
	} else if target, err := service.OutputPathFor(input); err == nil {
		fmt.Fprintf(output, "Converting %s -> %s...\n", sourcePath, target)
	}

	result, err := service.Convert(ctx, input)
	if err != nil {
		return err
	}

	if progress {
		fmt.Fprintf(output, "DONE %s\n", result.OutputPath)
		return nil
	}
	fmt.Fprintf(output, "Successfully created: %s\n", result.OutputPath)
	return nil
}
