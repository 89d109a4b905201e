package cmd

import (
	"context"
	"errors"
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

var batchFlags conversionFlags

var batchCmd = &cobra.Command{
	Use:   "batch <input>...",
	Short: "Convert several files, continuing past failures",
	Long: `Convert each input in order with the same settings, the way an editor
integration converts the clips selected in its media pool.

Files without AAC audio are skipped. Any other failure is reported and the
batch continues, except a missing ffmpeg or ffprobe, which stops it.

Exit status is 0 when nothing failed (skips are fine), 127 when the
encoder is missing, and 1 otherwise, including an interrupted batch.

Example:
  aac2alac batch *.mov
  aac2alac batch --output-dir /media/converted --progress clip1.mp4 clip2.mp4`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchFlags.register(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}

	opts, err := batchFlags.options(cmd, cfg)
	if err != nil {
		return err
	}

	logger := logging.New(os.Stderr, verbose)
	converter := ffmpeg.NewConverter(
		ffmpeg.WithFFmpegPath(cfg.Tools.FFmpeg),
		ffmpeg.WithStderr(os.Stderr),
		ffmpeg.WithLogger(logger),
	)
	prober := ffmpeg.NewProber(ffmpeg.WithFFprobePath(cfg.Tools.FFprobe))
	files := filesystem.NewChecker()

	return RunBatchWithDependencies(
		cmd.Context(),
		converter,
		prober,
		files,
		opts,
		logger,
		args,
		batchFlags.progress,
		os.Stdout,
	)
}

// RunBatchWithDependencies runs the batch command with injected dependencies (for testing)
func RunBatchWithDependencies(
	ctx context.Context,
	converter conversion.Converter,
	prober conversion.Prober,
	files conversion.FileSystem,
	opts appconv.Options,
	logger *slog.Logger,
	sourcePaths []string,
	progress bool,
	output OutputWriter,
) error {
	service := appconv.NewService(converter, prober, files, opts, logger)

	input := appconv.BatchInput{
		SourcePaths: sourcePaths,
		OnItem: func(item appconv.BatchItem) {
			switch item.Status {
			case appconv.ItemConverted:
				fmt.Fprintf(output, "Converted: %s -> %s\n", item.SourcePath, item.Result.OutputPath)
			case appconv.ItemSkipped:
				fmt.Fprintf(output, "Skipped (%s): %s\n", skipReason(item.Err), item.SourcePath)
			default:
				fmt.Fprintf(output, "Failed: %s: %v\n", item.SourcePath, item.Err)
			}
		},
	}
	if progress {
		input.OnProgress = func(source string, pct float64) {
			fmt.Fprintf(output, "PROGRESS %.1f %s\n", pct, source)
		}
	}

	summary := service.ConvertAll(ctx, input)
	fmt.Fprintf(output, "Converted %d, skipped %d, failed %d\n", summary.Converted, summary.Skipped, summary.Failed)

	if summary.Aborted {
		if err := ctx.Err(); err != nil {
			return &ExitError{
				Code: ExitFailure,
				Err:  fmt.Errorf("batch interrupted after %d of %d files: %w", len(summary.Items), len(sourcePaths), err),
			}
		}
		last := summary.Items[len(summary.Items)-1]
		return &ExitError{
			Code: ExitEncoderNotFound,
			Err:  fmt.Errorf("batch stopped after %d of %d files: %w", len(summary.Items), len(sourcePaths), last.Err),
		}
	}
	if summary.Failed > 0 {
		return &ExitError{
			Code: ExitFailure,
			Err:  fmt.Errorf("%d of %d files failed", summary.Failed, len(sourcePaths)),
		}
	}
	return nil
}

func skipReason(err error) string {
	switch {
	case errors.Is(err, conversion.ErrNoAudioStream):
		return "no audio"
	case errors.Is(err, conversion.ErrNotAAC):
		return "not AAC"
	default:
		return "unsupported"
	}
}
