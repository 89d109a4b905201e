package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os/exec"
	"strings"

	"aac2alac/domain/conversion"
)

// stderrTailLimit bounds how much encoder stderr is kept for error reports
const stderrTailLimit = 4096

// Converter implements conversion.Converter using ffmpeg
type Converter struct {
	ffmpegPath string
	runner     CommandRunner
	stderr     io.Writer
	logger     *slog.Logger
}

// ConverterOption is a functional option for configuring Converter
type ConverterOption func(*Converter)

// WithFFmpegPath sets a custom ffmpeg executable path
func WithFFmpegPath(path string) ConverterOption {
	return func(c *Converter) {
		if strings.TrimSpace(path) != "" {
			c.ffmpegPath = path
		}
	}
}

// WithCommandRunner sets a custom command runner (for testing)
func WithCommandRunner(runner CommandRunner) ConverterOption {
	return func(c *Converter) {
		c.runner = runner
	}
}

// WithStderr mirrors ffmpeg's stderr to w while it runs
func WithStderr(w io.Writer) ConverterOption {
	return func(c *Converter) {
		c.stderr = w
	}
}

// WithLogger sets the logger used for debug output
func WithLogger(logger *slog.Logger) ConverterOption {
	return func(c *Converter) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewConverter creates a new FFmpeg-based ALAC converter
func NewConverter(opts ...ConverterOption) *Converter {
	c := &Converter{
		ffmpegPath: "ffmpeg",
		runner:     &ExecCommandRunner{},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Args returns the fixed ffmpeg argument template for a job
func (c *Converter) Args(job conversion.EncodeJob) []string {
	args := []string{
		"-hide_banner",
		"-nostdin",
		"-y", // The target is always a fresh temp path
		"-i", job.SourcePath,
	}

	if job.Streams == conversion.StreamsAudioOnly {
		args = append(args, "-map", "0:a")
	} else {
		args = append(args,
			"-map", "0:v?",
			"-map", "0:a",
			"-map", "0:s?",
			"-map", "0:d?",
		)
	}

	args = append(args,
		"-c", "copy", // Everything that is not audio passes through untouched
		"-c:a", conversion.TargetCodec,
	)
	if job.Streams != conversion.StreamsAudioOnly {
		// mov only carries text subtitles as mov_text
		args = append(args, "-c:s", "mov_text")
	}

	args = append(args,
		"-map_metadata", "0",
		"-fflags", "+bitexact",
		"-flags:a", "+bitexact",
		"-movflags", "+faststart",
	)

	if job.OnProgress != nil {
		args = append(args, "-progress", "pipe:1", "-nostats")
	}

	return append(args, "-f", job.Streams.MuxerFormat(), job.OutputPath)
}

// Convert implements conversion.Converter
func (c *Converter) Convert(ctx context.Context, job conversion.EncodeJob) error {
	args := c.Args(job)
	c.logger.Debug("running encoder", "command", c.ffmpegPath, "args", strings.Join(args, " "))

	tail := newTailBuffer(stderrTailLimit)
	var stderr io.Writer = tail
	if c.stderr != nil {
		stderr = io.MultiWriter(tail, c.stderr)
	}

	var stdout io.Writer
	if job.OnProgress != nil {
		stdout = NewProgressParser(job.DurationSeconds, job.OnProgress)
	}

	if err := c.runner.Run(ctx, stdout, stderr, c.ffmpegPath, args...); err != nil {
		runErr := classifyRunError(ctx, c.ffmpegPath, err, tail.String())
		var encErr *conversion.EncoderError
		if errors.As(runErr, &encErr) {
			encErr.StderrShown = c.stderr != nil
		}
		return runErr
	}

	return nil
}

// VerifyInstalled checks that ffmpeg is available
func (c *Converter) VerifyInstalled(ctx context.Context) error {
	_, err := c.runner.Output(ctx, c.ffmpegPath, "-version")
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: %s", conversion.ErrEncoderNotFound, c.ffmpegPath)
		}
		return fmt.Errorf("ffmpeg not found or not executable: %w", err)
	}
	return nil
}

// SupportsEncoder reports whether ffmpeg was built with the named encoder
func (c *Converter) SupportsEncoder(ctx context.Context, name string) (bool, error) {
	out, err := c.runner.Output(ctx, c.ffmpegPath, "-hide_banner", "-encoders")
	if err != nil {
		return false, fmt.Errorf("list ffmpeg encoders: %w", err)
	}
	return hasEncoder(string(out), name), nil
}

// hasEncoder scans `ffmpeg -encoders` output, whose rows look like
// " A....D alac                 ALAC (Apple Lossless Audio Codec)".
func hasEncoder(listing, name string) bool {
	for _, line := range strings.Split(listing, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		if fields[1] == name && strings.HasPrefix(fields[0], "A") {
			return true
		}
	}
	return false
}

func classifyRunError(ctx context.Context, binary string, err error, stderr string) error {
	if isNotFound(err) {
		return fmt.Errorf("%w: %s", conversion.ErrEncoderNotFound, binary)
	}

	encErr := &conversion.EncoderError{
		ExitCode: -1,
		Stderr:   strings.TrimSpace(stderr),
		Err:      err,
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		encErr.ExitCode = exitErr.ExitCode()
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		encErr.Err = fmt.Errorf("%w: %w", ctxErr, err)
	}

	return encErr
}

func isNotFound(err error) bool {
	if errors.Is(err, exec.ErrNotFound) {
		return true
	}
	var pathErr *fs.PathError
	return errors.As(err, &pathErr) && errors.Is(pathErr.Err, fs.ErrNotExist)
}

// Ensure Converter implements conversion.Converter
var _ conversion.Converter = (*Converter)(nil)
