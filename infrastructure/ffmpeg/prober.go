package ffmpeg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"aac2alac/domain/conversion"
)

// probeResult mirrors the parts of `ffprobe -of json` output we read
type probeResult struct {
	Streams []probeStream `json:"streams"`
	Format  probeFormat   `json:"format"`
}

type probeStream struct {
	Index     int    `json:"index"`
	CodecName string `json:"codec_name"`
	CodecType string `json:"codec_type"`
}

type probeFormat struct {
	Filename   string `json:"filename"`
	Duration   string `json:"duration"`
	FormatName string `json:"format_name"`
}

// Prober implements conversion.Prober using ffprobe
type Prober struct {
	ffprobePath string
	runner      CommandRunner
}

// ProberOption is a functional option for configuring Prober
type ProberOption func(*Prober)

// WithFFprobePath sets a custom ffprobe executable path
func WithFFprobePath(path string) ProberOption {
	return func(p *Prober) {
		if strings.TrimSpace(path) != "" {
			p.ffprobePath = path
		}
	}
}

// WithProberCommandRunner sets a custom command runner (for testing)
func WithProberCommandRunner(runner CommandRunner) ProberOption {
	return func(p *Prober) {
		p.runner = runner
	}
}

// NewProber creates a new ffprobe-based prober
func NewProber(opts ...ProberOption) *Prober {
	p := &Prober{
		ffprobePath: "ffprobe",
		runner:      &ExecCommandRunner{},
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Probe implements conversion.Prober
func (p *Prober) Probe(ctx context.Context, path string) (*conversion.MediaInfo, error) {
	output, err := p.runner.Output(ctx, p.ffprobePath,
		"-v", "error",
		"-hide_banner",
		"-show_format",
		"-show_streams",
		"-of", "json",
		"--", path,
	)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", conversion.ErrEncoderNotFound, p.ffprobePath)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("probe %s: %w: %w", path, ctxErr, err)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("%w: %s: %s", conversion.ErrNotMedia, path, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("%w: %s: %v", conversion.ErrNotMedia, path, err)
	}

	var result probeResult
	if err := json.Unmarshal(output, &result); err != nil {
		return nil, fmt.Errorf("%w: %s: ffprobe parse: %v", conversion.ErrNotMedia, path, err)
	}

	info := &conversion.MediaInfo{
		Path:            path,
		FormatName:      result.Format.FormatName,
		DurationSeconds: parseSeconds(result.Format.Duration),
		Streams:         make([]conversion.Stream, 0, len(result.Streams)),
	}
	for _, s := range result.Streams {
		info.Streams = append(info.Streams, conversion.Stream{
			Index:     s.Index,
			CodecType: s.CodecType,
			CodecName: s.CodecName,
		})
	}
	return info, nil
}

// VerifyInstalled checks that ffprobe is available
func (p *Prober) VerifyInstalled(ctx context.Context) error {
	_, err := p.runner.Output(ctx, p.ffprobePath, "-version")
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: %s", conversion.ErrEncoderNotFound, p.ffprobePath)
		}
		return fmt.Errorf("ffprobe not found or not executable: %w", err)
	}
	return nil
}

func parseSeconds(value string) float64 {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(parsed) || parsed < 0 {
		return 0
	}
	return parsed
}

// Ensure Prober implements conversion.Prober
var _ conversion.Prober = (*Prober)(nil)
