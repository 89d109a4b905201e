package conversion

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"aac2alac/domain/conversion"
)

// Options are the settings shared by every conversion a Service performs.
// Suffix is used verbatim; callers apply conversion.DefaultSuffix themselves.
type Options struct {
	OutputDir  string
	Suffix     string
	Streams    conversion.StreamPolicy
	RequireAAC bool
	Overwrite  bool
}

// Service coordinates probing, encoding and finalizing conversions
type Service struct {
	converter conversion.Converter
	prober    conversion.Prober
	files     conversion.FileSystem
	opts      Options
	logger    *slog.Logger
}

// NewService creates a new Service
func NewService(converter conversion.Converter, prober conversion.Prober, files conversion.FileSystem, opts Options, logger *slog.Logger) *Service {
	if opts.Streams == "" {
		opts.Streams = conversion.DefaultStreamPolicy
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		converter: converter,
		prober:    prober,
		files:     files,
		opts:      opts,
		logger:    logger,
	}
}

// Input represents the input for a single conversion
type Input struct {
	SourcePath string
	OutputPath string                  // Optional, derived from SourcePath when empty
	OnProgress conversion.ProgressFunc // Optional
}

// Convert converts one source file. The output appears at its final path
// only after the encoder succeeds; on any failure nothing is left behind.
func (s *Service) Convert(ctx context.Context, input Input) (*conversion.Result, error) {
	req, err := s.newRequest(input)
	if err != nil {
		return nil, err
	}

	if err := s.files.CheckReadable(req.SourcePath); err != nil {
		return nil, err
	}

	outputPath, err := req.ResolveOutputPath()
	if err != nil {
		return nil, err
	}
	if !req.Overwrite && s.files.Exists(outputPath) {
		return nil, fmt.Errorf("%w: %s", conversion.ErrOutputExists, outputPath)
	}

	info, err := s.prober.Probe(ctx, req.SourcePath)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("probed source",
		"path", req.SourcePath,
		"format", info.FormatName,
		"duration_seconds", info.DurationSeconds,
		"audio_streams", len(info.AudioStreams()),
	)
	if err := info.CheckConvertible(req.RequireAAC); err != nil {
		return nil, err
	}

	if err := s.files.MkdirAll(filepath.Dir(outputPath)); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	tempPath := s.files.TempSibling(outputPath)
	job := conversion.EncodeJob{
		SourcePath:      req.SourcePath,
		OutputPath:      tempPath,
		Streams:         req.Streams,
		DurationSeconds: info.DurationSeconds,
		OnProgress:      input.OnProgress,
	}

	if err := s.converter.Convert(ctx, job); err != nil {
		s.discard(tempPath)
		return nil, err
	}

	if err := s.files.Rename(tempPath, outputPath); err != nil {
		s.discard(tempPath)
		return nil, fmt.Errorf("finalize output %s: %w", outputPath, err)
	}

	return &conversion.Result{
		SourcePath:  req.SourcePath,
		OutputPath:  outputPath,
		AudioTracks: len(info.AudioStreams()),
	}, nil
}

// OutputPathFor returns the path Convert would write for input without
// touching the filesystem
func (s *Service) OutputPathFor(input Input) (string, error) {
	req, err := s.newRequest(input)
	if err != nil {
		return "", err
	}
	return req.ResolveOutputPath()
}

func (s *Service) newRequest(input Input) (*conversion.Request, error) {
	req, err := conversion.NewRequest(input.SourcePath)
	if err != nil {
		return nil, err
	}
	req.OutputPath = input.OutputPath
	req.OutputDir = s.opts.OutputDir
	req.Suffix = s.opts.Suffix
	req.Streams = s.opts.Streams
	req.RequireAAC = s.opts.RequireAAC
	req.Overwrite = s.opts.Overwrite
	req.Progress = input.OnProgress != nil
	return req, nil
}

func (s *Service) discard(tempPath string) {
	if err := s.files.Remove(tempPath); err != nil {
		s.logger.Warn("failed to remove partial output", "path", tempPath, "error", err)
	}
}
