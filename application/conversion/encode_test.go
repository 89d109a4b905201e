package conversion_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	appconv "aac2alac/application/conversion"
	"aac2alac/domain/conversion"
	"aac2alac/infrastructure/ffmpeg"
	"aac2alac/infrastructure/filesystem"
)

// These tests run the real ffmpeg and ffprobe and are skipped without them.

func requireTools(t *testing.T) {
	t.Helper()
	for _, tool := range []string{"ffmpeg", "ffprobe"} {
		if _, err := exec.LookPath(tool); err != nil {
			t.Skipf("%s not available", tool)
		}
	}
	ok, err := ffmpeg.NewConverter().SupportsEncoder(context.Background(), conversion.TargetCodec)
	if err != nil || !ok {
		t.Skip("ffmpeg built without the alac encoder")
	}
}

// ffmpegRun runs ffmpeg and returns its stdout
func ffmpegRun(t *testing.T, args ...string) []byte {
	t.Helper()
	cmd := exec.Command("ffmpeg", append([]string{"-hide_banner", "-nostdin", "-v", "error", "-y"}, args...)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		t.Fatalf("ffmpeg %v: %v\n%s", args, err, stderr.String())
	}
	return out
}

// aacFixture writes a two second movie with a video track and an AAC audio track
func aacFixture(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "sample.mov")
	ffmpegRun(t,
		"-f", "lavfi", "-i", "testsrc=duration=2:size=64x64:rate=10",
		"-f", "lavfi", "-i", "sine=frequency=440:duration=2:sample_rate=48000",
		"-map", "0:v", "-map", "1:a",
		"-c:v", "mpeg4", "-c:a", "aac", "-ac", "1",
		path,
	)
	return path
}

// decodePCM decodes the first audio stream of path to signed 16-bit mono samples
func decodePCM(t *testing.T, path string) []int16 {
	t.Helper()
	raw := ffmpegRun(t, "-i", path, "-map", "0:a:0", "-f", "s16le", "-ac", "1", "-")
	samples := make([]int16, len(raw)/2)
	for i := range samples {
		samples[i] = int16(uint16(raw[2*i]) | uint16(raw[2*i+1])<<8)
	}
	return samples
}

func newRealService(opts appconv.Options) *appconv.Service {
	return appconv.NewService(ffmpeg.NewConverter(), ffmpeg.NewProber(), filesystem.NewChecker(), opts, nil)
}

func realOptions(streams conversion.StreamPolicy) appconv.Options {
	return appconv.Options{
		Suffix:     conversion.DefaultSuffix,
		Streams:    streams,
		RequireAAC: true,
		Overwrite:  true,
	}
}

func TestConvertWithFFmpeg(t *testing.T) {
	requireTools(t)

	tests := []struct {
		name      string
		streams   conversion.StreamPolicy
		wantName  string
		wantVideo bool
	}{
		{name: "keep streams", streams: conversion.StreamsKeep, wantName: "sample_alac.mov", wantVideo: true},
		{name: "audio only", streams: conversion.StreamsAudioOnly, wantName: "sample_alac.m4a", wantVideo: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			source := aacFixture(t, dir)
			service := newRealService(realOptions(tt.streams))
			ctx := context.Background()

			first, err := service.Convert(ctx, appconv.Input{SourcePath: source})
			if err != nil {
				t.Fatalf("Convert() unexpected error: %v", err)
			}
			if filepath.Base(first.OutputPath) != tt.wantName {
				t.Errorf("output = %s, want %s", first.OutputPath, tt.wantName)
			}
			firstBytes, err := os.ReadFile(first.OutputPath)
			if err != nil {
				t.Fatal(err)
			}

			info, err := ffmpeg.NewProber().Probe(ctx, first.OutputPath)
			if err != nil {
				t.Fatalf("Probe(output) unexpected error: %v", err)
			}
			audio := info.AudioStreams()
			if len(audio) != 1 || audio[0].CodecName != conversion.TargetCodec {
				t.Errorf("output audio streams = %+v, want one %s stream", audio, conversion.TargetCodec)
			}
			hasVideo := false
			for _, s := range info.Streams {
				if s.CodecType == "video" {
					hasVideo = true
				}
			}
			if hasVideo != tt.wantVideo {
				t.Errorf("output has video = %v, want %v", hasVideo, tt.wantVideo)
			}

			// A second run replaces the output with identical bytes
			second, err := service.Convert(ctx, appconv.Input{SourcePath: source})
			if err != nil {
				t.Fatalf("second Convert() unexpected error: %v", err)
			}
			secondBytes, err := os.ReadFile(second.OutputPath)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(firstBytes, secondBytes) {
				t.Error("repeated conversions produced different files")
			}

			entries, err := os.ReadDir(dir)
			if err != nil {
				t.Fatal(err)
			}
			if len(entries) != 2 {
				t.Errorf("expected source and one output, got %d entries", len(entries))
			}
		})
	}
}

func TestConvertWithFFmpegPreservesSamples(t *testing.T) {
	requireTools(t)

	dir := t.TempDir()
	source := aacFixture(t, dir)
	result, err := newRealService(realOptions(conversion.StreamsAudioOnly)).Convert(context.Background(), appconv.Input{SourcePath: source})
	if err != nil {
		t.Fatalf("Convert() unexpected error: %v", err)
	}

	want := decodePCM(t, source)
	got := decodePCM(t, result.OutputPath)
	if len(want) == 0 {
		t.Fatal("source decoded to no samples")
	}
	if len(got) != len(want) {
		t.Fatalf("decoded %d samples, source has %d", len(got), len(want))
	}
	// One step of tolerance covers float to integer rounding inside ffmpeg
	for i := range want {
		diff := int(got[i]) - int(want[i])
		if diff < -1 || diff > 1 {
			t.Fatalf("sample %d = %d, source %d", i, got[i], want[i])
		}
	}
}

func TestConvertWithFFmpegRejectsSilentVideo(t *testing.T) {
	requireTools(t)

	dir := t.TempDir()
	source := filepath.Join(dir, "timelapse.mov")
	ffmpegRun(t, "-f", "lavfi", "-i", "testsrc=duration=1:size=64x64:rate=10", "-c:v", "mpeg4", source)

	_, err := newRealService(realOptions(conversion.StreamsKeep)).Convert(context.Background(), appconv.Input{SourcePath: source})
	if !errors.Is(err, conversion.ErrNoAudioStream) {
		t.Fatalf("expected ErrNoAudioStream, got %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the source to remain, got %d entries", len(entries))
	}
}
