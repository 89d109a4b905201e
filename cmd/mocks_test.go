package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	appconv "aac2alac/application/conversion"
	"aac2alac/domain/conversion"
)

// stubProber answers every probe with one canned result
type stubProber struct {
	info *conversion.MediaInfo
	err  error
}

func (p *stubProber) Probe(ctx context.Context, path string) (*conversion.MediaInfo, error) {
	if p.err != nil {
		return nil, p.err
	}
	info := *p.info
	info.Path = path
	return &info, nil
}

// fileConverter writes a small file at the job output path
type fileConverter struct {
	jobs     []conversion.EncodeJob
	err      error
	progress []float64
}

func (c *fileConverter) Convert(ctx context.Context, job conversion.EncodeJob) error {
	c.jobs = append(c.jobs, job)
	if c.err != nil {
		return c.err
	}
	for _, p := range c.progress {
		if job.OnProgress != nil {
			job.OnProgress(p)
		}
	}
	return os.WriteFile(job.OutputPath, []byte("alac"), 0o644)
}

func aacInfo() *conversion.MediaInfo {
	return &conversion.MediaInfo{
		FormatName:      "mov,mp4,m4a,3gp,3g2,mj2",
		DurationSeconds: 4,
		Streams: []conversion.Stream{
			{Index: 0, CodecType: "video", CodecName: "h264"},
			{Index: 1, CodecType: "audio", CodecName: "aac"},
		},
	}
}

func testOptions() appconv.Options {
	return appconv.Options{
		Suffix:     conversion.DefaultSuffix,
		Streams:    conversion.StreamsKeep,
		RequireAAC: true,
		Overwrite:  true,
	}
}

// writeSource creates a placeholder media file in dir
func writeSource(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("aac"), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// listDir returns the names in dir
func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read %s: %v", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

var errEncoderCrash = fmt.Errorf("exit status 1")
