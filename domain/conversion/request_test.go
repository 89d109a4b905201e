package conversion

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestNewRequest(t *testing.T) {
	tests := []struct {
		name       string
		sourcePath string
		wantErr    error
	}{
		{
			name:       "valid path",
			sourcePath: "/media/sample.mov",
		},
		{
			name:       "path is trimmed",
			sourcePath: "  /media/sample.mov  ",
		},
		{
			name:       "empty path",
			sourcePath: "",
			wantErr:    ErrSourceRequired,
		},
		{
			name:       "whitespace path",
			sourcePath: "   ",
			wantErr:    ErrSourceRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewRequest(tt.sourcePath)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("NewRequest() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewRequest() unexpected error: %v", err)
			}
			if got.SourcePath != "/media/sample.mov" {
				t.Errorf("SourcePath = %q, want %q", got.SourcePath, "/media/sample.mov")
			}
			if got.Suffix != DefaultSuffix {
				t.Errorf("Suffix = %q, want %q", got.Suffix, DefaultSuffix)
			}
			if got.Streams != DefaultStreamPolicy {
				t.Errorf("Streams = %q, want %q", got.Streams, DefaultStreamPolicy)
			}
			if !got.RequireAAC || !got.Overwrite {
				t.Errorf("expected RequireAAC and Overwrite to default to true, got %+v", got)
			}
		})
	}
}

func TestDeriveOutputPath(t *testing.T) {
	tests := []struct {
		name   string
		source string
		dir    string
		suffix string
		policy StreamPolicy
		want   string
	}{
		{
			name:   "keep streams next to source",
			source: "/media/sample.mov",
			suffix: "_alac",
			policy: StreamsKeep,
			want:   "/media/sample_alac.mov",
		},
		{
			name:   "audio only next to source",
			source: "/media/sample.mov",
			suffix: "_alac",
			policy: StreamsAudioOnly,
			want:   "/media/sample_alac.m4a",
		},
		{
			name:   "mp4 source keeps base name",
			source: "/media/clip.mp4",
			suffix: "_alac",
			policy: StreamsKeep,
			want:   "/media/clip_alac.mov",
		},
		{
			name:   "output directory override",
			source: "/media/sample.mov",
			dir:    "/converted",
			suffix: "_alac",
			policy: StreamsKeep,
			want:   "/converted/sample_alac.mov",
		},
		{
			name:   "empty suffix",
			source: "/media/sample.mov",
			suffix: "",
			policy: StreamsAudioOnly,
			want:   "/media/sample.m4a",
		},
		{
			name:   "name with several dots",
			source: "/media/take.01.final.mov",
			suffix: "_alac",
			policy: StreamsKeep,
			want:   "/media/take.01.final_alac.mov",
		},
		{
			name:   "relative source",
			source: "sample.mov",
			suffix: "_alac",
			policy: StreamsKeep,
			want:   "sample_alac.mov",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveOutputPath(tt.source, tt.dir, tt.suffix, tt.policy)
			if got != filepath.FromSlash(tt.want) {
				t.Errorf("DeriveOutputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRequest_ResolveOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		want    string
		wantErr error
	}{
		{
			name: "derived path",
			req:  Request{SourcePath: "/media/sample.mov", Suffix: "_alac", Streams: StreamsKeep},
			want: "/media/sample_alac.mov",
		},
		{
			name: "explicit output wins",
			req:  Request{SourcePath: "/media/sample.mov", OutputPath: "/out/final.mov", Suffix: "_alac", Streams: StreamsKeep},
			want: "/out/final.mov",
		},
		{
			name:    "empty suffix on mov source clobbers input",
			req:     Request{SourcePath: "/media/sample.mov", Suffix: "", Streams: StreamsKeep},
			wantErr: ErrOutputIsSource,
		},
		{
			name:    "explicit output equal to source",
			req:     Request{SourcePath: "/media/sample.mov", OutputPath: "/media/./sample.mov", Suffix: "_alac", Streams: StreamsKeep},
			wantErr: ErrOutputIsSource,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.req.ResolveOutputPath()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ResolveOutputPath() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveOutputPath() unexpected error: %v", err)
			}
			if got != filepath.FromSlash(tt.want) {
				t.Errorf("ResolveOutputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}
