package conversion

import (
	"errors"
	"testing"
)

func TestMediaInfo_CheckConvertible(t *testing.T) {
	tests := []struct {
		name       string
		streams    []Stream
		requireAAC bool
		wantErr    error
	}{
		{
			name: "video with aac",
			streams: []Stream{
				{Index: 0, CodecType: "video", CodecName: "h264"},
				{Index: 1, CodecType: "audio", CodecName: "aac"},
			},
			requireAAC: true,
		},
		{
			name: "several aac tracks",
			streams: []Stream{
				{Index: 0, CodecType: "audio", CodecName: "aac"},
				{Index: 1, CodecType: "audio", CodecName: "AAC"},
			},
			requireAAC: true,
		},
		{
			name: "video only",
			streams: []Stream{
				{Index: 0, CodecType: "video", CodecName: "h264"},
			},
			requireAAC: true,
			wantErr:    ErrNoAudioStream,
		},
		{
			name:       "no streams at all",
			requireAAC: false,
			wantErr:    ErrNoAudioStream,
		},
		{
			name: "pcm audio rejected when aac required",
			streams: []Stream{
				{Index: 0, CodecType: "video", CodecName: "prores"},
				{Index: 1, CodecType: "audio", CodecName: "pcm_s24le"},
			},
			requireAAC: true,
			wantErr:    ErrNotAAC,
		},
		{
			name: "mixed audio rejected when aac required",
			streams: []Stream{
				{Index: 0, CodecType: "audio", CodecName: "aac"},
				{Index: 1, CodecType: "audio", CodecName: "ac3"},
			},
			requireAAC: true,
			wantErr:    ErrNotAAC,
		},
		{
			name: "pcm audio accepted when any codec allowed",
			streams: []Stream{
				{Index: 0, CodecType: "audio", CodecName: "pcm_s16le"},
			},
			requireAAC: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := &MediaInfo{Path: "/media/sample.mov", Streams: tt.streams}
			err := info.CheckConvertible(tt.requireAAC)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("CheckConvertible() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CheckConvertible() error = %v, want %v", err, tt.wantErr)
			}
			if !IsSkippable(err) {
				t.Errorf("IsSkippable(%v) = false, want true", err)
			}
		})
	}
}

func TestMediaInfo_AudioStreams(t *testing.T) {
	info := &MediaInfo{Streams: []Stream{
		{Index: 0, CodecType: "video"},
		{Index: 1, CodecType: "audio"},
		{Index: 2, CodecType: "subtitle"},
		{Index: 3, CodecType: "Audio"},
	}}

	audio := info.AudioStreams()
	if len(audio) != 2 {
		t.Fatalf("expected 2 audio streams, got %d", len(audio))
	}
	if audio[0].Index != 1 || audio[1].Index != 3 {
		t.Errorf("unexpected stream order: %+v", audio)
	}
}

func TestParseStreamPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    StreamPolicy
		wantErr bool
	}{
		{in: "", want: StreamsKeep},
		{in: "keep", want: StreamsKeep},
		{in: " Audio-Only ", want: StreamsAudioOnly},
		{in: "drop", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStreamPolicy(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidStreamPolicy) {
					t.Errorf("ParseStreamPolicy(%q) error = %v, want ErrInvalidStreamPolicy", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseStreamPolicy(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseStreamPolicy(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEncoderError(t *testing.T) {
	inner := errors.New("exit status 1")
	err := &EncoderError{ExitCode: 1, Stderr: "Invalid data found when processing input", Err: inner}

	if !errors.Is(err, inner) {
		t.Error("EncoderError should unwrap to its cause")
	}
	want := "encoder failed (exit code 1): exit status 1\nInvalid data found when processing input"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	err.StderrShown = true
	if got := err.Error(); got != "encoder failed (exit code 1): exit status 1" {
		t.Errorf("Error() with stderr already shown = %q", got)
	}
}
