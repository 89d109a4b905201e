package conversion

import (
	"fmt"
	"strings"
)

// StreamPolicy decides what happens to the non-audio streams of the source
type StreamPolicy string

const (
	// StreamsKeep copies video, subtitle and data streams unchanged into a .mov
	StreamsKeep StreamPolicy = "keep"

	// StreamsAudioOnly drops everything except audio and writes an .m4a
	StreamsAudioOnly StreamPolicy = "audio-only"
)

// DefaultStreamPolicy matches the behaviour of the editor integration, which
// replaces a clip with a converted copy that still carries its picture.
const DefaultStreamPolicy = StreamsKeep

// ParseStreamPolicy parses a policy name. An empty string yields the default.
func ParseStreamPolicy(s string) (StreamPolicy, error) {
	switch StreamPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultStreamPolicy, nil
	case StreamsKeep:
		return StreamsKeep, nil
	case StreamsAudioOnly:
		return StreamsAudioOnly, nil
	default:
		return "", fmt.Errorf("%w: %q (use %q or %q)", ErrInvalidStreamPolicy, s, StreamsKeep, StreamsAudioOnly)
	}
}

// Extension returns the container extension, with leading dot, for the policy
func (p StreamPolicy) Extension() string {
	if p == StreamsAudioOnly {
		return ".m4a"
	}
	return ".mov"
}

// MuxerFormat returns the ffmpeg muxer name for the policy's container
func (p StreamPolicy) MuxerFormat() string {
	if p == StreamsAudioOnly {
		return "ipod"
	}
	return "mov"
}

func (p StreamPolicy) String() string {
	return string(p)
}
