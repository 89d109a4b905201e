package conversion

import (
	"fmt"
	"strings"
)

// Stream is one elementary stream reported by the prober
type Stream struct {
	Index     int
	CodecType string
	CodecName string
}

// IsAudio reports whether the stream carries audio
func (s Stream) IsAudio() bool {
	return strings.EqualFold(s.CodecType, "audio")
}

// MediaInfo is the subset of probe output a conversion decision needs
type MediaInfo struct {
	Path            string
	FormatName      string
	DurationSeconds float64
	Streams         []Stream
}

// AudioStreams returns the audio streams in container order
func (m *MediaInfo) AudioStreams() []Stream {
	var audio []Stream
	for _, s := range m.Streams {
		if s.IsAudio() {
			audio = append(audio, s)
		}
	}
	return audio
}

// CheckConvertible verifies the source has audio worth converting
func (m *MediaInfo) CheckConvertible(requireAAC bool) error {
	audio := m.AudioStreams()
	if len(audio) == 0 {
		return fmt.Errorf("%w: %s", ErrNoAudioStream, m.Path)
	}
	if !requireAAC {
		return nil
	}
	for _, s := range audio {
		if !strings.EqualFold(strings.TrimSpace(s.CodecName), SourceCodec) {
			return fmt.Errorf("%w: stream #%d is %q in %s", ErrNotAAC, s.Index, s.CodecName, m.Path)
		}
	}
	return nil
}
