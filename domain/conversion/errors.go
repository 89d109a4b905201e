package conversion

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceRequired is returned when no input path is given
	ErrSourceRequired = errors.New("source path is required")

	// ErrSourceNotFound is returned when the input path does not exist
	ErrSourceNotFound = errors.New("source file does not exist")

	// ErrSourceUnreadable is returned when the input exists but cannot be opened for reading
	ErrSourceUnreadable = errors.New("source file is not readable")

	// ErrNotMedia is returned when the prober cannot decode the input as a media container
	ErrNotMedia = errors.New("source is not a valid media file")

	// ErrNoAudioStream is returned when the input has no audio stream to convert
	ErrNoAudioStream = errors.New("source has no audio stream")

	// ErrNotAAC is returned when an audio stream is not AAC and AAC is required
	ErrNotAAC = errors.New("source audio is not AAC")

	// ErrOutputIsSource is returned when the derived output would overwrite the input
	ErrOutputIsSource = errors.New("output path must differ from source path")

	// ErrOutputExists is returned when the output exists and overwriting is disabled
	ErrOutputExists = errors.New("output file already exists")

	// ErrEncoderNotFound is returned when the encoder binary cannot be executed
	ErrEncoderNotFound = errors.New("encoder not found")

	// ErrInvalidStreamPolicy is returned for an unknown stream policy name
	ErrInvalidStreamPolicy = errors.New("invalid stream policy")
)

// EncoderError reports a failed encoder run. ExitCode is the tool's own exit
// status, or -1 when the process ended without one (killed, not started).
// StderrShown means Stderr already reached the user while the tool ran, so
// Error leaves it out.
type EncoderError struct {
	ExitCode    int
	Stderr      string
	StderrShown bool
	Err         error
}

func (e *EncoderError) Error() string {
	msg := fmt.Sprintf("encoder failed (exit code %d)", e.ExitCode)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Stderr != "" && !e.StderrShown {
		msg = fmt.Sprintf("%s\n%s", msg, e.Stderr)
	}
	return msg
}

func (e *EncoderError) Unwrap() error {
	return e.Err
}

// IsSkippable reports whether err means the input was valid media but had
// nothing this tool converts. Batch runs treat these as skips, not failures.
func IsSkippable(err error) bool {
	return errors.Is(err, ErrNoAudioStream) || errors.Is(err, ErrNotAAC)
}
