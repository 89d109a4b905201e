package cmd

import (
	"errors"

	"aac2alac/domain/conversion"
)

// Process exit statuses
const (
	ExitOK              = 0
	ExitFailure         = 1
	ExitNotConvertible  = 3
	ExitEncoderFailed   = 4
	ExitEncoderNotFound = 127
)

// ExitError carries an explicit exit status for a command failure
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode maps an error returned by a command to the process exit status.
// A failed encoder run propagates the encoder's own status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	if errors.Is(err, conversion.ErrEncoderNotFound) {
		return ExitEncoderNotFound
	}

	if conversion.IsSkippable(err) {
		return ExitNotConvertible
	}

	var encErr *conversion.EncoderError
	if errors.As(err, &encErr) {
		if encErr.ExitCode > 0 {
			return encErr.ExitCode
		}
		return ExitEncoderFailed
	}

	return ExitFailure
}
