package ffmpeg

import (
	"context"

	"aac2alac/domain/conversion"
)

// Status reports the availability of one external requirement
type Status struct {
	Name        string
	Command     string
	Description string
	Available   bool
	Detail      string
}

// CheckInstallation reports whether the ffmpeg tools this program shells
// out to are present and able to produce ALAC.
func CheckInstallation(ctx context.Context, converter *Converter, prober *Prober) []Status {
	ffmpegStatus := Status{
		Name:        "FFmpeg",
		Command:     converter.ffmpegPath,
		Description: "Re-encodes audio to ALAC",
	}
	if err := converter.VerifyInstalled(ctx); err != nil {
		ffmpegStatus.Detail = err.Error()
	} else {
		ffmpegStatus.Available = true
	}

	ffprobeStatus := Status{
		Name:        "FFprobe",
		Command:     prober.ffprobePath,
		Description: "Inspects source audio streams",
	}
	if err := prober.VerifyInstalled(ctx); err != nil {
		ffprobeStatus.Detail = err.Error()
	} else {
		ffprobeStatus.Available = true
	}

	encoderStatus := Status{
		Name:        "ALAC encoder",
		Command:     converter.ffmpegPath + " -encoders",
		Description: "ffmpeg built with " + conversion.TargetCodec,
	}
	switch {
	case !ffmpegStatus.Available:
		encoderStatus.Detail = "ffmpeg unavailable"
	default:
		ok, err := converter.SupportsEncoder(ctx, conversion.TargetCodec)
		switch {
		case err != nil:
			encoderStatus.Detail = err.Error()
		case !ok:
			encoderStatus.Detail = "encoder " + conversion.TargetCodec + " not listed"
		default:
			encoderStatus.Available = true
		}
	}

	return []Status{ffmpegStatus, ffprobeStatus, encoderStatus}
}

// AllAvailable reports whether every status is available
func AllAvailable(statuses []Status) bool {
	for _, s := range statuses {
		if !s.Available {
			return false
		}
	}
	return true
}
