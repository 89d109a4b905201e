package ffmpeg

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	"aac2alac/domain/conversion"
)

// ProgressParser consumes the key=value stream ffmpeg writes for
// `-progress pipe:1` and reports a completion percentage.
type ProgressParser struct {
	durationSeconds float64
	report          conversion.ProgressFunc
	pending         []byte
	last            float64
}

// NewProgressParser creates a parser for a source of the given duration.
// With an unknown duration only the final 100% is reported.
func NewProgressParser(durationSeconds float64, report conversion.ProgressFunc) *ProgressParser {
	if math.IsNaN(durationSeconds) || math.IsInf(durationSeconds, 0) {
		durationSeconds = 0
	}
	return &ProgressParser{
		durationSeconds: durationSeconds,
		report:          report,
		last:            -1,
	}
}

// Write implements io.Writer
func (p *ProgressParser) Write(b []byte) (int, error) {
	p.pending = append(p.pending, b...)
	for {
		i := bytes.IndexByte(p.pending, '\n')
		if i < 0 {
			break
		}
		line := strings.TrimSpace(string(p.pending[:i]))
		p.pending = p.pending[i+1:]
		p.handleLine(line)
	}
	return len(b), nil
}

func (p *ProgressParser) handleLine(line string) {
	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return
	}

	switch key {
	// out_time_ms is in microseconds despite its name
	case "out_time_us", "out_time_ms":
		if p.durationSeconds <= 0 {
			return
		}
		micros, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || micros < 0 {
			return
		}
		pct := micros / 1e6 / p.durationSeconds * 100
		p.emit(math.Min(100, math.Round(pct*10)/10))
	case "progress":
		if strings.TrimSpace(value) == "end" {
			p.emit(100)
		}
	}
}

func (p *ProgressParser) emit(pct float64) {
	if pct == p.last {
		return
	}
	p.last = pct
	if p.report != nil {
		p.report(pct)
	}
}
