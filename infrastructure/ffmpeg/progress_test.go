package ffmpeg

import (
	"fmt"
	"math"
	"testing"
)

func TestProgressParser(t *testing.T) {
	tests := []struct {
		name     string
		duration float64
		chunks   []string
		want     []float64
	}{
		{
			name:     "microsecond keys",
			duration: 4,
			chunks:   []string{"out_time_us=1000000\n", "out_time_ms=1000000\n", "out_time_us=3000000\nprogress=end\n"},
			want:     []float64{25, 75, 100},
		},
		{
			name:     "lines split across writes",
			duration: 10,
			chunks:   []string{"out_time_", "us=2500", "000\npro", "gress=continue\n"},
			want:     []float64{25},
		},
		{
			name:     "clamped at one hundred",
			duration: 1,
			chunks:   []string{"out_time_us=1500000\n", "progress=end\n"},
			want:     []float64{100},
		},
		{
			name:     "unknown duration only reports end",
			duration: 0,
			chunks:   []string{"out_time_us=1000000\n", "progress=end\n"},
			want:     []float64{100},
		},
		{
			name:     "NaN duration treated as unknown",
			duration: math.NaN(),
			chunks:   []string{"out_time_us=1000000\n"},
		},
		{
			name:     "N/A values ignored",
			duration: 10,
			chunks:   []string{"out_time_us=N/A\n", "out_time_us=-5\n", "bitrate=N/A\n"},
		},
		{
			name:     "rounded to one decimal",
			duration: 3,
			chunks:   []string{"out_time_us=1000000\n"},
			want:     []float64{33.3},
		},
		{
			name:     "windows line endings",
			duration: 2,
			chunks:   []string{"out_time_us=1000000\r\n"},
			want:     []float64{50},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []float64
			p := NewProgressParser(tt.duration, func(pct float64) { got = append(got, pct) })
			for _, chunk := range tt.chunks {
				n, err := p.Write([]byte(chunk))
				if err != nil || n != len(chunk) {
					t.Fatalf("Write() = %d, %v", n, err)
				}
			}
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("reported %v, want %v", got, tt.want)
			}
		})
	}
}
