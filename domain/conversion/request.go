package conversion

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultSuffix is appended to the source base name when deriving the output name
const DefaultSuffix = "_alac"

// TargetCodec is the lossless codec every audio stream is re-encoded into
const TargetCodec = "alac"

// SourceCodec is the only audio codec accepted when AAC is required
const SourceCodec = "aac"

// Request represents a single conversion of one source file
type Request struct {
	SourcePath string
	OutputPath string // Optional: explicit output, otherwise derived
	OutputDir  string // Optional: directory for derived output, defaults to the source directory
	Suffix     string
	Streams    StreamPolicy
	RequireAAC bool
	Overwrite  bool
	Progress   bool
}

// NewRequest creates a Request with defaults applied
func NewRequest(sourcePath string) (*Request, error) {
	sourcePath = strings.TrimSpace(sourcePath)
	if sourcePath == "" {
		return nil, ErrSourceRequired
	}

	return &Request{
		SourcePath: sourcePath,
		Suffix:     DefaultSuffix,
		Streams:    DefaultStreamPolicy,
		RequireAAC: true,
		Overwrite:  true,
	}, nil
}

// DeriveOutputPath returns <dir>/<base><suffix><ext> for a source path.
// An empty dir means the source's own directory.
func DeriveOutputPath(sourcePath, dir, suffix string, policy StreamPolicy) string {
	base := filepath.Base(sourcePath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if dir == "" {
		dir = filepath.Dir(sourcePath)
	}
	return filepath.Join(dir, base+suffix+policy.Extension())
}

// ResolveOutputPath returns the path the result will be written to and
// rejects outputs that would clobber the source
func (r *Request) ResolveOutputPath() (string, error) {
	out := strings.TrimSpace(r.OutputPath)
	if out == "" {
		out = DeriveOutputPath(r.SourcePath, r.OutputDir, r.Suffix, r.Streams)
	}

	if samePath(out, r.SourcePath) {
		return "", fmt.Errorf("%w: %s", ErrOutputIsSource, out)
	}
	return out, nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

// Result describes a completed conversion
type Result struct {
	SourcePath  string
	OutputPath  string
	AudioTracks int
}
