package conversion

import "context"

// ProgressFunc receives the completed percentage (0-100) of a running conversion
type ProgressFunc func(percent float64)

// EncodeJob is everything the encoder needs for one run
type EncodeJob struct {
	SourcePath      string
	OutputPath      string // Path the encoder writes to, usually a temp sibling
	Streams         StreamPolicy
	DurationSeconds float64      // Used to turn encoder time into a percentage
	OnProgress      ProgressFunc // Optional
}

// Converter re-encodes audio streams into the lossless target codec.
// This is a port that can be implemented by different infrastructure adapters.
type Converter interface {
	Convert(ctx context.Context, job EncodeJob) error
}

// Prober inspects a media file
type Prober interface {
	Probe(ctx context.Context, path string) (*MediaInfo, error)
}

// FileSystem abstracts the filesystem operations around a conversion
type FileSystem interface {
	// Exists returns true if the path exists
	Exists(path string) bool
	// CheckReadable returns an error if the path cannot be opened for reading
	CheckReadable(path string) error
	// TempSibling returns an unused path next to finalPath with the same extension
	TempSibling(finalPath string) string
	// MkdirAll creates a directory and its parents
	MkdirAll(dir string) error
	// Rename atomically moves from onto to
	Rename(from, to string) error
	// Remove deletes a file, ignoring a missing one
	Remove(path string) error
}
