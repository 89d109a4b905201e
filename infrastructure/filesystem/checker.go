package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"aac2alac/domain/conversion"

	"github.com/google/uuid"
)

// Checker implements conversion.FileSystem using the os package
type Checker struct{}

// NewChecker creates a new filesystem checker
func NewChecker() *Checker {
	return &Checker{}
}

// Exists returns true if the file exists
func (c *Checker) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// CheckReadable returns an error if path is missing, a directory, or cannot be opened
func (c *Checker) CheckReadable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", conversion.ErrSourceNotFound, path)
		}
		return fmt.Errorf("%w: %s: %v", conversion.ErrSourceUnreadable, path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", conversion.ErrSourceUnreadable, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", conversion.ErrSourceUnreadable, path, err)
	}
	return f.Close()
}

// TempSibling returns a hidden, unique path in the same directory as
// finalPath so the final rename never crosses a filesystem boundary.
func (c *Checker) TempSibling(finalPath string) string {
	dir := filepath.Dir(finalPath)
	ext := filepath.Ext(finalPath)
	base := strings.TrimSuffix(filepath.Base(finalPath), ext)
	return filepath.Join(dir, fmt.Sprintf(".%s.%s.partial%s", base, uuid.NewString(), ext))
}

// MkdirAll creates dir and any missing parents
func (c *Checker) MkdirAll(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

// Rename moves from onto to, replacing to if it exists
func (c *Checker) Rename(from, to string) error {
	return os.Rename(from, to)
}

// Remove deletes path; a missing file is not an error
func (c *Checker) Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Ensure Checker implements conversion.FileSystem
var _ conversion.FileSystem = (*Checker)(nil)
