package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrPathIsDirectory is returned when the path provided to a FileFetcher points to a directory.
var ErrPathIsDirectory = errors.New("path is a directory, not a file")

// FileFetcher reads a file once at construction and serves copies of its contents.
type FileFetcher struct {
	path string
	data []byte
}

// NewFileFetcher reads the file at path.
func NewFileFetcher(path string) (*FileFetcher, error) {
	cleanPath := filepath.Clean(path)

	stat, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("stat file %q: %w", cleanPath, err)
	}
	if stat.IsDir() {
		return nil, fmt.Errorf("path %q: %w", cleanPath, ErrPathIsDirectory)
	}

	data, err := os.ReadFile(cleanPath) // #nosec G304 -- path is cleaned and validated
	if err != nil {
		return nil, fmt.Errorf("reading file %q: %w", cleanPath, err)
	}

	return &FileFetcher{path: cleanPath, data: data}, nil
}

// Path returns the cleaned file path.
func (f *FileFetcher) Path() string { return f.path }

// Fetch returns a copy of the data read at construction.
func (f *FileFetcher) Fetch() ([]byte, error) {
	result := make([]byte, len(f.data))
	copy(result, f.data)
	return result, nil
}
