package loader

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
)

var (
	// ErrEmptyData is returned when the input data is empty.
	ErrEmptyData = errors.New("empty data")
	// ErrPathNotFound is returned when the key path is not found in the document.
	ErrPathNotFound = errors.New("path not found")
)

// YAMLParser implements Parser using goccy/go-yaml.
type YAMLParser struct{}

// NewYAMLParser creates a YAML parser.
func NewYAMLParser() *YAMLParser {
	return &YAMLParser{}
}

// Parse implements Parser.
func (p *YAMLParser) Parse(data []byte, target any, path string) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return ErrEmptyData
	}

	if path == "" {
		if err := yaml.Unmarshal(data, target); err != nil {
			return fmt.Errorf("unmarshal error: %w", err)
		}
		return nil
	}

	pathObj, err := yaml.PathString(toYAMLPath(path))
	if err != nil {
		return fmt.Errorf("invalid path %q: %w", path, err)
	}

	if err := pathObj.Read(bytes.NewReader(data), target); err != nil {
		if yaml.IsNotFoundNodeError(err) {
			return fmt.Errorf("%w: %s", ErrPathNotFound, path)
		}
		return fmt.Errorf("reading path %q: %w", path, err)
	}
	return nil
}

// toYAMLPath converts "tools:stylecfg" to "$.tools.stylecfg".
func toYAMLPath(path string) string {
	return "$." + strings.Join(strings.Split(path, ":"), ".")
}
