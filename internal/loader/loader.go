// Package loader reads configuration documents from disk.
//
// Documents are YAML; JSON documents parse too since JSON is a subset. A
// document may nest the configuration below other keys, addressed by a
// colon-separated key path such as "tools:stylecfg".
package loader

import (
	"errors"
	"fmt"
	"sort"

	"github.com/yacobolo/stylecfg/internal/preset"
	"github.com/yacobolo/stylecfg/internal/resolver"
	"github.com/yacobolo/stylecfg/internal/theme"
)

// Configuration document keys.
const (
	KeyContent = "content"
	KeyTheme   = "theme"
	KeyPlugins = "plugins"
)

// ErrNotMapping is returned when a document (or the value at its key path) is not a mapping.
var ErrNotMapping = errors.New("configuration is not a mapping")

// Fetcher reads raw configuration data.
type Fetcher interface {
	Fetch() ([]byte, error)
}

// Parser decodes data into target. path navigates to a nested value using
// colon (:) as separator; an empty path decodes the whole document.
type Parser interface {
	Parse(data []byte, target any, path string) error
}

// Document is a decoded configuration document.
type Document struct {
	Path    string
	Raw     resolver.RawConfig
	Unknown []string // top-level keys other than content, theme and plugins
}

// Decode parses data with p and splits it into a raw configuration.
// A document holding only null decodes to an empty configuration.
func Decode(data []byte, p Parser, keyPath string) (*Document, error) {
	var doc any
	if err := p.Parse(data, &doc, keyPath); err != nil {
		return nil, err
	}

	m, err := theme.Normalize(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotMapping, err)
	}

	d := &Document{
		Raw: resolver.RawConfig{
			Content: m[KeyContent],
			Theme:   m[KeyTheme],
			Plugins: m[KeyPlugins],
		},
	}
	for key := range m {
		switch key {
		case KeyContent, KeyTheme, KeyPlugins:
		default:
			d.Unknown = append(d.Unknown, key)
		}
	}
	sort.Strings(d.Unknown)
	return d, nil
}

// LoadFile reads and decodes the configuration file at path.
func LoadFile(path, keyPath string) (*Document, error) {
	f, err := NewFileFetcher(path)
	if err != nil {
		return nil, err
	}
	data, err := f.Fetch()
	if err != nil {
		return nil, err
	}

	d, err := Decode(data, NewYAMLParser(), keyPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Path(), err)
	}
	d.Path = f.Path()
	return d, nil
}

// Load reads the raw configuration at path.
func Load(path, keyPath string) (resolver.RawConfig, error) {
	d, err := LoadFile(path, keyPath)
	if err != nil {
		return resolver.RawConfig{}, err
	}
	return d.Raw, nil
}

// LoadDefaults reads a defaults document and resolves it against the
// framework preset, so a partial document still yields complete defaults.
// r may be nil; pass a resolver with a catalog when the document names plugins.
func LoadDefaults(path, keyPath string, r *resolver.Resolver) (resolver.ResolvedConfig, error) {
	raw, err := Load(path, keyPath)
	if err != nil {
		return resolver.ResolvedConfig{}, err
	}
	if r == nil {
		r = resolver.New()
	}

	cfg, err := r.Resolve(raw, preset.Default())
	if err != nil {
		return resolver.ResolvedConfig{}, fmt.Errorf("defaults %s: %w", path, err)
	}
	return *cfg, nil
}
