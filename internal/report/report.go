// Package report renders resolved configurations for people and tools.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/yacobolo/stylecfg/internal/registry"
	"github.com/yacobolo/stylecfg/internal/resolver"
	"github.com/yacobolo/stylecfg/internal/theme"
)

// Format is an output format.
type Format string

// Output formats.
const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ErrUnknownFormat is returned by ParseFormat for unsupported names.
var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat parses a format name. An empty name means text.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return FormatText, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w %q (want text, yaml or json)", ErrUnknownFormat, s)
	}
}

// Document is the structured export schema of a resolved configuration.
type Document struct {
	Version   string          `json:"version" yaml:"version"`
	Content   []string        `json:"content" yaml:"content"`
	Theme     map[string]any  `json:"theme" yaml:"theme"`
	Plugins   []string        `json:"plugins" yaml:"plugins"`
	Variants  []VariantEntry  `json:"variants" yaml:"variants"`
	Utilities []UtilityEntry  `json:"utilities" yaml:"utilities"`
	Warnings  []string        `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Summary   DocumentSummary `json:"summary" yaml:"summary"`
}

// VariantEntry is an exported variant.
type VariantEntry struct {
	Name     string `json:"name" yaml:"name"`
	Selector string `json:"selector" yaml:"selector"`
	Source   string `json:"source" yaml:"source"`
}

// UtilityEntry is an exported utility.
type UtilityEntry struct {
	Name         string            `json:"name" yaml:"name"`
	Layer        string            `json:"layer" yaml:"layer"`
	Source       string            `json:"source" yaml:"source"`
	Declarations map[string]string `json:"declarations" yaml:"declarations"`
}

// DocumentSummary holds counts for quick inspection.
type DocumentSummary struct {
	Categories int            `json:"categories" yaml:"categories"`
	Tokens     int            `json:"tokens" yaml:"tokens"`
	Variants   int            `json:"variants" yaml:"variants"`
	Utilities  map[string]int `json:"utilities" yaml:"utilities"`
}

// SchemaVersion is the version of the Document schema.
const SchemaVersion = "1.0"

// Build converts cfg to its export document.
func Build(cfg *resolver.ResolvedConfig) Document {
	doc := Document{
		Version:  SchemaVersion,
		Content:  append([]string{}, cfg.Content...),
		Theme:    map[string]any(theme.Clone(cfg.Theme)),
		Plugins:  make([]string, len(cfg.Plugins)),
		Warnings: cfg.Warnings,
	}
	if doc.Theme == nil {
		doc.Theme = map[string]any{}
	}
	for i, p := range cfg.Plugins {
		doc.Plugins[i] = p.Name()
	}

	doc.Variants = make([]VariantEntry, len(cfg.Variants))
	for i, v := range cfg.Variants {
		doc.Variants[i] = VariantEntry{Name: v.Name, Selector: v.Selector, Source: v.Source}
	}

	perLayer := map[string]int{}
	doc.Utilities = make([]UtilityEntry, len(cfg.Utilities))
	for i, u := range cfg.Utilities {
		doc.Utilities[i] = UtilityEntry{
			Name:         u.Name,
			Layer:        string(u.Layer),
			Source:       u.Source,
			Declarations: map[string]string(u.Declarations),
		}
		perLayer[string(u.Layer)]++
	}

	_, keys := theme.Flatten(cfg.Theme)
	doc.Summary = DocumentSummary{
		Categories: len(cfg.Theme),
		Tokens:     len(keys),
		Variants:   len(cfg.Variants),
		Utilities:  perLayer,
	}
	return doc
}

// Write renders cfg to w in format.
func Write(w io.Writer, cfg *resolver.ResolvedConfig, format Format, useColors bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, Build(cfg))
	case FormatYAML:
		return writeYAML(w, Build(cfg))
	default:
		return writeText(w, cfg, useColors)
	}
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	out, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	_, err = w.Write(out)
	return err
}

func writeText(w io.Writer, cfg *resolver.ResolvedConfig, useColors bool) error {
	var b strings.Builder
	header := func(title string) {
		b.WriteString(RenderStyle(StyleCyan, title, useColors))
		b.WriteString("\n")
	}

	header("Content")
	if len(cfg.Content) == 0 {
		b.WriteString("  " + RenderStyle(StyleGray, "(none)", useColors) + "\n")
	}
	for _, p := range cfg.Content {
		fmt.Fprintf(&b, "  %s\n", p)
	}

	b.WriteString("\n")
	header("Theme")
	flat, _ := theme.Flatten(cfg.Theme)
	for _, category := range cfg.Theme.Categories() {
		tokens := 0
		prefix := category + "."
		for k := range flat {
			if k == category || strings.HasPrefix(k, prefix) {
				tokens++
			}
		}
		fmt.Fprintf(&b, "  %-16s %d tokens\n", category, tokens)
	}

	b.WriteString("\n")
	header("Plugins")
	if len(cfg.Plugins) == 0 {
		b.WriteString("  " + RenderStyle(StyleGray, "(none)", useColors) + "\n")
	}
	for i, p := range cfg.Plugins {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, p.Name())
	}

	b.WriteString("\n")
	header("Registry")
	fmt.Fprintf(&b, "  variants         %d\n", len(cfg.Variants))
	for _, layer := range []registry.Layer{registry.LayerBase, registry.LayerComponents, registry.LayerUtilities} {
		count := 0
		sources := map[string]int{}
		for _, u := range cfg.Utilities {
			if u.Layer == layer {
				count++
				sources[u.Source]++
			}
		}
		fmt.Fprintf(&b, "  %-16s %d", string(layer), count)
		if len(sources) > 0 {
			b.WriteString(" " + RenderStyle(StyleGray, "("+describeSources(sources)+")", useColors))
		}
		b.WriteString("\n")
	}

	if len(cfg.Warnings) > 0 {
		b.WriteString("\n")
		b.WriteString(RenderStyle(StyleYellow, "Warnings", useColors) + "\n")
		for _, warning := range cfg.Warnings {
			fmt.Fprintf(&b, "  - %s\n", warning)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func describeSources(sources map[string]int) string {
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		label := name
		if label == "" {
			label = "unknown"
		}
		parts[i] = fmt.Sprintf("%s: %d", label, sources[name])
	}
	return strings.Join(parts, ", ")
}

// WriteTheme renders the theme subtree at path (all of t when path is empty).
// Text output lists one "key = value" line per token.
func WriteTheme(w io.Writer, t theme.Tree, path []string, format Format) error {
	var subtree any = map[string]any(t)
	if len(path) > 0 {
		v, ok := t.Lookup(path...)
		if !ok {
			return fmt.Errorf("theme has no value at %s", strings.Join(path, "."))
		}
		subtree = v
	}

	switch format {
	case FormatJSON:
		return writeJSON(w, subtree)
	case FormatYAML:
		return writeYAML(w, subtree)
	}

	m, ok := subtree.(map[string]any)
	if !ok {
		_, err := fmt.Fprintf(w, "%s = %v\n", strings.Join(path, "."), subtree)
		return err
	}

	flat, keys := theme.Flatten(theme.Tree(m))
	prefix := strings.Join(path, ".")
	for _, k := range keys {
		name := k
		if prefix != "" {
			name = prefix + "." + k
		}
		if _, err := fmt.Fprintf(w, "%s = %v\n", name, flat[k]); err != nil {
			return err
		}
	}
	return nil
}

// WriteError renders a resolution failure with its location highlighted.
func WriteError(w io.Writer, err error, useColors bool) {
	re, ok := resolver.AsError(err)
	if !ok {
		fmt.Fprintf(w, "%s %v\n", RenderStyle(StyleRed, "error:", useColors), err)
		return
	}

	fmt.Fprintf(w, "%s %s\n", RenderStyle(StyleRed, "error:", useColors), re.Kind)
	if re.Field != "" {
		fmt.Fprintf(w, "  at:     %s\n", RenderStyle(StyleYellow, re.Field, useColors))
	}
	if re.Plugin != "" {
		fmt.Fprintf(w, "  plugin: %s\n", re.Plugin)
	}
	fmt.Fprintf(w, "  phase:  %s\n", re.Phase)
	if re.Err != nil {
		fmt.Fprintf(w, "  cause:  %v\n", re.Err)
	}
}
