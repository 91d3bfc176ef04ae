package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/yacobolo/stylecfg/internal/content"
)

// ScanDocument is the structured export of a content scan.
type ScanDocument struct {
	Version string       `json:"version" yaml:"version"`
	Stats   ScanStats    `json:"stats" yaml:"stats"`
	Classes []ClassEntry `json:"classes" yaml:"classes"`
}

// ScanStats mirrors content.Stats.
type ScanStats struct {
	Discovered int `json:"discovered" yaml:"discovered"`
	Scanned    int `json:"scanned" yaml:"scanned"`
	Skipped    int `json:"skipped" yaml:"skipped"`
	Excluded   int `json:"excluded" yaml:"excluded"`
	Failed     int `json:"failed" yaml:"failed"`
}

// ClassEntry is one class name with the places it occurs.
type ClassEntry struct {
	Class     string   `json:"class" yaml:"class"`
	Count     int      `json:"count" yaml:"count"`
	Locations []string `json:"locations,omitempty" yaml:"locations,omitempty"`
}

// BuildScan groups candidates by class name, sorted by name.
func BuildScan(candidates []content.Candidate, stats content.Stats, locations bool) ScanDocument {
	byClass := make(map[string]*ClassEntry)
	for _, c := range candidates {
		e, ok := byClass[c.Class]
		if !ok {
			e = &ClassEntry{Class: c.Class}
			byClass[c.Class] = e
		}
		e.Count++
		if locations {
			e.Locations = append(e.Locations, fmt.Sprintf("%s:%d:%d", c.Location.File, c.Location.Line, c.Location.Column))
		}
	}

	doc := ScanDocument{
		Version: SchemaVersion,
		Stats: ScanStats{
			Discovered: stats.FilesDiscovered,
			Scanned:    stats.FilesScanned,
			Skipped:    stats.FilesSkipped,
			Excluded:   stats.FilesExcluded,
			Failed:     stats.FilesFailed,
		},
		Classes: make([]ClassEntry, 0, len(byClass)),
	}
	for _, e := range byClass {
		doc.Classes = append(doc.Classes, *e)
	}
	sort.Slice(doc.Classes, func(i, j int) bool {
		return doc.Classes[i].Class < doc.Classes[j].Class
	})
	return doc
}

// WriteScan renders a content scan to w in format.
func WriteScan(w io.Writer, candidates []content.Candidate, stats content.Stats, format Format, locations, useColors bool) error {
	doc := BuildScan(candidates, stats, locations)
	switch format {
	case FormatJSON:
		return writeJSON(w, doc)
	case FormatYAML:
		return writeYAML(w, doc)
	}

	for _, e := range doc.Classes {
		fmt.Fprintf(w, "%s %s\n", e.Class, RenderStyle(StyleGray, fmt.Sprintf("(%d)", e.Count), useColors))
		for _, loc := range e.Locations {
			fmt.Fprintf(w, "  %s\n", loc)
		}
	}
	summary := fmt.Sprintf("%d classes in %d files (%d skipped, %d excluded)",
		len(doc.Classes), doc.Stats.Scanned, doc.Stats.Skipped, doc.Stats.Excluded)
	if doc.Stats.Failed > 0 {
		summary += RenderStyle(StyleRed, fmt.Sprintf(", %d unreadable", doc.Stats.Failed), useColors)
	}
	_, err := fmt.Fprintln(w, summary)
	return err
}
