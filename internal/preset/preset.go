// Package preset holds the framework defaults every configuration is
// resolved against.
package preset

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/yacobolo/stylecfg/internal/registry"
	"github.com/yacobolo/stylecfg/internal/resolver"
	"github.com/yacobolo/stylecfg/internal/theme"
)

// Source is the Source of every variant and utility in the defaults.
const Source = "core"

// Default returns a fresh copy of the framework defaults.
func Default() resolver.ResolvedConfig {
	t := defaultTheme()
	return resolver.ResolvedConfig{
		Content:   []string{},
		Theme:     t,
		Plugins:   nil,
		Variants:  Variants(t),
		Utilities: utilities(),
	}
}

func defaultTheme() theme.Tree {
	return theme.Tree{
		"screens": map[string]any{
			"sm":  "640px",
			"md":  "768px",
			"lg":  "1024px",
			"xl":  "1280px",
			"2xl": "1536px",
		},
		"colors": map[string]any{
			"transparent": "transparent",
			"current":     "currentColor",
			"black":       "#000",
			"white":       "#fff",
			"gray":        palette("#f9fafb", "#f3f4f6", "#e5e7eb", "#d1d5db", "#9ca3af", "#6b7280", "#4b5563", "#374151", "#1f2937", "#111827", "#030712"),
			"slate":       palette("#f8fafc", "#f1f5f9", "#e2e8f0", "#cbd5e1", "#94a3b8", "#64748b", "#475569", "#334155", "#1e293b", "#0f172a", "#020617"),
			"red":         palette("#fef2f2", "#fee2e2", "#fecaca", "#fca5a5", "#f87171", "#ef4444", "#dc2626", "#b91c1c", "#991b1b", "#7f1d1d", "#450a0a"),
			"green":       palette("#f0fdf4", "#dcfce7", "#bbf7d0", "#86efac", "#4ade80", "#22c55e", "#16a34a", "#15803d", "#166534", "#14532d", "#052e16"),
			"blue":        palette("#eff6ff", "#dbeafe", "#bfdbfe", "#93c5fd", "#60a5fa", "#3b82f6", "#2563eb", "#1d4ed8", "#1e40af", "#1e3a8a", "#172554"),
		},
		"spacing": spacing(),
		"fontFamily": map[string]any{
			"sans":  []any{"ui-sans-serif", "system-ui", "sans-serif"},
			"serif": []any{"ui-serif", "Georgia", "serif"},
			"mono":  []any{"ui-monospace", "SFMono-Regular", "monospace"},
		},
		"fontSize": map[string]any{
			"xs":   []any{"0.75rem", "1rem"},
			"sm":   []any{"0.875rem", "1.25rem"},
			"base": []any{"1rem", "1.5rem"},
			"lg":   []any{"1.125rem", "1.75rem"},
			"xl":   []any{"1.25rem", "1.75rem"},
			"2xl":  []any{"1.5rem", "2rem"},
			"3xl":  []any{"1.875rem", "2.25rem"},
			"4xl":  []any{"2.25rem", "2.5rem"},
		},
		"borderRadius": map[string]any{
			"none":    "0px",
			"sm":      "0.125rem",
			"DEFAULT": "0.25rem",
			"md":      "0.375rem",
			"lg":      "0.5rem",
			"xl":      "0.75rem",
			"full":    "9999px",
		},
		"boxShadow": map[string]any{
			"sm":      "0 1px 2px 0 rgb(0 0 0 / 0.05)",
			"DEFAULT": "0 1px 3px 0 rgb(0 0 0 / 0.1), 0 1px 2px -1px rgb(0 0 0 / 0.1)",
			"md":      "0 4px 6px -1px rgb(0 0 0 / 0.1), 0 2px 4px -2px rgb(0 0 0 / 0.1)",
			"lg":      "0 10px 15px -3px rgb(0 0 0 / 0.1), 0 4px 6px -4px rgb(0 0 0 / 0.1)",
			"none":    "none",
		},
	}
}

var shades = []string{"50", "100", "200", "300", "400", "500", "600", "700", "800", "900", "950"}

func palette(values ...string) map[string]any {
	p := make(map[string]any, len(values))
	for i, v := range values {
		p[shades[i]] = v
	}
	return p
}

func spacing() map[string]any {
	s := map[string]any{"px": "1px", "0": "0px"}
	for _, n := range []float64{0.5, 1, 1.5, 2, 2.5, 3, 4, 5, 6, 8, 10, 12, 16, 20, 24, 32, 40, 48, 64} {
		key := strconv.FormatFloat(n, 'f', -1, 64)
		s[key] = strconv.FormatFloat(n/4, 'f', -1, 64) + "rem"
	}
	return s
}

// Variants returns the core variants for t: interaction states, dark mode and
// one min-width variant per screen ordered by width.
func Variants(t theme.Tree) []registry.Variant {
	variants := []registry.Variant{
		{Name: "hover", Selector: "&:hover"},
		{Name: "focus", Selector: "&:focus"},
		{Name: "focus-visible", Selector: "&:focus-visible"},
		{Name: "active", Selector: "&:active"},
		{Name: "disabled", Selector: "&:disabled"},
		{Name: "first", Selector: "&:first-child"},
		{Name: "last", Selector: "&:last-child"},
		{Name: "dark", Selector: "@media (prefers-color-scheme: dark)"},
	}

	for _, s := range ScreenOrder(t) {
		variants = append(variants, registry.Variant{
			Name:     s.Name,
			Selector: fmt.Sprintf("@media (min-width: %s)", s.Width),
		})
	}

	for i := range variants {
		variants[i].Source = Source
	}
	return variants
}

// Screen is a named breakpoint.
type Screen struct {
	Name  string
	Width string
}

// ScreenOrder returns the screens of t ordered by width. Widths that are not
// plain pixel or rem lengths sort last by name.
func ScreenOrder(t theme.Tree) []Screen {
	raw, ok := t.Lookup("screens")
	if !ok {
		return nil
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil
	}

	screens := make([]Screen, 0, len(m))
	for name, w := range m {
		width, ok := w.(string)
		if !ok {
			continue
		}
		screens = append(screens, Screen{Name: name, Width: width})
	}

	sort.SliceStable(screens, func(i, j int) bool {
		wi, oki := pixels(screens[i].Width)
		wj, okj := pixels(screens[j].Width)
		switch {
		case oki && okj && wi != wj:
			return wi < wj
		case oki != okj:
			return oki
		default:
			return screens[i].Name < screens[j].Name
		}
	})
	return screens
}

func pixels(width string) (float64, bool) {
	switch {
	case strings.HasSuffix(width, "px"):
		v, err := strconv.ParseFloat(strings.TrimSuffix(width, "px"), 64)
		return v, err == nil
	case strings.HasSuffix(width, "rem"), strings.HasSuffix(width, "em"):
		v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSuffix(width, "rem"), "em"), 64)
		return v * 16, err == nil
	default:
		return 0, false
	}
}

func utilities() []registry.Utility {
	table := []struct {
		name  string
		decls registry.Declarations
	}{
		{"block", registry.Declarations{"display": "block"}},
		{"inline-block", registry.Declarations{"display": "inline-block"}},
		{"inline", registry.Declarations{"display": "inline"}},
		{"flex", registry.Declarations{"display": "flex"}},
		{"inline-flex", registry.Declarations{"display": "inline-flex"}},
		{"grid", registry.Declarations{"display": "grid"}},
		{"hidden", registry.Declarations{"display": "none"}},
		{"static", registry.Declarations{"position": "static"}},
		{"relative", registry.Declarations{"position": "relative"}},
		{"absolute", registry.Declarations{"position": "absolute"}},
		{"fixed", registry.Declarations{"position": "fixed"}},
		{"sticky", registry.Declarations{"position": "sticky"}},
		{"flex-row", registry.Declarations{"flex-direction": "row"}},
		{"flex-col", registry.Declarations{"flex-direction": "column"}},
		{"items-center", registry.Declarations{"align-items": "center"}},
		{"justify-center", registry.Declarations{"justify-content": "center"}},
		{"justify-between", registry.Declarations{"justify-content": "space-between"}},
		{"truncate", registry.Declarations{"overflow": "hidden", "text-overflow": "ellipsis", "white-space": "nowrap"}},
		{"sr-only", registry.Declarations{
			"position": "absolute", "width": "1px", "height": "1px", "padding": "0",
			"margin": "-1px", "overflow": "hidden", "clip": "rect(0, 0, 0, 0)", "white-space": "nowrap", "border-width": "0",
		}},
	}

	out := make([]registry.Utility, 0, len(table)+1)
	out = append(out, registry.Utility{
		Name:         "*, ::before, ::after",
		Layer:        registry.LayerBase,
		Declarations: registry.Declarations{"box-sizing": "border-box", "border-width": "0", "border-style": "solid"},
		Source:       Source,
	})
	for _, u := range table {
		out = append(out, registry.Utility{Name: u.name, Layer: registry.LayerUtilities, Declarations: u.decls, Source: Source})
	}
	return out
}
