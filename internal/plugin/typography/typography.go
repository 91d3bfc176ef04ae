// Package typography provides the prose plugin: a "typography" token category,
// prose size and colour utilities, and element variants for rendered markup.
package typography

import (
	"fmt"
	"sort"

	"github.com/yacobolo/stylecfg/internal/plugin"
	"github.com/yacobolo/stylecfg/internal/registry"
)

// Name is the catalog name of the plugin.
const Name = "typography"

// Options configures the plugin.
type Options struct {
	ClassName string `mapstructure:"className"` // default "prose"
}

// Plugin registers prose utilities.
type Plugin struct {
	className string
}

// grayscales are the palettes that get a prose-<name> colour utility.
var grayscales = []string{"gray", "slate", "zinc", "neutral", "stone"}

// New creates the plugin.
func New(opts Options) *Plugin {
	if opts.ClassName == "" {
		opts.ClassName = "prose"
	}
	return &Plugin{className: opts.ClassName}
}

// Factory builds the plugin from configuration options.
func Factory(opts plugin.Options) (plugin.Plugin, error) {
	var o Options
	if err := plugin.DecodeOptions(opts, &o); err != nil {
		return nil, err
	}
	return New(o), nil
}

// Name implements plugin.Plugin.
func (p *Plugin) Name() string { return Name }

// Register implements plugin.Plugin.
func (p *Plugin) Register(r *registry.Registry) error {
	if err := r.Fill("typography", defaultTheme()); err != nil {
		return err
	}

	raw, _ := r.Lookup("typography")
	sizes, ok := raw.(map[string]any)
	if !ok {
		return fmt.Errorf("theme.typography must be a mapping, got %T", raw)
	}

	for _, modifier := range sortedKeys(sizes) {
		styles, ok := sizes[modifier].(map[string]any)
		if !ok {
			return fmt.Errorf("theme.typography.%s must be a mapping, got %T", modifier, sizes[modifier])
		}
		if err := r.AddUtility(registry.Utility{
			Name:         p.classFor(modifier),
			Layer:        registry.LayerComponents,
			Declarations: declarations(styles),
		}); err != nil {
			return err
		}
	}

	if err := r.AddUtility(registry.Utility{
		Name:  p.className + "-invert",
		Layer: registry.LayerComponents,
		Declarations: registry.Declarations{
			"--tw-prose-body":     "var(--tw-prose-invert-body)",
			"--tw-prose-headings": "var(--tw-prose-invert-headings)",
			"--tw-prose-links":    "var(--tw-prose-invert-links)",
		},
	}); err != nil {
		return err
	}

	// palettes registered by earlier plugins count too
	for _, gray := range grayscales {
		palette, ok := r.Lookup("colors", gray)
		if !ok {
			continue
		}
		shades, ok := palette.(map[string]any)
		if !ok {
			continue
		}
		decls := registry.Declarations{}
		for shade, prop := range map[string]string{
			"700": "--tw-prose-body",
			"900": "--tw-prose-headings",
			"600": "--tw-prose-links",
		} {
			if v, ok := shades[shade]; ok {
				decls[prop] = fmt.Sprint(v)
			}
		}
		if len(decls) == 0 {
			continue
		}
		if err := r.AddUtility(registry.Utility{
			Name:         p.className + "-" + gray,
			Layer:        registry.LayerComponents,
			Declarations: decls,
		}); err != nil {
			return err
		}
	}

	for _, v := range []struct{ name, selector string }{
		{"prose-headings", "& :is(:where(h1, h2, h3, h4, th):not(:where([class~=not-prose] *)))"},
		{"prose-p", "& :is(:where(p):not(:where([class~=not-prose] *)))"},
		{"prose-a", "& :is(:where(a):not(:where([class~=not-prose] *)))"},
		{"prose-code", "& :is(:where(code):not(:where([class~=not-prose] *)))"},
	} {
		if err := r.AddVariant(v.name, v.selector); err != nil {
			return err
		}
	}

	return nil
}

func (p *Plugin) classFor(modifier string) string {
	if modifier == "DEFAULT" {
		return p.className
	}
	return p.className + "-" + modifier
}

func defaultTheme() map[string]any {
	return map[string]any{
		"DEFAULT": map[string]any{
			"color":      "var(--tw-prose-body)",
			"maxWidth":   "65ch",
			"fontSize":   "1rem",
			"lineHeight": "1.75",
		},
		"sm": map[string]any{"fontSize": "0.875rem", "lineHeight": "1.7142857"},
		"lg": map[string]any{"fontSize": "1.125rem", "lineHeight": "1.7777778"},
		"xl": map[string]any{"fontSize": "1.25rem", "lineHeight": "1.8"},
	}
}

// declarations keeps scalar style entries; nested element rules are left to the engine.
func declarations(styles map[string]any) registry.Declarations {
	out := make(registry.Declarations, len(styles))
	for prop, v := range styles {
		switch v.(type) {
		case map[string]any, []any:
			continue
		}
		out[prop] = fmt.Sprint(v)
	}
	return out
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
