// Package daisyui provides the component plugin: semantic theme colours,
// per-theme CSS variables and component classes such as btn, card and alert.
package daisyui

import (
	"fmt"
	"sort"

	"github.com/yacobolo/stylecfg/internal/plugin"
	"github.com/yacobolo/stylecfg/internal/registry"
)

// Name is the catalog name of the plugin.
const Name = "daisyui"

// Options configures the plugin.
type Options struct {
	Themes []string `mapstructure:"themes"` // default [light dark]; the first is the :root theme
	Prefix string   `mapstructure:"prefix"` // prepended to every component class
	Base   *bool    `mapstructure:"base"`   // emit base-layer theme variables, default true
}

// Plugin registers semantic colours and components.
type Plugin struct {
	themes []string
	prefix string
	base   bool
}

// semantic colour name → CSS variable
var semantic = []struct{ color, variable string }{
	{"primary", "--p"},
	{"primary-content", "--pc"},
	{"secondary", "--s"},
	{"secondary-content", "--sc"},
	{"accent", "--a"},
	{"accent-content", "--ac"},
	{"neutral", "--n"},
	{"neutral-content", "--nc"},
	{"base-100", "--b1"},
	{"base-200", "--b2"},
	{"base-300", "--b3"},
	{"base-content", "--bc"},
	{"info", "--in"},
	{"success", "--su"},
	{"warning", "--wa"},
	{"error", "--er"},
}

// palettes hold HSL channel values per theme, keyed by semantic colour.
var palettes = map[string]map[string]string{
	"light": {
		"primary": "259 94% 51%", "primary-content": "0 0% 100%",
		"secondary": "314 100% 47%", "secondary-content": "0 0% 100%",
		"accent": "174 60% 51%", "accent-content": "175 44% 15%",
		"neutral": "219 14% 28%", "neutral-content": "0 0% 100%",
		"base-100": "0 0% 100%", "base-200": "0 0% 95%", "base-300": "180 2% 90%", "base-content": "215 28% 17%",
		"info": "198 93% 60%", "success": "158 64% 52%", "warning": "43 96% 56%", "error": "0 91% 71%",
	},
	"dark": {
		"primary": "252 95% 85%", "primary-content": "252 34% 17%",
		"secondary": "326 100% 74%", "secondary-content": "326 39% 15%",
		"accent": "175 70% 41%", "accent-content": "175 100% 8%",
		"neutral": "218 18% 12%", "neutral-content": "220 13% 69%",
		"base-100": "220 18% 20%", "base-200": "220 17% 17%", "base-300": "219 18% 15%", "base-content": "220 13% 69%",
		"info": "198 93% 60%", "success": "158 64% 52%", "warning": "43 96% 56%", "error": "0 91% 71%",
	},
	"cupcake": {
		"primary": "183 47% 59%", "primary-content": "183 100% 12%",
		"secondary": "338 71% 78%", "secondary-content": "338 57% 16%",
		"accent": "39 84% 58%", "accent-content": "39 100% 12%",
		"neutral": "280 46% 14%", "neutral-content": "24 33% 97%",
		"base-100": "24 33% 97%", "base-200": "27 22% 92%", "base-300": "22 14% 89%", "base-content": "280 46% 14%",
		"info": "198 93% 60%", "success": "158 64% 52%", "warning": "43 96% 56%", "error": "0 91% 71%",
	},
	"business": {
		"primary": "210 64% 31%", "primary-content": "210 100% 90%",
		"secondary": "200 13% 55%", "secondary-content": "200 100% 11%",
		"accent": "13 80% 60%", "accent-content": "13 100% 12%",
		"neutral": "213 14% 16%", "neutral-content": "213 28% 85%",
		"base-100": "0 0% 13%", "base-200": "0 0% 12%", "base-300": "0 0% 11%", "base-content": "0 0% 83%",
		"info": "199 100% 42%", "success": "144 31% 56%", "warning": "39 64% 60%", "error": "6 56% 54%",
	},
}

// Themes returns the names of the built-in themes in sorted order.
func Themes() []string {
	names := make([]string, 0, len(palettes))
	for name := range palettes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New creates the plugin, rejecting unknown theme names.
func New(opts Options) (*Plugin, error) {
	p := &Plugin{themes: opts.Themes, prefix: opts.Prefix, base: true}
	if len(p.themes) == 0 {
		p.themes = []string{"light", "dark"}
	}
	if opts.Base != nil {
		p.base = *opts.Base
	}
	for _, name := range p.themes {
		if _, ok := palettes[name]; !ok {
			return nil, fmt.Errorf("unknown daisyui theme %q (available: %v)", name, Themes())
		}
	}
	return p, nil
}

// Factory builds the plugin from configuration options.
func Factory(opts plugin.Options) (plugin.Plugin, error) {
	var o Options
	if err := plugin.DecodeOptions(opts, &o); err != nil {
		return nil, err
	}
	return New(o)
}

// Name implements plugin.Plugin.
func (p *Plugin) Name() string { return Name }

// Register implements plugin.Plugin.
func (p *Plugin) Register(r *registry.Registry) error {
	colors := make(map[string]any, len(semantic))
	for _, s := range semantic {
		colors[s.color] = fmt.Sprintf("hsl(var(%s) / <alpha-value>)", s.variable)
	}
	if err := r.Extend("colors", colors); err != nil {
		return err
	}

	themes := make(map[string]any, len(p.themes))
	for _, name := range p.themes {
		palette := make(map[string]any, len(palettes[name]))
		for color, value := range palettes[name] {
			palette[color] = value
		}
		themes[name] = palette
	}
	if err := r.Extend("daisyui", map[string]any{"themes": themes}); err != nil {
		return err
	}

	if p.base {
		for i, name := range p.themes {
			selector := fmt.Sprintf("[data-theme=%s]", name)
			if i == 0 {
				selector = ":root, " + selector
			}
			if err := r.AddUtility(registry.Utility{
				Name:         selector,
				Layer:        registry.LayerBase,
				Declarations: themeVariables(name),
			}); err != nil {
				return err
			}
		}
	}

	table := componentTable()
	classes := make(map[string]registry.Declarations, len(table))
	for name, decls := range table {
		classes[p.prefix+name] = decls
	}
	return r.AddUtilities(registry.LayerComponents, classes)
}

func themeVariables(name string) registry.Declarations {
	decls := make(registry.Declarations, len(semantic))
	for _, s := range semantic {
		decls[s.variable] = palettes[name][s.color]
	}
	return decls
}

func componentTable() map[string]registry.Declarations {
	table := map[string]registry.Declarations{
		"btn": {
			"display":          "inline-flex",
			"align-items":      "center",
			"justify-content":  "center",
			"border-radius":    "var(--rounded-btn, 0.5rem)",
			"height":           "3rem",
			"padding-left":     "1rem",
			"padding-right":    "1rem",
			"font-weight":      "600",
			"background-color": "hsl(var(--b2))",
		},
		"btn-ghost":   {"background-color": "transparent", "border-color": "transparent"},
		"btn-outline": {"background-color": "transparent", "border-color": "currentColor"},
		"btn-sm":      {"height": "2rem", "padding-left": "0.75rem", "padding-right": "0.75rem"},
		"btn-lg":      {"height": "4rem", "padding-left": "1.5rem", "padding-right": "1.5rem"},
		"card":        {"position": "relative", "display": "flex", "flex-direction": "column", "border-radius": "var(--rounded-box, 1rem)"},
		"card-body":   {"display": "flex", "flex": "1 1 auto", "flex-direction": "column", "padding": "2rem", "gap": "0.5rem"},
		"card-title":  {"display": "flex", "align-items": "center", "gap": "0.5rem", "font-size": "1.25rem", "font-weight": "600"},
		"badge":       {"display": "inline-flex", "align-items": "center", "height": "1.25rem", "padding": "0 0.563rem", "border-radius": "var(--rounded-badge, 1.9rem)"},
		"alert":       {"display": "grid", "width": "100%", "gap": "1rem", "padding": "1rem", "border-radius": "var(--rounded-box, 1rem)"},
		"navbar":      {"display": "flex", "align-items": "center", "min-height": "4rem", "padding": "0.5rem"},
		"input":       {"height": "3rem", "padding-left": "1rem", "padding-right": "1rem", "border-radius": "var(--rounded-btn, 0.5rem)"},
		"table":       {"position": "relative", "width": "100%", "text-align": "left"},
		"modal":       {"position": "fixed", "inset": "0", "display": "grid", "place-items": "center"},
	}
	for _, c := range []string{"primary", "secondary", "accent", "neutral", "info", "success", "warning", "error"} {
		variable := variableFor(c)
		content := variableFor(c + "-content")
		if content == "" {
			// status colours have no content pair
			content = "--b1"
		}
		table["btn-"+c] = registry.Declarations{
			"background-color": fmt.Sprintf("hsl(var(%s))", variable),
			"color":            fmt.Sprintf("hsl(var(%s))", content),
		}
		table["badge-"+c] = registry.Declarations{
			"background-color": fmt.Sprintf("hsl(var(%s))", variable),
			"color":            fmt.Sprintf("hsl(var(%s))", content),
		}
		table["alert-"+c] = registry.Declarations{
			"background-color": fmt.Sprintf("hsl(var(%s))", variable),
		}
	}
	return table
}

func variableFor(color string) string {
	for _, s := range semantic {
		if s.color == color {
			return s.variable
		}
	}
	return ""
}
