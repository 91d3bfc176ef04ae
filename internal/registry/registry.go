// Package registry holds the working theme and utility registry that plugins
// mutate during resolution.
//
// A Registry is owned by exactly one registering plugin at a time; it is not
// safe for concurrent use.
package registry

import (
	"errors"
	"fmt"
	"sort"

	"github.com/yacobolo/stylecfg/internal/theme"
)

// Layer is the cascade layer a utility is emitted into.
type Layer string

// Cascade layers, in emission order.
const (
	LayerBase       Layer = "base"
	LayerComponents Layer = "components"
	LayerUtilities  Layer = "utilities"
)

// Order returns the emission priority of the layer (base=0, components=1, utilities=2).
func (l Layer) Order() int {
	switch l {
	case LayerBase:
		return 0
	case LayerComponents:
		return 1
	default:
		return 2
	}
}

// Valid reports whether l is one of the known layers.
func (l Layer) Valid() bool {
	return l == LayerBase || l == LayerComponents || l == LayerUtilities
}

// Declarations maps CSS properties to values.
type Declarations map[string]string

// Utility is a class generator registered by a plugin or the framework core.
type Utility struct {
	Name         string // class name without the leading dot, or a selector for base rules
	Layer        Layer
	Declarations Declarations
	Source       string // registering plugin, "core" for framework defaults
}

// Variant is a named selector or at-rule wrapper, e.g. hover → "&:hover".
type Variant struct {
	Name     string
	Selector string
	Source   string
}

var (
	// ErrEmptyName is returned when a variant or utility is registered without a name.
	ErrEmptyName = errors.New("empty name")
	// ErrUnknownLayer is returned for utilities registered into an unknown layer.
	ErrUnknownLayer = errors.New("unknown layer")
)

// Registry is the mutable handle passed to Plugin.Register.
type Registry struct {
	theme theme.Tree

	variants     []Variant
	variantIndex map[string]int

	utilities    []Utility
	utilityIndex map[string]int

	owner string
}

// New creates a registry over t seeded with the given variants and utilities.
// The registry takes ownership of t; variants and utilities are copied.
func New(t theme.Tree, variants []Variant, utilities []Utility) *Registry {
	if t == nil {
		t = theme.Tree{}
	}

	r := &Registry{
		theme:        t,
		variantIndex: make(map[string]int, len(variants)),
		utilityIndex: make(map[string]int, len(utilities)),
	}
	for _, v := range variants {
		r.putVariant(v)
	}
	for _, u := range utilities {
		u.Declarations = copyDeclarations(u.Declarations)
		r.putUtility(u)
	}
	return r
}

// SetOwner records the plugin currently registering; it is stamped as the
// Source of everything added until the next call.
func (r *Registry) SetOwner(name string) {
	r.owner = name
}

// Theme returns the live working theme. Mutations are visible to later plugins.
func (r *Registry) Theme() theme.Tree {
	return r.theme
}

// Lookup returns the theme value at path.
func (r *Registry) Lookup(path ...string) (any, bool) {
	return r.theme.Lookup(path...)
}

// Set replaces the theme value at path.
func (r *Registry) Set(path []string, value any) error {
	return r.theme.Set(path, value)
}

// Extend merges values into a theme category with the same additive rule as
// theme.extend: existing entries survive, values win on collision.
func (r *Registry) Extend(category string, values map[string]any) error {
	ext, err := theme.Normalize(values)
	if err != nil {
		return fmt.Errorf("extend %s: %w", category, err)
	}
	if existing, ok := r.theme[category]; ok && !theme.IsMapping(existing) {
		return fmt.Errorf("extend %s: existing category: %w", category, theme.ErrNotMapping)
	}
	merged := theme.Merge(r.theme, theme.Tree{category: map[string]any(ext)})
	r.theme[category] = merged[category]
	return nil
}

// Fill adds entries to a theme category only where no value exists yet.
func (r *Registry) Fill(category string, values map[string]any) error {
	defaults, err := theme.Normalize(values)
	if err != nil {
		return fmt.Errorf("fill %s: %w", category, err)
	}
	theme.Fill(r.theme, map[string]any{category: map[string]any(defaults)})
	return nil
}

// AddVariant registers a variant. Re-registering a name replaces it in place.
func (r *Registry) AddVariant(name, selector string) error {
	if name == "" {
		return fmt.Errorf("variant: %w", ErrEmptyName)
	}
	r.putVariant(Variant{Name: name, Selector: selector, Source: r.owner})
	return nil
}

// AddUtility registers a utility. An empty layer means LayerUtilities.
// Re-registering a name replaces it in place.
func (r *Registry) AddUtility(u Utility) error {
	if u.Name == "" {
		return fmt.Errorf("utility: %w", ErrEmptyName)
	}
	if u.Layer == "" {
		u.Layer = LayerUtilities
	}
	if !u.Layer.Valid() {
		return fmt.Errorf("utility %s: %w %q", u.Name, ErrUnknownLayer, u.Layer)
	}
	u.Declarations = copyDeclarations(u.Declarations)
	u.Source = r.owner
	r.putUtility(u)
	return nil
}

// AddUtilities registers a set of utilities into layer in name order.
func (r *Registry) AddUtilities(layer Layer, utilities map[string]Declarations) error {
	names := make([]string, 0, len(utilities))
	for name := range utilities {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := r.AddUtility(Utility{Name: name, Layer: layer, Declarations: utilities[name]}); err != nil {
			return err
		}
	}
	return nil
}

// Variants returns the registered variants in registration order.
func (r *Registry) Variants() []Variant {
	out := make([]Variant, len(r.variants))
	copy(out, r.variants)
	return out
}

// Utilities returns the registered utilities in registration order.
func (r *Registry) Utilities() []Utility {
	out := make([]Utility, len(r.utilities))
	for i, u := range r.utilities {
		u.Declarations = copyDeclarations(u.Declarations)
		out[i] = u
	}
	return out
}

// HasVariant reports whether a variant with the given name exists.
func (r *Registry) HasVariant(name string) bool {
	_, ok := r.variantIndex[name]
	return ok
}

// Utility returns the utility registered under name.
func (r *Registry) Utility(name string) (Utility, bool) {
	i, ok := r.utilityIndex[name]
	if !ok {
		return Utility{}, false
	}
	u := r.utilities[i]
	u.Declarations = copyDeclarations(u.Declarations)
	return u, true
}

// HasUtility reports whether a utility with the given name exists.
func (r *Registry) HasUtility(name string) bool {
	_, ok := r.utilityIndex[name]
	return ok
}

func (r *Registry) putVariant(v Variant) {
	if i, ok := r.variantIndex[v.Name]; ok {
		r.variants[i] = v
		return
	}
	r.variantIndex[v.Name] = len(r.variants)
	r.variants = append(r.variants, v)
}

func (r *Registry) putUtility(u Utility) {
	if i, ok := r.utilityIndex[u.Name]; ok {
		r.utilities[i] = u
		return
	}
	r.utilityIndex[u.Name] = len(r.utilities)
	r.utilities = append(r.utilities, u)
}

func copyDeclarations(d Declarations) Declarations {
	if d == nil {
		return nil
	}
	out := make(Declarations, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
