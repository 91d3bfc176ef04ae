// Package plugin defines the plugin capability interface and the descriptor
// variant used to list plugins in a configuration.
package plugin

import (
	"errors"
	"fmt"
	"reflect"
	"sort"

	"github.com/go-viper/mapstructure/v2"

	"github.com/yacobolo/stylecfg/internal/registry"
	"github.com/yacobolo/stylecfg/internal/theme"
)

// Plugin is a unit of extension. Register may add theme tokens, variants and
// utilities to the registry it is handed.
type Plugin interface {
	Name() string
	Register(r *registry.Registry) error
}

// Options are author-supplied plugin options.
type Options map[string]any

// Factory builds a configured plugin instance from options. Options may be nil.
type Factory func(opts Options) (Plugin, error)

var (
	// ErrUnknownPlugin is returned when a descriptor names a plugin missing from the catalog.
	ErrUnknownPlugin = errors.New("unknown plugin")
	// ErrUnsupportedDescriptor is returned for values that cannot describe a plugin.
	ErrUnsupportedDescriptor = errors.New("unsupported plugin descriptor")
	// ErrNilPlugin is returned when a factory yields no instance.
	ErrNilPlugin = errors.New("factory returned nil plugin")
)

type funcPlugin struct {
	name string
	fn   func(*registry.Registry) error
}

func (p *funcPlugin) Name() string                        { return p.name }
func (p *funcPlugin) Register(r *registry.Registry) error { return p.fn(r) }

// New wraps a registration function as a Plugin.
func New(name string, fn func(*registry.Registry) error) Plugin {
	return &funcPlugin{name: name, fn: fn}
}

// Kind tags the form of a Descriptor.
type Kind int

// Descriptor kinds.
const (
	KindFactory Kind = iota + 1
	KindInstance
)

func (k Kind) String() string {
	switch k {
	case KindFactory:
		return "factory"
	case KindInstance:
		return "instance"
	default:
		return "invalid"
	}
}

// Descriptor is either Factory(name, options) or Instance(plugin).
// The zero value is invalid.
type Descriptor struct {
	kind     Kind
	name     string
	factory  Factory
	options  Options
	instance Plugin
}

// FromFactory describes a plugin built by f with opts.
func FromFactory(name string, f Factory, opts Options) Descriptor {
	return Descriptor{kind: KindFactory, name: name, factory: f, options: opts}
}

// FromInstance describes an already configured plugin.
func FromInstance(p Plugin) Descriptor {
	return Descriptor{kind: KindInstance, instance: p}
}

// Kind returns the descriptor form.
func (d Descriptor) Kind() Kind { return d.kind }

// Valid reports whether d can be instantiated.
func (d Descriptor) Valid() bool {
	switch d.kind {
	case KindFactory:
		return d.factory != nil
	case KindInstance:
		return d.instance != nil
	default:
		return false
	}
}

// Name returns the catalog name for factories and the plugin name for instances.
func (d Descriptor) Name() string {
	if d.kind == KindInstance && d.instance != nil {
		return d.instance.Name()
	}
	return d.name
}

// Options returns the options a factory descriptor carries.
func (d Descriptor) Options() Options {
	return d.options
}

// Instantiate normalizes d to a plugin instance, invoking the factory if needed.
func (d Descriptor) Instantiate() (Plugin, error) {
	switch d.kind {
	case KindInstance:
		if d.instance == nil {
			return nil, ErrNilPlugin
		}
		return d.instance, nil
	case KindFactory:
		if d.factory == nil {
			return nil, fmt.Errorf("%w: factory %q is nil", ErrUnsupportedDescriptor, d.name)
		}
		p, err := d.factory(d.options)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, ErrNilPlugin
		}
		return p, nil
	default:
		return nil, fmt.Errorf("%w: zero descriptor", ErrUnsupportedDescriptor)
	}
}

// Catalog resolves plugin names used in configuration files to factories.
type Catalog interface {
	Lookup(name string) (Factory, bool)
}

// MapCatalog is a Catalog backed by a map.
type MapCatalog map[string]Factory

// Lookup implements Catalog.
func (c MapCatalog) Lookup(name string) (Factory, bool) {
	f, ok := c[name]
	return f, ok
}

// Names returns the catalog entries in sorted order.
func (c MapCatalog) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe normalizes one element of a configuration's plugin list.
//
// Accepted forms: a Descriptor, a Plugin, a Factory (or a plain function with
// the same signature), a string naming a catalog factory, or a mapping
// {name: <string>, options: <mapping>} naming a catalog factory with options.
func Describe(v any, catalog Catalog) (Descriptor, error) {
	switch d := v.(type) {
	case nil:
		return Descriptor{}, fmt.Errorf("%w: null", ErrUnsupportedDescriptor)
	case Descriptor:
		if !d.Valid() {
			return Descriptor{}, fmt.Errorf("%w: empty descriptor", ErrUnsupportedDescriptor)
		}
		return d, nil
	case Plugin:
		if isNilPointer(d) {
			return Descriptor{}, fmt.Errorf("%w: nil plugin", ErrUnsupportedDescriptor)
		}
		return FromInstance(d), nil
	case Factory:
		if d == nil {
			return Descriptor{}, fmt.Errorf("%w: nil factory", ErrUnsupportedDescriptor)
		}
		return FromFactory("", d, nil), nil
	case func(Options) (Plugin, error):
		if d == nil {
			return Descriptor{}, fmt.Errorf("%w: nil factory", ErrUnsupportedDescriptor)
		}
		return FromFactory("", d, nil), nil
	case string:
		return lookup(catalog, d, nil)
	}

	if theme.IsMapping(v) {
		return describeMapping(v, catalog)
	}
	return Descriptor{}, fmt.Errorf("%w: %T", ErrUnsupportedDescriptor, v)
}

func describeMapping(v any, catalog Catalog) (Descriptor, error) {
	m, err := theme.Normalize(v)
	if err != nil {
		return Descriptor{}, fmt.Errorf("%w: %w", ErrUnsupportedDescriptor, err)
	}

	name, ok := m["name"].(string)
	if !ok || name == "" {
		return Descriptor{}, fmt.Errorf("%w: mapping without a name", ErrUnsupportedDescriptor)
	}
	for key := range m {
		if key != "name" && key != "options" {
			return Descriptor{}, fmt.Errorf("%w: unexpected key %q", ErrUnsupportedDescriptor, key)
		}
	}

	var opts Options
	if raw, present := m["options"]; present && raw != nil {
		om, ok := raw.(map[string]any)
		if !ok {
			return Descriptor{}, fmt.Errorf("%w: options of %q must be a mapping", ErrUnsupportedDescriptor, name)
		}
		opts = Options(om)
	}

	return lookup(catalog, name, opts)
}

func lookup(catalog Catalog, name string, opts Options) (Descriptor, error) {
	if catalog == nil {
		return Descriptor{}, fmt.Errorf("%w: %q (no catalog configured)", ErrUnknownPlugin, name)
	}
	f, ok := catalog.Lookup(name)
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %q", ErrUnknownPlugin, name)
	}
	return FromFactory(name, f, opts), nil
}

func isNilPointer(p Plugin) bool {
	rv := reflect.ValueOf(p)
	return rv.Kind() == reflect.Ptr && rv.IsNil()
}

// DecodeOptions decodes opts into target, a pointer to an options struct
// tagged with `mapstructure`. Unknown keys are rejected.
func DecodeOptions(opts Options, target any) error {
	if len(opts) == 0 {
		return nil
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return fmt.Errorf("options decoder: %w", err)
	}
	if err := decoder.Decode(map[string]any(opts)); err != nil {
		return fmt.Errorf("decoding options: %w", err)
	}
	return nil
}
