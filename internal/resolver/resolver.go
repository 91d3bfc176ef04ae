// Package resolver turns a user-authored configuration into a fully resolved
// one: it validates the raw document, merges its theme onto the framework
// defaults and registers the configured plugins in order.
//
// Theme merging is asymmetric. A category set directly under theme replaces
// the default category outright, while a category under theme.extend is deep
// merged into it:
//
//	theme:
//	  colors: {brand: "#123"}      # colors is now exactly {brand}
//	  extend:
//	    spacing: {"128": "32rem"}  # default spacing plus "128"
//
// Resolution is a pure function of the raw configuration, the defaults and the
// plugin catalog. Defaults are never modified.
package resolver

import (
	"fmt"
	"log/slog"
	"reflect"
	"sort"
	"strings"

	"github.com/yacobolo/stylecfg/internal/logging"
	"github.com/yacobolo/stylecfg/internal/plugin"
	"github.com/yacobolo/stylecfg/internal/registry"
	"github.com/yacobolo/stylecfg/internal/theme"
)

// ExtendKey is the theme key holding additive category extensions.
const ExtendKey = "extend"

// RawConfig is a configuration as authored. Each field holds decoded, untyped
// data and a nil field means the field was omitted.
type RawConfig struct {
	// Content is a sequence of glob patterns.
	Content any
	// Theme is a mapping of categories plus an optional extend mapping.
	Theme any
	// Plugins is a sequence of plugin descriptors; see plugin.Describe.
	Plugins any
}

// ResolvedConfig is the validated, merged result handed to a generation engine.
type ResolvedConfig struct {
	Content   []string
	Theme     theme.Tree
	Plugins   []plugin.Plugin // registered instances, in configuration order
	Variants  []registry.Variant
	Utilities []registry.Utility
	Warnings  []string
}

// AsRaw returns c as a raw configuration that would resolve back to c when
// c is also used as the defaults.
func (c *ResolvedConfig) AsRaw() RawConfig {
	content := make([]any, len(c.Content))
	for i, p := range c.Content {
		content[i] = p
	}
	plugins := make([]any, len(c.Plugins))
	for i, p := range c.Plugins {
		plugins[i] = p
	}
	return RawConfig{
		Content: content,
		Theme:   map[string]any(theme.Clone(c.Theme)),
		Plugins: plugins,
	}
}

// Observer is notified of every state transition of a resolution pass.
type Observer func(from, to State)

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger. Phases and plugin registrations are logged at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithCatalog sets the catalog used to resolve plugins named in configuration.
func WithCatalog(c plugin.Catalog) Option {
	return func(r *Resolver) {
		r.catalog = c
	}
}

// WithObserver adds a state transition observer.
func WithObserver(o Observer) Option {
	return func(r *Resolver) {
		if o != nil {
			r.observers = append(r.observers, o)
		}
	}
}

// Resolver resolves raw configurations. It holds no per-pass state and may be
// reused; concurrent passes are safe as long as the plugins involved are.
type Resolver struct {
	logger    *slog.Logger
	catalog   plugin.Catalog
	observers []Observer
}

// New creates a Resolver.
func New(opts ...Option) *Resolver {
	r := &Resolver{logger: logging.Discard()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve resolves raw against defaults with a default Resolver, which has no
// plugin catalog.
func Resolve(raw RawConfig, defaults ResolvedConfig) (*ResolvedConfig, error) {
	return New().Resolve(raw, defaults)
}

// pass is the state of one resolution.
type pass struct {
	r        *Resolver
	state    State
	defaults ResolvedConfig
}

// validated is a raw configuration that passed validation.
type validated struct {
	content        []string
	contentPresent bool
	warnings       []string

	direct map[string]any // category → replacement mapping
	extend theme.Tree

	descriptors    []plugin.Descriptor
	pluginsPresent bool
}

// Resolve validates raw, merges it onto defaults and registers its plugins.
// On failure the returned error is an *Error and no partial result is returned.
func (r *Resolver) Resolve(raw RawConfig, defaults ResolvedConfig) (*ResolvedConfig, error) {
	p := &pass{r: r, state: Unresolved, defaults: defaults}

	if defaults.Theme == nil {
		return nil, p.fail(&Error{
			Kind:  ErrIncompleteDefaults,
			Phase: Unresolved,
			Field: "theme",
			Index: -1,
			Err:   fmt.Errorf("defaults carry no theme"),
		})
	}

	p.transition(Validating)
	v, err := p.validate(raw)
	if err != nil {
		return nil, p.fail(err)
	}

	r.logger.Debug("validated configuration",
		slog.Int("content", len(v.content)),
		slog.Bool("content_inherited", !v.contentPresent),
		slog.Int("plugins", len(v.descriptors)),
		slog.Bool("plugins_inherited", !v.pluginsPresent))

	p.transition(Merging)
	merged := p.merge(v)

	p.transition(RegisteringPlugins)
	reg := registry.New(merged, defaults.Variants, defaults.Utilities)
	instances, err := p.register(reg, v.descriptors)
	if err != nil {
		return nil, p.fail(err)
	}

	out := &ResolvedConfig{
		Content:   v.content,
		Theme:     reg.Theme(),
		Plugins:   instances,
		Variants:  reg.Variants(),
		Utilities: reg.Utilities(),
		Warnings:  v.warnings,
	}
	for _, w := range out.Warnings {
		r.logger.Warn(w)
	}

	p.transition(Resolved)
	return out, nil
}

func (p *pass) transition(to State) {
	from := p.state
	p.state = to
	p.r.logger.Debug("resolver state", slog.String("from", from.String()), slog.String("to", to.String()))
	for _, o := range p.r.observers {
		o(from, to)
	}
}

func (p *pass) fail(err *Error) error {
	p.r.logger.Debug("resolution failed", slog.String("phase", p.state.String()), slog.String("error", err.Error()))
	p.transition(Failed)
	return err
}

func (p *pass) validate(raw RawConfig) (*validated, *Error) {
	v := &validated{}

	if err := p.validateContent(raw.Content, v); err != nil {
		return nil, err
	}
	if err := validateTheme(raw.Theme, v); err != nil {
		return nil, err
	}
	if err := p.validatePlugins(raw.Plugins, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (p *pass) validateContent(raw any, v *validated) *Error {
	patterns := p.defaults.Content
	if raw != nil {
		items, ok := sequence(raw)
		if !ok {
			return contentError(-1, "must be a list of glob patterns, got %T", raw)
		}
		patterns = make([]string, 0, len(items))
		for i, item := range items {
			s, ok := item.(string)
			if !ok {
				return contentError(i, "must be a string, got %T", item)
			}
			if strings.TrimSpace(s) == "" {
				return contentError(i, "must not be empty")
			}
			patterns = append(patterns, s)
		}
		v.contentPresent = true
	}

	seen := make(map[string]bool, len(patterns))
	v.content = make([]string, 0, len(patterns))
	for i, pattern := range patterns {
		if seen[pattern] {
			v.warnings = append(v.warnings, fmt.Sprintf("duplicate content pattern %q at content[%d] ignored", pattern, i))
			continue
		}
		seen[pattern] = true
		v.content = append(v.content, pattern)
	}
	if len(v.content) == 0 {
		v.warnings = append(v.warnings, "content is empty: no source files will be scanned for class names")
	}
	return nil
}

func validateTheme(raw any, v *validated) *Error {
	v.direct = map[string]any{}
	if raw == nil {
		return nil
	}

	t, err := theme.Normalize(raw)
	if err != nil {
		return themeError("theme", err)
	}

	for _, category := range t.Categories() {
		value := t[category]
		if category == ExtendKey {
			if value == nil {
				continue
			}
			ext, err := theme.Normalize(value)
			if err != nil {
				return themeError("theme.extend", err)
			}
			for _, c := range ext.Categories() {
				if !theme.IsMapping(ext[c]) {
					return themeError("theme.extend."+c, fmt.Errorf("%w: got %T", theme.ErrNotMapping, ext[c]))
				}
			}
			v.extend = ext
			continue
		}
		if !theme.IsMapping(value) {
			return themeError("theme."+category, fmt.Errorf("%w: got %T", theme.ErrNotMapping, value))
		}
		v.direct[category] = value
	}
	return nil
}

func (p *pass) validatePlugins(raw any, v *validated) *Error {
	if raw == nil {
		// inherited plugins run again on the fresh registry
		for _, inst := range p.defaults.Plugins {
			v.descriptors = append(v.descriptors, plugin.FromInstance(inst))
		}
		return nil
	}

	items, ok := sequence(raw)
	if !ok {
		return descriptorError(-1, fmt.Errorf("must be a list, got %T", raw))
	}
	v.pluginsPresent = true
	v.descriptors = make([]plugin.Descriptor, 0, len(items))
	for i, item := range items {
		d, err := plugin.Describe(item, p.r.catalog)
		if err != nil {
			return descriptorError(i, err)
		}
		v.descriptors = append(v.descriptors, d)
	}
	return nil
}

func (p *pass) merge(v *validated) theme.Tree {
	merged := theme.Clone(p.defaults.Theme)

	categories := make([]string, 0, len(v.direct))
	for c := range v.direct {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	for _, c := range categories {
		p.r.logger.Debug("replacing theme category", slog.String("category", c))
		// normalized values are private copies of the raw input
		merged[c] = v.direct[c]
	}
	if len(v.extend) > 0 {
		p.r.logger.Debug("extending theme", slog.Any("categories", v.extend.Categories()))
		merged = theme.Merge(merged, v.extend)
	}
	return merged
}

func (p *pass) register(reg *registry.Registry, descriptors []plugin.Descriptor) ([]plugin.Plugin, *Error) {
	instances := make([]plugin.Plugin, 0, len(descriptors))
	for i, d := range descriptors {
		inst, err := instantiate(d)
		if err != nil {
			return nil, registrationError(i, d.Name(), err)
		}

		name := inst.Name()
		p.r.logger.Debug("registering plugin", slog.Int("index", i), slog.String("plugin", name))
		reg.SetOwner(name)
		if err := invoke(inst, reg); err != nil {
			return nil, registrationError(i, name, err)
		}
		instances = append(instances, inst)
	}
	reg.SetOwner("")
	return instances, nil
}

func instantiate(d plugin.Descriptor) (inst plugin.Plugin, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			inst, err = nil, fmt.Errorf("factory panicked: %v", rec)
		}
	}()
	return d.Instantiate()
}

func invoke(inst plugin.Plugin, reg *registry.Registry) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panicked: %v", rec)
		}
	}()
	return inst.Register(reg)
}

// sequence returns the elements of any slice or array except strings and bytes.
func sequence(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case []string:
		out := make([]any, len(s))
		for i, e := range s {
			out[i] = e
		}
		return out, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
