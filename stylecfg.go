// Package stylecfg resolves configurations for a utility-class CSS build tool.
//
// A configuration document looks like this:
//
//	content:
//	  - ./internal/web/views/*.templ
//	theme:
//	  extend:
//	    colors:
//	      brand: "#0ea5e9"
//	plugins:
//	  - "@tailwindcss/typography"
//	  - daisyui
//
// # Resolution
//
// Resolve a configuration file against the framework defaults:
//
//	cfg, err := stylecfg.ResolveFile(stylecfg.Options{ConfigPath: "stylecfg.config.yaml"})
//
// or a configuration built in code:
//
//	cfg, err := stylecfg.Resolve(stylecfg.RawConfig{
//		Content: []string{"./views/**/*.templ"},
//		Plugins: []any{
//			"@tailwindcss/typography",
//			map[string]any{"name": "daisyui", "options": map[string]any{"themes": []string{"cupcake"}}},
//		},
//	})
//
// Categories set directly under theme replace the default category, while
// categories under theme.extend are merged into it. Plugins register in the
// listed order and each sees the theme as left by the ones before it.
//
// # CLI Tool
//
// Install the CLI with:
//
//	go install github.com/yacobolo/stylecfg/cmd/stylecfg@latest
package stylecfg

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/yacobolo/stylecfg/internal/content"
	"github.com/yacobolo/stylecfg/internal/loader"
	"github.com/yacobolo/stylecfg/internal/logging"
	"github.com/yacobolo/stylecfg/internal/plugin"
	"github.com/yacobolo/stylecfg/internal/plugin/builtin"
	"github.com/yacobolo/stylecfg/internal/preset"
	"github.com/yacobolo/stylecfg/internal/registry"
	"github.com/yacobolo/stylecfg/internal/resolver"
)

// Re-exported types.
type (
	RawConfig      = resolver.RawConfig
	ResolvedConfig = resolver.ResolvedConfig
	Error          = resolver.Error
	State          = resolver.State
	Plugin         = plugin.Plugin
	Registry       = registry.Registry
	Catalog        = plugin.Catalog
	Engine         = resolver.Engine
)

// Error kinds, matched with errors.Is.
var (
	ErrInvalidContentPattern    = resolver.ErrInvalidContentPattern
	ErrInvalidThemeShape        = resolver.ErrInvalidThemeShape
	ErrInvalidPluginDescriptor  = resolver.ErrInvalidPluginDescriptor
	ErrPluginRegistrationFailed = resolver.ErrPluginRegistrationFailed
	ErrIncompleteDefaults       = resolver.ErrIncompleteDefaults
)

// Defaults returns a fresh copy of the framework defaults.
func Defaults() ResolvedConfig {
	return preset.Default()
}

// BuiltinCatalog returns the catalog of bundled plugins.
func BuiltinCatalog() plugin.MapCatalog {
	return builtin.Catalog()
}

// Resolve resolves raw against the framework defaults. Plugins named in raw
// are looked up in the bundled catalog unless opts set another one.
func Resolve(raw RawConfig, opts ...resolver.Option) (*ResolvedConfig, error) {
	all := append([]resolver.Option{resolver.WithCatalog(builtin.Catalog())}, opts...)
	return resolver.New(all...).Resolve(raw, preset.Default())
}

// Generator produces a stylesheet from a resolved configuration and the class
// names found in its content.
type Generator interface {
	Generate(ctx context.Context, cfg *ResolvedConfig, candidates []string) ([]byte, error)
}

type engine struct {
	*content.Scanner
	Generator
}

// NewEngine pairs the bundled content scanner with gen. gitignore names the
// ignore file honoured while scanning; empty disables ignore filtering.
func NewEngine(gen Generator, gitignore string, logger *slog.Logger) Engine {
	return &engine{
		Scanner:   content.NewScanner(content.WithGitIgnore(gitignore), content.WithLogger(logger)),
		Generator: gen,
	}
}

// Build resolves raw against the framework defaults and hands the result to e.
func Build(ctx context.Context, e Engine, raw RawConfig, opts ...resolver.Option) ([]byte, error) {
	all := append([]resolver.Option{resolver.WithCatalog(builtin.Catalog())}, opts...)
	return resolver.Build(ctx, e, resolver.New(all...), raw, preset.Default())
}

// Options configures ResolveFile.
type Options struct {
	ConfigPath   string            // configuration document, required
	KeyPath      string            // colon-separated path to the configuration inside the document
	DefaultsPath string            // optional document replacing the framework defaults
	Catalog      Catalog           // defaults to the bundled catalog
	Logger       *slog.Logger      // defaults to a discard logger
	Observer     resolver.Observer // optional state transition observer
}

// ResolveFile loads and resolves the configuration at opts.ConfigPath.
// Unknown top-level keys are reported as warnings.
func ResolveFile(opts Options) (*ResolvedConfig, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	catalog := opts.Catalog
	if catalog == nil {
		catalog = builtin.Catalog()
	}

	r := resolver.New(
		resolver.WithLogger(logger),
		resolver.WithCatalog(catalog),
		resolver.WithObserver(opts.Observer),
	)

	defaults := preset.Default()
	if opts.DefaultsPath != "" {
		d, err := loader.LoadDefaults(opts.DefaultsPath, "", r)
		if err != nil {
			return nil, err
		}
		defaults = d
		logger.Debug("loaded defaults", slog.String("path", opts.DefaultsPath))
	}

	doc, err := loader.LoadFile(opts.ConfigPath, opts.KeyPath)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded configuration", slog.String("path", doc.Path))

	cfg, err := r.Resolve(doc.Raw, defaults)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", doc.Path, err)
	}
	for _, key := range doc.Unknown {
		w := fmt.Sprintf("unknown key %q ignored", key)
		logger.Warn(w, slog.String("path", doc.Path))
		cfg.Warnings = append(cfg.Warnings, w)
	}
	return cfg, nil
}
