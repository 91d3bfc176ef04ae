// Package csstokens provides a plugin that imports CSS custom properties from
// existing stylesheets as design tokens.
//
// Properties declared in the configured selector (":root" by default) outside
// of conditional at-rules are added to the theme category inferred from their
// name:
//
//	--color-brand: #0ea5e9;   → colors.brand
//	--spacing-gutter: 1.5rem; → spacing.gutter
//	--font-size-huge: 4rem;   → fontSize.huge
//	--z-modal: 50;            → custom.z-modal
package csstokens

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"

	"github.com/yacobolo/stylecfg/internal/plugin"
	"github.com/yacobolo/stylecfg/internal/registry"
)

// Name is the catalog name of the plugin.
const Name = "css-tokens"

// ErrNoFiles is returned when the configured patterns match no stylesheet.
var ErrNoFiles = errors.New("no stylesheets matched")

// Options configures the plugin.
type Options struct {
	Files    []string `mapstructure:"files"`    // glob patterns, required
	Prefix   string   `mapstructure:"prefix"`   // stripped from property names, e.g. "app-"
	Selector string   `mapstructure:"selector"` // default ":root"
}

// Token is one custom property found in a stylesheet.
type Token struct {
	Property string // including the leading "--"
	Value    string
	File     string
}

// Plugin registers tokens parsed from stylesheets.
type Plugin struct {
	opts Options
}

// New creates the plugin. At least one file pattern is required.
func New(opts Options) (*Plugin, error) {
	if len(opts.Files) == 0 {
		return nil, errors.New("css-tokens: option files is required")
	}
	if opts.Selector == "" {
		opts.Selector = ":root"
	}
	return &Plugin{opts: opts}, nil
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
	files, err := expand(p.opts.Files)
	if err != nil {
		return err
	}

	categories := make(map[string]map[string]any)
	for _, file := range files {
		tokens, err := ParseFile(file, p.opts.Selector)
		if err != nil {
			return err
		}
		for _, tok := range tokens {
			category, key := Categorize(tok.Property, p.opts.Prefix)
			if categories[category] == nil {
				categories[category] = make(map[string]any)
			}
			// later files override earlier ones
			categories[category][key] = tok.Value
		}
	}

	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := r.Extend(name, categories[name]); err != nil {
			return err
		}
	}
	return nil
}

func expand(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		sort.Strings(matches)
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrNoFiles, patterns)
	}
	return files, nil
}

// ParseFile reads a stylesheet and returns its custom properties declared
// in selector.
func ParseFile(path, selector string) ([]Token, error) {
	// #nosec G304 - path comes from trusted configuration
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	tokens, err := Parse(content, selector)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for i := range tokens {
		tokens[i].File = path
	}
	return tokens, nil
}

// Parse returns the custom properties declared in rulesets matching selector,
// in source order.
func Parse(content []byte, selector string) ([]Token, error) {
	p := css.NewParser(parse.NewInputBytes(content), false)

	var (
		tokens   []Token
		atRules  []string
		rulesets []bool // whether each open ruleset matches selector
	)

	for {
		gt, _, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			if err := p.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("parse css: %w", err)
			}
			return tokens, nil
		case css.BeginAtRuleGrammar:
			atRules = append(atRules, strings.ToLower(string(data)))
		case css.EndAtRuleGrammar:
			if len(atRules) > 0 {
				atRules = atRules[:len(atRules)-1]
			}
		case css.BeginRulesetGrammar:
			rulesets = append(rulesets, unconditional(atRules) && matchesSelector(p.Values(), selector))
		case css.EndRulesetGrammar:
			if len(rulesets) > 0 {
				rulesets = rulesets[:len(rulesets)-1]
			}
		case css.CustomPropertyGrammar, css.DeclarationGrammar:
			if len(rulesets) == 0 || !rulesets[len(rulesets)-1] {
				continue
			}
			name := string(data)
			if !strings.HasPrefix(name, "--") {
				continue
			}
			tokens = append(tokens, Token{Property: name, Value: joinValues(p.Values())})
		}
	}
}

// unconditional reports whether the open at-rules only group rules (@layer)
// rather than apply them conditionally (@media, @supports).
func unconditional(atRules []string) bool {
	for _, name := range atRules {
		if name != "@layer" {
			return false
		}
	}
	return true
}

func matchesSelector(values []css.Token, selector string) bool {
	var sb strings.Builder
	for _, v := range values {
		sb.Write(v.Data)
	}
	for _, part := range strings.Split(sb.String(), ",") {
		if strings.TrimSpace(part) == selector {
			return true
		}
	}
	return false
}

func joinValues(values []css.Token) string {
	var sb strings.Builder
	for _, v := range values {
		sb.Write(v.Data)
	}
	return strings.TrimSpace(sb.String())
}

// categoryPrefixes maps name prefixes to theme categories; more specific prefixes come first.
var categoryPrefixes = []struct{ prefix, category string }{
	{"font-weight-", "fontWeight"},
	{"font-size-", "fontSize"},
	{"breakpoint-", "screens"},
	{"spacing-", "spacing"},
	{"rounded-", "borderRadius"},
	{"radius-", "borderRadius"},
	{"shadow-", "boxShadow"},
	{"screen-", "screens"},
	{"colors-", "colors"},
	{"color-", "colors"},
	{"space-", "spacing"},
	{"font-", "fontFamily"},
}

// bare maps prefix-only names ("--shadow") to a category's DEFAULT entry.
var bare = map[string]string{
	"shadow":  "boxShadow",
	"radius":  "borderRadius",
	"rounded": "borderRadius",
	"font":    "fontFamily",
}

// Categorize maps a custom property name to a theme category and key.
// prefix, when set, is stripped after the leading "--".
func Categorize(property, prefix string) (category, key string) {
	name := strings.TrimPrefix(property, "--")
	if prefix != "" {
		name = strings.TrimPrefix(name, prefix)
	}

	if c, ok := bare[name]; ok {
		return c, "DEFAULT"
	}
	for _, cp := range categoryPrefixes {
		if rest, ok := strings.CutPrefix(name, cp.prefix); ok && rest != "" {
			return cp.category, rest
		}
	}
	return "custom", name
}
