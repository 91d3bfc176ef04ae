package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/stylecfg/internal/plugin"
	"github.com/yacobolo/stylecfg/internal/registry"
	"github.com/yacobolo/stylecfg/internal/resolver"
	"github.com/yacobolo/stylecfg/internal/theme"
)

func sampleConfig() *resolver.ResolvedConfig {
	return &resolver.ResolvedConfig{
		Content: []string{"./internal/web/views/*.templ"},
		Theme: theme.Tree{
			"colors":  map[string]any{"white": "#fff", "blue": map[string]any{"500": "#3b82f6"}},
			"spacing": map[string]any{"4": "1rem"},
		},
		Plugins: []plugin.Plugin{plugin.New("typography", func(*registry.Registry) error { return nil })},
		Variants: []registry.Variant{
			{Name: "hover", Selector: "&:hover", Source: "core"},
		},
		Utilities: []registry.Utility{
			{Name: "block", Layer: registry.LayerUtilities, Declarations: registry.Declarations{"display": "block"}, Source: "core"},
			{Name: "prose", Layer: registry.LayerComponents, Declarations: registry.Declarations{"maxWidth": "65ch"}, Source: "typography"},
		},
		Warnings: []string{"duplicate content pattern"},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"YAML", FormatYAML, false},
		{"yml", FormatYAML, false},
		{"json", FormatJSON, false},
		{"markdown", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuild(t *testing.T) {
	doc := Build(sampleConfig())

	assert.Equal(t, SchemaVersion, doc.Version)
	assert.Equal(t, []string{"typography"}, doc.Plugins)
	assert.Equal(t, 2, doc.Summary.Categories)
	assert.Equal(t, 3, doc.Summary.Tokens)
	assert.Equal(t, map[string]int{"utilities": 1, "components": 1}, doc.Summary.Utilities)
	assert.Equal(t, "typography", doc.Utilities[1].Source)
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleConfig(), FormatJSON, false))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "1.0", got["version"])
	assert.Equal(t, []any{"typography"}, got["plugins"])
	assert.Contains(t, got["theme"], "colors")
}

func TestWrite_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleConfig(), FormatYAML, false))

	var got Document
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, []string{"./internal/web/views/*.templ"}, got.Content)
	assert.Len(t, got.Utilities, 2)
	assert.Equal(t, "65ch", got.Utilities[1].Declarations["maxWidth"])
}

func TestWrite_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleConfig(), FormatText, false))
	out := buf.String()

	assert.Contains(t, out, "Content\n  ./internal/web/views/*.templ\n")
	assert.Contains(t, out, "colors")
	assert.Contains(t, out, "2 tokens")
	assert.Contains(t, out, "1. typography")
	assert.Contains(t, out, "(typography: 1)")
	assert.Contains(t, out, "Warnings\n  - duplicate content pattern\n")
	assert.NotContains(t, out, "\x1b[", "no escape codes without colours")
}

func TestWrite_TextEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, &resolver.ResolvedConfig{}, FormatText, false))
	assert.Contains(t, buf.String(), "(none)")
	assert.NotContains(t, buf.String(), "Warnings")
}

func TestWriteTheme(t *testing.T) {
	cfg := sampleConfig()

	var buf bytes.Buffer
	require.NoError(t, WriteTheme(&buf, cfg.Theme, []string{"colors"}, FormatText))
	assert.Equal(t, "colors.blue.500 = #3b82f6\ncolors.white = #fff\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteTheme(&buf, cfg.Theme, []string{"spacing", "4"}, FormatText))
	assert.Equal(t, "spacing.4 = 1rem\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteTheme(&buf, cfg.Theme, []string{"colors", "blue"}, FormatJSON))
	assert.JSONEq(t, `{"500": "#3b82f6"}`, buf.String())

	require.Error(t, WriteTheme(&buf, cfg.Theme, []string{"fontSize"}, FormatText))
}

func TestWriteError(t *testing.T) {
	_, err := resolver.Resolve(resolver.RawConfig{Content: []any{""}}, *sampleConfig())
	require.Error(t, err)

	var buf bytes.Buffer
	WriteError(&buf, err, false)
	out := buf.String()
	assert.Contains(t, out, "error: invalid content pattern")
	assert.Contains(t, out, "at:     content[0]")
	assert.Contains(t, out, "phase:  validating")

	buf.Reset()
	WriteError(&buf, errors.New("plain"), false)
	assert.Equal(t, "error: plain\n", buf.String())
}

func TestRenderStyle(t *testing.T) {
	assert.Equal(t, "x", RenderStyle(StyleRed, "x", false))
}

func TestShouldUseColors(t *testing.T) {
	assert.True(t, ShouldUseColors(true))

	t.Setenv("NO_COLOR", "1")
	t.Setenv("FORCE_COLOR", "1")
	assert.False(t, ShouldUseColors(false))
}
