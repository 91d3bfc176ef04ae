package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/stylecfg/internal/plugin/builtin"
	"github.com/yacobolo/stylecfg/internal/resolver"
)

const configYAML = `
content:
  - ./internal/web/views/*.templ
theme:
  extend:
    colors:
      brand: "#0ea5e9"
plugins:
  - "@tailwindcss/typography"
  - name: daisyui
    options:
      themes: [light]
darkMode: class
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, "stylecfg.config.yaml", configYAML)

	doc, err := LoadFile(path, "")
	require.NoError(t, err)

	assert.Equal(t, path, doc.Path)
	assert.Equal(t, []string{"darkMode"}, doc.Unknown)
	assert.Equal(t, []any{"./internal/web/views/*.templ"}, doc.Raw.Content)

	th, ok := doc.Raw.Theme.(map[string]any)
	require.True(t, ok)
	assert.Contains(t, th, "extend")

	plugins, ok := doc.Raw.Plugins.([]any)
	require.True(t, ok)
	assert.Len(t, plugins, 2)
	assert.Equal(t, "@tailwindcss/typography", plugins[0])
}

func TestLoadFile_JSON(t *testing.T) {
	path := writeFile(t, "stylecfg.config.json", `{"content": ["./a/*.html"], "theme": {"extend": {}}, "plugins": []}`)

	raw, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, []any{"./a/*.html"}, raw.Content)
	assert.Equal(t, []any{}, raw.Plugins)
}

func TestLoadFile_KeyPath(t *testing.T) {
	path := writeFile(t, "project.yaml", `
name: site
tools:
  stylecfg:
    content: ["./views/*.templ"]
`)

	raw, err := Load(path, "tools:stylecfg")
	require.NoError(t, err)
	assert.Equal(t, []any{"./views/*.templ"}, raw.Content)
	assert.Nil(t, raw.Theme)
	assert.Nil(t, raw.Plugins)

	_, err = Load(path, "tools:other")
	require.ErrorIs(t, err, ErrPathNotFound)
}

func TestLoadFile_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), "")
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("directory", func(t *testing.T) {
		_, err := Load(t.TempDir(), "")
		require.ErrorIs(t, err, ErrPathIsDirectory)
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := Load(writeFile(t, "empty.yaml", "  \n"), "")
		require.ErrorIs(t, err, ErrEmptyData)
	})

	t.Run("list document", func(t *testing.T) {
		_, err := Load(writeFile(t, "list.yaml", "- a\n- b\n"), "")
		require.ErrorIs(t, err, ErrNotMapping)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := Load(writeFile(t, "bad.yaml", "content: [unclosed\n"), "")
		require.Error(t, err)
	})
}

func TestDecode_NullDocument(t *testing.T) {
	doc, err := Decode([]byte("~\n"), NewYAMLParser(), "")
	require.NoError(t, err)
	assert.Equal(t, resolver.RawConfig{}, doc.Raw)
	assert.Empty(t, doc.Unknown)
}

func TestFileFetcher_ReturnsCopies(t *testing.T) {
	f, err := NewFileFetcher(writeFile(t, "a.yaml", "content: []\n"))
	require.NoError(t, err)

	first, err := f.Fetch()
	require.NoError(t, err)
	first[0] = 'X'

	second, err := f.Fetch()
	require.NoError(t, err)
	assert.Equal(t, "content: []\n", string(second))
}

func TestToYAMLPath(t *testing.T) {
	assert.Equal(t, "$.tools", toYAMLPath("tools"))
	assert.Equal(t, "$.tools.stylecfg", toYAMLPath("tools:stylecfg"))
}

func TestLoadDefaults(t *testing.T) {
	path := writeFile(t, "defaults.yaml", `
content: ["./templates/**/*.html"]
theme:
  extend:
    colors:
      brand: "#0ea5e9"
plugins: [typography]
`)

	defaults, err := LoadDefaults(path, "", resolver.New(resolver.WithCatalog(builtin.Catalog())))
	require.NoError(t, err)

	assert.Equal(t, []string{"./templates/**/*.html"}, defaults.Content)
	v, ok := defaults.Theme.Lookup("colors", "brand")
	require.True(t, ok)
	assert.Equal(t, "#0ea5e9", v)
	_, ok = defaults.Theme.Lookup("spacing", "4")
	assert.True(t, ok, "preset categories fill in the rest")
	require.Len(t, defaults.Plugins, 1)
	assert.Equal(t, "typography", defaults.Plugins[0].Name())

	cfg, err := resolver.Resolve(resolver.RawConfig{}, defaults)
	require.NoError(t, err)
	assert.Equal(t, defaults.Content, cfg.Content)
}

func TestLoadDefaults_UnknownPluginWithoutCatalog(t *testing.T) {
	path := writeFile(t, "defaults.yaml", "plugins: [typography]\n")

	_, err := LoadDefaults(path, "", nil)
	require.ErrorIs(t, err, resolver.ErrInvalidPluginDescriptor)
}
