package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/knadh/koanf/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/stylecfg"
	"github.com/yacobolo/stylecfg/internal/report"
)

// resetKoanf creates a fresh koanf instance for each test.
func resetKoanf() {
	k = koanf.New(".")
}

// chdir switches to dir for the rest of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	origDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(origDir)
	})
}

func TestConfigFileLoading(t *testing.T) {
	resetKoanf()

	dir := t.TempDir()
	configPath := filepath.Join(dir, ".stylecfg.yaml")
	configContent := `
verbose: true

source:
  input: web/stylecfg.yaml
  path: tools:styles
  defaults: web/defaults.yaml

output:
  format: json

log:
  format: json
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))
	require.NoError(t, loadConfigFromPath(configPath))

	s, err := buildSettings()
	require.NoError(t, err)
	assert.Equal(t, "web/stylecfg.yaml", s.Input)
	assert.Equal(t, "tools:styles", s.KeyPath)
	assert.Equal(t, "web/defaults.yaml", s.Defaults)
	assert.Equal(t, report.FormatJSON, s.Format)
	assert.Equal(t, "json", s.LogFormat)
	assert.True(t, s.Verbose)
	assert.Equal(t, "debug", s.LogLevel, "verbose forces debug logging")
}

func TestConfigFileNotFound_UsesDefaults(t *testing.T) {
	resetKoanf()

	// a missing settings file is not an error
	require.NoError(t, loadConfigFromPath("/nonexistent/.stylecfg.yaml"))

	s, err := buildSettings()
	require.NoError(t, err)
	assert.Equal(t, defaultInput, s.Input)
	assert.Empty(t, s.KeyPath)
	assert.Empty(t, s.Defaults)
	assert.Equal(t, report.FormatText, s.Format)
	assert.Equal(t, "error", s.LogLevel)
	assert.Equal(t, "text", s.LogFormat)
	assert.False(t, s.Quiet)
}

func TestEnvVarOverridesConfigFile(t *testing.T) {
	resetKoanf()

	dir := t.TempDir()
	configPath := filepath.Join(dir, ".stylecfg.yaml")
	configContent := `
source:
  input: from-file.yaml
log:
  level: info
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	t.Setenv("STYLECFG_SOURCE_INPUT", "from-env.yaml")
	t.Setenv("STYLECFG_LOG_LEVEL", "warn")

	require.NoError(t, loadConfigFromPath(configPath))

	s, err := buildSettings()
	require.NoError(t, err)
	assert.Equal(t, "from-env.yaml", s.Input)
	assert.Equal(t, "warn", s.LogLevel)
}

func TestBuildSettings_UnknownFormat(t *testing.T) {
	resetKoanf()
	require.NoError(t, k.Set("format", "xml"))

	_, err := buildSettings()
	require.ErrorIs(t, err, report.ErrUnknownFormat)
}

func TestGetStringsWithFallback(t *testing.T) {
	resetKoanf()
	assert.Equal(t, []string{"a"}, getStringsWithFallback("exclude", "scan.exclude", []string{"a"}))

	require.NoError(t, k.Set("scan.exclude", []string{"b"}))
	assert.Equal(t, []string{"b"}, getStringsWithFallback("exclude", "scan.exclude", nil))

	require.NoError(t, k.Set("exclude", []string{"c"}))
	assert.Equal(t, []string{"c"}, getStringsWithFallback("exclude", "scan.exclude", nil))
}

func TestInitCommand_CreatesConfigFile(t *testing.T) {
	chdir(t, t.TempDir())

	cmd := rootCmd
	cmd.SetArgs([]string{"init"})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(defaultInput)
	require.NoError(t, err)
	assert.Contains(t, string(data), "content:")
	assert.Contains(t, string(data), "extend: {}")
	assert.Contains(t, string(data), "daisyui")

	data, err = os.ReadFile(".stylecfg.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "source:")
	assert.Contains(t, string(data), "log:")
}

func TestInitCommand_RefusesOverwrite(t *testing.T) {
	chdir(t, t.TempDir())
	require.NoError(t, os.WriteFile(defaultInput, []byte("content: []\n"), 0644))

	cmd := rootCmd
	cmd.SetArgs([]string{"init"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	data, err := os.ReadFile(defaultInput)
	require.NoError(t, err)
	assert.Equal(t, "content: []\n", string(data), "existing file is untouched")
}

func TestInitCommand_ConfigResolves(t *testing.T) {
	resetKoanf()
	chdir(t, t.TempDir())
	require.NoError(t, os.WriteFile("init.yaml", []byte(defaultConfig), 0644))

	cfg, err := stylecfg.ResolveFile(stylecfg.Options{ConfigPath: "init.yaml"})
	require.NoError(t, err)
	assert.Equal(t, []string{"./internal/web/views/*.templ"}, cfg.Content)
	require.Len(t, cfg.Plugins, 2)
	assert.Equal(t, "typography", cfg.Plugins[0].Name())
	assert.Equal(t, "daisyui", cfg.Plugins[1].Name())
}

func TestCheckCommand(t *testing.T) {
	resetKoanf()
	dir := t.TempDir()
	chdir(t, dir)

	valid := filepath.Join(dir, "valid.yaml")
	require.NoError(t, os.WriteFile(valid, []byte(`
content:
  - ./views/*.templ
  - ./views/*.templ
theme:
  extend:
    colors:
      brand: "#0ea5e9"
`), 0644))

	rootCmd.SetArgs([]string{"check", "--quiet", "--strict=false", "-i", valid})
	require.NoError(t, rootCmd.Execute())

	resetKoanf()
	rootCmd.SetArgs([]string{"check", "--quiet", "--strict", "-i", valid})
	err := rootCmd.Execute()
	require.ErrorIs(t, err, errWarnings, "duplicate content pattern warns")

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("content: [\"\"]\n"), 0644))

	resetKoanf()
	rootCmd.SetArgs([]string{"check", "--quiet", "--strict=false", "-i", invalid})
	err = rootCmd.Execute()
	require.Error(t, err)
	assert.True(t, errors.Is(err, stylecfg.ErrInvalidContentPattern))
}
