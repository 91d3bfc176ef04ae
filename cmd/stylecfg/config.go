package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yacobolo/stylecfg"
	"github.com/yacobolo/stylecfg/internal/logging"
	"github.com/yacobolo/stylecfg/internal/report"
)

const defaultInput = "stylecfg.config.yaml"

var k = koanf.New(".")

// loadConfig loads settings with precedence: flags > env > file > defaults.
// It must be called after cobra parses flags (in PreRunE or RunE).
func loadConfig(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = ".stylecfg.yaml"
	}

	if err := loadConfigFromPath(configPath); err != nil {
		return err
	}

	// only flags that were explicitly set; defaults must not shadow file or env values
	flags := cmd.Flags()
	provider := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
		if !f.Changed {
			return "", nil
		}
		return f.Name, posflag.FlagVal(flags, f)
	})
	if err := k.Load(provider, nil); err != nil {
		return fmt.Errorf("loading command flags: %w", err)
	}

	return nil
}

// loadConfigFromPath loads settings from a file and environment variables.
// This is separated from loadConfig to allow testing without a cobra command.
func loadConfigFromPath(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return fmt.Errorf("loading config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("STYLECFG_", ".", func(s string) string {
		// STYLECFG_SOURCE_INPUT -> source.input
		// STYLECFG_LOG_LEVEL -> log.level
		// STYLECFG_VERBOSE -> verbose
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, "STYLECFG_")),
			"_", ".",
		)
	}), nil); err != nil {
		return fmt.Errorf("loading environment variables: %w", err)
	}

	return nil
}

// settings is the tool configuration assembled from koanf state.
type settings struct {
	Input     string
	KeyPath   string
	Defaults  string
	Format    report.Format
	LogLevel  string
	LogFormat string
	Verbose   bool
	Quiet     bool
}

func buildSettings() (settings, error) {
	format, err := report.ParseFormat(getStringWithFallback("format", "output.format", "text"))
	if err != nil {
		return settings{}, err
	}

	s := settings{
		Input:     getStringWithFallback("input", "source.input", defaultInput),
		KeyPath:   getStringWithFallback("key-path", "source.path", ""),
		Defaults:  getStringWithFallback("defaults", "source.defaults", ""),
		Format:    format,
		LogLevel:  getStringWithFallback("log-level", "log.level", "error"),
		LogFormat: getStringWithFallback("log-format", "log.format", logging.FormatText),
		Verbose:   getBoolWithFallback("verbose", "verbose", false),
		Quiet:     getBoolWithFallback("quiet", "quiet", false),
	}
	if s.Verbose {
		s.LogLevel = "debug"
	}
	return s, nil
}

func newLogger(s settings) *slog.Logger {
	return logging.NewLogger(logging.Config{Level: s.LogLevel, Format: s.LogFormat}, os.Stderr)
}

// resolveInput resolves the configuration document named by s.
func resolveInput(s settings, logger *slog.Logger) (*stylecfg.ResolvedConfig, error) {
	return stylecfg.ResolveFile(stylecfg.Options{
		ConfigPath:   s.Input,
		KeyPath:      s.KeyPath,
		DefaultsPath: s.Defaults,
		Logger:       logger,
	})
}

func useColors() bool {
	return report.ShouldUseColors(getBoolWithFallback("color", "color", false))
}

// getStringWithFallback checks the flag key first, then the config file key, then returns the default.
func getStringWithFallback(flagKey, configKey, defaultVal string) string {
	if v := k.String(flagKey); v != "" {
		return v
	}
	if v := k.String(configKey); v != "" {
		return v
	}
	return defaultVal
}

// getBoolWithFallback checks the flag key first, then the config file key, then returns the default.
func getBoolWithFallback(flagKey, configKey string, defaultVal bool) bool {
	if k.Exists(flagKey) {
		return k.Bool(flagKey)
	}
	if k.Exists(configKey) {
		return k.Bool(configKey)
	}
	return defaultVal
}

// getStringsWithFallback checks the flag key first, then the config file key, then returns the default.
func getStringsWithFallback(flagKey, configKey string, defaultVal []string) []string {
	if v := k.Strings(flagKey); len(v) > 0 {
		return v
	}
	if v := k.Strings(configKey); len(v) > 0 {
		return v
	}
	return defaultVal
}
