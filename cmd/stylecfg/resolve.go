package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yacobolo/stylecfg/internal/report"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve the configuration and print the result",
	Long: `Validate the configuration document, merge its theme onto the defaults
and register its plugins. Prints the resolved content patterns, theme,
plugins and registry in the selected format.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runResolve,
}

func runResolve(_ *cobra.Command, _ []string) error {
	s, err := buildSettings()
	if err != nil {
		return err
	}

	cfg, err := resolveInput(s, newLogger(s))
	if err != nil {
		return err
	}

	if s.Quiet {
		return nil
	}
	return report.Write(os.Stdout, cfg, s.Format, useColors())
}
