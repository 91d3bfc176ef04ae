package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yacobolo/stylecfg/internal/report"
)

var errWarnings = errors.New("configuration has warnings")

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configuration",
	Long: `Resolve the configuration without printing it. Exits non-zero when
resolution fails, or on any warning in strict mode (CI mode).`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		s, err := buildSettings()
		if err != nil {
			return err
		}

		cfg, err := resolveInput(s, newLogger(s))
		if err != nil {
			return err
		}

		colors := useColors()
		if !s.Quiet {
			for _, w := range cfg.Warnings {
				fmt.Printf("%s %s\n", report.RenderStyle(report.StyleYellow, "warning:", colors), w)
			}
			fmt.Printf("%s %s (%d plugins, %d warnings)\n",
				report.RenderStyle(report.StyleGreen, "ok:", colors), s.Input, len(cfg.Plugins), len(cfg.Warnings))
		}

		strict := getBoolWithFallback("strict", "check.strict", false)
		if strict && len(cfg.Warnings) > 0 {
			return fmt.Errorf("%w: %d", errWarnings, len(cfg.Warnings))
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().Bool("strict", false, "Exit 1 on any warning (CI mode)")
}
