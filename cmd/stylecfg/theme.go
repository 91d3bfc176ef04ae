package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yacobolo/stylecfg/internal/report"
	"github.com/yacobolo/stylecfg/internal/theme"
)

var themeCmd = &cobra.Command{
	Use:   "theme [path]",
	Short: "Print resolved theme tokens",
	Long: `Print the resolved theme, or the subtree at a dotted token path such as
colors.blue.500 or spacing. Keys containing dots can be bracketed:
spacing[2.5].`,
	Example: `  stylecfg theme colors
  stylecfg theme 'spacing[2.5]' -f json`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: func(_ *cobra.Command, args []string) error {
		s, err := buildSettings()
		if err != nil {
			return err
		}

		var path []string
		if len(args) == 1 {
			if path, err = theme.ParsePath(args[0]); err != nil {
				return err
			}
		}

		cfg, err := resolveInput(s, newLogger(s))
		if err != nil {
			return err
		}
		if s.Quiet {
			return nil
		}
		return report.WriteTheme(os.Stdout, cfg.Theme, path, s.Format)
	},
}
