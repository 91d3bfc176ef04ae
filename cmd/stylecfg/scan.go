package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yacobolo/stylecfg/internal/content"
	"github.com/yacobolo/stylecfg/internal/report"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List class names used in content files",
	Long: `Expand the resolved content patterns and extract class-name candidates
from class and className attributes and templ.Classes/templ.KV calls.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := buildSettings()
		if err != nil {
			return err
		}
		logger := newLogger(s)

		cfg, err := resolveInput(s, logger)
		if err != nil {
			return err
		}

		patterns := append(append([]string{}, cfg.Content...),
			getStringsWithFallback("exclude", "scan.exclude", nil)...)
		for i := len(cfg.Content); i < len(patterns); i++ {
			patterns[i] = "!" + patterns[i]
		}

		scanner := content.NewScanner(
			content.WithGitIgnore(getStringWithFallback("gitignore", "scan.gitignore", ".gitignore")),
			content.WithLogger(logger),
		)
		candidates, stats, err := scanner.Candidates(cmd.Context(), patterns)
		if err != nil {
			return fmt.Errorf("scan content: %w", err)
		}

		if s.Quiet {
			return nil
		}
		locations := getBoolWithFallback("locations", "scan.locations", false)
		return report.WriteScan(os.Stdout, candidates, stats, s.Format, locations, useColors())
	},
}

func init() {
	f := scanCmd.Flags()
	f.String("gitignore", ".gitignore", "Ignore file to honour")
	f.StringSlice("exclude", nil, "Additional glob patterns to exclude")
	f.Bool("locations", false, "Print file:line:column for every occurrence")
}
