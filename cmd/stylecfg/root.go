package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stylecfg",
	Short: "Configuration resolver for utility-class CSS builds",
	Long: `Resolve a utility-class CSS configuration against the framework defaults.
Theme categories set directly replace the defaults, categories under
theme.extend are merged into them, and plugins register in order.`,
	// Default behavior: run resolve when no subcommand is given.
	// PreRunE of resolveCmd is not triggered when delegating via rootCmd.RunE.
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := loadConfig(cmd); err != nil {
			return err
		}
		return runResolve(cmd, nil)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags (inherited by all subcommands)
	pf := rootCmd.PersistentFlags()
	pf.BoolP("verbose", "v", false, "Enable debug logging")
	pf.Bool("quiet", false, "Suppress all output (exit code only)")
	pf.Bool("color", false, "Force color output")
	pf.String("config", ".stylecfg.yaml", "Settings file path")
	pf.StringP("input", "i", defaultInput, "Configuration document to resolve")
	pf.String("key-path", "", "Colon-separated path to the configuration inside the document")
	pf.String("defaults", "", "Document replacing the framework defaults")
	pf.StringP("format", "f", "text", "Output format: text|yaml|json")
	pf.String("log-level", "error", "Log level: debug|info|warn|error")
	pf.String("log-format", "text", "Log format: text|json")

	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(themeCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(pluginsCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}
