package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate default configuration files",
	Long: `Create stylecfg.config.yaml and a .stylecfg.yaml settings file in the
current directory with sensible defaults.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		force, _ := cmd.Flags().GetBool("force")

		files := []struct{ name, body string }{
			{defaultInput, defaultConfig},
			{".stylecfg.yaml", defaultSettings},
		}
		for _, f := range files {
			if _, err := os.Stat(f.name); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", f.name)
			}
		}
		for _, f := range files {
			if err := os.WriteFile(f.name, []byte(f.body), 0644); err != nil {
				return fmt.Errorf("writing %s: %w", f.name, err)
			}
			fmt.Printf("Created %s\n", f.name)
		}
		return nil
	},
}

const defaultConfig = `# stylecfg configuration
content:
  - ./internal/web/views/*.templ
theme:
  extend: {}
plugins:
  - "@tailwindcss/typography"
  - daisyui
`

const defaultSettings = `# stylecfg settings
source:
  input: stylecfg.config.yaml
  path: ""                 # colon-separated path inside the input document
  defaults: ""             # document replacing the framework defaults

output:
  format: text             # text | yaml | json

log:
  level: error             # debug | info | warn | error
  format: text             # text | json

check:
  strict: false

scan:
  gitignore: .gitignore
  locations: false
  exclude: []
`

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite existing files")
}
