package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yacobolo/stylecfg"
)

var pluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "List the bundled plugins",
	Long:  `List the plugin names that configuration files can reference.`,
	Run: func(_ *cobra.Command, _ []string) {
		for _, name := range stylecfg.BuiltinCatalog().Names() {
			fmt.Println(name)
		}
	},
}
