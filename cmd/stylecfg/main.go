// Package main provides the stylecfg CLI for resolving and inspecting
// utility-class CSS configurations.
package main

import (
	"os"

	"github.com/yacobolo/stylecfg/internal/report"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !getBoolWithFallback("quiet", "quiet", false) {
			report.WriteError(os.Stderr, err, useColors())
		}
		os.Exit(1)
	}
}
