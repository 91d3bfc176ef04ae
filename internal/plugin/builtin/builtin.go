// Package builtin wires the bundled plugins into a catalog so configuration
// files can name them.
package builtin

import (
	"github.com/yacobolo/stylecfg/internal/plugin"
	"github.com/yacobolo/stylecfg/internal/plugin/csstokens"
	"github.com/yacobolo/stylecfg/internal/plugin/daisyui"
	"github.com/yacobolo/stylecfg/internal/plugin/typography"
)

// Catalog returns a fresh catalog of the bundled plugins. Callers may add
// their own factories to the returned map.
func Catalog() plugin.MapCatalog {
	return plugin.MapCatalog{
		typography.Name:           typography.Factory,
		"@tailwindcss/typography": typography.Factory,
		daisyui.Name:              daisyui.Factory,
		csstokens.Name:            csstokens.Factory,
	}
}
