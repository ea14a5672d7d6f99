// Package cmd - validate command
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"quote-engine/adapters/configfile"
)

// validateCmd checks a catalog file without computing a quote
var validateCmd = &cobra.Command{
	Use:   "validate [catalog-file]",
	Short: "Validate a catalog file",
	Long: `Parse a catalog file and run structural validation: duplicate codes,
dangling references, negative prices, and malformed parameter bounds.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := configfile.NewLoader().LoadCatalog(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Catalog %s is valid: %d products, %d setup items, %d modules\n",
			cat.Version, len(cat.Products), len(cat.SetupItems), len(cat.Modules))
		return nil
	},
}
