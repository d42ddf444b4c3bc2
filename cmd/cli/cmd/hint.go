// Package cmd - hint command
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"printshop-pricing/adapters/catalogfile"
	"printshop-pricing/core/engine"
)

var (
	hintCatalogPath string
	hintProductID   int64
	hintFormat      string
)

// hintCmd represents the hint command
var hintCmd = &cobra.Command{
	Use:   "hint",
	Short: "Show the price range hint for a catalog product",
	Long: `Show the price range a product can quote for across the shop's current
configuration, or what the shop still needs to configure.

Examples:
  printshop hint --catalog shop.hcl --product 3
  printshop hint --catalog shop.hcl --product 3 --format json`,
	RunE: runHint,
}

func init() {
	hintCmd.Flags().StringVarP(&hintCatalogPath, "catalog", "c", "", "shop catalog HCL file (required)")
	hintCmd.Flags().Int64VarP(&hintProductID, "product", "p", 0, "product id (required)")
	hintCmd.Flags().StringVarP(&hintFormat, "format", "f", "cli", "output format (cli, json)")
	hintCmd.MarkFlagRequired("catalog")
	hintCmd.MarkFlagRequired("product")
}

func runHint(cmd *cobra.Command, args []string) error {
	cfg, err := catalogfile.LoadShopConfig(hintCatalogPath)
	if err != nil {
		return err
	}

	hint, err := engine.New().ProductPriceHint(cfg, hintProductID)
	if err != nil {
		return fmt.Errorf("price hint: %w", err)
	}

	if hintFormat == "json" {
		return printJSON(hint)
	}

	fmt.Printf("Price: %s\n", hint.PriceDisplay)
	if !hint.CanCalculate {
		if hint.Reason != nil {
			fmt.Printf("Reason: %s\n", *hint.Reason)
		}
		for _, f := range hint.MissingFields {
			fmt.Printf("  - %s\n", f)
		}
	}
	return nil
}
