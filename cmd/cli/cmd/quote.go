// Package cmd - quote command
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"printshop-pricing/adapters/catalogfile"
	"printshop-pricing/core/engine"
)

var (
	catalogPath  string
	draftPath    string
	outputFormat string
)

// quoteCmd represents the quote command
var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Price a quote draft against a shop catalog",
	Long: `Price a quote draft against a shop catalog and print the result.

The catalog is an HCL file describing the shop's papers, materials, machines,
printing rates, finishing rates, and products. The draft is a JSON file with
the customer's item selections.

Examples:
  printshop quote --catalog shop.hcl --draft draft.json
  printshop quote --catalog shop.hcl --draft draft.json --format json`,
	RunE: runQuote,
}

func init() {
	quoteCmd.Flags().StringVarP(&catalogPath, "catalog", "c", "", "shop catalog HCL file (required)")
	quoteCmd.Flags().StringVarP(&draftPath, "draft", "d", "", "quote draft JSON file (required)")
	quoteCmd.Flags().StringVarP(&outputFormat, "format", "f", "cli", "output format (cli, json)")
	quoteCmd.MarkFlagRequired("catalog")
	quoteCmd.MarkFlagRequired("draft")
}

func runQuote(cmd *cobra.Command, args []string) error {
	cfg, err := catalogfile.LoadShopConfig(catalogPath)
	if err != nil {
		return err
	}
	draft, err := catalogfile.LoadDraft(draftPath)
	if err != nil {
		return err
	}

	result, err := engine.New().PreviewDraft(cfg, draft)
	if err != nil {
		return fmt.Errorf("preview draft: %w", err)
	}

	if outputFormat == "json" {
		return printJSON(result)
	}
	printDiagnostics(result)
	return nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printDiagnostics(result *engine.PricingDiagnostics) {
	if result.CanCalculate {
		fmt.Printf("Total: %s %.2f\n\n", result.Currency, result.Total)
		for _, line := range result.Lines {
			fmt.Printf("  %-50s %8.0f x %10.2f = %10.2f\n",
				line.Description, line.Quantity, line.UnitPrice, line.Amount)
		}
		return
	}

	fmt.Println("Cannot calculate a price yet.")
	if result.Reason != nil {
		fmt.Printf("Reason: %s\n", *result.Reason)
	}
	if len(result.MissingFields) > 0 {
		fmt.Println("\nMissing:")
		for _, f := range result.MissingFields {
			fmt.Printf("  - %s\n", f)
		}
	}
	if len(result.Suggestions) > 0 {
		fmt.Println("\nSuggestions:")
		for _, s := range result.Suggestions {
			fmt.Printf("  [%s] %s\n", s.Code, s.Message)
		}
	}
	if len(result.NeedsReviewItems) > 0 {
		fmt.Printf("\nItems needing review: %v\n", result.NeedsReviewItems)
	}
}
