package main

import (
	"github.com/spf13/cobra"

	"github.com/sells-group/fraud-cli/internal/scoring"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the merchant categories the model accepts",
	RunE: func(cmd *cobra.Command, _ []string) error {
		format, _ := cmd.Flags().GetString("format")
		if err := checkFormat(format); err != nil {
			return err
		}

		p := scoring.NewCategoryProvider(newAPI(), cfg.API.CategoryTimeout())
		cats := p.Resolve(cmd.Context())

		if format == formatTable {
			formatCategories(cmd.OutOrStdout(), cats)
			return nil
		}
		return encode(cmd.OutOrStdout(), format, cats)
	},
}

func init() {
	categoriesCmd.Flags().String("format", formatTable, "output format: table, json or yaml")
	rootCmd.AddCommand(categoriesCmd)
}
