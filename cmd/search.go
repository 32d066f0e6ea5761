package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	searchTopK     int
	searchCategory string
)

var searchCmd = &cobra.Command{
	Use:   "search QUERY...",
	Short: "Query the semantic product catalog",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEngine(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		query := strings.Join(args, " ")
		hits, err := env.Catalog.Search(ctx, query, searchTopK, searchCategory)
		if err != nil {
			return err
		}
		if len(hits) == 0 {
			fmt.Println("No results found.")
			return nil
		}

		for i, hit := range hits {
			price := "N/A"
			if hit.Price != nil {
				price = fmt.Sprintf("%g€", *hit.Price)
			}
			fmt.Printf("  %d. [%.2f%%] %s  —  %s  (%s > %s)\n",
				i+1, hit.ConfidenceScore*100, hit.Name, price, hit.Category, hit.Subcategory)
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "k", 5, "number of results")
	searchCmd.Flags().StringVar(&searchCategory, "category", "", "filter by category")
	rootCmd.AddCommand(searchCmd)
}
