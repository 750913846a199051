package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/yourusername/shopadmin/internal/storefront"
	"github.com/yourusername/shopadmin/pkg/catalog"
)

func newProductsCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Print the public product list",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.apiClient(nil)
			if err != nil {
				return err
			}

			list := storefront.New(c, a.logger)
			list.Mount(cmd.Context())
			products := list.Products()

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(products)
			}
			if len(products) == 0 {
				_, err := fmt.Fprintln(out, "No products available.")
				return err
			}
			_, err = fmt.Fprintln(out, productTable(products))
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func productTable(products []catalog.Product) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME", "CATEGORY", "PRICE", "OFFER", "STOCK")
	for _, p := range products {
		t.Row(
			p.ID,
			p.Name,
			p.Category,
			strconv.FormatFloat(p.Price, 'f', 2, 64),
			p.Offer.String(),
			strconv.Itoa(p.TotalStock()),
		)
	}
	return t.Render()
}
