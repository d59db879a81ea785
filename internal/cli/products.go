package cli

import (
	"context"
	"fmt"
	"io"

	"sa-fashion-be/internal/product"
	"sa-fashion-be/internal/utils"

	"github.com/spf13/cobra"
)

func newProductsCommand() *cobra.Command {
	var filter product.Filter

	cmd := &cobra.Command{
		Use:   "products",
		Short: "List catalog products",
		RunE: func(cmd *cobra.Command, args []string) error {
			if filter.Category != "" {
				if _, err := product.ParseCategory(filter.Category); err != nil {
					return err
				}
			}

			ctx := cmd.Context()
			conn, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer conn.Close(context.Background())

			svc := product.NewService(product.NewRepository(conn))
			products, err := svc.List(ctx, filter)
			if err != nil {
				return err
			}
			printProducts(cmd.OutOrStdout(), products)
			return nil
		},
	}

	cmd.Flags().StringVarP(&filter.Query, "query", "q", "", "case-insensitive pattern matched against title, brand and description")
	cmd.Flags().StringVar(&filter.Category, "category", "", "clothing, shoes or accessories")

	return cmd
}

func printProducts(w io.Writer, products []*product.Product) {
	if len(products) == 0 {
		fmt.Fprintln(w, "📭 No products found")
		return
	}

	fmt.Fprintf(w, "📦 %d product(s)\n", len(products))
	for _, p := range products {
		stock := "in stock"
		if !p.InStock {
			stock = "out of stock"
		}
		fmt.Fprintf(w, "  %-36s  %-20s  %-12s  R %10s  %s\n",
			p.ID, utils.Truncate(p.Title, 20), p.Category, p.Price.StringFixed(2), stock)
		if brand := utils.PtrString(p.Brand); brand != "" {
			fmt.Fprintf(w, "  %-36s  by %s\n", "", brand)
		}
	}
}
