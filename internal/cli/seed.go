package cli

import (
	"context"
	"fmt"

	"sa-fashion-be/internal/product"

	"github.com/spf13/cobra"
)

func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the demo products into an empty catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			conn, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer conn.Close(context.Background())

			seeded, err := product.NewService(product.NewRepository(conn)).SeedIfEmpty(ctx)
			if err != nil {
				return fmt.Errorf("failed to seed catalog: %w", err)
			}

			if seeded {
				fmt.Fprintf(cmd.OutOrStdout(), "🌱 Seeded %d demo products\n", len(product.DemoProducts()))
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "⏭ Catalog already has products, nothing to seed")
			}
			return nil
		},
	}
}
