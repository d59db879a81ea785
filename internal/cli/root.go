package cli

import (
	"context"
	"fmt"
	"os"

	"sa-fashion-be/internal/config"
	"sa-fashion-be/internal/db"
	"sa-fashion-be/internal/logger"

	"github.com/spf13/cobra"
)

// connectFunc opens the configured store. Tests replace it.
var connectFunc = db.Connect

// NewRootCommand builds the storectl command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "storectl",
		Short: "SA Fashion Store operations tool",
		Long: `storectl prices carts offline and inspects the store catalog and orders.

The quote command needs no database. The other commands connect using
DATABASE_URL from the environment or a .env file.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newQuoteCommand(),
		newProductsCommand(),
		newSeedCommand(),
		newOrderCommand(),
	)
	return root
}

// Execute runs the root command
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openStore connects to the configured store. Unlike the server, commands
// that need storage fail when it is unreachable.
func openStore(ctx context.Context) (*db.Conn, error) {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)

	conn, err := connectFunc(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return conn, nil
}
