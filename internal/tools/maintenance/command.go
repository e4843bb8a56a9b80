package maintenance

import (
	"context"
	"io"

	"github.com/spf13/cobra"
)

// NewCommand builds the maintenance command tree. Flags override cfg, which
// carries the environment defaults.
func NewCommand(cfg Config, open Opener, out io.Writer, errOut io.Writer) *cobra.Command {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}

	root := &cobra.Command{
		Use:           "maintenance",
		Short:         "Storefront backend maintenance",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.PersistentFlags().StringVar(&cfg.DatabaseURL, "database-url", cfg.DatabaseURL, "backend Postgres connection URL")
	root.PersistentFlags().DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "overall timeout")
	root.PersistentFlags().BoolVar(&cfg.JSONOutput, "json", cfg.JSONOutput, "output JSON reports")

	storeCommand := func(run func(context.Context, Store) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd.Context(), cfg, open, errOut, run)
		}
	}

	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create the cache_version table and seed its row",
		Args:  cobra.NoArgs,
		RunE: storeCommand(func(ctx context.Context, store Store) error {
			return runMigrate(ctx, store, cfg.JSONOutput, out)
		}),
	})
	root.AddCommand(&cobra.Command{
		Use:   "bump-cache-version",
		Short: "Increment the cache version so storefronts purge their caches",
		Args:  cobra.NoArgs,
		RunE: storeCommand(func(ctx context.Context, store Store) error {
			return runBumpCacheVersion(ctx, store, cfg.JSONOutput, out)
		}),
	})
	root.AddCommand(&cobra.Command{
		Use:   "check-products",
		Short: "Print product, published product and variant counts",
		Args:  cobra.NoArgs,
		RunE: storeCommand(func(ctx context.Context, store Store) error {
			return runCheckProducts(ctx, store, cfg.JSONOutput, out, errOut)
		}),
	})

	var dryRun bool
	clean := &cobra.Command{
		Use:   "clean-inventory-items",
		Short: "Delete inventory items not linked to any variant",
		Args:  cobra.NoArgs,
		RunE: storeCommand(func(ctx context.Context, store Store) error {
			return runCleanInventoryItems(ctx, store, dryRun, cfg.JSONOutput, out)
		}),
	}
	clean.Flags().BoolVar(&dryRun, "dry-run", false, "count orphans without deleting")
	root.AddCommand(clean)

	return root
}
