package cli

import (
	"context"
	"io"

	"inventory-sync/internal/app/usecases"
	"inventory-sync/internal/config"

	"github.com/spf13/cobra"
)

type SyncOptions struct {
	ClientOptions
	CreateMissing bool
	ComparePrice  bool
}

// NewSyncCommand reconciles full catalogs and applies the differences.
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SyncOptions{ClientOptions: ClientOptions{RootOptions: rootOpts}}
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Push stock and image differences to the storefront",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts.RootOptions, cmd, func(ctx context.Context, a *app) error {
				catalog, store, err := a.catalog(ctx, opts.Client)
				if err != nil {
					return err
				}
				svc := usecases.NewSyncRemote(catalog, store, usecases.RemoteSyncOptions{
					CreateMissing: opts.CreateMissing,
					ComparePrice:  opts.ComparePrice,
				}, a.cfg.Sync.Concurrency, a.logger)
				summary, err := svc.Run(ctx)
				if err != nil {
					return err
				}
				return a.out.Success(summary, func(w io.Writer) error {
					return usecases.WriteSummary(w, summary)
				})
			})
		},
	}
	addClientFlag(cmd, &opts.ClientOptions)
	cmd.Flags().BoolVar(&opts.CreateMissing, "create-missing", false, "create upstream products absent from the storefront")
	cmd.Flags().BoolVar(&opts.ComparePrice, "compare-price", false, "also push regular price differences")
	return cmd
}

// NewSyncChangesCommand applies the local change log of one client.
func NewSyncChangesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ClientOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:   "sync-changes",
		Short: "Apply flagged product changes from the local database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts.RootOptions, cmd, func(ctx context.Context, a *app) error {
				if err := requireClient(opts.Client); err != nil {
					return err
				}
				sf, store, err := a.storefront(opts.Client)
				if err != nil {
					return err
				}
				inv, err := a.inventory(ctx, sf)
				if err != nil {
					return err
				}
				summary, err := usecases.NewSyncChanges(sf, inv, store, a.cfg.Sync.Concurrency, a.logger).Run(ctx)
				if err != nil {
					return err
				}
				return a.out.Success(summary, func(w io.Writer) error {
					return usecases.WriteSummary(w, summary)
				})
			})
		},
	}
	addClientFlag(cmd, opts)
	return cmd
}

// NewSyncAllCommand runs the change sync for every storefront and notifies.
func NewSyncAllCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sync-all",
		Short: "Apply flagged changes for every configured client and send a notification",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(rootOpts, cmd, func(ctx context.Context, a *app) error {
				inv, err := a.inventory(ctx, a.cfg.Storefronts...)
				if err != nil {
					return err
				}
				factory := func(sf config.StorefrontConfig) (usecases.SyncService, error) {
					return usecases.NewSyncChanges(sf, inv, a.wooClient(sf), a.cfg.Sync.Concurrency, a.logger), nil
				}
				runs := usecases.NewSyncAll(a.cfg.Storefronts, factory, a.notifier(), a.logger).Run(ctx)
				return a.out.Success(runs, func(w io.Writer) error {
					_, err := io.WriteString(w, usecases.RenderClientRuns(runs)+"\n")
					return err
				})
			})
		},
	}
}
