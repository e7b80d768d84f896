package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"inventory-sync/internal/adapters/soap"
	"inventory-sync/internal/app/usecases"

	"github.com/spf13/cobra"
)

type PricesOptions struct {
	*RootOptions
	Tier   string
	Notify bool
}

func NewPricesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PricesOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:   "prices",
		Short: "Refresh tier price lists from the warehouse",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts.RootOptions, cmd, func(ctx context.Context, a *app) error {
				tiers, err := usecases.TiersFromConfig(a.cfg)
				if err != nil {
					return err
				}
				if opts.Tier != "" {
					tiers = filterTiers(tiers, opts.Tier)
					if len(tiers) == 0 {
						return fmt.Errorf("price tier not found: %s", opts.Tier)
					}
				}
				store, err := a.priceStore(ctx)
				if err != nil {
					return err
				}
				source := soap.NewClient(a.httpClient, a.logger)
				results, err := usecases.NewSyncPrices(tiers, source, store, a.cfg.Sync.Concurrency, a.logger).Run(ctx)
				if err != nil {
					return err
				}
				if opts.Notify {
					var b strings.Builder
					_ = usecases.WritePriceResults(&b, results)
					a.notifier().Notify(ctx, "Price lists", b.String())
				}
				return a.out.Success(results, func(w io.Writer) error {
					return usecases.WritePriceResults(w, results)
				})
			})
		},
	}
	cmd.Flags().StringVar(&opts.Tier, "tier", "", "only refresh this price tier")
	cmd.Flags().BoolVar(&opts.Notify, "notify", false, "send the result to the configured notifiers")
	return cmd
}

func filterTiers(tiers []usecases.PriceTier, name string) []usecases.PriceTier {
	var out []usecases.PriceTier
	for _, t := range tiers {
		if t.Name == name {
			out = append(out, t)
		}
	}
	return out
}
