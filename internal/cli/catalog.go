package cli

import (
	"context"
	"fmt"
	"io"

	"inventory-sync/internal/adapters/woo"
	"inventory-sync/internal/app/reconcile"
	"inventory-sync/internal/app/usecases"
	"inventory-sync/internal/domain/model"

	"github.com/spf13/cobra"
)

type ClientOptions struct {
	*RootOptions
	Client string
}

func addClientFlag(cmd *cobra.Command, opts *ClientOptions) {
	cmd.Flags().StringVar(&opts.Client, "client", "", "storefront client name")
}

func (a *app) catalog(ctx context.Context, client string) (*usecases.Catalog, *woo.Client, error) {
	if err := requireClient(client); err != nil {
		return nil, nil, err
	}
	sf, store, err := a.storefront(client)
	if err != nil {
		return nil, nil, err
	}
	inv, err := a.inventory(ctx, sf)
	if err != nil {
		return nil, nil, err
	}
	return usecases.NewCatalog(sf, inv, store, a.fetchOptions(), a.logger), store, nil
}

// NewItemsCommand lists the upstream (local or warehouse) products.
func NewItemsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ClientOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:   "items",
		Short: "List upstream products of a client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts.RootOptions, cmd, func(ctx context.Context, a *app) error {
				catalog, _, err := a.catalog(ctx, opts.Client)
				if err != nil {
					return err
				}
				products, err := catalog.Local(ctx)
				if err != nil {
					return err
				}
				return a.out.Success(productRows(products), func(w io.Writer) error {
					return writeProducts(w, products)
				})
			})
		},
	}
	addClientFlag(cmd, opts)
	return cmd
}

// NewInventoryCommand lists the storefront catalog.
func NewInventoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ClientOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "List the storefront catalog of a client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts.RootOptions, cmd, func(ctx context.Context, a *app) error {
				if err := requireClient(opts.Client); err != nil {
					return err
				}
				_, store, err := a.storefront(opts.Client)
				if err != nil {
					return err
				}
				products, err := store.FetchAllProducts(ctx, a.fetchOptions())
				if err != nil {
					return err
				}
				return a.out.Success(productRows(products), func(w io.Writer) error {
					return writeProducts(w, products)
				})
			})
		},
	}
	addClientFlag(cmd, opts)
	return cmd
}

type CompareOptions struct {
	ClientOptions
	ComparePrice bool
}

func NewCompareCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompareOptions{ClientOptions: ClientOptions{RootOptions: rootOpts}}
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Show differences between upstream and storefront without applying them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts.RootOptions, cmd, func(ctx context.Context, a *app) error {
				catalog, _, err := a.catalog(ctx, opts.Client)
				if err != nil {
					return err
				}
				res, err := catalog.Compare(ctx, reconcile.Options{ComparePrice: opts.ComparePrice})
				if err != nil {
					return err
				}
				return a.out.Success(res, func(w io.Writer) error {
					return writeComparison(w, res)
				})
			})
		},
	}
	addClientFlag(cmd, &opts.ClientOptions)
	cmd.Flags().BoolVar(&opts.ComparePrice, "compare-price", false, "include regular price in the comparison")
	return cmd
}

func NewMissingCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ClientOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:   "missing",
		Short: "List upstream SKUs absent from the storefront",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts.RootOptions, cmd, func(ctx context.Context, a *app) error {
				catalog, _, err := a.catalog(ctx, opts.Client)
				if err != nil {
					return err
				}
				skus, err := catalog.Missing(ctx)
				if err != nil {
					return err
				}
				return a.out.Success(skus, func(w io.Writer) error {
					for _, sku := range skus {
						if _, err := fmt.Fprintln(w, sku); err != nil {
							return err
						}
					}
					return nil
				})
			})
		},
	}
	addClientFlag(cmd, opts)
	return cmd
}

type productRow struct {
	Sku        string   `json:"sku"`
	Name       string   `json:"name"`
	Price      string   `json:"price"`
	Stock      int      `json:"stock"`
	Image      string   `json:"image,omitempty"`
	Categories []string `json:"categories,omitempty"`
	Status     string   `json:"status"`
	RemoteID   int64    `json:"remoteId,omitempty"`
}

func productRows(products []model.CanonicalProduct) []productRow {
	rows := make([]productRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, productRow{
			Sku:        p.Sku,
			Name:       p.Name,
			Price:      p.Price.String(),
			Stock:      p.Stock,
			Image:      p.ImageName,
			Categories: p.CategoryPath,
			Status:     string(p.Status),
			RemoteID:   p.RemoteID,
		})
	}
	return rows
}

func writeProducts(w io.Writer, products []model.CanonicalProduct) error {
	for _, p := range products {
		if _, err := fmt.Fprintf(w, "%s\t%s\tprice=%s\tstock=%d\n", p.Sku, p.Name, p.Price.String(), p.Stock); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "total: %d\n", len(products))
	return err
}

func writeComparison(w io.Writer, res reconcile.Result) error {
	for _, d := range res.ToUpdate {
		fmt.Fprintf(w, "update %s", d.Sku)
		for _, field := range d.Fields() {
			change := d.ChangedFields[field]
			fmt.Fprintf(w, " %s: %v -> %v", field, change.Remote, change.Local)
		}
		fmt.Fprintln(w)
	}
	for _, p := range res.ToCreate {
		fmt.Fprintf(w, "create %s price=%s stock=%d\n", p.Sku, p.Price.String(), p.Stock)
	}
	_, err := fmt.Fprintf(w, "updates: %d\ncreates: %d\nunchanged: %d\nskipped: %d\n",
		len(res.ToUpdate), len(res.ToCreate), res.Unchanged, len(res.Skipped))
	return err
}
