package usecases

import (
	"context"
	"fmt"

	"inventory-sync/internal/adapters/woo"
	"inventory-sync/internal/app/reconcile"
	"inventory-sync/internal/config"
	"inventory-sync/internal/domain/model"
	"inventory-sync/internal/logging"
)

// Catalog loads both sides of one storefront for read-only reports and the
// remote-diff sync.
type Catalog struct {
	storefront config.StorefrontConfig
	feed       ProductFeed
	remote     RemoteCatalog
	fetch      woo.FetchOptions
	logger     logging.LoggerService
}

type Snapshot struct {
	Local  []model.CanonicalProduct
	Remote []model.CanonicalProduct
}

func NewCatalog(sf config.StorefrontConfig, feed ProductFeed, remote RemoteCatalog, fetch woo.FetchOptions, logger logging.LoggerService) *Catalog {
	return &Catalog{
		storefront: sf,
		feed:       feed,
		remote:     remote,
		fetch:      fetch,
		logger:     logger,
	}
}

func (c *Catalog) Client() string {
	return c.storefront.Client
}

func (c *Catalog) Local(ctx context.Context) ([]model.CanonicalProduct, error) {
	return c.feed.FetchProducts(ctx, c.storefront)
}

func (c *Catalog) Remote(ctx context.Context) ([]model.CanonicalProduct, error) {
	products, err := c.remote.FetchAllProducts(ctx, c.fetch)
	if err != nil {
		return nil, fmt.Errorf("remote catalog client=%s: %w", c.storefront.Client, err)
	}
	return products, nil
}

// Load fetches the remote catalog completely before reading the local side;
// a partial remote snapshot is never returned.
func (c *Catalog) Load(ctx context.Context) (Snapshot, error) {
	remote, err := c.Remote(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	local, err := c.Local(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	if c.logger != nil {
		c.logger.Log("catalog loaded", "client", c.storefront.Client, "local", len(local), "remote", len(remote))
	}
	return Snapshot{Local: local, Remote: remote}, nil
}

func (c *Catalog) Compare(ctx context.Context, opts reconcile.Options) (reconcile.Result, error) {
	snap, err := c.Load(ctx)
	if err != nil {
		return reconcile.Result{}, err
	}
	return reconcile.Reconcile(snap.Local, snap.Remote, opts), nil
}

// Missing lists local SKUs absent from the storefront, regardless of price
// and stock.
func (c *Catalog) Missing(ctx context.Context) ([]string, error) {
	snap, err := c.Load(ctx)
	if err != nil {
		return nil, err
	}
	return reconcile.MissingRemote(snap.Local, snap.Remote), nil
}
