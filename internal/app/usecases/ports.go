package usecases

import (
	"context"

	"inventory-sync/internal/adapters/soap"
	"inventory-sync/internal/adapters/woo"
	"inventory-sync/internal/config"
	"inventory-sync/internal/domain/model"

	"github.com/shopspring/decimal"
)

type CategoryStore interface {
	SearchCategories(ctx context.Context, name string) ([]model.RemoteCategory, error)
	CreateCategory(ctx context.Context, name string, parentID int64) (int64, error)
}

// Storefront is the remote catalog of one merchant.
type Storefront interface {
	CategoryStore
	FetchAllProducts(ctx context.Context, opts woo.FetchOptions) ([]model.CanonicalProduct, error)
	FindProductBySKU(ctx context.Context, sku string) (model.CanonicalProduct, error)
	CreateProduct(ctx context.Context, payload woo.ProductPayload) (int64, error)
	UpdateProduct(ctx context.Context, id int64, payload woo.ProductPayload) error
}

type LocalSource interface {
	FetchProducts(ctx context.Context, dbID int) ([]model.CanonicalProduct, error)
	FetchChangeRecords(ctx context.Context, dbID int) ([]model.ChangeRecord, error)
}

type UpstreamCatalog interface {
	FetchAll(ctx context.Context, creds config.SoapConfig) ([]soap.Record, error)
}

type PriceSource interface {
	FetchTierPrices(ctx context.Context, creds config.SoapConfig) ([]model.TierItem, error)
}

type PriceStore interface {
	EnsureList(ctx context.Context, name string) (int64, error)
	LoadPrices(ctx context.Context, listID int64) (map[string]decimal.Decimal, error)
	UpsertPrices(ctx context.Context, listID int64, entries []model.PriceListEntry) error
}

type Notifier interface {
	Notify(ctx context.Context, subject, summary string)
}

// ProductFeed yields the upstream products of a storefront. *Inventory
// implements it.
type ProductFeed interface {
	FetchProducts(ctx context.Context, sf config.StorefrontConfig) ([]model.CanonicalProduct, error)
}

type ChangeFeed interface {
	ProductFeed
	FetchChangeRecords(ctx context.Context, sf config.StorefrontConfig) ([]model.ChangeRecord, error)
}

type RemoteCatalog interface {
	FetchAllProducts(ctx context.Context, opts woo.FetchOptions) ([]model.CanonicalProduct, error)
}
