package usecases

import (
	"context"
	"errors"
	"fmt"

	"inventory-sync/internal/config"
	"inventory-sync/internal/domain/model"
	"inventory-sync/internal/logging"
)

var errNoDatabase = errors.New("local database is not configured")

// Inventory picks the upstream source configured for a storefront: the local
// database for provider "db", the SOAP warehouse for anything else.
type Inventory struct {
	soap     []config.SoapConfig
	db       LocalSource
	upstream UpstreamCatalog
	logger   logging.LoggerService
}

func NewInventory(soap []config.SoapConfig, db LocalSource, upstream UpstreamCatalog, logger logging.LoggerService) *Inventory {
	return &Inventory{
		soap:     soap,
		db:       db,
		upstream: upstream,
		logger:   logger,
	}
}

func (i *Inventory) FetchProducts(ctx context.Context, sf config.StorefrontConfig) ([]model.CanonicalProduct, error) {
	if sf.UsesDatabase() {
		if i.db == nil {
			return nil, errNoDatabase
		}
		products, err := i.db.FetchProducts(ctx, sf.DbID)
		if err != nil {
			return nil, fmt.Errorf("local products client=%s: %w", sf.Client, err)
		}
		return products, nil
	}

	creds, err := i.provider(sf.Provider)
	if err != nil {
		return nil, err
	}
	if i.upstream == nil {
		return nil, fmt.Errorf("soap client is not configured for provider %s", sf.Provider)
	}
	records, err := i.upstream.FetchAll(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("warehouse items provider=%s: %w", sf.Provider, err)
	}
	products := make([]model.CanonicalProduct, 0, len(records))
	for _, r := range records {
		products = append(products, r.Product())
	}
	if i.logger != nil {
		i.logger.Log("warehouse items loaded", "provider", sf.Provider, "items", len(products))
	}
	return products, nil
}

// FetchChangeRecords is only available for database-backed storefronts.
func (i *Inventory) FetchChangeRecords(ctx context.Context, sf config.StorefrontConfig) ([]model.ChangeRecord, error) {
	if !sf.UsesDatabase() {
		return nil, fmt.Errorf("change records need the db provider, client %s uses %s", sf.Client, sf.Provider)
	}
	if i.db == nil {
		return nil, errNoDatabase
	}
	records, err := i.db.FetchChangeRecords(ctx, sf.DbID)
	if err != nil {
		return nil, fmt.Errorf("change records client=%s: %w", sf.Client, err)
	}
	return records, nil
}

func (i *Inventory) provider(name string) (config.SoapConfig, error) {
	for _, s := range i.soap {
		if s.Client == name {
			return s, nil
		}
	}
	return config.SoapConfig{}, fmt.Errorf("soap provider not found: %s", name)
}
