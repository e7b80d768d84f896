package usecases

import (
	"context"
	"fmt"
	"strings"

	"inventory-sync/internal/config"
	"inventory-sync/internal/domain/model"
	"inventory-sync/internal/logging"

	"github.com/shopspring/decimal"
)

type SyncPricesService interface {
	Run(ctx context.Context) ([]model.PriceListResult, error)
}

// PriceTier is a named price list and the warehouse credentials that feed it.
type PriceTier struct {
	Name  string
	Creds config.SoapConfig
}

// TiersFromConfig joins the configured tiers with their SOAP providers.
func TiersFromConfig(cfg *config.Config) ([]PriceTier, error) {
	tiers := make([]PriceTier, 0, len(cfg.PriceTiers))
	for _, t := range cfg.PriceTiers {
		creds, err := cfg.SoapProvider(t.Provider)
		if err != nil {
			return nil, fmt.Errorf("price tier %s: %w", t.Name, err)
		}
		tiers = append(tiers, PriceTier{Name: t.Name, Creds: creds})
	}
	return tiers, nil
}

type PriceLists struct {
	tiers       []PriceTier
	source      PriceSource
	store       PriceStore
	concurrency int
	logger      logging.LoggerService
}

func NewSyncPrices(tiers []PriceTier, source PriceSource, store PriceStore, concurrency int, logger logging.LoggerService) SyncPricesService {
	return &PriceLists{
		tiers:       tiers,
		source:      source,
		store:       store,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Run returns one result per tier in configuration order. A failing tier is
// reported in its result and does not stop the others.
func (p *PriceLists) Run(ctx context.Context) ([]model.PriceListResult, error) {
	if p.logger != nil {
		p.logger.Log("Price list sync started", "tiers", len(p.tiers))
	}

	results := make([]model.PriceListResult, len(p.tiers))
	indexes := make([]int, len(p.tiers))
	for i := range indexes {
		indexes[i] = i
	}

	forEach(ctx, p.concurrency, indexes, func(i int) {
		tier := p.tiers[i]
		res, err := p.syncTier(ctx, tier)
		if err != nil {
			res.Error = err.Error()
			if p.logger != nil {
				p.logger.LogError("price tier failed", err, "tier", tier.Name)
			}
		} else if p.logger != nil {
			p.logger.LogSuccess(fmt.Sprintf("Price list %s synced inserted=%d updated=%d unchanged=%d",
				tier.Name, res.Inserted, res.Updated, res.Unchanged))
		}
		results[i] = res
	})

	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

func (p *PriceLists) syncTier(ctx context.Context, tier PriceTier) (model.PriceListResult, error) {
	res := model.PriceListResult{PriceList: tier.Name, Messages: []string{}}

	items, err := p.source.FetchTierPrices(ctx, tier.Creds)
	if err != nil {
		return res, fmt.Errorf("fetch tier prices: %w", err)
	}

	listID, err := p.store.EnsureList(ctx, tier.Name)
	if err != nil {
		return res, fmt.Errorf("ensure price list: %w", err)
	}
	res.ListID = listID

	existing, err := p.store.LoadPrices(ctx, listID)
	if err != nil {
		return res, fmt.Errorf("load prices: %w", err)
	}

	writes, skipped := classifyPrices(tier.Name, items, existing, &res)
	if skipped > 0 && p.logger != nil {
		p.logger.LogWarning("tier items skipped", "tier", tier.Name, "count", skipped,
			"error", model.ErrDataInconsistency.Error())
	}

	if len(writes) > 0 {
		if err := p.store.UpsertPrices(ctx, listID, writes); err != nil {
			res.Inserted, res.Updated = 0, 0
			return res, fmt.Errorf("upsert prices: %w", err)
		}
	}
	return res, nil
}

// classifyPrices counts every usable item exactly once as inserted, updated
// or unchanged and returns the rows to write, one per sku. existing is
// updated in place so a repeated sku compares against its earlier price.
func classifyPrices(list string, items []model.TierItem, existing map[string]decimal.Decimal, res *model.PriceListResult) ([]model.PriceListEntry, int) {
	if existing == nil {
		existing = make(map[string]decimal.Decimal)
	}
	pending := make(map[string]int)
	var writes []model.PriceListEntry
	skipped := 0

	for _, item := range items {
		sku := strings.TrimSpace(item.Sku)
		price, err := decimal.NewFromString(strings.TrimSpace(item.Price))
		if sku == "" || err != nil {
			skipped++
			continue
		}

		old, seen := existing[sku]
		switch {
		case !seen:
			res.Inserted++
			addMessage(res, fmt.Sprintf("%s: new price %s", sku, price.String()))
		case !old.Equal(price):
			res.Updated++
			addMessage(res, fmt.Sprintf("%s: %s -> %s", sku, old.String(), price.String()))
		default:
			res.Unchanged++
			continue
		}

		existing[sku] = price
		entry := model.PriceListEntry{ListName: list, Sku: sku, Price: price}
		if i, ok := pending[sku]; ok {
			writes[i] = entry
			continue
		}
		pending[sku] = len(writes)
		writes = append(writes, entry)
	}
	return writes, skipped
}

func addMessage(res *model.PriceListResult, msg string) {
	if len(res.Messages) < model.MaxPriceMessages {
		res.Messages = append(res.Messages, msg)
	}
}
