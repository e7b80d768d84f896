package usecases

import (
	"context"
	"fmt"
	"strings"

	"inventory-sync/internal/config"
	"inventory-sync/internal/domain/model"
	"inventory-sync/internal/logging"
)

type SyncService interface {
	Run(ctx context.Context) (model.SyncSummary, error)
}

// SyncChanges pushes the products flagged in the local change log.
type SyncChanges struct {
	storefront  config.StorefrontConfig
	feed        ChangeFeed
	upserter    *Upserter
	concurrency int
	logger      logging.LoggerService
}

func NewSyncChanges(sf config.StorefrontConfig, feed ChangeFeed, store Storefront, concurrency int, logger logging.LoggerService) SyncService {
	return &SyncChanges{
		storefront:  sf,
		feed:        feed,
		upserter:    NewUpserter(store, logger),
		concurrency: concurrency,
		logger:      logger,
	}
}

func (s *SyncChanges) Run(ctx context.Context) (model.SyncSummary, error) {
	state := newRunState(s.storefront.Client)
	if s.logger != nil {
		s.logger.Log("change sync started", "client", s.storefront.Client, "run", state.runID)
	}

	records, err := s.feed.FetchChangeRecords(ctx, s.storefront)
	if err != nil {
		return state.summary(), err
	}
	records = dedupeChanges(records)
	if len(records) == 0 {
		if s.logger != nil {
			s.logger.Log("change sync: nothing to do", "client", s.storefront.Client)
		}
		return state.summary(), nil
	}

	products, err := s.feed.FetchProducts(ctx, s.storefront)
	if err != nil {
		return state.summary(), err
	}
	bySku := make(map[string]model.CanonicalProduct, len(products))
	for _, p := range products {
		if sku := strings.TrimSpace(p.Sku); sku != "" {
			bySku[sku] = p
		}
	}

	forEach(ctx, s.concurrency, records, func(rec model.ChangeRecord) {
		product, ok := bySku[rec.Sku]
		if !ok {
			state.skipped.Add(1)
			if s.logger != nil {
				s.logger.LogWarning("change record without local product", "sku", rec.Sku,
					"error", model.ErrDataInconsistency.Error())
			}
			return
		}

		outcome, err := s.apply(ctx, rec, product)
		if err != nil {
			state.fail(rec.Sku, err)
			if s.logger != nil {
				s.logger.LogError("change sync record failed", err, "sku", rec.Sku, "kind", string(rec.Kind))
			}
			return
		}
		state.record(outcome)
	})

	summary := state.summary()
	if err := ctx.Err(); err != nil {
		return summary, err
	}
	if s.logger != nil {
		s.logger.LogSuccess(fmt.Sprintf(
			"Change sync completed client=%s records=%d created=%d updated=%d skipped=%d errors=%d",
			summary.Client, len(records), summary.CreatedCount, summary.UpdatedCount, summary.SkippedCount, len(summary.Errors),
		))
	}
	return summary, nil
}

func (s *SyncChanges) apply(ctx context.Context, rec model.ChangeRecord, p model.CanonicalProduct) (upsertOutcome, error) {
	switch rec.Kind {
	case model.ChangeNew:
		return s.upserter.Create(ctx, p)
	case model.ChangeUpdated:
		return s.upserter.Update(ctx, p)
	}
	return upsertOutcome{}, fmt.Errorf("%w: unknown change kind %q", model.ErrDataInconsistency, rec.Kind)
}

// dedupeChanges keeps one record per sku, in first-seen order, with the kind
// of the last occurrence. Records without a sku are dropped.
func dedupeChanges(records []model.ChangeRecord) []model.ChangeRecord {
	index := make(map[string]int, len(records))
	out := make([]model.ChangeRecord, 0, len(records))
	for _, rec := range records {
		rec.Sku = strings.TrimSpace(rec.Sku)
		if rec.Sku == "" {
			continue
		}
		if i, ok := index[rec.Sku]; ok {
			out[i].Kind = rec.Kind
			continue
		}
		index[rec.Sku] = len(out)
		out = append(out, rec)
	}
	return out
}
