package usecases

import (
	"context"
	"fmt"
	"strings"

	"inventory-sync/internal/app/reconcile"
	"inventory-sync/internal/domain/model"
	"inventory-sync/internal/logging"
)

type RemoteSyncOptions struct {
	CreateMissing bool
	ComparePrice  bool
}

// SyncRemote reconciles the full catalogs and pushes the differences.
type SyncRemote struct {
	catalog     *Catalog
	upserter    *Upserter
	options     RemoteSyncOptions
	concurrency int
	logger      logging.LoggerService
}

func NewSyncRemote(catalog *Catalog, store Storefront, opts RemoteSyncOptions, concurrency int, logger logging.LoggerService) SyncService {
	return &SyncRemote{
		catalog:     catalog,
		upserter:    NewUpserter(store, logger),
		options:     opts,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Run fails only when one of the catalogs cannot be loaded.
func (s *SyncRemote) Run(ctx context.Context) (model.SyncSummary, error) {
	state := newRunState(s.catalog.Client())

	snap, err := s.catalog.Load(ctx)
	if err != nil {
		if s.logger != nil {
			s.logger.LogError("remote sync aborted", err, "client", state.client)
		}
		return state.summary(), err
	}

	result := reconcile.Reconcile(snap.Local, snap.Remote, reconcile.Options{ComparePrice: s.options.ComparePrice})
	state.skipped.Add(int64(len(result.Skipped)))
	for _, sk := range result.Skipped {
		if s.logger != nil {
			s.logger.LogWarning("record skipped", "sku", sk.Sku, "side", sk.Side, "reason", string(sk.Reason))
		}
	}

	local := make(map[string]model.CanonicalProduct, len(snap.Local))
	for _, p := range snap.Local {
		local[strings.TrimSpace(p.Sku)] = p
	}

	forEach(ctx, s.concurrency, result.ToUpdate, func(diff model.DiffEntry) {
		outcome, err := s.upserter.ApplyDiff(ctx, local[diff.Sku], diff)
		if err != nil {
			state.fail(diff.Sku, err)
			if s.logger != nil {
				s.logger.LogError("remote sync update failed", err, "sku", diff.Sku)
			}
			return
		}
		state.record(outcome)
	})

	if s.options.CreateMissing {
		forEach(ctx, s.concurrency, result.ToCreate, func(p model.CanonicalProduct) {
			outcome, err := s.upserter.Create(ctx, p)
			if err != nil {
				state.fail(p.Sku, err)
				if s.logger != nil {
					s.logger.LogError("remote sync create failed", err, "sku", p.Sku)
				}
				return
			}
			state.record(outcome)
		})
	}

	summary := state.summary()
	if err := ctx.Err(); err != nil {
		return summary, err
	}
	if s.logger != nil {
		s.logger.LogSuccess(fmt.Sprintf(
			"Remote sync completed client=%s diffs=%d candidates=%d created=%d updated=%d unchanged=%d errors=%d",
			summary.Client, len(result.ToUpdate), len(result.ToCreate),
			summary.CreatedCount, summary.UpdatedCount, result.Unchanged, len(summary.Errors),
		))
	}
	return summary, nil
}
