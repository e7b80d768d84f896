package usecases

import (
	"context"
	"fmt"
	"strings"

	"inventory-sync/internal/config"
	"inventory-sync/internal/domain/model"
	"inventory-sync/internal/logging"
)

// SyncFactory builds the sync for one storefront.
type SyncFactory func(sf config.StorefrontConfig) (SyncService, error)

type ClientRun struct {
	Client  string            `json:"client"`
	Summary model.SyncSummary `json:"summary"`
	Error   string            `json:"error,omitempty"`
}

// SyncAll runs every storefront in turn and sends one notification with a
// line per client. A failing client does not stop the others.
type SyncAll struct {
	storefronts []config.StorefrontConfig
	factory     SyncFactory
	notifier    Notifier
	logger      logging.LoggerService
}

func NewSyncAll(storefronts []config.StorefrontConfig, factory SyncFactory, notifier Notifier, logger logging.LoggerService) *SyncAll {
	return &SyncAll{
		storefronts: storefronts,
		factory:     factory,
		notifier:    notifier,
		logger:      logger,
	}
}

func (s *SyncAll) Run(ctx context.Context) []ClientRun {
	runs := make([]ClientRun, 0, len(s.storefronts))
	for _, sf := range s.storefronts {
		if ctx.Err() != nil {
			break
		}
		run := ClientRun{Client: sf.Client}
		svc, err := s.factory(sf)
		if err == nil {
			run.Summary, err = svc.Run(ctx)
		}
		if err != nil {
			run.Error = err.Error()
			if s.logger != nil {
				s.logger.LogError("client sync failed", err, "client", sf.Client)
			}
		}
		runs = append(runs, run)
	}

	if s.notifier != nil && len(runs) > 0 {
		s.notifier.Notify(ctx, "Inventory sync", RenderClientRuns(runs))
	}
	return runs
}

// RenderClientRuns formats one line per client for notifications.
func RenderClientRuns(runs []ClientRun) string {
	var b strings.Builder
	for _, run := range runs {
		if run.Error != "" {
			fmt.Fprintf(&b, "%s: failed: %s\n", run.Client, run.Error)
			continue
		}
		fmt.Fprintf(&b, "%s: created=%d updated=%d skipped=%d errors=%d\n",
			run.Client, run.Summary.CreatedCount, run.Summary.UpdatedCount,
			run.Summary.SkippedCount, len(run.Summary.Errors))
	}
	return strings.TrimRight(b.String(), "\n")
}
