package usecases

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"inventory-sync/internal/domain/model"

	"github.com/google/uuid"
)

// runState accumulates the outcome of one sync run. Counters are atomic so
// records may be processed by several workers.
type runState struct {
	client string
	runID  string

	created atomic.Int64
	updated atomic.Int64
	skipped atomic.Int64

	mu        sync.Mutex
	errors    []model.RecordError
	changeLog []model.ChangeLogEntry
}

func newRunState(client string) *runState {
	return &runState{client: client, runID: newRunID()}
}

func newRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (s *runState) fail(sku string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = append(s.errors, model.RecordError{Sku: sku, Error: err.Error()})
}

func (s *runState) record(outcome upsertOutcome) {
	switch outcome.result {
	case resultCreated:
		s.created.Add(1)
	case resultUpdated:
		s.updated.Add(1)
	case resultSkipped:
		s.skipped.Add(1)
		return
	default:
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.changeLog = append(s.changeLog, outcome.entry)
}

// summary sorts errors and change log by sku so the output does not depend
// on worker scheduling.
func (s *runState) summary() model.SyncSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	errs := append([]model.RecordError{}, s.errors...)
	log := append([]model.ChangeLogEntry{}, s.changeLog...)
	sort.SliceStable(errs, func(i, j int) bool { return errs[i].Sku < errs[j].Sku })
	sort.SliceStable(log, func(i, j int) bool { return log[i].Sku < log[j].Sku })
	return model.SyncSummary{
		Client:       s.client,
		RunID:        s.runID,
		CreatedCount: int(s.created.Load()),
		UpdatedCount: int(s.updated.Load()),
		SkippedCount: int(s.skipped.Load()),
		Errors:       errs,
		ChangeLog:    log,
	}
}

// forEach runs fn over items with at most limit goroutines. It stops
// scheduling new items once ctx is done.
func forEach[T any](ctx context.Context, limit int, items []T, fn func(T)) {
	if limit <= 1 {
		for _, item := range items {
			if ctx.Err() != nil {
				return
			}
			fn(item)
		}
		return
	}

	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup
	for _, v := range items {
		if ctx.Err() != nil {
			break
		}
		item := v
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			fn(item)
		}()
	}
	wg.Wait()
}
