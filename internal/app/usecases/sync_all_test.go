package usecases

import (
	"context"
	"errors"
	"testing"

	"inventory-sync/internal/config"
	"inventory-sync/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	subject string
	body    string
	calls   int
}

func (n *recordingNotifier) Notify(_ context.Context, subject, summary string) {
	n.calls++
	n.subject = subject
	n.body = summary
}

type stubSync struct {
	summary model.SyncSummary
	err     error
}

func (s stubSync) Run(context.Context) (model.SyncSummary, error) {
	return s.summary, s.err
}

func TestSyncAll_RunsEveryClientAndNotifiesOnce(t *testing.T) {
	storefronts := []config.StorefrontConfig{{Client: "acme"}, {Client: "beta"}, {Client: "gamma"}}
	factory := func(sf config.StorefrontConfig) (SyncService, error) {
		switch sf.Client {
		case "beta":
			return stubSync{err: errors.New("db down")}, nil
		case "gamma":
			return nil, errors.New("bad credentials")
		}
		return stubSync{summary: model.SyncSummary{Client: sf.Client, CreatedCount: 1}}, nil
	}
	notifier := &recordingNotifier{}

	runs := NewSyncAll(storefronts, factory, notifier, nil).Run(context.Background())

	require.Len(t, runs, 3)
	assert.Empty(t, runs[0].Error)
	assert.Equal(t, "db down", runs[1].Error)
	assert.Equal(t, "bad credentials", runs[2].Error)
	assert.Equal(t, 1, notifier.calls)
	assert.Equal(t, "Inventory sync", notifier.subject)
	assert.Equal(t,
		"acme: created=1 updated=0 skipped=0 errors=0\nbeta: failed: db down\ngamma: failed: bad credentials",
		notifier.body)
}
