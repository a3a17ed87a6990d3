package workflow_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmunix/nbpod/internal/browser/browsertest"
	"github.com/vmunix/nbpod/internal/events"
	"github.com/vmunix/nbpod/internal/migrations"
	"github.com/vmunix/nbpod/internal/runs"
	"github.com/vmunix/nbpod/internal/workflow"
)

func TestPublish_ConcurrentWorkersRecordHistory(t *testing.T) {
	db, err := migrations.Open(filepath.Join(t.TempDir(), "nbpod.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s := site{notebooks: map[string]notebookSpec{}}
	var list []string
	for i := range 16 {
		u := fmt.Sprintf("https://notebook.example/%d", i)
		s.notebooks[u] = notebookSpec{Title: fmt.Sprintf("Episode %d", i)}
		list = append(list, u)
	}

	log := events.NewEventLog(db)
	bus := events.NewBus(log, testLogger())
	t.Cleanup(func() { _ = bus.Close() })
	store := runs.NewStore(db)
	opts := testOptions(t)
	opts.Workers = 8
	w := workflow.New(opts, &browsertest.Dialer{NewPage: s.page}, &diskFetcher{}, store, bus, testLogger())

	results, err := w.Publish(context.Background(), list)

	require.NoError(t, err)
	for _, r := range results {
		require.True(t, r.Success, r.Error)
		require.True(t, r.Publish.Success, r.Publish.Message)
	}

	recent, err := store.Recent(1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	items, err := store.Items(recent[0].ID)
	require.NoError(t, err)
	require.Len(t, items, 16)
	for _, it := range items {
		assert.Equal(t, runs.StatusPublished, it.Status, it.URL)
	}

	published, err := log.Find(events.Query{Types: []string{events.EventPublishCompleted}})
	require.NoError(t, err)
	assert.Len(t, published, 16)
}
