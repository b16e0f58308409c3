package ingest

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintrid/tridcheck/internal/async"
	"github.com/fintrid/tridcheck/internal/common"
	"github.com/fintrid/tridcheck/internal/match"
	"github.com/fintrid/tridcheck/internal/pipeline"
	"github.com/fintrid/tridcheck/internal/reconcile"
	"github.com/fintrid/tridcheck/internal/repository"
)

const leDrop = `{
	"closing_cost_details": {
		"loan_costs": {"A": {"items": [{"label": "01 Origination Fee", "amount": 1000}]}},
		"other_costs": {}
	}
}`

const cdDrop = `{
	"closing_cost_details": {
		"loan_costs": {"A": {"items": [{"label": "01 Origination Fee", "amount": 1100, "sub_label": "borrower_paid_at_closing"}]}},
		"other_costs": {}
	}
}`

type captureStore struct {
	saved chan *pipeline.Result
}

func (c *captureStore) Save(_ context.Context, result *pipeline.Result) error {
	c.saved <- result
	return nil
}

func (c *captureStore) GetByID(_ context.Context, _ uuid.UUID) (*pipeline.Result, error) {
	return nil, common.ErrNotFound
}

func (c *captureStore) List(_ context.Context, _ int) ([]repository.AnalysisSummary, error) {
	return nil, nil
}

func newIngestQueue(store repository.AnalysisStore) *async.AnalysisQueue {
	cfg := common.ReconcileConfig{FuzzyThreshold: 80}
	engine := reconcile.NewEngine(match.NewLabelMatcher(cfg), cfg)
	proc := pipeline.NewProcessor(nil, engine, nil)
	return async.NewAnalysisQueue(proc, store, slog.Default(), async.WithWorkers(1))
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestObservePairsByStem(t *testing.T) {
	dir := t.TempDir()
	store := &captureStore{saved: make(chan *pipeline.Result, 1)}
	queue := newIngestQueue(store)
	defer queue.Shutdown(context.Background())

	w := NewWatcher(common.IngestConfig{WatchDir: dir}, queue, slog.Default())

	lePath := writeFile(t, dir, "loan1.le.json", leDrop)
	cdPath := writeFile(t, dir, "loan1.cd.json", cdDrop)

	ctx := context.Background()
	w.observe(ctx, lePath)

	select {
	case <-store.saved:
		t.Fatal("pair enqueued before both sides arrived")
	case <-time.After(50 * time.Millisecond):
	}

	w.observe(ctx, cdPath)

	select {
	case result := <-store.saved:
		require.NotNil(t, result.Comparison)
		assert.Len(t, result.Comparison.MatchedFees, 1)
	case <-time.After(5 * time.Second):
		t.Fatal("pair was never analyzed")
	}
}

func TestObserveIgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	store := &captureStore{saved: make(chan *pipeline.Result, 1)}
	queue := newIngestQueue(store)
	defer queue.Shutdown(context.Background())

	w := NewWatcher(common.IngestConfig{WatchDir: dir}, queue, slog.Default())

	notes := writeFile(t, dir, "notes.txt", "not a disclosure")
	geom := writeFile(t, dir, "loan2.le.geom.json", "[]")

	ctx := context.Background()
	w.observe(ctx, notes)
	w.observe(ctx, geom)

	select {
	case <-store.saved:
		t.Fatal("unrelated file triggered an analysis")
	case <-time.After(50 * time.Millisecond):
	}
}
