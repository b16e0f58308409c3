package async

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintrid/tridcheck/internal/common"
	"github.com/fintrid/tridcheck/internal/match"
	"github.com/fintrid/tridcheck/internal/pipeline"
	"github.com/fintrid/tridcheck/internal/reconcile"
	"github.com/fintrid/tridcheck/internal/repository"
)

const leFixture = `{
	"closing_cost_details": {
		"loan_costs": {"A": {"items": [{"label": "01 Origination Fee", "amount": 1000}]}},
		"other_costs": {}
	}
}`

const cdFixture = `{
	"closing_cost_details": {
		"loan_costs": {"A": {"items": [{"label": "01 Origination Fee", "amount": 1000, "sub_label": "borrower_paid_at_closing"}]}},
		"other_costs": {}
	}
}`

// memStore records saved results for assertions.
type memStore struct {
	mu      sync.Mutex
	results []*pipeline.Result
}

func (m *memStore) Save(_ context.Context, result *pipeline.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, result)
	return nil
}

func (m *memStore) GetByID(_ context.Context, _ uuid.UUID) (*pipeline.Result, error) {
	return nil, common.ErrNotFound
}

func (m *memStore) List(_ context.Context, _ int) ([]repository.AnalysisSummary, error) {
	return nil, nil
}

func (m *memStore) saved() []*pipeline.Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*pipeline.Result(nil), m.results...)
}

func newQueueProcessor() *pipeline.Processor {
	cfg := common.ReconcileConfig{FuzzyThreshold: 80}
	engine := reconcile.NewEngine(match.NewLabelMatcher(cfg), cfg)
	return pipeline.NewProcessor(nil, engine, nil)
}

func TestQueueProcessesAndSaves(t *testing.T) {
	store := &memStore{}
	q := NewAnalysisQueue(newQueueProcessor(), store, slog.Default(),
		WithWorkers(2), WithQueueSize(8), WithProcessTimeout(10*time.Second))

	err := q.Enqueue(context.Background(), Job{
		Source: "test",
		Input:  pipeline.Input{LEData: []byte(leFixture), CDData: []byte(cdFixture)},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	q.Shutdown(ctx)

	results := store.saved()
	require.Len(t, results, 1)
	assert.Len(t, results[0].Comparison.MatchedFees, 1)
}

func TestQueueEnqueueAfterShutdown(t *testing.T) {
	q := NewAnalysisQueue(newQueueProcessor(), nil, slog.Default(), WithWorkers(1))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	q.Shutdown(ctx)

	// Dropped with a warning, not a panic on a closed channel.
	err := q.Enqueue(context.Background(), Job{Source: "late"})
	assert.NoError(t, err)
}
