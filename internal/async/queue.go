// Package async runs analysis jobs on a bounded worker pool so HTTP
// and ingest callers never block on a full reconciliation pass.
package async

import (
	"context"
	"sync"
	"time"

	"log/slog"

	"github.com/fintrid/tridcheck/internal/pipeline"
	"github.com/fintrid/tridcheck/internal/repository"
)

// Job is one queued analysis request. Source labels where it came from
// (api upload, drop folder).
type Job struct {
	Source string
	Input  pipeline.Input
}

type AnalysisQueue struct {
	proc    *pipeline.Processor
	store   repository.AnalysisStore
	logger  *slog.Logger
	workers int
	timeout time.Duration

	ch   chan Job
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.Mutex
	closed bool
}

type Option func(*AnalysisQueue)

func WithWorkers(n int) Option {
	return func(q *AnalysisQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}
func WithQueueSize(n int) Option {
	return func(q *AnalysisQueue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}
func WithProcessTimeout(d time.Duration) Option {
	return func(q *AnalysisQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

// NewAnalysisQueue starts the worker pool immediately. The store may be
// nil, in which case results are logged and dropped.
func NewAnalysisQueue(proc *pipeline.Processor, store repository.AnalysisStore, logger *slog.Logger, opts ...Option) *AnalysisQueue {
	q := &AnalysisQueue{
		proc:    proc,
		store:   store,
		logger:  logger,
		workers: 4,
		timeout: 3 * time.Minute,
		ch:      make(chan Job, 256),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *AnalysisQueue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Info("worker started", "worker_id", workerID)

				for job := range q.ch {
					ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
					q.run(ctx, workerID, job)
					cancel()
				}

				q.logger.Info("worker stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

func (q *AnalysisQueue) run(ctx context.Context, workerID int, job Job) {
	result, err := q.proc.Run(ctx, job.Input)
	if err != nil {
		q.logger.Error("analysis failed", "worker_id", workerID, "source", job.Source, "error", err)
		return
	}
	if q.store == nil {
		q.logger.Info("analysis done, no store configured",
			"worker_id", workerID, "analysis_id", result.AnalysisID)
		return
	}
	if err := q.store.Save(ctx, result); err != nil {
		q.logger.Error("analysis save failed",
			"worker_id", workerID, "analysis_id", result.AnalysisID, "error", err)
		return
	}
	q.logger.Info("analysis saved",
		"worker_id", workerID, "source", job.Source, "analysis_id", result.AnalysisID)
}

func (q *AnalysisQueue) Enqueue(_ context.Context, job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.logger.Warn("cannot enqueue: queue is shutting down", "source", job.Source)
		return nil
	}
	select {
	case q.ch <- job:
		q.logger.Info("queued analysis", "source", job.Source)
	default:
		q.logger.Warn("queue full, applying backpressure", "source", job.Source)
		q.ch <- job
	}
	return nil
}

func (q *AnalysisQueue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("shutdown interrupted by context")
	case <-done:
		q.logger.Info("queue drained, shutdown complete")
	}
}
