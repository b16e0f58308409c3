package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fintrid/tridcheck/internal/common"
	"github.com/fintrid/tridcheck/internal/pipeline"
)

// AnalysisSummary is one row of the analysis listing.
type AnalysisSummary struct {
	ID           uuid.UUID `json:"id"`
	LoanID       string    `json:"loan_id"`
	Borrower     string    `json:"borrower"`
	DiffCount    int       `json:"diff_count"`
	CureRequired float64   `json:"cure_required"`
	CreatedAt    time.Time `json:"created_at"`
}

// AnalysisStore persists reconciliation results.
type AnalysisStore interface {
	Save(ctx context.Context, result *pipeline.Result) error
	GetByID(ctx context.Context, id uuid.UUID) (*pipeline.Result, error)
	List(ctx context.Context, limit int) ([]AnalysisSummary, error)
}

// PGAnalysisStore stores each run as a JSONB document with a few
// indexed header columns.
type PGAnalysisStore struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewPGAnalysisStore(pool *pgxpool.Pool, logger *slog.Logger) *PGAnalysisStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PGAnalysisStore{pool: pool, log: logger}
}

const analysisSchema = `
CREATE TABLE IF NOT EXISTS analyses (
	id            UUID PRIMARY KEY,
	loan_id       TEXT NOT NULL DEFAULT '',
	borrower      TEXT NOT NULL DEFAULT '',
	diff_count    INT NOT NULL DEFAULT 0,
	cure_required NUMERIC(12,2) NOT NULL DEFAULT 0,
	result        JSONB NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS analyses_created_at_idx ON analyses (created_at DESC);
`

// EnsureSchema creates the analyses table when it does not exist yet.
func (s *PGAnalysisStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, analysisSchema); err != nil {
		return common.NewAppError("DB_ERROR", "ensure analyses schema", err)
	}
	s.log.Info("repository.schema.ok", "table", "analyses")
	return nil
}

func (s *PGAnalysisStore) Save(ctx context.Context, result *pipeline.Result) error {
	payload, err := sonic.Marshal(result)
	if err != nil {
		return common.NewAppError("DB_ERROR", "encode analysis result", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO analyses (id, loan_id, borrower, diff_count, cure_required, result)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE SET
		   loan_id = EXCLUDED.loan_id,
		   borrower = EXCLUDED.borrower,
		   diff_count = EXCLUDED.diff_count,
		   cure_required = EXCLUDED.cure_required,
		   result = EXCLUDED.result`,
		result.AnalysisID,
		result.LoanMeta.LoanID,
		result.LoanMeta.Borrower,
		len(result.Comparison.DiffSummary),
		result.Comparison.Summary.TenPercentTest.CureRequired,
		payload,
	)
	if err != nil {
		return common.NewAppError("DB_ERROR", "save analysis", err)
	}
	s.log.Info("repository.analysis.saved", "analysis_id", result.AnalysisID)
	return nil
}

func (s *PGAnalysisStore) GetByID(ctx context.Context, id uuid.UUID) (*pipeline.Result, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx,
		`SELECT result FROM analyses WHERE id = $1`, id).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NewAppError("NOT_FOUND", "analysis not found", common.ErrNotFound)
	}
	if err != nil {
		return nil, common.NewAppError("DB_ERROR", "load analysis", err)
	}
	var result pipeline.Result
	if err := sonic.Unmarshal(payload, &result); err != nil {
		return nil, common.NewAppError("DB_ERROR", "decode analysis result", err)
	}
	return &result, nil
}

func (s *PGAnalysisStore) List(ctx context.Context, limit int) ([]AnalysisSummary, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, loan_id, borrower, diff_count, cure_required, created_at
		 FROM analyses ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, common.NewAppError("DB_ERROR", "list analyses", err)
	}
	defer rows.Close()

	var out []AnalysisSummary
	for rows.Next() {
		var s AnalysisSummary
		if err := rows.Scan(&s.ID, &s.LoanID, &s.Borrower, &s.DiffCount, &s.CureRequired, &s.CreatedAt); err != nil {
			return nil, common.NewAppError("DB_ERROR", "scan analysis row", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewAppError("DB_ERROR", "iterate analyses", err)
	}
	return out, nil
}
