package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fintrid/tridcheck/internal/async"
	"github.com/fintrid/tridcheck/internal/common"
	"github.com/fintrid/tridcheck/internal/export"
	"github.com/fintrid/tridcheck/internal/geometry"
	"github.com/fintrid/tridcheck/internal/pipeline"
	"github.com/fintrid/tridcheck/internal/repository"
)

// AnalysisHandler serves comparison runs and stored analyses.
type AnalysisHandler struct {
	proc     *pipeline.Processor
	queue    *async.AnalysisQueue
	store    repository.AnalysisStore
	exporter *export.Service
	pool     *pgxpool.Pool
}

func NewAnalysisHandler(proc *pipeline.Processor, queue *async.AnalysisQueue, store repository.AnalysisStore, exporter *export.Service, pool *pgxpool.Pool) *AnalysisHandler {
	return &AnalysisHandler{proc: proc, queue: queue, store: store, exporter: exporter, pool: pool}
}

// compareRequest carries both extracted fee records, plus optional page
// geometry when the caller wants annotations back.
type compareRequest struct {
	LoanEstimate      json.RawMessage `json:"loan_estimate"`
	ClosingDisclosure json.RawMessage `json:"closing_disclosure"`
	LEPages           []geometry.Page `json:"le_pages,omitempty"`
	CDPages           []geometry.Page `json:"cd_pages,omitempty"`
}

func (r *compareRequest) toInput() (pipeline.Input, error) {
	if len(r.LoanEstimate) == 0 || len(r.ClosingDisclosure) == 0 {
		return pipeline.Input{}, errors.New("both loan_estimate and closing_disclosure are required")
	}
	in := pipeline.Input{
		LEData: r.LoanEstimate,
		CDData: r.ClosingDisclosure,
	}
	if len(r.LEPages) > 0 {
		in.LEGeometry = geometry.MemorySource{Docs: r.LEPages}
	}
	if len(r.CDPages) > 0 {
		in.CDGeometry = geometry.MemorySource{Docs: r.CDPages}
	}
	return in, nil
}

// Compare runs one reconciliation synchronously and returns the result.
// With ?async=true the run is queued instead and 202 returned.
func (h *AnalysisHandler) Compare(c *gin.Context) {
	var req compareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	in, err := req.toInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if c.Query("async") == "true" && h.queue != nil {
		_ = h.queue.Enqueue(c.Request.Context(), async.Job{Source: "api", Input: in})
		c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
		return
	}

	result, err := h.proc.Run(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	if h.store != nil {
		if err := h.store.Save(c.Request.Context(), result); err != nil {
			writeError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, result)
}

// Get returns one stored analysis by id.
func (h *AnalysisHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid analysis id"})
		return
	}
	result, err := h.store.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// List returns recent analyses, newest first.
func (h *AnalysisHandler) List(c *gin.Context) {
	limit := 50
	if v := c.Query("limit"); v != "" {
		if _, err := fmt.Sscanf(v, "%d", &limit); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
	}
	summaries, err := h.store.List(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	if summaries == nil {
		summaries = []repository.AnalysisSummary{}
	}
	c.JSON(http.StatusOK, gin.H{"analyses": summaries})
}

// Export streams a stored analysis as an XLSX workbook.
func (h *AnalysisHandler) Export(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid analysis id"})
		return
	}
	data, err := h.exporter.ExportAnalysisXLSX(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	filename := fmt.Sprintf("tridcheck-%s.xlsx", id)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// Health reports process and database liveness.
func (h *AnalysisHandler) Health(c *gin.Context) {
	resp := gin.H{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	}
	if h.pool != nil {
		if err := repository.HealthCheck(c.Request.Context(), h.pool, 2*time.Second, nil); err != nil {
			resp["status"] = "degraded"
			resp["database"] = "unreachable"
			c.JSON(http.StatusServiceUnavailable, resp)
			return
		}
		resp["database"] = "ok"
	}
	c.JSON(http.StatusOK, resp)
}

// writeError maps application errors onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, common.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, common.ErrValidation), errors.Is(err, common.ErrInvalidInput):
		status = http.StatusBadRequest
	}
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		c.JSON(status, gin.H{"error": appErr.Message, "code": appErr.Code, "request_id": GetRequestID(c)})
		return
	}
	c.JSON(status, gin.H{"error": err.Error(), "request_id": GetRequestID(c)})
}
