// Package pipeline coordinates one full analysis run: decode and
// validate both disclosure documents, reconcile their fees, and
// optionally re-anchor the diffs onto page geometry.
package pipeline

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/fintrid/tridcheck/internal/disclosure"
	"github.com/fintrid/tridcheck/internal/geometry"
	"github.com/fintrid/tridcheck/internal/highlight"
	"github.com/fintrid/tridcheck/internal/reconcile"
)

// Input is one analysis request: the raw fee-record JSON of both
// documents, plus optional geometry sidecars for highlighting.
type Input struct {
	LEData     []byte
	CDData     []byte
	LEGeometry geometry.PageSource
	CDGeometry geometry.PageSource
}

// Result is the full output of one analysis run.
type Result struct {
	AnalysisID uuid.UUID                    `json:"analysis_id"`
	LoanMeta   disclosure.LoanMeta          `json:"loan_meta"`
	LEDocType  disclosure.DocType           `json:"le_doc_type"`
	CDDocType  disclosure.DocType           `json:"cd_doc_type"`
	Comparison *reconcile.Comparison        `json:"comparison"`
	Bundles    map[string]*highlight.Bundle `json:"bundles,omitempty"`
}

// Processor runs decode, reconcile and highlight stages in order.
type Processor struct {
	Logger  *slog.Logger
	Engine  *reconcile.Engine
	Locator *highlight.Locator
}

func NewProcessor(logger *slog.Logger, engine *reconcile.Engine, locator *highlight.Locator) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{Logger: logger, Engine: engine, Locator: locator}
}

// Run decodes both documents concurrently, reconciles them once both
// are ready, and highlights the diffs when geometry is supplied.
// Decode failures fail the run; highlighting failures degrade to a
// result without annotations.
func (p *Processor) Run(ctx context.Context, in Input) (*Result, error) {
	analysisID := uuid.New()

	var (
		wg           sync.WaitGroup
		le, cd       *disclosure.FeeRecord
		leErr, cdErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		le, leErr = disclosure.DecodeFeeRecord(in.LEData)
	}()
	go func() {
		defer wg.Done()
		cd, cdErr = disclosure.DecodeFeeRecord(in.CDData)
	}()
	wg.Wait()

	if leErr != nil {
		p.Logger.Error("pipeline.decode.failed", "analysis_id", analysisID, "doc", "le", "error", leErr)
		return nil, leErr
	}
	if cdErr != nil {
		p.Logger.Error("pipeline.decode.failed", "analysis_id", analysisID, "doc", "cd", "error", cdErr)
		return nil, cdErr
	}

	leType := disclosure.DetectDocumentType(le)
	cdType := disclosure.DetectDocumentType(cd)
	if leType == disclosure.DocClosingDisclosure || cdType == disclosure.DocLoanEstimate {
		p.Logger.Warn("pipeline.doctype.swapped_or_ambiguous",
			"analysis_id", analysisID, "le_detected", leType, "cd_detected", cdType)
	}
	disclosure.NormalizeTotals(le)
	disclosure.NormalizeTotals(cd)

	comparison := p.Engine.Compare(ctx, le, cd)
	p.Logger.Info("pipeline.reconcile.ok",
		"analysis_id", analysisID,
		"matched_fees", len(comparison.MatchedFees),
		"diffs", len(comparison.DiffSummary),
		"cure_required", comparison.Summary.TenPercentTest.CureRequired,
	)

	result := &Result{
		AnalysisID: analysisID,
		LoanMeta:   disclosure.ExtractLoanMeta(le, cd),
		LEDocType:  leType,
		CDDocType:  cdType,
		Comparison: comparison,
	}

	if p.Locator != nil && (in.LEGeometry != nil || in.CDGeometry != nil) {
		result.Bundles = p.annotate(in, comparison, analysisID)
	}
	return result, nil
}

func (p *Processor) annotate(in Input, comparison *reconcile.Comparison, analysisID uuid.UUID) map[string]*highlight.Bundle {
	requests := highlight.BuildRequests(comparison.DiffSummary)
	bundles := make(map[string]*highlight.Bundle, 2)

	sources := []struct {
		doc    highlight.DocType
		source geometry.PageSource
	}{
		{highlight.DocLoanEstimate, in.LEGeometry},
		{highlight.DocClosingDisclosure, in.CDGeometry},
	}
	for _, s := range sources {
		if s.source == nil {
			continue
		}
		bundle, err := p.Locator.Annotate(s.doc, s.source, requests)
		if err != nil {
			p.Logger.Error("pipeline.highlight.failed",
				"analysis_id", analysisID, "doc", s.doc, "error", err)
			continue
		}
		p.Logger.Info("pipeline.highlight.ok",
			"analysis_id", analysisID, "doc", s.doc, "annotations", len(bundle.Annotations))
		bundles[string(s.doc)] = bundle
	}
	return bundles
}
