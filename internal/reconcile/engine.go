package reconcile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fintrid/tridcheck/internal/common"
	"github.com/fintrid/tridcheck/internal/disclosure"
)

// LenderCreditRecommendation is surfaced when the aggregate 10% bucket
// test requires a cure.
const LenderCreditRecommendation = "Apply lender credit to cure 10% tolerance excess."

// confidence below which an unstated chosen_from_list defaults to false
// rather than true.
const chosenFromListMinConfidence = 0.6

// Engine runs a full reconciliation pass over a matched fee list.
type Engine struct {
	matcher Matcher
	cfg     common.ReconcileConfig
}

// NewEngine wires a matcher into the reconciliation engine.
func NewEngine(matcher Matcher, cfg common.ReconcileConfig) *Engine {
	return &Engine{matcher: matcher, cfg: cfg}
}

// Compare matches LE against CD fees and classifies every pair. A
// matcher failure is absorbed at this boundary: the engine logs it and
// returns an empty, well-formed comparison so downstream consumers
// always receive a valid shape.
func (e *Engine) Compare(ctx context.Context, le, cd *disclosure.FeeRecord) *Comparison {
	fees, err := e.matcher.MatchFees(ctx, le, cd)
	if err != nil {
		slog.Error("reconcile.match.failed", "error", err)
		return emptyComparison()
	}
	return e.Classify(fees, cd)
}

// Classify runs tolerance classification, reclassification detection,
// per-fee status evaluation and the aggregate bucket tests over an
// already-matched fee list.
func (e *Engine) Classify(fees []MatchedFee, cd *disclosure.FeeRecord) *Comparison {
	kept := make([]MatchedFee, 0, len(fees))
	for _, fee := range fees {
		if fee.LEAmount == nil && fee.CDAmount == nil {
			slog.Warn("reconcile.fee.skipped_empty", "fee", fee.FeeName, "section", fee.Section)
			continue
		}
		kept = append(kept, fee)
	}

	cdIndex := BuildCDLabelIndex(cd)
	for i := range kept {
		fee := &kept[i]
		if fee.ChosenFromList == nil {
			fee.ChosenFromList = common.BoolPtr(defaultChosenFromList(fee))
		}
		fee.ToleranceCategory = ClassifyFeeTolerance(
			fee.Section, classificationLabel(fee), *fee.ChosenFromList, fee.ChangedCircumstance)

		cdIndex.MarkReclassified(fee, e.cfg.FuzzyThreshold)

		fee.Status, fee.Violates, fee.Difference = ComputeStatusAndDiff(
			fee.LEAmount, fee.CDAmount, fee.ToleranceCategory)
		if fee.ReclassifiedTo != "" {
			fee.Status = fmt.Sprintf("Reclassified to %s", fee.ReclassifiedTo)
			fee.Violates = false
		}
	}

	buckets, tenPct := ComputeToleranceMetrics(kept)
	summary := Summary{
		ToleranceSummary: buckets,
		TenPercentTest:   tenPct,
	}
	if tenPct.CureRequired > 0 {
		summary.LenderCreditRecommendation = LenderCreditRecommendation
		summary.LenderCreditAmount = common.Float64Ptr(tenPct.CureRequired)
	}

	return &Comparison{
		MatchedFees: kept,
		DiffSummary: BuildDiffSummary(kept),
		Summary:     summary,
	}
}

// defaultChosenFromList resolves the three-valued chosen_from_list flag
// when the matcher left it unset. Low-confidence matches and fees absent
// from the LE cannot have come off the provider list.
func defaultChosenFromList(fee *MatchedFee) bool {
	if fee.LEAmount == nil {
		return false
	}
	return fee.MatchConfidence >= chosenFromListMinConfidence
}

// classificationLabel picks the label the tolerance table inspects. The
// LE label wins: it is the disclosed wording, and CD labels drift.
func classificationLabel(fee *MatchedFee) string {
	for _, label := range []string{fee.LELabel, fee.CDLabel, fee.FeeName} {
		if label != "" {
			return label
		}
	}
	return ""
}

func emptyComparison() *Comparison {
	buckets, tenPct := ComputeToleranceMetrics(nil)
	return &Comparison{
		MatchedFees: []MatchedFee{},
		DiffSummary: []DiffEntry{},
		Summary: Summary{
			ToleranceSummary: buckets,
			TenPercentTest:   tenPct,
		},
	}
}
