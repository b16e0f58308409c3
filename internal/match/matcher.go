// Package match produces the LE/CD fee correspondence consumed by the
// reconciliation engine. LabelMatcher is the deterministic implementation;
// the openai subpackage provides a semantic alternative.
package match

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fintrid/tridcheck/internal/common"
	"github.com/fintrid/tridcheck/internal/disclosure"
	"github.com/fintrid/tridcheck/internal/fuzzy"
	"github.com/fintrid/tridcheck/internal/reconcile"
)

// LabelMatcher pairs fees by section plus normalized label, falling back
// to token-set similarity within the same section. It implements
// reconcile.Matcher.
type LabelMatcher struct {
	cfg common.ReconcileConfig
}

// NewLabelMatcher returns a deterministic matcher using the configured
// fuzzy threshold.
func NewLabelMatcher(cfg common.ReconcileConfig) *LabelMatcher {
	return &LabelMatcher{cfg: cfg}
}

// feeLine is one aggregated fee on either side of the comparison.
type feeLine struct {
	section string
	label   string
	normKey string
	amount  float64
	matched bool
}

// MatchFees merges every LE fee with its CD borrower-side counterpart.
// CD amounts sum borrower-paid at-closing and before-closing lines for
// the normalized fee; non-borrower CD lines never enter the match and
// are handled later by reclassification detection.
func (m *LabelMatcher) MatchFees(_ context.Context, le, cd *disclosure.FeeRecord) ([]reconcile.MatchedFee, error) {
	leLines := collectLines(le, false)
	cdLines := collectLines(cd, true)

	fees := make([]reconcile.MatchedFee, 0, len(leLines)+len(cdLines))
	for _, leLine := range leLines {
		cdLine, confidence := m.findCounterpart(leLine, cdLines)
		fee := reconcile.MatchedFee{
			FeeName:         displayName(leLine.label),
			Section:         leLine.section,
			LEAmount:        common.Float64Ptr(leLine.amount),
			LELabel:         leLine.label,
			MatchConfidence: confidence,
			ProviderName:    reconcile.ExtractProvider(leLine.label),
		}
		if cdLine != nil {
			cdLine.matched = true
			fee.CDAmount = common.Float64Ptr(cdLine.amount)
			fee.CDLabel = cdLine.label
			if p := reconcile.ExtractProvider(cdLine.label); p != "" {
				fee.ProviderName = p
			}
		}
		fees = append(fees, fee)
	}

	for _, cdLine := range cdLines {
		if cdLine.matched {
			continue
		}
		fees = append(fees, reconcile.MatchedFee{
			FeeName:         displayName(cdLine.label),
			Section:         cdLine.section,
			CDAmount:        common.Float64Ptr(cdLine.amount),
			CDLabel:         cdLine.label,
			MatchConfidence: 1.0,
			ProviderName:    reconcile.ExtractProvider(cdLine.label),
			IsNew:           true,
		})
	}

	slog.Info("match.label.done",
		"le_fees", len(leLines), "cd_fees", len(cdLines), "matched", len(fees))
	return fees, nil
}

// findCounterpart resolves the CD line for an LE fee: exact normalized
// key first, then the best same-section fuzzy candidate at or above the
// threshold. Exact matches carry confidence 1.0, fuzzy ones score/100.
func (m *LabelMatcher) findCounterpart(leLine *feeLine, cdLines []*feeLine) (*feeLine, float64) {
	for _, cdLine := range cdLines {
		if !cdLine.matched && cdLine.section == leLine.section && cdLine.normKey == leLine.normKey {
			return cdLine, 1.0
		}
	}
	var best *feeLine
	bestScore := 0
	for _, cdLine := range cdLines {
		if cdLine.matched || cdLine.section != leLine.section {
			continue
		}
		score := fuzzy.TokenSetRatio(leLine.normKey, cdLine.normKey)
		if score >= m.cfg.FuzzyThreshold && score > bestScore {
			best = cdLine
			bestScore = score
		}
	}
	if best == nil {
		return nil, 1.0
	}
	return best, float64(bestScore) / 100.0
}

// collectLines aggregates the matchable fees of one document. On the CD
// side only borrower-paid lines count, summed across closing timings;
// an LE carries no sub-labels so every line counts.
func collectLines(rec *disclosure.FeeRecord, borrowerOnly bool) []*feeLine {
	var lines []*feeLine
	index := make(map[string]*feeLine)
	if rec == nil {
		return lines
	}
	for _, section := range disclosure.FeeSections {
		for _, item := range rec.SectionItems(section) {
			if item.Amount == nil {
				continue
			}
			if borrowerOnly && !borrowerClosingLine(item) {
				continue
			}
			normKey := reconcile.NormalizeLabelKey(item.Label)
			if normKey == "" {
				continue
			}
			key := fmt.Sprintf("%s:%s", section, normKey)
			if line, ok := index[key]; ok {
				line.amount += *item.Amount
				continue
			}
			line := &feeLine{
				section: section,
				label:   item.Label,
				normKey: normKey,
				amount:  *item.Amount,
			}
			index[key] = line
			lines = append(lines, line)
		}
	}
	for _, line := range lines {
		line.amount = common.Round2(line.amount)
	}
	return lines
}

func borrowerClosingLine(item disclosure.LineItem) bool {
	if item.EffectivePayer() != disclosure.PayerBorrower {
		return false
	}
	switch item.EffectiveTiming() {
	case disclosure.TimingAtClosing, disclosure.TimingBeforeClosing, "":
		return true
	}
	return false
}

// displayName strips row numbering and provider clauses while keeping
// the label's original casing.
func displayName(label string) string {
	s := strings.TrimSpace(label)
	if hint := reconcile.RowHint(s); hint != "" {
		s = strings.TrimSpace(strings.TrimPrefix(s, hint))
		s = strings.TrimLeft(s, "-.:) ")
	}
	lower := strings.ToLower(s)
	if loc := strings.Index(lower, " to "); loc > 0 {
		s = s[:loc]
	}
	return strings.TrimSpace(s)
}
