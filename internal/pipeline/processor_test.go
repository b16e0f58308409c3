package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintrid/tridcheck/internal/common"
	"github.com/fintrid/tridcheck/internal/disclosure"
	"github.com/fintrid/tridcheck/internal/highlight"
	"github.com/fintrid/tridcheck/internal/match"
	"github.com/fintrid/tridcheck/internal/reconcile"
)

const leJSON = `{
	"applicants": [{"name": "Jordan Blake"}],
	"loan": {"loan_id": "LN-2026-0042"},
	"closing_cost_details": {
		"loan_costs": {
			"A": {"items": [{"label": "01 Origination Fee", "amount": 1000}]},
			"B": {"items": [{"label": "01 Appraisal Fee to John Smith Appraisers", "amount": 450}]}
		},
		"other_costs": {}
	}
}`

const cdJSON = `{
	"applicants": [{"name": "Jordan Blake"}],
	"loan": {"loan_id": "LN-2026-0042"},
	"closing_cost_details": {
		"loan_costs": {
			"A": {"items": [{"label": "01 Origination Fee", "amount": 1200, "sub_label": "borrower_paid_at_closing"}]},
			"B": {"items": [{"label": "01 Appraisal Fee to John Smith Appraisers", "amount": 450, "sub_label": "borrower_paid_at_closing"}]}
		},
		"other_costs": {}
	}
}`

func newTestProcessor() *Processor {
	cfg := common.ReconcileConfig{FuzzyThreshold: 80}
	engine := reconcile.NewEngine(match.NewLabelMatcher(cfg), cfg)
	locator := highlight.NewLocator(common.HighlightConfig{
		MinScore:         60,
		FallbackMinScore: 35,
		LineClusterTol:   3.0,
		AmountLineTol:    3.5,
		Padding:          2.5,
	})
	return NewProcessor(nil, engine, locator)
}

func TestProcessorRun(t *testing.T) {
	proc := newTestProcessor()

	result, err := proc.Run(context.Background(), Input{
		LEData: []byte(leJSON),
		CDData: []byte(cdJSON),
	})
	require.NoError(t, err)

	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", result.AnalysisID.String())
	assert.Equal(t, disclosure.DocLoanEstimate, result.LEDocType)
	assert.Equal(t, disclosure.DocClosingDisclosure, result.CDDocType)
	assert.Equal(t, "Jordan Blake", result.LoanMeta.Borrower)
	assert.Equal(t, "LN-2026-0042", result.LoanMeta.LoanID)

	require.Len(t, result.Comparison.MatchedFees, 2)
	require.Len(t, result.Comparison.DiffSummary, 1)
	diff := result.Comparison.DiffSummary[0]
	assert.Equal(t, reconcile.DiffIncrease, diff.DiffType)
	assert.Equal(t, "Origination Fee", diff.FeeName)

	// No geometry supplied, no bundles.
	assert.Nil(t, result.Bundles)
}

func TestProcessorRun_DecodeFailure(t *testing.T) {
	proc := newTestProcessor()

	_, err := proc.Run(context.Background(), Input{
		LEData: []byte(`{broken`),
		CDData: []byte(cdJSON),
	})
	require.Error(t, err)
}
