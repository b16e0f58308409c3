package export

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/fintrid/tridcheck/internal/common"
	"github.com/fintrid/tridcheck/internal/disclosure"
	"github.com/fintrid/tridcheck/internal/pipeline"
	"github.com/fintrid/tridcheck/internal/reconcile"
)

func sampleResult() *pipeline.Result {
	return &pipeline.Result{
		AnalysisID: uuid.New(),
		LoanMeta: disclosure.LoanMeta{
			Borrower:   "Jordan Blake",
			LoanID:     "LN-2026-0042",
			Property:   "123 Main St",
			LoanAmount: "$360,000.00",
		},
		Comparison: &reconcile.Comparison{
			MatchedFees: []reconcile.MatchedFee{
				{
					FeeName:           "Origination Fee",
					Section:           "A",
					LEAmount:          common.Float64Ptr(1000),
					CDAmount:          common.Float64Ptr(1250),
					ToleranceCategory: reconcile.ToleranceZero,
					Status:            reconcile.StatusExceededZero,
					Violates:          true,
					Difference:        common.Float64Ptr(250),
				},
				{
					FeeName:           "Title Search",
					Section:           "C",
					LEAmount:          common.Float64Ptr(400),
					CDAmount:          common.Float64Ptr(400),
					ToleranceCategory: reconcile.ToleranceTenPercent,
					Status:            reconcile.StatusWithinTenPct,
					ProviderName:      "ACME Title Co",
				},
			},
			Summary: reconcile.Summary{
				ToleranceSummary: map[reconcile.ToleranceCategory]reconcile.ToleranceBucket{
					reconcile.ToleranceZero:       {LESum: 1000, CDSum: 1250, Count: 1},
					reconcile.ToleranceTenPercent: {LESum: 400, CDSum: 400, Count: 1},
				},
				TenPercentTest: reconcile.TenPercentTest{
					LESum: 400, CDSum: 400, Limit: 440, CureRequired: 0,
				},
			},
		},
	}
}

func TestRenderXLSX(t *testing.T) {
	svc := NewService(nil, nil)

	data, err := svc.RenderXLSX(sampleResult())
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	borrower, err := f.GetCellValue("Fee Comparison", "B1")
	require.NoError(t, err)
	assert.Equal(t, "Jordan Blake", borrower)

	header, err := f.GetCellValue("Fee Comparison", "A6")
	require.NoError(t, err)
	assert.Equal(t, "Section", header)

	feeName, err := f.GetCellValue("Fee Comparison", "B7")
	require.NoError(t, err)
	assert.Equal(t, "Origination Fee", feeName)

	status, err := f.GetCellValue("Fee Comparison", "G7")
	require.NoError(t, err)
	assert.Equal(t, reconcile.StatusExceededZero, status)

	provider, err := f.GetCellValue("Fee Comparison", "H8")
	require.NoError(t, err)
	assert.Equal(t, "ACME Title Co", provider)

	bucket, err := f.GetCellValue("Tolerance Summary", "A2")
	require.NoError(t, err)
	assert.Equal(t, "zero", bucket)

	limit, err := f.GetCellValue("Tolerance Summary", "B6")
	require.NoError(t, err)
	assert.Equal(t, "440", limit)
}
