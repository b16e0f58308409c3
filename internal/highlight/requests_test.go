package highlight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintrid/tridcheck/internal/common"
	"github.com/fintrid/tridcheck/internal/reconcile"
)

func TestBuildRequests(t *testing.T) {
	f := common.Float64Ptr
	entries := []reconcile.DiffEntry{
		{FeeName: "Origination Fee", Section: "A", LELabel: "01 Origination Fee", CDLabel: "01 Origination Fee",
			LEAmount: f(1000), CDAmount: f(1200), DiffType: reconcile.DiffIncrease},
		{FeeName: "Survey Fee", Section: "C", LELabel: "04 Survey Fee", ProviderName: "Acme Surveying Co",
			LEAmount: f(300), DiffType: reconcile.DiffMissingOnCD},
		{FeeName: "HOA Fee", Section: "H", CDLabel: "02 HOA Fee",
			CDAmount: f(250), DiffType: reconcile.DiffNewOnCD},
		{FeeName: "Owner's Title Insurance", Section: "H", LELabel: "Owner's Title Insurance",
			CDLabel: "Owner's Title Insurance", LEAmount: f(800),
			DiffType: reconcile.DiffReclassified, ReclassifiedTo: reconcile.ReclassToSeller, ReclassifiedAmount: f(800)},
	}

	reqs := BuildRequests(entries)
	require.Len(t, reqs, 6)

	byKey := make(map[string][]Request)
	for _, r := range reqs {
		byKey[r.FeeName] = append(byKey[r.FeeName], r)
	}

	// A plain increase touches both documents.
	orig := byKey["Origination Fee"]
	require.Len(t, orig, 2)
	assert.Equal(t, DocLoanEstimate, orig[0].Doc)
	assert.Equal(t, DocClosingDisclosure, orig[1].Doc)
	assert.Equal(t, "01", orig[0].RowHint)

	// Missing on CD is only findable on the LE.
	survey := byKey["Survey Fee"]
	require.Len(t, survey, 1)
	assert.Equal(t, DocLoanEstimate, survey[0].Doc)
	require.NotNil(t, survey[0].Amount)
	assert.InDelta(t, 300, *survey[0].Amount, 0.001)
	assert.Equal(t, "Acme Surveying Co", survey[0].ProviderName)

	// New on CD is only findable on the CD.
	hoa := byKey["HOA Fee"]
	require.Len(t, hoa, 1)
	assert.Equal(t, DocClosingDisclosure, hoa[0].Doc)

	// Reclassification hits both documents as a decrease, the CD side
	// carrying the reclassified amount.
	title := byKey["Owner's Title Insurance"]
	require.Len(t, title, 2)
	for _, r := range title {
		assert.Equal(t, reconcile.DiffDecrease, r.DiffType)
	}
	require.NotNil(t, title[1].Amount)
	assert.InDelta(t, 800, *title[1].Amount, 0.001)
}

func TestColorFor(t *testing.T) {
	assert.Equal(t, ColorLEMissing, colorFor(DocLoanEstimate, reconcile.DiffMissingOnCD))
	assert.Equal(t, ColorLEChange, colorFor(DocLoanEstimate, reconcile.DiffIncrease))
	assert.Equal(t, ColorCDNew, colorFor(DocClosingDisclosure, reconcile.DiffNewOnCD))
	assert.Equal(t, ColorCDChange, colorFor(DocClosingDisclosure, reconcile.DiffDecrease))
}

func TestLegendColors(t *testing.T) {
	legend := Legend()
	require.Len(t, legend, 4)
	assert.Equal(t, "#0EA5E9", legend[ColorLEChange].Hex)
	assert.Equal(t, [3]int{14, 165, 233}, legend[ColorLEChange].RGB)
	assert.Equal(t, "#F97316", legend[ColorLEMissing].Hex)
	assert.Equal(t, "#BE185D", legend[ColorCDChange].Hex)
	assert.Equal(t, "#16A34A", legend[ColorCDNew].Hex)
}
