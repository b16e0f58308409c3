package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLabelKey(t *testing.T) {
	tests := []struct {
		name     string
		label    string
		expected string
	}{
		{name: "prefix provider and fee stripped", label: "01 Appraisal Fee to John Smith Appraisers", expected: "appraisal"},
		{name: "dotted prefix", label: "02. Credit Report Fee", expected: "credit report"},
		{name: "dashed prefix", label: "03-Flood Determination Fee", expected: "flood determination"},
		{name: "possessive owners normalized", label: "Owner's Title Insurance", expected: "owners title insurance"},
		{name: "curly apostrophe owners normalized", label: "Owner’s Title Insurance", expected: "owners title insurance"},
		{name: "casing folded", label: "TITLE - Lender's Title Policy", expected: "title lender s title policy"},
		{name: "fee word dropped mid label", label: "Recording Fee Deed", expected: "recording deed"},
		{name: "whitespace collapsed", label: "  Tax   Service\tFee ", expected: "tax service"},
		{name: "empty label", label: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeLabelKey(tt.label))
		})
	}
}

func TestRowHint(t *testing.T) {
	assert.Equal(t, "01", RowHint("01 Appraisal Fee"))
	assert.Equal(t, "07", RowHint("  07. Survey Fee"))
	assert.Equal(t, "", RowHint("Appraisal Fee"))
	assert.Equal(t, "", RowHint("1 Appraisal Fee"))
}

func TestExtractProvider(t *testing.T) {
	assert.Equal(t, "John Smith Appraisers", ExtractProvider("01 Appraisal Fee to John Smith Appraisers"))
	assert.Equal(t, "ACME Title Co", ExtractProvider("Title Search to ACME Title Co."))
	assert.Equal(t, "", ExtractProvider("Origination Points"))
}
