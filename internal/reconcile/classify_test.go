package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyFeeTolerance(t *testing.T) {
	tests := []struct {
		name                string
		section             string
		label               string
		chosenFromList      bool
		changedCircumstance bool
		expected            ToleranceCategory
	}{
		{name: "section A is always zero", section: "A", label: "Origination Fee", expected: ToleranceZero},
		{name: "section A zero even with changed circumstance", section: "A", label: "Points", changedCircumstance: true, expected: ToleranceZero},
		{name: "section B defaults to zero", section: "B", label: "Appraisal Fee", expected: ToleranceZero},
		{name: "section B changed circumstance is unlimited", section: "B", label: "Appraisal Fee", changedCircumstance: true, expected: ToleranceUnlimited},
		{name: "section C chosen from list is ten percent", section: "C", label: "Pest Inspection", chosenFromList: true, expected: ToleranceTenPercent},
		{name: "section C shopped elsewhere is unlimited", section: "C", label: "Pest Inspection", expected: ToleranceUnlimited},
		{name: "section E recording fee is ten percent", section: "E", label: "Recording Fees Deed", expected: ToleranceTenPercent},
		{name: "section E transfer tax is zero", section: "E", label: "City Transfer Tax", expected: ToleranceZero},
		{name: "section E doc stamp is zero", section: "E", label: "Doc Stamp Tax", expected: ToleranceZero},
		{name: "section E intangible tax is zero", section: "E", label: "State Intangible Tax", expected: ToleranceZero},
		{name: "section F is unlimited", section: "F", label: "Homeowner's Insurance Premium", expected: ToleranceUnlimited},
		{name: "section G is unlimited", section: "G", label: "Initial Escrow Payment", expected: ToleranceUnlimited},
		{name: "section H is unlimited", section: "H", label: "Owner's Title Insurance", expected: ToleranceUnlimited},
		{name: "lowercase section letter still classifies", section: "a", label: "Origination Fee", expected: ToleranceZero},
		{name: "unknown section fails open to unlimited", section: "Z", label: "Mystery Fee", expected: ToleranceUnlimited},
		{name: "empty section fails open to unlimited", section: "", label: "Mystery Fee", expected: ToleranceUnlimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyFeeTolerance(tt.section, tt.label, tt.chosenFromList, tt.changedCircumstance)
			assert.Equal(t, tt.expected, got)
		})
	}
}
