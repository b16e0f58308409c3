package reconcile

import "strings"

// transferTaxTokens mark section E lines carrying transfer or stamp
// taxes, which get zero tolerance. Recording-style fees stay at 10%.
var transferTaxTokens = []string{
	"transfer tax",
	"transfer taxes",
	"intangible tax",
	"doc stamp",
	"documentary stamp",
	"stamp tax",
}

// ClassifyFeeTolerance assigns the regulatory tolerance bucket for a fee
// based on its lettered section and flags. Unknown sections fail open to
// unlimited rather than over-reporting violations.
func ClassifyFeeTolerance(section, label string, chosenFromList, changedCircumstance bool) ToleranceCategory {
	switch strings.ToUpper(strings.TrimSpace(section)) {
	case "A":
		return ToleranceZero
	case "B":
		if changedCircumstance {
			return ToleranceUnlimited
		}
		return ToleranceZero
	case "C":
		if chosenFromList {
			return ToleranceTenPercent
		}
		return ToleranceUnlimited
	case "E":
		lower := strings.ToLower(label)
		for _, tok := range transferTaxTokens {
			if strings.Contains(lower, tok) {
				return ToleranceZero
			}
		}
		return ToleranceTenPercent
	case "F", "G", "H":
		return ToleranceUnlimited
	}
	return ToleranceUnlimited
}
