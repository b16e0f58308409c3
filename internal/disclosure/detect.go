package disclosure

import "github.com/fintrid/tridcheck/internal/common"

// DocType classifies an extracted record by document kind.
type DocType string

const (
	DocLoanEstimate      DocType = "loan_estimate"
	DocClosingDisclosure DocType = "closing_disclosure"
	DocUnknown           DocType = "unknown"
)

// DetectDocumentType distinguishes a Loan Estimate from a Closing Disclosure
// by structure: only CD line items carry payer sub-labels.
func DetectDocumentType(r *FeeRecord) DocType {
	if r == nil || r.ClosingCostDetails == nil {
		return DocUnknown
	}
	if r.ClosingCostDetails.LoanCosts == nil && r.ClosingCostDetails.OtherCosts == nil {
		return DocUnknown
	}
	for _, section := range FeeSections {
		for _, item := range r.SectionItems(section) {
			if item.SubLabel != "" {
				return DocClosingDisclosure
			}
		}
	}
	return DocLoanEstimate
}

// NormalizeTotals recomputes the derived section totals when every input
// total is present: D = A+B+C, I = E+F+G+H, J = D+I. Missing inputs leave
// the derived total untouched.
func NormalizeTotals(r *FeeRecord) {
	if r == nil || r.ClosingCostDetails == nil {
		return
	}
	lc := r.ClosingCostDetails.LoanCosts
	oc := r.ClosingCostDetails.OtherCosts
	if lc == nil || oc == nil {
		return
	}

	if a, b, c := sectionTotal(lc.A), sectionTotal(lc.B), sectionTotal(lc.C); a != nil && b != nil && c != nil {
		lc.DTotal = common.Float64Ptr(common.Round2(*a + *b + *c))
	}
	e, f, g, h := sectionTotal(oc.E), sectionTotal(oc.F), sectionTotal(oc.G), sectionTotal(oc.H)
	if e != nil && f != nil && g != nil && h != nil {
		oc.ITotal = common.Float64Ptr(common.Round2(*e + *f + *g + *h))
	}
	if lc.DTotal != nil && oc.ITotal != nil {
		oc.JTotal = common.Float64Ptr(common.Round2(*lc.DTotal + *oc.ITotal))
	}
}

func sectionTotal(s *Section) *float64 {
	if s == nil {
		return nil
	}
	return s.Total
}
