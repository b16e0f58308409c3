// Package disclosure models the structured fee records extracted from
// Loan Estimate and Closing Disclosure documents, and the boundary
// validation applied before any of it reaches the reconciliation core.
package disclosure

import "log/slog"

// SubLabel identifies who pays a Closing Disclosure line item and when.
type SubLabel string

const (
	SubBorrowerAtClosing     SubLabel = "borrower_paid_at_closing"
	SubBorrowerBeforeClosing SubLabel = "borrower_paid_before_closing"
	SubSellerAtClosing       SubLabel = "seller_paid_at_closing"
	SubSellerBeforeClosing   SubLabel = "seller_paid_before_closing"
	SubPaidByOthers          SubLabel = "paid_by_others"
)

// Payer is derived from SubLabel when not explicitly extracted.
type Payer string

const (
	PayerBorrower Payer = "borrower"
	PayerSeller   Payer = "seller"
	PayerOther    Payer = "other"
)

// Timing is derived from SubLabel when not explicitly extracted.
type Timing string

const (
	TimingAtClosing     Timing = "at_closing"
	TimingBeforeClosing Timing = "before_closing"
	TimingNA            Timing = "n/a"
)

// LineItem is one fee line inside a lettered section.
type LineItem struct {
	Label    string   `json:"label,omitempty"`
	Amount   *float64 `json:"amount,omitempty"`
	SubLabel SubLabel `json:"sub_label,omitempty"`
	Payer    Payer    `json:"payer,omitempty"`
	Timing   Timing   `json:"timing,omitempty"`
}

// DerivedPayer maps a sub_label onto the paying party.
func (s SubLabel) DerivedPayer() Payer {
	switch s {
	case SubBorrowerAtClosing, SubBorrowerBeforeClosing:
		return PayerBorrower
	case SubSellerAtClosing, SubSellerBeforeClosing:
		return PayerSeller
	case SubPaidByOthers:
		return PayerOther
	}
	return ""
}

// DerivedTiming maps a sub_label onto payment timing.
func (s SubLabel) DerivedTiming() Timing {
	switch s {
	case SubBorrowerAtClosing, SubSellerAtClosing:
		return TimingAtClosing
	case SubBorrowerBeforeClosing, SubSellerBeforeClosing:
		return TimingBeforeClosing
	case SubPaidByOthers:
		return TimingNA
	}
	return ""
}

// EffectivePayer resolves payer for the item. An explicit value wins over the
// derivation; a disagreement between the two is a data-quality signal, logged
// but not enforced.
func (li LineItem) EffectivePayer() Payer {
	derived := li.SubLabel.DerivedPayer()
	if li.Payer != "" {
		if derived != "" && li.Payer != derived {
			slog.Warn("disclosure.lineitem.payer_conflict",
				"label", li.Label, "explicit", li.Payer, "derived", derived)
		}
		return li.Payer
	}
	return derived
}

// EffectiveTiming resolves timing for the item, explicit value winning.
func (li LineItem) EffectiveTiming() Timing {
	derived := li.SubLabel.DerivedTiming()
	if li.Timing != "" {
		if derived != "" && li.Timing != derived {
			slog.Warn("disclosure.lineitem.timing_conflict",
				"label", li.Label, "explicit", li.Timing, "derived", derived)
		}
		return li.Timing
	}
	return derived
}

// BorrowerPaid reports whether the borrower funds this item.
func (li LineItem) BorrowerPaid() bool {
	return li.EffectivePayer() == PayerBorrower || li.SubLabel == ""
}

// Section is one lettered fee block (A..H) with its items.
type Section struct {
	Label string     `json:"label,omitempty"`
	Total *float64   `json:"total,omitempty"`
	Items []LineItem `json:"items,omitempty"`
}

// LoanCosts covers page-2 sections A-C plus the derived D total.
type LoanCosts struct {
	A      *Section `json:"A,omitempty"`
	B      *Section `json:"B,omitempty"`
	C      *Section `json:"C,omitempty"`
	DTotal *float64 `json:"D_total,omitempty"`
}

// OtherCosts covers page-2 sections E-H plus derived I/J totals.
type OtherCosts struct {
	E             *Section `json:"E,omitempty"`
	F             *Section `json:"F,omitempty"`
	G             *Section `json:"G,omitempty"`
	H             *Section `json:"H,omitempty"`
	ITotal        *float64 `json:"I_total,omitempty"`
	JTotal        *float64 `json:"J_total,omitempty"`
	LenderCredits *float64 `json:"lender_credits,omitempty"`
}

// ClosingCostDetails is the fee table of a disclosure document.
type ClosingCostDetails struct {
	LoanCosts  *LoanCosts  `json:"loan_costs,omitempty"`
	OtherCosts *OtherCosts `json:"other_costs,omitempty"`
}

// Applicant names a borrower on the loan.
type Applicant struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
}

// LoanCore carries the loan identity fields used for report headers.
type LoanCore struct {
	LoanID     string `json:"loan_id,omitempty"`
	Type       string `json:"type,omitempty"`
	Purpose    string `json:"purpose,omitempty"`
	Product    string `json:"product,omitempty"`
	TermMonths *int   `json:"term_months,omitempty"`
}

// LoanTerms carries the headline loan terms.
type LoanTerms struct {
	LoanAmount               *float64 `json:"loan_amount,omitempty"`
	InterestRatePct          *float64 `json:"interest_rate_pct,omitempty"`
	MonthlyPrincipalInterest *float64 `json:"monthly_principal_interest,omitempty"`
}

// Meta records provenance of an extracted record.
type Meta struct {
	SourceID    string `json:"source_id,omitempty"`
	SourceFile  string `json:"source_file,omitempty"`
	PageCount   int    `json:"page_count,omitempty"`
	ExtractedAt string `json:"extracted_at,omitempty"`
}

// FeeRecord is the structured output of the external document extractor,
// one per uploaded document. It is potentially noisy or incomplete; the
// reconciliation core tolerates missing sections and nil amounts.
type FeeRecord struct {
	Meta               *Meta               `json:"meta,omitempty"`
	Applicants         []Applicant         `json:"applicants,omitempty"`
	Property           map[string]string   `json:"property,omitempty"`
	SalePrice          *float64            `json:"sale_price,omitempty"`
	Loan               *LoanCore           `json:"loan,omitempty"`
	LoanTerms          *LoanTerms          `json:"loan_terms,omitempty"`
	ClosingCostDetails *ClosingCostDetails `json:"closing_cost_details,omitempty"`
}

// FeeSections lists the lettered sections carrying matchable fees,
// in form order. D, I and J are totals, not item sections.
var FeeSections = []string{"A", "B", "C", "E", "F", "G", "H"}

// SectionItems returns the items of the named section, nil-safe.
// Absent sections read as empty.
func (r *FeeRecord) SectionItems(section string) []LineItem {
	s := r.SectionByLabel(section)
	if s == nil {
		return nil
	}
	return s.Items
}

// SectionByLabel resolves a lettered section from either cost block.
func (r *FeeRecord) SectionByLabel(section string) *Section {
	if r == nil || r.ClosingCostDetails == nil {
		return nil
	}
	lc := r.ClosingCostDetails.LoanCosts
	oc := r.ClosingCostDetails.OtherCosts
	switch section {
	case "A":
		if lc != nil {
			return lc.A
		}
	case "B":
		if lc != nil {
			return lc.B
		}
	case "C":
		if lc != nil {
			return lc.C
		}
	case "E":
		if oc != nil {
			return oc.E
		}
	case "F":
		if oc != nil {
			return oc.F
		}
	case "G":
		if oc != nil {
			return oc.G
		}
	case "H":
		if oc != nil {
			return oc.H
		}
	}
	return nil
}
