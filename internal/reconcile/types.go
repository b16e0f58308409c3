// Package reconcile implements the TRID fee reconciliation core: tolerance
// classification, reclassification detection, per-fee status evaluation and
// aggregate bucket tests between a Loan Estimate and a Closing Disclosure.
package reconcile

import (
	"context"

	"github.com/fintrid/tridcheck/internal/disclosure"
)

// ToleranceCategory is the regulatory bucket a fee falls into.
type ToleranceCategory string

const (
	ToleranceZero       ToleranceCategory = "zero"
	ToleranceTenPercent ToleranceCategory = "ten_percent"
	ToleranceUnlimited  ToleranceCategory = "unlimited"
)

// DiffType labels the kind of change detected between LE and CD.
type DiffType string

const (
	DiffIncrease     DiffType = "increase"
	DiffDecrease     DiffType = "decrease"
	DiffMissingOnCD  DiffType = "missing_on_cd"
	DiffNewOnCD      DiffType = "new_on_cd"
	DiffReclassified DiffType = "reclassified_off_borrower"
)

// ReclassTarget names the party a fee moved to when it left the
// borrower's ledger.
type ReclassTarget string

const (
	ReclassToSeller ReclassTarget = "seller"
	ReclassToOther  ReclassTarget = "other"
)

// MatchedFee is one LE/CD fee correspondence after matching and
// classification. At most one of LEAmount/CDAmount is nil; pairs where
// both are nil are excluded upstream.
type MatchedFee struct {
	FeeName             string            `json:"fee_name"`
	Section             string            `json:"section"`
	LEAmount            *float64          `json:"le_amount"`
	CDAmount            *float64          `json:"cd_amount"`
	LELabel             string            `json:"le_label"`
	CDLabel             string            `json:"cd_label"`
	MatchConfidence     float64           `json:"match_confidence"`
	ToleranceCategory   ToleranceCategory `json:"tolerance_category,omitempty"`
	ProviderName        string            `json:"provider_name,omitempty"`
	IsNew               bool              `json:"is_new"`
	ChosenFromList      *bool             `json:"chosen_from_list"`
	ChangedCircumstance bool              `json:"changed_circumstance"`
	ReclassifiedTo      ReclassTarget     `json:"reclassified_to,omitempty"`
	ReclassifiedAmount  *float64          `json:"reclassified_amount,omitempty"`
	Status              string            `json:"status,omitempty"`
	Violates            bool              `json:"violates"`
	Difference          *float64          `json:"difference,omitempty"`
}

// DiffEntry is one reportable change, derived fresh from the matched fee
// list on every reconciliation run.
type DiffEntry struct {
	FeeName            string            `json:"fee_name"`
	Section            string            `json:"section"`
	LELabel            string            `json:"le_label"`
	CDLabel            string            `json:"cd_label"`
	LEAmount           *float64          `json:"le_amount"`
	CDAmount           *float64          `json:"cd_amount"`
	Difference         *float64          `json:"difference"`
	DiffType           DiffType          `json:"diff_type"`
	ToleranceCategory  ToleranceCategory `json:"tolerance_category"`
	ProviderName       string            `json:"provider_name,omitempty"`
	ReclassifiedTo     ReclassTarget     `json:"reclassified_to,omitempty"`
	ReclassifiedAmount *float64          `json:"reclassified_amount,omitempty"`
}

// ToleranceBucket aggregates amounts across all fees in one category.
type ToleranceBucket struct {
	LESum float64 `json:"le_sum"`
	CDSum float64 `json:"cd_sum"`
	Count int     `json:"count"`
}

// TenPercentTest is the aggregate legal test over the 10% bucket. It is
// distinct from the per-fee 10% check: a single fee can be within
// tolerance while the bucket as a whole breaches, and vice versa.
type TenPercentTest struct {
	LESum        float64 `json:"le_sum"`
	CDSum        float64 `json:"cd_sum"`
	Limit        float64 `json:"limit"`
	CureRequired float64 `json:"cure_required"`
}

// Summary carries the aggregate results of one reconciliation run.
type Summary struct {
	ToleranceSummary           map[ToleranceCategory]ToleranceBucket `json:"tolerance_summary"`
	TenPercentTest             TenPercentTest                        `json:"ten_percent_test"`
	LenderCreditRecommendation string                                `json:"lender_credit_recommendation,omitempty"`
	LenderCreditAmount         *float64                              `json:"lender_credit_amount,omitempty"`
}

// Comparison is the full output of a reconciliation run.
type Comparison struct {
	MatchedFees []MatchedFee `json:"matched_fees"`
	DiffSummary []DiffEntry  `json:"diff_summary"`
	Summary     Summary      `json:"summary"`
}

// Matcher produces the LE/CD fee correspondence the engine classifies.
// Implementations may be deterministic (label matching) or semantic
// (LLM-backed); either way the engine treats the output as oracle input.
type Matcher interface {
	MatchFees(ctx context.Context, le, cd *disclosure.FeeRecord) ([]MatchedFee, error)
}
