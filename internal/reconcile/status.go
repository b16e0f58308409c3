package reconcile

import "github.com/fintrid/tridcheck/internal/common"

// Per-fee status strings surfaced in reports.
const (
	StatusNA               = "N/A"
	StatusAddedOnCD        = "Added on CD"
	StatusMissingOnCD      = "Missing on CD"
	StatusExceededZero     = "Exceeded ZERO tolerance"
	StatusWithinZero       = "Within ZERO tolerance"
	StatusExceededTenPct   = "Exceeded 10% tolerance"
	StatusWithinTenPct     = "Within 10% tolerance"
	StatusCheckManually    = "Check manually"
	StatusWithinUnlimited  = "Within tolerance (unlimited)"
	StatusUnknownTolerance = "Unknown tolerance"
)

// ComputeStatusAndDiff evaluates one fee against its tolerance category.
// Nulls are preserved: a missing side yields a presence status rather
// than a synthetic zero. The returned difference is cd - le, rounded.
func ComputeStatusAndDiff(leAmount, cdAmount *float64, category ToleranceCategory) (status string, violates bool, difference *float64) {
	switch {
	case leAmount == nil && cdAmount == nil:
		return StatusNA, false, nil
	case leAmount == nil:
		return StatusAddedOnCD, true, common.Float64Ptr(common.Round2(*cdAmount))
	case cdAmount == nil:
		return StatusMissingOnCD, true, common.Float64Ptr(common.Round2(-*leAmount))
	}

	diff := common.Round2(*cdAmount - *leAmount)
	difference = common.Float64Ptr(diff)

	switch category {
	case ToleranceUnlimited:
		return StatusWithinUnlimited, false, difference
	case ToleranceZero:
		if diff > 0 {
			return StatusExceededZero, true, difference
		}
		return StatusWithinZero, false, difference
	case ToleranceTenPercent:
		if *leAmount == 0 {
			return StatusCheckManually, false, difference
		}
		if diff > common.Round2(*leAmount*0.10) {
			return StatusExceededTenPct, true, difference
		}
		return StatusWithinTenPct, false, difference
	}
	return StatusUnknownTolerance, false, difference
}
