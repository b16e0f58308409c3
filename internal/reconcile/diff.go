package reconcile

import (
	"math"

	"github.com/fintrid/tridcheck/internal/common"
)

// DiffEpsilon is the absolute difference below which two amounts are
// treated as equal, filtering floating-point noise.
const DiffEpsilon = 0.01

// BuildDiffSummary derives one DiffEntry per matched fee with a
// detectable change. Fees with both amounts null, and pairs differing by
// less than DiffEpsilon, produce no entry.
func BuildDiffSummary(fees []MatchedFee) []DiffEntry {
	entries := make([]DiffEntry, 0, len(fees))
	for _, fee := range fees {
		entry, ok := diffForFee(fee)
		if !ok {
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

func diffForFee(fee MatchedFee) (DiffEntry, bool) {
	entry := DiffEntry{
		FeeName:            fee.FeeName,
		Section:            fee.Section,
		LELabel:            fee.LELabel,
		CDLabel:            fee.CDLabel,
		LEAmount:           fee.LEAmount,
		CDAmount:           fee.CDAmount,
		ToleranceCategory:  fee.ToleranceCategory,
		ProviderName:       fee.ProviderName,
		ReclassifiedTo:     fee.ReclassifiedTo,
		ReclassifiedAmount: fee.ReclassifiedAmount,
	}

	switch {
	case fee.LEAmount == nil && fee.CDAmount == nil:
		return DiffEntry{}, false
	case fee.CDAmount == nil && fee.ReclassifiedTo != "":
		entry.DiffType = DiffReclassified
		entry.Difference = common.Float64Ptr(common.Round2(-*fee.LEAmount))
	case fee.LEAmount == nil:
		entry.DiffType = DiffNewOnCD
		entry.Difference = nil
	case fee.CDAmount == nil:
		entry.DiffType = DiffMissingOnCD
		entry.Difference = common.Float64Ptr(common.Round2(-*fee.LEAmount))
	default:
		diff := common.Round2(*fee.CDAmount - *fee.LEAmount)
		if math.Abs(diff) < DiffEpsilon {
			return DiffEntry{}, false
		}
		entry.Difference = common.Float64Ptr(diff)
		if diff > 0 {
			entry.DiffType = DiffIncrease
		} else {
			entry.DiffType = DiffDecrease
		}
	}
	return entry, true
}
