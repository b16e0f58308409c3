package reconcile

import (
	"fmt"
	"log/slog"

	"github.com/fintrid/tridcheck/internal/common"
	"github.com/fintrid/tridcheck/internal/disclosure"
	"github.com/fintrid/tridcheck/internal/fuzzy"
)

// cdIndexEntry aggregates the non-borrower amounts for one
// section:normalized-label key on the Closing Disclosure.
type cdIndexEntry struct {
	Section   string
	Label     string
	NormKey   string
	SellerSum float64
	OtherSum  float64
}

// CDLabelIndex looks up where a fee landed on the CD when it left the
// borrower's ledger. Built once per CD document.
type CDLabelIndex struct {
	entries map[string]*cdIndexEntry
}

// BuildCDLabelIndex walks every fee section of the CD and aggregates
// seller-paid and other-paid amounts keyed by section plus normalized
// label.
func BuildCDLabelIndex(cd *disclosure.FeeRecord) *CDLabelIndex {
	idx := &CDLabelIndex{entries: make(map[string]*cdIndexEntry)}
	if cd == nil {
		return idx
	}
	for _, section := range disclosure.FeeSections {
		for _, item := range cd.SectionItems(section) {
			if item.Amount == nil {
				continue
			}
			payer := item.EffectivePayer()
			if payer != disclosure.PayerSeller && payer != disclosure.PayerOther {
				continue
			}
			normKey := NormalizeLabelKey(item.Label)
			if normKey == "" {
				continue
			}
			key := fmt.Sprintf("%s:%s", section, normKey)
			entry, ok := idx.entries[key]
			if !ok {
				entry = &cdIndexEntry{Section: section, Label: item.Label, NormKey: normKey}
				idx.entries[key] = entry
			}
			if payer == disclosure.PayerSeller {
				entry.SellerSum += *item.Amount
			} else {
				entry.OtherSum += *item.Amount
			}
		}
	}
	return idx
}

// lookup resolves an entry by exact key first, then by fuzzy label
// similarity restricted to the same section.
func (idx *CDLabelIndex) lookup(section, normKey string, threshold int) *cdIndexEntry {
	if entry, ok := idx.entries[fmt.Sprintf("%s:%s", section, normKey)]; ok {
		return entry
	}
	var best *cdIndexEntry
	bestScore := 0
	for _, entry := range idx.entries {
		if entry.Section != section {
			continue
		}
		score := fuzzy.TokenSetRatio(normKey, entry.NormKey)
		if score >= threshold && score > bestScore {
			best = entry
			bestScore = score
		}
	}
	return best
}

// MarkReclassified inspects a fee that disappeared from the CD borrower
// side and, when a matching seller- or other-paid line exists, records
// the reclassification on the fee. Seller wins when both parties carry
// positive amounts.
func (idx *CDLabelIndex) MarkReclassified(fee *MatchedFee, fuzzyThreshold int) bool {
	if fee.LEAmount == nil || fee.CDAmount != nil {
		return false
	}
	var normKey string
	for _, label := range []string{fee.LELabel, fee.CDLabel, fee.FeeName} {
		if normKey = NormalizeLabelKey(label); normKey != "" {
			break
		}
	}
	if normKey == "" {
		return false
	}
	entry := idx.lookup(fee.Section, normKey, fuzzyThreshold)
	if entry == nil {
		return false
	}

	switch {
	case entry.SellerSum > 0:
		fee.ReclassifiedTo = ReclassToSeller
		fee.ReclassifiedAmount = common.Float64Ptr(common.Round2(entry.SellerSum))
	case entry.OtherSum > 0:
		fee.ReclassifiedTo = ReclassToOther
		fee.ReclassifiedAmount = common.Float64Ptr(common.Round2(entry.OtherSum))
	default:
		return false
	}
	fee.CDLabel = entry.Label
	slog.Info("reconcile.reclassified",
		"fee", fee.FeeName, "section", fee.Section,
		"to", fee.ReclassifiedTo, "amount", *fee.ReclassifiedAmount)
	return true
}
