// Package highlight re-anchors reconciliation diffs onto the original
// page text of the source documents, emitting bounding boxes for an
// external PDF-drawing step.
package highlight

import (
	"strings"

	"github.com/fintrid/tridcheck/internal/reconcile"
)

// DocType names the document a request targets.
type DocType string

const (
	DocLoanEstimate      DocType = "loan_estimate"
	DocClosingDisclosure DocType = "closing_disclosure"
)

// Request asks the locator to find one fee line on one document.
type Request struct {
	Label             string
	FeeName           string
	ProviderName      string
	Amount            *float64
	Section           string
	ToleranceCategory reconcile.ToleranceCategory
	DiffType          reconcile.DiffType
	Doc               DocType
	RowHint           string
}

// BuildRequests shapes one or two locator requests per diff entry.
// A fee missing from the CD is only findable on the LE; a fee new on
// the CD only there; a reclassified fee appears on both documents as a
// decrease, the CD side using the reclassified amount.
func BuildRequests(entries []reconcile.DiffEntry) []Request {
	reqs := make([]Request, 0, 2*len(entries))
	for _, entry := range entries {
		switch entry.DiffType {
		case reconcile.DiffMissingOnCD:
			reqs = append(reqs, requestFor(entry, DocLoanEstimate))
		case reconcile.DiffNewOnCD:
			reqs = append(reqs, requestFor(entry, DocClosingDisclosure))
		case reconcile.DiffReclassified:
			leReq := requestFor(entry, DocLoanEstimate)
			leReq.DiffType = reconcile.DiffDecrease
			cdReq := requestFor(entry, DocClosingDisclosure)
			cdReq.DiffType = reconcile.DiffDecrease
			if entry.ReclassifiedAmount != nil {
				cdReq.Amount = entry.ReclassifiedAmount
			}
			reqs = append(reqs, leReq, cdReq)
		default:
			reqs = append(reqs, requestFor(entry, DocLoanEstimate), requestFor(entry, DocClosingDisclosure))
		}
	}
	return reqs
}

func requestFor(entry reconcile.DiffEntry, doc DocType) Request {
	req := Request{
		FeeName:           entry.FeeName,
		ProviderName:      entry.ProviderName,
		Section:           entry.Section,
		ToleranceCategory: entry.ToleranceCategory,
		DiffType:          entry.DiffType,
		Doc:               doc,
		RowHint:           firstRowHint(entry.CDLabel, entry.LELabel, entry.FeeName),
	}
	if doc == DocLoanEstimate {
		req.Label = firstNonEmpty(entry.LELabel, entry.FeeName)
		req.Amount = entry.LEAmount
	} else {
		req.Label = firstNonEmpty(entry.CDLabel, entry.FeeName)
		req.Amount = entry.CDAmount
	}
	return req
}

// firstRowHint returns the leading two-digit line number of the first
// candidate label bearing one.
func firstRowHint(labels ...string) string {
	for _, label := range labels {
		if hint := reconcile.RowHint(label); hint != "" {
			return hint
		}
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
