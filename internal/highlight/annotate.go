package highlight

import (
	"time"

	"github.com/fintrid/tridcheck/internal/reconcile"
)

// Annotation is one bounding box for the external PDF-drawing step.
// Coordinates are bottom-up (y0 measured from the page bottom), the
// convention the drawing collaborator expects.
type Annotation struct {
	PageIndex int                `json:"page_index"`
	X0        float64            `json:"x0"`
	Y0        float64            `json:"y0"`
	Width     float64            `json:"width"`
	Height    float64            `json:"height"`
	Color     ColorKey           `json:"color"`
	DiffType  reconcile.DiffType `json:"diff_type"`
	Label     string             `json:"label"`
}

// ColorKey names one of the four highlight colors.
type ColorKey string

const (
	ColorLEChange  ColorKey = "loan_estimate_change"
	ColorLEMissing ColorKey = "loan_estimate_missing"
	ColorCDChange  ColorKey = "closing_disclosure_change"
	ColorCDNew     ColorKey = "closing_disclosure_new"
)

// LegendEntry describes one color for report consumers.
type LegendEntry struct {
	Hex         string `json:"hex"`
	RGB         [3]int `json:"rgb"`
	Description string `json:"description"`
}

// Legend returns the fixed color legend shipped with every annotation
// bundle.
func Legend() map[ColorKey]LegendEntry {
	return map[ColorKey]LegendEntry{
		ColorLEChange: {
			Hex:         "#0EA5E9",
			RGB:         [3]int{14, 165, 233},
			Description: "Fee changed between Loan Estimate and Closing Disclosure",
		},
		ColorLEMissing: {
			Hex:         "#F97316",
			RGB:         [3]int{249, 115, 22},
			Description: "Fee on the Loan Estimate missing from the Closing Disclosure",
		},
		ColorCDChange: {
			Hex:         "#BE185D",
			RGB:         [3]int{190, 24, 93},
			Description: "Fee amount changed on the Closing Disclosure",
		},
		ColorCDNew: {
			Hex:         "#16A34A",
			RGB:         [3]int{22, 163, 74},
			Description: "Fee added on the Closing Disclosure, not on the Loan Estimate",
		},
	}
}

// colorFor picks the highlight color from the document side and the
// kind of change.
func colorFor(doc DocType, diffType reconcile.DiffType) ColorKey {
	if doc == DocLoanEstimate {
		if diffType == reconcile.DiffMissingOnCD {
			return ColorLEMissing
		}
		return ColorLEChange
	}
	if diffType == reconcile.DiffNewOnCD {
		return ColorCDNew
	}
	return ColorCDChange
}

// Bundle is the per-document annotation output.
type Bundle struct {
	Doc         DocType                  `json:"doc"`
	PageCount   int                      `json:"page_count"`
	GeneratedAt time.Time                `json:"generated_at"`
	Annotations []Annotation             `json:"annotations"`
	Legend      map[ColorKey]LegendEntry `json:"legend"`
}
