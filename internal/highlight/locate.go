package highlight

import (
	"log/slog"
	"strings"
	"time"

	"github.com/fintrid/tridcheck/internal/common"
	"github.com/fintrid/tridcheck/internal/geometry"
)

// Locator finds the page line each request refers to and emits its
// bounding box. A request that matches nothing yields no annotation;
// that is informational, never a fault.
type Locator struct {
	cfg common.HighlightConfig
}

// NewLocator builds a locator with the configured scoring thresholds.
func NewLocator(cfg common.HighlightConfig) *Locator {
	return &Locator{cfg: cfg}
}

// Annotate runs every request for one document against its pages and
// returns the bundle of located boxes plus the color legend.
func (l *Locator) Annotate(doc DocType, source geometry.PageSource, requests []Request) (*Bundle, error) {
	pages, err := source.Pages()
	if err != nil {
		return nil, err
	}
	geoms := make([]*geometry.PageGeometry, 0, len(pages))
	for _, page := range pages {
		geoms = append(geoms, geometry.BuildPageGeometry(page, l.cfg.LineClusterTol))
	}

	bundle := &Bundle{
		Doc:         doc,
		PageCount:   len(pages),
		GeneratedAt: time.Now().UTC(),
		Annotations: []Annotation{},
		Legend:      Legend(),
	}
	for _, req := range requests {
		if req.Doc != doc {
			continue
		}
		if req.Label == "" && req.FeeName == "" {
			continue
		}
		ann, ok := l.locate(geoms, req)
		if !ok {
			slog.Info("highlight.locate.miss",
				"doc", doc, "fee", req.FeeName, "section", req.Section, "diff_type", req.DiffType)
			continue
		}
		bundle.Annotations = append(bundle.Annotations, ann)
	}
	return bundle, nil
}

// locate scans all pages for the best line at or above the primary
// threshold. When nothing reaches it and the fee has an amount, a
// retry rescores every line with both target lists empty, leaving the
// amount digits (plus row and section hints) as the only signals,
// against the lower fallback threshold.
func (l *Locator) locate(geoms []*geometry.PageGeometry, req Request) (Annotation, bool) {
	amountDigits := AmountDigits(req.Amount)

	pg, line := l.bestLine(geoms, req, primaryTargets(req), secondaryTargets(req), amountDigits, l.cfg.MinScore)
	if line == nil && amountDigits != "" {
		pg, line = l.bestLine(geoms, req, nil, nil, amountDigits, l.cfg.FallbackMinScore)
	}
	if line == nil {
		return Annotation{}, false
	}

	box := l.boundingBox(pg, line, amountDigits)
	box.Color = colorFor(req.Doc, req.DiffType)
	box.DiffType = req.DiffType
	box.Label = req.Label
	if box.Label == "" {
		box.Label = req.FeeName
	}
	return box, true
}

func (l *Locator) bestLine(geoms []*geometry.PageGeometry, req Request, primary, secondary []string, amountDigits string, minScore float64) (*geometry.PageGeometry, *geometry.TextLine) {
	var (
		bestPG    *geometry.PageGeometry
		bestLine  *geometry.TextLine
		bestScore float64
	)
	for _, pg := range geoms {
		for i := range pg.Lines {
			line := &pg.Lines[i]
			if line.NormText == "" {
				continue
			}
			score := scoreLine(line, primary, secondary, req, pg, amountDigits)
			if score < minScore {
				continue
			}
			if bestLine == nil || score > bestScore {
				bestPG, bestLine, bestScore = pg, line, score
			}
		}
	}
	return bestPG, bestLine
}

// boundingBox pads the chosen line's extent, first unioning in the
// companion line carrying the fee's amount when one sits within the
// amount-line tolerance. The y origin flips to bottom-up for the
// drawing step.
func (l *Locator) boundingBox(pg *geometry.PageGeometry, line *geometry.TextLine, amountDigits string) Annotation {
	top, bottom, x0, x1 := line.Top, line.Bottom, line.X0, line.X1

	if amountDigits != "" {
		for i := range pg.Lines {
			companion := &pg.Lines[i]
			if companion == line || !strings.Contains(companion.Digits, amountDigits) {
				continue
			}
			if diff := companion.MidY - line.MidY; diff >= -l.cfg.AmountLineTol && diff <= l.cfg.AmountLineTol {
				top = min(top, companion.Top)
				bottom = max(bottom, companion.Bottom)
				x0 = min(x0, companion.X0)
				x1 = max(x1, companion.X1)
				break
			}
		}
	}

	pad := l.cfg.Padding
	top = max(0, top-pad)
	bottom = min(pg.Height, bottom+pad)
	x0 = max(0, x0-pad)
	x1 = min(pg.Width, x1+pad)

	return Annotation{
		PageIndex: pg.Index,
		X0:        x0,
		Y0:        pg.Height - bottom,
		Width:     x1 - x0,
		Height:    bottom - top,
	}
}
