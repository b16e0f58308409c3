package highlight

import (
	"strconv"
	"strings"

	"github.com/fintrid/tridcheck/internal/fuzzy"
	"github.com/fintrid/tridcheck/internal/geometry"
)

// sectionSlack loosens the section vertical range when judging whether
// a line sits inside its section. Header box heights vary slightly
// between documents.
const sectionSlack = 6.0

// scoreLine rates how well a page line matches a request. The score is
// a weighted heuristic on a roughly 0-100+ scale; thresholds are
// configured, not derived. The target lists come from the caller: the
// primary pass uses the request's labels, the amount-only retry passes
// both lists empty.
func scoreLine(line *geometry.TextLine, primary, secondary []string, req Request, pg *geometry.PageGeometry, amountDigits string) float64 {
	score := 0.0
	for _, target := range primary {
		norm := normalizeTarget(target)
		if norm == "" {
			continue
		}
		if s := float64(fuzzy.PartialRatio(norm, line.FuzzyText)); s > score {
			score = s
		}
		hits := 0
		for _, tok := range geometry.Tokenize(target) {
			if line.Tokens[tok] {
				hits++
			}
		}
		if hits > 0 {
			score += min(20, float64(hits*6))
		}
	}

	// Weaker evidence, so each secondary ratio acts as a floor at 85%.
	for _, target := range secondary {
		norm := normalizeTarget(target)
		if norm == "" {
			continue
		}
		if s := float64(fuzzy.PartialRatio(norm, line.FuzzyText)) * 0.85; s > score {
			score = s
		}
	}

	if amountDigits != "" && strings.Contains(line.Digits, amountDigits) {
		score += 25
		if pg.Width > 0 && line.X1/pg.Width >= 0.7 {
			score += 12
		}
	}

	if req.RowHint != "" && line.Tokens[req.RowHint] {
		score += 10
	}

	if rng, ok := pg.SectionRanges[strings.ToUpper(req.Section)]; ok {
		if line.MidY >= rng.StartY-sectionSlack && line.MidY <= rng.EndY+sectionSlack {
			score += 12
		} else {
			score -= 12
		}
	}

	if score < 50 && amountDigits == "" {
		score *= 0.8
	}
	return score
}

// primaryTargets are the request's labels, matched at full weight.
func primaryTargets(req Request) []string {
	targets := make([]string, 0, 2)
	for _, t := range []string{req.Label, req.FeeName} {
		if t != "" {
			targets = append(targets, t)
		}
	}
	return targets
}

// secondaryTargets are the weaker anchors around a fee: its provider,
// its section header wording and letter, and its tolerance category.
func secondaryTargets(req Request) []string {
	targets := make([]string, 0, 4)
	if req.ProviderName != "" {
		targets = append(targets, req.ProviderName)
	}
	if req.Section != "" {
		targets = append(targets, "section "+req.Section, req.Section)
	}
	if req.ToleranceCategory != "" {
		targets = append(targets, string(req.ToleranceCategory))
	}
	return targets
}

func normalizeTarget(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// AmountDigits renders an amount the way it prints on a disclosure
// (#,##0.00) and strips it to digits, the form line digit strings use.
func AmountDigits(amount *float64) string {
	if amount == nil {
		return ""
	}
	v := *amount
	if v < 0 {
		v = -v
	}
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, strconv.FormatFloat(v, 'f', 2, 64))
}
