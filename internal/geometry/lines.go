package geometry

import (
	"regexp"
	"sort"
	"strings"
)

// SectionRange is the vertical span a lettered section header governs on
// one page.
type SectionRange struct {
	StartY float64
	EndY   float64
}

// TextLine is one reconstructed line of page text with the derived
// strings the scorer matches against.
type TextLine struct {
	Top       float64
	Bottom    float64
	X0        float64
	X1        float64
	Text      string
	NormText  string
	Digits    string
	FuzzyText string
	Tokens    map[string]bool
	MidY      float64

	tokens []Token
}

// PageGeometry is the line-level view of one page, built once per
// highlighting pass and discarded afterwards.
type PageGeometry struct {
	Index         int
	Width         float64
	Height        float64
	Lines         []TextLine
	SectionRanges map[string]SectionRange
}

var (
	sectionHeaderRe = regexp.MustCompile(`(?i)^([A-H])\.\s`)
	alnumRe         = regexp.MustCompile(`[^a-z0-9]+`)
	alnumRunRe      = regexp.MustCompile(`[a-z0-9]+`)
	digitRe         = regexp.MustCompile(`[^0-9]+`)
	wsRe            = regexp.MustCompile(`\s+`)
)

// Tokenize splits text into its lowercase alphanumeric runs, so
// "$450.00 Fee," yields 450, 00, fee. Line token sets and scorer
// targets use the same rule.
func Tokenize(s string) []string {
	return alnumRunRe.FindAllString(strings.ToLower(s), -1)
}

// BuildPageGeometry clusters a page's tokens into lines and maps its
// lettered section headers onto vertical ranges. clusterTol is the
// vertical distance within which a token joins an existing line's top.
func BuildPageGeometry(page Page, clusterTol float64) *PageGeometry {
	pg := &PageGeometry{
		Index:         page.Index,
		Width:         page.Width,
		Height:        page.Height,
		SectionRanges: make(map[string]SectionRange),
	}

	// Cluster in reading order so line assembly does not depend on the
	// extractor's emission order.
	toks := make([]Token, len(page.Tokens))
	copy(toks, page.Tokens)
	sort.Slice(toks, func(i, j int) bool {
		if toks[i].Top != toks[j].Top {
			return toks[i].Top < toks[j].Top
		}
		return toks[i].X0 < toks[j].X0
	})

	var lines []*TextLine
	for _, tok := range toks {
		if strings.TrimSpace(tok.Text) == "" {
			continue
		}
		var target *TextLine
		for _, line := range lines {
			if abs(tok.Top-line.Top) <= clusterTol {
				target = line
				break
			}
		}
		if target == nil {
			lines = append(lines, &TextLine{
				Top:    tok.Top,
				Bottom: tok.Bottom,
				X0:     tok.X0,
				X1:     tok.X1,
				tokens: []Token{tok},
			})
			continue
		}
		target.tokens = append(target.tokens, tok)
		if tok.Top < target.Top {
			target.Top = tok.Top
		}
		if tok.Bottom > target.Bottom {
			target.Bottom = tok.Bottom
		}
		if tok.X0 < target.X0 {
			target.X0 = tok.X0
		}
		if tok.X1 > target.X1 {
			target.X1 = tok.X1
		}
	}

	sort.Slice(lines, func(i, j int) bool { return lines[i].Top < lines[j].Top })
	for _, line := range lines {
		finalizeLine(line)
		pg.Lines = append(pg.Lines, *line)
	}

	pg.buildSectionRanges()
	return pg
}

// finalizeLine orders a line's tokens left to right and derives the
// text forms the scorer consumes.
func finalizeLine(line *TextLine) {
	sort.Slice(line.tokens, func(i, j int) bool { return line.tokens[i].X0 < line.tokens[j].X0 })
	parts := make([]string, 0, len(line.tokens))
	for _, tok := range line.tokens {
		parts = append(parts, tok.Text)
	}
	line.Text = strings.Join(parts, " ")

	lower := strings.ToLower(line.Text)
	line.NormText = strings.TrimSpace(alnumRe.ReplaceAllString(lower, ""))
	line.Digits = digitRe.ReplaceAllString(line.Text, "")
	line.FuzzyText = strings.TrimSpace(wsRe.ReplaceAllString(lower, " "))
	line.MidY = (line.Top + line.Bottom) / 2

	line.Tokens = make(map[string]bool, len(line.tokens))
	for _, run := range Tokenize(line.Text) {
		line.Tokens[run] = true
	}
}

// buildSectionRanges finds lines starting with a lettered header
// ("A. Origination Charges") and assigns each section the span from its
// header's top to the next header's top, or the page bottom.
func (pg *PageGeometry) buildSectionRanges() {
	type header struct {
		section string
		top     float64
	}
	var headers []header
	for _, line := range pg.Lines {
		m := sectionHeaderRe.FindStringSubmatch(line.Text)
		if m == nil {
			continue
		}
		headers = append(headers, header{section: strings.ToUpper(m[1]), top: line.Top})
	}
	for i, h := range headers {
		end := pg.Height
		if i+1 < len(headers) {
			end = headers[i+1].top
		}
		if _, seen := pg.SectionRanges[h.section]; !seen {
			pg.SectionRanges[h.section] = SectionRange{StartY: h.top, EndY: end}
		}
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
