package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tok(text string, x0, x1, top, bottom float64) Token {
	return Token{Text: text, X0: x0, X1: x1, Top: top, Bottom: bottom}
}

func TestBuildPageGeometry_LineClustering(t *testing.T) {
	page := Page{
		Index:  1,
		Width:  612,
		Height: 792,
		Tokens: []Token{
			// Out of order on purpose; same visual line within 3.0 units.
			tok("Fee", 80, 100, 100.5, 110.5),
			tok("Appraisal", 30, 78, 101.2, 111.0),
			tok("450.00", 500, 540, 102.0, 112.0),
			// A separate line further down.
			tok("Credit", 30, 60, 120.0, 130.0),
			tok("Report", 62, 95, 120.4, 130.2),
			// Whitespace-only tokens are dropped.
			tok("  ", 200, 210, 120.0, 130.0),
		},
	}

	pg := BuildPageGeometry(page, 3.0)
	require.Len(t, pg.Lines, 2)

	first := pg.Lines[0]
	assert.Equal(t, "Appraisal Fee 450.00", first.Text)
	assert.Equal(t, "appraisalfee45000", first.NormText)
	assert.Equal(t, "45000", first.Digits)
	assert.Equal(t, "appraisal fee 450.00", first.FuzzyText)
	assert.True(t, first.Tokens["appraisal"])
	assert.True(t, first.Tokens["450"])
	assert.True(t, first.Tokens["00"])
	assert.False(t, first.Tokens["450.00"])
	assert.InDelta(t, 30, first.X0, 0.001)
	assert.InDelta(t, 540, first.X1, 0.001)
	assert.InDelta(t, 100.5, first.Top, 0.001)
	assert.InDelta(t, 112.0, first.Bottom, 0.001)
	assert.InDelta(t, 106.25, first.MidY, 0.001)

	second := pg.Lines[1]
	assert.Equal(t, "Credit Report", second.Text)
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"450", "00", "fee"}, Tokenize("$450.00 Fee,"))
	assert.Equal(t, []string{"01", "appraisal", "fee"}, Tokenize("01 Appraisal Fee"))
	assert.Empty(t, Tokenize("  --  "))
}

func TestBuildPageGeometry_SectionRanges(t *testing.T) {
	page := Page{
		Index:  1,
		Width:  612,
		Height: 792,
		Tokens: []Token{
			tok("A.", 30, 40, 50, 60),
			tok("Origination", 42, 100, 50, 60),
			tok("Charges", 102, 150, 50, 60),
			tok("01", 30, 40, 70, 80),
			tok("Origination", 42, 100, 70, 80),
			tok("Fee", 102, 120, 70, 80),
			tok("B.", 30, 40, 200, 210),
			tok("Services", 42, 100, 200, 210),
			// Not a header: letter out of range.
			tok("Z.", 30, 40, 300, 310),
			tok("Totals", 42, 100, 300, 310),
		},
	}

	pg := BuildPageGeometry(page, 3.0)

	require.Contains(t, pg.SectionRanges, "A")
	require.Contains(t, pg.SectionRanges, "B")
	assert.NotContains(t, pg.SectionRanges, "Z")

	a := pg.SectionRanges["A"]
	assert.InDelta(t, 50, a.StartY, 0.001)
	assert.InDelta(t, 200, a.EndY, 0.001)

	// The last header runs to the page bottom.
	b := pg.SectionRanges["B"]
	assert.InDelta(t, 200, b.StartY, 0.001)
	assert.InDelta(t, 792, b.EndY, 0.001)
}

func TestBuildPageGeometry_CaseInsensitiveHeader(t *testing.T) {
	page := Page{
		Index:  0,
		Width:  612,
		Height: 792,
		Tokens: []Token{
			tok("e.", 30, 40, 100, 110),
			tok("Taxes", 42, 90, 100, 110),
		},
	}
	pg := BuildPageGeometry(page, 3.0)
	assert.Contains(t, pg.SectionRanges, "E")
}
