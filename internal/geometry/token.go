// Package geometry turns positioned page text into line-level structures
// that the highlight locator can score against. All coordinates are in
// the source page's units, top-down (y grows toward the page bottom).
package geometry

// Token is one positioned word on a page, as emitted by the external
// text extractor.
type Token struct {
	Text   string  `json:"text"`
	X0     float64 `json:"x0"`
	X1     float64 `json:"x1"`
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

// Page carries the raw tokens of one page plus its dimensions.
type Page struct {
	Index  int     `json:"index"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Tokens []Token `json:"tokens"`
}
