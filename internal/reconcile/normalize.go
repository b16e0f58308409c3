package reconcile

import (
	"regexp"
	"strings"
)

var (
	linePrefixRe = regexp.MustCompile(`^\s*\d{2}\s*[-.:)]?\s*`)
	toClauseRe   = regexp.MustCompile(`\bto\b.*$`)
	feeWordRe    = regexp.MustCompile(`\bfee\b`)
	nonAlnumRe   = regexp.MustCompile(`[^a-z0-9]+`)
	rowHintRe    = regexp.MustCompile(`^\s*(\d{2})\b`)
	toWordRe     = regexp.MustCompile(`\bto\b`)
)

// NormalizeLabelKey reduces a fee label to its matching key: line-number
// prefixes, trailing provider clauses ("to John Smith Appraisers"),
// possessive variants and the word "fee" are all stripped, leaving
// lower-case alphanumeric tokens joined by single spaces. Two labels with
// the same key, within the same section, index as the same fee.
func NormalizeLabelKey(label string) string {
	s := strings.ToLower(label)
	s = linePrefixRe.ReplaceAllString(s, "")
	s = toClauseRe.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "owner’s", "owners")
	s = strings.ReplaceAll(s, "owner's", "owners")
	s = feeWordRe.ReplaceAllString(s, " ")
	s = nonAlnumRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// RowHint extracts the leading two-digit line number from a label, or ""
// when none is present.
func RowHint(label string) string {
	m := rowHintRe.FindStringSubmatch(label)
	if m == nil {
		return ""
	}
	return m[1]
}

// ExtractProvider returns the provider clause from a label, i.e. the text
// following the first standalone "to", cleaned of trailing punctuation.
// "01 Appraisal Fee to John Smith Appraisers" yields
// "John Smith Appraisers".
func ExtractProvider(label string) string {
	lower := strings.ToLower(label)
	loc := toWordRe.FindStringIndex(lower)
	if loc == nil {
		return ""
	}
	provider := strings.TrimSpace(label[loc[1]:])
	return strings.Trim(provider, " .,;:")
}
