// Package fuzzy provides string similarity ratios on a 0-100 scale,
// built on Levenshtein edit distance. Used for fee-label matching and
// for re-anchoring report rows onto page text.
package fuzzy

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Ratio is the plain similarity of two strings: 100 means equal,
// 0 means nothing in common.
func Ratio(a, b string) int {
	if a == b {
		return 100
	}
	la, lb := len([]rune(a)), len([]rune(b))
	if la == 0 || lb == 0 {
		return 0
	}
	longest := la
	if lb > longest {
		longest = lb
	}
	dist := levenshtein.ComputeDistance(a, b)
	return int(float64(longest-dist) / float64(longest) * 100.0)
}

// PartialRatio is the best Ratio of the shorter string against any
// equal-length window of the longer one. A short label fully contained
// in a long line scores 100.
func PartialRatio(a, b string) int {
	shorter, longer := []rune(a), []rune(b)
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) == 0 {
		return 0
	}
	if len(shorter) == len(longer) {
		return Ratio(string(shorter), string(longer))
	}
	best := 0
	for i := 0; i+len(shorter) <= len(longer); i++ {
		score := Ratio(string(shorter), string(longer[i:i+len(shorter)]))
		if score > best {
			best = score
			if best == 100 {
				break
			}
		}
	}
	return best
}

// TokenSetRatio compares the sorted unique tokens of both strings,
// discounting word order and repeated words. It is the metric used for
// the fee-label fuzzy fallback.
func TokenSetRatio(a, b string) int {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	var inter, diffA, diffB []string
	for tok := range setA {
		if setB[tok] {
			inter = append(inter, tok)
		} else {
			diffA = append(diffA, tok)
		}
	}
	for tok := range setB {
		if !setA[tok] {
			diffB = append(diffB, tok)
		}
	}
	sort.Strings(inter)
	sort.Strings(diffA)
	sort.Strings(diffB)

	sortedInter := strings.Join(inter, " ")
	combinedA := strings.TrimSpace(sortedInter + " " + strings.Join(diffA, " "))
	combinedB := strings.TrimSpace(sortedInter + " " + strings.Join(diffB, " "))

	best := Ratio(sortedInter, combinedA)
	if s := Ratio(sortedInter, combinedB); s > best {
		best = s
	}
	if s := Ratio(combinedA, combinedB); s > best {
		best = s
	}
	return best
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(strings.ToLower(s)) {
		set[tok] = true
	}
	return set
}
