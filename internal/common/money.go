package common

import (
	"math"
	"strconv"
	"strings"
)

// Round2 rounds a dollar amount to cents, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Float64Ptr returns a pointer to v. Convenience for optional currency fields.
func Float64Ptr(v float64) *float64 {
	return &v
}

// BoolPtr returns a pointer to v.
func BoolPtr(v bool) *bool {
	return &v
}

// OrZero treats a missing amount as 0.0 for aggregation. Per-fee comparison
// keeps nils as-is; only sums default them.
func OrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// FormatMoney renders an amount as $#,##0.00, em dash when missing.
func FormatMoney(v *float64) string {
	if v == nil {
		return "—"
	}
	neg := *v < 0
	cents := strconv.FormatFloat(math.Abs(*v), 'f', 2, 64)
	whole, frac, _ := strings.Cut(cents, ".")
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i, d := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}
