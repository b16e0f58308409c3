package reconcile

import "github.com/fintrid/tridcheck/internal/common"

// ComputeToleranceMetrics sums LE/CD amounts per tolerance bucket and
// runs the aggregate 10% test. Nil amounts count as zero for
// aggregation only; per-fee display keeps them null.
func ComputeToleranceMetrics(fees []MatchedFee) (map[ToleranceCategory]ToleranceBucket, TenPercentTest) {
	buckets := map[ToleranceCategory]ToleranceBucket{
		ToleranceZero:       {},
		ToleranceTenPercent: {},
		ToleranceUnlimited:  {},
	}
	for _, fee := range fees {
		cat := fee.ToleranceCategory
		if _, ok := buckets[cat]; !ok {
			cat = ToleranceUnlimited
		}
		b := buckets[cat]
		b.LESum += common.OrZero(fee.LEAmount)
		b.CDSum += common.OrZero(fee.CDAmount)
		b.Count++
		buckets[cat] = b
	}
	for cat, b := range buckets {
		b.LESum = common.Round2(b.LESum)
		b.CDSum = common.Round2(b.CDSum)
		buckets[cat] = b
	}

	ten := buckets[ToleranceTenPercent]
	limit := common.Round2(ten.LESum * 1.10)
	cure := common.Round2(ten.CDSum - limit)
	if cure < 0 {
		cure = 0
	}
	test := TenPercentTest{
		LESum:        ten.LESum,
		CDSum:        ten.CDSum,
		Limit:        limit,
		CureRequired: cure,
	}
	return buckets, test
}
