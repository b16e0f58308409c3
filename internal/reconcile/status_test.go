package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintrid/tridcheck/internal/common"
)

func TestComputeStatusAndDiff(t *testing.T) {
	f := common.Float64Ptr

	tests := []struct {
		name       string
		le, cd     *float64
		category   ToleranceCategory
		wantStatus string
		wantViol   bool
		wantDiff   *float64
	}{
		{name: "both missing", le: nil, cd: nil, category: ToleranceZero, wantStatus: StatusNA, wantViol: false, wantDiff: nil},
		{name: "added on cd carries cd amount as difference", le: nil, cd: f(400), category: ToleranceTenPercent, wantStatus: StatusAddedOnCD, wantViol: true, wantDiff: f(400)},
		{name: "missing on cd", le: f(500), cd: nil, category: ToleranceZero, wantStatus: StatusMissingOnCD, wantViol: true, wantDiff: f(-500)},
		{name: "zero tolerance exceeded", le: f(1000), cd: f(1200), category: ToleranceZero, wantStatus: StatusExceededZero, wantViol: true, wantDiff: f(200)},
		{name: "zero tolerance equal amounts", le: f(1000), cd: f(1000), category: ToleranceZero, wantStatus: StatusWithinZero, wantViol: false, wantDiff: f(0)},
		{name: "zero tolerance decrease allowed", le: f(1000), cd: f(900), category: ToleranceZero, wantStatus: StatusWithinZero, wantViol: false, wantDiff: f(-100)},
		{name: "ten percent within limit", le: f(600), cd: f(650), category: ToleranceTenPercent, wantStatus: StatusWithinTenPct, wantViol: false, wantDiff: f(50)},
		{name: "ten percent at exact limit", le: f(600), cd: f(660), category: ToleranceTenPercent, wantStatus: StatusWithinTenPct, wantViol: false, wantDiff: f(60)},
		{name: "ten percent exceeded", le: f(600), cd: f(670), category: ToleranceTenPercent, wantStatus: StatusExceededTenPct, wantViol: true, wantDiff: f(70)},
		{name: "ten percent zero baseline flags manual check", le: f(0), cd: f(100), category: ToleranceTenPercent, wantStatus: StatusCheckManually, wantViol: false, wantDiff: f(100)},
		{name: "unlimited never violates", le: f(100), cd: f(5000), category: ToleranceUnlimited, wantStatus: StatusWithinUnlimited, wantViol: false, wantDiff: f(4900)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, violates, diff := ComputeStatusAndDiff(tt.le, tt.cd, tt.category)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantViol, violates)
			if tt.wantDiff == nil {
				assert.Nil(t, diff)
			} else {
				require.NotNil(t, diff)
				assert.InDelta(t, *tt.wantDiff, *diff, 0.001)
			}
		})
	}
}
