package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	assert.InDelta(t, 1320.00, Round2(1200*1.10), 0.0001)
	assert.InDelta(t, 0.01, Round2(0.005), 0.0001)
	assert.InDelta(t, -0.01, Round2(-0.005), 0.0001)
	assert.InDelta(t, 100.13, Round2(100.125), 0.0001)
}

func TestOrZero(t *testing.T) {
	assert.Equal(t, 0.0, OrZero(nil))
	assert.Equal(t, 42.5, OrZero(Float64Ptr(42.5)))
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "—", FormatMoney(nil))
	assert.Equal(t, "$0.00", FormatMoney(Float64Ptr(0)))
	assert.Equal(t, "$450.00", FormatMoney(Float64Ptr(450)))
	assert.Equal(t, "$1,234.56", FormatMoney(Float64Ptr(1234.56)))
	assert.Equal(t, "$1,234,567.89", FormatMoney(Float64Ptr(1234567.89)))
	assert.Equal(t, "-$500.00", FormatMoney(Float64Ptr(-500)))
}
