package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatio(t *testing.T) {
	assert.Equal(t, 100, Ratio("appraisal", "appraisal"))
	assert.Equal(t, 0, Ratio("", "appraisal"))
	assert.Equal(t, 0, Ratio("abc", "xyz"))
	assert.Greater(t, Ratio("appraisal", "appraisals"), 85)
}

func TestPartialRatio(t *testing.T) {
	// A label fully contained in a longer line scores 100.
	assert.Equal(t, 100, PartialRatio("appraisal", "01 appraisal fee to john smith 450.00"))
	assert.Equal(t, 100, PartialRatio("01 appraisal fee to john smith 450.00", "appraisal"))
	assert.Equal(t, 0, PartialRatio("", "anything"))
	assert.Less(t, PartialRatio("escrow", "recording fees and taxes"), 60)
}

func TestTokenSetRatio(t *testing.T) {
	// Word order and repetition are discounted.
	assert.Equal(t, 100, TokenSetRatio("title insurance owners", "owners title insurance"))
	assert.Equal(t, 100, TokenSetRatio("owners title", "owners owners title"))
	assert.GreaterOrEqual(t, TokenSetRatio("owners title insurance", "owners title insurance policy"), 80)
	assert.Less(t, TokenSetRatio("appraisal", "recording deed"), 40)
	assert.Equal(t, 0, TokenSetRatio("", "owners title"))
}
