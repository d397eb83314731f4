package config

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseComparator(t *testing.T) {
	c, ok := ParseComparator("maxmin")
	assert.True(t, ok)
	assert.Equal(t, MaxMin, c)

	c, ok = ParseComparator("minmax")
	assert.True(t, ok)
	assert.Equal(t, MinMax, c)

	_, ok = ParseComparator("bogus")
	assert.False(t, ok)
}

func TestComparatorNeutral(t *testing.T) {
	assert.True(t, math.IsInf(MaxMin.Neutral(), -1))
	assert.True(t, math.IsInf(MinMax.Neutral(), 1))
}

func TestComparatorScoreClass(t *testing.T) {
	assert.Equal(t, 5.0, MaxMin.ScoreClass([]float64{10, 5, 20}))
	assert.Equal(t, 20.0, MinMax.ScoreClass([]float64{10, 5, 20}))
}

func TestComparatorBetterClass(t *testing.T) {
	assert.True(t, MaxMin.BetterClass(10, 5))
	assert.False(t, MaxMin.BetterClass(5, 10))
	assert.True(t, MinMax.BetterClass(5, 10))
	assert.False(t, MinMax.BetterClass(10, 5))
}

func TestComparatorMemberAdmissible(t *testing.T) {
	assert.True(t, MaxMin.MemberAdmissible(11, 1.0, 10))
	assert.False(t, MaxMin.MemberAdmissible(10, 1.0, 10), "strict improvement required")
	assert.True(t, MinMax.MemberAdmissible(9, 1.0, 10))
	assert.False(t, MinMax.MemberAdmissible(10, 1.0, 10))
}

func TestComparatorCutoffReached(t *testing.T) {
	assert.True(t, MaxMin.CutoffReached(10, 10))
	assert.True(t, MaxMin.CutoffReached(11, 10))
	assert.False(t, MaxMin.CutoffReached(9, 10))
	assert.True(t, MinMax.CutoffReached(10, 10))
	assert.False(t, MinMax.CutoffReached(11, 10))
}
