package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCombinationsSizeAndContent(t *testing.T) {
	got := combinations([]int{1, 2, 3}, 2)
	assert.ElementsMatch(t, [][]int{{1, 2}, {1, 3}, {2, 3}}, got)
}

func TestCombinationsDZero(t *testing.T) {
	got := combinations([]int{1, 2, 3}, 0)
	assert.Equal(t, [][]int{{}}, got)
}

func TestCombinationsDExceedsLength(t *testing.T) {
	got := combinations([]int{1, 2}, 3)
	assert.Nil(t, got)
}

func TestCombinationsPreservesRelativeOrder(t *testing.T) {
	got := combinations([]int{5, 1, 9}, 2)
	for _, c := range got {
		assert.True(t, isSubsequenceOf(c, []int{5, 1, 9}))
	}
}

func isSubsequenceOf(sub, full []int) bool {
	i := 0
	for _, v := range full {
		if i < len(sub) && sub[i] == v {
			i++
		}
	}
	return i == len(sub)
}
