package sat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCubeExtendWithDoesNotAliasParent(t *testing.T) {
	parent := Cube{1, 2}
	a := parent.ExtendWith(3)
	b := parent.ExtendWith(-3)

	assert.Equal(t, Cube{1, 2, 3}, a)
	assert.Equal(t, Cube{1, 2, -3}, b)
	assert.Equal(t, Cube{1, 2}, parent, "extending must not mutate the parent")

	a[0] = 99
	assert.NotEqual(t, a[0], b[0], "sibling extensions of the same parent must not share a backing array")
}

func TestCubeContainsLiteralAndVariable(t *testing.T) {
	c := Cube{1, -2, 3}
	assert.True(t, c.ContainsLiteral(-2))
	assert.False(t, c.ContainsLiteral(2))
	assert.True(t, c.ContainsVariable(2))
	assert.False(t, c.ContainsVariable(5))
}

func TestCubeSubsumes(t *testing.T) {
	c := Cube{1, 2}
	assert.True(t, c.Subsumes(c))
	assert.True(t, c.Subsumes(Cube{1, 2, 3}))
	assert.False(t, c.Subsumes(Cube{1, -2, 3}))
	assert.False(t, Cube{1, 2, 3}.Subsumes(c))
}

func TestCubeSerializeRoundTrip(t *testing.T) {
	cases := []Cube{
		{},
		{1},
		{-1},
		{1, -2, 3},
		{-5, 3, -12},
	}
	for _, c := range cases {
		s := c.Serialize()
		got, err := ParseCube(s)
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
}

func TestCubeSerializeFormat(t *testing.T) {
	assert.Equal(t, "", Cube{}.Serialize())
	assert.Equal(t, "n5_3_n12", Cube{-5, 3, -12}.Serialize())
}

func TestCubeDecimalLiterals(t *testing.T) {
	assert.Equal(t, "1 -2 3", Cube{1, -2, 3}.DecimalLiterals())
}

func TestParseCubeRejectsMalformed(t *testing.T) {
	_, err := ParseCube("n0")
	assert.Error(t, err)

	_, err = ParseCube("abc")
	assert.Error(t, err)
}
