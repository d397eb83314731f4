package sat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLiteralVar(t *testing.T) {
	assert.Equal(t, 5, Literal(5).Var())
	assert.Equal(t, 5, Literal(-5).Var())
}

func TestLiteralPositive(t *testing.T) {
	assert.True(t, Literal(5).Positive())
	assert.False(t, Literal(-5).Positive())
}

func TestLiteralNegate(t *testing.T) {
	assert.Equal(t, Literal(-5), Literal(5).Negate())
	assert.Equal(t, Literal(5), Literal(-5).Negate())
}

func TestLiteralDecimal(t *testing.T) {
	assert.Equal(t, "5", Literal(5).Decimal())
	assert.Equal(t, "-5", Literal(-5).Decimal())
}

func TestLiteralPathToken(t *testing.T) {
	assert.Equal(t, "5", Literal(5).pathToken())
	assert.Equal(t, "n5", Literal(-5).pathToken())
}
