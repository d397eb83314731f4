package sat

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCNFBasic(t *testing.T) {
	text := "c a comment\np cnf 3 2\n1 -2 0\n2 3 0\n"
	cnf, err := ParseCNF(text)
	require.NoError(t, err)
	assert.Equal(t, 3, cnf.NumVars)
	require.Len(t, cnf.Clauses, 2)
	assert.Equal(t, []Literal{1, -2}, cnf.Clauses[0])
	assert.Equal(t, []Literal{2, 3}, cnf.Clauses[1])
}

func TestParseCNFRejectsMissingTrailingZero(t *testing.T) {
	_, err := ParseCNF("p cnf 2 1\n1 -2\n")
	assert.Error(t, err)
}

func TestParseCNFRejectsClauseCountMismatch(t *testing.T) {
	_, err := ParseCNF("p cnf 2 2\n1 -2 0\n")
	assert.Error(t, err)
}

func TestParseCNFRejectsMissingHeader(t *testing.T) {
	_, err := ParseCNF("1 -2 0\n")
	assert.Error(t, err)
}

func TestCNFExtendWithCubeAppendsUnitClauses(t *testing.T) {
	cnf, err := ParseCNF("p cnf 2 1\n1 2 0\n")
	require.NoError(t, err)

	text := cnf.ExtendWithCube(Cube{-1, 3})
	extended, err := ParseCNF(text)
	require.NoError(t, err)

	assert.Equal(t, 3, extended.NumVars, "variable count must expand to cover cube literals beyond the original max")
	require.Len(t, extended.Clauses, 3)
	assert.Equal(t, []Literal{-1}, extended.Clauses[1])
	assert.Equal(t, []Literal{3}, extended.Clauses[2])
}

func TestCNFExtendWithCubeDoesNotMutateReceiver(t *testing.T) {
	cnf, err := ParseCNF("p cnf 2 1\n1 2 0\n")
	require.NoError(t, err)

	_ = cnf.ExtendWithCube(Cube{5})
	assert.Equal(t, 2, cnf.NumVars)
	assert.Len(t, cnf.Clauses, 1)
}

func TestCNFRoundTrip(t *testing.T) {
	text := "p cnf 3 2\n1 -2 0\n2 3 -1 0\n"
	cnf, err := ParseCNF(text)
	require.NoError(t, err)

	again, err := ParseCNF(cnf.ExtendWithCube(Cube{}))
	require.NoError(t, err)
	if diff := cmp.Diff(cnf, again); diff != "" {
		t.Errorf("round trip through ExtendWithCube(Cube{}) changed the formula (-want +got):\n%s", diff)
	}
}
