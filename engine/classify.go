package engine

import (
	"strconv"
	"strings"

	"github.com/aledsdavies/splits/hypercube"
	"github.com/aledsdavies/splits/sat"
)

// enumerateSigns returns the 2^len(selection) signed-literal assignments of
// selection, delegating to the hypercube enumerator (§4D).
func enumerateSigns(selection []int) [][]sat.Literal {
	cubes := hypercube.Enumerate(selection)
	out := make([][]sat.Literal, len(cubes))
	for i, c := range cubes {
		out[i] = []sat.Literal(c)
	}
	return out
}

// classKeyFor derives the class key from a selection of variables: the
// ordered sequence of their absolute values. Per §9, the class of an actual
// produced cube is its last d literals' absolute values in order ("reverse,
// take d, reverse again") — since every candidate from the same selection
// shares that same ordered variable sequence regardless of sign, keying
// directly off the selection is equivalent and avoids re-deriving it from
// the cube's tail.
func classKeyFor(selection []int) string {
	parts := make([]string, len(selection))
	for i, v := range selection {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

// describeCube renders a cube for human-facing log lines.
func describeCube(cube sat.Cube) string {
	if len(cube) == 0 {
		return "<root>"
	}
	return cube.Serialize()
}
