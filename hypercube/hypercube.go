// Package hypercube enumerates sign assignments over a set of variables:
// the 2^k vertices of the Boolean cube those variables span.
package hypercube

import (
	"github.com/aledsdavies/splits/internal/invariant"
	"github.com/aledsdavies/splits/sat"
)

// Enumerate returns all 2^k ordered sign assignments of vars = [v1, ..., vk]:
// every row has length k, mentions each |v| exactly once, and no two rows
// are identical. Production order is deterministic (it is observable in
// file names and log order) but carries no semantic weight beyond that.
//
// Recursive definition: empty input -> [[]]; otherwise pop the last
// variable x, recurse on the rest, and for each recursive result emit it
// once with +x appended and once with -x appended.
func Enumerate(vars []int) []sat.Cube {
	if len(vars) == 0 {
		return []sat.Cube{{}}
	}

	invariant.Precondition(vars[len(vars)-1] > 0, "hypercube variables must be positive")

	x := vars[len(vars)-1]
	rest := Enumerate(vars[:len(vars)-1])

	out := make([]sat.Cube, 0, len(rest)*2)
	for _, r := range rest {
		out = append(out, r.ExtendWith(sat.Literal(x)), r.ExtendWith(sat.Literal(-x)))
	}
	return out
}
