package sat

import "strconv"

// Literal is a nonzero signed integer: a positive value v asserts variable v
// true, a negative value asserts it false. Zero is never a valid literal.
type Literal int

// Var returns the variable this literal refers to, irrespective of sign.
func (l Literal) Var() int {
	if l < 0 {
		return int(-l)
	}
	return int(l)
}

// Positive reports whether the literal asserts its variable true.
func (l Literal) Positive() bool { return l > 0 }

// Negate returns the opposite-signed literal over the same variable.
func (l Literal) Negate() Literal { return -l }

// Decimal renders the literal in ordinary decimal form, e.g. "5" or "-5" —
// the form used by cubes.icnf output and DIMACS clause text.
func (l Literal) Decimal() string {
	return strconv.Itoa(int(l))
}

// pathToken renders the literal in the cube-serialization alphabet, where a
// leading '-' is replaced by the letter 'n' (so the literal is always a
// filesystem-safe token).
func (l Literal) pathToken() string {
	if l < 0 {
		return "n" + strconv.Itoa(int(-l))
	}
	return strconv.Itoa(int(l))
}
