package sat

import (
	"strconv"
	"strings"

	"github.com/aledsdavies/splits/internal/xerrors"
)

// KindCubeParse marks a malformed cube string — a contract violation in
// whatever wrote the file name or log line, not a recoverable run failure.
const KindCubeParse xerrors.Kind = "CUBE_PARSE_ERROR"

// Cube is a finite ordered sequence of literals, interpreted as their
// conjunction — a partial assignment. Order is observable: it is used as a
// file-name key and determines a search node's class. The system does not
// deduplicate variables across a cube.
type Cube []Literal

// ExtendWith returns a new cube with lits appended after C's literals. The
// receiver is never mutated, and the result never shares a backing array
// with C — candidate cubes fanned out from the same parent at a search node
// must not alias each other's storage.
func (c Cube) ExtendWith(lits ...Literal) Cube {
	out := make(Cube, len(c)+len(lits))
	copy(out, c)
	copy(out[len(c):], lits)
	return out
}

// ContainsLiteral reports whether l appears verbatim (same sign) in C.
func (c Cube) ContainsLiteral(l Literal) bool {
	for _, lit := range c {
		if lit == l {
			return true
		}
	}
	return false
}

// ContainsVariable reports whether either sign of variable v appears in C.
func (c Cube) ContainsVariable(v int) bool {
	for _, lit := range c {
		if lit.Var() == v {
			return true
		}
	}
	return false
}

// Subsumes reports whether every literal of C also appears in other. This is
// a quadratic membership scan, intended for the short cubes a search tree
// produces, not for large clauses.
func (c Cube) Subsumes(other Cube) bool {
	for _, lit := range c {
		if !other.ContainsLiteral(lit) {
			return false
		}
	}
	return true
}

// Serialize renders C as the wire/file-name form: literals joined by '_',
// with a leading '-' replaced by 'n' (e.g. "n5_3_n12"). The empty cube
// serializes to the empty string.
func (c Cube) Serialize() string {
	if len(c) == 0 {
		return ""
	}
	tokens := make([]string, len(c))
	for i, lit := range c {
		tokens[i] = lit.pathToken()
	}
	return strings.Join(tokens, "_")
}

// DecimalLiterals renders C's literals in ordinary decimal form,
// space-separated, the form used inside a cubes.icnf "a ... 0" line.
func (c Cube) DecimalLiterals() string {
	tokens := make([]string, len(c))
	for i, lit := range c {
		tokens[i] = lit.Decimal()
	}
	return strings.Join(tokens, " ")
}

// ParseCube is the inverse of Serialize. An empty string parses to the empty
// cube. A malformed token is reported as a *xerrors.Error of KindCubeParse.
func ParseCube(s string) (Cube, error) {
	if s == "" {
		return Cube{}, nil
	}

	parts := strings.Split(s, "_")
	out := make(Cube, len(parts))
	for i, tok := range parts {
		lit, err := parseLiteralToken(tok)
		if err != nil {
			return nil, xerrors.Wrapf(KindCubeParse, err, "parse cube %q", s)
		}
		out[i] = lit
	}
	return out, nil
}

func parseLiteralToken(tok string) (Literal, error) {
	if tok == "" {
		return 0, xerrors.New(KindCubeParse, "empty literal token")
	}

	neg := false
	if strings.HasPrefix(tok, "n") {
		neg = true
		tok = tok[1:]
	}

	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, xerrors.Wrapf(KindCubeParse, err, "invalid literal token %q", tok)
	}
	if v <= 0 {
		return 0, xerrors.Newf(KindCubeParse, "literal token %q must encode a positive variable", tok)
	}
	if neg {
		v = -v
	}
	return Literal(v), nil
}
