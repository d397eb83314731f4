package sat

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/aledsdavies/splits/internal/xerrors"
)

// WeightedClause is a clause with its WCNF weight. A clause carrying the
// formula's hard weight is a hard clause; any other weight is soft.
type WeightedClause struct {
	Weight  int64
	Literals []Literal
}

// WCNF is an immutable, parsed weighted-CNF instance.
type WCNF struct {
	NumVars    int
	HardWeight int64
	Clauses    []WeightedClause
}

// ParseWCNF parses a "p wcnf V C H" header followed by weighted clause lines
// "w l1 l2 ... 0", where the first token of each clause line is its weight.
func ParseWCNF(text string) (*WCNF, error) {
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var numVars, numClauses int
	var hardWeight int64
	headerSeen := false
	clauses := make([]WeightedClause, 0)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "c") {
			continue
		}
		if strings.HasPrefix(line, "p ") {
			fields := strings.Fields(line)
			if len(fields) != 5 || fields[1] != "wcnf" {
				return nil, xerrors.Newf(xerrors.KindFormulaParse, "malformed WCNF header %q", line)
			}
			var err error
			numVars, err = strconv.Atoi(fields[2])
			if err != nil {
				return nil, xerrors.Wrapf(xerrors.KindFormulaParse, err, "WCNF header variable count %q", fields[2])
			}
			numClauses, err = strconv.Atoi(fields[3])
			if err != nil {
				return nil, xerrors.Wrapf(xerrors.KindFormulaParse, err, "WCNF header clause count %q", fields[3])
			}
			hardWeight, err = strconv.ParseInt(fields[4], 10, 64)
			if err != nil {
				return nil, xerrors.Wrapf(xerrors.KindFormulaParse, err, "WCNF header hard weight %q", fields[4])
			}
			headerSeen = true
			continue
		}

		if !headerSeen {
			return nil, xerrors.Newf(xerrors.KindFormulaParse, "clause line before WCNF header: %q", line)
		}

		clause, err := parseWeightedClauseLine(line)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, clause)
	}
	if err := scanner.Err(); err != nil {
		return nil, xerrors.Wrap(xerrors.KindFormulaParse, "read WCNF text", err)
	}
	if !headerSeen {
		return nil, xerrors.New(xerrors.KindFormulaParse, "WCNF text has no \"p wcnf\" header")
	}
	if len(clauses) != numClauses {
		return nil, xerrors.Newf(xerrors.KindFormulaParse,
			"WCNF header declares %d clauses but %d were parsed", numClauses, len(clauses))
	}

	return &WCNF{NumVars: numVars, HardWeight: hardWeight, Clauses: clauses}, nil
}

func parseWeightedClauseLine(line string) (WeightedClause, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 || fields[len(fields)-1] != "0" {
		return WeightedClause{}, xerrors.Newf(xerrors.KindFormulaParse, "weighted clause line does not end with 0: %q", line)
	}
	weight, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return WeightedClause{}, xerrors.Wrapf(xerrors.KindFormulaParse, err, "invalid clause weight %q in %q", fields[0], line)
	}
	litFields := fields[1 : len(fields)-1]
	lits := make([]Literal, len(litFields))
	for i, f := range litFields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return WeightedClause{}, xerrors.Wrapf(xerrors.KindFormulaParse, err, "invalid literal %q in clause %q", f, line)
		}
		lits[i] = Literal(v)
	}
	return WeightedClause{Weight: weight, Literals: lits}, nil
}

// ExtendWithCube returns a fresh WCNF text representation of the formula
// conjoined with cube: each literal of cube is appended as a hard unit
// clause, and the header's variable/clause counts are adjusted. The
// receiver is not mutated.
func (f *WCNF) ExtendWithCube(cube Cube) string {
	numVars := f.NumVars
	for _, lit := range cube {
		if v := lit.Var(); v > numVars {
			numVars = v
		}
	}
	numClauses := len(f.Clauses) + len(cube)

	var b strings.Builder
	fmt.Fprintf(&b, "p wcnf %d %d %d\n", numVars, numClauses, f.HardWeight)
	for _, clause := range f.Clauses {
		writeWeightedClauseLine(&b, clause.Weight, clause.Literals)
	}
	for _, lit := range cube {
		writeWeightedClauseLine(&b, f.HardWeight, []Literal{lit})
	}
	return b.String()
}

func writeWeightedClauseLine(b *strings.Builder, weight int64, lits []Literal) {
	fmt.Fprintf(b, "%d ", weight)
	for _, lit := range lits {
		b.WriteString(lit.Decimal())
		b.WriteByte(' ')
	}
	b.WriteString("0\n")
}
