package sat

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/aledsdavies/splits/internal/xerrors"
)

// Formula is implemented by CNF and WCNF. ExtendWithCube is pure: it never
// mutates the receiver, only returns a fresh DIMACS/WDIMACS text
// representation of the formula conjoined with cube.
type Formula interface {
	ExtendWithCube(cube Cube) string
}

// CNF is an immutable, parsed DIMACS CNF instance.
type CNF struct {
	NumVars int
	Clauses [][]Literal
}

// ParseCNF parses standard DIMACS CNF: a "p cnf V C" header followed by
// clause lines "l1 l2 ... 0". Lines starting with 'c' are comments. Every
// clause line must end with a literal 0, and the number of clauses parsed
// must match the header's declared count.
func ParseCNF(text string) (*CNF, error) {
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var numVars, numClauses int
	headerSeen := false
	clauses := make([][]Literal, 0)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "c") {
			continue
		}
		if strings.HasPrefix(line, "p ") {
			fields := strings.Fields(line)
			if len(fields) != 4 || fields[1] != "cnf" {
				return nil, xerrors.Newf(xerrors.KindFormulaParse, "malformed CNF header %q", line)
			}
			var err error
			numVars, err = strconv.Atoi(fields[2])
			if err != nil {
				return nil, xerrors.Wrapf(xerrors.KindFormulaParse, err, "CNF header variable count %q", fields[2])
			}
			numClauses, err = strconv.Atoi(fields[3])
			if err != nil {
				return nil, xerrors.Wrapf(xerrors.KindFormulaParse, err, "CNF header clause count %q", fields[3])
			}
			headerSeen = true
			continue
		}

		if !headerSeen {
			return nil, xerrors.Newf(xerrors.KindFormulaParse, "clause line before CNF header: %q", line)
		}

		clause, err := parseClauseLine(line)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, clause)
	}
	if err := scanner.Err(); err != nil {
		return nil, xerrors.Wrap(xerrors.KindFormulaParse, "read CNF text", err)
	}
	if !headerSeen {
		return nil, xerrors.New(xerrors.KindFormulaParse, "CNF text has no \"p cnf\" header")
	}
	if len(clauses) != numClauses {
		return nil, xerrors.Newf(xerrors.KindFormulaParse,
			"CNF header declares %d clauses but %d were parsed", numClauses, len(clauses))
	}

	return &CNF{NumVars: numVars, Clauses: clauses}, nil
}

func parseClauseLine(line string) ([]Literal, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 || fields[len(fields)-1] != "0" {
		return nil, xerrors.Newf(xerrors.KindFormulaParse, "clause line does not end with 0: %q", line)
	}
	fields = fields[:len(fields)-1]
	clause := make([]Literal, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, xerrors.Wrapf(xerrors.KindFormulaParse, err, "invalid literal %q in clause %q", f, line)
		}
		clause[i] = Literal(v)
	}
	return clause, nil
}

// ExtendWithCube returns a fresh CNF text representation of the formula
// conjoined with cube: each literal of cube is appended as a unit clause,
// and the header's variable/clause counts are adjusted. The receiver is not
// mutated.
func (f *CNF) ExtendWithCube(cube Cube) string {
	numVars := f.NumVars
	for _, lit := range cube {
		if v := lit.Var(); v > numVars {
			numVars = v
		}
	}
	numClauses := len(f.Clauses) + len(cube)

	var b strings.Builder
	fmt.Fprintf(&b, "p cnf %d %d\n", numVars, numClauses)
	for _, clause := range f.Clauses {
		writeClauseLine(&b, clause)
	}
	for _, lit := range cube {
		writeClauseLine(&b, []Literal{lit})
	}
	return b.String()
}

func writeClauseLine(b *strings.Builder, clause []Literal) {
	for _, lit := range clause {
		b.WriteString(lit.Decimal())
		b.WriteByte(' ')
	}
	b.WriteString("0\n")
}
