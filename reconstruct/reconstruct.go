// Package reconstruct reads a completed search tree's best.log and derives
// the final cube partitioning: the set of leaf cubes, emitted as an iCNF
// assumption file a downstream solver can consume.
package reconstruct

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/aledsdavies/splits/internal/xerrors"
	"github.com/aledsdavies/splits/sat"
)

// Entry is one parsed "cube: metric" line from a best.log.
type Entry struct {
	Cube   sat.Cube
	Metric float64
}

// ReadBestLog parses path line by line as "<cube>: <metric>", stopping at
// the first blank line; anything after it is ignored.
func ReadBestLog(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, xerrors.Wrapf(xerrors.KindLogParse, err, "open best log %q", path)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			break
		}
		entry, err := parseBestLogLine(line)
		if err != nil {
			return nil, xerrors.Wrapf(xerrors.KindLogParse, err, "parse best log %q", path)
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, xerrors.Wrapf(xerrors.KindLogParse, err, "read best log %q", path)
	}
	return entries, nil
}

func parseBestLogLine(line string) (Entry, error) {
	idx := strings.LastIndex(line, ":")
	if idx < 0 {
		return Entry{}, xerrors.Newf(xerrors.KindLogParse, "malformed best-log line %q", line)
	}
	cubeText := strings.TrimSpace(line[:idx])
	metricText := strings.TrimSpace(line[idx+1:])

	if cubeText == "<root>" {
		cubeText = ""
	}
	cube, err := sat.ParseCube(cubeText)
	if err != nil {
		return Entry{}, err
	}
	metric, err := strconv.ParseFloat(metricText, 64)
	if err != nil {
		return Entry{}, xerrors.Wrapf(xerrors.KindLogParse, err, "invalid metric in best-log line %q", line)
	}
	return Entry{Cube: cube, Metric: metric}, nil
}

// Leaves returns the subset of entries whose cube does not subsume any
// other distinct cube among entries.
//
// This is the resolved reading of a self-contradictory spec passage: its
// prose says a leaf is "a cube not subsumed by any other cube in the log",
// but its own worked example lists a cube that IS subsumed by two shorter
// ones as a leaf regardless. The coherent reading that matches the worked
// example is the reverse relation — a leaf is a cube that does not itself
// subsume any other cube — since every cube in the log is built from its
// parent by extension, the deepest cube on each root-to-leaf path is
// exactly the one with nothing left to subsume. See DESIGN.md.
func Leaves(entries []Entry) []Entry {
	var leaves []Entry
	for i, candidate := range entries {
		isLeaf := true
		for j, other := range entries {
			if i == j {
				continue
			}
			if candidate.Cube.Subsumes(other.Cube) {
				isLeaf = false
				break
			}
		}
		if isLeaf {
			leaves = append(leaves, candidate)
		}
	}
	return leaves
}

// WriteICNF emits one "a <literals> 0" line per leaf to path.
func WriteICNF(path string, leaves []Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return xerrors.Wrapf(xerrors.KindConfig, err, "create iCNF file %q", path)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, leaf := range leaves {
		if _, err := fmt.Fprintf(w, "a %s 0\n", leaf.Cube.DecimalLiterals()); err != nil {
			return err
		}
	}
	return w.Flush()
}
