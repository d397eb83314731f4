package preprocess

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/splits/internal/config"
	"github.com/aledsdavies/splits/internal/logging"
	"github.com/aledsdavies/splits/runner"
	"github.com/aledsdavies/splits/sat"
)

// writeScriptedSolver writes a solver that reads the last clause line of its
// CNF argument (the unit clause the runner appended for the split literal)
// and emits a metric chosen by a shell case over that literal, so each
// variable's +v/-v pair can be driven to a known pair-score.
func writeScriptedSolver(t *testing.T, metricFor map[int]float64) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "solver.sh")

	script := "#!/bin/sh\n"
	script += `lit=$(grep -v '^p' "$1" | tail -1 | awk '{print $1}')` + "\n"
	script += "case \"$lit\" in\n"
	for lit, metric := range metricFor {
		script += "  " + itoa(lit) + `) echo 'SPLITS DATA{"time": 0.01, "conflicts": ` + itoa(int(metric)) + `}' >> "$2" ;;` + "\n"
	}
	script += `  *) echo 'SPLITS DATA{"time": 0.01, "conflicts": 0}' >> "$2" ;;` + "\n"
	script += "esac\n"

	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func itoa(v int) string {
	if v < 0 {
		return "-" + itoa(-v)
	}
	if v == 0 {
		return "0"
	}
	var digits []byte
	for v > 0 {
		digits = append([]byte{byte('0' + v%10)}, digits...)
		v /= 10
	}
	return string(digits)
}

func baseFormula(t *testing.T) sat.Formula {
	t.Helper()
	f, err := sat.ParseCNF("p cnf 1 1\n1 0\n")
	require.NoError(t, err)
	return f
}

func TestPreprocessRanksAndKeepsTopN(t *testing.T) {
	// variables = [10, 20, 30], minmax, preprocess count = 2.
	// Pair metrics: 10 -> (3, 7), 20 -> (5, 5), 30 -> (1, 100).
	// Inner aggregate (max) for minmax: 7, 5, 100.
	// Sorted ascending (outer, minmax): 5, 7, 100 -> keep [20, 10].
	solver := writeScriptedSolver(t, map[int]float64{
		10: 3, -10: 7,
		20: 5, -20: 5,
		30: 1, -30: 100,
	})

	tmp := t.TempDir()
	out := t.TempDir()
	rnr, err := runner.New(solver, tmp, out, false, "conflicts")
	require.NoError(t, err)

	cfg := &config.Config{
		Comparator:       config.MinMax,
		Timeout:          1,
		ThreadCount:      3,
		PreprocessCount:  2,
		EvaluationMetric: "conflicts",
	}

	kept, err := Run(context.Background(), cfg, rnr, baseFormula(t), []int{10, 20, 30}, logging.New(false, true))
	require.NoError(t, err)
	assert.Equal(t, []int{20, 10}, kept)
}

func TestPreprocessDiscardsOnTimeout(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "solver.sh")
	script := `#!/bin/sh
lit=$(grep -v '^p' "$1" | tail -1 | awk '{print $1}')
case "$lit" in
  2) sleep 2 ;;
  -2) sleep 2 ;;
  *) echo 'SPLITS DATA{"time": 0.01, "conflicts": 5}' >> "$2" ;;
esac
`
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))

	tmp := t.TempDir()
	out := t.TempDir()
	rnr, err := runner.New(path, tmp, out, false, "conflicts")
	require.NoError(t, err)

	cfg := &config.Config{
		Comparator:       config.MaxMin,
		Timeout:          0.2,
		ThreadCount:      2,
		PreprocessCount:  5,
		EvaluationMetric: "conflicts",
	}

	kept, err := Run(context.Background(), cfg, rnr, baseFormula(t), []int{1, 2}, logging.New(false, true))
	require.NoError(t, err)
	assert.Equal(t, []int{1}, kept, "variable 2 should be discarded after timing out on its split")
}
