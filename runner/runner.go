// Package runner spawns the external solver binary on one extended
// instance, enforces a per-run deadline, and extracts the JSON metric
// block the solver's log is contracted to contain.
package runner

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/crypto/blake2b"

	"github.com/aledsdavies/splits/internal/invariant"
	"github.com/aledsdavies/splits/internal/xerrors"
	"github.com/aledsdavies/splits/sat"
)

type signal int

const (
	sigTerm signal = iota
	sigKill
)

// splitsDataMarker introduces the JSON metrics block in a solver's log.
const splitsDataMarker = "SPLITS DATA"

// maxFileStem bounds the on-disk file-name component derived from a cube;
// beyond it the cube is hashed instead, so a long search-depth chain never
// runs into a filesystem NAME_MAX limit.
const maxFileStem = 180

// killGrace is how long the runner waits after SIGTERM before escalating to
// SIGKILL. A child must never outlive its node; a solver that ignores
// SIGTERM would otherwise hang the runner's Wait forever.
const killGrace = 2 * time.Second

// Outcome classifies how a solver invocation ended.
type Outcome int

const (
	// Success: the solver exited before the deadline and its log yielded
	// valid metrics.
	Success Outcome = iota
	// Timeout: the deadline expired; the child was signaled and reaped.
	Timeout
	// Error: a spawn or filesystem failure occurred. Non-fatal — treated
	// like Timeout for classification purposes.
	Error
)

// Result is what a single solver invocation produces for the search engine.
type Result struct {
	Outcome Outcome
	Cube    sat.Cube

	// Metrics, Metric, and Time are populated only when Outcome == Success.
	Metrics map[string]float64
	Metric  float64 // value at config.evaluation_metric
	Time    float64 // value at "time"

	// Err carries the non-fatal cause for Outcome == Error.
	Err error
}

// Runner holds the read-only configuration shared by every invocation
// dispatched from a single search node.
type Runner struct {
	SolverPath  string
	TmpDir      string
	OutputDir   string
	PreserveCNF bool

	metricKey string
	schema    *jsonschema.Schema
}

// New builds a Runner and compiles the metrics-block schema once, so
// per-invocation validation is just Schema.Validate.
func New(solverPath, tmpDir, outputDir string, preserveCNF bool, metricKey string) (*Runner, error) {
	invariant.Precondition(solverPath != "", "solver path must not be empty")
	invariant.Precondition(metricKey != "", "evaluation metric key must not be empty")

	schema, err := compileMetricsSchema(metricKey)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.KindConfig, "compile evaluation-metric schema", err)
	}

	return &Runner{
		SolverPath:  solverPath,
		TmpDir:      tmpDir,
		OutputDir:   outputDir,
		PreserveCNF: preserveCNF,
		metricKey:   metricKey,
		schema:      schema,
	}, nil
}

func compileMetricsSchema(metricKey string) (*jsonschema.Schema, error) {
	schemaDoc := map[string]any{
		"type":     "object",
		"required": []string{"time", metricKey},
		"properties": map[string]any{
			"time":    map[string]any{"type": "number"},
			metricKey: map[string]any{"type": "number"},
		},
	}
	schemaJSON, err := json.Marshal(schemaDoc)
	if err != nil {
		return nil, err
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	const url = "schema://splits-metrics.json"
	if err := compiler.AddResource(url, bytes.NewReader(schemaJSON)); err != nil {
		return nil, err
	}
	return compiler.Compile(url)
}

// Run spawns the solver on formula extended with cube, under deadline, and
// returns its classification. A non-nil returned error is always fatal
// (log-parse error or a metrics block missing a required key): the caller
// must print it and exit the whole process, per the driver's contract that
// a solver violating the logging contract is never recoverable.
func (r *Runner) Run(ctx context.Context, formula sat.Formula, cube sat.Cube, deadline time.Duration) (Result, error) {
	invariant.NotNil(ctx, "ctx")
	invariant.Precondition(deadline > 0, "deadline must be positive")

	stem := r.fileStem(cube)
	cnfPath := filepath.Join(r.TmpDir, stem+".cnf")
	logPath := filepath.Join(r.OutputDir, "logs", stem+".log")

	text := formula.ExtendWithCube(cube)
	if err := os.WriteFile(cnfPath, []byte(text), 0o644); err != nil {
		return Result{Outcome: Error, Cube: cube, Err: xerrors.Wrapf(xerrors.KindSpawn, err, "write extended CNF for cube %q", cube.Serialize())}, nil
	}
	defer func() {
		if !r.PreserveCNF {
			_ = os.Remove(cnfPath)
		}
	}()

	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return Result{Outcome: Error, Cube: cube, Err: xerrors.Wrapf(xerrors.KindSpawn, err, "create log directory for cube %q", cube.Serialize())}, nil
	}

	cmd := exec.Command(r.SolverPath, cnfPath, logPath)
	configureProcessGroup(cmd)

	if err := cmd.Start(); err != nil {
		return Result{Outcome: Error, Cube: cube, Err: xerrors.Wrapf(xerrors.KindSpawn, err, "start solver for cube %q", cube.Serialize())}, nil
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	timedOut := false
	select {
	case <-ctx.Done():
		// Caller-supplied context canceled; not a node outcome, but the
		// child is still signaled and reaped before returning.
		terminateProcessGroup(cmd, sigTerm)
		select {
		case <-done:
		case <-time.After(killGrace):
			terminateProcessGroup(cmd, sigKill)
			<-done
		}
		return Result{}, nil
	case err := <-done:
		if err != nil {
			if _, isExit := err.(*exec.ExitError); !isExit {
				return Result{Outcome: Error, Cube: cube, Err: xerrors.Wrapf(xerrors.KindSpawn, err, "wait for solver on cube %q", cube.Serialize())}, nil
			}
			// A nonzero exit is not itself fatal: the log is still
			// inspected for a valid metrics block below.
		}
	case <-time.After(deadline):
		timedOut = true
		terminateProcessGroup(cmd, sigTerm)
		select {
		case <-done:
		case <-time.After(killGrace):
			terminateProcessGroup(cmd, sigKill)
			<-done
		}
	}

	if timedOut {
		return Result{Outcome: Timeout, Cube: cube}, nil
	}

	if _, err := os.Stat(logPath); err != nil {
		// The solver ran to completion but never wrote a log at all — a
		// spawn/IO-class failure, not a log-parse error, so non-fatal.
		return Result{Outcome: Error, Cube: cube, Err: xerrors.Wrapf(xerrors.KindSpawn, err, "solver produced no log for cube %q", cube.Serialize())}, nil
	}

	metrics, err := r.readMetrics(logPath)
	if err != nil {
		if xerrors.Is(err, xerrors.KindSpawn) {
			// The log exists but could not be read: an I/O failure, non-fatal.
			return Result{Outcome: Error, Cube: cube, Err: err}, nil
		}
		return Result{}, err // fatal: log-parse error / missing metric
	}

	return Result{
		Outcome: Success,
		Cube:    cube,
		Metrics: metrics,
		Metric:  metrics[r.metricKey],
		Time:    metrics["time"],
	}, nil
}

// readMetrics reads log in full, locates the JSON object after the last
// SPLITS DATA marker, and validates it against the compiled schema. A
// failure to read the file is a KindSpawn I/O error; every other failure
// here is a KindLogParse contract violation by the solver.
func (r *Runner) readMetrics(logPath string) (map[string]float64, error) {
	data, err := os.ReadFile(logPath)
	if err != nil {
		return nil, xerrors.Wrapf(xerrors.KindSpawn, err, "read log %q", logPath)
	}

	idx := strings.LastIndex(string(data), splitsDataMarker)
	if idx < 0 {
		return nil, xerrors.Newf(xerrors.KindLogParse, "log %q has no %q marker", logPath, splitsDataMarker)
	}

	jsonText := string(data)[idx+len(splitsDataMarker):]
	var raw map[string]float64
	if err := json.Unmarshal([]byte(jsonText), &raw); err != nil {
		// The marker may be followed by leading punctuation/newlines before
		// the object; try from the first '{'.
		if brace := strings.IndexByte(jsonText, '{'); brace >= 0 {
			if err2 := json.Unmarshal([]byte(jsonText[brace:]), &raw); err2 == nil {
				err = nil
			}
		}
		if err != nil {
			return nil, xerrors.Wrapf(xerrors.KindLogParse, err, "parse metrics JSON in %q", logPath)
		}
	}

	asAny := make(map[string]any, len(raw))
	for k, v := range raw {
		asAny[k] = v
	}
	if err := r.schema.Validate(asAny); err != nil {
		return nil, xerrors.Wrapf(xerrors.KindLogParse, err, "metrics block in %q is missing a required key", logPath)
	}

	return raw, nil
}

// fileStem returns the file-name component for cube: its serialized form,
// or a content hash when that form would exceed a safe path length.
func (r *Runner) fileStem(cube sat.Cube) string {
	s := cube.Serialize()
	if s == "" {
		s = "root"
	}
	if len(s) <= maxFileStem {
		return s
	}
	sum := blake2b.Sum256([]byte(s))
	return "h-" + hex.EncodeToString(sum[:16])
}
