// Package engine implements the recursive tree_gen search: per node it
// enumerates candidate extensions, dispatches them to the solver runner
// through a bounded worker pool, classifies results by class key, and
// either recurses into the winning class or terminates the branch as a
// leaf.
package engine

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aledsdavies/splits/internal/config"
	"github.com/aledsdavies/splits/internal/logging"
	"github.com/aledsdavies/splits/runner"
	"github.com/aledsdavies/splits/sat"
)

// Engine holds everything a tree_gen invocation needs that does not change
// across the recursion: the live configuration, the formula, the solver
// runner, and the output directory this particular (sub-)tree writes to.
type Engine struct {
	Cfg       *config.Config
	Formula   sat.Formula
	Runner    *runner.Runner
	Log       *logging.Logger
	OutputDir string

	bestLog *bestLogWriter
	allLog  *allLogWriter
}

// New constructs an Engine rooted at outputDir. It opens outputDir's
// best.log and all.log for the lifetime of one tree_gen invocation tree.
func New(cfg *config.Config, formula sat.Formula, rnr *runner.Runner, log *logging.Logger, outputDir string) (*Engine, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, err
	}
	best, err := newBestLogWriter(filepath.Join(outputDir, "best.log"))
	if err != nil {
		return nil, err
	}
	all, err := newAllLogWriter(filepath.Join(outputDir, "all.log"))
	if err != nil {
		best.Close()
		return nil, err
	}
	return &Engine{
		Cfg:       cfg,
		Formula:   formula,
		Runner:    rnr,
		Log:       log,
		OutputDir: outputDir,
		bestLog:   best,
		allLog:    all,
	}, nil
}

// Close flushes and closes the tree's log files.
func (e *Engine) Close() {
	e.bestLog.Close()
	e.allLog.Close()
}

// candidate is one enumerated extension of the current node's cube.
type candidate struct {
	cube     sat.Cube
	classKey string
}

// classGroup is one class's members together with their solver results, in
// the order candidates were enumerated (ties between classes are broken by
// this encounter order, per the driver's contract).
type classGroup struct {
	key     string
	members []candidate
}

// TreeGen recurses from cube with parentMetric/parentTime as the node's
// inherited comparator-direction baseline and deadline basis.
func (e *Engine) TreeGen(ctx context.Context, cube sat.Cube, parentMetric, parentTime float64) error {
	remaining := remainingVariables(e.Cfg.Variables, cube)
	if len(remaining) == 0 {
		return nil
	}

	d := e.Cfg.SearchDepth
	if d > len(remaining) {
		d = len(remaining)
	}

	candidates := e.enumerateCandidates(cube, remaining, d)
	if len(candidates) == 0 {
		e.Log.Debug("tree_gen: empty candidate set at cube %q, terminating as leaf", cube.Serialize())
		return nil
	}

	deadline := time.Duration(parentTime * e.Cfg.TimeProportion * float64(time.Second))
	if deadline <= 0 {
		deadline = time.Nanosecond
	}

	results, fatalErr := e.dispatch(ctx, candidates, deadline)
	if fatalErr != nil {
		return fatalErr
	}

	if !e.Cfg.PreserveLogs {
		defer e.resetLogsDir()
	}

	groups := groupByClassKey(candidates)
	winner, _, ok := e.selectWinner(groups, results, parentMetric)
	if !ok {
		e.Log.Info("Failed to find further split after cube %s", describeCube(cube))
		return nil
	}

	for _, member := range winner.members {
		result := results[member.cube.Serialize()]
		e.bestLog.WriteEntry(member.cube, result.Metric)

		if e.Cfg.HasCutoff && e.Cfg.Comparator.CutoffReached(result.Metric, e.Cfg.Cutoff) {
			continue // branch terminates as a leaf
		}
		if err := e.TreeGen(ctx, member.cube, result.Metric, result.Time); err != nil {
			return err
		}
	}
	return nil
}

// remainingVariables returns the subset of variables not yet present
// (either sign) in cube, i.e. those whose variable identity is free.
func remainingVariables(variables []int, cube sat.Cube) []int {
	var out []int
	for _, v := range variables {
		if !cube.ContainsVariable(v) {
			out = append(out, v)
		}
	}
	return out
}

// enumerateCandidates forms the candidate set: every d-sized unordered
// selection of remaining variables, crossed with its 2^d sign assignments,
// appended to cube.
func (e *Engine) enumerateCandidates(cube sat.Cube, remaining []int, d int) []candidate {
	var out []candidate
	for _, selection := range combinations(remaining, d) {
		for _, signed := range enumerateSigns(selection) {
			out = append(out, candidate{
				cube:     cube.ExtendWith(signed...),
				classKey: classKeyFor(selection),
			})
		}
	}
	return out
}

// dispatch submits every candidate to the worker pool and collects results,
// keyed by serialized cube. It is a barrier: the caller does not proceed
// until every candidate has returned or been killed. A non-nil error is
// always fatal (a log-parse error or missing metric from the runner).
func (e *Engine) dispatch(ctx context.Context, candidates []candidate, deadline time.Duration) (map[string]runner.Result, error) {
	results := make(map[string]runner.Result, len(candidates))
	resultsCh := make(chan runner.Result, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.Cfg.ThreadCount)

	for _, c := range candidates {
		c := c
		g.Go(func() error {
			result, err := e.Runner.Run(gctx, e.Formula, c.cube, deadline)
			if err != nil {
				return err
			}
			resultsCh <- result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	close(resultsCh)

	for result := range resultsCh {
		results[result.Cube.Serialize()] = result
		e.allLog.WriteEntry(result)
	}
	return results, nil
}

// groupByClassKey groups candidates by class key, preserving the order in
// which each key was first seen (§4F: "ties are broken by encounter order").
func groupByClassKey(candidates []candidate) []*classGroup {
	index := make(map[string]*classGroup)
	var order []*classGroup
	for _, c := range candidates {
		g, ok := index[c.classKey]
		if !ok {
			g = &classGroup{key: c.classKey}
			index[c.classKey] = g
			order = append(order, g)
		}
		g.members = append(g.members, c)
	}
	return order
}

// selectWinner picks the admissible class with the best aggregate score, in
// encounter order on ties. It returns ok=false when no class is admissible.
func (e *Engine) selectWinner(groups []*classGroup, results map[string]runner.Result, parentMetric float64) (*classGroup, float64, bool) {
	var best *classGroup
	var bestScore float64
	found := false

	for _, g := range groups {
		metrics := make([]float64, 0, len(g.members))
		admissible := true
		for _, m := range g.members {
			result, ok := results[m.cube.Serialize()]
			if !ok || result.Outcome != runner.Success {
				admissible = false
				break
			}
			if !e.Cfg.Comparator.MemberAdmissible(result.Metric, e.Cfg.CutoffProportion, parentMetric) {
				admissible = false
				break
			}
			metrics = append(metrics, result.Metric)
		}
		if !admissible || len(metrics) == 0 {
			continue
		}
		score := e.Cfg.Comparator.ScoreClass(metrics)
		if !found || e.Cfg.Comparator.BetterClass(score, bestScore) {
			best = g
			bestScore = score
			found = true
		}
	}
	return best, bestScore, found
}
