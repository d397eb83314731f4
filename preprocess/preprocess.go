// Package preprocess ranks candidate splitting variables by a single-split
// solver run-pair and keeps the most promising subset, so the search engine
// starts from a smaller, pre-filtered variable set.
package preprocess

import (
	"context"
	"os"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aledsdavies/splits/internal/config"
	"github.com/aledsdavies/splits/internal/logging"
	"github.com/aledsdavies/splits/runner"
	"github.com/aledsdavies/splits/sat"
)

// candidateResult is one variable's run-pair outcome.
type candidateResult struct {
	variable  int
	pairScore float64
	plus      float64
	minus     float64
	discarded bool
}

// Run ranks every variable in variables by a +v/−v solver run-pair and
// returns the top cfg.PreprocessCount, sorted best-first by cfg.Comparator's
// outer ordering. Variables whose either half times out or errors are
// discarded outright, per §4.E.
func Run(ctx context.Context, cfg *config.Config, rnr *runner.Runner, formula sat.Formula, variables []int, log *logging.Logger) ([]int, error) {
	results := make([]candidateResult, len(variables))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.ThreadCount)

	for i, v := range variables {
		i, v := i, v
		g.Go(func() error {
			plusCube := sat.Cube{sat.Literal(v)}
			minusCube := sat.Cube{sat.Literal(-v)}
			deadline := time.Duration(cfg.Timeout * float64(time.Second))

			plusResult, err := rnr.Run(gctx, formula, plusCube, deadline)
			if err != nil {
				return err // fatal: log-parse / missing metric
			}
			minusResult, err := rnr.Run(gctx, formula, minusCube, deadline)
			if err != nil {
				return err
			}

			if plusResult.Outcome != runner.Success || minusResult.Outcome != runner.Success {
				results[i] = candidateResult{variable: v, discarded: true}
				log.Debug("preprocess: discarding variable %d (timeout or error on +/- split)", v)
				return nil
			}

			results[i] = candidateResult{
				variable:  v,
				plus:      plusResult.Metric,
				minus:     minusResult.Metric,
				pairScore: pairScore(cfg.Comparator, plusResult.Metric, minusResult.Metric),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var kept []candidateResult
	for _, r := range results {
		if !r.discarded {
			kept = append(kept, r)
		}
	}

	sortByOuterComparator(kept, cfg.Comparator)

	if log.DebugEnabled() {
		renderRankingTable(kept, log)
	}

	n := cfg.PreprocessCount
	if n > len(kept) {
		n = len(kept)
	}
	out := make([]int, n)
	for i := 0; i < n; i++ {
		out[i] = kept[i].variable
	}
	return out, nil
}

// pairScore aggregates a variable's +v/−v run pair with the inner comparator:
// maxmin takes the min of the pair, minmax takes the max.
func pairScore(cmp config.Comparator, plus, minus float64) float64 {
	if cmp == config.MaxMin {
		if plus < minus {
			return plus
		}
		return minus
	}
	if plus > minus {
		return plus
	}
	return minus
}

// sortByOuterComparator orders kept best-first: descending pair-score for
// maxmin, ascending for minmax.
func sortByOuterComparator(kept []candidateResult, cmp config.Comparator) {
	sort.SliceStable(kept, func(i, j int) bool {
		if cmp == config.MaxMin {
			return kept[i].pairScore > kept[j].pairScore
		}
		return kept[i].pairScore < kept[j].pairScore
	})
}

// renderRankingTable prints a debug-mode table of every surviving
// candidate's run-pair metrics and aggregate score.
func renderRankingTable(kept []candidateResult, log *logging.Logger) {
	table := newRankingTable(os.Stderr)
	for _, r := range kept {
		table.appendRow(r.variable, r.plus, r.minus, r.pairScore)
	}
	table.render()
}
