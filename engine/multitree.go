package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aledsdavies/splits/hypercube"
	"github.com/aledsdavies/splits/internal/config"
	"github.com/aledsdavies/splits/internal/logging"
	"github.com/aledsdavies/splits/reconstruct"
	"github.com/aledsdavies/splits/runner"
	"github.com/aledsdavies/splits/sat"
)

// RunMultitree drives one or more independent tree_gen searches: if
// cfg.MultitreeVariables is set, one per sign assignment of those variables,
// each in its own output subdirectory; otherwise a single search from the
// empty cube.
//
// It additionally writes a summary.log per root, listing each root cube
// alongside its leaf count once that root's search completes.
func RunMultitree(ctx context.Context, cfg *config.Config, formula sat.Formula, log *logging.Logger) error {
	roots := rootCubes(cfg)

	for _, root := range roots {
		outputDir := cfg.OutputDir
		if len(cfg.MultitreeVariables) > 0 {
			outputDir = filepath.Join(cfg.OutputDir, root.Serialize())
		}
		if err := os.MkdirAll(filepath.Join(outputDir, "logs"), 0o755); err != nil {
			return err
		}

		rnr, err := runner.New(cfg.SolverPath, cfg.TmpDir, outputDir, cfg.PreserveCNF, cfg.EvaluationMetric)
		if err != nil {
			return err
		}

		eng, err := New(cfg, formula, rnr, log, outputDir)
		if err != nil {
			return err
		}

		parentMetric := cfg.Comparator.Neutral()
		parentTime := cfg.Timeout

		log.Info("starting search at root cube %s", describeCube(root))
		if err := eng.TreeGen(ctx, root, parentMetric, parentTime); err != nil {
			eng.Close()
			return err
		}
		eng.Close()

		if err := writeSummary(outputDir, root); err != nil {
			log.Warn("failed to write summary.log for root %s: %v", describeCube(root), err)
		}
	}
	return nil
}

// rootCubes returns the set of root cubes to search from: the 2^k sign
// assignments of multitree_variables, or just the empty cube.
func rootCubes(cfg *config.Config) []sat.Cube {
	if len(cfg.MultitreeVariables) == 0 {
		return []sat.Cube{{}}
	}
	return hypercube.Enumerate(cfg.MultitreeVariables)
}

// writeSummary writes outputDir/summary.log: the root cube and the number
// of leaves found in its best.log, per the leaf definition in §4.H.
func writeSummary(outputDir string, root sat.Cube) error {
	entries, err := reconstruct.ReadBestLog(filepath.Join(outputDir, "best.log"))
	if err != nil {
		return err
	}
	leaves := reconstruct.Leaves(entries)

	f, err := os.Create(filepath.Join(outputDir, "summary.log"))
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = fmt.Fprintf(f, "root: %s\nleaves: %d\ngenerated: %s\n", describeCube(root), len(leaves), time.Now().UTC().Format(time.RFC3339))
	return err
}
