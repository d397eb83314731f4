package engine

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/aledsdavies/splits/runner"
	"github.com/aledsdavies/splits/sat"
)

// bestLogWriter appends "<cube>: <metric>" lines to a tree's best.log, the
// record the reconstructor later reads to derive the leaf partitioning.
type bestLogWriter struct {
	f *os.File
	w *bufio.Writer
}

func newBestLogWriter(path string) (*bestLogWriter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return &bestLogWriter{f: f, w: bufio.NewWriter(f)}, nil
}

func (l *bestLogWriter) WriteEntry(cube sat.Cube, metric float64) {
	fmt.Fprintf(l.w, "%s: %s\n", describeCube(cube), strconv.FormatFloat(metric, 'g', -1, 64))
	l.w.Flush()
}

func (l *bestLogWriter) Close() {
	l.w.Flush()
	l.f.Close()
}

// allLogWriter appends one line per dispatched result to a tree's all.log.
type allLogWriter struct {
	f *os.File
	w *bufio.Writer
}

func newAllLogWriter(path string) (*allLogWriter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return &allLogWriter{f: f, w: bufio.NewWriter(f)}, nil
}

func (l *allLogWriter) WriteEntry(result runner.Result) {
	switch result.Outcome {
	case runner.Success:
		fmt.Fprintf(l.w, "%s: %v\n", describeCube(result.Cube), result.Metrics)
	case runner.Timeout:
		fmt.Fprintf(l.w, "%s: Timeout\n", describeCube(result.Cube))
	case runner.Error:
		fmt.Fprintf(l.w, "%s: %v\n", describeCube(result.Cube), result.Err)
	}
	l.w.Flush()
}

func (l *allLogWriter) Close() {
	l.w.Flush()
	l.f.Close()
}

// resetLogsDir deletes and recreates the tree's logs directory, so
// individual per-solver-run log files survive only until the next node
// completes, per §4F's retention rule when preserve_logs is off.
func (e *Engine) resetLogsDir() {
	logsDir := filepath.Join(e.OutputDir, "logs")
	_ = os.RemoveAll(logsDir)
	_ = os.MkdirAll(logsDir, 0o755)
}
