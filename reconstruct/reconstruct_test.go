package reconstruct

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/splits/sat"
)

func TestReadBestLogStopsAtBlankLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "best.log")
	content := "1: 10\n1_2: 20\n\n1_2: should not be parsed\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	entries, err := ReadBestLog(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, sat.Cube{1}, entries[0].Cube)
	assert.Equal(t, 10.0, entries[0].Metric)
	assert.Equal(t, sat.Cube{1, 2}, entries[1].Cube)
}

func TestLeavesMatchesWorkedExample(t *testing.T) {
	// best.log containing [1], [1,2], [1,-2], [1,2,3] in order.
	// [1] subsumes [1,2] and [1,-2]; [1,2] subsumes [1,2,3].
	// Leaves: [1,-2] and [1,2,3] — neither subsumes any other entry.
	entries := []Entry{
		{Cube: sat.Cube{1}, Metric: 1},
		{Cube: sat.Cube{1, 2}, Metric: 2},
		{Cube: sat.Cube{1, -2}, Metric: 3},
		{Cube: sat.Cube{1, 2, 3}, Metric: 4},
	}

	leaves := Leaves(entries)
	require.Len(t, leaves, 2)
	assert.Equal(t, sat.Cube{1, -2}, leaves[0].Cube)
	assert.Equal(t, sat.Cube{1, 2, 3}, leaves[1].Cube)
}

func TestWriteICNFFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cubes.icnf")

	leaves := []Entry{
		{Cube: sat.Cube{1, -2}},
		{Cube: sat.Cube{1, 2, 3}},
	}
	require.NoError(t, WriteICNF(path, leaves))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a 1 -2 0\na 1 2 3 0\n", string(data))
}

func TestTrivialTerminationEmitsNoLeaves(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "best.log")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o644))

	entries, err := ReadBestLog(path)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Empty(t, Leaves(entries))
}
