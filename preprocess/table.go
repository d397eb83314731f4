package preprocess

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
)

// rankingTable renders the preprocessor's per-variable run-pair scores in
// debug mode, in ranked order.
type rankingTable struct {
	w *tablewriter.Table
}

func newRankingTable(out io.Writer) *rankingTable {
	t := tablewriter.NewWriter(out)
	t.SetHeader([]string{"variable", "+v metric", "-v metric", "pair score"})
	t.SetAutoFormatHeaders(false)
	return &rankingTable{w: t}
}

func (r *rankingTable) appendRow(variable int, plus, minus, pairScore float64) {
	r.w.Append([]string{
		strconv.Itoa(variable),
		strconv.FormatFloat(plus, 'f', 4, 64),
		strconv.FormatFloat(minus, 'f', 4, 64),
		strconv.FormatFloat(pairScore, 'f', 4, 64),
	})
}

func (r *rankingTable) render() {
	r.w.Render()
}
