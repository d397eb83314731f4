package engine

// combinations returns every length-d subset of vars, each subset keeping
// vars' relative order. There is no combinatorics library in the reference
// stack this project draws on, so this is hand-rolled rather than imported;
// see DESIGN.md.
func combinations(vars []int, d int) [][]int {
	if d == 0 {
		return [][]int{{}}
	}
	if d > len(vars) {
		return nil
	}

	var out [][]int
	var pick func(start int, chosen []int)
	pick = func(start int, chosen []int) {
		if len(chosen) == d {
			row := make([]int, d)
			copy(row, chosen)
			out = append(out, row)
			return
		}
		remaining := d - len(chosen)
		for i := start; i <= len(vars)-remaining; i++ {
			pick(i+1, append(chosen, vars[i]))
		}
	}
	pick(0, make([]int, 0, d))
	return out
}
