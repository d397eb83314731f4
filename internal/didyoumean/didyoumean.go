// Package didyoumean suggests the closest known name for a mistyped
// configuration key.
package didyoumean

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Closest returns the candidate in known that best fuzzy-matches target.
// When no candidate contains target's characters in order (as with a
// transposed pair of letters), it falls back to the candidate with the
// smallest Levenshtein distance, provided that distance is at most a third
// of target's length. It returns the empty string if known is empty or
// neither rule yields a candidate.
func Closest(target string, known []string) string {
	if len(known) == 0 {
		return ""
	}

	ranks := fuzzy.RankFindFold(target, known)
	if len(ranks) == 0 {
		best, bestDist := "", len(target)/3+1
		for _, k := range known {
			if d := fuzzy.LevenshteinDistance(strings.ToLower(target), strings.ToLower(k)); d < bestDist {
				best, bestDist = k, d
			}
		}
		return best
	}

	best := ranks[0]
	for _, r := range ranks[1:] {
		if r.Distance < best.Distance {
			best = r
		}
	}
	return best.Target
}
