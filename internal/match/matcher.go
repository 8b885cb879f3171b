package match

import (
	"sort"

	"github.com/MalinOfficer/Gsheet-NEW-sub000/internal/table"
)

// Pair is one candidate pairing between a leftover source row and a leftover
// target row. Either side may be nil for a "no match" entry, in which case
// Distance is NoMatch.
type Pair struct {
	Source   table.Row `json:"source"`
	Target   table.Row `json:"target"`
	Distance int       `json:"distance"`
}

// Recommend builds ranked candidate pairings between the two leftover pools.
// Source rows are processed in input order; each gets the closest
// still-available target by edit distance on normalized names, and that
// target is removed from the available pool so it is never recommended
// twice. Source rows without an extractable name and targets left without a
// source surface as NoMatch entries. The result is sorted ascending by
// distance with every NoMatch entry pushed to the end.
func Recommend(source, target []table.Row, sourceNameHeader, targetNameHeader string) []Pair {
	available := make([]table.Row, len(target))
	copy(available, target)

	pairs := make([]Pair, 0, len(source)+len(target))

	for _, src := range source {
		name := table.NormalizeName(src.Get(sourceNameHeader))
		if name == "" {
			pairs = append(pairs, Pair{Source: src, Distance: NoMatch})
			continue
		}

		best := -1
		bestDist := 0
		for i, tgt := range available {
			d := Distance(src.Get(sourceNameHeader), tgt.Get(targetNameHeader))
			if best == -1 || d < bestDist {
				best = i
				bestDist = d
			}
		}
		if best == -1 {
			pairs = append(pairs, Pair{Source: src, Distance: NoMatch})
			continue
		}

		pairs = append(pairs, Pair{Source: src, Target: available[best], Distance: bestDist})
		available = append(available[:best:best], available[best+1:]...)
	}

	for _, tgt := range available {
		pairs = append(pairs, Pair{Target: tgt, Distance: NoMatch})
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		di, dj := pairs[i].Distance, pairs[j].Distance
		if (di == NoMatch) != (dj == NoMatch) {
			return dj == NoMatch
		}
		return di < dj
	})

	return pairs
}

// Confirm applies one user-confirmed pairing: the selected source and target
// rows are drained from their pools and the merged row (target fields
// override source fields) is returned. The input slices are never mutated;
// callers must adopt the returned pools.
func Confirm(source, target []table.Row, sourceIdx, targetIdx int) (merged table.Row, newSource, newTarget []table.Row, ok bool) {
	if sourceIdx < 0 || sourceIdx >= len(source) || targetIdx < 0 || targetIdx >= len(target) {
		return nil, source, target, false
	}

	merged = table.Union(source[sourceIdx], target[targetIdx])

	newSource = make([]table.Row, 0, len(source)-1)
	newSource = append(newSource, source[:sourceIdx]...)
	newSource = append(newSource, source[sourceIdx+1:]...)

	newTarget = make([]table.Row, 0, len(target)-1)
	newTarget = append(newTarget, target[:targetIdx]...)
	newTarget = append(newTarget, target[targetIdx+1:]...)

	return merged, newSource, newTarget, true
}
