package match

import (
	"github.com/agnivade/levenshtein"

	"github.com/MalinOfficer/Gsheet-NEW-sub000/internal/table"
)

// NoMatch is the sentinel distance for pairs that must never be
// auto-matched: rows without an extractable name and leftover rows with no
// counterpart.
const NoMatch = -1

// Distance computes the edit distance between two names after
// normalization. Lower is more similar; 0 means the normalized forms are
// identical.
func Distance(a, b string) int {
	return levenshtein.ComputeDistance(table.NormalizeName(a), table.NormalizeName(b))
}
