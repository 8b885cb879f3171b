// Package merge joins two tabular datasets on normalized student name,
// honoring the elimination rule: target rows that already carry a value in
// the mode-specific field are excluded from matching so existing data is
// never overwritten by a bulk fill.
package merge

import (
	"fmt"

	"github.com/MalinOfficer/Gsheet-NEW-sub000/internal/table"
)

// Mode selects which target-side field drives the elimination rule.
// Each mode maps to the header aliases accepted for that field.
var modeAliases = map[string][]string{
	"nisn": {"nisn"},
	"nis":  {"nis", "no. induk"},
}

var nameAliases = []string{"nama", "name", "username"}

// Summary holds the reconciled counts of one merge run.
// Total == Existing + Matched + Unmatched.
type Summary struct {
	Total     int `json:"total"`
	Existing  int `json:"existing"`
	Matched   int `json:"matched"`
	Unmatched int `json:"unmatched"`
}

// Result partitions the merge output. Once returned it is never mutated;
// manual matches are appended by the caller via match.Confirm.
type Result struct {
	MergedRows      []table.Row `json:"mergedRows"`
	UnmatchedSource []table.Row `json:"unmatchedSource"`
	UnmatchedTarget []table.Row `json:"unmatchedTarget"`
	Summary         Summary     `json:"summary"`
}

// Merge joins sourceDataset into targetDataset by normalized name.
//
// Target rows whose elimination field is already filled contribute their
// names to an elimination set: source rows with those names are counted as
// existing and dropped. Remaining source rows match eligible target rows by
// normalized name (first target wins when normalized names collide); merged
// rows are the field union with target values overriding source values.
func Merge(source, target table.Dataset, mode string) (*Result, error) {
	aliases, ok := modeAliases[mode]
	if !ok {
		return nil, fmt.Errorf("unknown merge mode %q", mode)
	}
	if source.IsEmpty() {
		return nil, fmt.Errorf("source dataset is empty")
	}
	if target.IsEmpty() {
		return nil, fmt.Errorf("target dataset is empty")
	}

	sourceName, ok := table.ResolveHeader(source.Headers, nameAliases)
	if !ok {
		return nil, fmt.Errorf("source dataset has no name column (expected one of %v)", nameAliases)
	}
	targetName, ok := table.ResolveHeader(target.Headers, nameAliases)
	if !ok {
		return nil, fmt.Errorf("target dataset has no name column (expected one of %v)", nameAliases)
	}
	elimField, ok := table.ResolveHeader(target.Headers, aliases)
	if !ok {
		return nil, fmt.Errorf("target dataset has no %s column", mode)
	}

	// First pass: names of target rows that already have data form the
	// elimination set.
	eliminated := make(map[string]bool)
	for _, row := range target.Rows {
		name := table.NormalizeName(row.Get(targetName))
		if name != "" && row.Get(elimField) != "" {
			eliminated[name] = true
		}
	}

	// Second pass: eligible rows enter the name lookup unless eliminated.
	// First row wins when normalized names collide.
	type targetEntry struct {
		row  table.Row
		used bool
	}
	var eligible []*targetEntry
	lookup := make(map[string]*targetEntry)

	for _, row := range target.Rows {
		name := table.NormalizeName(row.Get(targetName))
		if name == "" || row.Get(elimField) != "" {
			continue
		}
		entry := &targetEntry{row: row}
		eligible = append(eligible, entry)
		if !eliminated[name] {
			if _, exists := lookup[name]; !exists {
				lookup[name] = entry
			}
		}
	}

	result := &Result{
		MergedRows:      []table.Row{},
		UnmatchedSource: []table.Row{},
		UnmatchedTarget: []table.Row{},
	}

	for _, row := range source.Rows {
		result.Summary.Total++
		name := table.NormalizeName(row.Get(sourceName))
		if eliminated[name] {
			result.Summary.Existing++
			continue
		}
		entry, hit := lookup[name]
		if !hit || name == "" {
			result.UnmatchedSource = append(result.UnmatchedSource, row)
			continue
		}
		entry.used = true
		result.MergedRows = append(result.MergedRows, table.Union(row, entry.row))
		result.Summary.Matched++
	}

	for _, entry := range eligible {
		if !entry.used {
			result.UnmatchedTarget = append(result.UnmatchedTarget, entry.row)
		}
	}

	result.Summary.Unmatched = len(result.UnmatchedSource)
	return result, nil
}

// Modes lists the supported merge modes.
func Modes() []string {
	return []string{"nisn", "nis"}
}
