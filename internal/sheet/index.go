package sheet

import (
	"regexp"
	"strings"
)

// StatusSolved is the status literal that gates resolution-timestamp
// comparison.
const StatusSolved = "Solved"

var ticketNumber = regexp.MustCompile(`#\d+`)

// RowInfo is one indexed sheet row.
type RowInfo struct {
	Row        int    // 1-based sheet row
	Title      string // trimmed case title
	Status     string
	TicketRef  string
	ResolvedAt string // raw cell value, canonicalized only for comparison
}

// Candidate is one incoming row to reconcile against the index.
type Candidate struct {
	Title      string `json:"title"`
	Status     string `json:"status"`
	TicketRef  string `json:"ticketRef"`
	ResolvedAt string `json:"resolvedAt"`
}

// ChangeRecord captures one row's differences. Only the fields whose
// *Changed flag is set carry a new value; the rest repeat the indexed value
// so mutation touches nothing that did not change.
type ChangeRecord struct {
	Title             string `json:"title"`
	Row               int    `json:"row"`
	OldStatus         string `json:"oldStatus"`
	NewStatus         string `json:"newStatus"`
	StatusChanged     bool   `json:"statusChanged"`
	OldTicketRef      string `json:"oldTicketRef"`
	NewTicketRef      string `json:"newTicketRef"`
	TicketChanged     bool   `json:"ticketChanged"`
	OldResolvedAt     string `json:"oldResolvedAt"`
	NewResolvedAt     string `json:"newResolvedAt"`
	ResolvedAtChanged bool   `json:"resolvedAtChanged"`
}

// Changed reports whether any field differs.
func (c ChangeRecord) Changed() bool {
	return c.StatusChanged || c.TicketChanged || c.ResolvedAtChanged
}

// RowIndex maps trimmed titles (and secondary "#<digits>" ticket-number
// keys) to row metadata. Rebuilt fresh for every diff/update/undo call;
// nothing is cached across calls.
type RowIndex struct {
	entries map[string]RowInfo
}

// BuildIndex constructs a RowIndex from four parallel column slices read
// from the sheet, starting at the given 1-based row. Rows with a blank title
// are skipped. A ticket-number key never overwrites an entry already keyed
// by a full title.
func BuildIndex(statuses, titles, resolvedAts, ticketRefs []string, startRow int) *RowIndex {
	idx := &RowIndex{entries: make(map[string]RowInfo)}

	for i, rawTitle := range titles {
		title := strings.TrimSpace(rawTitle)
		if title == "" {
			continue
		}

		info := RowInfo{
			Row:        startRow + i,
			Title:      title,
			Status:     at(statuses, i),
			ResolvedAt: at(resolvedAts, i),
			TicketRef:  at(ticketRefs, i),
		}

		if _, exists := idx.entries[title]; !exists {
			idx.entries[title] = info
		}
		if num := ticketNumber.FindString(title); num != "" {
			if _, exists := idx.entries[num]; !exists {
				idx.entries[num] = info
			}
		}
	}

	return idx
}

// Lookup matches an incoming title: exact trimmed-title first, then the
// "#<digits>" ticket number extracted from it. No match means the row is
// simply outside this sheet's scope.
func (idx *RowIndex) Lookup(title string) (RowInfo, bool) {
	title = strings.TrimSpace(title)
	if info, ok := idx.entries[title]; ok {
		return info, true
	}
	if num := ticketNumber.FindString(title); num != "" {
		if info, ok := idx.entries[num]; ok {
			return info, true
		}
	}
	return RowInfo{}, false
}

// Len reports how many keys are indexed.
func (idx *RowIndex) Len() int {
	return len(idx.entries)
}

// Diff compares an incoming candidate against its indexed row.
//
//   - status: plain case-sensitive inequality
//   - ticket ref: only a non-empty incoming value can differ, so a blank
//     export never erases existing data
//   - resolution timestamp: compared only when the incoming status is
//     "Solved", on canonicalized forms
//
// Re-running the diff after its changes were applied yields no change.
func Diff(info RowInfo, in Candidate) (ChangeRecord, bool) {
	rec := ChangeRecord{
		Title:         info.Title,
		Row:           info.Row,
		OldStatus:     info.Status,
		NewStatus:     info.Status,
		OldTicketRef:  info.TicketRef,
		NewTicketRef:  info.TicketRef,
		OldResolvedAt: info.ResolvedAt,
		NewResolvedAt: info.ResolvedAt,
	}

	if in.Status != info.Status {
		rec.StatusChanged = true
		rec.NewStatus = in.Status
	}

	if in.TicketRef != "" && in.TicketRef != info.TicketRef {
		rec.TicketChanged = true
		rec.NewTicketRef = in.TicketRef
	}

	if in.Status == StatusSolved {
		oldCanon, _ := NormalizeDate(info.ResolvedAt)
		newCanon, _ := NormalizeDate(in.ResolvedAt)
		if oldCanon != newCanon {
			rec.ResolvedAtChanged = true
			rec.NewResolvedAt = in.ResolvedAt
		}
	}

	return rec, rec.Changed()
}

func at(values []string, i int) string {
	if i < 0 || i >= len(values) {
		return ""
	}
	return strings.TrimSpace(values[i])
}
