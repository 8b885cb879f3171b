package importer

import "fmt"

// Ticket sheet layout. Data starts at row 2; row 1 is the header.
//
//	A No | B Title | C Status | D Ticket OP | E Reported At | F Resolved At |
//	G Duration (formula)
const (
	colNo         = "A"
	colTitle      = "B"
	colStatus     = "C"
	colTicketRef  = "D"
	colReportedAt = "E"
	colResolvedAt = "F"
	colDuration   = "G"

	dataStartRow = 2
)

// Headers returns the ticket sheet header row.
func Headers() []string {
	return []string{"No", "Title", "Status", "Ticket OP", "Reported At", "Resolved At", "Duration"}
}

// durationFormula computes the open-to-resolve duration for one 1-based row.
func durationFormula(row int) string {
	return fmt.Sprintf(`=IF(F%d="","",F%d-E%d)`, row, row, row)
}

func cellRef(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func colRange(col string, from, to int) string {
	return fmt.Sprintf("%s%d:%s%d", col, from, col, to)
}

// Incoming candidate column aliases, tolerant of export naming variance.
var (
	titleAliases      = []string{"title", "case detail", "case", "judul"}
	statusAliases     = []string{"status"}
	ticketRefAliases  = []string{"ticket op", "ticket", "assignee ticket", "no tiket"}
	resolvedAtAliases = []string{"resolved at", "resolve time", "resolved", "waktu selesai"}
	reportedAtAliases = []string{"reported at", "created at", "waktu lapor"}
)
