package sheet

import (
	"regexp"
	"strings"
	"time"
)

// Canonical comparison form for resolution timestamps.
const canonicalLayout = "2006-01-02 15:04"

var isoLayouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// D/M/YYYY H:mm as produced by the sheet locale, day and month without
// leading zeros.
var slashDate = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})(?:\s+(\d{1,2})[:.](\d{2}))?$`)

// Named-month form, e.g. "31 Juli 2024 07.38".
var namedDate = regexp.MustCompile(`^(\d{1,2})\s+([A-Za-z]+)\s+(\d{4})(?:\s+(\d{1,2})[:.](\d{2}))?$`)

var indonesianMonths = map[string]time.Month{
	"januari":   time.January,
	"februari":  time.February,
	"maret":     time.March,
	"april":     time.April,
	"mei":       time.May,
	"juni":      time.June,
	"juli":      time.July,
	"agustus":   time.August,
	"september": time.September,
	"oktober":   time.October,
	"november":  time.November,
	"desember":  time.December,
}

// NormalizeDate parses the heterogeneous timestamp representations seen in
// exports and sheets into one canonical "YYYY-MM-DD HH:mm" string for
// comparison. Returns false when the input matches no accepted grammar or
// names an invalid date. Never used for display formatting.
func NormalizeDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}

	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(canonicalLayout), true
		}
	}

	if m := slashDate.FindStringSubmatch(s); m != nil {
		return buildDate(m[3], int(monthNumber(m[2])), m[1], m[4], m[5])
	}

	if m := namedDate.FindStringSubmatch(s); m != nil {
		month, ok := indonesianMonths[strings.ToLower(m[2])]
		if !ok {
			return "", false
		}
		return buildDate(m[3], int(month), m[1], m[4], m[5])
	}

	return "", false
}

func monthNumber(s string) time.Month {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return time.Month(n)
}

func buildDate(year string, month int, day, hour, minute string) (string, bool) {
	y := atoi(year)
	d := atoi(day)
	h := atoi(hour)
	min := atoi(minute)

	if month < 1 || month > 12 || d < 1 || d > 31 || h > 23 || min > 59 {
		return "", false
	}

	t := time.Date(y, time.Month(month), d, h, min, 0, 0, time.UTC)
	// time.Date normalizes overflow (e.g. 31/2 becomes 2-3 March); reject
	// anything that moved.
	if t.Day() != d || t.Month() != time.Month(month) || t.Year() != y {
		return "", false
	}
	return t.Format(canonicalLayout), true
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}
