// Package scan inspects student roster sheets for duplicate NIS/NISN values
// and records with missing identifiers or dates of birth. One malformed
// sheet never drops valid data from the other sheets in the same run.
package scan

import (
	"strings"

	"github.com/MalinOfficer/Gsheet-NEW-sub000/internal/table"
)

// headerScanLimit bounds how deep the header row is searched for.
const headerScanLimit = 20

var (
	idAliases  = []string{"nis", "no. induk", "nisn"}
	dobAliases = []string{"tanggal lahir", "tgl lahir", "tgl. lahir", "dob"}
)

// Sheet is one raw table inside an input file, rows as read from the parser.
type Sheet struct {
	Name string     `json:"name"`
	Rows [][]string `json:"rows"`
}

// Input is one uploaded file with its sheets.
type Input struct {
	File   string  `json:"file"`
	Sheets []Sheet `json:"sheets"`
}

// Record is one flagged student row.
type Record struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	SourceFile  string `json:"sourceFile"`
	SourceSheet string `json:"sourceSheet"`
}

// SkippedSheet reports a sheet that could not be scanned and why.
type SkippedSheet struct {
	File    string   `json:"file"`
	Sheet   string   `json:"sheet"`
	Missing []string `json:"missing"`
}

// Report is the outcome of one scan run.
type Report struct {
	Duplicates []Record       `json:"duplicates"`
	EmptyID    []Record       `json:"emptyId"`
	EmptyDOB   []Record       `json:"emptyDob"`
	Skipped    []SkippedSheet `json:"skipped"`
	SheetCount int            `json:"scannedSheetCount"`
}

type sheetColumns struct {
	headerRow int
	name      int
	nis       int
	nisn      int
	dob       int
}

// Scan walks every sheet of every input, groups rows by identifier across
// the whole batch, and reports duplicate groups plus rows with an empty or
// digitless identifier and rows missing a date of birth.
func Scan(inputs []Input) *Report {
	report := &Report{
		Duplicates: []Record{},
		EmptyID:    []Record{},
		EmptyDOB:   []Record{},
		Skipped:    []SkippedSheet{},
	}

	byID := make(map[string][]Record)
	var idOrder []string

	for _, input := range inputs {
		for _, sheet := range input.Sheets {
			cols, missing := locateColumns(sheet.Rows)
			if len(missing) > 0 {
				report.Skipped = append(report.Skipped, SkippedSheet{
					File:    input.File,
					Sheet:   sheet.Name,
					Missing: missing,
				})
				continue
			}
			report.SheetCount++

			for _, row := range sheet.Rows[cols.headerRow+1:] {
				name := strings.TrimSpace(cell(row, cols.name))
				if name == "" {
					continue
				}

				rec := Record{
					Name:        name,
					SourceFile:  input.File,
					SourceSheet: sheet.Name,
				}

				id := strings.TrimSpace(cell(row, cols.nis))
				if id == "" {
					id = strings.TrimSpace(cell(row, cols.nisn))
				}
				rec.ID = id

				if !hasDigit(id) {
					report.EmptyID = append(report.EmptyID, rec)
				} else {
					if _, seen := byID[id]; !seen {
						idOrder = append(idOrder, id)
					}
					byID[id] = append(byID[id], rec)
				}

				if cols.dob >= 0 {
					dob := strings.TrimSpace(cell(row, cols.dob))
					if dob == "" || strings.HasPrefix(dob, "#") {
						report.EmptyDOB = append(report.EmptyDOB, rec)
					}
				}
			}
		}
	}

	// Every member of a duplicate group is reported, not just the extras.
	for _, id := range idOrder {
		if group := byID[id]; len(group) >= 2 {
			report.Duplicates = append(report.Duplicates, group...)
		}
	}

	return report
}

// locateColumns finds the header row within the first 20 rows and resolves
// the name, identifier, and date-of-birth columns. Missing lists the
// human-readable names of required columns that were not found.
func locateColumns(rows [][]string) (sheetColumns, []string) {
	limit := len(rows)
	if limit > headerScanLimit {
		limit = headerScanLimit
	}

	for i := 0; i < limit; i++ {
		headers := rows[i]
		cols := sheetColumns{headerRow: i, name: -1, nis: -1, nisn: -1, dob: -1}

		for j, h := range headers {
			norm := strings.ToLower(strings.TrimSpace(h))
			switch {
			case norm == "nis" || norm == "no. induk":
				if cols.nis < 0 {
					cols.nis = j
				}
			case norm == "nisn":
				if cols.nisn < 0 {
					cols.nisn = j
				}
			case strings.Contains(norm, "nama") || norm == "name" || norm == "username":
				if cols.name < 0 {
					cols.name = j
				}
			default:
				for _, a := range dobAliases {
					if strings.Contains(norm, a) {
						if cols.dob < 0 {
							cols.dob = j
						}
						break
					}
				}
			}
		}

		if cols.name >= 0 && (cols.nis >= 0 || cols.nisn >= 0) {
			return cols, nil
		}
		if cols.name >= 0 || cols.nis >= 0 || cols.nisn >= 0 {
			// A partial header row is the best candidate this sheet has;
			// report what is missing rather than scanning further.
			var missing []string
			if cols.name < 0 {
				missing = append(missing, "Nama")
			}
			if cols.nis < 0 && cols.nisn < 0 {
				missing = append(missing, "NIS/NISN")
			}
			return cols, missing
		}
	}

	return sheetColumns{}, []string{"Nama", "NIS/NISN"}
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func hasDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}

// ToDataset converts a scanned sheet into a Dataset once its header row is
// known, for callers that feed scan results into the merge engine.
func ToDataset(sheet Sheet, headerRow int) table.Dataset {
	if headerRow < 0 || headerRow >= len(sheet.Rows) {
		return table.Dataset{}
	}
	headers := sheet.Rows[headerRow]
	ds := table.Dataset{Headers: headers}
	for _, raw := range sheet.Rows[headerRow+1:] {
		row := make(table.Row, len(headers))
		for i, h := range headers {
			row[h] = cell(raw, i)
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds
}
