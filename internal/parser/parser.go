// Package parser turns uploaded Excel/CSV files into raw sheet tables and
// detects their header rows.
package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/MalinOfficer/Gsheet-NEW-sub000/internal/scan"
	"github.com/MalinOfficer/Gsheet-NEW-sub000/internal/table"
)

// ErrNoHeaderRow means no header row was found within the scan limit.
var ErrNoHeaderRow = errors.New("no header row detected")

// headerScanLimit bounds how many leading rows are searched for a header.
const headerScanLimit = 20

// headerKeywords marks a row as a plausible header when any cell matches.
var headerKeywords = []string{
	"nama", "name", "username",
	"nis", "nisn", "no. induk",
	"title", "status", "ticket",
}

// Parsed is one parsed upload.
type Parsed struct {
	FileID string
	Input  scan.Input
}

// ParseWorkbook reads an xlsx upload into raw sheets.
func ParseWorkbook(r io.Reader, filename string) (*Parsed, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel: %w", err)
	}
	defer f.Close()

	input := scan.Input{File: filename}
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			continue
		}
		input.Sheets = append(input.Sheets, scan.Sheet{Name: name, Rows: rows})
	}

	return &Parsed{FileID: uuid.New().String(), Input: input}, nil
}

// ParseCSV reads a CSV upload as a single sheet. Records may have varying
// field counts; short rows stay short, like excelize row output.
func ParseCSV(r io.Reader, filename string) (*Parsed, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse csv: %w", err)
		}
		rows = append(rows, record)
	}

	return &Parsed{
		FileID: uuid.New().String(),
		Input: scan.Input{
			File:   filename,
			Sheets: []scan.Sheet{{Name: sheetNameFromFile(filename), Rows: rows}},
		},
	}, nil
}

// Parse dispatches on the file extension. CSV when the name ends in .csv,
// workbook otherwise.
func Parse(r io.Reader, filename string) (*Parsed, error) {
	if strings.HasSuffix(strings.ToLower(filename), ".csv") {
		return ParseCSV(r, filename)
	}
	return ParseWorkbook(r, filename)
}

// DetectHeaderRow scans the first rows of a sheet for one containing any
// known header keyword.
func DetectHeaderRow(rows [][]string) (int, bool) {
	limit := len(rows)
	if limit > headerScanLimit {
		limit = headerScanLimit
	}
	for i := 0; i < limit; i++ {
		for _, cell := range rows[i] {
			norm := strings.ToLower(strings.TrimSpace(cell))
			for _, kw := range headerKeywords {
				if norm == kw || strings.Contains(norm, kw) {
					return i, true
				}
			}
		}
	}
	return 0, false
}

// ToDataset converts a raw sheet into a Dataset using its detected header
// row.
func ToDataset(s scan.Sheet) (table.Dataset, error) {
	headerRow, ok := DetectHeaderRow(s.Rows)
	if !ok {
		return table.Dataset{}, fmt.Errorf("%w in sheet %q", ErrNoHeaderRow, s.Name)
	}
	return scan.ToDataset(s, headerRow), nil
}

func sheetNameFromFile(filename string) string {
	name := filename
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		name = name[:i]
	}
	if name == "" {
		return "Sheet1"
	}
	return name
}
