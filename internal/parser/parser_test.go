package parser

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func workbookBytes(t *testing.T, sheetRows map[string][][]interface{}) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	first := true
	for name, rows := range sheetRows {
		if first {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				t.Fatalf("SetSheetName: %v", err)
			}
			first = false
		} else {
			if _, err := f.NewSheet(name); err != nil {
				t.Fatalf("NewSheet: %v", err)
			}
		}
		for i := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetSheetRow(name, cell, &rows[i]); err != nil {
				t.Fatalf("SetSheetRow: %v", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}
	return buf
}

func TestParseWorkbook(t *testing.T) {
	t.Parallel()

	buf := workbookBytes(t, map[string][][]interface{}{
		"Kelas 7A": {
			{"No", "Nama", "NISN"},
			{1, "Budi", "123"},
		},
	})

	parsed, err := ParseWorkbook(buf, "kelas.xlsx")
	if err != nil {
		t.Fatalf("ParseWorkbook: %v", err)
	}
	if parsed.FileID == "" {
		t.Fatalf("missing file id")
	}
	if len(parsed.Input.Sheets) != 1 || parsed.Input.Sheets[0].Name != "Kelas 7A" {
		t.Fatalf("sheets: %+v", parsed.Input.Sheets)
	}
	if parsed.Input.Sheets[0].Rows[1][1] != "Budi" {
		t.Fatalf("rows: %v", parsed.Input.Sheets[0].Rows)
	}
}

func TestParseCSV(t *testing.T) {
	t.Parallel()

	src := "No,Nama,NISN\n1,Budi,123\n2,Siti,456\n"
	parsed, err := ParseCSV(strings.NewReader(src), "export.csv")
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	sheet := parsed.Input.Sheets[0]
	if sheet.Name != "export" {
		t.Fatalf("sheet name %q", sheet.Name)
	}
	if len(sheet.Rows) != 3 || sheet.Rows[2][1] != "Siti" {
		t.Fatalf("rows: %v", sheet.Rows)
	}
}

func TestParse_DispatchesOnExtension(t *testing.T) {
	t.Parallel()

	parsed, err := Parse(strings.NewReader("Title,Status\nA,L1\n"), "tickets.CSV")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(parsed.Input.Sheets) != 1 {
		t.Fatalf("sheets: %+v", parsed.Input.Sheets)
	}
}

func TestDetectHeaderRow(t *testing.T) {
	t.Parallel()

	rows := [][]string{
		{"DAFTAR SISWA 2024"},
		{},
		{"No", "Nama", "NISN"},
		{"1", "Budi", "123"},
	}
	idx, ok := DetectHeaderRow(rows)
	if !ok || idx != 2 {
		t.Fatalf("got %d %v", idx, ok)
	}

	if _, ok := DetectHeaderRow([][]string{{"a"}, {"b"}}); ok {
		t.Fatalf("keywordless rows must not detect a header")
	}
}

func TestDetectHeaderRow_ScanLimit(t *testing.T) {
	t.Parallel()

	rows := make([][]string, 0, 25)
	for i := 0; i < 22; i++ {
		rows = append(rows, []string{"x"})
	}
	rows = append(rows, []string{"No", "Nama"})

	if _, ok := DetectHeaderRow(rows); ok {
		t.Fatalf("header beyond row 20 must not be detected")
	}
}

func TestToDataset(t *testing.T) {
	t.Parallel()

	buf := workbookBytes(t, map[string][][]interface{}{
		"S1": {
			{"catatan"},
			{"No", "Nama", "NISN"},
			{1, "Budi", "123"},
		},
	})
	parsed, err := ParseWorkbook(buf, "f.xlsx")
	if err != nil {
		t.Fatalf("ParseWorkbook: %v", err)
	}

	ds, err := ToDataset(parsed.Input.Sheets[0])
	if err != nil {
		t.Fatalf("ToDataset: %v", err)
	}
	if len(ds.Rows) != 1 || ds.Rows[0].Get("Nama") != "Budi" {
		t.Fatalf("dataset: %+v", ds)
	}
}
