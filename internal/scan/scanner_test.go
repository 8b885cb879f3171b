package scan

import "testing"

func rosterSheet(name string, rows ...[]string) Sheet {
	base := [][]string{
		{"No", "Nama", "NIS", "NISN", "Tanggal Lahir"},
	}
	return Sheet{Name: name, Rows: append(base, rows...)}
}

func TestScan_DuplicatesAcrossFiles(t *testing.T) {
	t.Parallel()

	inputs := []Input{
		{
			File: "kelas7.xlsx",
			Sheets: []Sheet{rosterSheet("7A",
				[]string{"1", "Budi Santoso", "12345", "", "2010-01-01"},
				[]string{"2", "Siti Aminah", "12346", "", "2010-02-02"},
			)},
		},
		{
			File: "kelas8.xlsx",
			Sheets: []Sheet{rosterSheet("8A",
				[]string{"1", "Budi S.", "12345", "", "2009-03-03"},
			)},
		},
	}

	report := Scan(inputs)
	if report.SheetCount != 2 {
		t.Fatalf("sheetCount=%d want 2", report.SheetCount)
	}
	if len(report.Duplicates) != 2 {
		t.Fatalf("want both members of the duplicate group, got %d", len(report.Duplicates))
	}
	for _, rec := range report.Duplicates {
		if rec.ID != "12345" {
			t.Fatalf("unexpected duplicate id %q", rec.ID)
		}
	}
	if report.Duplicates[0].SourceFile == report.Duplicates[1].SourceFile {
		t.Fatalf("duplicates must come from both files: %+v", report.Duplicates)
	}
}

func TestScan_SubstringIDsAreNotDuplicates(t *testing.T) {
	t.Parallel()

	inputs := []Input{{
		File: "a.xlsx",
		Sheets: []Sheet{rosterSheet("S1",
			[]string{"1", "A", "123", "", "2010-01-01"},
			[]string{"2", "B", "1234", "", "2010-01-01"},
		)},
	}}

	report := Scan(inputs)
	if len(report.Duplicates) != 0 {
		t.Fatalf("ids sharing a substring are distinct: %+v", report.Duplicates)
	}
}

func TestScan_EmptyAndDigitlessIDs(t *testing.T) {
	t.Parallel()

	inputs := []Input{{
		File: "a.xlsx",
		Sheets: []Sheet{rosterSheet("S1",
			[]string{"1", "A", "", "", "2010-01-01"},
			[]string{"2", "B", "---", "", "2010-01-01"},
			[]string{"3", "C", "", "777", "2010-01-01"},
			[]string{"4", "", "999", "", ""},
		)},
	}}

	report := Scan(inputs)
	if len(report.EmptyID) != 2 {
		t.Fatalf("emptyId=%d want 2 (blank and digitless)", len(report.EmptyID))
	}
	// Row without a name is skipped entirely, even with an id present.
	for _, rec := range report.EmptyID {
		if rec.Name == "" {
			t.Fatalf("nameless row must not be recorded: %+v", rec)
		}
	}
}

func TestScan_NISPreferredOverNISN(t *testing.T) {
	t.Parallel()

	inputs := []Input{{
		File: "a.xlsx",
		Sheets: []Sheet{rosterSheet("S1",
			[]string{"1", "A", "100", "200", "2010-01-01"},
			[]string{"2", "B", "100", "300", "2010-01-01"},
		)},
	}}

	report := Scan(inputs)
	if len(report.Duplicates) != 2 {
		t.Fatalf("grouping must use NIS when present: %+v", report.Duplicates)
	}
}

func TestScan_EmptyDOBAndErrorMarker(t *testing.T) {
	t.Parallel()

	inputs := []Input{{
		File: "a.xlsx",
		Sheets: []Sheet{rosterSheet("S1",
			[]string{"1", "A", "1", "", ""},
			[]string{"2", "B", "2", "", "#REF!"},
			[]string{"3", "C", "3", "", "2010-01-01"},
		)},
	}}

	report := Scan(inputs)
	if len(report.EmptyDOB) != 2 {
		t.Fatalf("emptyDob=%d want 2", len(report.EmptyDOB))
	}
}

func TestScan_MalformedSheetSkippedNotFatal(t *testing.T) {
	t.Parallel()

	inputs := []Input{{
		File: "a.xlsx",
		Sheets: []Sheet{
			{Name: "Catatan", Rows: [][]string{{"catatan wali kelas"}, {"libur semester"}}},
			{Name: "NoID", Rows: [][]string{{"No", "Nama"}, {"1", "A"}}},
			rosterSheet("OK", []string{"1", "B", "11", "", "2010-01-01"}),
		},
	}}

	report := Scan(inputs)
	if report.SheetCount != 1 {
		t.Fatalf("sheetCount=%d want 1", report.SheetCount)
	}
	if len(report.Skipped) != 2 {
		t.Fatalf("skipped=%d want 2: %+v", len(report.Skipped), report.Skipped)
	}

	var sawMissingID bool
	for _, s := range report.Skipped {
		for _, m := range s.Missing {
			if m == "NIS/NISN" {
				sawMissingID = true
			}
		}
	}
	if !sawMissingID {
		t.Fatalf("skip reason must name the missing column: %+v", report.Skipped)
	}
}

func TestScan_HeaderRowBelowTop(t *testing.T) {
	t.Parallel()

	rows := [][]string{
		{"DAFTAR SISWA"},
		{"Tahun Ajaran 2024/2025"},
		{"No", "Nama", "NIS", "NISN", "Tanggal Lahir"},
		{"1", "A", "11", "", "2010-01-01"},
		{"2", "B", "11", "", "2010-01-01"},
	}

	report := Scan([]Input{{File: "a.xlsx", Sheets: []Sheet{{Name: "S1", Rows: rows}}}})
	if report.SheetCount != 1 {
		t.Fatalf("header below decorative rows must be found")
	}
	if len(report.Duplicates) != 2 {
		t.Fatalf("duplicates=%d want 2", len(report.Duplicates))
	}
}
