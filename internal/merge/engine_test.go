package merge

import (
	"reflect"
	"testing"

	"github.com/MalinOfficer/Gsheet-NEW-sub000/internal/table"
)

func datasetPair() (table.Dataset, table.Dataset) {
	source := table.Dataset{
		Headers: []string{"Name", "NISN Baru"},
		Rows: []table.Row{
			{"Name": "Jane Doe", "NISN Baru": "111"},
			{"Name": "Ahmad Fauzi", "NISN Baru": "222"},
			{"Name": "Dewi Lestari", "NISN Baru": "333"},
		},
	}
	target := table.Dataset{
		Headers: []string{"Nama", "NISN", "Kelas"},
		Rows: []table.Row{
			{"Nama": "jane. doe", "NISN": "", "Kelas": "7A"},
			{"Nama": "Ahmad Fauzi", "NISN": "999", "Kelas": "7B"},
			{"Nama": "Rudi Hartono", "NISN": "", "Kelas": "7C"},
		},
	}
	return source, target
}

func TestMerge_PartitionsAndSummary(t *testing.T) {
	t.Parallel()

	source, target := datasetPair()
	res, err := Merge(source, target, "nisn")
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}

	if res.Summary.Matched != 1 {
		t.Fatalf("matched=%d want 1", res.Summary.Matched)
	}
	if res.Summary.Existing != 1 {
		t.Fatalf("existing=%d want 1 (Ahmad already has NISN)", res.Summary.Existing)
	}
	if res.Summary.Unmatched != 1 || len(res.UnmatchedSource) != 1 {
		t.Fatalf("unmatched=%d want 1", res.Summary.Unmatched)
	}
	if res.UnmatchedSource[0].Get("Name") != "Dewi Lestari" {
		t.Fatalf("wrong unmatched source: %v", res.UnmatchedSource)
	}
	if len(res.UnmatchedTarget) != 1 || res.UnmatchedTarget[0].Get("Nama") != "Rudi Hartono" {
		t.Fatalf("wrong unmatched target: %v", res.UnmatchedTarget)
	}

	// Conservation: total = existing + matched + unmatched source rows.
	if res.Summary.Total != res.Summary.Existing+res.Summary.Matched+len(res.UnmatchedSource) {
		t.Fatalf("summary does not reconcile: %+v", res.Summary)
	}

	// Target fields override source fields in the merged union.
	m := res.MergedRows[0]
	if m["Nama"] != "jane. doe" || m["Kelas"] != "7A" || m["NISN Baru"] != "111" {
		t.Fatalf("merged row wrong: %v", m)
	}
}

func TestMerge_MixedSourceRows(t *testing.T) {
	t.Parallel()

	source := table.Dataset{
		Headers: []string{"Name"},
		Rows:    []table.Row{{"Name": "Jane Doe"}},
	}
	target := table.Dataset{
		Headers: []string{"Name", "NISN"},
		Rows: []table.Row{
			{"Name": "jane. doe", "NISN": ""},
			{"Name": "John Roe", "NISN": "999"},
		},
	}

	res, err := Merge(source, target, "nisn")
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if res.Summary.Matched != 1 || res.Summary.Existing != 0 || res.Summary.Unmatched != 0 {
		t.Fatalf("summary wrong: %+v", res.Summary)
	}
	if len(res.UnmatchedTarget) != 0 {
		t.Fatalf("John Roe has NISN set, must not surface as unmatched target: %v", res.UnmatchedTarget)
	}
	if res.MergedRows[0]["Name"] != "jane. doe" {
		t.Fatalf("merged name must come from target: %v", res.MergedRows[0])
	}
}

func TestMerge_Deterministic(t *testing.T) {
	t.Parallel()

	source, target := datasetPair()
	a, err := Merge(source, target, "nisn")
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	b, err := Merge(source, target, "nisn")
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("two identical merges differ:\n%+v\n%+v", a, b)
	}
}

func TestMergeDuplicateTargetNames(t *testing.T) {
	t.Parallel()

	// Two eligible target rows share a normalized name: first wins, the
	// later duplicate surfaces as unmatched target.
	source := table.Dataset{
		Headers: []string{"Name"},
		Rows:    []table.Row{{"Name": "Budi"}},
	}
	target := table.Dataset{
		Headers: []string{"Nama", "NISN", "Kelas"},
		Rows: []table.Row{
			{"Nama": "budi", "NISN": "", "Kelas": "7A"},
			{"Nama": "Budi", "NISN": "", "Kelas": "7B"},
		},
	}

	res, err := Merge(source, target, "nisn")
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if res.Summary.Matched != 1 {
		t.Fatalf("matched=%d want 1", res.Summary.Matched)
	}
	if res.MergedRows[0]["Kelas"] != "7A" {
		t.Fatalf("first target row must win: %v", res.MergedRows[0])
	}
	if len(res.UnmatchedTarget) != 1 || res.UnmatchedTarget[0]["Kelas"] != "7B" {
		t.Fatalf("later duplicate must stay unmatched: %v", res.UnmatchedTarget)
	}
}

func TestMerge_Errors(t *testing.T) {
	t.Parallel()

	source, target := datasetPair()

	if _, err := Merge(source, target, "email"); err == nil {
		t.Fatalf("unknown mode must fail")
	}
	if _, err := Merge(table.Dataset{Headers: []string{"Name"}}, target, "nisn"); err == nil {
		t.Fatalf("empty source must fail")
	}

	noName := table.Dataset{
		Headers: []string{"Kolom"},
		Rows:    []table.Row{{"Kolom": "x"}},
	}
	if _, err := Merge(noName, target, "nisn"); err == nil {
		t.Fatalf("missing name column must fail")
	}

	noNISN := table.Dataset{
		Headers: []string{"Nama"},
		Rows:    []table.Row{{"Nama": "x"}},
	}
	if _, err := Merge(source, noNISN, "nisn"); err == nil {
		t.Fatalf("missing elimination column must fail")
	}
}
