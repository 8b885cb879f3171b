// Package sheet defines the spreadsheet collaborator interfaces and the row
// index / diff engine used to reconcile incoming ticket rows against the
// current state of a monitoring sheet.
package sheet

import "context"

// Ref addresses one worksheet inside a collection (a workbook or remote
// spreadsheet).
type Ref struct {
	CollectionID string `json:"collectionId"`
	SheetName    string `json:"sheetName"`
}

// RangeUpdate is one (range, values) pair of a batch update.
type RangeUpdate struct {
	Range  string
	Values [][]string
}

// Reader reads a rectangular range of cell values. A1-style range
// arithmetic belongs to the implementation, not to callers.
type Reader interface {
	ReadRange(ctx context.Context, ref Ref, rng string) ([][]string, error)
}

// Writer writes row-major values into a range. Values starting with "=" are
// formulas. Returns the actual range written.
type Writer interface {
	WriteRange(ctx context.Context, ref Ref, rng string, values [][]string) (string, error)
}

// Mutator changes sheet structure: growing capacity and deleting a
// contiguous row range. Row indices are 0-based.
type Mutator interface {
	AppendRows(ctx context.Context, ref Ref, count int) error
	DeleteRows(ctx context.Context, ref Ref, start, count int) error
}

// BatchUpdater applies a set of range updates as one operation from the
// caller's perspective.
type BatchUpdater interface {
	BatchUpdate(ctx context.Context, ref Ref, updates []RangeUpdate) error
}

// Backend bundles the collaborator capabilities a sync coordinator needs.
type Backend interface {
	Reader
	Writer
	Mutator
	BatchUpdater
}
