// Package importer sequences the sheet-bound operations: previewing and
// applying status updates, importing new ticket rows, and undoing either.
// Each undo is consumable exactly once.
package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/MalinOfficer/Gsheet-NEW-sub000/internal/sheet"
	"github.com/MalinOfficer/Gsheet-NEW-sub000/internal/store"
	"github.com/MalinOfficer/Gsheet-NEW-sub000/internal/table"
)

// ErrEmptyDataset is returned when an operation receives no rows.
var ErrEmptyDataset = errors.New("dataset has no rows")

// indexReadRows bounds how many data rows one index build reads.
const indexReadRows = 5000

// Coordinator drives sheet reconciliation against an injected backend. Each
// call rebuilds its row index from the live sheet; nothing is cached between
// calls. The undo payload is the only cross-call state and lives in the
// store.
type Coordinator struct {
	backend sheet.Backend
	store   *store.Store
}

// NewCoordinator creates a coordinator over the given collaborators.
func NewCoordinator(backend sheet.Backend, st *store.Store) *Coordinator {
	return &Coordinator{backend: backend, store: st}
}

// PreviewResult is the outcome of a diff run.
type PreviewResult struct {
	Changes   []sheet.ChangeRecord `json:"changes"`
	NoChanges bool                 `json:"noChanges"`
	Skipped   int                  `json:"skipped"` // candidate rows matching no sheet row
}

// UpdateResult is the outcome of an applied update.
type UpdateResult struct {
	Applied   int                  `json:"applied"`
	NoChanges bool                 `json:"noChanges"`
	Changes   []sheet.ChangeRecord `json:"changes"`
	UndoID    string               `json:"undoId,omitempty"`
}

// ImportResult is the outcome of an import.
type ImportResult struct {
	Imported   int    `json:"imported"`
	Duplicates int    `json:"duplicates"`
	UndoID     string `json:"undoId,omitempty"`
}

// importPayload is the stored inverse of one import: the exact row range
// written, and nothing else.
type importPayload struct {
	StartRow0 int `json:"startRow0"`
	Count     int `json:"count"`
}

// updatePayload is the stored inverse of one update.
type updatePayload struct {
	Changes []sheet.ChangeRecord `json:"changes"`
}

// buildIndex reads the four indexed columns and assembles the row index.
// The reads are independent, so they are issued concurrently and rejoined
// in request order before indexing.
func (c *Coordinator) buildIndex(ctx context.Context, ref sheet.Ref) (*sheet.RowIndex, error) {
	endRow := dataStartRow + indexReadRows - 1
	ranges := []string{
		colRange(colStatus, dataStartRow, endRow),
		colRange(colTitle, dataStartRow, endRow),
		colRange(colResolvedAt, dataStartRow, endRow),
		colRange(colTicketRef, dataStartRow, endRow),
	}

	columns := make([][]string, len(ranges))
	errs := make([]error, len(ranges))

	var wg sync.WaitGroup
	for i, rng := range ranges {
		wg.Add(1)
		go func(i int, rng string) {
			defer wg.Done()
			values, err := c.backend.ReadRange(ctx, ref, rng)
			if err != nil {
				errs[i] = err
				return
			}
			column := make([]string, 0, len(values))
			for _, row := range values {
				if len(row) > 0 {
					column = append(column, row[0])
				} else {
					column = append(column, "")
				}
			}
			columns[i] = column
		}(i, rng)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("read sheet range: %w", err)
		}
	}

	return sheet.BuildIndex(columns[0], columns[1], columns[2], columns[3], dataStartRow), nil
}

// candidates maps dataset rows onto sheet.Candidate values via header
// resolution.
func candidates(ds table.Dataset) ([]sheet.Candidate, error) {
	if ds.IsEmpty() {
		return nil, ErrEmptyDataset
	}
	titleH, ok := table.ResolveHeader(ds.Headers, titleAliases)
	if !ok {
		return nil, fmt.Errorf("dataset has no title column (expected one of %v)", titleAliases)
	}
	statusH, _ := table.ResolveHeader(ds.Headers, statusAliases)
	ticketH, _ := table.ResolveHeader(ds.Headers, ticketRefAliases)
	resolvedH, _ := table.ResolveHeader(ds.Headers, resolvedAtAliases)

	out := make([]sheet.Candidate, 0, len(ds.Rows))
	for _, row := range ds.Rows {
		out = append(out, sheet.Candidate{
			Title:      strings.TrimSpace(row.Get(titleH)),
			Status:     strings.TrimSpace(row.Get(statusH)),
			TicketRef:  strings.TrimSpace(row.Get(ticketH)),
			ResolvedAt: strings.TrimSpace(row.Get(resolvedH)),
		})
	}
	return out, nil
}

// PreviewUpdate diffs candidate rows against the live sheet without
// mutating anything. An empty change set is a success with NoChanges set.
func (c *Coordinator) PreviewUpdate(ctx context.Context, ds table.Dataset, ref sheet.Ref) (*PreviewResult, error) {
	cands, err := candidates(ds)
	if err != nil {
		return nil, err
	}
	idx, err := c.buildIndex(ctx, ref)
	if err != nil {
		return nil, err
	}

	result := &PreviewResult{Changes: []sheet.ChangeRecord{}}
	for _, cand := range cands {
		if cand.Title == "" {
			result.Skipped++
			continue
		}
		info, ok := idx.Lookup(cand.Title)
		if !ok {
			// Rows outside this sheet's scope are not an error.
			result.Skipped++
			continue
		}
		if rec, changed := sheet.Diff(info, cand); changed {
			result.Changes = append(result.Changes, rec)
		}
	}
	result.NoChanges = len(result.Changes) == 0
	return result, nil
}

// ApplyUpdate previews, then issues one batched mutation covering only the
// changed cells, and records the inverse as an undo payload. When the
// change set is empty the backend is never contacted.
func (c *Coordinator) ApplyUpdate(ctx context.Context, ds table.Dataset, ref sheet.Ref) (*UpdateResult, error) {
	preview, err := c.PreviewUpdate(ctx, ds, ref)
	if err != nil {
		return nil, err
	}
	if preview.NoChanges {
		return &UpdateResult{NoChanges: true, Changes: []sheet.ChangeRecord{}}, nil
	}

	updates := changeUpdates(preview.Changes, false)
	if err := c.backend.BatchUpdate(ctx, ref, updates); err != nil {
		return nil, fmt.Errorf("apply update: %w", err)
	}

	undoID, err := c.savePayload(ref, "update", updatePayload{Changes: preview.Changes})
	if err != nil {
		return nil, err
	}

	c.log("update", ref, fmt.Sprintf("%d row(s) changed", len(preview.Changes)))
	return &UpdateResult{
		Applied: len(preview.Changes),
		Changes: preview.Changes,
		UndoID:  undoID,
	}, nil
}

// changeUpdates builds the minimal cell updates for a change set. With old
// set, the previous values are written instead, honoring the per-field undo
// guards: ticket ref only if it had changed, resolution only if the status
// had been Solved at update time.
func changeUpdates(changes []sheet.ChangeRecord, old bool) []sheet.RangeUpdate {
	var updates []sheet.RangeUpdate
	for _, rec := range changes {
		if rec.StatusChanged {
			v := rec.NewStatus
			if old {
				v = rec.OldStatus
			}
			updates = append(updates, sheet.RangeUpdate{
				Range:  cellRef(colStatus, rec.Row),
				Values: [][]string{{v}},
			})
		}
		if rec.TicketChanged {
			v := rec.NewTicketRef
			if old {
				v = rec.OldTicketRef
			}
			updates = append(updates, sheet.RangeUpdate{
				Range:  cellRef(colTicketRef, rec.Row),
				Values: [][]string{{v}},
			})
		}
		if rec.ResolvedAtChanged {
			v := rec.NewResolvedAt
			if old {
				v = rec.OldResolvedAt
			}
			updates = append(updates, sheet.RangeUpdate{
				Range:  cellRef(colResolvedAt, rec.Row),
				Values: [][]string{{v}},
			})
		}
	}
	return updates
}

// ImportRows appends new ticket rows to the sheet: dedup by trimmed title,
// sequence numbers continuing from the last used, one contiguous write
// including the duration formula column.
func (c *Coordinator) ImportRows(ctx context.Context, ds table.Dataset, ref sheet.Ref) (*ImportResult, error) {
	cands, err := candidates(ds)
	if err != nil {
		return nil, err
	}
	reportedH, _ := table.ResolveHeader(ds.Headers, reportedAtAliases)

	// Current state: sequence numbers and existing titles.
	endRow := dataStartRow + indexReadRows - 1
	numbers, err := c.backend.ReadRange(ctx, ref, colRange(colNo, dataStartRow, endRow))
	if err != nil {
		return nil, fmt.Errorf("read sheet state: %w", err)
	}
	titles, err := c.backend.ReadRange(ctx, ref, colRange(colTitle, dataStartRow, endRow))
	if err != nil {
		return nil, fmt.Errorf("read sheet state: %w", err)
	}

	lastSeq := 0
	usedRows := 0
	for i, row := range numbers {
		v := ""
		if len(row) > 0 {
			v = strings.TrimSpace(row[0])
		}
		title := ""
		if i < len(titles) && len(titles[i]) > 0 {
			title = strings.TrimSpace(titles[i][0])
		}
		if v == "" && title == "" {
			continue
		}
		usedRows = i + 1
		if n, err := strconv.Atoi(v); err == nil && n > lastSeq {
			lastSeq = n
		}
	}

	existing := make(map[string]bool)
	for _, row := range titles {
		if len(row) > 0 {
			if t := strings.TrimSpace(row[0]); t != "" {
				existing[t] = true
			}
		}
	}

	// Partition new vs duplicate-by-title.
	var fresh []sheet.Candidate
	var reported []string
	dupes := 0
	for i, cand := range cands {
		if cand.Title == "" || existing[cand.Title] {
			dupes++
			continue
		}
		existing[cand.Title] = true
		fresh = append(fresh, cand)
		reported = append(reported, strings.TrimSpace(ds.Rows[i].Get(reportedH)))
	}

	if len(fresh) == 0 {
		return &ImportResult{Duplicates: dupes}, nil
	}

	startRow := dataStartRow + usedRows
	if grow := len(fresh); grow > 0 {
		// Best effort: backends with fixed capacity must grow before the
		// write; unbounded ones treat this as a no-op.
		if err := c.backend.AppendRows(ctx, ref, grow); err != nil {
			return nil, fmt.Errorf("grow sheet: %w", err)
		}
	}

	values := make([][]string, 0, len(fresh))
	for i, cand := range fresh {
		row := startRow + i
		values = append(values, []string{
			strconv.Itoa(lastSeq + i + 1),
			cand.Title,
			cand.Status,
			cand.TicketRef,
			reported[i],
			cand.ResolvedAt,
			durationFormula(row),
		})
	}

	writeRange := cellRef(colNo, startRow)
	if _, err := c.backend.WriteRange(ctx, ref, writeRange, values); err != nil {
		return nil, fmt.Errorf("write imported rows: %w", err)
	}

	undoID, err := c.savePayload(ref, "import", importPayload{
		StartRow0: startRow - 1,
		Count:     len(fresh),
	})
	if err != nil {
		return nil, err
	}

	c.log("import", ref, fmt.Sprintf("%d imported, %d duplicate", len(fresh), dupes))
	return &ImportResult{
		Imported:   len(fresh),
		Duplicates: dupes,
		UndoID:     undoID,
	}, nil
}

// Undo consumes one recorded payload and reverses its operation: imports
// delete exactly the written row range, updates re-apply the old values of
// the fields that had changed. Undo is not itself undoable.
func (c *Coordinator) Undo(ctx context.Context, payloadID string, ref sheet.Ref) error {
	rec, err := c.store.GetPayload(payloadID)
	if err != nil {
		return err
	}
	if rec.CollectionID != ref.CollectionID || rec.SheetName != ref.SheetName {
		return fmt.Errorf("undo payload belongs to %s/%s, not %s/%s",
			rec.CollectionID, rec.SheetName, ref.CollectionID, ref.SheetName)
	}

	switch rec.Kind {
	case "import":
		var p importPayload
		if err := json.Unmarshal([]byte(rec.Payload), &p); err != nil {
			return fmt.Errorf("malformed import payload: %w", err)
		}
		if err := c.backend.DeleteRows(ctx, ref, p.StartRow0, p.Count); err != nil {
			return fmt.Errorf("undo import: %w", err)
		}
	case "update":
		var p updatePayload
		if err := json.Unmarshal([]byte(rec.Payload), &p); err != nil {
			return fmt.Errorf("malformed update payload: %w", err)
		}
		if err := c.backend.BatchUpdate(ctx, ref, changeUpdates(p.Changes, true)); err != nil {
			return fmt.Errorf("undo update: %w", err)
		}
	default:
		return fmt.Errorf("unknown undo payload kind %q", rec.Kind)
	}

	if err := c.store.ConsumePayload(payloadID); err != nil {
		return err
	}
	c.log("undo", ref, rec.Kind)
	return nil
}

func (c *Coordinator) savePayload(ref sheet.Ref, kind string, body any) (string, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("encode undo payload: %w", err)
	}
	id := uuid.New().String()
	err = c.store.SavePayload(store.PayloadRecord{
		ID:           id,
		Kind:         kind,
		CollectionID: ref.CollectionID,
		SheetName:    ref.SheetName,
		Payload:      string(data),
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

func (c *Coordinator) log(op string, ref sheet.Ref, detail string) {
	// Audit failures never fail the operation itself.
	_ = c.store.AppendLog(op, ref.CollectionID, ref.SheetName, detail)
}
