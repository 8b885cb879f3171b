// Package workbook implements the sheet collaborator interfaces over local
// xlsx collections stored under the data directory, one workbook per
// collection id.
package workbook

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/MalinOfficer/Gsheet-NEW-sub000/internal/sheet"
)

// ErrUnknownCollection is returned when a collection id has no workbook file.
var ErrUnknownCollection = errors.New("unknown collection")

// ErrBadCollectionID is returned for ids that cannot name a workbook file.
var ErrBadCollectionID = errors.New("malformed collection id")

// Store serves sheet reads and writes from xlsx files in a single directory.
// It implements sheet.Backend.
type Store struct {
	root string

	// Serializes open-modify-save cycles; excelize files are not safe for
	// concurrent mutation and two writers would clobber each other's save.
	mu sync.Mutex
}

// NewStore creates the collection directory if needed.
func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("create collections dir: %w", err)
	}
	return &Store{root: root}, nil
}

func (s *Store) path(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return "", fmt.Errorf("%w: %q", ErrBadCollectionID, id)
	}
	return filepath.Join(s.root, id+".xlsx"), nil
}

func (s *Store) open(ref sheet.Ref) (*excelize.File, error) {
	p, err := s.path(ref.CollectionID)
	if err != nil {
		return nil, err
	}
	f, err := excelize.OpenFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCollection, ref.CollectionID)
		}
		return nil, fmt.Errorf("open collection %q: %w", ref.CollectionID, err)
	}
	if idx, err := f.GetSheetIndex(ref.SheetName); err != nil || idx < 0 {
		f.Close()
		return nil, fmt.Errorf("sheet %q not found in collection %q", ref.SheetName, ref.CollectionID)
	}
	return f, nil
}

// Create makes a new collection with one sheet and a header row. Existing
// collections are not overwritten.
func (s *Store) Create(id, sheetName string, headers []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.path(id)
	if err != nil {
		return err
	}
	if _, err := os.Stat(p); err == nil {
		return fmt.Errorf("collection %q already exists", id)
	}

	f := excelize.NewFile()
	defer f.Close()

	if sheetName != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheetName); err != nil {
			return err
		}
	}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return err
		}
	}
	return f.SaveAs(p)
}

// List returns the known collection ids.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".xlsx") {
			ids = append(ids, strings.TrimSuffix(e.Name(), ".xlsx"))
		}
	}
	return ids, nil
}

// ReadRange returns the rectangular cell values of an A1 range. Rows are
// padded with "" to the full range width; a range beyond the used area
// yields blanks.
func (s *Store) ReadRange(ctx context.Context, ref sheet.Ref, rng string) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.open(ref)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	x1, y1, x2, y2, err := parseRange(rng)
	if err != nil {
		return nil, err
	}

	values := make([][]string, 0, y2-y1+1)
	for y := y1; y <= y2; y++ {
		row := make([]string, 0, x2-x1+1)
		for x := x1; x <= x2; x++ {
			cell, err := excelize.CoordinatesToCellName(x, y)
			if err != nil {
				return nil, err
			}
			v, err := f.GetCellValue(ref.SheetName, cell)
			if err != nil {
				return nil, err
			}
			row = append(row, v)
		}
		values = append(values, row)
	}
	return values, nil
}

// WriteRange writes row-major values starting at the range's top-left cell.
// Values beginning with "=" are written as formulas. Returns the actual A1
// range covered.
func (s *Store) WriteRange(ctx context.Context, ref sheet.Ref, rng string, values [][]string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.open(ref)
	if err != nil {
		return "", err
	}
	defer f.Close()

	x1, y1, _, _, err := parseRange(rng)
	if err != nil {
		return "", err
	}

	maxWidth := 0
	for dy, row := range values {
		if len(row) > maxWidth {
			maxWidth = len(row)
		}
		for dx, v := range row {
			cell, err := excelize.CoordinatesToCellName(x1+dx, y1+dy)
			if err != nil {
				return "", err
			}
			if err := setCell(f, ref.SheetName, cell, v); err != nil {
				return "", err
			}
		}
	}

	if err := f.Save(); err != nil {
		return "", fmt.Errorf("save collection %q: %w", ref.CollectionID, err)
	}

	if len(values) == 0 || maxWidth == 0 {
		return rng, nil
	}
	start, err := excelize.CoordinatesToCellName(x1, y1)
	if err != nil {
		return "", err
	}
	end, err := excelize.CoordinatesToCellName(x1+maxWidth-1, y1+len(values)-1)
	if err != nil {
		return "", err
	}
	return start + ":" + end, nil
}

// AppendRows grows the sheet by materializing count blank rows after the
// last used row.
func (s *Store) AppendRows(ctx context.Context, ref sheet.Ref, count int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if count <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.open(ref)
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := f.GetRows(ref.SheetName)
	if err != nil {
		return err
	}
	last := len(rows)
	for i := 1; i <= count; i++ {
		cell, err := excelize.CoordinatesToCellName(1, last+i)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(ref.SheetName, cell, ""); err != nil {
			return err
		}
	}
	return f.Save()
}

// DeleteRows removes count contiguous rows starting at 0-based row start.
func (s *Store) DeleteRows(ctx context.Context, ref sheet.Ref, start, count int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if count <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.open(ref)
	if err != nil {
		return err
	}
	defer f.Close()

	// RemoveRow shifts later rows up, so deleting the same 1-based index
	// count times removes the contiguous range.
	for i := 0; i < count; i++ {
		if err := f.RemoveRow(ref.SheetName, start+1); err != nil {
			return err
		}
	}
	return f.Save()
}

// BatchUpdate applies every range update in one open-save cycle.
func (s *Store) BatchUpdate(ctx context.Context, ref sheet.Ref, updates []sheet.RangeUpdate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.open(ref)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, u := range updates {
		x1, y1, _, _, err := parseRange(u.Range)
		if err != nil {
			return err
		}
		for dy, row := range u.Values {
			for dx, v := range row {
				cell, err := excelize.CoordinatesToCellName(x1+dx, y1+dy)
				if err != nil {
					return err
				}
				if err := setCell(f, ref.SheetName, cell, v); err != nil {
					return err
				}
			}
		}
	}
	return f.Save()
}

func setCell(f *excelize.File, sheetName, cell, value string) error {
	if strings.HasPrefix(value, "=") {
		return f.SetCellFormula(sheetName, cell, strings.TrimPrefix(value, "="))
	}
	return f.SetCellValue(sheetName, cell, value)
}

// parseRange turns "A2", "A2:D9" into 1-based coordinates.
func parseRange(rng string) (x1, y1, x2, y2 int, err error) {
	parts := strings.SplitN(rng, ":", 2)
	x1, y1, err = excelize.CellNameToCoordinates(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("bad range %q: %w", rng, err)
	}
	if len(parts) == 1 {
		return x1, y1, x1, y1, nil
	}
	x2, y2, err = excelize.CellNameToCoordinates(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("bad range %q: %w", rng, err)
	}
	if x2 < x1 || y2 < y1 {
		return 0, 0, 0, 0, fmt.Errorf("bad range %q: end before start", rng)
	}
	return x1, y1, x2, y2, nil
}
