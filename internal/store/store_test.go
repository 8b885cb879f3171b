package store

import (
	"errors"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "sheetops.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPayload_SaveGetConsume(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	rec := PayloadRecord{
		ID:           "p1",
		Kind:         "import",
		CollectionID: "monitoring",
		SheetName:    "Tiket",
		Payload:      `{"startRow0":5,"count":3}`,
	}
	if err := s.SavePayload(rec); err != nil {
		t.Fatalf("SavePayload: %v", err)
	}

	got, err := s.GetPayload("p1")
	if err != nil {
		t.Fatalf("GetPayload: %v", err)
	}
	if got.Kind != "import" || got.Payload != rec.Payload {
		t.Fatalf("payload mismatch: %+v", got)
	}

	if n, _ := s.CountPending(); n != 1 {
		t.Fatalf("pending=%d want 1", n)
	}

	if err := s.ConsumePayload("p1"); err != nil {
		t.Fatalf("ConsumePayload: %v", err)
	}
	if n, _ := s.CountPending(); n != 0 {
		t.Fatalf("pending=%d want 0", n)
	}
}

func TestPayload_ConsumeExactlyOnce(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	if err := s.SavePayload(PayloadRecord{ID: "p2", Kind: "update", CollectionID: "c", SheetName: "s", Payload: "{}"}); err != nil {
		t.Fatalf("SavePayload: %v", err)
	}

	if err := s.ConsumePayload("p2"); err != nil {
		t.Fatalf("first consume: %v", err)
	}
	if err := s.ConsumePayload("p2"); !errors.Is(err, ErrPayloadConsumed) {
		t.Fatalf("second consume must report consumed, got %v", err)
	}
	if _, err := s.GetPayload("p2"); !errors.Is(err, ErrPayloadConsumed) {
		t.Fatalf("get after consume must report consumed, got %v", err)
	}
}

func TestPayload_Unknown(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	if _, err := s.GetPayload("ghost"); !errors.Is(err, ErrNoPayload) {
		t.Fatalf("want ErrNoPayload, got %v", err)
	}
	if err := s.ConsumePayload("ghost"); !errors.Is(err, ErrNoPayload) {
		t.Fatalf("want ErrNoPayload, got %v", err)
	}
}

func TestSyncLog_AppendAndRecent(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	for _, op := range []string{"import", "update", "undo"} {
		if err := s.AppendLog(op, "monitoring", "Tiket", op+" detail"); err != nil {
			t.Fatalf("AppendLog: %v", err)
		}
	}

	entries, err := s.RecentLog(2)
	if err != nil {
		t.Fatalf("RecentLog: %v", err)
	}
	if len(entries) != 2 || entries[0].Operation != "undo" {
		t.Fatalf("unexpected log order: %+v", entries)
	}
}
