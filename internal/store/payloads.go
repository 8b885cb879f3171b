package store

import (
	"database/sql"
	"errors"
	"fmt"
)

var (
	// ErrNoPayload means the id names no stored undo payload.
	ErrNoPayload = errors.New("no undo payload")
	// ErrPayloadConsumed means the payload was already used by an undo.
	ErrPayloadConsumed = errors.New("undo payload already consumed")
)

// PayloadRecord is one stored undo payload. Payload is the JSON-encoded
// operation-specific body.
type PayloadRecord struct {
	ID           string
	Kind         string
	CollectionID string
	SheetName    string
	Payload      string
}

// SavePayload stores a fresh, unconsumed undo payload.
func (s *Store) SavePayload(rec PayloadRecord) error {
	_, err := s.db.Exec(`
		INSERT INTO undo_payloads (id, kind, collection_id, sheet_name, payload)
		VALUES (?, ?, ?, ?, ?)
	`, rec.ID, rec.Kind, rec.CollectionID, rec.SheetName, rec.Payload)
	if err != nil {
		return fmt.Errorf("failed to save undo payload: %w", err)
	}
	return nil
}

// GetPayload loads a payload by id. Consumed payloads report
// ErrPayloadConsumed so callers can distinguish replay from a bad id.
func (s *Store) GetPayload(id string) (PayloadRecord, error) {
	var rec PayloadRecord
	var consumed sql.NullString
	err := s.db.QueryRow(`
		SELECT id, kind, collection_id, sheet_name, payload, consumed_at
		FROM undo_payloads WHERE id = ?
	`, id).Scan(&rec.ID, &rec.Kind, &rec.CollectionID, &rec.SheetName, &rec.Payload, &consumed)
	if errors.Is(err, sql.ErrNoRows) {
		return PayloadRecord{}, ErrNoPayload
	}
	if err != nil {
		return PayloadRecord{}, fmt.Errorf("failed to load undo payload: %w", err)
	}
	if consumed.Valid {
		return PayloadRecord{}, ErrPayloadConsumed
	}
	return rec, nil
}

// ConsumePayload marks a payload spent. The guarded UPDATE makes the
// consumption race-free: a second caller sees ErrPayloadConsumed.
func (s *Store) ConsumePayload(id string) error {
	res, err := s.db.Exec(`
		UPDATE undo_payloads SET consumed_at = CURRENT_TIMESTAMP
		WHERE id = ? AND consumed_at IS NULL
	`, id)
	if err != nil {
		return fmt.Errorf("failed to consume undo payload: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists int
		if err := s.db.QueryRow(`SELECT COUNT(*) FROM undo_payloads WHERE id = ?`, id).Scan(&exists); err == nil && exists == 0 {
			return ErrNoPayload
		}
		return ErrPayloadConsumed
	}
	return nil
}

// CountPending reports how many payloads are still consumable.
func (s *Store) CountPending() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM undo_payloads WHERE consumed_at IS NULL`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending payloads: %w", err)
	}
	return n, nil
}
