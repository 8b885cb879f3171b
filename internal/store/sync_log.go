package store

import "fmt"

// LogEntry is one audit record of a sheet-mutating operation.
type LogEntry struct {
	ID           int64  `json:"id"`
	Operation    string `json:"operation"`
	CollectionID string `json:"collectionId"`
	SheetName    string `json:"sheetName"`
	Detail       string `json:"detail"`
	CreatedAt    string `json:"createdAt"`
}

// AppendLog records one operation in the audit trail.
func (s *Store) AppendLog(operation, collectionID, sheetName, detail string) error {
	_, err := s.db.Exec(`
		INSERT INTO sync_log (operation, collection_id, sheet_name, detail)
		VALUES (?, ?, ?, ?)
	`, operation, collectionID, sheetName, detail)
	if err != nil {
		return fmt.Errorf("failed to append sync log: %w", err)
	}
	return nil
}

// RecentLog returns the newest entries, most recent first.
func (s *Store) RecentLog(limit int) ([]LogEntry, error) {
	rows, err := s.db.Query(`
		SELECT id, operation, collection_id, sheet_name, detail, created_at
		FROM sync_log ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync log: %w", err)
	}
	defer rows.Close()

	var entries []LogEntry
	for rows.Next() {
		var e LogEntry
		if err := rows.Scan(&e.ID, &e.Operation, &e.CollectionID, &e.SheetName, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
