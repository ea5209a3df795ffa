package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/sweepduel/internal/savegame"
)

// SaveSlot is a savegame.Slot kept in the saved_match table.
type SaveSlot struct {
	db *sql.DB
}

// SaveSlot returns the database-backed save slot.
func (s *Store) SaveSlot() *SaveSlot {
	return &SaveSlot{db: s.db}
}

// Read returns the saved blob, or savegame.ErrNoSave.
func (s *SaveSlot) Read() ([]byte, error) {
	var data []byte
	err := s.db.QueryRow("SELECT data FROM saved_match WHERE slot = 1").Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, savegame.ErrNoSave
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot read saved match: %w", err)
	}
	return data, nil
}

// Write replaces the saved blob.
func (s *SaveSlot) Write(data []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO saved_match (slot, data, saved_at) VALUES (1, ?, ?)
		 ON CONFLICT(slot) DO UPDATE SET data = excluded.data, saved_at = excluded.saved_at`,
		data, time.Now().UTC().Format(sqliteTimeLayout),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot write saved match: %w", err)
	}
	return nil
}

// Remove deletes the saved blob, if any.
func (s *SaveSlot) Remove() error {
	if _, err := s.db.Exec("DELETE FROM saved_match WHERE slot = 1"); err != nil {
		return fmt.Errorf("storage: cannot delete saved match: %w", err)
	}
	return nil
}

// Exists reports whether a blob is saved. Errors count as no save.
func (s *SaveSlot) Exists() bool {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM saved_match WHERE slot = 1").Scan(&n); err != nil {
		return false
	}
	return n > 0
}

// SavedAt returns when the slot was last written.
func (s *SaveSlot) SavedAt() (time.Time, error) {
	var savedAt any
	err := s.db.QueryRow("SELECT saved_at FROM saved_match WHERE slot = 1").Scan(&savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, savegame.ErrNoSave
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("storage: cannot read save time: %w", err)
	}
	return scanTime(savedAt), nil
}

var _ savegame.Slot = (*SaveSlot)(nil)
