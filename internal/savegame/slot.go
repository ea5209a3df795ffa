package savegame

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNoSave is returned by Slot.Read when the slot is empty.
var ErrNoSave = errors.New("savegame: no saved match")

// Slot is a single-slot blob store. Writing overwrites the previous blob.
type Slot interface {
	Read() ([]byte, error)
	Write(data []byte) error
	Remove() error
	Exists() bool
}

// FileSlot keeps the blob in one file on disk.
type FileSlot struct {
	path string
}

// NewFileSlot returns a slot stored at path. A leading ~ is expanded to the
// home directory. Parent directories are created on first write.
func NewFileSlot(path string) (*FileSlot, error) {
	if path == "" {
		return nil, errors.New("savegame: empty save path")
	}
	if path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("savegame: cannot expand home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}
	return &FileSlot{path: path}, nil
}

// Path returns the resolved file path.
func (s *FileSlot) Path() string {
	return s.path
}

// Read returns the stored blob, or ErrNoSave if there is none.
func (s *FileSlot) Read() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoSave
	}
	if err != nil {
		return nil, fmt.Errorf("savegame: cannot read %s: %w", s.path, err)
	}
	return data, nil
}

// Write replaces the stored blob. The file is written to a temporary name
// and renamed into place so a failed write never leaves a torn save.
func (s *FileSlot) Write(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("savegame: cannot create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".save-*")
	if err != nil {
		return fmt.Errorf("savegame: cannot create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("savegame: cannot write save: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("savegame: cannot close save: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("savegame: cannot move save into place: %w", err)
	}
	return nil
}

// Remove deletes the stored blob. Removing an empty slot is not an error.
func (s *FileSlot) Remove() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("savegame: cannot remove %s: %w", s.path, err)
	}
	return nil
}

// Exists reports whether a blob is stored.
func (s *FileSlot) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

var _ Slot = (*FileSlot)(nil)
