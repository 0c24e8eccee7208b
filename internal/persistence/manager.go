package persistence

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	encounterExt = ".json.zst"
	journalExt   = ".journal.jsonl"
)

// Manager maps encounter ids to files under one directory.
type Manager struct {
	Dir string
}

// NewManager returns a manager rooted at dir.
func NewManager(dir string) *Manager {
	return &Manager{Dir: dir}
}

// EncounterPath is where the compressed encounter document lives.
func (m *Manager) EncounterPath(id string) string {
	return filepath.Join(m.Dir, id+encounterExt)
}

// JournalPath is where the append-only audit trail lives.
func (m *Manager) JournalPath(id string) string {
	return filepath.Join(m.Dir, id+journalExt)
}

// Ensure creates the directory if needed.
func (m *Manager) Ensure() error {
	if err := os.MkdirAll(m.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", m.Dir, err)
	}
	return nil
}

// OpenJournal opens the journal of an encounter for appending.
func (m *Manager) OpenJournal(id string) (*Journal, error) {
	if err := m.Ensure(); err != nil {
		return nil, err
	}
	return NewJournal(m.JournalPath(id))
}
