package persistence

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/suderio/skirmish/internal/engine"
)

// FileStore keeps one compressed JSON document per encounter.
type FileStore struct {
	mgr *Manager
}

// NewFileStore returns a store writing under dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{mgr: NewManager(dir)}
}

// Manager exposes the path layout, e.g. for opening journals next to the
// documents.
func (s *FileStore) Manager() *Manager {
	return s.mgr
}

// Save writes the encounter through a temp file and a rename, so readers
// never see a partial document.
func (s *FileStore) Save(ctx context.Context, enc *engine.Encounter) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.mgr.Ensure(); err != nil {
		return err
	}

	data, err := Encode(enc)
	if err != nil {
		return fmt.Errorf("encode encounter %s: %w", enc.ID, err)
	}

	tmp, err := os.CreateTemp(s.mgr.Dir, enc.ID+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write encounter %s: %w", enc.ID, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.mgr.EncounterPath(enc.ID))
}

// Load reads and validates a stored encounter.
func (s *FileStore) Load(ctx context.Context, id string) (*engine.Encounter, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.mgr.EncounterPath(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("encounter %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	enc, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("load encounter %s: %w", id, err)
	}
	return enc, nil
}

// List summarises every stored encounter, oldest first.
func (s *FileStore) List(ctx context.Context) ([]Summary, error) {
	entries, err := os.ReadDir(s.mgr.Dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []Summary{}, nil
	}
	if err != nil {
		return nil, err
	}

	out := make([]Summary, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), encounterExt) {
			continue
		}
		enc, err := s.Load(ctx, strings.TrimSuffix(e.Name(), encounterExt))
		if err != nil {
			return nil, err
		}
		out = append(out, Summarize(enc))
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Delete removes the document and its journal.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := os.Remove(s.mgr.EncounterPath(id))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("encounter %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return err
	}
	if err := os.Remove(s.mgr.JournalPath(id)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Close is a no-op; FileStore holds no open handles.
func (s *FileStore) Close() error {
	return nil
}
