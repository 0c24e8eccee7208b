package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/suderio/skirmish/internal/data"
	"github.com/suderio/skirmish/internal/engine"
	"github.com/suderio/skirmish/internal/persistence"
	"github.com/suderio/skirmish/internal/persistence/sqlite"
	"github.com/suderio/skirmish/internal/rules"
)

const (
	storeFile   = "file"
	storeSQLite = "sqlite"
)

// encounterStore is implemented by both persistence backends.
type encounterStore interface {
	Save(ctx context.Context, enc *engine.Encounter) error
	Load(ctx context.Context, id string) (*engine.Encounter, error)
	List(ctx context.Context) ([]persistence.Summary, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

func openStore(kind string) (encounterStore, error) {
	switch kind {
	case storeFile, "":
		return persistence.NewFileStore(viper.GetString("encounters_dir")), nil
	case storeSQLite:
		path := viper.GetString("sqlite_path")
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory for %s: %w", path, err)
		}
		return sqlite.Open(path)
	default:
		return nil, fmt.Errorf("unknown store %q (want %s or %s)", kind, storeFile, storeSQLite)
	}
}

// mustOpenStore opens the configured store or exits.
func mustOpenStore() encounterStore {
	store, err := openStore(viper.GetString("store"))
	if err != nil {
		fmt.Printf("Error opening store: %v\n", err)
		os.Exit(1)
	}
	return store
}

func mustLoad(ctx context.Context, store encounterStore, id string) *engine.Encounter {
	enc, err := store.Load(ctx, id)
	if err != nil {
		fmt.Printf("Error loading encounter: %v\n", err)
		os.Exit(1)
	}
	return enc
}

func journalManager() *persistence.Manager {
	return persistence.NewManager(viper.GetString("encounters_dir"))
}

func newDataLoader() (*data.Loader, error) {
	registry, err := rules.NewRegistry(nil)
	if err != nil {
		return nil, err
	}
	return data.NewLoader(viper.GetStringSlice("data_dirs"), registry), nil
}
