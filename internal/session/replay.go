package session

import (
	"fmt"
	"slices"

	"github.com/suderio/skirmish/internal/engine"
	"github.com/suderio/skirmish/internal/persistence"
)

// Replay rebuilds an encounter from its journal, honouring rewind markers.
// It is the recovery path when the stored document is lost or unreadable.
func Replay(id, title string, records []persistence.Record) (*engine.Encounter, error) {
	entries := make([]*engine.LogEntry, 0, len(records))
	for _, rec := range records {
		switch rec.Kind {
		case persistence.RecordEntry:
			entries = append(entries, rec.Entry)
		case persistence.RecordRewind:
			i := slices.IndexFunc(entries, func(e *engine.LogEntry) bool { return e.ID == rec.RewindTo })
			if i < 0 {
				return nil, fmt.Errorf("journal rewinds to unknown entry %s", rec.RewindTo)
			}
			entries = entries[:i+1]
		}
	}
	return engine.NewProjector().Build(id, title, entries)
}
