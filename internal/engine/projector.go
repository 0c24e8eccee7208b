package engine

import "errors"

// ErrEmptyLog is returned when there is nothing to project from.
var ErrEmptyLog = errors.New("log has no entries")

// Projector rebuilds an encounter from its log alone.
type Projector struct{}

// NewProjector creates a standard projector.
func NewProjector() *Projector {
	return &Projector{}
}

// Build takes the state from the last entry's snapshot and keeps the
// entries as the log. Combatants added after the last entry are not
// recoverable this way, since adding a combatant is not logged.
func (p *Projector) Build(id, title string, entries []*LogEntry) (*Encounter, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyLog
	}

	enc := &Encounter{
		ID:    id,
		Title: title,
		State: entries[len(entries)-1].Snapshot.Clone(),
		Log:   make([]*LogEntry, len(entries)),
	}
	copy(enc.Log, entries)
	return enc, nil
}
