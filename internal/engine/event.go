package engine

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

// EntryType tags what produced a log entry.
type EntryType string

const (
	EntryInitiativeManual EntryType = "initiative_manual"
	EntryInitiativeSort   EntryType = "initiative_sort"
	EntryTurnNext         EntryType = "turn_next"
	EntryD20Attack        EntryType = "d20_attack"
	EntryD20Save          EntryType = "d20_save"
	EntryD6PoolTest       EntryType = "d6pool_test"
	EntryD6PoolOpposed    EntryType = "d6pool_opposed"
	EntryConditionAdd     EntryType = "condition_add"
	EntryConditionRemove  EntryType = "condition_remove"
)

// Detail is the type-specific payload of a log entry.
type Detail interface {
	Message() string
}

// LogEntry records one mutation together with the state it produced.
// Entries are immutable once appended.
type LogEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Type      EntryType `json:"type"`
	Detail    Detail    `json:"detail"`
	Snapshot  State     `json:"snapshot"`
}

// Message describes the entry for display.
func (e *LogEntry) Message() string {
	if e.Detail == nil {
		return string(e.Type)
	}
	return e.Detail.Message()
}

// UnmarshalJSON decodes Detail into the concrete type named by Type.
func (e *LogEntry) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID        string          `json:"id"`
		Timestamp time.Time       `json:"timestamp"`
		Type      EntryType       `json:"type"`
		Detail    json.RawMessage `json:"detail"`
		Snapshot  State           `json:"snapshot"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	detail, err := decodeDetail(raw.Type, raw.Detail)
	if err != nil {
		return err
	}

	e.ID = raw.ID
	e.Timestamp = raw.Timestamp
	e.Type = raw.Type
	e.Detail = detail
	e.Snapshot = raw.Snapshot
	return nil
}

func decodeDetail(typ EntryType, data json.RawMessage) (Detail, error) {
	var d Detail
	switch typ {
	case EntryInitiativeManual:
		d = &InitiativeDetail{}
	case EntryInitiativeSort:
		d = &SortDetail{}
	case EntryTurnNext:
		d = &TurnDetail{}
	case EntryD20Attack:
		d = &AttackDetail{}
	case EntryD20Save:
		d = &SaveDetail{}
	case EntryD6PoolTest:
		d = &PoolTestDetail{}
	case EntryD6PoolOpposed:
		d = &OpposedDetail{}
	case EntryConditionAdd, EntryConditionRemove:
		d = &ConditionDetail{}
	default:
		return nil, fmt.Errorf("unknown log entry type: %s", typ)
	}

	if len(data) == 0 || string(data) == "null" {
		return d, nil
	}
	if err := json.Unmarshal(data, d); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s detail: %w", typ, err)
	}
	return d, nil
}

// PushLog is the single point where entries are appended. It stamps an id
// and time and captures a snapshot of the state as it is now, so callers
// invoke it after mutating.
func PushLog(enc *Encounter, typ EntryType, detail Detail) *LogEntry {
	entry := &LogEntry{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Type:      typ,
		Detail:    detail,
		Snapshot:  enc.State.Clone(),
	}
	enc.Log = append(enc.Log, entry)
	return entry
}

// Clone returns a deep copy of the encounter, log included.
func (e *Encounter) Clone() *Encounter {
	out := &Encounter{
		ID:    e.ID,
		Title: e.Title,
		State: e.State.Clone(),
		Log:   make([]*LogEntry, len(e.Log)),
	}
	for i, entry := range e.Log {
		cp := *entry
		cp.Snapshot = entry.Snapshot.Clone()
		out.Log[i] = &cp
	}
	return out
}

// Snapshot returns a deep copy of the encounter for persistence.
func Snapshot(enc *Encounter) *Encounter {
	return enc.Clone()
}

// EntryIndex returns the position of the entry with the given id, or -1.
func (e *Encounter) EntryIndex(entryID string) int {
	return slices.IndexFunc(e.Log, func(entry *LogEntry) bool { return entry.ID == entryID })
}

// RewindTo restores the state captured by the given entry and drops every
// later entry. ID and Title are kept from the live encounter. The discarded
// entries cannot be recovered.
func RewindTo(enc *Encounter, entryID string) (*Encounter, error) {
	idx := enc.EntryIndex(entryID)
	if idx < 0 {
		return nil, &LookupError{Kind: "log entry", Ref: entryID}
	}

	enc.State = enc.Log[idx].Snapshot.Clone()
	enc.Log = slices.Clip(enc.Log[:idx+1])
	return enc, nil
}
