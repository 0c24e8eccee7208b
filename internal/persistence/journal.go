package persistence

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/suderio/skirmish/internal/engine"
)

// RecordKind tags a journal line.
type RecordKind string

const (
	RecordEntry  RecordKind = "entry"
	RecordRewind RecordKind = "rewind"
)

// recordWrapper is the on-disk shape of one journal line.
type recordWrapper struct {
	Kind RecordKind      `json:"kind"`
	Data json.RawMessage `json:"data"`
}

type rewindData struct {
	EntryID string `json:"entry_id"`
}

// Record is a decoded journal line. Entry is set for RecordEntry and
// RewindTo for RecordRewind.
type Record struct {
	Kind     RecordKind
	Entry    *engine.LogEntry
	RewindTo string
}

// Journal is an append-only JSONL trail of every log entry an encounter has
// ever produced, including entries later discarded by a rewind.
type Journal struct {
	file *os.File
}

// NewJournal opens or creates the file at path for appending lines.
func NewJournal(path string) (*Journal, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal file: %w", err)
	}
	return &Journal{file: file}, nil
}

// Append records a log entry.
func (j *Journal) Append(entry *engine.LogEntry) error {
	return j.write(RecordEntry, entry)
}

// AppendRewind records that the log was cut back to entryID.
func (j *Journal) AppendRewind(entryID string) error {
	return j.write(RecordRewind, rewindData{EntryID: entryID})
}

func (j *Journal) write(kind RecordKind, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	wrapperData, err := json.Marshal(recordWrapper{Kind: kind, Data: data})
	if err != nil {
		return err
	}

	if _, err := j.file.Write(append(wrapperData, '\n')); err != nil {
		return err
	}
	return j.file.Sync()
}

// Load replays every line in order.
func (j *Journal) Load() ([]Record, error) {
	var records []Record

	if _, err := j.file.Seek(0, 0); err != nil {
		return nil, err
	}

	scanner := bufio.NewScanner(j.file)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		var wrapper recordWrapper
		if err := json.Unmarshal(scanner.Bytes(), &wrapper); err != nil {
			return nil, fmt.Errorf("failed to decode wrapper: %w", err)
		}

		rec := Record{Kind: wrapper.Kind}
		switch wrapper.Kind {
		case RecordEntry:
			rec.Entry = &engine.LogEntry{}
			if err := json.Unmarshal(wrapper.Data, rec.Entry); err != nil {
				return nil, fmt.Errorf("failed to parse journal entry: %w", err)
			}
		case RecordRewind:
			var rw rewindData
			if err := json.Unmarshal(wrapper.Data, &rw); err != nil {
				return nil, fmt.Errorf("failed to parse rewind record: %w", err)
			}
			rec.RewindTo = rw.EntryID
		default:
			return nil, fmt.Errorf("unknown record kind in journal: %s", wrapper.Kind)
		}

		records = append(records, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// Close handles safe shutdown.
func (j *Journal) Close() error {
	return j.file.Close()
}
