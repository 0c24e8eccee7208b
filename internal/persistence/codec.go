// Package persistence stores encounters as zstd-compressed JSON documents
// and keeps an append-only journal of their log.
package persistence

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/suderio/skirmish/internal/engine"
)

// ErrNotFound is returned when no stored encounter has the requested id.
var ErrNotFound = errors.New("encounter not found")

//go:embed encounter.schema.json
var schemaSource string

var (
	schema = jsonschema.MustCompileString("encounter.schema.json", schemaSource)

	encoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	decoder, _ = zstd.NewReader(nil)
)

// Encode serialises an encounter to compressed JSON.
func Encode(enc *engine.Encounter) ([]byte, error) {
	raw, err := json.Marshal(enc)
	if err != nil {
		return nil, fmt.Errorf("json encode: %w", err)
	}
	return encoder.EncodeAll(raw, nil), nil
}

// Decode reverses Encode. The document is checked against the encounter
// schema before it is turned back into an Encounter.
func Decode(data []byte) (*engine.Encounter, error) {
	raw, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decode: %w", err)
	}
	if err := Validate(raw); err != nil {
		return nil, err
	}

	var enc engine.Encounter
	if err := json.Unmarshal(raw, &enc); err != nil {
		return nil, fmt.Errorf("json decode: %w", err)
	}
	return &enc, nil
}

// Validate checks a JSON encounter document against the schema.
func Validate(raw []byte) error {
	d := json.NewDecoder(bytes.NewReader(raw))
	d.UseNumber()
	var doc any
	if err := d.Decode(&doc); err != nil {
		return fmt.Errorf("json decode: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("invalid encounter document: %w", err)
	}
	return nil
}

// Summary is the listing view of a stored encounter.
type Summary struct {
	ID         string        `json:"id"`
	Title      string        `json:"title"`
	System     engine.System `json:"system"`
	Combatants int           `json:"combatants"`
	Entries    int           `json:"entries"`
	CreatedAt  time.Time     `json:"created_at"`
}

// Summarize builds the listing view of an encounter.
func Summarize(enc *engine.Encounter) Summary {
	return Summary{
		ID:         enc.ID,
		Title:      enc.Title,
		System:     enc.System,
		Combatants: len(enc.Combatants),
		Entries:    len(enc.Log),
		CreatedAt:  enc.CreatedAt,
	}
}
