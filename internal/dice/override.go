package dice

import (
	"encoding/json"
	"math"
)

// Override replaces the random part of a roll. The concrete variants are
// Random, ForcedRolls and ForcedTotal; a nil Override behaves like Random.
type Override interface {
	override()
}

// Random draws from the source.
type Random struct{}

// ForcedRolls supplies the individual die faces.
type ForcedRolls struct {
	Rolls []int
}

// ForcedTotal supplies the final total directly.
type ForcedTotal struct {
	Total int
}

func (Random) override()      {}
func (ForcedRolls) override() {}
func (ForcedTotal) override() {}

// ParseOverride converts loosely typed input, such as a decoded JSON object
// {"rolls": [3, 4]} or {"total": 12}, a bare face list or a bare total, into
// an Override. A rolls list wins over a total. Anything malformed yields
// Random rather than an error. The REPL parser builds its overrides here.
func ParseOverride(raw any) Override {
	switch v := raw.(type) {
	case nil:
		return Random{}
	case Override:
		return v
	case map[string]any:
		if rolls, ok := toInts(v["rolls"]); ok {
			return ForcedRolls{Rolls: rolls}
		}
		if total, ok := toInt(v["total"]); ok {
			return ForcedTotal{Total: total}
		}
		return Random{}
	case json.RawMessage:
		var decoded any
		if err := json.Unmarshal(v, &decoded); err != nil {
			return Random{}
		}
		return ParseOverride(decoded)
	}
	if rolls, ok := toInts(raw); ok {
		return ForcedRolls{Rolls: rolls}
	}
	if total, ok := toInt(raw); ok {
		return ForcedTotal{Total: total}
	}
	return Random{}
}

// toInt accepts the numeric shapes produced by JSON, YAML and Go callers.
// Non-integral floats are rejected.
func toInt(val any) (int, bool) {
	switch v := val.(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case json.Number:
		i, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	}
	return 0, false
}

func toInts(val any) ([]int, bool) {
	switch v := val.(type) {
	case []int:
		return cloneInts(v), true
	case []any:
		out := make([]int, 0, len(v))
		for _, item := range v {
			n, ok := toInt(item)
			if !ok {
				return nil, false
			}
			out = append(out, n)
		}
		return out, true
	}
	return nil, false
}
