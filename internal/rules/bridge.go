package rules

import (
	"github.com/suderio/skirmish/internal/engine"
)

// StatsContext converts a stat block to the map shape CEL expects.
func StatsContext(stats map[string]int) map[string]any {
	out := make(map[string]any, len(stats))
	for k, v := range stats {
		out[k] = int64(v)
	}
	return out
}

// ContextFromCombatant exposes a combatant as "self" and its stats as
// "stats".
func ContextFromCombatant(c *engine.Combatant) map[string]any {
	if c == nil {
		return map[string]any{"stats": map[string]any{}, "self": map[string]any{}}
	}
	self := map[string]any{
		"id":            c.ID,
		"name":          c.Name,
		"conditions":    c.Conditions,
		"incapacitated": engine.IsIncapacitated(c),
	}
	if c.HP != nil {
		self["hp"] = int64(*c.HP)
	}
	if c.AC != nil {
		self["ac"] = int64(*c.AC)
	}
	return map[string]any{"stats": StatsContext(c.Stats), "self": self}
}
