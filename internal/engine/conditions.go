package engine

import (
	"fmt"
	"slices"
	"strings"
)

// ConditionDetail records a condition tag being added or removed.
type ConditionDetail struct {
	CombatantID string   `json:"combatant_id"`
	Name        string   `json:"name"`
	Condition   string   `json:"condition"`
	Added       bool     `json:"added"`
	Changed     bool     `json:"changed"`
	Conditions  []string `json:"conditions"`
}

func (d *ConditionDetail) Message() string {
	if d.Added {
		return fmt.Sprintf("%s is now %s", d.Name, d.Condition)
	}
	return fmt.Sprintf("%s is no longer %s", d.Name, d.Condition)
}

// AddCondition sets a condition tag. Adding a tag twice is logged but leaves
// the set unchanged.
func AddCondition(enc *Encounter, combatantID, condition string) (*LogEntry, error) {
	return toggleCondition(enc, combatantID, condition, true)
}

// RemoveCondition clears a condition tag.
func RemoveCondition(enc *Encounter, combatantID, condition string) (*LogEntry, error) {
	return toggleCondition(enc, combatantID, condition, false)
}

func toggleCondition(enc *Encounter, combatantID, condition string, add bool) (*LogEntry, error) {
	c, err := enc.mustLookup(combatantID)
	if err != nil {
		return nil, err
	}
	condition = strings.TrimSpace(condition)

	changed := false
	typ := EntryConditionRemove
	if add {
		typ = EntryConditionAdd
		if !c.HasCondition(condition) {
			c.Conditions = append(c.Conditions, condition)
			changed = true
		}
	} else if i := slices.Index(c.Conditions, condition); i >= 0 {
		c.Conditions = slices.Delete(c.Conditions, i, i+1)
		changed = true
	}

	return PushLog(enc, typ, &ConditionDetail{
		CombatantID: c.ID,
		Name:        c.Name,
		Condition:   condition,
		Added:       add,
		Changed:     changed,
		Conditions:  slices.Clone(c.Conditions),
	}), nil
}
