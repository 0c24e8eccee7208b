package engine

import (
	"fmt"
	"sort"
	"strings"
)

// unsetInitiative is the effective score of a combatant without initiative.
const unsetInitiative = -9999

// InitiativeDetail records a manually set initiative score.
type InitiativeDetail struct {
	CombatantID string `json:"combatant_id"`
	Name        string `json:"name"`
	Value       int    `json:"value"`
}

func (d *InitiativeDetail) Message() string {
	return fmt.Sprintf("%s initiative set to %d", d.Name, d.Value)
}

// SortDetail records the turn order produced by SortInitiative.
type SortDetail struct {
	Order []string `json:"order"`
	Names []string `json:"names"`
}

func (d *SortDetail) Message() string {
	return "initiative sorted: " + strings.Join(d.Names, ", ")
}

// TurnDetail records a turn advance.
type TurnDetail struct {
	TurnIndex int    `json:"turn_index"`
	ActorID   string `json:"actor_id"`
	Name      string `json:"name"`
}

func (d *TurnDetail) Message() string {
	return fmt.Sprintf("turn %d: %s", d.TurnIndex, d.Name)
}

// SetInitiative stores a combatant's initiative score.
func SetInitiative(enc *Encounter, combatantID string, value int) (*LogEntry, error) {
	c, err := enc.mustLookup(combatantID)
	if err != nil {
		return nil, err
	}
	c.Initiative = IntPtr(value)
	return PushLog(enc, EntryInitiativeManual, &InitiativeDetail{CombatantID: c.ID, Name: c.Name, Value: value}), nil
}

// SortInitiative orders combatants by initiative, highest first. Combatants
// without a score go last; ties break on name, case-insensitively. The turn
// index resets to the top of the order.
func SortInitiative(enc *Encounter) *LogEntry {
	sort.SliceStable(enc.Combatants, func(i, j int) bool {
		a, b := enc.Combatants[i], enc.Combatants[j]
		if (a.Initiative == nil) != (b.Initiative == nil) {
			return a.Initiative != nil
		}
		sa, sb := initiativeScore(a), initiativeScore(b)
		if sa != sb {
			return sa > sb
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
	enc.TurnIndex = 0

	detail := &SortDetail{
		Order: make([]string, len(enc.Combatants)),
		Names: make([]string, len(enc.Combatants)),
	}
	for i, c := range enc.Combatants {
		detail.Order[i] = c.ID
		detail.Names[i] = c.Name
	}
	return PushLog(enc, EntryInitiativeSort, detail)
}

func initiativeScore(c *Combatant) int {
	if c.Initiative == nil {
		return unsetInitiative
	}
	return *c.Initiative
}

// NextTurn advances the turn pointer, wrapping at the end. It returns nil and
// logs nothing when there are no combatants.
func NextTurn(enc *Encounter) *LogEntry {
	n := len(enc.Combatants)
	if n == 0 {
		return nil
	}
	enc.TurnIndex = (normalizeTurn(enc.TurnIndex, n) + 1) % n
	actor := enc.Combatants[enc.TurnIndex]
	return PushLog(enc, EntryTurnNext, &TurnDetail{TurnIndex: enc.TurnIndex, ActorID: actor.ID, Name: actor.Name})
}

// CurrentActor returns the combatant whose turn it is, or nil.
func CurrentActor(enc *Encounter) *Combatant {
	n := len(enc.Combatants)
	if n == 0 {
		return nil
	}
	return enc.Combatants[normalizeTurn(enc.TurnIndex, n)]
}

// normalizeTurn keeps an out-of-range index, e.g. from a hand-edited save,
// inside [0, n).
func normalizeTurn(idx, n int) int {
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}
