// Package engine implements the encounter model and combat resolution.
//
// All operations are synchronous and mutate the caller's Encounter in place.
// Nothing here locks: callers must serialise access to a single Encounter.
package engine

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a combatant or log entry reference does not
// resolve. It is always checked before any mutation happens.
var ErrNotFound = errors.New("not found")

// System tags which rule family an encounter uses.
type System string

const (
	SystemD20    System = "d20"
	SystemD6Pool System = "d6pool"
)

// Defaults applied by AddCombatant when a field is omitted.
const (
	DefaultStunMax    = 10
	DefaultPhysMax    = 10
	DefaultArmorClass = 10
)

// SR is the stun/physical resource block used by d6-pool damage.
type SR struct {
	StunMax  int `json:"stun_max" yaml:"stun_max"`
	PhysMax  int `json:"phys_max" yaml:"phys_max"`
	StunDmg  int `json:"stun_dmg" yaml:"stun_dmg"`
	PhysDmg  int `json:"phys_dmg" yaml:"phys_dmg"`
	SoakDice int `json:"soak_dice" yaml:"soak_dice"`
}

// Combatant is a participant in an encounter. HP, AC and Initiative are nil
// when not tracked.
type Combatant struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	HP         *int           `json:"hp,omitempty"`
	AC         *int           `json:"ac,omitempty"`
	Initiative *int           `json:"initiative,omitempty"`
	Stats      map[string]int `json:"stats"`
	Conditions []string       `json:"conditions"`
	SR         SR             `json:"sr"`
}

// HasCondition reports whether the tag is set.
func (c *Combatant) HasCondition(tag string) bool {
	for _, t := range c.Conditions {
		if t == tag {
			return true
		}
	}
	return false
}

// Clone returns a deep copy.
func (c *Combatant) Clone() *Combatant {
	if c == nil {
		return nil
	}
	out := *c
	out.HP = cloneIntPtr(c.HP)
	out.AC = cloneIntPtr(c.AC)
	out.Initiative = cloneIntPtr(c.Initiative)
	out.Stats = make(map[string]int, len(c.Stats))
	for k, v := range c.Stats {
		out.Stats[k] = v
	}
	out.Conditions = append(make([]string, 0, len(c.Conditions)), c.Conditions...)
	return &out
}

// State is everything a log entry snapshot captures: the encounter minus its
// identity and its log.
type State struct {
	System     System       `json:"system"`
	Seed       string       `json:"seed,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
	Combatants []*Combatant `json:"combatants"`
	TurnIndex  int          `json:"turn_index"`
}

// Clone returns a deep copy.
func (s State) Clone() State {
	out := s
	out.Combatants = make([]*Combatant, len(s.Combatants))
	for i, c := range s.Combatants {
		out.Combatants[i] = c.Clone()
	}
	return out
}

// Encounter is a bounded combat session. Combatant order is turn order.
type Encounter struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	State
	Log []*LogEntry `json:"log"`
}

// EncounterOptions configures CreateEncounter.
type EncounterOptions struct {
	Title  string
	System System
	Seed   string
}

// CreateEncounter builds an empty encounter. System defaults to d20.
func CreateEncounter(opts EncounterOptions) *Encounter {
	system := opts.System
	if system != SystemD6Pool {
		system = SystemD20
	}
	return &Encounter{
		ID:    uuid.NewString(),
		Title: opts.Title,
		State: State{
			System:     system,
			Seed:       opts.Seed,
			CreatedAt:  time.Now().UTC(),
			Combatants: make([]*Combatant, 0),
		},
		Log: make([]*LogEntry, 0),
	}
}

// CombatantSpec holds the caller-supplied fields for AddCombatant. Nil
// pointers select the defaults.
type CombatantSpec struct {
	ID         string
	Name       string
	HP         *int
	AC         *int
	Initiative *int
	Stats      map[string]int
	Conditions []string
	StunMax    *int
	PhysMax    *int
	SoakDice   *int
}

// AddCombatant appends a new combatant and returns it. It does not log. An
// empty id, or one already taken in enc, is replaced with a generated one so
// that ids stay unique.
func AddCombatant(enc *Encounter, spec CombatantSpec) *Combatant {
	id := spec.ID
	if id == "" || enc.HasCombatant(id) {
		id = uuid.NewString()
	}
	c := &Combatant{
		ID:         id,
		Name:       spec.Name,
		HP:         cloneIntPtr(spec.HP),
		AC:         cloneIntPtr(spec.AC),
		Initiative: cloneIntPtr(spec.Initiative),
		Stats:      make(map[string]int, len(spec.Stats)),
		Conditions: make([]string, 0, len(spec.Conditions)),
		SR: SR{
			StunMax:  nonNegative(valueOr(spec.StunMax, DefaultStunMax)),
			PhysMax:  nonNegative(valueOr(spec.PhysMax, DefaultPhysMax)),
			SoakDice: nonNegative(valueOr(spec.SoakDice, 0)),
		},
	}
	for k, v := range spec.Stats {
		c.Stats[k] = v
	}
	for _, tag := range spec.Conditions {
		if !c.HasCondition(tag) {
			c.Conditions = append(c.Conditions, tag)
		}
	}
	enc.Combatants = append(enc.Combatants, c)
	return c
}

// HasCombatant reports whether a combatant with exactly this id exists.
func (e *Encounter) HasCombatant(id string) bool {
	return slices.ContainsFunc(e.Combatants, func(c *Combatant) bool { return c.ID == id })
}

// Lookup resolves a reference by exact id first, then by case-insensitive
// name. It returns nil when nothing matches.
func (e *Encounter) Lookup(ref string) *Combatant {
	for _, c := range e.Combatants {
		if c.ID == ref {
			return c
		}
	}
	for _, c := range e.Combatants {
		if strings.EqualFold(c.Name, ref) {
			return c
		}
	}
	return nil
}

func (e *Encounter) mustLookup(ref string) (*Combatant, error) {
	c := e.Lookup(ref)
	if c == nil {
		return nil, &LookupError{Kind: "combatant", Ref: ref}
	}
	return c, nil
}

// LookupError names the reference that failed to resolve. It matches
// ErrNotFound under errors.Is.
type LookupError struct {
	Kind string
	Ref  string
}

func (e *LookupError) Error() string { return e.Kind + " " + e.Ref + ": not found" }

func (e *LookupError) Is(target error) bool { return target == ErrNotFound }

func cloneIntPtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func valueOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func nonNegative(v int) int {
	return max(v, 0)
}

// IntPtr is a convenience for filling optional fields.
func IntPtr(v int) *int { return &v }
