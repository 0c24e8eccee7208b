package data

import (
	"github.com/suderio/skirmish/internal/engine"
)

// SRBlock is the optional d6-pool resource block of a template.
type SRBlock struct {
	StunMax *int `yaml:"stun_max"`
	PhysMax *int `yaml:"phys_max"`
	Soak    *int `yaml:"soak"`
}

// CombatantTemplate is a reusable combatant read from
// combatants/<name>.yaml. Derived holds CEL formulas over stats; their
// results are merged into Stats when the template is loaded.
type CombatantTemplate struct {
	Name       string            `yaml:"name"`
	HP         *int              `yaml:"hp,omitempty"`
	AC         *int              `yaml:"ac,omitempty"`
	Initiative *int              `yaml:"initiative,omitempty"`
	Stats      map[string]int    `yaml:"stats,omitempty"`
	Derived    map[string]string `yaml:"derived,omitempty"`
	Conditions []string          `yaml:"conditions,omitempty"`
	SR         *SRBlock          `yaml:"sr,omitempty"`
}

// Spec turns the template into AddCombatant input. A non-empty name replaces
// the template's.
func (t *CombatantTemplate) Spec(name string) engine.CombatantSpec {
	if name == "" {
		name = t.Name
	}
	spec := engine.CombatantSpec{
		Name:       name,
		HP:         t.HP,
		AC:         t.AC,
		Initiative: t.Initiative,
		Stats:      t.Stats,
		Conditions: t.Conditions,
	}
	if t.SR != nil {
		spec.StunMax = t.SR.StunMax
		spec.PhysMax = t.SR.PhysMax
		spec.SoakDice = t.SR.Soak
	}
	return spec
}

// RosterMember places one or more copies of a template in an encounter.
type RosterMember struct {
	Template   string `yaml:"template"`
	Name       string `yaml:"name"`
	Count      int    `yaml:"count"`
	HP         *int   `yaml:"hp"`
	Initiative *int   `yaml:"initiative"`
}

// Roster is a named group of combatants read from rosters/<name>.yaml.
type Roster struct {
	Name    string         `yaml:"name"`
	Members []RosterMember `yaml:"members"`
}
