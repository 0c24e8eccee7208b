package data

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/suderio/skirmish/internal/engine"
	"github.com/suderio/skirmish/internal/rules"
)

// ErrNotFound is returned when no data directory holds the reference.
var ErrNotFound = errors.New("data reference not found")

// Loader reads templates and rosters from a fallback list of data
// directories. The first directory holding a file wins.
type Loader struct {
	dataDirs []string
	rules    *rules.Registry
}

// NewLoader initializes a Loader. A nil registry disables derived stats.
func NewLoader(dataDirs []string, registry *rules.Registry) *Loader {
	return &Loader{
		dataDirs: dataDirs,
		rules:    registry,
	}
}

// LoadCombatant reads combatants/<name>.yaml and evaluates its derived
// stats.
func (l *Loader) LoadCombatant(name string) (*CombatantTemplate, error) {
	var t CombatantTemplate
	ref := filepath.Join("combatants", fmt.Sprintf("%s.yaml", dashName(name)))
	if err := l.load(ref, &t); err != nil {
		return nil, err
	}

	if t.Name == "" {
		t.Name = name
	}
	if t.Stats == nil {
		t.Stats = make(map[string]int)
	}
	if len(t.Derived) > 0 {
		if l.rules == nil {
			return nil, fmt.Errorf("template %s declares derived stats but no rules registry is configured", name)
		}
		derived, err := l.rules.Derive(t.Stats, t.Derived)
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", name, err)
		}
		for k, v := range derived {
			t.Stats[k] = v
		}
	}
	return &t, nil
}

// LoadRoster reads rosters/<name>.yaml.
func (l *Loader) LoadRoster(name string) (*Roster, error) {
	var r Roster
	ref := filepath.Join("rosters", fmt.Sprintf("%s.yaml", dashName(name)))
	if err := l.load(ref, &r); err != nil {
		return nil, err
	}
	if r.Name == "" {
		r.Name = name
	}
	return &r, nil
}

// Populate adds every roster member to the encounter. Members with a count
// above one are numbered ("Goblin 1", "Goblin 2"). Nothing is added when any
// template fails to load.
func (l *Loader) Populate(enc *engine.Encounter, roster *Roster) ([]*engine.Combatant, error) {
	specs := make([]engine.CombatantSpec, 0, len(roster.Members))
	for _, m := range roster.Members {
		t, err := l.LoadCombatant(m.Template)
		if err != nil {
			return nil, fmt.Errorf("roster %s: %w", roster.Name, err)
		}

		count := max(m.Count, 1)
		for i := 1; i <= count; i++ {
			spec := t.Spec(m.Name)
			if count > 1 {
				spec.Name = fmt.Sprintf("%s %d", spec.Name, i)
			}
			if m.HP != nil {
				spec.HP = m.HP
			}
			if m.Initiative != nil {
				spec.Initiative = m.Initiative
			}
			specs = append(specs, spec)
		}
	}

	added := make([]*engine.Combatant, 0, len(specs))
	for _, spec := range specs {
		added = append(added, engine.AddCombatant(enc, spec))
	}
	return added, nil
}

func (l *Loader) load(ref string, target interface{}) error {
	for _, dir := range l.dataDirs {
		path := filepath.Join(dir, ref)
		f, err := os.Open(path)
		if err == nil {
			defer f.Close()
			decoder := yaml.NewDecoder(f)
			if err := decoder.Decode(target); err != nil {
				return fmt.Errorf("failed to decode yaml reference %s: %w", ref, err)
			}
			return nil
		}
	}
	return fmt.Errorf("could not find or open reference %s in any available data directory: %w", ref, ErrNotFound)
}

func dashName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}
