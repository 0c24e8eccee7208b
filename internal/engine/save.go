package engine

import (
	"fmt"
	"strings"

	"github.com/suderio/skirmish/internal/dice"
	"github.com/suderio/skirmish/internal/rng"
)

// SavePolicy decides what a successful save does to the damage.
type SavePolicy string

const (
	SaveHalf SavePolicy = "half"
	SaveNone SavePolicy = "none"
)

// SaveRequest describes an area effect that every target saves against.
// SaveOverrides is keyed by the target reference as given in TargetIDs.
type SaveRequest struct {
	CasterID       string
	TargetIDs      []string
	StatKey        string
	DC             int
	Damage         dice.Spec
	OnSuccess      SavePolicy
	SaveOverrides  map[string]dice.Override
	DamageOverride dice.Override
}

// SaveOutcome is the per-target part of a save resolution.
type SaveOutcome struct {
	TargetID string       `json:"target_id"`
	Target   string       `json:"target"`
	Save     dice.D20Roll `json:"save"`
	Success  bool         `json:"success"`
	Damage   int          `json:"damage"`
	HP       *int         `json:"hp,omitempty"`
}

// SaveDetail is the log payload of a save resolution.
type SaveDetail struct {
	CasterID  string        `json:"caster_id,omitempty"`
	Caster    string        `json:"caster,omitempty"`
	StatKey   string        `json:"stat_key"`
	DC        int           `json:"dc"`
	OnSuccess SavePolicy    `json:"on_success"`
	Damage    dice.Roll     `json:"damage"`
	Results   []SaveOutcome `json:"results"`
}

func (d *SaveDetail) Message() string {
	parts := make([]string, 0, len(d.Results))
	for _, r := range d.Results {
		verdict := "fails"
		if r.Success {
			verdict = "saves"
		}
		parts = append(parts, fmt.Sprintf("%s %s (%d) takes %d", r.Target, verdict, r.Save.Total, r.Damage))
	}
	source := d.Caster
	if source == "" {
		source = "effect"
	}
	return fmt.Sprintf("%s: DC %d %s save, %s", source, d.DC, d.StatKey, strings.Join(parts, "; "))
}

// SaveResult is returned by ResolveD20Save. It shares no memory with Entry.
type SaveResult struct {
	Entry   *LogEntry
	Damage  dice.Roll
	Results []SaveOutcome
}

// ResolveD20Save rolls the failure damage once and applies it to every
// target that resolves: in full on a failed save, halved (rounded down) or
// not at all on a success depending on OnSuccess. Targets that do not
// resolve are skipped. An empty CasterID is allowed for effects without a
// source; a non-empty one must resolve.
func ResolveD20Save(enc *Encounter, req SaveRequest) (*SaveResult, error) {
	var caster *Combatant
	if req.CasterID != "" {
		c, err := enc.mustLookup(req.CasterID)
		if err != nil {
			return nil, err
		}
		caster = c
	}

	policy := req.OnSuccess
	if policy != SaveNone {
		policy = SaveHalf
	}

	if err := dice.CheckCount(req.Damage.Count); err != nil {
		return nil, err
	}

	src := rng.New(enc.Seed)
	damage := dice.RollDice(req.Damage, src, req.DamageOverride)
	full := max(damage.Total, 0)

	results := make([]SaveOutcome, 0, len(req.TargetIDs))
	for _, ref := range req.TargetIDs {
		target := enc.Lookup(ref)
		if target == nil {
			continue
		}

		override, ok := req.SaveOverrides[ref]
		if !ok {
			override = req.SaveOverrides[target.ID]
		}
		save := dice.RollD20(dice.D20Spec{Bonus: SaveBonus(target, req.StatKey)}, src, override)
		success := save.Total >= req.DC

		applied := full
		if success {
			if policy == SaveNone {
				applied = 0
			} else {
				applied = full / 2
			}
		}
		subtractHP(target, applied)

		results = append(results, SaveOutcome{
			TargetID: target.ID,
			Target:   target.Name,
			Save:     save,
			Success:  success,
			Damage:   applied,
			HP:       cloneIntPtr(target.HP),
		})
	}

	detail := &SaveDetail{
		StatKey:   req.StatKey,
		DC:        req.DC,
		OnSuccess: policy,
		Damage:    damage,
		Results:   results,
	}
	if caster != nil {
		detail.CasterID = caster.ID
		detail.Caster = caster.Name
	}
	entry := PushLog(enc, EntryD20Save, detail)

	out := make([]SaveOutcome, len(results))
	for i, r := range results {
		r.Save = r.Save.Clone()
		r.HP = cloneIntPtr(r.HP)
		out[i] = r
	}
	return &SaveResult{Entry: entry, Damage: damage.Clone(), Results: out}, nil
}

// SaveBonus reads stats[key+"_save"], falling back to stats[key], then 0.
func SaveBonus(c *Combatant, key string) int {
	if v, ok := c.Stats[key+"_save"]; ok {
		return v
	}
	if v, ok := c.Stats[key]; ok {
		return v
	}
	return 0
}
