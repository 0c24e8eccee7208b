package engine

import (
	"fmt"
	"slices"

	"github.com/suderio/skirmish/internal/dice"
	"github.com/suderio/skirmish/internal/rng"
)

// AttackRequest describes a d20 attack roll against a single target.
type AttackRequest struct {
	AttackerID     string
	TargetID       string
	ToHitBonus     int
	Mode           dice.Mode
	Damage         dice.Spec
	ToHitOverride  dice.Override
	DamageOverride dice.Override
	AllowCrit      bool
}

// AttackDetail is the log payload of a d20 attack.
type AttackDetail struct {
	AttackerID string       `json:"attacker_id"`
	Attacker   string       `json:"attacker"`
	TargetID   string       `json:"target_id"`
	Target     string       `json:"target"`
	ToHit      dice.D20Roll `json:"to_hit"`
	ArmorClass int          `json:"armor_class"`
	Hit        bool         `json:"hit"`
	Crit       bool         `json:"crit"`
	Damage     *dice.Roll   `json:"damage,omitempty"`
	TargetHP   *int         `json:"target_hp,omitempty"`
}

func (d *AttackDetail) Message() string {
	if !d.Hit {
		return fmt.Sprintf("%s attacks %s: %d vs AC %d, miss", d.Attacker, d.Target, d.ToHit.Total, d.ArmorClass)
	}
	msg := fmt.Sprintf("%s attacks %s: %d vs AC %d, hit", d.Attacker, d.Target, d.ToHit.Total, d.ArmorClass)
	if d.Crit {
		msg += " (critical)"
	}
	if d.Damage != nil {
		msg += fmt.Sprintf(" for %d", d.Damage.Total)
	}
	if d.TargetHP != nil {
		msg += fmt.Sprintf(", %s at %d HP", d.Target, *d.TargetHP)
	}
	return msg
}

// AttackResult is returned by ResolveD20Attack. It shares no memory with
// Entry.
type AttackResult struct {
	Entry    *LogEntry
	ToHit    dice.D20Roll
	Hit      bool
	Crit     bool
	Damage   *dice.Roll
	TargetHP *int
}

// ResolveD20Attack rolls to hit against the target's armor class (10 when
// unset) and, on a hit, rolls and applies damage. A natural 20 on any rolled
// die always hits and a natural 1 always misses. A crit doubles the damage
// dice, not the bonus. Damage dice above dice.MaxDice, doubled or not, are
// rejected before anything changes.
func ResolveD20Attack(enc *Encounter, req AttackRequest) (*AttackResult, error) {
	attacker, err := enc.mustLookup(req.AttackerID)
	if err != nil {
		return nil, err
	}
	target, err := enc.mustLookup(req.TargetID)
	if err != nil {
		return nil, err
	}

	if err := dice.CheckCount(req.Damage.Count); err != nil {
		return nil, err
	}

	src := rng.New(enc.Seed)
	toHit := dice.RollD20(dice.D20Spec{Bonus: req.ToHitBonus, Mode: req.Mode}, src, req.ToHitOverride)

	ac := DefaultArmorClass
	if target.AC != nil {
		ac = *target.AC
	}

	nat20 := slices.Contains(toHit.Rolls, 20)
	nat1 := slices.Contains(toHit.Rolls, 1)
	var hit bool
	switch {
	case nat20:
		hit = true
	case nat1:
		hit = false
	default:
		hit = toHit.Total >= ac
	}
	crit := hit && nat20 && req.AllowCrit

	var damage *dice.Roll
	if hit {
		spec := req.Damage
		if crit {
			spec.Count *= 2
			if err := dice.CheckCount(spec.Count); err != nil {
				return nil, err
			}
		}
		roll := dice.RollDice(spec, src, req.DamageOverride)
		damage = &roll
		subtractHP(target, roll.Total)
	}

	hp := cloneIntPtr(target.HP)
	entry := PushLog(enc, EntryD20Attack, &AttackDetail{
		AttackerID: attacker.ID,
		Attacker:   attacker.Name,
		TargetID:   target.ID,
		Target:     target.Name,
		ToHit:      toHit,
		ArmorClass: ac,
		Hit:        hit,
		Crit:       crit,
		Damage:     damage,
		TargetHP:   cloneIntPtr(hp),
	})

	res := &AttackResult{
		Entry:    entry,
		ToHit:    toHit.Clone(),
		Hit:      hit,
		Crit:     crit,
		TargetHP: hp,
	}
	if damage != nil {
		d := damage.Clone()
		res.Damage = &d
	}
	return res, nil
}
