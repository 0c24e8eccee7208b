package engine

import (
	"fmt"

	"github.com/suderio/skirmish/internal/dice"
	"github.com/suderio/skirmish/internal/rng"
)

// OpposedRequest describes an opposed d6-pool test. A nil SoakDice uses the
// defender's own soak pool.
type OpposedRequest struct {
	AttackerID      string
	DefenderID      string
	AttackDice      int
	DefenseDice     int
	AttackLimit     *int
	DefenseLimit    *int
	BaseDamage      int
	Track           Track
	ApplySoak       bool
	SoakDice        *int
	AttackOverride  dice.Override
	DefenseOverride dice.Override
	SoakOverride    dice.Override
}

// OpposedDetail is the log payload of an opposed test.
type OpposedDetail struct {
	AttackerID string         `json:"attacker_id"`
	Attacker   string         `json:"attacker"`
	DefenderID string         `json:"defender_id"`
	Defender   string         `json:"defender"`
	Attack     dice.PoolRoll  `json:"attack"`
	Defense    dice.PoolRoll  `json:"defense"`
	NetHits    int            `json:"net_hits"`
	Hit        bool           `json:"hit"`
	BaseDamage int            `json:"base_damage"`
	Soak       *dice.PoolRoll `json:"soak,omitempty"`
	Damage     int            `json:"damage"`
	Track      Track          `json:"track"`
	Tracks     TrackState     `json:"tracks"`
}

func (d *OpposedDetail) Message() string {
	if !d.Hit {
		return fmt.Sprintf("%s vs %s: %d to %d hits, no effect", d.Attacker, d.Defender, d.Attack.Hits, d.Defense.Hits)
	}
	return fmt.Sprintf("%s vs %s: %d net hits, %d %s damage (%s)", d.Attacker, d.Defender, d.NetHits, d.Damage, d.Track, d.Tracks)
}

// OpposedResult is returned by ResolveOpposedD6Test.
type OpposedResult struct {
	Entry   *LogEntry
	Hit     bool
	NetHits int
	Damage  int
	Attack  dice.PoolRoll
	Defense dice.PoolRoll
	Soak    *dice.PoolRoll
}

// ResolveOpposedD6Test rolls both pools. Net hits above zero land for base
// damage plus net hits, optionally reduced by a soak roll, and the remainder
// goes to the defender's chosen track.
func ResolveOpposedD6Test(enc *Encounter, req OpposedRequest) (*OpposedResult, error) {
	attacker, err := enc.mustLookup(req.AttackerID)
	if err != nil {
		return nil, err
	}
	defender, err := enc.mustLookup(req.DefenderID)
	if err != nil {
		return nil, err
	}

	soakDice := defender.SR.SoakDice
	if req.SoakDice != nil {
		soakDice = *req.SoakDice
	}
	pools := []int{req.AttackDice, req.DefenseDice}
	if req.ApplySoak {
		pools = append(pools, soakDice)
	}
	for _, n := range pools {
		if err := dice.CheckCount(n); err != nil {
			return nil, err
		}
	}

	track := req.Track
	if track != TrackStun {
		track = TrackPhysical
	}

	src := rng.New(enc.Seed)
	attack := dice.RollD6Pool(dice.PoolSpec{Dice: req.AttackDice, Limit: req.AttackLimit}, src, req.AttackOverride)
	defense := dice.RollD6Pool(dice.PoolSpec{Dice: req.DefenseDice, Limit: req.DefenseLimit}, src, req.DefenseOverride)

	net := max(attack.Hits-defense.Hits, 0)
	hit := net > 0

	damage := 0
	var soak *dice.PoolRoll
	if hit {
		damage = req.BaseDamage + net
		if req.ApplySoak {
			roll := dice.RollD6Pool(dice.PoolSpec{Dice: soakDice}, src, req.SoakOverride)
			soak = &roll
			damage = max(damage-roll.Hits, 0)
		}
	}
	if damage > 0 {
		ApplyDamage(defender, track, damage)
	}
	damage = max(damage, 0)

	entry := PushLog(enc, EntryD6PoolOpposed, &OpposedDetail{
		AttackerID: attacker.ID,
		Attacker:   attacker.Name,
		DefenderID: defender.ID,
		Defender:   defender.Name,
		Attack:     attack,
		Defense:    defense,
		NetHits:    net,
		Hit:        hit,
		BaseDamage: req.BaseDamage,
		Soak:       soak,
		Damage:     damage,
		Track:      track,
		Tracks:     Tracks(defender),
	})

	res := &OpposedResult{
		Entry:   entry,
		Hit:     hit,
		NetHits: net,
		Damage:  damage,
		Attack:  attack.Clone(),
		Defense: defense.Clone(),
	}
	if soak != nil {
		s := soak.Clone()
		res.Soak = &s
	}
	return res, nil
}

// PoolTestRequest describes an unopposed pool against a hit threshold.
type PoolTestRequest struct {
	ActorID   string
	Dice      int
	Limit     *int
	Threshold int
	Override  dice.Override
}

// PoolTestDetail is the log payload of an unopposed pool test.
type PoolTestDetail struct {
	ActorID   string        `json:"actor_id"`
	Actor     string        `json:"actor"`
	Pool      dice.PoolRoll `json:"pool"`
	Threshold int           `json:"threshold"`
	Success   bool          `json:"success"`
}

func (d *PoolTestDetail) Message() string {
	verdict := "fails"
	if d.Success {
		verdict = "succeeds"
	}
	return fmt.Sprintf("%s rolls %d hits against %d, %s", d.Actor, d.Pool.Hits, d.Threshold, verdict)
}

// PoolTestResult is returned by ResolveD6PoolTest.
type PoolTestResult struct {
	Entry   *LogEntry
	Pool    dice.PoolRoll
	Success bool
}

// ResolveD6PoolTest rolls a pool for one combatant; it succeeds when hits
// reach the threshold.
func ResolveD6PoolTest(enc *Encounter, req PoolTestRequest) (*PoolTestResult, error) {
	actor, err := enc.mustLookup(req.ActorID)
	if err != nil {
		return nil, err
	}

	if err := dice.CheckCount(req.Dice); err != nil {
		return nil, err
	}

	pool := dice.RollD6Pool(dice.PoolSpec{Dice: req.Dice, Limit: req.Limit}, rng.New(enc.Seed), req.Override)
	success := pool.Hits >= req.Threshold

	entry := PushLog(enc, EntryD6PoolTest, &PoolTestDetail{
		ActorID:   actor.ID,
		Actor:     actor.Name,
		Pool:      pool,
		Threshold: req.Threshold,
		Success:   success,
	})
	return &PoolTestResult{Entry: entry, Pool: pool.Clone(), Success: success}, nil
}
