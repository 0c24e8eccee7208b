package engine

import (
	"fmt"
	"strings"
)

// Track selects the SR damage track.
type Track string

const (
	TrackStun     Track = "stun"
	TrackPhysical Track = "physical"
)

// ParseTrack maps "stun"/"s" to TrackStun; anything else is physical.
func ParseTrack(raw string) Track {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "stun", "s":
		return TrackStun
	}
	return TrackPhysical
}

// ApplyDamage adds amount to the chosen track. Negative amounts count as
// zero. Stun beyond StunMax spills into the physical track; both tracks are
// capped at their maximum.
func ApplyDamage(c *Combatant, track Track, amount int) {
	if amount <= 0 {
		return
	}
	switch track {
	case TrackStun:
		room := max(c.SR.StunMax-c.SR.StunDmg, 0)
		absorbed := min(amount, room)
		c.SR.StunDmg = clamp(c.SR.StunDmg+absorbed, 0, c.SR.StunMax)
		if overflow := amount - absorbed; overflow > 0 {
			c.SR.PhysDmg = clamp(c.SR.PhysDmg+overflow, 0, c.SR.PhysMax)
		}
	case TrackPhysical:
		c.SR.PhysDmg = clamp(c.SR.PhysDmg+amount, 0, c.SR.PhysMax)
	}
}

// IsIncapacitated reports whether either track is full.
func IsIncapacitated(c *Combatant) bool {
	return c.SR.PhysDmg >= c.SR.PhysMax || c.SR.StunDmg >= c.SR.StunMax
}

// TrackState is a read-out of both damage tracks.
type TrackState struct {
	Stun          int  `json:"stun"`
	StunMax       int  `json:"stun_max"`
	Physical      int  `json:"physical"`
	PhysicalMax   int  `json:"physical_max"`
	Incapacitated bool `json:"incapacitated"`
}

// Tracks reads the combatant's current track state.
func Tracks(c *Combatant) TrackState {
	return TrackState{
		Stun:          c.SR.StunDmg,
		StunMax:       c.SR.StunMax,
		Physical:      c.SR.PhysDmg,
		PhysicalMax:   c.SR.PhysMax,
		Incapacitated: IsIncapacitated(c),
	}
}

func (t TrackState) String() string {
	s := fmt.Sprintf("stun %d/%d, physical %d/%d", t.Stun, t.StunMax, t.Physical, t.PhysicalMax)
	if t.Incapacitated {
		s += ", incapacitated"
	}
	return s
}

// subtractHP lowers HP by amount, floored at zero. Untracked HP is left alone.
func subtractHP(c *Combatant, amount int) {
	if c.HP == nil || amount <= 0 {
		return
	}
	hp := max(*c.HP-amount, 0)
	c.HP = &hp
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	return min(max(v, lo), hi)
}
