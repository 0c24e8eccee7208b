// Package dice implements the dice primitives used by combat resolution.
//
// Every primitive accepts an Override. A nil override or Random draws from
// the rng.Source; ForcedRolls and ForcedTotal bypass the source entirely but
// return the same result shape, so a resolution can be replayed or tested
// without randomness.
package dice

import (
	"errors"
	"fmt"

	"github.com/suderio/skirmish/internal/rng"
)

// Spec describes a sum-of-dice roll such as 2d6+3.
type Spec struct {
	Count int `json:"count"`
	Sides int `json:"sides"`
	Bonus int `json:"bonus"`
}

// Roll is the result of RollDice.
type Roll struct {
	Rolls  []int `json:"rolls"`
	Total  int   `json:"total"`
	Bonus  int   `json:"bonus"`
	Manual bool  `json:"manual"`
}

// Mode selects how a d20 is rolled.
type Mode string

const (
	ModeNormal       Mode = "normal"
	ModeAdvantage    Mode = "adv"
	ModeDisadvantage Mode = "dis"
)

// D20Spec describes a d20 check.
type D20Spec struct {
	Bonus int  `json:"bonus"`
	Mode  Mode `json:"mode"`
}

// D20Roll is the result of RollD20. Picked is the die that counts.
type D20Roll struct {
	Rolls  []int `json:"rolls"`
	Picked int   `json:"picked"`
	Total  int   `json:"total"`
	Bonus  int   `json:"bonus"`
	Mode   Mode  `json:"mode"`
	Manual bool  `json:"manual"`
}

// PoolSpec describes a pool of d6. A nil Limit means hits are uncapped.
type PoolSpec struct {
	Dice  int  `json:"dice"`
	Limit *int `json:"limit,omitempty"`
}

// PoolRoll is the result of RollD6Pool.
type PoolRoll struct {
	Rolls  []int `json:"rolls"`
	Hits   int   `json:"hits"`
	Limit  *int  `json:"limit,omitempty"`
	Manual bool  `json:"manual"`
}

// HitThreshold is the lowest d6 face that counts as a hit.
const HitThreshold = 5

// MaxDice bounds the number of dice in a single roll or pool.
const MaxDice = 1000

// ErrTooManyDice is returned by CheckCount.
var ErrTooManyDice = errors.New("too many dice")

// CheckCount rejects dice counts above MaxDice.
func CheckCount(n int) error {
	if n > MaxDice {
		return fmt.Errorf("%w: %d, at most %d", ErrTooManyDice, n, MaxDice)
	}
	return nil
}

// RollDie returns a value in [1, sides]. Sides below one yield 0.
func RollDie(sides int, src rng.Source) int {
	if sides <= 0 {
		return 0
	}
	return 1 + int(src.Next()*float64(sides))
}

// RollDice rolls spec.Count dice and adds spec.Bonus. Counts above MaxDice
// are truncated; callers taking user input validate with CheckCount first.
func RollDice(spec Spec, src rng.Source, o Override) Roll {
	switch v := o.(type) {
	case ForcedRolls:
		rolls := cloneInts(v.Rolls)
		return Roll{Rolls: rolls, Total: sum(rolls) + spec.Bonus, Bonus: spec.Bonus, Manual: true}
	case ForcedTotal:
		return Roll{Rolls: []int{}, Total: v.Total, Bonus: 0, Manual: true}
	}

	n := min(max(spec.Count, 0), MaxDice)
	rolls := make([]int, 0, n)
	for i := 0; i < n; i++ {
		rolls = append(rolls, RollDie(spec.Sides, src))
	}
	return Roll{Rolls: rolls, Total: sum(rolls) + spec.Bonus, Bonus: spec.Bonus}
}

// RollD20 rolls one d20, or two with advantage or disadvantage.
func RollD20(spec D20Spec, src rng.Source, o Override) D20Roll {
	mode := normalizeMode(spec.Mode)

	switch v := o.(type) {
	case ForcedRolls:
		rolls := cloneInts(v.Rolls)
		picked := pick(rolls, mode)
		return D20Roll{Rolls: rolls, Picked: picked, Total: picked + spec.Bonus, Bonus: spec.Bonus, Mode: mode, Manual: true}
	case ForcedTotal:
		return D20Roll{Rolls: []int{}, Total: v.Total, Mode: mode, Manual: true}
	}

	n := 1
	if mode != ModeNormal {
		n = 2
	}
	rolls := make([]int, 0, n)
	for i := 0; i < n; i++ {
		rolls = append(rolls, RollDie(20, src))
	}
	picked := pick(rolls, mode)
	return D20Roll{Rolls: rolls, Picked: picked, Total: picked + spec.Bonus, Bonus: spec.Bonus, Mode: mode}
}

// RollD6Pool rolls spec.Dice d6 and counts faces of 5 or 6 as hits.
// Only ForcedRolls is honoured as an override. Pools above MaxDice are
// truncated like RollDice.
func RollD6Pool(spec PoolSpec, src rng.Source, o Override) PoolRoll {
	var limit *int
	if spec.Limit != nil {
		l := *spec.Limit
		limit = &l
	}

	if v, ok := o.(ForcedRolls); ok {
		rolls := cloneInts(v.Rolls)
		return PoolRoll{Rolls: rolls, Hits: countHits(rolls, limit), Limit: limit, Manual: true}
	}

	n := min(max(spec.Dice, 0), MaxDice)
	rolls := make([]int, 0, n)
	for i := 0; i < n; i++ {
		rolls = append(rolls, RollDie(6, src))
	}
	return PoolRoll{Rolls: rolls, Hits: countHits(rolls, limit), Limit: limit}
}

// Clone returns a copy that shares no memory with r.
func (r Roll) Clone() Roll {
	r.Rolls = cloneInts(r.Rolls)
	return r
}

// Clone returns a copy that shares no memory with r.
func (r D20Roll) Clone() D20Roll {
	r.Rolls = cloneInts(r.Rolls)
	return r
}

// Clone returns a copy that shares no memory with r.
func (r PoolRoll) Clone() PoolRoll {
	r.Rolls = cloneInts(r.Rolls)
	if r.Limit != nil {
		l := *r.Limit
		r.Limit = &l
	}
	return r
}

func normalizeMode(m Mode) Mode {
	switch m {
	case ModeAdvantage, ModeDisadvantage:
		return m
	}
	return ModeNormal
}

// pick applies the adv/dis rule. Normal mode keeps the first die.
func pick(rolls []int, mode Mode) int {
	if len(rolls) == 0 {
		return 0
	}
	picked := rolls[0]
	for _, r := range rolls[1:] {
		switch mode {
		case ModeAdvantage:
			picked = max(picked, r)
		case ModeDisadvantage:
			picked = min(picked, r)
		}
	}
	return picked
}

func countHits(rolls []int, limit *int) int {
	hits := 0
	for _, r := range rolls {
		if r >= HitThreshold {
			hits++
		}
	}
	if limit != nil {
		hits = min(hits, max(*limit, 0))
	}
	return hits
}

func sum(vals []int) int {
	total := 0
	for _, v := range vals {
		total += v
	}
	return total
}

func cloneInts(vals []int) []int {
	out := make([]int, len(vals))
	copy(out, vals)
	return out
}
