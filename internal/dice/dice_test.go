package dice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suderio/skirmish/internal/rng"
)

// fixedSource replays values in order and then repeats the last one.
type fixedSource struct {
	vals []float64
	pos  int
}

func (f *fixedSource) Next() float64 {
	v := f.vals[min(f.pos, len(f.vals)-1)]
	f.pos++
	return v
}

func TestRollDieBounds(t *testing.T) {
	src := rng.New("bounds")
	for i := 0; i < 1000; i++ {
		v := RollDie(8, src)
		if v < 1 || v > 8 {
			t.Fatalf("roll out of bounds for d8: %d", v)
		}
	}
	assert.Equal(t, 0, RollDie(0, src))
}

func TestRollDieScalesSource(t *testing.T) {
	assert.Equal(t, 1, RollDie(6, &fixedSource{vals: []float64{0}}))
	assert.Equal(t, 6, RollDie(6, &fixedSource{vals: []float64{0.999}}))
	assert.Equal(t, 4, RollDie(6, &fixedSource{vals: []float64{0.5}}))
}

func TestRollDiceRandom(t *testing.T) {
	res := RollDice(Spec{Count: 3, Sides: 6, Bonus: 2}, rng.New("3d6"), nil)

	require.Len(t, res.Rolls, 3)
	assert.False(t, res.Manual)
	assert.Equal(t, 2, res.Bonus)
	assert.Equal(t, res.Rolls[0]+res.Rolls[1]+res.Rolls[2]+2, res.Total)
}

func TestRollDiceForcedRolls(t *testing.T) {
	src := &fixedSource{vals: []float64{0.5}}
	res := RollDice(Spec{Count: 2, Sides: 6, Bonus: 3}, src, ForcedRolls{Rolls: []int{4, 5}})

	assert.Equal(t, []int{4, 5}, res.Rolls)
	assert.Equal(t, 12, res.Total)
	assert.Equal(t, 3, res.Bonus)
	assert.True(t, res.Manual)
	assert.Equal(t, 0, src.pos, "forced rolls must not consume the source")
}

func TestRollDiceForcedTotal(t *testing.T) {
	res := RollDice(Spec{Count: 2, Sides: 6, Bonus: 3}, rng.New("x"), ForcedTotal{Total: 7})

	assert.Empty(t, res.Rolls)
	assert.Equal(t, 7, res.Total)
	assert.Equal(t, 0, res.Bonus)
	assert.True(t, res.Manual)
}

func TestRollD20Modes(t *testing.T) {
	tests := []struct {
		name   string
		mode   Mode
		vals   []float64
		rolls  []int
		picked int
	}{
		{"normal", ModeNormal, []float64{0.5}, []int{11}, 11},
		{"advantage", ModeAdvantage, []float64{0.1, 0.9}, []int{3, 19}, 19},
		{"disadvantage", ModeDisadvantage, []float64{0.1, 0.9}, []int{3, 19}, 3},
		{"unknown mode is normal", Mode("sideways"), []float64{0.5}, []int{11}, 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := RollD20(D20Spec{Bonus: 4, Mode: tt.mode}, &fixedSource{vals: tt.vals}, nil)
			assert.Equal(t, tt.rolls, res.Rolls)
			assert.Equal(t, tt.picked, res.Picked)
			assert.Equal(t, tt.picked+4, res.Total)
			assert.False(t, res.Manual)
		})
	}
}

func TestRollD20ForcedRollsUsesPickRule(t *testing.T) {
	adv := RollD20(D20Spec{Bonus: 2, Mode: ModeAdvantage}, nil, ForcedRolls{Rolls: []int{7, 15}})
	assert.Equal(t, 15, adv.Picked)
	assert.Equal(t, 17, adv.Total)
	assert.True(t, adv.Manual)

	dis := RollD20(D20Spec{Mode: ModeDisadvantage}, nil, ForcedRolls{Rolls: []int{7, 15}})
	assert.Equal(t, 7, dis.Picked)

	normal := RollD20(D20Spec{}, nil, ForcedRolls{Rolls: []int{9, 20}})
	assert.Equal(t, 9, normal.Picked)

	empty := RollD20(D20Spec{Bonus: 5}, nil, ForcedRolls{})
	assert.Equal(t, 0, empty.Picked)
	assert.Equal(t, 5, empty.Total)
}

func TestRollD20ForcedTotal(t *testing.T) {
	res := RollD20(D20Spec{Bonus: 10}, nil, ForcedTotal{Total: 25})
	assert.Equal(t, 25, res.Total)
	assert.Empty(t, res.Rolls)
	assert.True(t, res.Manual)
}

func TestRollD6PoolCountsHits(t *testing.T) {
	res := RollD6Pool(PoolSpec{Dice: 6}, nil, ForcedRolls{Rolls: []int{6, 6, 6, 1, 1, 1}})
	assert.Equal(t, 3, res.Hits)
	assert.True(t, res.Manual)

	res = RollD6Pool(PoolSpec{Dice: 4}, nil, ForcedRolls{Rolls: []int{5, 4, 5, 2}})
	assert.Equal(t, 2, res.Hits)
}

func TestRollD6PoolLimit(t *testing.T) {
	limit := 2
	res := RollD6Pool(PoolSpec{Dice: 5, Limit: &limit}, nil, ForcedRolls{Rolls: []int{5, 5, 6, 6, 1}})
	assert.Equal(t, 2, res.Hits)
	require.NotNil(t, res.Limit)
	assert.Equal(t, 2, *res.Limit)

	high := 10
	res = RollD6Pool(PoolSpec{Dice: 2, Limit: &high}, nil, ForcedRolls{Rolls: []int{5, 1}})
	assert.Equal(t, 1, res.Hits, "limit never increases hits")
}

func TestRollD6PoolRandom(t *testing.T) {
	res := RollD6Pool(PoolSpec{Dice: 12}, rng.New("pool"), nil)
	require.Len(t, res.Rolls, 12)
	hits := 0
	for _, r := range res.Rolls {
		assert.True(t, r >= 1 && r <= 6)
		if r >= 5 {
			hits++
		}
	}
	assert.Equal(t, hits, res.Hits)
}

func TestRollD6PoolIgnoresForcedTotal(t *testing.T) {
	res := RollD6Pool(PoolSpec{Dice: 3}, rng.New("fallback"), ForcedTotal{Total: 9})
	assert.Len(t, res.Rolls, 3)
	assert.False(t, res.Manual)
}

func TestSeededRollsRepeat(t *testing.T) {
	a := RollDice(Spec{Count: 8, Sides: 10}, rng.New("repeat"), nil)
	b := RollDice(Spec{Count: 8, Sides: 10}, rng.New("repeat"), nil)
	assert.Equal(t, a, b)
}

func TestCheckCount(t *testing.T) {
	assert.NoError(t, CheckCount(MaxDice))
	assert.NoError(t, CheckCount(0))
	assert.ErrorIs(t, CheckCount(MaxDice+1), ErrTooManyDice)
}

func TestOversizedCountsAreTruncated(t *testing.T) {
	src := rng.New("big")

	assert.NotPanics(t, func() {
		r := RollDice(Spec{Count: 1 << 50, Sides: 6}, src, nil)
		assert.Len(t, r.Rolls, MaxDice)
	})
	assert.NotPanics(t, func() {
		p := RollD6Pool(PoolSpec{Dice: 1 << 50}, src, nil)
		assert.Len(t, p.Rolls, MaxDice)
	})
}
