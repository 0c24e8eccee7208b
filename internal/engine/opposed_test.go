package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suderio/skirmish/internal/dice"
)

func poolEncounter() *Encounter {
	enc := CreateEncounter(EncounterOptions{System: SystemD6Pool, Seed: "street"})
	AddCombatant(enc, CombatantSpec{ID: "samurai", Name: "Samurai"})
	AddCombatant(enc, CombatantSpec{ID: "ganger", Name: "Ganger", SoakDice: IntPtr(3)})
	return enc
}

func TestResolveOpposedD6TestScenario(t *testing.T) {
	enc := poolEncounter()

	res, err := ResolveOpposedD6Test(enc, OpposedRequest{
		AttackerID:      "samurai",
		DefenderID:      "ganger",
		AttackDice:      6,
		DefenseDice:     2,
		BaseDamage:      2,
		Track:           TrackPhysical,
		AttackOverride:  dice.ForcedRolls{Rolls: []int{6, 6, 6, 1, 1, 1}},
		DefenseOverride: dice.ForcedRolls{Rolls: []int{1, 1}},
	})
	require.NoError(t, err)

	assert.True(t, res.Hit)
	assert.Equal(t, 3, res.NetHits)
	assert.Equal(t, 5, res.Damage)
	assert.Nil(t, res.Soak)
	assert.Equal(t, 5, enc.Lookup("ganger").SR.PhysDmg)

	detail := res.Entry.Detail.(*OpposedDetail)
	assert.Equal(t, 5, detail.Tracks.Physical)
	assert.Equal(t, 10, detail.Tracks.PhysicalMax)
	assert.False(t, detail.Tracks.Incapacitated)
}

func TestResolveOpposedD6TestClampsToTrack(t *testing.T) {
	enc := poolEncounter()
	enc.Lookup("ganger").SR.PhysMax = 4

	res, err := ResolveOpposedD6Test(enc, OpposedRequest{
		AttackerID:      "samurai",
		DefenderID:      "ganger",
		BaseDamage:      2,
		AttackOverride:  dice.ForcedRolls{Rolls: []int{6, 6, 6}},
		DefenseOverride: dice.ForcedRolls{},
	})
	require.NoError(t, err)

	assert.Equal(t, 5, res.Damage)
	assert.Equal(t, 4, enc.Lookup("ganger").SR.PhysDmg)
	assert.True(t, res.Entry.Detail.(*OpposedDetail).Tracks.Incapacitated)
}

func TestResolveOpposedD6TestSoak(t *testing.T) {
	enc := poolEncounter()

	res, err := ResolveOpposedD6Test(enc, OpposedRequest{
		AttackerID:      "samurai",
		DefenderID:      "ganger",
		BaseDamage:      3,
		Track:           TrackStun,
		ApplySoak:       true,
		AttackOverride:  dice.ForcedRolls{Rolls: []int{5, 5}},
		DefenseOverride: dice.ForcedRolls{Rolls: []int{2}},
		SoakOverride:    dice.ForcedRolls{Rolls: []int{6, 5, 1}},
	})
	require.NoError(t, err)

	require.NotNil(t, res.Soak)
	assert.Equal(t, 2, res.Soak.Hits)
	assert.Equal(t, 3, res.Damage, "3 base + 2 net - 2 soaked")
	assert.Equal(t, 3, enc.Lookup("ganger").SR.StunDmg)
}

func TestResolveOpposedD6TestSoakUsesDefenderPool(t *testing.T) {
	enc := poolEncounter()

	res, err := ResolveOpposedD6Test(enc, OpposedRequest{
		AttackerID:      "samurai",
		DefenderID:      "ganger",
		BaseDamage:      4,
		ApplySoak:       true,
		AttackOverride:  dice.ForcedRolls{Rolls: []int{6}},
		DefenseOverride: dice.ForcedRolls{},
	})
	require.NoError(t, err)

	require.NotNil(t, res.Soak)
	assert.Len(t, res.Soak.Rolls, 3)

	override := 1
	res, err = ResolveOpposedD6Test(enc, OpposedRequest{
		AttackerID:      "samurai",
		DefenderID:      "ganger",
		ApplySoak:       true,
		SoakDice:        &override,
		AttackOverride:  dice.ForcedRolls{Rolls: []int{6}},
		DefenseOverride: dice.ForcedRolls{},
	})
	require.NoError(t, err)
	assert.Len(t, res.Soak.Rolls, 1)
}

func TestResolveOpposedD6TestSoakFloorsAtZero(t *testing.T) {
	enc := poolEncounter()

	res, err := ResolveOpposedD6Test(enc, OpposedRequest{
		AttackerID:      "samurai",
		DefenderID:      "ganger",
		ApplySoak:       true,
		AttackOverride:  dice.ForcedRolls{Rolls: []int{6}},
		DefenseOverride: dice.ForcedRolls{},
		SoakOverride:    dice.ForcedRolls{Rolls: []int{6, 6, 6}},
	})
	require.NoError(t, err)

	assert.True(t, res.Hit)
	assert.Equal(t, 0, res.Damage)
	assert.Equal(t, SR{StunMax: 10, PhysMax: 10, SoakDice: 3}, enc.Lookup("ganger").SR)
}

func TestResolveOpposedD6TestTieMisses(t *testing.T) {
	enc := poolEncounter()

	res, err := ResolveOpposedD6Test(enc, OpposedRequest{
		AttackerID:      "samurai",
		DefenderID:      "ganger",
		BaseDamage:      6,
		ApplySoak:       true,
		AttackOverride:  dice.ForcedRolls{Rolls: []int{5, 1}},
		DefenseOverride: dice.ForcedRolls{Rolls: []int{6, 6}},
	})
	require.NoError(t, err)

	assert.False(t, res.Hit)
	assert.Equal(t, 0, res.NetHits)
	assert.Equal(t, 0, res.Damage)
	assert.Nil(t, res.Soak, "no soak roll without a hit")
	assert.Len(t, enc.Log, 1)
}

func TestResolveOpposedD6TestLimits(t *testing.T) {
	enc := poolEncounter()
	limit := 1

	res, err := ResolveOpposedD6Test(enc, OpposedRequest{
		AttackerID:      "samurai",
		DefenderID:      "ganger",
		AttackLimit:     &limit,
		AttackOverride:  dice.ForcedRolls{Rolls: []int{6, 6, 6, 6}},
		DefenseOverride: dice.ForcedRolls{},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Attack.Hits)
	assert.Equal(t, 1, res.NetHits)
}

func TestResolveOpposedD6TestNotFound(t *testing.T) {
	enc := poolEncounter()

	_, err := ResolveOpposedD6Test(enc, OpposedRequest{AttackerID: "samurai", DefenderID: "drake"})

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Empty(t, enc.Log)
}

func TestResolveOpposedD6TestDeterministic(t *testing.T) {
	req := OpposedRequest{
		AttackerID:  "samurai",
		DefenderID:  "ganger",
		AttackDice:  10,
		DefenseDice: 6,
		BaseDamage:  3,
		ApplySoak:   true,
	}

	first, err := ResolveOpposedD6Test(poolEncounter(), req)
	require.NoError(t, err)
	second, err := ResolveOpposedD6Test(poolEncounter(), req)
	require.NoError(t, err)

	assert.Equal(t, first.Attack, second.Attack)
	assert.Equal(t, first.Defense, second.Defense)
	assert.Equal(t, first.Soak, second.Soak)
	assert.Equal(t, first.Damage, second.Damage)
}

func TestResolveD6PoolTest(t *testing.T) {
	enc := poolEncounter()

	res, err := ResolveD6PoolTest(enc, PoolTestRequest{
		ActorID:   "samurai",
		Dice:      4,
		Threshold: 2,
		Override:  dice.ForcedRolls{Rolls: []int{5, 6, 2, 1}},
	})
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, 2, res.Pool.Hits)
	assert.Equal(t, EntryD6PoolTest, res.Entry.Type)

	limit := 1
	res, err = ResolveD6PoolTest(enc, PoolTestRequest{
		ActorID:   "samurai",
		Limit:     &limit,
		Threshold: 2,
		Override:  dice.ForcedRolls{Rolls: []int{5, 6}},
	})
	require.NoError(t, err)
	assert.False(t, res.Success)

	_, err = ResolveD6PoolTest(enc, PoolTestRequest{ActorID: "nobody"})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestResolveD6TestsRejectTooManyDice(t *testing.T) {
	enc := poolEncounter()

	_, err := ResolveOpposedD6Test(enc, OpposedRequest{
		AttackerID:  "samurai",
		DefenderID:  "ganger",
		AttackDice:  1 << 50,
		DefenseDice: 1,
	})
	assert.ErrorIs(t, err, dice.ErrTooManyDice)

	_, err = ResolveOpposedD6Test(enc, OpposedRequest{
		AttackerID:  "samurai",
		DefenderID:  "ganger",
		AttackDice:  6,
		DefenseDice: 1,
		ApplySoak:   true,
		SoakDice:    IntPtr(dice.MaxDice + 1),
	})
	assert.ErrorIs(t, err, dice.ErrTooManyDice)

	_, err = ResolveD6PoolTest(enc, PoolTestRequest{ActorID: "samurai", Dice: dice.MaxDice + 1})
	assert.ErrorIs(t, err, dice.ErrTooManyDice)

	assert.Empty(t, enc.Log)
	assert.Zero(t, enc.Lookup("ganger").SR.PhysDmg)
}

func TestResolveOpposedD6TestResultIsDetached(t *testing.T) {
	enc := poolEncounter()

	res, err := ResolveOpposedD6Test(enc, OpposedRequest{
		AttackerID:      "samurai",
		DefenderID:      "ganger",
		AttackDice:      2,
		DefenseDice:     1,
		ApplySoak:       true,
		AttackOverride:  dice.ForcedRolls{Rolls: []int{6, 6}},
		DefenseOverride: dice.ForcedRolls{Rolls: []int{1}},
		SoakOverride:    dice.ForcedRolls{Rolls: []int{1, 1, 1}},
	})
	require.NoError(t, err)
	require.NotNil(t, res.Soak)

	res.Attack.Rolls[0] = 1
	res.Defense.Rolls[0] = 6
	res.Soak.Rolls[0] = 6
	res.Soak.Hits = 3

	detail := res.Entry.Detail.(*OpposedDetail)
	assert.Equal(t, []int{6, 6}, detail.Attack.Rolls)
	assert.Equal(t, []int{1}, detail.Defense.Rolls)
	assert.Equal(t, []int{1, 1, 1}, detail.Soak.Rolls)
	assert.Zero(t, detail.Soak.Hits)
}
