package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suderio/skirmish/internal/dice"
)

func TestResolveD20AttackForcedTotals(t *testing.T) {
	enc := CreateEncounter(EncounterOptions{Seed: "scenario"})
	AddCombatant(enc, CombatantSpec{ID: "a", Name: "A", HP: IntPtr(20), AC: IntPtr(15)})
	AddCombatant(enc, CombatantSpec{ID: "b", Name: "B", HP: IntPtr(20), AC: IntPtr(10)})

	res, err := ResolveD20Attack(enc, AttackRequest{
		AttackerID:     "a",
		TargetID:       "b",
		ToHitBonus:     10,
		Mode:           dice.ModeNormal,
		Damage:         dice.Spec{Count: 1, Sides: 8},
		ToHitOverride:  dice.ForcedTotal{Total: 25},
		DamageOverride: dice.ForcedTotal{Total: 7},
		AllowCrit:      true,
	})
	require.NoError(t, err)

	assert.True(t, res.Hit)
	assert.False(t, res.Crit)
	require.NotNil(t, res.Damage)
	assert.Equal(t, 7, res.Damage.Total)
	require.NotNil(t, res.TargetHP)
	assert.Equal(t, 13, *res.TargetHP)
	assert.Equal(t, 13, *enc.Lookup("b").HP)

	require.Len(t, enc.Log, 1)
	detail := res.Entry.Detail.(*AttackDetail)
	assert.Equal(t, 10, detail.ArmorClass)
	assert.Equal(t, 25, detail.ToHit.Total)
	assert.Equal(t, 13, *res.Entry.Snapshot.Combatants[1].HP)
}

func TestResolveD20AttackNaturalTwentyCrits(t *testing.T) {
	enc := newTestEncounter()
	enc.Lookup("goblin").AC = IntPtr(99)

	res, err := ResolveD20Attack(enc, AttackRequest{
		AttackerID:    "fighter",
		TargetID:      "goblin",
		Damage:        dice.Spec{Count: 2, Sides: 6, Bonus: 3},
		ToHitOverride: dice.ForcedRolls{Rolls: []int{20}},
		AllowCrit:     true,
	})
	require.NoError(t, err)

	assert.True(t, res.Hit, "natural 20 always hits")
	assert.True(t, res.Crit)
	require.NotNil(t, res.Damage)
	assert.Len(t, res.Damage.Rolls, 4, "crit doubles the dice count")
	assert.Equal(t, 3, res.Damage.Bonus, "crit does not double the bonus")
}

func TestResolveD20AttackNaturalTwentyWithoutCrit(t *testing.T) {
	enc := newTestEncounter()

	res, err := ResolveD20Attack(enc, AttackRequest{
		AttackerID:    "fighter",
		TargetID:      "goblin",
		Damage:        dice.Spec{Count: 2, Sides: 6},
		ToHitOverride: dice.ForcedRolls{Rolls: []int{20}},
		AllowCrit:     false,
	})
	require.NoError(t, err)

	assert.True(t, res.Hit)
	assert.False(t, res.Crit)
	assert.Len(t, res.Damage.Rolls, 2)
}

func TestResolveD20AttackNaturalOneMisses(t *testing.T) {
	enc := newTestEncounter()

	res, err := ResolveD20Attack(enc, AttackRequest{
		AttackerID:    "fighter",
		TargetID:      "goblin",
		ToHitBonus:    50,
		Damage:        dice.Spec{Count: 1, Sides: 8},
		ToHitOverride: dice.ForcedRolls{Rolls: []int{1}},
	})
	require.NoError(t, err)

	assert.False(t, res.Hit)
	assert.Nil(t, res.Damage)
	assert.Equal(t, 12, *enc.Lookup("goblin").HP)
	assert.Len(t, enc.Log, 1, "a miss is still logged")
}

func TestResolveD20AttackDisadvantageKeepsNaturalTwenty(t *testing.T) {
	enc := newTestEncounter()

	res, err := ResolveD20Attack(enc, AttackRequest{
		AttackerID:    "fighter",
		TargetID:      "goblin",
		Mode:          dice.ModeDisadvantage,
		Damage:        dice.Spec{Count: 1, Sides: 4},
		ToHitOverride: dice.ForcedRolls{Rolls: []int{20, 3}},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, res.ToHit.Picked)
	assert.True(t, res.Hit, "a natural 20 among the raw rolls hits")
}

func TestResolveD20AttackMeetsArmorClass(t *testing.T) {
	enc := newTestEncounter()

	res, err := ResolveD20Attack(enc, AttackRequest{
		AttackerID:     "goblin",
		TargetID:       "fighter",
		ToHitBonus:     4,
		Damage:         dice.Spec{Count: 1, Sides: 6},
		ToHitOverride:  dice.ForcedRolls{Rolls: []int{12}},
		DamageOverride: dice.ForcedRolls{Rolls: []int{5}},
	})
	require.NoError(t, err)
	assert.True(t, res.Hit, "16 meets AC 16")
	assert.Equal(t, 25, *enc.Lookup("fighter").HP)

	res, err = ResolveD20Attack(enc, AttackRequest{
		AttackerID:    "goblin",
		TargetID:      "fighter",
		ToHitBonus:    4,
		ToHitOverride: dice.ForcedRolls{Rolls: []int{11}},
	})
	require.NoError(t, err)
	assert.False(t, res.Hit)
}

func TestResolveD20AttackDefaultArmorClass(t *testing.T) {
	enc := newTestEncounter()

	res, err := ResolveD20Attack(enc, AttackRequest{
		AttackerID:    "fighter",
		TargetID:      "troll",
		ToHitOverride: dice.ForcedTotal{Total: 10},
		Damage:        dice.Spec{Count: 1, Sides: 6},
	})
	require.NoError(t, err)

	assert.True(t, res.Hit)
	assert.Equal(t, DefaultArmorClass, res.Entry.Detail.(*AttackDetail).ArmorClass)
	assert.Nil(t, res.TargetHP, "untracked hit points stay untracked")
	assert.Nil(t, enc.Lookup("troll").HP)
}

func TestResolveD20AttackFloorsHitPoints(t *testing.T) {
	enc := newTestEncounter()

	res, err := ResolveD20Attack(enc, AttackRequest{
		AttackerID:     "fighter",
		TargetID:       "goblin",
		ToHitOverride:  dice.ForcedTotal{Total: 30},
		DamageOverride: dice.ForcedTotal{Total: 40},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, *res.TargetHP)
}

func TestResolveD20AttackNotFound(t *testing.T) {
	enc := newTestEncounter()

	_, err := ResolveD20Attack(enc, AttackRequest{AttackerID: "fighter", TargetID: "dragon"})
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = ResolveD20Attack(enc, AttackRequest{AttackerID: "dragon", TargetID: "goblin"})
	assert.True(t, errors.Is(err, ErrNotFound))

	assert.Empty(t, enc.Log)
	assert.Equal(t, 12, *enc.Lookup("goblin").HP)
}

func TestResolveD20AttackDeterministic(t *testing.T) {
	req := AttackRequest{
		AttackerID: "fighter",
		TargetID:   "goblin",
		ToHitBonus: 5,
		Mode:       dice.ModeAdvantage,
		Damage:     dice.Spec{Count: 3, Sides: 6, Bonus: 2},
		AllowCrit:  true,
	}

	first, err := ResolveD20Attack(newTestEncounter(), req)
	require.NoError(t, err)
	second, err := ResolveD20Attack(newTestEncounter(), req)
	require.NoError(t, err)

	assert.Equal(t, first.ToHit, second.ToHit)
	assert.Equal(t, first.Hit, second.Hit)
	assert.Equal(t, first.Damage, second.Damage)
	assert.Equal(t, first.TargetHP, second.TargetHP)
}

func TestResolveD20AttackRestartsSeededStream(t *testing.T) {
	enc := newTestEncounter()
	enc.Lookup("goblin").HP = nil
	req := AttackRequest{AttackerID: "fighter", TargetID: "goblin", Damage: dice.Spec{Count: 1, Sides: 6}}

	first, err := ResolveD20Attack(enc, req)
	require.NoError(t, err)
	second, err := ResolveD20Attack(enc, req)
	require.NoError(t, err)

	assert.Equal(t, first.ToHit.Rolls, second.ToHit.Rolls)
}

func TestResolveD20AttackRejectsTooManyDice(t *testing.T) {
	enc := CreateEncounter(EncounterOptions{Seed: "huge"})
	AddCombatant(enc, CombatantSpec{ID: "a", Name: "A"})
	AddCombatant(enc, CombatantSpec{ID: "b", Name: "B", HP: IntPtr(20)})

	_, err := ResolveD20Attack(enc, AttackRequest{
		AttackerID:    "a",
		TargetID:      "b",
		Damage:        dice.Spec{Count: 1 << 50, Sides: 6},
		ToHitOverride: dice.ForcedRolls{Rolls: []int{15}},
	})
	assert.ErrorIs(t, err, dice.ErrTooManyDice)

	_, err = ResolveD20Attack(enc, AttackRequest{
		AttackerID:    "a",
		TargetID:      "b",
		Damage:        dice.Spec{Count: 600, Sides: 6},
		ToHitOverride: dice.ForcedRolls{Rolls: []int{20}},
		AllowCrit:     true,
	})
	assert.ErrorIs(t, err, dice.ErrTooManyDice, "the doubled crit count is checked too")

	assert.Equal(t, 20, *enc.Lookup("b").HP)
	assert.Empty(t, enc.Log)

	res, err := ResolveD20Attack(enc, AttackRequest{
		AttackerID:     "a",
		TargetID:       "b",
		Damage:         dice.Spec{Count: 600, Sides: 6},
		ToHitOverride:  dice.ForcedRolls{Rolls: []int{20}},
		DamageOverride: dice.ForcedTotal{Total: 4},
	})
	require.NoError(t, err)
	assert.False(t, res.Crit)
}

func TestResolveD20AttackResultIsDetached(t *testing.T) {
	enc := CreateEncounter(EncounterOptions{Seed: "detached"})
	AddCombatant(enc, CombatantSpec{ID: "a", Name: "A"})
	AddCombatant(enc, CombatantSpec{ID: "b", Name: "B", HP: IntPtr(20)})

	res, err := ResolveD20Attack(enc, AttackRequest{
		AttackerID:     "a",
		TargetID:       "b",
		Damage:         dice.Spec{Count: 2, Sides: 6},
		ToHitOverride:  dice.ForcedRolls{Rolls: []int{18}},
		DamageOverride: dice.ForcedRolls{Rolls: []int{3, 4}},
	})
	require.NoError(t, err)
	require.NotNil(t, res.Damage)

	res.Damage.Total = 99
	res.Damage.Rolls[0] = 99
	res.ToHit.Rolls[0] = 1

	detail := res.Entry.Detail.(*AttackDetail)
	assert.Equal(t, 7, detail.Damage.Total)
	assert.Equal(t, []int{3, 4}, detail.Damage.Rolls)
	assert.Equal(t, []int{18}, detail.ToHit.Rolls)
}
