package parser

import (
	"strings"

	"github.com/suderio/skirmish/internal/dice"
	"github.com/suderio/skirmish/internal/engine"
)

// Command represents one REPL line.
type Command struct {
	Attack *AttackCmd `parser:"( @@"`
	Save   *SaveCmd   `parser:"| @@"`
	Test   *TestCmd   `parser:"| @@"`
	Pool   *PoolCmd   `parser:"| @@"`
	Init   *InitCmd   `parser:"| @@"`
	Sort   *SortCmd   `parser:"| @@"`
	Next   *NextCmd   `parser:"| @@"`
	Rewind *RewindCmd `parser:"| @@"`
	Roll   *RollCmd   `parser:"| @@"`
	Cond   *CondCmd   `parser:"| @@ )"`
}

// Forced is a manual dice override: a bracketed list of die faces or a bare
// total.
type Forced struct {
	List  bool  `parser:"( @\"[\""`
	Rolls []int `parser:"  ( @Int ( \",\" @Int )* )? \"]\""`
	Total *int  `parser:"| @Int )"`
}

// Override converts the AST form to a dice override through
// dice.ParseOverride. A nil receiver means random.
func (f *Forced) Override() dice.Override {
	switch {
	case f == nil:
		return nil
	case f.List:
		return dice.ParseOverride(append([]int{}, f.Rolls...))
	case f.Total != nil:
		return dice.ParseOverride(*f.Total)
	}
	return nil
}

// TargetForced binds an override to one save target, e.g. `Orc=[12]`.
type TargetForced struct {
	Target string  `parser:"@(Ident|String|UUID) \"=\""`
	Value  *Forced `parser:"@@"`
}

// AttackCmd resolves a d20 attack.
//
//	attack by: A to: B bonus: 5 dice: 1d8+3 adv nocrit roll: 25 dmg: 7
type AttackCmd struct {
	Keyword string  `parser:"@\"attack\""`
	Actor   string  `parser:"\"by\" \":\" @(Ident|String|UUID)"`
	Target  string  `parser:"\"to\" \":\" @(Ident|String|UUID)"`
	Bonus   int     `parser:"( \"bonus\" \":\" @Int )?"`
	Dice    string  `parser:"( \"dice\" \":\" @DiceMacro )?"`
	Mode    string  `parser:"@(\"adv\"|\"dis\")?"`
	NoCrit  bool    `parser:"@\"nocrit\"?"`
	ToHit   *Forced `parser:"( \"roll\" \":\" @@ )?"`
	Damage  *Forced `parser:"( \"dmg\" \":\" @@ )?"`
}

// SaveCmd resolves a saving throw for one or more targets.
//
//	save by: A of: B and: C stat: dex dc: 15 dice: 8d6 half roll: B=10, C=[4] dmg: 20
type SaveCmd struct {
	Keyword string          `parser:"@\"save\""`
	Caster  string          `parser:"( \"by\" \":\" @(Ident|String|UUID) )?"`
	Targets []string        `parser:"\"of\" \":\" @(Ident|String|UUID) ( \"and\" \":\" @(Ident|String|UUID) )*"`
	Stat    string          `parser:"\"stat\" \":\" @Ident"`
	DC      int             `parser:"\"dc\" \":\" @Int"`
	Dice    string          `parser:"( \"dice\" \":\" @DiceMacro )?"`
	Policy  string          `parser:"@(\"half\"|\"none\")?"`
	Rolls   []*TargetForced `parser:"( \"roll\" \":\" @@ ( \",\" @@ )* )?"`
	Damage  *Forced         `parser:"( \"dmg\" \":\" @@ )?"`
}

// TestCmd resolves an opposed d6-pool test.
//
//	test by: A to: B attack: 8 limit: 4 defense: 6 damage: 5 stun soak: 3 roll: [6,5] defroll: [1]
type TestCmd struct {
	Keyword      string  `parser:"@\"test\""`
	Attacker     string  `parser:"\"by\" \":\" @(Ident|String|UUID)"`
	Defender     string  `parser:"\"to\" \":\" @(Ident|String|UUID)"`
	AttackDice   int     `parser:"\"attack\" \":\" @Int"`
	AttackLimit  *int    `parser:"( \"limit\" \":\" @Int )?"`
	DefenseDice  int     `parser:"\"defense\" \":\" @Int"`
	DefenseLimit *int    `parser:"( \"limit\" \":\" @Int )?"`
	BaseDamage   int     `parser:"( \"damage\" \":\" @Int )?"`
	Track        string  `parser:"@(\"stun\"|\"physical\")?"`
	Soak         bool    `parser:"( @\"soak\""`
	SoakDice     *int    `parser:"  ( \":\" @Int )? )?"`
	AttackRoll   *Forced `parser:"( \"roll\" \":\" @@ )?"`
	DefenseRoll  *Forced `parser:"( \"defroll\" \":\" @@ )?"`
	SoakRoll     *Forced `parser:"( \"soakroll\" \":\" @@ )?"`
}

// PoolCmd resolves an unopposed d6-pool test.
//
//	pool by: A dice: 6 limit: 4 need: 2 roll: [5,6,1]
type PoolCmd struct {
	Keyword   string  `parser:"@\"pool\""`
	Actor     string  `parser:"\"by\" \":\" @(Ident|String|UUID)"`
	Dice      int     `parser:"\"dice\" \":\" @Int"`
	Limit     *int    `parser:"( \"limit\" \":\" @Int )?"`
	Threshold int     `parser:"( \"need\" \":\" @Int )?"`
	Roll      *Forced `parser:"( \"roll\" \":\" @@ )?"`
}

// InitCmd sets an initiative score.
type InitCmd struct {
	Keyword string `parser:"@\"init\""`
	Actor   string `parser:"@(Ident|String|UUID)"`
	Value   int    `parser:"@Int"`
}

// SortCmd orders combatants by initiative.
type SortCmd struct {
	Keyword string `parser:"@\"sort\""`
}

// NextCmd advances the turn.
type NextCmd struct {
	Keyword string `parser:"@\"next\""`
}

// RewindCmd restores the state of an earlier log entry, named by id or by
// its 1-based position in the log.
type RewindCmd struct {
	Keyword string `parser:"@\"rewind\""`
	EntryID string `parser:"( @UUID"`
	Index   *int   `parser:"| @Int )"`
}

// RollCmd rolls dice outside any encounter mutation.
type RollCmd struct {
	Keyword string `parser:"@\"roll\""`
	Dice    string `parser:"@DiceMacro"`
	Mode    string `parser:"@(\"adv\"|\"dis\")?"`
}

// CondCmd adds (+) or removes (-) a condition tag.
type CondCmd struct {
	Keyword   string `parser:"@\"cond\""`
	Actor     string `parser:"@(Ident|String|UUID)"`
	Sign      string `parser:"@(\"+\"|\"-\")"`
	Condition string `parser:"@Ident"`
}

// Add reports whether the condition is being set.
func (c *CondCmd) Add() bool {
	return c.Sign == "+"
}

// DamageSpec parses the optional dice clause; an empty clause is no dice.
func DamageSpec(notation string) (dice.Spec, error) {
	if notation == "" {
		return dice.Spec{}, nil
	}
	return dice.ParseSpec(notation)
}

// SavePolicy maps the save keyword to an engine policy.
func (s *SaveCmd) SavePolicy() engine.SavePolicy {
	if strings.EqualFold(s.Policy, "none") {
		return engine.SaveNone
	}
	return engine.SaveHalf
}

// Overrides keys the per-target overrides by target reference.
func (s *SaveCmd) Overrides() map[string]dice.Override {
	out := make(map[string]dice.Override, len(s.Rolls))
	for _, r := range s.Rolls {
		out[r.Target] = r.Value.Override()
	}
	return out
}
