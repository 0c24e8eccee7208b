// Package session runs REPL lines against one encounter and persists the
// result after every mutation.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/suderio/skirmish/internal/dice"
	"github.com/suderio/skirmish/internal/engine"
	"github.com/suderio/skirmish/internal/parser"
	"github.com/suderio/skirmish/internal/rng"
)

// ErrNoCombatants is returned by turn commands on an empty encounter.
var ErrNoCombatants = errors.New("encounter has no combatants")

// Store is the persistence the session needs.
type Store interface {
	Save(ctx context.Context, enc *engine.Encounter) error
	Load(ctx context.Context, id string) (*engine.Encounter, error)
}

// Journal receives every entry the session produces.
type Journal interface {
	Append(entry *engine.LogEntry) error
	AppendRewind(entryID string) error
	Close() error
}

// Outcome is what one executed line produced. Entry is nil for commands
// that do not touch the log, such as roll.
type Outcome struct {
	Entry   *engine.LogEntry
	Message string
}

// Session owns one live encounter. Execute is safe for concurrent use.
type Session struct {
	mu      sync.Mutex
	enc     *engine.Encounter
	store   Store
	journal Journal
	logger  *slog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithJournal attaches an audit journal.
func WithJournal(j Journal) Option {
	return func(s *Session) { s.journal = j }
}

// WithLogger replaces the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// New wraps an already loaded encounter.
func New(enc *engine.Encounter, store Store, opts ...Option) *Session {
	s := &Session{enc: enc, store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("encounter", enc.ID)
	return s
}

// Open loads the encounter from the store.
func Open(ctx context.Context, store Store, id string, opts ...Option) (*Session, error) {
	enc, err := store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	return New(enc, store, opts...), nil
}

// Encounter returns a deep copy of the live encounter.
func (s *Session) Encounter() *engine.Encounter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return engine.Snapshot(s.enc)
}

// Close releases the journal.
func (s *Session) Close() error {
	if s.journal == nil {
		return nil
	}
	return s.journal.Close()
}

// Execute parses and runs one line. A mutation is saved before Execute
// returns; a failed save is reported as an error although the in-memory
// encounter has already changed.
func (s *Session) Execute(ctx context.Context, line string) (*Outcome, error) {
	cmd, err := parser.Parse(line)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.DebugContext(ctx, "executing command", "line", strings.TrimSpace(line))

	if cmd.Roll != nil {
		return s.roll(cmd.Roll)
	}
	if cmd.Rewind != nil {
		return s.rewind(ctx, cmd.Rewind)
	}

	entry, err := s.dispatch(cmd)
	if err != nil {
		s.logger.WarnContext(ctx, "command rejected", "err", err)
		return nil, err
	}
	if err := s.persist(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "entry recorded", "entry", entry.ID, "type", entry.Type)
	return &Outcome{Entry: entry, Message: entry.Message()}, nil
}

func (s *Session) dispatch(cmd *parser.Command) (*engine.LogEntry, error) {
	switch {
	case cmd.Attack != nil:
		return s.attack(cmd.Attack)
	case cmd.Save != nil:
		return s.save(cmd.Save)
	case cmd.Test != nil:
		return s.opposed(cmd.Test)
	case cmd.Pool != nil:
		res, err := engine.ResolveD6PoolTest(s.enc, engine.PoolTestRequest{
			ActorID:   cmd.Pool.Actor,
			Dice:      cmd.Pool.Dice,
			Limit:     cmd.Pool.Limit,
			Threshold: cmd.Pool.Threshold,
			Override:  cmd.Pool.Roll.Override(),
		})
		if err != nil {
			return nil, err
		}
		return res.Entry, nil
	case cmd.Init != nil:
		return engine.SetInitiative(s.enc, cmd.Init.Actor, cmd.Init.Value)
	case cmd.Sort != nil:
		return engine.SortInitiative(s.enc), nil
	case cmd.Next != nil:
		entry := engine.NextTurn(s.enc)
		if entry == nil {
			return nil, ErrNoCombatants
		}
		return entry, nil
	case cmd.Cond != nil:
		if cmd.Cond.Add() {
			return engine.AddCondition(s.enc, cmd.Cond.Actor, cmd.Cond.Condition)
		}
		return engine.RemoveCondition(s.enc, cmd.Cond.Actor, cmd.Cond.Condition)
	}
	return nil, fmt.Errorf("I wasn't able to understand your command")
}

func (s *Session) attack(c *parser.AttackCmd) (*engine.LogEntry, error) {
	spec, err := parser.DamageSpec(c.Dice)
	if err != nil {
		return nil, err
	}
	res, err := engine.ResolveD20Attack(s.enc, engine.AttackRequest{
		AttackerID:     c.Actor,
		TargetID:       c.Target,
		ToHitBonus:     c.Bonus,
		Mode:           dice.ParseMode(c.Mode),
		Damage:         spec,
		ToHitOverride:  c.ToHit.Override(),
		DamageOverride: c.Damage.Override(),
		AllowCrit:      !c.NoCrit,
	})
	if err != nil {
		return nil, err
	}
	return res.Entry, nil
}

func (s *Session) save(c *parser.SaveCmd) (*engine.LogEntry, error) {
	spec, err := parser.DamageSpec(c.Dice)
	if err != nil {
		return nil, err
	}
	res, err := engine.ResolveD20Save(s.enc, engine.SaveRequest{
		CasterID:       c.Caster,
		TargetIDs:      c.Targets,
		StatKey:        strings.ToLower(c.Stat),
		DC:             c.DC,
		Damage:         spec,
		OnSuccess:      c.SavePolicy(),
		SaveOverrides:  c.Overrides(),
		DamageOverride: c.Damage.Override(),
	})
	if err != nil {
		return nil, err
	}
	return res.Entry, nil
}

func (s *Session) opposed(c *parser.TestCmd) (*engine.LogEntry, error) {
	res, err := engine.ResolveOpposedD6Test(s.enc, engine.OpposedRequest{
		AttackerID:      c.Attacker,
		DefenderID:      c.Defender,
		AttackDice:      c.AttackDice,
		DefenseDice:     c.DefenseDice,
		AttackLimit:     c.AttackLimit,
		DefenseLimit:    c.DefenseLimit,
		BaseDamage:      c.BaseDamage,
		Track:           engine.ParseTrack(c.Track),
		ApplySoak:       c.Soak,
		SoakDice:        c.SoakDice,
		AttackOverride:  c.AttackRoll.Override(),
		DefenseOverride: c.DefenseRoll.Override(),
		SoakOverride:    c.SoakRoll.Override(),
	})
	if err != nil {
		return nil, err
	}
	return res.Entry, nil
}

func (s *Session) roll(c *parser.RollCmd) (*Outcome, error) {
	spec, err := dice.ParseSpec(c.Dice)
	if err != nil {
		return nil, err
	}
	src := rng.New("")
	if spec.Count == 1 && spec.Sides == 20 && c.Mode != "" {
		r := dice.RollD20(dice.D20Spec{Bonus: spec.Bonus, Mode: dice.ParseMode(c.Mode)}, src, nil)
		return &Outcome{Message: fmt.Sprintf("%s %s: %v -> %d", spec, r.Mode, r.Rolls, r.Total)}, nil
	}
	r := dice.RollDice(spec, src, nil)
	return &Outcome{Message: fmt.Sprintf("%s: %v -> %d", spec, r.Rolls, r.Total)}, nil
}

func (s *Session) rewind(ctx context.Context, c *parser.RewindCmd) (*Outcome, error) {
	entryID := c.EntryID
	if c.Index != nil {
		i := *c.Index
		if i < 1 || i > len(s.enc.Log) {
			return nil, &engine.LookupError{Kind: "log entry", Ref: fmt.Sprint(i)}
		}
		entryID = s.enc.Log[i-1].ID
	}

	if _, err := engine.RewindTo(s.enc, entryID); err != nil {
		s.logger.WarnContext(ctx, "rewind rejected", "err", err)
		return nil, err
	}
	if s.journal != nil {
		if err := s.journal.AppendRewind(entryID); err != nil {
			return nil, fmt.Errorf("journal rewind: %w", err)
		}
	}
	if err := s.store.Save(ctx, s.enc); err != nil {
		return nil, fmt.Errorf("save encounter: %w", err)
	}

	entry := s.enc.Log[len(s.enc.Log)-1]
	s.logger.InfoContext(ctx, "rewound", "entry", entryID, "remaining", len(s.enc.Log))
	return &Outcome{
		Entry:   entry,
		Message: fmt.Sprintf("rewound to #%d: %s", len(s.enc.Log), entry.Message()),
	}, nil
}

func (s *Session) persist(ctx context.Context, entry *engine.LogEntry) error {
	if s.journal != nil {
		if err := s.journal.Append(entry); err != nil {
			return fmt.Errorf("journal entry: %w", err)
		}
	}
	if err := s.store.Save(ctx, s.enc); err != nil {
		s.logger.ErrorContext(ctx, "save failed", "err", err)
		return fmt.Errorf("save encounter: %w", err)
	}
	return nil
}
