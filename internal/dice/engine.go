// Package dice is the roll engine: d20 checks with critical detection,
// advantage and disadvantage, free-form notation, and two-phase rolls for
// physical dice. It owns no history; callers persist what it returns.
package dice

import (
	"sort"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-sheet/internal/pkg/idgen"
)

// D20 is the die used for checks, saves and attacks
const D20 = 20

// DefaultPendingTTL bounds how long a pending roll waits for physical results
const DefaultPendingTTL = 5 * time.Minute

// Config holds the engine's dependencies
type Config struct {
	Roller      dice.Roller
	IDGenerator idgen.Generator
	Clock       clock.Clock
	PendingTTL  time.Duration
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Roller == nil {
		vb.RequiredField("Roller")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	if c.PendingTTL < 0 {
		vb.InvalidField("PendingTTL", "must not be negative")
	}

	return vb.Build()
}

// Engine produces DiceRoll values
type Engine struct {
	roller     dice.Roller
	idGen      idgen.Generator
	clock      clock.Clock
	pendingTTL time.Duration
}

// New creates a roll engine
func New(cfg *Config) (*Engine, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	ttl := cfg.PendingTTL
	if ttl == 0 {
		ttl = DefaultPendingTTL
	}

	return &Engine{
		roller:     cfg.Roller,
		idGen:      cfg.IDGenerator,
		clock:      cfg.Clock,
		pendingTTL: ttl,
	}, nil
}

// RollAbility rolls an ability check
func (e *Engine) RollAbility(label string, modifier int) (*dnd5e.DiceRoll, error) {
	return e.rollD20(dnd5e.RollKindAbility, label, modifier)
}

// RollSkill rolls a skill check
func (e *Engine) RollSkill(label string, modifier int) (*dnd5e.DiceRoll, error) {
	return e.rollD20(dnd5e.RollKindSkill, label, modifier)
}

// RollInitiative rolls initiative
func (e *Engine) RollInitiative(label string, modifier int) (*dnd5e.DiceRoll, error) {
	return e.rollD20(dnd5e.RollKindInitiative, label, modifier)
}

// RollSavingThrow rolls a saving throw
func (e *Engine) RollSavingThrow(label string, modifier int) (*dnd5e.DiceRoll, error) {
	return e.rollD20(dnd5e.RollKindSavingThrow, label, modifier)
}

// RollAttack rolls an attack
func (e *Engine) RollAttack(label string, modifier int) (*dnd5e.DiceRoll, error) {
	return e.rollD20(dnd5e.RollKindAttack, label, modifier)
}

// RollAdvantage rolls two d20 and keeps the higher
func (e *Engine) RollAdvantage(kind dnd5e.RollKind, label string, modifier int) (*dnd5e.DiceRoll, error) {
	return e.rollPair(kind, label, modifier, KeepHighest)
}

// RollDisadvantage rolls two d20 and keeps the lower
func (e *Engine) RollDisadvantage(kind dnd5e.RollKind, label string, modifier int) (*dnd5e.DiceRoll, error) {
	return e.rollPair(kind, label, modifier, KeepLowest)
}

// RollNotation rolls free-form notation such as "2d6+3" or "4d6kh3"
func (e *Engine) RollNotation(kind dnd5e.RollKind, label, notation string) (*dnd5e.DiceRoll, error) {
	expr, err := Parse(notation)
	if err != nil {
		return nil, err
	}
	if kind == "" {
		kind = dnd5e.RollKindCustom
	}

	rolled, err := e.roll(expr.Count, expr.Sides)
	if err != nil {
		return nil, err
	}

	return Evaluate(expr, rolled, Meta{
		ID:        e.idGen.Generate(),
		Kind:      kind,
		Label:     label,
		Timestamp: e.clock.Now(),
	})
}

func (e *Engine) rollD20(kind dnd5e.RollKind, label string, modifier int) (*dnd5e.DiceRoll, error) {
	expr := Expression{Count: 1, Sides: D20, Modifier: modifier}
	if err := expr.validate(); err != nil {
		return nil, err
	}

	rolled, err := e.roll(1, D20)
	if err != nil {
		return nil, err
	}

	return Evaluate(expr, rolled, Meta{
		ID:        e.idGen.Generate(),
		Kind:      kind,
		Label:     label,
		Timestamp: e.clock.Now(),
	})
}

func (e *Engine) rollPair(kind dnd5e.RollKind, label string, modifier int, keep KeepMode) (*dnd5e.DiceRoll, error) {
	expr := Expression{Count: 2, Sides: D20, Keep: keep, KeepCount: 1, Modifier: modifier}
	if err := expr.validate(); err != nil {
		return nil, err
	}

	rolled, err := e.roll(2, D20)
	if err != nil {
		return nil, err
	}

	return Evaluate(expr, rolled, Meta{
		ID:        e.idGen.Generate(),
		Kind:      kind,
		Label:     label,
		Timestamp: e.clock.Now(),
	})
}

func (e *Engine) roll(count, sides int) ([]int, error) {
	rolled, err := e.roller.RollN(count, sides)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to roll %dd%d", count, sides)
	}
	if len(rolled) != count {
		return nil, errors.Internalf("roller returned %d dice, expected %d", len(rolled), count)
	}
	return rolled, nil
}

// Meta is the identity stamped on an evaluated roll
type Meta struct {
	ID        string
	Kind      dnd5e.RollKind
	Label     string
	Timestamp time.Time
	Status    dnd5e.RollStatus
}

// Evaluate turns raw dice into a DiceRoll. Raw values must match the
// expression's count and lie in [1, sides].
func Evaluate(expr Expression, rolled []int, meta Meta) (*dnd5e.DiceRoll, error) {
	if len(rolled) != expr.Count {
		return nil, errors.InvalidArgumentf("expected %d dice for %s, got %d", expr.Count, expr.String(), len(rolled))
	}
	for _, v := range rolled {
		if v < 1 || v > expr.Sides {
			return nil, errors.InvalidArgumentf("die value %d out of range for d%d", v, expr.Sides)
		}
	}

	kept, dropped := selectKept(rolled, expr.Keep, expr.Kept())

	total := expr.Modifier
	for _, v := range kept {
		total += v
	}

	status := meta.Status
	if status == "" {
		status = dnd5e.RollStatusResolved
	}

	roll := &dnd5e.DiceRoll{
		ID:          meta.ID,
		Kind:        meta.Kind,
		Label:       meta.Label,
		Notation:    expr.String(),
		DiceResults: kept,
		Modifier:    expr.Modifier,
		Total:       total,
		Critical:    DetectCritical(meta.Kind, expr, kept),
		Timestamp:   meta.Timestamp,
		Status:      status,
	}

	if expr.Keep != KeepAll {
		roll.Pool = &dnd5e.RollPool{
			Mode:    poolMode(expr),
			Rolled:  append([]int(nil), rolled...),
			Dropped: dropped,
		}
	}

	return roll, nil
}

// DetectCritical tags a natural 20 or natural 1. Only a roll whose kept dice
// are exactly one d20 qualifies, and damage never does.
func DetectCritical(kind dnd5e.RollKind, expr Expression, kept []int) dnd5e.Critical {
	if kind == dnd5e.RollKindDamage || expr.Sides != D20 || len(kept) != 1 {
		return ""
	}
	switch kept[0] {
	case D20:
		return dnd5e.CriticalSuccess
	case 1:
		return dnd5e.CriticalFailure
	default:
		return ""
	}
}

func poolMode(expr Expression) dnd5e.PoolMode {
	isPair := expr.Count == 2 && expr.KeepCount == 1 && expr.Sides == D20
	switch {
	case expr.Keep == KeepHighest && isPair:
		return dnd5e.PoolAdvantage
	case expr.Keep == KeepLowest && isPair:
		return dnd5e.PoolDisadvantage
	case expr.Keep == KeepHighest:
		return dnd5e.PoolKeepHighest
	default:
		return dnd5e.PoolKeepLowest
	}
}

// selectKept splits rolled into kept and dropped dice, each in roll order.
// Ties keep the earlier die.
func selectKept(rolled []int, keep KeepMode, count int) (kept, dropped []int) {
	if keep == KeepAll || count >= len(rolled) {
		return append([]int(nil), rolled...), []int{}
	}

	order := make([]int, len(rolled))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		if keep == KeepHighest {
			return rolled[order[a]] > rolled[order[b]]
		}
		return rolled[order[a]] < rolled[order[b]]
	})

	keepIdx := make(map[int]bool, count)
	for _, idx := range order[:count] {
		keepIdx[idx] = true
	}

	kept = make([]int, 0, count)
	dropped = make([]int, 0, len(rolled)-count)
	for i, v := range rolled {
		if keepIdx[i] {
			kept = append(kept, v)
		} else {
			dropped = append(dropped, v)
		}
	}
	return kept, dropped
}
