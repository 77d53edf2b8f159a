package dice

import (
	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
)

// Begin starts a two-phase roll. The pending value carries predicted results
// for display until the physical dice settle.
func (e *Engine) Begin(kind dnd5e.RollKind, label, notation string) (*dnd5e.PendingRoll, error) {
	expr, err := Parse(notation)
	if err != nil {
		return nil, err
	}
	if kind == "" {
		kind = dnd5e.RollKindCustom
	}

	predicted, err := e.roll(expr.Count, expr.Sides)
	if err != nil {
		return nil, err
	}

	now := e.clock.Now()
	pending := &dnd5e.PendingRoll{
		ID:        e.idGen.Generate(),
		Kind:      kind,
		Label:     label,
		Notation:  expr.String(),
		Modifier:  expr.Modifier,
		Predicted: predicted,
		CreatedAt: now,
		ExpiresAt: now.Add(e.pendingTTL),
	}
	if expr.Keep != KeepAll {
		pending.Mode = poolMode(expr)
	}

	return pending, nil
}

// Resolve confirms a pending roll with authoritative die values. The pending
// value is left untouched; the resolved roll keeps its id. Passing nil
// results accepts the prediction.
func (e *Engine) Resolve(pending *dnd5e.PendingRoll, results []int) (*dnd5e.DiceRoll, error) {
	if pending == nil {
		return nil, errors.InvalidArgument("pending roll is required")
	}

	now := e.clock.Now()
	if now.After(pending.ExpiresAt) {
		return nil, errors.FailedPreconditionf("pending roll %s expired at %s", pending.ID, pending.ExpiresAt.Format("15:04:05"))
	}

	expr, err := Parse(pending.Notation)
	if err != nil {
		return nil, err
	}

	if results == nil {
		results = pending.Predicted
	}

	return Evaluate(expr, append([]int(nil), results...), Meta{
		ID:        pending.ID,
		Kind:      pending.Kind,
		Label:     pending.Label,
		Timestamp: now,
		Status:    dnd5e.RollStatusResolved,
	})
}

// Preview renders a pending roll as a DiceRoll in the pending state
func Preview(pending *dnd5e.PendingRoll) (*dnd5e.DiceRoll, error) {
	expr, err := Parse(pending.Notation)
	if err != nil {
		return nil, err
	}
	return Evaluate(expr, append([]int(nil), pending.Predicted...), Meta{
		ID:        pending.ID,
		Kind:      pending.Kind,
		Label:     pending.Label,
		Timestamp: pending.CreatedAt,
		Status:    dnd5e.RollStatusPending,
	})
}
