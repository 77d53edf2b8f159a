// Package dice implements the dice orchestrator: rolls through the roll
// engine, bounded history and two-phase rolls for physical dice
package dice

//go:generate mockgen -destination=mock/mock_service.go -package=dicemock github.com/KirkDiggler/rpg-sheet/internal/orchestrators/dice Service

import (
	"context"
	"log/slog"

	dice "github.com/KirkDiggler/rpg-sheet/internal/dice"
	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/metrics"
	pendingroll "github.com/KirkDiggler/rpg-sheet/internal/repositories/pending_roll"
	rollhistory "github.com/KirkDiggler/rpg-sheet/internal/repositories/roll_history"
)

// Service defines the interface for dice operations
type Service interface {
	Roll(ctx context.Context, input *RollInput) (*RollOutput, error)
	History(ctx context.Context, input *HistoryInput) (*HistoryOutput, error)
	ClearHistory(ctx context.Context, input *ClearHistoryInput) (*ClearHistoryOutput, error)

	// Two-phase rolls
	BeginRoll(ctx context.Context, input *BeginRollInput) (*BeginRollOutput, error)
	ConfirmRoll(ctx context.Context, input *ConfirmRollInput) (*ConfirmRollOutput, error)
}

// Config holds the dependencies for the dice orchestrator
type Config struct {
	Engine      *dice.Engine
	HistoryRepo rollhistory.Repository
	PendingRepo pendingroll.Repository
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Engine == nil {
		vb.RequiredField("Engine")
	}
	if c.HistoryRepo == nil {
		vb.RequiredField("HistoryRepo")
	}
	if c.PendingRepo == nil {
		vb.RequiredField("PendingRepo")
	}

	return vb.Build()
}

type orchestrator struct {
	engine      *dice.Engine
	historyRepo rollhistory.Repository
	pendingRepo pendingroll.Repository
}

// NewOrchestrator creates a new dice orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		engine:      cfg.Engine,
		historyRepo: cfg.HistoryRepo,
		pendingRepo: cfg.PendingRepo,
	}, nil
}

// Roll makes one roll and appends it to the owner's history
func (o *orchestrator) Roll(ctx context.Context, input *RollInput) (*RollOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	roll, err := o.makeRoll(input)
	if err != nil {
		return nil, err
	}

	if err := o.record(ctx, input.Owner, roll); err != nil {
		return nil, err
	}

	return &RollOutput{Roll: roll}, nil
}

func (o *orchestrator) makeRoll(input *RollInput) (*dnd5e.DiceRoll, error) {
	if input.Notation != "" {
		if input.Mode != ModeNormal {
			return nil, errors.InvalidArgument("advantage and disadvantage apply to d20 rolls, use kh/kl notation instead")
		}
		return o.engine.RollNotation(input.Kind, input.Label, input.Notation)
	}

	switch input.Mode {
	case ModeAdvantage:
		if !isD20Kind(input.Kind) {
			return nil, errors.InvalidArgumentf("%q rolls need a notation", input.Kind)
		}
		return o.engine.RollAdvantage(input.Kind, input.Label, input.Modifier)
	case ModeDisadvantage:
		if !isD20Kind(input.Kind) {
			return nil, errors.InvalidArgumentf("%q rolls need a notation", input.Kind)
		}
		return o.engine.RollDisadvantage(input.Kind, input.Label, input.Modifier)
	case ModeNormal:
	default:
		return nil, errors.InvalidArgumentf("unknown roll mode %q", input.Mode)
	}

	switch input.Kind {
	case dnd5e.RollKindAbility:
		return o.engine.RollAbility(input.Label, input.Modifier)
	case dnd5e.RollKindSkill:
		return o.engine.RollSkill(input.Label, input.Modifier)
	case dnd5e.RollKindInitiative:
		return o.engine.RollInitiative(input.Label, input.Modifier)
	case dnd5e.RollKindSavingThrow:
		return o.engine.RollSavingThrow(input.Label, input.Modifier)
	case dnd5e.RollKindAttack:
		return o.engine.RollAttack(input.Label, input.Modifier)
	default:
		return nil, errors.InvalidArgumentf("%q rolls need a notation", input.Kind)
	}
}

func isD20Kind(kind dnd5e.RollKind) bool {
	switch kind {
	case dnd5e.RollKindAbility, dnd5e.RollKindSkill, dnd5e.RollKindInitiative,
		dnd5e.RollKindSavingThrow, dnd5e.RollKindAttack:
		return true
	default:
		return false
	}
}

// record appends to history and counts the roll
func (o *orchestrator) record(ctx context.Context, owner string, roll *dnd5e.DiceRoll) error {
	if _, err := o.historyRepo.Append(ctx, rollhistory.AppendInput{Owner: owner, Roll: roll}); err != nil {
		return errors.Wrap(err, "failed to record roll")
	}

	metrics.RollsTotal.WithLabelValues(string(roll.Kind)).Inc()
	if roll.Critical != "" {
		metrics.CriticalRollsTotal.WithLabelValues(string(roll.Critical)).Inc()
	}

	slog.DebugContext(ctx, "Rolled dice",
		"roll_id", roll.ID,
		"kind", roll.Kind,
		"notation", roll.Notation,
		"dice", roll.DiceResults,
		"total", roll.Total,
		"critical", roll.Critical)
	return nil
}

func (o *orchestrator) History(ctx context.Context, input *HistoryInput) (*HistoryOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	out, err := o.historyRepo.List(ctx, rollhistory.ListInput{Owner: input.Owner})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list rolls")
	}
	return &HistoryOutput{Rolls: out.Rolls}, nil
}

func (o *orchestrator) ClearHistory(ctx context.Context, input *ClearHistoryInput) (*ClearHistoryOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	out, err := o.historyRepo.Clear(ctx, rollhistory.ClearInput{Owner: input.Owner})
	if err != nil {
		return nil, errors.Wrap(err, "failed to clear rolls")
	}
	return &ClearHistoryOutput{Removed: out.Removed}, nil
}

// BeginRoll stores the intent of a physical roll and renders its prediction.
// Nothing reaches history until the roll is confirmed.
func (o *orchestrator) BeginRoll(ctx context.Context, input *BeginRollInput) (*BeginRollOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	pending, err := o.engine.Begin(input.Kind, input.Label, input.Notation)
	if err != nil {
		return nil, err
	}
	pending.SessionID = input.Owner

	stored, err := o.pendingRepo.Create(ctx, pendingroll.CreateInput{Roll: pending})
	if err != nil {
		return nil, errors.Wrap(err, "failed to store pending roll")
	}

	preview, err := dice.Preview(stored.Roll)
	if err != nil {
		return nil, err
	}

	return &BeginRollOutput{Pending: stored.Roll, Preview: preview}, nil
}

// ConfirmRoll resolves a pending roll with the physical results, records it
// and discards the intent
func (o *orchestrator) ConfirmRoll(ctx context.Context, input *ConfirmRollInput) (*ConfirmRollOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.ID == "" {
		return nil, errors.InvalidArgument("roll ID is required")
	}

	got, err := o.pendingRepo.Get(ctx, pendingroll.GetInput{SessionID: input.Owner, ID: input.ID})
	if err != nil {
		return nil, err
	}

	roll, err := o.engine.Resolve(got.Roll, input.Results)
	if err != nil {
		return nil, err
	}

	if err := o.record(ctx, input.Owner, roll); err != nil {
		return nil, err
	}

	if _, err := o.pendingRepo.Delete(ctx, pendingroll.DeleteInput{SessionID: input.Owner, ID: input.ID}); err != nil {
		slog.WarnContext(ctx, "Failed to discard resolved pending roll",
			"roll_id", input.ID,
			"error", err.Error())
	}

	return &ConfirmRollOutput{Roll: roll}, nil
}
