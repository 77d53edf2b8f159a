package dice

import (
	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
)

// Mode selects how a d20 roll is made
type Mode string

// Roll modes
const (
	ModeNormal       Mode = ""
	ModeAdvantage    Mode = "advantage"
	ModeDisadvantage Mode = "disadvantage"
)

// RollInput defines the request for rolling dice. A notation makes it a
// free-form roll; otherwise a single d20 of Kind is rolled with Modifier.
type RollInput struct {
	Owner    string
	Kind     dnd5e.RollKind
	Label    string
	Modifier int
	Notation string
	Mode     Mode
}

// RollOutput defines the response for rolling dice
type RollOutput struct {
	Roll *dnd5e.DiceRoll
}

// HistoryInput defines the request for listing recent rolls
type HistoryInput struct {
	Owner string
}

// HistoryOutput lists recent rolls, oldest first
type HistoryOutput struct {
	Rolls []*dnd5e.DiceRoll
}

// ClearHistoryInput defines the request for clearing history
type ClearHistoryInput struct {
	Owner string
}

// ClearHistoryOutput defines the response for clearing history
type ClearHistoryOutput struct {
	Removed int
}

// BeginRollInput defines the request for starting a two-phase roll
type BeginRollInput struct {
	Owner    string
	Kind     dnd5e.RollKind
	Label    string
	Notation string
}

// BeginRollOutput carries the stored intent and its predicted rendering
type BeginRollOutput struct {
	Pending *dnd5e.PendingRoll
	Preview *dnd5e.DiceRoll
}

// ConfirmRollInput defines the request for resolving a pending roll. Nil
// Results accept the prediction.
type ConfirmRollInput struct {
	Owner   string
	ID      string
	Results []int
}

// ConfirmRollOutput defines the response for resolving a pending roll
type ConfirmRollOutput struct {
	Roll *dnd5e.DiceRoll
}
