// Package rollhistory keeps the most recent dice rolls. The history is
// append-only and bounded: once full, the oldest roll is evicted first.
package rollhistory

//go:generate mockgen -destination=mock/mock_repository.go -package=rollhistorymock github.com/KirkDiggler/rpg-sheet/internal/repositories/roll_history Repository

import (
	"context"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
)

// DefaultCapacity is the number of rolls kept per owner
const DefaultCapacity = 10

// DefaultOwner scopes rolls not tied to a character
const DefaultOwner = "table"

// Repository defines the interface for roll history storage
type Repository interface {
	// Append adds a roll, evicting the oldest beyond capacity
	Append(ctx context.Context, input AppendInput) (*AppendOutput, error)

	// List returns the kept rolls, oldest first
	List(ctx context.Context, input ListInput) (*ListOutput, error)

	// Clear empties the history
	Clear(ctx context.Context, input ClearInput) (*ClearOutput, error)
}

// AppendInput defines the input for appending a roll
type AppendInput struct {
	Owner string
	Roll  *dnd5e.DiceRoll
}

// AppendOutput defines the output for appending a roll
type AppendOutput struct {
	Size int
}

// ListInput defines the input for listing rolls
type ListInput struct {
	Owner string
}

// ListOutput defines the output for listing rolls
type ListOutput struct {
	Rolls []*dnd5e.DiceRoll
}

// ClearInput defines the input for clearing rolls
type ClearInput struct {
	Owner string
}

// ClearOutput defines the output for clearing rolls
type ClearOutput struct {
	Removed int
}

func ownerOrDefault(owner string) string {
	if owner == "" {
		return DefaultOwner
	}
	return owner
}
