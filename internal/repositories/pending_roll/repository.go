// Package pendingroll stores the intent half of two-phase rolls until the
// physical dice report back or the roll expires
package pendingroll

import (
	"context"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=pendingrollmock github.com/KirkDiggler/rpg-sheet/internal/repositories/pending_roll Repository

// CreateInput contains parameters for storing a pending roll
type CreateInput struct {
	Roll *dnd5e.PendingRoll
}

// CreateOutput contains the stored pending roll
type CreateOutput struct {
	Roll *dnd5e.PendingRoll
}

// GetInput contains parameters for retrieving a pending roll
type GetInput struct {
	SessionID string
	ID        string
}

// GetOutput contains the retrieved pending roll
type GetOutput struct {
	Roll *dnd5e.PendingRoll
}

// DeleteInput contains parameters for deleting a pending roll
type DeleteInput struct {
	SessionID string
	ID        string
}

// DeleteOutput contains the result of deleting a pending roll
type DeleteOutput struct {
	Deleted bool
}

// Repository defines the interface for pending roll storage operations
type Repository interface {
	// Create stores a pending roll until its ExpiresAt
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves a pending roll; expired rolls are NotFound
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Delete removes a pending roll
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)
}
