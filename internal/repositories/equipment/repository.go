// Package equipment persists equipment catalog entries imported from the
// reference API. Stored entries extend or override the embedded catalog.
package equipment

//go:generate mockgen -destination=mock/mock_repository.go -package=equipmentmock github.com/KirkDiggler/rpg-sheet/internal/repositories/equipment Repository

import (
	"context"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
)

// Repository defines the interface for imported equipment persistence
type Repository interface {
	// Get retrieves one entry by slug
	// Returns errors.InvalidArgument for empty slugs
	// Returns errors.NotFound if the slug was never imported
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// List returns every stored entry sorted by slug
	List(ctx context.Context, input ListInput) (*ListOutput, error)

	// Update stores entries, replacing any with the same slug
	// Returns errors.InvalidArgument for entries without a slug
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)

	// Delete removes one entry
	// Returns errors.NotFound if the slug was never imported
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)
}

// GetInput defines the input for getting an entry
type GetInput struct {
	Slug string
}

// GetOutput defines the output for getting an entry
type GetOutput struct {
	Entry *dnd5e.EquipmentCatalogEntry
}

// ListInput defines the input for listing entries
type ListInput struct{}

// ListOutput defines the output for listing entries
type ListOutput struct {
	Entries []*dnd5e.EquipmentCatalogEntry
}

// UpdateInput defines the input for storing entries
type UpdateInput struct {
	Entries []*dnd5e.EquipmentCatalogEntry
}

// UpdateOutput defines the output for storing entries
type UpdateOutput struct {
	Stored int
}

// DeleteInput defines the input for deleting an entry
type DeleteInput struct {
	Slug string
}

// DeleteOutput defines the output for deleting an entry
type DeleteOutput struct{}
