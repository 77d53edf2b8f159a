// Package character defines the interface for character sheet operations
package character

//go:generate mockgen -destination=mock/mock_service.go -package=charactermock github.com/KirkDiggler/rpg-sheet/internal/services/character Service

import (
	"context"

	"github.com/KirkDiggler/rpg-sheet/internal/engine"
	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
)

// Service defines the interface for character operations
type Service interface {
	// Record lifecycle
	ImportCharacter(ctx context.Context, input *ImportCharacterInput) (*ImportCharacterOutput, error)
	GetCharacter(ctx context.Context, input *GetCharacterInput) (*GetCharacterOutput, error)
	ListCharacters(ctx context.Context, input *ListCharactersInput) (*ListCharactersOutput, error)
	DeleteCharacter(ctx context.Context, input *DeleteCharacterInput) (*DeleteCharacterOutput, error)

	// Leveling
	LevelUp(ctx context.Context, input *LevelUpInput) (*LevelUpOutput, error)
	LevelDown(ctx context.Context, input *LevelDownInput) (*LevelDownOutput, error)
	ResolveChoice(ctx context.Context, input *ResolveChoiceInput) (*ResolveChoiceOutput, error)

	// Resources
	SpendResource(ctx context.Context, input *SpendResourceInput) (*SpendResourceOutput, error)
	Rest(ctx context.Context, input *RestInput) (*RestOutput, error)
}

// ImportCharacterInput defines the request for importing an exported record.
// Data may come from any earlier schema version.
type ImportCharacterInput struct {
	Data          []byte
	SchemaVersion int
	// Overwrite replaces an existing record with the same id
	Overwrite bool
}

// ImportCharacterOutput defines the response for importing a record
type ImportCharacterOutput struct {
	Character *dnd5e.Character
	// Patched lists the fields defaulted while loading
	Patched []string
}

// GetCharacterInput defines the request for loading a character
type GetCharacterInput struct {
	CharacterID string
}

// GetCharacterOutput carries the loaded character with refreshed caches
type GetCharacterOutput struct {
	Character *dnd5e.Character
	Stats     *engine.DerivedStats
	Patched   []string
}

// ListCharactersInput defines the request for listing characters
type ListCharactersInput struct{}

// ListCharactersOutput defines the response for listing characters
type ListCharactersOutput struct {
	CharacterIDs []string
}

// DeleteCharacterInput defines the request for deleting a character
type DeleteCharacterInput struct {
	CharacterID string
}

// DeleteCharacterOutput defines the response for deleting a character
type DeleteCharacterOutput struct {
	Message string
}

// LevelUpInput defines the request for gaining a level
type LevelUpInput struct {
	CharacterID string
}

// LevelUpOutput carries the transition; a declined one was not persisted
type LevelUpOutput struct {
	Transition *engine.Transition
}

// LevelDownInput defines the request for losing a level
type LevelDownInput struct {
	CharacterID string
}

// LevelDownOutput carries the transition; a declined one was not persisted
type LevelDownOutput struct {
	Transition *engine.Transition
}

// ResolveChoiceInput defines the request for resolving a pending choice.
// Only the field matching the choice kind is read.
type ResolveChoiceInput struct {
	CharacterID string
	ChoiceID    string
	Increases   map[dnd5e.Ability]int
	Subclass    string
	Cantrips    []string
}

// ResolveChoiceOutput defines the response for resolving a choice
type ResolveChoiceOutput struct {
	Character *dnd5e.Character
	Choice    dnd5e.PendingChoice
}

// SpendResourceInput defines the request for spending resource uses
type SpendResourceInput struct {
	CharacterID string
	ResourceID  string
	Uses        int
}

// SpendResourceOutput carries the spend result; a declined spend was not persisted
type SpendResourceOutput struct {
	Result *engine.Result
}

// RestInput defines the request for taking a rest
type RestInput struct {
	CharacterID string
	Trigger     dnd5e.RechargeType
}

// RestOutput defines the response for taking a rest
type RestOutput struct {
	Rest *engine.RestResult
}
