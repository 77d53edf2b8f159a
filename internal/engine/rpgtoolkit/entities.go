// Package rpgtoolkit bridges sheet characters onto rpg-toolkit's core and
// events packages so rules transitions can be observed on an event bus.
package rpgtoolkit

import (
	"github.com/KirkDiggler/rpg-toolkit/core"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
)

// EntityTypeCharacter is the rpg-toolkit entity type for sheet characters
const EntityTypeCharacter = "character"

// CharacterEntity wraps dnd5e.Character to implement core.Entity interface
type CharacterEntity struct {
	*dnd5e.Character
}

// GetID returns the character's ID
func (c *CharacterEntity) GetID() string {
	return c.ID
}

// GetType returns the entity type for rpg-toolkit
func (c *CharacterEntity) GetType() string {
	return EntityTypeCharacter
}

// WrapCharacter converts a dnd5e.Character to a CharacterEntity
func WrapCharacter(character *dnd5e.Character) *CharacterEntity {
	return &CharacterEntity{Character: character}
}

// Compile-time check that our entity wrapper implements core.Entity
var _ core.Entity = (*CharacterEntity)(nil)
