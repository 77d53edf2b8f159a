// Package builders provides test data builders for creating test fixtures
package builders

import (
	"time"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
)

// CharacterBuilder provides a fluent interface for building test Character instances
type CharacterBuilder struct {
	char   *dnd5e.Character
	hitDie int
}

// NewCharacterBuilder creates a new builder with minimal defaults
func NewCharacterBuilder() *CharacterBuilder {
	now := time.Now().Unix()
	return &CharacterBuilder{
		char: &dnd5e.Character{
			ID:               "char-test-123",
			Name:             "Test Character",
			Species:          "human",
			Class:            dnd5e.ClassFighter,
			Edition:          dnd5e.DefaultEdition,
			Level:            1,
			ProficiencyBonus: 2,
			AbilityScores: dnd5e.AbilityScores{
				Strength: 10, Dexterity: 10, Constitution: 10,
				Intelligence: 10, Wisdom: 10, Charisma: 10,
			},
			Speed:          30,
			Skills:         map[dnd5e.Skill]dnd5e.SkillEntry{},
			SavingThrows:   map[dnd5e.Ability]bool{},
			Inventory:      map[string]dnd5e.InventoryEntry{},
			Resources:      []dnd5e.ResourceTracker{},
			PendingChoices: []dnd5e.PendingChoice{},
			CreatedAt:      now,
			UpdatedAt:      now,
		},
		hitDie: 10,
	}
}

// WithID sets the character ID
func (b *CharacterBuilder) WithID(id string) *CharacterBuilder {
	b.char.ID = id
	return b
}

// WithName sets the character name
func (b *CharacterBuilder) WithName(name string) *CharacterBuilder {
	b.char.Name = name
	return b
}

// WithSpecies sets the species
func (b *CharacterBuilder) WithSpecies(species string) *CharacterBuilder {
	b.char.Species = species
	return b
}

// WithClass sets the class and its hit die
func (b *CharacterBuilder) WithClass(class dnd5e.Class, hitDie int) *CharacterBuilder {
	b.char.Class = class
	b.hitDie = hitDie
	return b
}

// WithLevel sets the level without applying any progression
func (b *CharacterBuilder) WithLevel(level int) *CharacterBuilder {
	b.char.Level = level
	return b
}

// WithAbilityScores sets all six scores in STR, DEX, CON, INT, WIS, CHA order
func (b *CharacterBuilder) WithAbilityScores(str, dex, con, intel, wis, cha int) *CharacterBuilder {
	b.char.AbilityScores = dnd5e.AbilityScores{
		Strength:     str,
		Dexterity:    dex,
		Constitution: con,
		Intelligence: intel,
		Wisdom:       wis,
		Charisma:     cha,
	}
	return b
}

// WithSkill marks a skill proficient, optionally with expertise
func (b *CharacterBuilder) WithSkill(skill dnd5e.Skill, expertise bool) *CharacterBuilder {
	b.char.Skills[skill] = dnd5e.SkillEntry{Proficient: true, Expertise: expertise}
	return b
}

// WithSavingThrow marks a saving throw proficient
func (b *CharacterBuilder) WithSavingThrow(ability dnd5e.Ability) *CharacterBuilder {
	b.char.SavingThrows[ability] = true
	return b
}

// WithArmor equips body armor by slug
func (b *CharacterBuilder) WithArmor(slug string) *CharacterBuilder {
	b.char.EquippedArmor = slug
	b.char.Inventory[slug] = dnd5e.InventoryEntry{Quantity: 1, Equipped: true}
	return b
}

// WithWeapons fills the weapon slots
func (b *CharacterBuilder) WithWeapons(slugs ...string) *CharacterBuilder {
	b.char.EquippedWeapons = slugs
	for _, slug := range slugs {
		b.char.Inventory[slug] = dnd5e.InventoryEntry{Quantity: 1, Equipped: true}
	}
	return b
}

// WithSpellcasting adds a spellcasting block
func (b *CharacterBuilder) WithSpellcasting(ability dnd5e.Ability, cantrips []string, slots []int) *CharacterBuilder {
	b.char.Spellcasting = &dnd5e.Spellcasting{
		Ability:   ability,
		Cantrips:  cantrips,
		Spells:    []string{},
		Slots:     slots,
		UsedSlots: make([]int, len(slots)),
	}
	return b
}

// WithResources sets the resource trackers
func (b *CharacterBuilder) WithResources(resources ...dnd5e.ResourceTracker) *CharacterBuilder {
	b.char.Resources = resources
	return b
}

// Build returns the character. Hit points and hit dice default to the
// level 1 maximum when not already set.
func (b *CharacterBuilder) Build() *dnd5e.Character {
	char := b.char.Clone()
	if char.HitPoints.Max == 0 {
		hp := b.hitDie + dnd5e.Modifier(char.AbilityScores.Constitution)
		if hp < 1 {
			hp = 1
		}
		char.HitPoints = dnd5e.HitPoints{Current: hp, Max: hp}
	}
	if char.HitDice.Max == 0 {
		char.HitDice = dnd5e.HitDice{Current: char.Level, Max: char.Level, Die: b.hitDie}
	}
	return char
}
