package testutils

import (
	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-sheet/internal/testutils/builders"
)

// TestCharacterName is the default character name for test fixtures
const TestCharacterName = "Thorin Oakenshield"

// CreateTestCharacter creates a level 1 fighter with standard-array scores
func CreateTestCharacter(id string) *dnd5e.Character {
	return builders.NewCharacterBuilder().
		WithID(id).
		WithName(TestCharacterName).
		WithClass(dnd5e.ClassFighter, 10).
		WithAbilityScores(15, 14, 13, 12, 10, 8).
		Build()
}

// CreateTestWizard creates a level 1 wizard with a spellcasting block
func CreateTestWizard(id string) *dnd5e.Character {
	return builders.NewCharacterBuilder().
		WithID(id).
		WithName("Elminster").
		WithClass(dnd5e.ClassWizard, 6).
		WithAbilityScores(8, 14, 14, 16, 12, 10).
		WithSpellcasting(dnd5e.AbilityIntelligence, []string{"fire-bolt", "light", "mage-hand"}, []int{2}).
		Build()
}

// LegacyCharacterJSON is a record written before editions, species, resources
// and hit dice existed
const LegacyCharacterJSON = `{"id":"char-legacy","name":"Old Timer","race":"dwarf","class":"cleric","level":3,` +
	`"abilityScores":{"str":14,"dex":10,"con":14,"int":10,"wis":16,"cha":12},` +
	`"hitPoints":{"current":20,"max":24,"temporary":0},` +
	`"spellcasting":{"ability":"wis","cantrips":["guidance"],"spells":["bless"],"slots":[4,2]}}`
