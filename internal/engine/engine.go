// Package engine is the character rules engine: derived stats, armor class,
// leveling, limited-use resources and rests. Every operation takes a
// character and returns a new one; the input is never mutated.
package engine

import (
	"log/slog"

	"github.com/KirkDiggler/rpg-sheet/internal/catalog"
	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
)

// Engine provides the catalog-backed rules
type Engine interface {
	// Derived numbers
	ComputeCharacterStats(char *dnd5e.Character) (*dnd5e.Character, error)

	// Leveling
	LevelUp(char *dnd5e.Character) (*Transition, error)
	LevelDown(char *dnd5e.Character) (*Transition, error)

	// Pending choice resolution
	ApplyAbilityScoreImprovement(char *dnd5e.Character, choiceID string, increases map[dnd5e.Ability]int) (*dnd5e.Character, error)
	SelectSubclass(char *dnd5e.Character, choiceID, subclass string) (*dnd5e.Character, error)
	LearnCantrips(char *dnd5e.Character, choiceID string, cantrips []string) (*dnd5e.Character, error)

	// Resources
	ExpectedResources(class dnd5e.Class, level int, scores dnd5e.AbilityScores) ([]dnd5e.ResourceTracker, error)
	RefreshResources(char *dnd5e.Character) ([]dnd5e.ResourceTracker, error)
	SpendResource(char *dnd5e.Character, resourceID string, uses int) (*Result, error)
	RechargeResources(char *dnd5e.Character, trigger dnd5e.RechargeType) (*dnd5e.Character, error)
	ApplyRest(char *dnd5e.Character, trigger dnd5e.RechargeType) (*RestResult, error)
}

// Outcome reports whether a boundary-checked mutation took effect
type Outcome struct {
	Applied bool
	Reason  string
}

// Declined builds a not-applied outcome
func Declined(reason string) Outcome {
	return Outcome{Applied: false, Reason: reason}
}

// Result is a character plus the outcome that produced it
type Result struct {
	Character *dnd5e.Character
	Outcome
}

// Transition is the result of a level change
type Transition struct {
	Result
	FromLevel     int
	ToLevel       int
	HitPointDelta int
	// NewChoices were surfaced by a level up; DroppedChoices were abandoned by a level down
	NewChoices     []dnd5e.PendingChoice
	DroppedChoices []dnd5e.PendingChoice
}

// RestResult is the result of a short or long rest
type RestResult struct {
	Character        *dnd5e.Character
	Trigger          dnd5e.RechargeType
	Recharged        []string
	HitPointsHealed  int
	HitDiceRecovered int
}

// Config holds the engine's dependencies
type Config struct {
	Catalog *catalog.Catalog
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Catalog == nil {
		vb.RequiredField("Catalog")
	}

	return vb.Build()
}

type rulesEngine struct {
	catalog *catalog.Catalog
}

// New creates a rules engine over a catalog
func New(cfg *Config) (Engine, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &rulesEngine{catalog: cfg.Catalog}, nil
}

// ComputeCharacterStats refreshes every cached number on a character
func (e *rulesEngine) ComputeCharacterStats(char *dnd5e.Character) (*dnd5e.Character, error) {
	if char == nil {
		return nil, errors.InvalidArgument("character is required")
	}
	out := char.Clone()
	if err := e.applyStats(out); err != nil {
		return nil, err
	}
	return out, nil
}

// applyStats writes derived numbers into char in place
func (e *rulesEngine) applyStats(char *dnd5e.Character) error {
	rules, err := e.catalog.Class(char.Class)
	if err != nil {
		return err
	}

	char.ProficiencyBonus = ProficiencyBonus(char.Level)
	char.HitDice.Die = rules.HitDie

	if char.Skills == nil {
		char.Skills = make(map[dnd5e.Skill]dnd5e.SkillEntry)
	}
	stats := ComputeDerivedStats(char.AbilityScores, char.ProficiencyBonus, char.Skills, char.SavingThrows)
	for skill := range dnd5e.SkillAbilities {
		entry := char.Skills[skill]
		entry.Value = stats.Skills[skill]
		char.Skills[skill] = entry
	}
	char.Initiative = stats.Initiative

	var armor *dnd5e.EquipmentCatalogEntry
	if char.EquippedArmor != "" {
		entry, ok := e.catalog.Armor(char.EquippedArmor)
		if ok {
			armor = entry
		} else {
			slog.Warn("Equipped armor not in catalog, treating as unarmored",
				"character_id", char.ID,
				"armor", char.EquippedArmor)
		}
	}
	char.ArmorClass = ResolveArmorClass(stats.Modifiers[dnd5e.AbilityDexterity], armor, char.HasShield())

	return nil
}
