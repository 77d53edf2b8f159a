package catalog

import (
	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
)

// SpellProgression names the slot table a class casts from
type SpellProgression string

// Spell progressions
const (
	ProgressionNone SpellProgression = "none"
	ProgressionFull SpellProgression = "full"
	ProgressionHalf SpellProgression = "half"
	ProgressionPact SpellProgression = "pact"
)

// baseImprovementLevels are the ability score improvement levels every class gets
var baseImprovementLevels = []int{4, 8, 12, 16, 19}

// LevelStep is one row of a level-indexed table
type LevelStep struct {
	Level int `yaml:"level" validate:"min=1,max=20"`
	Value int `yaml:"value" validate:"gte=0"`
}

// RechargeStep changes a feature's recharge type from a level onward
type RechargeStep struct {
	Level    int                `yaml:"level" validate:"min=1,max=20"`
	Recharge dnd5e.RechargeType `yaml:"recharge" validate:"oneof=none short-rest long-rest"`
}

// FeatureRule describes one limited-use class feature
type FeatureRule struct {
	ID              string             `yaml:"id" validate:"required"`
	Name            string             `yaml:"name" validate:"required"`
	Description     string             `yaml:"description"`
	Recharge        dnd5e.RechargeType `yaml:"recharge" validate:"oneof=none short-rest long-rest"`
	RechargeChanges []RechargeStep     `yaml:"rechargeChanges" validate:"dive"`
	UnlockLevel     int                `yaml:"unlockLevel"`
	Steps           []LevelStep        `yaml:"steps" validate:"dive"`
	PerLevel        int                `yaml:"perLevel"`
	Ability         dnd5e.Ability      `yaml:"ability"`
	Bonus           int                `yaml:"bonus"`
	Minimum         int                `yaml:"minimum"`
}

// Unlocked returns the first level the feature is available at
func (f *FeatureRule) Unlocked() int {
	if f.UnlockLevel > 0 {
		return f.UnlockLevel
	}
	if len(f.Steps) > 0 {
		return f.Steps[0].Level
	}
	return 1
}

// RechargeAt returns the recharge type in effect at level
func (f *FeatureRule) RechargeAt(level int) dnd5e.RechargeType {
	recharge := f.Recharge
	for _, step := range f.RechargeChanges {
		if level >= step.Level {
			recharge = step.Recharge
		}
	}
	return recharge
}

// MaxUsesAt computes the feature's capacity for a level and ability scores
func (f *FeatureRule) MaxUsesAt(level int, scores dnd5e.AbilityScores) int {
	var uses int
	switch {
	case len(f.Steps) > 0:
		uses = StepValue(f.Steps, level)
	case f.PerLevel > 0:
		uses = f.PerLevel * level
	case f.Ability != "":
		uses = dnd5e.Modifier(scores.Get(f.Ability)) + f.Bonus
	}
	if uses < f.Minimum {
		uses = f.Minimum
	}
	return uses
}

// ClassRules is the progression data for one class
type ClassRules struct {
	Class                  dnd5e.Class      `yaml:"class" validate:"required"`
	HitDie                 int              `yaml:"hitDie" validate:"oneof=6 8 10 12"`
	SavingThrows           []dnd5e.Ability  `yaml:"savingThrows" validate:"len=2"`
	Spellcasting           SpellProgression `yaml:"spellcasting" validate:"oneof=none full half pact"`
	SpellAbility           dnd5e.Ability    `yaml:"spellAbility"`
	CantripsKnown          []LevelStep      `yaml:"cantripsKnown" validate:"dive"`
	SubclassLevel          int              `yaml:"subclassLevel" validate:"min=1,max=3"`
	ExtraImprovementLevels []int            `yaml:"extraImprovementLevels"`
	Features               []FeatureRule    `yaml:"features" validate:"dive"`
}

// IsCaster reports whether the class has a spellcasting block
func (r *ClassRules) IsCaster() bool {
	return r.Spellcasting != "" && r.Spellcasting != ProgressionNone
}

// CantripsKnownAt returns how many cantrips the class knows at level
func (r *ClassRules) CantripsKnownAt(level int) int {
	return StepValue(r.CantripsKnown, level)
}

// IsImprovementLevel reports whether level grants an ability score improvement
func (r *ClassRules) IsImprovementLevel(level int) bool {
	for _, l := range baseImprovementLevels {
		if l == level {
			return true
		}
	}
	for _, l := range r.ExtraImprovementLevels {
		if l == level {
			return true
		}
	}
	return false
}

// StepValue returns the value of the highest step at or below level, 0 below the first step
func StepValue(steps []LevelStep, level int) int {
	value := 0
	for _, step := range steps {
		if level >= step.Level {
			value = step.Value
		}
	}
	return value
}
