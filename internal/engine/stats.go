package engine

import (
	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
)

// PassiveBase is added to a skill value to get its passive score
const PassiveBase = 10

// DerivedStats are the numbers computed from raw scores and proficiencies
type DerivedStats struct {
	Modifiers         map[dnd5e.Ability]int
	SavingThrows      map[dnd5e.Ability]int
	Skills            map[dnd5e.Skill]int
	Initiative        int
	PassivePerception int
}

// Passive returns the passive score for a skill
func (d *DerivedStats) Passive(skill dnd5e.Skill) int {
	return PassiveBase + d.Skills[skill]
}

// ComputeDerivedStats computes modifiers, saves, skills, initiative and
// passive perception. It never rejects input; out-of-range scores still
// produce floor((score-10)/2).
func ComputeDerivedStats(
	scores dnd5e.AbilityScores,
	proficiencyBonus int,
	skills map[dnd5e.Skill]dnd5e.SkillEntry,
	saves map[dnd5e.Ability]bool,
) *DerivedStats {
	stats := &DerivedStats{
		Modifiers:    make(map[dnd5e.Ability]int, len(dnd5e.Abilities)),
		SavingThrows: make(map[dnd5e.Ability]int, len(dnd5e.Abilities)),
		Skills:       make(map[dnd5e.Skill]int, len(dnd5e.SkillAbilities)),
	}

	for _, ability := range dnd5e.Abilities {
		mod := dnd5e.Modifier(scores.Get(ability))
		stats.Modifiers[ability] = mod

		save := mod
		if saves[ability] {
			save += proficiencyBonus
		}
		stats.SavingThrows[ability] = save
	}

	for skill, ability := range dnd5e.SkillAbilities {
		stats.Skills[skill] = SkillValue(stats.Modifiers[ability], proficiencyBonus, skills[skill])
	}

	stats.Initiative = stats.Modifiers[dnd5e.AbilityDexterity]
	stats.PassivePerception = stats.Passive(dnd5e.SkillPerception)

	return stats
}

// SkillValue adds proficiency once for proficient skills and again for
// expertise. Expertise implies proficiency.
func SkillValue(modifier, proficiencyBonus int, entry dnd5e.SkillEntry) int {
	value := modifier
	if entry.Proficient || entry.Expertise {
		value += proficiencyBonus
	}
	if entry.Expertise {
		value += proficiencyBonus
	}
	return value
}
