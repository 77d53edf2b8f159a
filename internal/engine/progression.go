package engine

import (
	"github.com/KirkDiggler/rpg-sheet/internal/catalog"
	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
)

// spell slots per spell level, indexed by character level - 1
var fullCasterSlots = [dnd5e.MaxLevel][]int{
	{2},
	{3},
	{4, 2},
	{4, 3},
	{4, 3, 2},
	{4, 3, 3},
	{4, 3, 3, 1},
	{4, 3, 3, 2},
	{4, 3, 3, 3, 1},
	{4, 3, 3, 3, 2},
	{4, 3, 3, 3, 2, 1},
	{4, 3, 3, 3, 2, 1},
	{4, 3, 3, 3, 2, 1, 1},
	{4, 3, 3, 3, 2, 1, 1},
	{4, 3, 3, 3, 2, 1, 1, 1},
	{4, 3, 3, 3, 2, 1, 1, 1},
	{4, 3, 3, 3, 2, 1, 1, 1, 1},
	{4, 3, 3, 3, 3, 1, 1, 1, 1},
	{4, 3, 3, 3, 3, 2, 1, 1, 1},
	{4, 3, 3, 3, 3, 2, 2, 1, 1},
}

var halfCasterSlots = [dnd5e.MaxLevel][]int{
	{},
	{2},
	{3},
	{3},
	{4, 2},
	{4, 2},
	{4, 3},
	{4, 3},
	{4, 3, 2},
	{4, 3, 2},
	{4, 3, 3},
	{4, 3, 3},
	{4, 3, 3, 1},
	{4, 3, 3, 1},
	{4, 3, 3, 2},
	{4, 3, 3, 2},
	{4, 3, 3, 3, 1},
	{4, 3, 3, 3, 1},
	{4, 3, 3, 3, 2},
	{4, 3, 3, 3, 2},
}

// ProficiencyBonus returns 2 + (level-1)/4 for levels 1-20
func ProficiencyBonus(level int) int {
	level = clampLevel(level)
	return 2 + (level-1)/4
}

// HitPointGain is the average-equivalent hit point increase for one level
func HitPointGain(hitDie, conModifier int) int {
	return max(1, hitDie/2+1+conModifier)
}

// SpellSlots returns the slot table for a progression at level. Pact magic
// slots all share one slot level, so the table holds zeros below it.
func SpellSlots(progression catalog.SpellProgression, level int) (slots []int, pact bool) {
	level = clampLevel(level)

	switch progression {
	case catalog.ProgressionFull:
		return append([]int{}, fullCasterSlots[level-1]...), false
	case catalog.ProgressionHalf:
		return append([]int{}, halfCasterSlots[level-1]...), false
	case catalog.ProgressionPact:
		count, slotLevel := pactSlots(level)
		slots = make([]int, slotLevel)
		slots[slotLevel-1] = count
		return slots, true
	default:
		return nil, false
	}
}

func pactSlots(level int) (count, slotLevel int) {
	switch {
	case level >= 17:
		count = 4
	case level >= 11:
		count = 3
	case level >= 2:
		count = 2
	default:
		count = 1
	}
	slotLevel = min(5, (level+1)/2)
	return count, slotLevel
}

func clampLevel(level int) int {
	return max(dnd5e.MinLevel, min(dnd5e.MaxLevel, level))
}

// refreshSpellSlots rewrites the slot table for the character's level and
// clamps used counters to the new table. A caster class without a block
// gains one once its table is non-empty.
func refreshSpellSlots(char *dnd5e.Character, rules *catalog.ClassRules) {
	if !rules.IsCaster() {
		return
	}

	slots, pact := SpellSlots(rules.Spellcasting, char.Level)

	if char.Spellcasting == nil {
		if len(slots) == 0 && rules.CantripsKnownAt(char.Level) == 0 {
			return
		}
		char.Spellcasting = &dnd5e.Spellcasting{
			Ability:  rules.SpellAbility,
			Cantrips: []string{},
			Spells:   []string{},
		}
	}

	sc := char.Spellcasting
	used := make([]int, len(slots))
	for i := range used {
		if i < len(sc.UsedSlots) {
			used[i] = min(sc.UsedSlots[i], slots[i])
		}
	}
	sc.Slots = slots
	sc.UsedSlots = used
	sc.PactMagic = pact
}
