package migrations

import (
	"log/slog"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
)

// EnsureRequired patches a loaded character that is missing mandatory fields
// with conservative defaults. It returns the patched field names and logs a
// warning when any were patched.
func EnsureRequired(char *dnd5e.Character) []string {
	if char == nil {
		return nil
	}
	var patched []string
	patch := func(field string) { patched = append(patched, field) }

	if char.Edition == "" {
		char.Edition = dnd5e.DefaultEdition
		patch("edition")
	}
	if char.Species == "" && char.LegacyRace != "" {
		char.Species = char.LegacyRace
		patch("species")
	}
	if char.Level < dnd5e.MinLevel || char.Level > dnd5e.MaxLevel {
		char.Level = max(dnd5e.MinLevel, min(dnd5e.MaxLevel, char.Level))
		patch("level")
	}

	for _, ability := range dnd5e.Abilities {
		if char.AbilityScores.Get(ability) < 1 {
			char.AbilityScores.Set(ability, 10)
			patch("abilityScores." + string(ability))
		}
	}

	if char.HitPoints.Max < 1 {
		char.HitPoints.Max = 1
		patch("hitPoints.max")
	}
	if char.HitPoints.Current > char.HitPoints.Max {
		char.HitPoints.Current = char.HitPoints.Max
		patch("hitPoints.current")
	}
	if char.HitPoints.Current < 0 {
		char.HitPoints.Current = 0
		patch("hitPoints.current")
	}

	if char.HitDice.Max != char.Level {
		char.HitDice.Max = char.Level
		patch("hitDice.max")
	}
	if char.HitDice.Current < 0 || char.HitDice.Current > char.HitDice.Max {
		char.HitDice.Current = max(0, min(char.HitDice.Current, char.HitDice.Max))
		patch("hitDice.current")
	}

	if char.Skills == nil {
		char.Skills = map[dnd5e.Skill]dnd5e.SkillEntry{}
		patch("skills")
	}
	if char.SavingThrows == nil {
		char.SavingThrows = map[dnd5e.Ability]bool{}
		patch("savingThrows")
	}
	if char.Inventory == nil {
		char.Inventory = map[string]dnd5e.InventoryEntry{}
		patch("inventory")
	}
	if char.Resources == nil {
		char.Resources = []dnd5e.ResourceTracker{}
		patch("resources")
	}
	if char.PendingChoices == nil {
		char.PendingChoices = []dnd5e.PendingChoice{}
		patch("pendingChoices")
	}
	if len(char.EquippedWeapons) > dnd5e.MaxEquippedWeapons {
		char.EquippedWeapons = char.EquippedWeapons[:dnd5e.MaxEquippedWeapons]
		patch("equippedWeapons")
	}

	for i := range char.Resources {
		tracker := &char.Resources[i]
		if tracker.CurrentUses < 0 || tracker.CurrentUses > tracker.MaxUses {
			tracker.CurrentUses = max(0, min(tracker.CurrentUses, tracker.MaxUses))
			patch("resources." + tracker.ID)
		}
		if tracker.RechargeType == "" {
			tracker.RechargeType = dnd5e.RechargeNone
			patch("resources." + tracker.ID + ".rechargeType")
		}
	}

	if sc := char.Spellcasting; sc != nil && len(sc.UsedSlots) != len(sc.Slots) {
		used := make([]int, len(sc.Slots))
		copy(used, sc.UsedSlots)
		sc.UsedSlots = used
		patch("spellcasting.usedSlots")
	}

	if len(patched) > 0 {
		slog.Warn("Patched character with default values",
			"character_id", char.ID,
			"fields", patched)
	}
	return patched
}
