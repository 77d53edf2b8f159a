package engine

import (
	"fmt"
	"log/slog"

	"github.com/KirkDiggler/rpg-sheet/internal/catalog"
	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
)

// ability points granted by one improvement
const improvementPoints = 2

// LevelUp moves the character one level up. At level 20 it is declined.
func (e *rulesEngine) LevelUp(char *dnd5e.Character) (*Transition, error) {
	if char == nil {
		return nil, errors.InvalidArgument("character is required")
	}
	if char.Level >= dnd5e.MaxLevel {
		return declinedTransition(char, fmt.Sprintf("already at maximum level %d", dnd5e.MaxLevel)), nil
	}

	rules, err := e.catalog.Class(char.Class)
	if err != nil {
		return nil, err
	}

	out := char.Clone()
	from := out.Level
	to := from + 1

	gain := HitPointGain(rules.HitDie, dnd5e.Modifier(out.AbilityScores.Constitution))
	out.Level = to
	out.HitPoints.Max += gain
	out.HitPoints.Current = out.HitPoints.Max

	out.HitDice.Max = to
	out.HitDice.Die = rules.HitDie
	out.HitDice.Current = min(out.HitDice.Max, out.HitDice.Current+1)

	resetLevelRecord(out, to)
	out.LevelRecordFor(to).HitPointsGained = gain

	refreshSpellSlots(out, rules)

	surfaced := surfaceChoices(out, rules, from, to)

	if err := e.refresh(out); err != nil {
		return nil, err
	}

	slog.Debug("Character leveled up",
		"character_id", out.ID,
		"class", out.Class,
		"level", to,
		"hp_gain", gain,
		"choices", len(surfaced))

	return &Transition{
		Result:        Result{Character: out, Outcome: Outcome{Applied: true}},
		FromLevel:     from,
		ToLevel:       to,
		HitPointDelta: gain,
		NewChoices:    surfaced,
	}, nil
}

// LevelDown moves the character one level down, undoing what was recorded
// for the abandoned level. At level 1 it is declined.
func (e *rulesEngine) LevelDown(char *dnd5e.Character) (*Transition, error) {
	if char == nil {
		return nil, errors.InvalidArgument("character is required")
	}
	if char.Level <= dnd5e.MinLevel {
		return declinedTransition(char, fmt.Sprintf("already at minimum level %d", dnd5e.MinLevel)), nil
	}

	rules, err := e.catalog.Class(char.Class)
	if err != nil {
		return nil, err
	}

	out := char.Clone()
	from := out.Level
	to := from - 1

	record, hasRecord := takeLevelRecord(out, from)
	if hasRecord {
		revertChoices(out, record)
	}

	loss := HitPointGain(rules.HitDie, dnd5e.Modifier(out.AbilityScores.Constitution))
	if hasRecord && record.HitPointsGained > 0 {
		loss = record.HitPointsGained
	}
	beforeMax := out.HitPoints.Max
	out.HitPoints.Max = max(1, out.HitPoints.Max-loss)
	out.HitPoints.Current = max(1, min(out.HitPoints.Current-loss, out.HitPoints.Max))

	out.Level = to
	out.HitDice.Max = to
	out.HitDice.Die = rules.HitDie
	out.HitDice.Current = min(out.HitDice.Current, out.HitDice.Max)

	dropped := dropChoicesAt(out, from)

	refreshSpellSlots(out, rules)

	if err := e.refresh(out); err != nil {
		return nil, err
	}

	slog.Debug("Character leveled down",
		"character_id", out.ID,
		"class", out.Class,
		"level", to,
		"hp_loss", beforeMax-out.HitPoints.Max,
		"dropped_choices", len(dropped))

	return &Transition{
		Result:         Result{Character: out, Outcome: Outcome{Applied: true}},
		FromLevel:      from,
		ToLevel:        to,
		HitPointDelta:  out.HitPoints.Max - beforeMax,
		DroppedChoices: dropped,
	}, nil
}

// refresh recomputes resources and cached stats after a mutation
func (e *rulesEngine) refresh(char *dnd5e.Character) error {
	resources, err := e.RefreshResources(char)
	if err != nil {
		return err
	}
	char.Resources = resources
	return e.applyStats(char)
}

func declinedTransition(char *dnd5e.Character, reason string) *Transition {
	return &Transition{
		Result:    Result{Character: char.Clone(), Outcome: Declined(reason)},
		FromLevel: char.Level,
		ToLevel:   char.Level,
	}
}

// surfaceChoices adds the pending choices a level up unlocks. Choice ids are
// derived from kind and level so surfacing twice is harmless.
func surfaceChoices(char *dnd5e.Character, rules *catalog.ClassRules, from, to int) []dnd5e.PendingChoice {
	var surfaced []dnd5e.PendingChoice

	add := func(kind dnd5e.ChoiceKind, count int) {
		choice := dnd5e.PendingChoice{
			ID:    ChoiceID(kind, to),
			Kind:  kind,
			Level: to,
			Count: count,
		}
		if _, exists := char.FindPendingChoice(choice.ID); exists {
			return
		}
		char.PendingChoices = append(char.PendingChoices, choice)
		surfaced = append(surfaced, choice)
	}

	if rules.IsImprovementLevel(to) {
		add(dnd5e.ChoiceAbilityScoreImprovement, improvementPoints)
	}
	if to == rules.SubclassLevel && char.Subclass == "" {
		add(dnd5e.ChoiceSubclass, 1)
	}
	if gained := rules.CantripsKnownAt(to) - rules.CantripsKnownAt(from); gained > 0 {
		add(dnd5e.ChoiceCantrip, gained)
	}

	return surfaced
}

// ChoiceID names the pending choice of a kind surfaced at a level
func ChoiceID(kind dnd5e.ChoiceKind, level int) string {
	return fmt.Sprintf("%s-%d", kind, level)
}

func dropChoicesAt(char *dnd5e.Character, level int) []dnd5e.PendingChoice {
	var dropped []dnd5e.PendingChoice
	kept := char.PendingChoices[:0]
	for _, choice := range char.PendingChoices {
		if choice.Level == level {
			dropped = append(dropped, choice)
			continue
		}
		kept = append(kept, choice)
	}
	char.PendingChoices = kept
	return dropped
}

// resetLevelRecord discards a stale record left for a level, e.g. by a
// manual edit, so the new record starts clean
func resetLevelRecord(char *dnd5e.Character, level int) {
	takeLevelRecord(char, level)
}

func takeLevelRecord(char *dnd5e.Character, level int) (dnd5e.LevelRecord, bool) {
	for i, record := range char.LevelHistory {
		if record.Level == level {
			char.LevelHistory = append(char.LevelHistory[:i], char.LevelHistory[i+1:]...)
			return record, true
		}
	}
	return dnd5e.LevelRecord{}, false
}

// revertChoices undoes the cantrips, ability increases and subclass recorded at a level
func revertChoices(char *dnd5e.Character, record dnd5e.LevelRecord) {
	if len(record.Cantrips) > 0 && char.Spellcasting != nil {
		remove := make(map[string]bool, len(record.Cantrips))
		for _, cantrip := range record.Cantrips {
			remove[cantrip] = true
		}
		kept := make([]string, 0, len(char.Spellcasting.Cantrips))
		for _, cantrip := range char.Spellcasting.Cantrips {
			if !remove[cantrip] {
				kept = append(kept, cantrip)
			}
		}
		char.Spellcasting.Cantrips = kept
	}

	for ability, increase := range record.AbilityIncreases {
		char.AbilityScores.Set(ability, char.AbilityScores.Get(ability)-increase)
	}

	if record.Subclass != "" && char.Subclass == record.Subclass {
		char.Subclass = ""
	}
}
