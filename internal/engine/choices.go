package engine

import (
	"strings"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
)

// MaxImprovedScore caps a score raised by an ability score improvement
const MaxImprovedScore = 20

// ApplyAbilityScoreImprovement spends an improvement choice. The increases
// must add up to the choice's points and no score may pass 20.
func (e *rulesEngine) ApplyAbilityScoreImprovement(
	char *dnd5e.Character,
	choiceID string,
	increases map[dnd5e.Ability]int,
) (*dnd5e.Character, error) {
	out, choice, err := takeChoice(char, choiceID, dnd5e.ChoiceAbilityScoreImprovement)
	if err != nil {
		return nil, err
	}

	vb := errors.NewValidationBuilder()
	total := 0
	for ability, increase := range increases {
		field := "increases." + string(ability)
		if !isAbility(ability) {
			vb.InvalidField(field, "unknown ability")
			continue
		}
		if increase < 1 {
			vb.Field(field, "must be positive")
			continue
		}
		if out.AbilityScores.Get(ability)+increase > MaxImprovedScore {
			vb.Fieldf(field, "would raise the score above %d", MaxImprovedScore)
		}
		total += increase
	}
	if total != choice.Count {
		vb.Fieldf("increases", "must total %d points, got %d", choice.Count, total)
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	record := out.LevelRecordFor(choice.Level)
	if record.AbilityIncreases == nil {
		record.AbilityIncreases = make(map[dnd5e.Ability]int, len(increases))
	}
	for ability, increase := range increases {
		out.AbilityScores.Set(ability, out.AbilityScores.Get(ability)+increase)
		record.AbilityIncreases[ability] += increase
	}

	if err := e.refresh(out); err != nil {
		return nil, err
	}
	return out, nil
}

// SelectSubclass spends a subclass choice
func (e *rulesEngine) SelectSubclass(char *dnd5e.Character, choiceID, subclass string) (*dnd5e.Character, error) {
	subclass = strings.TrimSpace(subclass)
	if subclass == "" {
		return nil, errors.InvalidArgument("subclass is required")
	}

	out, choice, err := takeChoice(char, choiceID, dnd5e.ChoiceSubclass)
	if err != nil {
		return nil, err
	}

	out.Subclass = subclass
	out.LevelRecordFor(choice.Level).Subclass = subclass

	if err := e.refresh(out); err != nil {
		return nil, err
	}
	return out, nil
}

// LearnCantrips spends a cantrip choice. Exactly the choice's count of new,
// distinct cantrips must be given.
func (e *rulesEngine) LearnCantrips(char *dnd5e.Character, choiceID string, cantrips []string) (*dnd5e.Character, error) {
	out, choice, err := takeChoice(char, choiceID, dnd5e.ChoiceCantrip)
	if err != nil {
		return nil, err
	}

	if out.Spellcasting == nil {
		return nil, errors.FailedPreconditionf("character %s has no spellcasting", out.ID)
	}

	vb := errors.NewValidationBuilder()
	if len(cantrips) != choice.Count {
		vb.Fieldf("cantrips", "must name exactly %d, got %d", choice.Count, len(cantrips))
	}
	known := make(map[string]bool, len(out.Spellcasting.Cantrips)+len(cantrips))
	for _, cantrip := range out.Spellcasting.Cantrips {
		known[cantrip] = true
	}
	for _, cantrip := range cantrips {
		switch {
		case strings.TrimSpace(cantrip) == "":
			vb.Field("cantrips", "must not be blank")
		case known[cantrip]:
			vb.Fieldf("cantrips", "%s is already known", cantrip)
		}
		known[cantrip] = true
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	out.Spellcasting.Cantrips = append(out.Spellcasting.Cantrips, cantrips...)
	record := out.LevelRecordFor(choice.Level)
	record.Cantrips = append(record.Cantrips, cantrips...)

	return out, nil
}

// takeChoice clones char and removes the pending choice from the clone
func takeChoice(char *dnd5e.Character, choiceID string, kind dnd5e.ChoiceKind) (*dnd5e.Character, dnd5e.PendingChoice, error) {
	if char == nil {
		return nil, dnd5e.PendingChoice{}, errors.InvalidArgument("character is required")
	}

	i, ok := char.FindPendingChoice(choiceID)
	if !ok {
		return nil, dnd5e.PendingChoice{}, errors.NotFoundf("pending choice %q not found", choiceID)
	}
	choice := char.PendingChoices[i]
	if choice.Kind != kind {
		return nil, dnd5e.PendingChoice{}, errors.FailedPreconditionf("choice %q is a %s choice, not %s", choiceID, choice.Kind, kind)
	}

	out := char.Clone()
	out.PendingChoices = append(out.PendingChoices[:i], out.PendingChoices[i+1:]...)
	return out, choice, nil
}

func isAbility(ability dnd5e.Ability) bool {
	for _, a := range dnd5e.Abilities {
		if a == ability {
			return true
		}
	}
	return false
}
