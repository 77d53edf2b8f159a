package engine

import (
	"fmt"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
)

// ExpectedResources lists every limited-use feature the class has unlocked at
// level, each full
func (e *rulesEngine) ExpectedResources(class dnd5e.Class, level int, scores dnd5e.AbilityScores) ([]dnd5e.ResourceTracker, error) {
	rules, err := e.catalog.Class(class)
	if err != nil {
		return nil, err
	}

	expected := make([]dnd5e.ResourceTracker, 0, len(rules.Features))
	for i := range rules.Features {
		feature := &rules.Features[i]
		if level < feature.Unlocked() {
			continue
		}
		maxUses := feature.MaxUsesAt(level, scores)
		expected = append(expected, dnd5e.ResourceTracker{
			ID:           feature.ID,
			Name:         feature.Name,
			Description:  feature.Description,
			MaxUses:      maxUses,
			CurrentUses:  maxUses,
			RechargeType: feature.RechargeAt(level),
		})
	}
	return expected, nil
}

// RefreshResources reconciles the character's trackers with the expected set.
// Existing trackers get the new capacity with current uses clamped, missing
// ones are created full, and unknown ones are kept as they are.
func (e *rulesEngine) RefreshResources(char *dnd5e.Character) ([]dnd5e.ResourceTracker, error) {
	if char == nil {
		return nil, errors.InvalidArgument("character is required")
	}
	expected, err := e.ExpectedResources(char.Class, char.Level, char.AbilityScores)
	if err != nil {
		return nil, err
	}
	return MergeResources(char.Resources, expected), nil
}

// MergeResources applies the conservative merge of expected into existing
func MergeResources(existing, expected []dnd5e.ResourceTracker) []dnd5e.ResourceTracker {
	merged := make([]dnd5e.ResourceTracker, len(existing), len(existing)+len(expected))
	copy(merged, existing)

	index := make(map[string]int, len(merged))
	for i, tracker := range merged {
		index[tracker.ID] = i
	}

	for _, want := range expected {
		i, ok := index[want.ID]
		if !ok {
			merged = append(merged, want)
			index[want.ID] = len(merged) - 1
			continue
		}
		tracker := &merged[i]
		tracker.Name = want.Name
		tracker.Description = want.Description
		tracker.RechargeType = want.RechargeType
		tracker.MaxUses = want.MaxUses
		tracker.CurrentUses = max(0, min(tracker.CurrentUses, tracker.MaxUses))
	}

	return merged
}

// SpendResource decrements a tracker. Asking for more uses than remain, or
// for an unknown tracker, is declined without changing anything.
func (e *rulesEngine) SpendResource(char *dnd5e.Character, resourceID string, uses int) (*Result, error) {
	return SpendResource(char, resourceID, uses)
}

// SpendResource is the catalog-free spend used by the engine
func SpendResource(char *dnd5e.Character, resourceID string, uses int) (*Result, error) {
	if char == nil {
		return nil, errors.InvalidArgument("character is required")
	}
	if uses < 1 {
		return nil, errors.InvalidArgumentf("uses must be at least 1, got %d", uses)
	}

	out := char.Clone()
	i, ok := out.FindResource(resourceID)
	if !ok {
		return &Result{Character: out, Outcome: Declined(fmt.Sprintf("unknown resource %q", resourceID))}, nil
	}

	tracker := &out.Resources[i]
	if tracker.CurrentUses < uses {
		return &Result{
			Character: out,
			Outcome: Declined(fmt.Sprintf("%s has %d of %d uses left, %d requested",
				tracker.Name, tracker.CurrentUses, tracker.MaxUses, uses)),
		}, nil
	}

	tracker.CurrentUses = max(0, tracker.CurrentUses-uses)
	return &Result{Character: out, Outcome: Outcome{Applied: true}}, nil
}

// HasUses reports whether a tracker has at least uses remaining
func HasUses(char *dnd5e.Character, resourceID string, uses int) bool {
	i, ok := char.FindResource(resourceID)
	if !ok {
		return false
	}
	return char.Resources[i].CurrentUses >= uses
}

func (e *rulesEngine) RechargeResources(char *dnd5e.Character, trigger dnd5e.RechargeType) (*dnd5e.Character, error) {
	return RechargeResources(char, trigger)
}

// RechargeResources refills trackers matching trigger. A long rest also
// refills short-rest trackers.
func RechargeResources(char *dnd5e.Character, trigger dnd5e.RechargeType) (*dnd5e.Character, error) {
	if char == nil {
		return nil, errors.InvalidArgument("character is required")
	}
	if err := validateTrigger(trigger); err != nil {
		return nil, err
	}

	out := char.Clone()
	recharge(out, trigger)
	return out, nil
}

func recharge(char *dnd5e.Character, trigger dnd5e.RechargeType) []string {
	var refilled []string
	for i := range char.Resources {
		tracker := &char.Resources[i]
		if !recharges(tracker.RechargeType, trigger) {
			continue
		}
		if tracker.CurrentUses != tracker.MaxUses {
			refilled = append(refilled, tracker.ID)
		}
		tracker.CurrentUses = tracker.MaxUses
	}
	return refilled
}

func recharges(resource, trigger dnd5e.RechargeType) bool {
	switch trigger {
	case dnd5e.RechargeLongRest:
		return resource == dnd5e.RechargeLongRest || resource == dnd5e.RechargeShortRest
	case dnd5e.RechargeShortRest:
		return resource == dnd5e.RechargeShortRest
	default:
		return false
	}
}

func validateTrigger(trigger dnd5e.RechargeType) error {
	if trigger != dnd5e.RechargeShortRest && trigger != dnd5e.RechargeLongRest {
		return errors.InvalidArgumentf("rest must be %s or %s, got %q",
			dnd5e.RechargeShortRest, dnd5e.RechargeLongRest, trigger)
	}
	return nil
}

func (e *rulesEngine) ApplyRest(char *dnd5e.Character, trigger dnd5e.RechargeType) (*RestResult, error) {
	return ApplyRest(char, trigger)
}

// ApplyRest recharges resources and applies the rest's other effects. A long
// rest restores hit points, clears temporary hit points, regains half the hit
// dice (at least one) and clears used spell slots. A short rest restores pact
// magic slots.
func ApplyRest(char *dnd5e.Character, trigger dnd5e.RechargeType) (*RestResult, error) {
	if char == nil {
		return nil, errors.InvalidArgument("character is required")
	}
	if err := validateTrigger(trigger); err != nil {
		return nil, err
	}

	out := char.Clone()
	result := &RestResult{Character: out, Trigger: trigger}
	result.Recharged = recharge(out, trigger)

	switch trigger {
	case dnd5e.RechargeLongRest:
		result.HitPointsHealed = max(0, out.HitPoints.Max-out.HitPoints.Current)
		out.HitPoints.Current = out.HitPoints.Max
		out.HitPoints.Temporary = 0

		regain := max(1, out.HitDice.Max/2)
		before := out.HitDice.Current
		out.HitDice.Current = min(out.HitDice.Max, out.HitDice.Current+regain)
		result.HitDiceRecovered = out.HitDice.Current - before

		clearUsedSlots(out.Spellcasting)

	case dnd5e.RechargeShortRest:
		if out.Spellcasting != nil && out.Spellcasting.PactMagic {
			clearUsedSlots(out.Spellcasting)
		}
	}

	return result, nil
}

func clearUsedSlots(sc *dnd5e.Spellcasting) {
	if sc == nil {
		return
	}
	sc.UsedSlots = make([]int, len(sc.Slots))
}
