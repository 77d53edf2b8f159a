// Package character implements the character orchestrator
package character

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/rpg-sheet/internal/engine"
	"github.com/KirkDiggler/rpg-sheet/internal/engine/rpgtoolkit"
	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/metrics"
	"github.com/KirkDiggler/rpg-sheet/internal/migrations"
	characterrepo "github.com/KirkDiggler/rpg-sheet/internal/repositories/character"
	"github.com/KirkDiggler/rpg-sheet/internal/services/character"
)

// Config holds the dependencies for the character orchestrator
type Config struct {
	CharacterRepo characterrepo.Repository
	Engine        engine.Engine
	EventBus      events.EventBus
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.CharacterRepo == nil {
		vb.RequiredField("CharacterRepo")
	}
	if c.Engine == nil {
		vb.RequiredField("Engine")
	}
	if c.EventBus == nil {
		vb.RequiredField("EventBus")
	}

	return vb.Build()
}

// Orchestrator implements the character.Service interface
type Orchestrator struct {
	characterRepo characterrepo.Repository
	engine        engine.Engine
	eventBus      events.EventBus
}

// New creates a new character orchestrator
func New(cfg *Config) (*Orchestrator, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Orchestrator{
		characterRepo: cfg.CharacterRepo,
		engine:        cfg.Engine,
		eventBus:      cfg.EventBus,
	}, nil
}

// Ensure Orchestrator implements the Service interface
var _ character.Service = (*Orchestrator)(nil)

// Record lifecycle methods

// ImportCharacter brings an exported record of any schema version up to date
// and stores it
func (o *Orchestrator) ImportCharacter(
	ctx context.Context,
	input *character.ImportCharacterInput,
) (*character.ImportCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if len(input.Data) == 0 {
		return nil, errors.InvalidArgument("character data is required")
	}

	doc, err := migrations.DecodeDocument(input.Data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode character")
	}
	if _, err := migrations.Apply(input.SchemaVersion, []migrations.Document{doc}); err != nil {
		return nil, errors.Wrap(err, "failed to migrate character")
	}
	migrated, err := migrations.EncodeDocument(doc)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode migrated character")
	}

	var char dnd5e.Character
	if err := json.Unmarshal(migrated, &char); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "character data does not match the sheet schema")
	}

	patched := o.patch(ctx, &char)
	loaded, err := o.refresh(&char)
	if err != nil {
		return nil, err
	}

	stored, err := o.characterRepo.Create(ctx, characterrepo.CreateInput{Character: loaded})
	if err != nil {
		if !errors.IsAlreadyExists(err) || !input.Overwrite {
			return nil, errors.Wrap(err, "failed to store character")
		}
		updated, err := o.characterRepo.Update(ctx, characterrepo.UpdateInput{Character: loaded})
		if err != nil {
			return nil, errors.Wrap(err, "failed to overwrite character")
		}
		stored = &characterrepo.CreateOutput{Character: updated.Character}
	}

	slog.InfoContext(ctx, "Imported character",
		"character_id", stored.Character.ID,
		"from_schema_version", input.SchemaVersion,
		"patched", patched)

	return &character.ImportCharacterOutput{
		Character: stored.Character,
		Patched:   patched,
	}, nil
}

// GetCharacter loads a character with resources and derived numbers refreshed
func (o *Orchestrator) GetCharacter(
	ctx context.Context,
	input *character.GetCharacterInput,
) (*character.GetCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	char, patched, err := o.load(ctx, input.CharacterID)
	if err != nil {
		return nil, err
	}

	return &character.GetCharacterOutput{
		Character: char,
		Stats:     engine.ComputeDerivedStats(char.AbilityScores, char.ProficiencyBonus, char.Skills, char.SavingThrows),
		Patched:   patched,
	}, nil
}

// ListCharacters lists stored character IDs
func (o *Orchestrator) ListCharacters(
	ctx context.Context,
	input *character.ListCharactersInput,
) (*character.ListCharactersOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	result, err := o.characterRepo.List(ctx, characterrepo.ListInput{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list characters")
	}

	return &character.ListCharactersOutput{
		CharacterIDs: result.IDs,
	}, nil
}

// DeleteCharacter deletes a character
func (o *Orchestrator) DeleteCharacter(
	ctx context.Context,
	input *character.DeleteCharacterInput,
) (*character.DeleteCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}

	_, err := o.characterRepo.Delete(ctx, characterrepo.DeleteInput{ID: input.CharacterID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to delete character")
	}

	return &character.DeleteCharacterOutput{
		Message: fmt.Sprintf("Character %s deleted successfully", input.CharacterID),
	}, nil
}

// Leveling methods

// LevelUp gains one level. A declined transition leaves the stored record untouched.
func (o *Orchestrator) LevelUp(ctx context.Context, input *character.LevelUpInput) (*character.LevelUpOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	char, _, err := o.load(ctx, input.CharacterID)
	if err != nil {
		return nil, err
	}

	transition, err := o.engine.LevelUp(char)
	if err != nil {
		return nil, errors.Wrap(err, "failed to level up")
	}
	metrics.LevelTransitionsTotal.WithLabelValues(metrics.DirectionUp, metrics.Outcome(transition.Applied)).Inc()

	if !transition.Applied {
		slog.InfoContext(ctx, "Level up declined",
			"character_id", char.ID,
			"level", char.Level,
			"reason", transition.Reason)
		return &character.LevelUpOutput{Transition: transition}, nil
	}

	if transition.Character, err = o.save(ctx, transition.Character); err != nil {
		return nil, err
	}

	o.publish(ctx, rpgtoolkit.EventLevelUp, transition.Character, map[string]interface{}{
		rpgtoolkit.KeyFromLevel: transition.FromLevel,
		rpgtoolkit.KeyToLevel:   transition.ToLevel,
		rpgtoolkit.KeyHitPoints: transition.HitPointDelta,
	})
	for _, choice := range transition.NewChoices {
		o.publish(ctx, rpgtoolkit.EventChoiceSurface, transition.Character, map[string]interface{}{
			rpgtoolkit.KeyChoiceID:   choice.ID,
			rpgtoolkit.KeyChoiceKind: string(choice.Kind),
		})
	}

	return &character.LevelUpOutput{Transition: transition}, nil
}

// LevelDown loses one level, reverting what that level granted
func (o *Orchestrator) LevelDown(ctx context.Context, input *character.LevelDownInput) (*character.LevelDownOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	char, _, err := o.load(ctx, input.CharacterID)
	if err != nil {
		return nil, err
	}

	transition, err := o.engine.LevelDown(char)
	if err != nil {
		return nil, errors.Wrap(err, "failed to level down")
	}
	metrics.LevelTransitionsTotal.WithLabelValues(metrics.DirectionDown, metrics.Outcome(transition.Applied)).Inc()

	if !transition.Applied {
		slog.InfoContext(ctx, "Level down declined",
			"character_id", char.ID,
			"level", char.Level,
			"reason", transition.Reason)
		return &character.LevelDownOutput{Transition: transition}, nil
	}

	if transition.Character, err = o.save(ctx, transition.Character); err != nil {
		return nil, err
	}

	o.publish(ctx, rpgtoolkit.EventLevelDown, transition.Character, map[string]interface{}{
		rpgtoolkit.KeyFromLevel: transition.FromLevel,
		rpgtoolkit.KeyToLevel:   transition.ToLevel,
		rpgtoolkit.KeyHitPoints: transition.HitPointDelta,
	})

	return &character.LevelDownOutput{Transition: transition}, nil
}

// ResolveChoice resolves one pending choice surfaced by a level up
func (o *Orchestrator) ResolveChoice(
	ctx context.Context,
	input *character.ResolveChoiceInput,
) (*character.ResolveChoiceOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.ChoiceID == "" {
		return nil, errors.InvalidArgument("choice ID is required")
	}

	char, _, err := o.load(ctx, input.CharacterID)
	if err != nil {
		return nil, err
	}

	idx, ok := char.FindPendingChoice(input.ChoiceID)
	if !ok {
		return nil, errors.NotFoundf("choice %s is not pending for character %s", input.ChoiceID, char.ID)
	}
	choice := char.PendingChoices[idx]

	var resolved *dnd5e.Character
	switch choice.Kind {
	case dnd5e.ChoiceAbilityScoreImprovement:
		resolved, err = o.engine.ApplyAbilityScoreImprovement(char, choice.ID, input.Increases)
	case dnd5e.ChoiceSubclass:
		resolved, err = o.engine.SelectSubclass(char, choice.ID, input.Subclass)
	case dnd5e.ChoiceCantrip:
		resolved, err = o.engine.LearnCantrips(char, choice.ID, input.Cantrips)
	default:
		return nil, errors.Internalf("unknown choice kind %q", choice.Kind)
	}
	if err != nil {
		return nil, err
	}

	if resolved, err = o.save(ctx, resolved); err != nil {
		return nil, err
	}

	o.publish(ctx, rpgtoolkit.EventChoiceResolve, resolved, map[string]interface{}{
		rpgtoolkit.KeyChoiceID:   choice.ID,
		rpgtoolkit.KeyChoiceKind: string(choice.Kind),
	})

	return &character.ResolveChoiceOutput{
		Character: resolved,
		Choice:    choice,
	}, nil
}

// Resource methods

// SpendResource spends uses of a tracker. A declined spend leaves the stored
// record untouched.
func (o *Orchestrator) SpendResource(
	ctx context.Context,
	input *character.SpendResourceInput,
) (*character.SpendResourceOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	char, _, err := o.load(ctx, input.CharacterID)
	if err != nil {
		return nil, err
	}

	result, err := o.engine.SpendResource(char, input.ResourceID, input.Uses)
	if err != nil {
		return nil, err
	}
	metrics.ResourceSpendsTotal.WithLabelValues(metrics.Outcome(result.Applied)).Inc()

	if !result.Applied {
		slog.InfoContext(ctx, "Resource spend declined",
			"character_id", char.ID,
			"resource_id", input.ResourceID,
			"reason", result.Reason)
		return &character.SpendResourceOutput{Result: result}, nil
	}

	if result.Character, err = o.save(ctx, result.Character); err != nil {
		return nil, err
	}

	o.publish(ctx, rpgtoolkit.EventResourceSpent, result.Character, map[string]interface{}{
		rpgtoolkit.KeyResourceID: input.ResourceID,
		rpgtoolkit.KeyUses:       input.Uses,
	})

	return &character.SpendResourceOutput{Result: result}, nil
}

// Rest takes a short or long rest
func (o *Orchestrator) Rest(ctx context.Context, input *character.RestInput) (*character.RestOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	char, _, err := o.load(ctx, input.CharacterID)
	if err != nil {
		return nil, err
	}

	rest, err := o.engine.ApplyRest(char, input.Trigger)
	if err != nil {
		return nil, err
	}

	if rest.Character, err = o.save(ctx, rest.Character); err != nil {
		return nil, err
	}
	metrics.RestsTotal.WithLabelValues(string(rest.Trigger)).Inc()

	o.publish(ctx, rpgtoolkit.EventRest, rest.Character, map[string]interface{}{
		rpgtoolkit.KeyTrigger: string(rest.Trigger),
	})

	return &character.RestOutput{Rest: rest}, nil
}

// Helper methods

// load reads a character and brings it to a consistent state: missing fields
// defaulted, trackers merged with the class table, caches recomputed
func (o *Orchestrator) load(ctx context.Context, id string) (*dnd5e.Character, []string, error) {
	if id == "" {
		return nil, nil, errors.InvalidArgument("character ID is required")
	}

	got, err := o.characterRepo.Get(ctx, characterrepo.GetInput{ID: id})
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to get character")
	}

	patched := o.patch(ctx, got.Character)
	char, err := o.refresh(got.Character)
	if err != nil {
		return nil, nil, err
	}
	return char, patched, nil
}

func (o *Orchestrator) patch(ctx context.Context, char *dnd5e.Character) []string {
	patched := migrations.EnsureRequired(char)
	if len(patched) > 0 {
		metrics.RecordsPatched.Inc()
		slog.DebugContext(ctx, "Patched character defaults",
			"character_id", char.ID,
			"fields", patched)
	}
	return patched
}

func (o *Orchestrator) refresh(char *dnd5e.Character) (*dnd5e.Character, error) {
	resources, err := o.engine.RefreshResources(char)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to refresh resources for %s", char.ID)
	}
	char.Resources = resources

	out, err := o.engine.ComputeCharacterStats(char)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to compute stats for %s", char.ID)
	}
	return out, nil
}

// save persists a whole-object replace; a failure leaves the caller's value as computed
func (o *Orchestrator) save(ctx context.Context, char *dnd5e.Character) (*dnd5e.Character, error) {
	out, err := o.characterRepo.Update(ctx, characterrepo.UpdateInput{Character: char})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to save character %s", char.ID)
	}
	return out.Character, nil
}

// publish notifies subscribers; delivery failures are logged, not returned,
// since the change is already stored
func (o *Orchestrator) publish(ctx context.Context, eventType string, char *dnd5e.Character, data map[string]interface{}) {
	if err := o.eventBus.Publish(ctx, rpgtoolkit.NewCharacterEvent(eventType, char, data)); err != nil {
		slog.WarnContext(ctx, "Failed to publish character event",
			"event", eventType,
			"character_id", char.ID,
			"error", err.Error())
	}
}
