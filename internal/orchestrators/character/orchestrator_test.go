package character_test

import (
	"context"
	"testing"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-sheet/internal/catalog"
	"github.com/KirkDiggler/rpg-sheet/internal/engine"
	"github.com/KirkDiggler/rpg-sheet/internal/engine/rpgtoolkit"
	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/metrics"
	"github.com/KirkDiggler/rpg-sheet/internal/orchestrators/character"
	characterrepo "github.com/KirkDiggler/rpg-sheet/internal/repositories/character"
	characterrepomock "github.com/KirkDiggler/rpg-sheet/internal/repositories/character/mock"
	charactersvc "github.com/KirkDiggler/rpg-sheet/internal/services/character"
	"github.com/KirkDiggler/rpg-sheet/internal/testutils"
	"github.com/KirkDiggler/rpg-sheet/internal/testutils/builders"
)

type OrchestratorTestSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	mockCharRepo *characterrepomock.MockRepository
	engine       engine.Engine
	bus          events.EventBus
	published    []events.Event
	orchestrator *character.Orchestrator
	ctx          context.Context
}

func (s *OrchestratorTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockCharRepo = characterrepomock.NewMockRepository(s.ctrl)
	s.ctx = context.Background()

	cat, err := catalog.Load()
	s.Require().NoError(err)
	s.engine, err = engine.New(&engine.Config{Catalog: cat})
	s.Require().NoError(err)

	s.published = nil
	s.bus = events.NewBus()
	for _, eventType := range rpgtoolkit.EventTypes {
		s.bus.SubscribeFunc(eventType, 0, func(_ context.Context, e events.Event) error {
			s.published = append(s.published, e)
			return nil
		})
	}

	orchestrator, err := character.New(&character.Config{
		CharacterRepo: s.mockCharRepo,
		Engine:        s.engine,
		EventBus:      s.bus,
	})
	s.Require().NoError(err)
	s.orchestrator = orchestrator
}

func (s *OrchestratorTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestOrchestratorTestSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}

func (s *OrchestratorTestSuite) expectGet(char *dnd5e.Character) {
	s.mockCharRepo.EXPECT().
		Get(s.ctx, characterrepo.GetInput{ID: char.ID}).
		Return(&characterrepo.GetOutput{Character: char}, nil)
}

// expectUpdate captures the saved character and echoes it back
func (s *OrchestratorTestSuite) expectUpdate(saved **dnd5e.Character) {
	s.mockCharRepo.EXPECT().
		Update(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input characterrepo.UpdateInput) (*characterrepo.UpdateOutput, error) {
			if saved != nil {
				*saved = input.Character
			}
			return &characterrepo.UpdateOutput{Character: input.Character}, nil
		})
}

func (s *OrchestratorTestSuite) publishedTypes() []string {
	types := make([]string, 0, len(s.published))
	for _, e := range s.published {
		types = append(types, e.Type())
	}
	return types
}

func (s *OrchestratorTestSuite) TestNewValidation() {
	_, err := character.New(nil)
	s.True(errors.IsInvalidArgument(err))

	_, err = character.New(&character.Config{CharacterRepo: s.mockCharRepo})
	s.Require().Error(err)
	s.Contains(err.Error(), "Engine")
	s.Contains(err.Error(), "EventBus")
}

func (s *OrchestratorTestSuite) TestGetCharacter_RefreshesCaches() {
	char := builders.NewCharacterBuilder().
		WithID("char-1").
		WithClass(dnd5e.ClassFighter, 10).
		WithLevel(5).
		WithAbilityScores(16, 14, 14, 10, 12, 8).
		WithSkill(dnd5e.SkillAthletics, false).
		WithArmor("chain-mail").
		Build()
	s.expectGet(char)

	output, err := s.orchestrator.GetCharacter(s.ctx, &charactersvc.GetCharacterInput{CharacterID: "char-1"})
	s.Require().NoError(err)

	s.Equal(3, output.Character.ProficiencyBonus)
	s.Equal(16, output.Character.ArmorClass)
	s.Equal(2, output.Character.Initiative)
	s.Equal(6, output.Stats.Skills[dnd5e.SkillAthletics])
	s.Equal(11, output.Stats.PassivePerception)
	s.Empty(output.Patched)

	_, hasSurge := output.Character.FindResource("action-surge")
	s.True(hasSurge)
}

func (s *OrchestratorTestSuite) TestGetCharacter_PatchesMissingFields() {
	before := testutil.ToFloat64(metrics.RecordsPatched)

	char := testutils.CreateTestCharacter("char-1")
	char.Skills = nil
	char.Edition = ""
	s.expectGet(char)

	output, err := s.orchestrator.GetCharacter(s.ctx, &charactersvc.GetCharacterInput{CharacterID: "char-1"})
	s.Require().NoError(err)

	s.Contains(output.Patched, "skills")
	s.Contains(output.Patched, "edition")
	s.Equal(dnd5e.DefaultEdition, output.Character.Edition)
	s.NotNil(output.Character.Skills)
	s.Equal(before+1, testutil.ToFloat64(metrics.RecordsPatched))
}

func (s *OrchestratorTestSuite) TestGetCharacter_Errors() {
	s.Run("empty id", func() {
		_, err := s.orchestrator.GetCharacter(s.ctx, &charactersvc.GetCharacterInput{})
		s.True(errors.IsInvalidArgument(err))
	})

	s.Run("nil input", func() {
		_, err := s.orchestrator.GetCharacter(s.ctx, nil)
		s.True(errors.IsInvalidArgument(err))
	})

	s.Run("corrupt record keeps its code", func() {
		s.mockCharRepo.EXPECT().
			Get(s.ctx, characterrepo.GetInput{ID: "char-bad"}).
			Return(nil, errors.DataLossf("character char-bad is corrupt"))

		_, err := s.orchestrator.GetCharacter(s.ctx, &charactersvc.GetCharacterInput{CharacterID: "char-bad"})
		s.Equal(errors.CodeDataLoss, errors.GetCode(err))
	})
}

func (s *OrchestratorTestSuite) TestImportCharacter_MigratesLegacyRecord() {
	var created *dnd5e.Character
	s.mockCharRepo.EXPECT().
		Create(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input characterrepo.CreateInput) (*characterrepo.CreateOutput, error) {
			created = input.Character
			return &characterrepo.CreateOutput{Character: input.Character}, nil
		})

	output, err := s.orchestrator.ImportCharacter(s.ctx, &charactersvc.ImportCharacterInput{
		Data: []byte(testutils.LegacyCharacterJSON),
	})
	s.Require().NoError(err)
	s.Require().NotNil(created)

	char := output.Character
	s.Equal("char-legacy", char.ID)
	s.Equal("dwarf", char.Species)
	s.Empty(char.LegacyRace)
	s.Equal(dnd5e.DefaultEdition, char.Edition)
	s.Equal(dnd5e.HitDice{Current: 3, Max: 3, Die: 8}, char.HitDice)
	s.Require().NotNil(char.Spellcasting)
	s.Equal([]int{0, 0}, char.Spellcasting.UsedSlots)
	s.Equal(2, char.ProficiencyBonus)

	idx, ok := char.FindResource("channel-divinity")
	s.Require().True(ok)
	s.Equal(1, char.Resources[idx].CurrentUses)
}

func (s *OrchestratorTestSuite) TestImportCharacter_Existing() {
	s.Run("without overwrite", func() {
		s.mockCharRepo.EXPECT().
			Create(s.ctx, gomock.Any()).
			Return(nil, errors.AlreadyExistsf("character char-legacy already exists"))

		_, err := s.orchestrator.ImportCharacter(s.ctx, &charactersvc.ImportCharacterInput{
			Data: []byte(testutils.LegacyCharacterJSON),
		})
		s.True(errors.IsAlreadyExists(err))
	})

	s.Run("with overwrite", func() {
		s.mockCharRepo.EXPECT().
			Create(s.ctx, gomock.Any()).
			Return(nil, errors.AlreadyExistsf("character char-legacy already exists"))
		s.expectUpdate(nil)

		output, err := s.orchestrator.ImportCharacter(s.ctx, &charactersvc.ImportCharacterInput{
			Data:      []byte(testutils.LegacyCharacterJSON),
			Overwrite: true,
		})
		s.Require().NoError(err)
		s.Equal("char-legacy", output.Character.ID)
	})
}

func (s *OrchestratorTestSuite) TestImportCharacter_RejectsBadData() {
	testCases := []struct {
		name  string
		input *charactersvc.ImportCharacterInput
		code  errors.Code
	}{
		{
			name:  "empty",
			input: &charactersvc.ImportCharacterInput{},
			code:  errors.CodeInvalidArgument,
		},
		{
			name:  "not json",
			input: &charactersvc.ImportCharacterInput{Data: []byte("{nope")},
			code:  errors.CodeDataLoss,
		},
		{
			name:  "wrong shape",
			input: &charactersvc.ImportCharacterInput{Data: []byte(`{"id":"x","level":"high"}`)},
			code:  errors.CodeInvalidArgument,
		},
		{
			name: "schema from the future",
			input: &charactersvc.ImportCharacterInput{
				Data:          []byte(testutils.LegacyCharacterJSON),
				SchemaVersion: 99,
			},
			code: errors.CodeFailedPrecondition,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := s.orchestrator.ImportCharacter(s.ctx, tc.input)
			s.Equal(tc.code, errors.GetCode(err), "got %v", err)
		})
	}
}

func (s *OrchestratorTestSuite) TestLevelUp_PersistsAndPublishes() {
	before := testutil.ToFloat64(metrics.LevelTransitionsTotal.WithLabelValues(metrics.DirectionUp, metrics.OutcomeApplied))

	var saved *dnd5e.Character
	s.expectGet(testutils.CreateTestCharacter("char-1"))
	s.expectUpdate(&saved)

	output, err := s.orchestrator.LevelUp(s.ctx, &charactersvc.LevelUpInput{CharacterID: "char-1"})
	s.Require().NoError(err)

	t := output.Transition
	s.True(t.Applied)
	s.Equal(1, t.FromLevel)
	s.Equal(2, t.ToLevel)
	s.Equal(7, t.HitPointDelta)
	s.Require().NotNil(saved)
	s.Equal(2, saved.Level)
	s.Equal(18, saved.HitPoints.Max)

	s.Equal([]string{rpgtoolkit.EventLevelUp}, s.publishedTypes())
	to, ok := s.published[0].Context().Get(rpgtoolkit.KeyToLevel)
	s.True(ok)
	s.Equal(2, to)

	s.Equal(before+1, testutil.ToFloat64(metrics.LevelTransitionsTotal.WithLabelValues(metrics.DirectionUp, metrics.OutcomeApplied)))
}

func (s *OrchestratorTestSuite) TestLevelUp_SurfacesChoices() {
	char := testutils.CreateTestCharacter("char-1")
	for char.Level < 3 {
		t, err := s.engine.LevelUp(char)
		s.Require().NoError(err)
		char = t.Character
	}
	s.expectGet(char)
	s.expectUpdate(nil)

	output, err := s.orchestrator.LevelUp(s.ctx, &charactersvc.LevelUpInput{CharacterID: "char-1"})
	s.Require().NoError(err)

	s.Require().Len(output.Transition.NewChoices, 1)
	s.Equal(engine.ChoiceID(dnd5e.ChoiceAbilityScoreImprovement, 4), output.Transition.NewChoices[0].ID)
	s.Equal([]string{rpgtoolkit.EventLevelUp, rpgtoolkit.EventChoiceSurface}, s.publishedTypes())
}

func (s *OrchestratorTestSuite) TestLevelUp_DeclinedAtMaximum() {
	before := testutil.ToFloat64(metrics.LevelTransitionsTotal.WithLabelValues(metrics.DirectionUp, metrics.OutcomeDeclined))

	char := builders.NewCharacterBuilder().WithID("char-20").WithLevel(20).Build()
	s.expectGet(char)
	// no Update expected

	output, err := s.orchestrator.LevelUp(s.ctx, &charactersvc.LevelUpInput{CharacterID: "char-20"})
	s.Require().NoError(err)

	s.False(output.Transition.Applied)
	s.Equal("already at maximum level 20", output.Transition.Reason)
	s.Empty(s.published)
	s.Equal(before+1, testutil.ToFloat64(metrics.LevelTransitionsTotal.WithLabelValues(metrics.DirectionUp, metrics.OutcomeDeclined)))
}

func (s *OrchestratorTestSuite) TestLevelDown() {
	s.Run("declined at minimum", func() {
		s.expectGet(testutils.CreateTestCharacter("char-1"))

		output, err := s.orchestrator.LevelDown(s.ctx, &charactersvc.LevelDownInput{CharacterID: "char-1"})
		s.Require().NoError(err)
		s.False(output.Transition.Applied)
		s.Equal("already at minimum level 1", output.Transition.Reason)
	})

	s.Run("reverts a level", func() {
		s.published = nil
		up, err := s.engine.LevelUp(testutils.CreateTestCharacter("char-1"))
		s.Require().NoError(err)

		var saved *dnd5e.Character
		s.expectGet(up.Character)
		s.expectUpdate(&saved)

		output, err := s.orchestrator.LevelDown(s.ctx, &charactersvc.LevelDownInput{CharacterID: "char-1"})
		s.Require().NoError(err)
		s.True(output.Transition.Applied)
		s.Equal(1, saved.Level)
		s.Equal(11, saved.HitPoints.Max)
		s.Equal([]string{rpgtoolkit.EventLevelDown}, s.publishedTypes())
	})
}

func (s *OrchestratorTestSuite) TestLevelUp_SaveFailure() {
	s.expectGet(testutils.CreateTestCharacter("char-1"))
	s.mockCharRepo.EXPECT().
		Update(s.ctx, gomock.Any()).
		Return(nil, errors.Unavailablef("redis is down"))

	_, err := s.orchestrator.LevelUp(s.ctx, &charactersvc.LevelUpInput{CharacterID: "char-1"})
	s.Equal(errors.CodeUnavailable, errors.GetCode(err))
	s.Empty(s.published)
}

func (s *OrchestratorTestSuite) TestResolveChoice_AbilityScoreImprovement() {
	char := testutils.CreateTestCharacter("char-1")
	for char.Level < 4 {
		t, err := s.engine.LevelUp(char)
		s.Require().NoError(err)
		char = t.Character
	}
	choiceID := engine.ChoiceID(dnd5e.ChoiceAbilityScoreImprovement, 4)

	var saved *dnd5e.Character
	s.expectGet(char)
	s.expectUpdate(&saved)

	output, err := s.orchestrator.ResolveChoice(s.ctx, &charactersvc.ResolveChoiceInput{
		CharacterID: "char-1",
		ChoiceID:    choiceID,
		Increases:   map[dnd5e.Ability]int{dnd5e.AbilityStrength: 2},
	})
	s.Require().NoError(err)

	s.Equal(dnd5e.ChoiceAbilityScoreImprovement, output.Choice.Kind)
	s.Equal(17, saved.AbilityScores.Strength)
	_, stillPending := saved.FindPendingChoice(choiceID)
	s.False(stillPending)
	s.Equal([]string{rpgtoolkit.EventChoiceResolve}, s.publishedTypes())
}

func (s *OrchestratorTestSuite) TestResolveChoice_Errors() {
	s.Run("missing choice id", func() {
		_, err := s.orchestrator.ResolveChoice(s.ctx, &charactersvc.ResolveChoiceInput{CharacterID: "char-1"})
		s.True(errors.IsInvalidArgument(err))
	})

	s.Run("choice not pending", func() {
		s.expectGet(testutils.CreateTestCharacter("char-1"))
		_, err := s.orchestrator.ResolveChoice(s.ctx, &charactersvc.ResolveChoiceInput{
			CharacterID: "char-1",
			ChoiceID:    "subclass-3",
		})
		s.True(errors.IsNotFound(err))
	})
}

func (s *OrchestratorTestSuite) TestSpendResource() {
	s.Run("applied", func() {
		var saved *dnd5e.Character
		s.expectGet(testutils.CreateTestCharacter("char-1"))
		s.expectUpdate(&saved)

		output, err := s.orchestrator.SpendResource(s.ctx, &charactersvc.SpendResourceInput{
			CharacterID: "char-1",
			ResourceID:  "second-wind",
			Uses:        1,
		})
		s.Require().NoError(err)
		s.True(output.Result.Applied)

		idx, ok := saved.FindResource("second-wind")
		s.Require().True(ok)
		s.Equal(0, saved.Resources[idx].CurrentUses)
		s.Equal([]string{rpgtoolkit.EventResourceSpent}, s.publishedTypes())
	})

	s.Run("declined when exhausted", func() {
		s.published = nil
		char := builders.NewCharacterBuilder().
			WithID("char-2").
			WithResources(dnd5e.ResourceTracker{
				ID: "second-wind", Name: "Second Wind", MaxUses: 1, CurrentUses: 0,
				RechargeType: dnd5e.RechargeShortRest,
			}).
			Build()
		s.expectGet(char)

		output, err := s.orchestrator.SpendResource(s.ctx, &charactersvc.SpendResourceInput{
			CharacterID: "char-2",
			ResourceID:  "second-wind",
			Uses:        1,
		})
		s.Require().NoError(err)
		s.False(output.Result.Applied)
		s.Equal("0 of 1 uses left", output.Result.Reason)
		s.Empty(s.published)
	})

	s.Run("zero uses", func() {
		s.expectGet(testutils.CreateTestCharacter("char-1"))
		_, err := s.orchestrator.SpendResource(s.ctx, &charactersvc.SpendResourceInput{
			CharacterID: "char-1",
			ResourceID:  "second-wind",
		})
		s.True(errors.IsInvalidArgument(err))
	})
}

func (s *OrchestratorTestSuite) TestRest() {
	s.Run("long rest restores slots", func() {
		before := testutil.ToFloat64(metrics.RestsTotal.WithLabelValues(string(dnd5e.RechargeLongRest)))

		char := testutils.CreateTestWizard("char-w")
		char.HitPoints.Current = 1
		char.Spellcasting.UsedSlots = []int{2}

		var saved *dnd5e.Character
		s.expectGet(char)
		s.expectUpdate(&saved)

		output, err := s.orchestrator.Rest(s.ctx, &charactersvc.RestInput{
			CharacterID: "char-w",
			Trigger:     dnd5e.RechargeLongRest,
		})
		s.Require().NoError(err)

		s.Equal(dnd5e.RechargeLongRest, output.Rest.Trigger)
		s.Equal(saved.HitPoints.Max, saved.HitPoints.Current)
		s.Equal([]int{0}, saved.Spellcasting.UsedSlots)
		s.Equal([]string{rpgtoolkit.EventRest}, s.publishedTypes())
		s.Equal(before+1, testutil.ToFloat64(metrics.RestsTotal.WithLabelValues(string(dnd5e.RechargeLongRest))))
	})

	s.Run("unknown trigger", func() {
		s.expectGet(testutils.CreateTestWizard("char-w"))
		_, err := s.orchestrator.Rest(s.ctx, &charactersvc.RestInput{
			CharacterID: "char-w",
			Trigger:     dnd5e.RechargeNone,
		})
		s.True(errors.IsInvalidArgument(err))
	})
}

func (s *OrchestratorTestSuite) TestListAndDelete() {
	s.mockCharRepo.EXPECT().
		List(s.ctx, characterrepo.ListInput{}).
		Return(&characterrepo.ListOutput{IDs: []string{"char-1", "char-2"}}, nil)

	list, err := s.orchestrator.ListCharacters(s.ctx, &charactersvc.ListCharactersInput{})
	s.Require().NoError(err)
	s.Equal([]string{"char-1", "char-2"}, list.CharacterIDs)

	s.mockCharRepo.EXPECT().
		Delete(s.ctx, characterrepo.DeleteInput{ID: "char-1"}).
		Return(&characterrepo.DeleteOutput{}, nil)

	deleted, err := s.orchestrator.DeleteCharacter(s.ctx, &charactersvc.DeleteCharacterInput{CharacterID: "char-1"})
	s.Require().NoError(err)
	s.Contains(deleted.Message, "char-1")

	s.mockCharRepo.EXPECT().
		Delete(s.ctx, characterrepo.DeleteInput{ID: "ghost"}).
		Return(nil, errors.NotFoundf("character ghost not found"))

	_, err = s.orchestrator.DeleteCharacter(s.ctx, &charactersvc.DeleteCharacterInput{CharacterID: "ghost"})
	s.True(errors.IsNotFound(err))
}
