package engine_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-sheet/internal/catalog"
	"github.com/KirkDiggler/rpg-sheet/internal/engine"
	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/testutils"
	"github.com/KirkDiggler/rpg-sheet/internal/testutils/builders"
)

type ResourcesTestSuite struct {
	suite.Suite
	engine engine.Engine
	scores dnd5e.AbilityScores
}

func (s *ResourcesTestSuite) SetupSuite() {
	cat, err := catalog.Load()
	s.Require().NoError(err)

	eng, err := engine.New(&engine.Config{Catalog: cat})
	s.Require().NoError(err)
	s.engine = eng

	s.scores = dnd5e.AbilityScores{
		Strength: 10, Dexterity: 10, Constitution: 10,
		Intelligence: 10, Wisdom: 10, Charisma: 16,
	}
}

func TestResourcesTestSuite(t *testing.T) {
	suite.Run(t, new(ResourcesTestSuite))
}

func byID(trackers []dnd5e.ResourceTracker) map[string]dnd5e.ResourceTracker {
	out := make(map[string]dnd5e.ResourceTracker, len(trackers))
	for _, tracker := range trackers {
		out[tracker.ID] = tracker
	}
	return out
}

func (s *ResourcesTestSuite) TestExpectedResources() {
	testCases := []struct {
		name     string
		class    dnd5e.Class
		level    int
		expected map[string]int
		recharge map[string]dnd5e.RechargeType
	}{
		{
			name:     "barbarian rage at 1",
			class:    dnd5e.ClassBarbarian,
			level:    1,
			expected: map[string]int{"rage": 2},
			recharge: map[string]dnd5e.RechargeType{"rage": dnd5e.RechargeLongRest},
		},
		{
			name:     "barbarian rage at 17",
			class:    dnd5e.ClassBarbarian,
			level:    17,
			expected: map[string]int{"rage": 6},
		},
		{
			name:     "bard inspiration uses charisma",
			class:    dnd5e.ClassBard,
			level:    1,
			expected: map[string]int{"bardic-inspiration": 3},
			recharge: map[string]dnd5e.RechargeType{"bardic-inspiration": dnd5e.RechargeLongRest},
		},
		{
			name:     "bard font of inspiration",
			class:    dnd5e.ClassBard,
			level:    5,
			expected: map[string]int{"bardic-inspiration": 3},
			recharge: map[string]dnd5e.RechargeType{"bardic-inspiration": dnd5e.RechargeShortRest},
		},
		{
			name:     "fighter at 1",
			class:    dnd5e.ClassFighter,
			level:    1,
			expected: map[string]int{"second-wind": 1},
		},
		{
			name:     "fighter at 17",
			class:    dnd5e.ClassFighter,
			level:    17,
			expected: map[string]int{"second-wind": 1, "action-surge": 2, "indomitable": 3},
		},
		{
			name:     "monk has no ki at 1",
			class:    dnd5e.ClassMonk,
			level:    1,
			expected: map[string]int{},
		},
		{
			name:     "monk ki scales with level",
			class:    dnd5e.ClassMonk,
			level:    7,
			expected: map[string]int{"ki": 7},
		},
		{
			name:     "paladin at 3",
			class:    dnd5e.ClassPaladin,
			level:    3,
			expected: map[string]int{"lay-on-hands": 15, "divine-sense": 4, "channel-divinity": 1},
		},
		{
			name:     "ranger has none",
			class:    dnd5e.ClassRanger,
			level:    20,
			expected: map[string]int{},
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			trackers, err := s.engine.ExpectedResources(tc.class, tc.level, s.scores)
			s.Require().NoError(err)

			got := byID(trackers)
			s.Len(got, len(tc.expected))
			for id, uses := range tc.expected {
				tracker, ok := got[id]
				s.Require().True(ok, "missing %s", id)
				s.Equal(uses, tracker.MaxUses, id)
				s.Equal(uses, tracker.CurrentUses, "%s starts full", id)
			}
			for id, recharge := range tc.recharge {
				s.Equal(recharge, got[id].RechargeType, id)
			}
		})
	}
}

func (s *ResourcesTestSuite) TestExpectedResourcesUnknownClass() {
	_, err := s.engine.ExpectedResources("artificer", 1, s.scores)
	s.True(errors.IsNotFound(err))
}

func (s *ResourcesTestSuite) TestMergeResources() {
	existing := []dnd5e.ResourceTracker{
		{ID: "rage", Name: "Rage", MaxUses: 4, CurrentUses: 4, RechargeType: dnd5e.RechargeLongRest},
		{ID: "homebrew", Name: "Homebrew", MaxUses: 1, CurrentUses: 0, RechargeType: dnd5e.RechargeNone},
	}
	expected := []dnd5e.ResourceTracker{
		{ID: "rage", Name: "Rage", MaxUses: 3, CurrentUses: 3, RechargeType: dnd5e.RechargeLongRest},
		{ID: "new", Name: "New", MaxUses: 2, CurrentUses: 2, RechargeType: dnd5e.RechargeShortRest},
	}

	merged := engine.MergeResources(existing, expected)

	got := byID(merged)
	s.Len(got, 3)
	s.Equal(3, got["rage"].MaxUses)
	s.Equal(3, got["rage"].CurrentUses, "clamped to new maximum")
	s.Equal(0, got["homebrew"].CurrentUses, "unknown trackers kept")
	s.Equal(2, got["new"].CurrentUses, "missing trackers created full")
	s.Equal(4, existing[0].CurrentUses, "input not mutated")
}

func (s *ResourcesTestSuite) TestMergeKeepsSpentUses() {
	existing := []dnd5e.ResourceTracker{
		{ID: "rage", MaxUses: 3, CurrentUses: 1, RechargeType: dnd5e.RechargeLongRest},
	}
	expected := []dnd5e.ResourceTracker{
		{ID: "rage", MaxUses: 4, CurrentUses: 4, RechargeType: dnd5e.RechargeLongRest},
	}

	merged := engine.MergeResources(existing, expected)
	s.Equal(4, merged[0].MaxUses)
	s.Equal(1, merged[0].CurrentUses)
}

func (s *ResourcesTestSuite) fighterWithResources(current int) *dnd5e.Character {
	return builders.NewCharacterBuilder().
		WithID("char-res").
		WithClass(dnd5e.ClassFighter, 10).
		WithResources(
			dnd5e.ResourceTracker{ID: "second-wind", Name: "Second Wind", MaxUses: 1, CurrentUses: current, RechargeType: dnd5e.RechargeShortRest},
			dnd5e.ResourceTracker{ID: "indomitable", Name: "Indomitable", MaxUses: 2, CurrentUses: 0, RechargeType: dnd5e.RechargeLongRest},
			dnd5e.ResourceTracker{ID: "boon", Name: "Boon", MaxUses: 1, CurrentUses: 0, RechargeType: dnd5e.RechargeNone},
		).
		Build()
}

func (s *ResourcesTestSuite) TestSpendResource() {
	char := s.fighterWithResources(1)

	result, err := s.engine.SpendResource(char, "second-wind", 1)
	s.Require().NoError(err)
	s.True(result.Applied)
	s.Equal(0, result.Character.Resources[0].CurrentUses)
	s.Equal(1, char.Resources[0].CurrentUses, "input not mutated")

	again, err := s.engine.SpendResource(result.Character, "second-wind", 1)
	s.Require().NoError(err)
	s.False(again.Applied)
	s.Contains(again.Reason, "0 of 1 uses left")
	s.Equal(0, again.Character.Resources[0].CurrentUses)
}

func (s *ResourcesTestSuite) TestSpendResourceDeclinesUnknown() {
	char := s.fighterWithResources(1)

	result, err := s.engine.SpendResource(char, "rage", 1)
	s.Require().NoError(err)
	s.False(result.Applied)
	s.Contains(result.Reason, "unknown resource")
	s.Equal(char.Resources, result.Character.Resources)
}

func (s *ResourcesTestSuite) TestSpendResourceRejectsZeroUses() {
	char := s.fighterWithResources(1)

	_, err := s.engine.SpendResource(char, "second-wind", 0)
	s.True(errors.IsInvalidArgument(err))
}

func (s *ResourcesTestSuite) TestHasUses() {
	char := s.fighterWithResources(1)
	s.True(engine.HasUses(char, "second-wind", 1))
	s.False(engine.HasUses(char, "second-wind", 2))
	s.False(engine.HasUses(char, "missing", 1))
}

func (s *ResourcesTestSuite) TestShortRestRecharge() {
	char := s.fighterWithResources(0)

	out, err := s.engine.RechargeResources(char, dnd5e.RechargeShortRest)
	s.Require().NoError(err)

	got := byID(out.Resources)
	s.Equal(1, got["second-wind"].CurrentUses)
	s.Equal(0, got["indomitable"].CurrentUses)
	s.Equal(0, got["boon"].CurrentUses)
}

func (s *ResourcesTestSuite) TestLongRestIsSupersetOfShortRest() {
	char := s.fighterWithResources(0)

	short, err := s.engine.RechargeResources(char, dnd5e.RechargeShortRest)
	s.Require().NoError(err)
	long, err := s.engine.RechargeResources(char, dnd5e.RechargeLongRest)
	s.Require().NoError(err)

	shortByID := byID(short.Resources)
	for _, tracker := range long.Resources {
		s.GreaterOrEqual(tracker.CurrentUses, shortByID[tracker.ID].CurrentUses, tracker.ID)
	}

	got := byID(long.Resources)
	s.Equal(1, got["second-wind"].CurrentUses)
	s.Equal(2, got["indomitable"].CurrentUses)
	s.Equal(0, got["boon"].CurrentUses, "no recharge trackers never refill")
}

func (s *ResourcesTestSuite) TestRechargeRejectsNone() {
	_, err := s.engine.RechargeResources(s.fighterWithResources(0), dnd5e.RechargeNone)
	s.True(errors.IsInvalidArgument(err))
}

func (s *ResourcesTestSuite) TestLongRest() {
	wizard := testutils.CreateTestWizard("wiz-rest")
	wizard.Level = 6
	wizard.HitPoints = dnd5e.HitPoints{Current: 5, Max: 32, Temporary: 4}
	wizard.HitDice = dnd5e.HitDice{Current: 1, Max: 6, Die: 6}
	wizard.Spellcasting.Slots = []int{4, 3, 3}
	wizard.Spellcasting.UsedSlots = []int{3, 1, 2}

	result, err := s.engine.ApplyRest(wizard, dnd5e.RechargeLongRest)
	s.Require().NoError(err)

	out := result.Character
	s.Equal(32, out.HitPoints.Current)
	s.Equal(0, out.HitPoints.Temporary)
	s.Equal(27, result.HitPointsHealed)
	s.Equal(4, out.HitDice.Current)
	s.Equal(3, result.HitDiceRecovered)
	s.Equal([]int{0, 0, 0}, out.Spellcasting.UsedSlots)
	s.Equal([]int{3, 1, 2}, wizard.Spellcasting.UsedSlots, "input not mutated")
}

func (s *ResourcesTestSuite) TestLongRestRegainsAtLeastOneHitDie() {
	char := testutils.CreateTestCharacter("char-1")
	char.HitDice = dnd5e.HitDice{Current: 0, Max: 1, Die: 10}

	result, err := s.engine.ApplyRest(char, dnd5e.RechargeLongRest)
	s.Require().NoError(err)
	s.Equal(1, result.Character.HitDice.Current)
}

func (s *ResourcesTestSuite) TestShortRest() {
	wizard := testutils.CreateTestWizard("wiz-short")
	wizard.HitPoints.Current = 1
	wizard.Spellcasting.UsedSlots = []int{2}

	result, err := s.engine.ApplyRest(wizard, dnd5e.RechargeShortRest)
	s.Require().NoError(err)
	s.Equal(1, result.Character.HitPoints.Current)
	s.Equal([]int{2}, result.Character.Spellcasting.UsedSlots)
	s.Zero(result.HitDiceRecovered)
}

func (s *ResourcesTestSuite) TestShortRestRestoresPactSlots() {
	warlock := builders.NewCharacterBuilder().
		WithClass(dnd5e.ClassWarlock, 8).
		WithLevel(5).
		WithSpellcasting(dnd5e.AbilityCharisma, []string{"eldritch-blast"}, []int{0, 0, 2}).
		Build()
	warlock.Spellcasting.PactMagic = true
	warlock.Spellcasting.UsedSlots = []int{0, 0, 2}

	result, err := s.engine.ApplyRest(warlock, dnd5e.RechargeShortRest)
	s.Require().NoError(err)
	s.Equal([]int{0, 0, 0}, result.Character.Spellcasting.UsedSlots)
}
