package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-sheet/internal/catalog"
	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
)

type CatalogTestSuite struct {
	suite.Suite
	cat *catalog.Catalog
}

func (s *CatalogTestSuite) SetupSuite() {
	cat, err := catalog.Load()
	s.Require().NoError(err)
	s.cat = cat
}

func TestCatalogTestSuite(t *testing.T) {
	suite.Run(t, new(CatalogTestSuite))
}

func (s *CatalogTestSuite) TestEmbeddedArmor() {
	testCases := []struct {
		slug     string
		category dnd5e.ArmorCategory
		base     int
	}{
		{"leather-armor", dnd5e.ArmorLight, 11},
		{"studded-leather-armor", dnd5e.ArmorLight, 12},
		{"chain-shirt", dnd5e.ArmorMedium, 13},
		{"half-plate-armor", dnd5e.ArmorMedium, 15},
		{"chain-mail", dnd5e.ArmorHeavy, 16},
		{"plate-armor", dnd5e.ArmorHeavy, 18},
	}

	for _, tc := range testCases {
		s.Run(tc.slug, func() {
			entry, ok := s.cat.Armor(tc.slug)
			s.Require().True(ok)
			s.Equal(tc.category, entry.ArmorCategory)
			s.Equal(tc.base, entry.BaseAC)
		})
	}
}

func (s *CatalogTestSuite) TestShieldIsNotArmor() {
	_, ok := s.cat.Armor(dnd5e.ShieldSlug)
	s.False(ok)

	entry, ok := s.cat.Equipment(dnd5e.ShieldSlug)
	s.Require().True(ok)
	s.Equal(dnd5e.ArmorShield, entry.ArmorCategory)
}

func (s *CatalogTestSuite) TestAllClassesPresent() {
	s.Len(s.cat.Classes(), 12)

	rules, err := s.cat.Class(dnd5e.ClassWizard)
	s.Require().NoError(err)
	s.Equal(6, rules.HitDie)
	s.Equal(catalog.ProgressionFull, rules.Spellcasting)
	s.Equal(dnd5e.AbilityIntelligence, rules.SpellAbility)
	s.Equal(2, rules.SubclassLevel)
}

func (s *CatalogTestSuite) TestUnknownClass() {
	_, err := s.cat.Class("artificer")
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
}

func (s *CatalogTestSuite) TestImprovementLevels() {
	fighter, err := s.cat.Class(dnd5e.ClassFighter)
	s.Require().NoError(err)
	wizard, err := s.cat.Class(dnd5e.ClassWizard)
	s.Require().NoError(err)

	for _, level := range []int{4, 6, 8, 12, 14, 16, 19} {
		s.True(fighter.IsImprovementLevel(level), "fighter level %d", level)
	}
	s.True(wizard.IsImprovementLevel(4))
	s.False(wizard.IsImprovementLevel(6))
	s.False(wizard.IsImprovementLevel(20))
}

func (s *CatalogTestSuite) TestCantripsKnown() {
	cleric, err := s.cat.Class(dnd5e.ClassCleric)
	s.Require().NoError(err)

	s.Equal(3, cleric.CantripsKnownAt(1))
	s.Equal(3, cleric.CantripsKnownAt(3))
	s.Equal(4, cleric.CantripsKnownAt(4))
	s.Equal(5, cleric.CantripsKnownAt(20))

	fighter, err := s.cat.Class(dnd5e.ClassFighter)
	s.Require().NoError(err)
	s.Equal(0, fighter.CantripsKnownAt(10))
}

func (s *CatalogTestSuite) TestWithEquipmentOverlays() {
	maxDex := 2
	custom := &dnd5e.EquipmentCatalogEntry{
		Slug:          "mithral-half-plate",
		Name:          "Mithral Half Plate",
		ArmorCategory: dnd5e.ArmorMedium,
		BaseAC:        15,
		MaxDexBonus:   &maxDex,
	}

	extended := s.cat.WithEquipment([]*dnd5e.EquipmentCatalogEntry{custom})

	_, ok := extended.Armor("mithral-half-plate")
	s.True(ok)
	_, ok = s.cat.Armor("mithral-half-plate")
	s.False(ok, "original catalog is not modified")
}

func TestFeatureRuleMaxUses(t *testing.T) {
	scores := dnd5e.AbilityScores{Charisma: 16}

	t.Run("step table", func(t *testing.T) {
		rule := catalog.FeatureRule{Steps: []catalog.LevelStep{{Level: 1, Value: 2}, {Level: 3, Value: 3}}}
		assert.Equal(t, 2, rule.MaxUsesAt(2, scores))
		assert.Equal(t, 3, rule.MaxUsesAt(20, scores))
		assert.Equal(t, 1, rule.Unlocked())
	})

	t.Run("per level", func(t *testing.T) {
		rule := catalog.FeatureRule{PerLevel: 5, UnlockLevel: 1}
		assert.Equal(t, 35, rule.MaxUsesAt(7, scores))
	})

	t.Run("ability modifier with bonus", func(t *testing.T) {
		rule := catalog.FeatureRule{Ability: dnd5e.AbilityCharisma, Bonus: 1, Minimum: 1}
		assert.Equal(t, 4, rule.MaxUsesAt(1, scores))
	})

	t.Run("ability modifier never below minimum", func(t *testing.T) {
		rule := catalog.FeatureRule{Ability: dnd5e.AbilityCharisma, Minimum: 1}
		assert.Equal(t, 1, rule.MaxUsesAt(1, dnd5e.AbilityScores{Charisma: 6}))
	})

	t.Run("recharge changes with level", func(t *testing.T) {
		rule := catalog.FeatureRule{
			Recharge:        dnd5e.RechargeLongRest,
			RechargeChanges: []catalog.RechargeStep{{Level: 5, Recharge: dnd5e.RechargeShortRest}},
		}
		assert.Equal(t, dnd5e.RechargeLongRest, rule.RechargeAt(4))
		assert.Equal(t, dnd5e.RechargeShortRest, rule.RechargeAt(5))
	})
}

func TestParseRejectsBadClassRules(t *testing.T) {
	classes := []byte(`
classes:
  - class: bogus
    hitDie: 7
    savingThrows: [str, con]
    spellcasting: none
    subclassLevel: 3
`)
	_, err := catalog.Parse([]byte("armor: []\n"), classes)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestParseRejectsDuplicateSlugs(t *testing.T) {
	equipment := []byte(`
armor:
  - slug: leather-armor
    armorCategory: Light
    baseAC: 11
weapons:
  - slug: leather-armor
`)
	_, err := catalog.Parse(equipment, []byte("classes: []\n"))
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestMarshalEquipmentRoundTrip(t *testing.T) {
	maxDex := 2
	entries := []*dnd5e.EquipmentCatalogEntry{
		{Slug: "breastplate", Name: "Breastplate", ArmorCategory: dnd5e.ArmorMedium, BaseAC: 14, MaxDexBonus: &maxDex},
		{Slug: "longsword", Name: "Longsword", WeaponCategory: "Martial", Damage: "1d8"},
	}

	data, err := catalog.MarshalEquipment(entries)
	require.NoError(t, err)

	parsed, err := catalog.ParseEquipment(data)
	require.NoError(t, err)
	assert.Equal(t, entries, parsed)
}
