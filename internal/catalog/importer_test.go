package catalog_test

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/fadedpez/dnd5e-api/entities"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-sheet/internal/catalog"
	catalogmock "github.com/KirkDiggler/rpg-sheet/internal/catalog/mock"
	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
)

type ImporterTestSuite struct {
	suite.Suite
	ctrl       *gomock.Controller
	mockClient *catalogmock.MockAPIClient
	importer   *catalog.Importer
	ctx        context.Context
}

func (s *ImporterTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockClient = catalogmock.NewMockAPIClient(s.ctrl)
	s.ctx = context.Background()

	importer, err := catalog.NewImporter(&catalog.ImporterConfig{Client: s.mockClient})
	s.Require().NoError(err)
	s.importer = importer
}

func (s *ImporterTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestImporterTestSuite(t *testing.T) {
	suite.Run(t, new(ImporterTestSuite))
}

func (s *ImporterTestSuite) TestImportArmorCategory() {
	s.mockClient.EXPECT().GetEquipmentCategory("armor").Return(&entities.EquipmentCategory{
		Equipment: []*entities.ReferenceItem{
			{Key: "scale-mail", Name: "Scale Mail"},
			{Key: "leather-armor", Name: "Leather Armor"},
			{Key: "plate-armor", Name: "Plate Armor"},
		},
	}, nil)
	s.mockClient.EXPECT().GetEquipment("scale-mail").Return(&entities.Armor{
		Key:           "scale-mail",
		Name:          "Scale Mail",
		ArmorCategory: "Medium",
		ArmorClass:    &entities.ArmorClass{Base: 14, DexBonus: true},
	}, nil)
	s.mockClient.EXPECT().GetEquipment("leather-armor").Return(&entities.Armor{
		Key:           "leather-armor",
		Name:          "Leather Armor",
		ArmorCategory: "Light",
		ArmorClass:    &entities.ArmorClass{Base: 11, DexBonus: true},
	}, nil)
	s.mockClient.EXPECT().GetEquipment("plate-armor").Return(&entities.Armor{
		Key:           "plate-armor",
		Name:          "Plate Armor",
		ArmorCategory: "Heavy",
		ArmorClass:    &entities.ArmorClass{Base: 18},
	}, nil)

	result, err := s.importer.ImportCategory(s.ctx, "armor")
	s.Require().NoError(err)
	s.Require().Len(result, 3)

	s.Equal("leather-armor", result[0].Slug)
	s.Equal(dnd5e.ArmorLight, result[0].ArmorCategory)
	s.Nil(result[0].MaxDexBonus)

	s.Equal("plate-armor", result[1].Slug)
	s.Equal(18, result[1].BaseAC)

	s.Equal("scale-mail", result[2].Slug)
	s.Require().NotNil(result[2].MaxDexBonus)
	s.Equal(2, *result[2].MaxDexBonus)
}

func (s *ImporterTestSuite) TestImportSkipsUnsupportedGear() {
	s.mockClient.EXPECT().GetEquipmentCategory("weapon").Return(&entities.EquipmentCategory{
		Equipment: []*entities.ReferenceItem{
			{Key: "longsword"},
			{Key: "rope"},
		},
	}, nil)
	s.mockClient.EXPECT().GetEquipment("longsword").Return(&entities.Weapon{
		Key:            "longsword",
		Name:           "Longsword",
		WeaponCategory: "Martial",
		Damage:         &entities.Damage{DamageDice: "1d8"},
	}, nil)
	s.mockClient.EXPECT().GetEquipment("rope").Return(&entities.Equipment{Key: "rope"}, nil)

	result, err := s.importer.ImportCategory(s.ctx, "weapon")
	s.Require().NoError(err)
	s.Require().Len(result, 1)
	s.Equal("1d8", result[0].Damage)
	s.Equal("Martial", result[0].WeaponCategory)
}

func (s *ImporterTestSuite) TestImportCategoryFailure() {
	s.mockClient.EXPECT().GetEquipmentCategory("armor").Return(nil, stderrors.New("connection refused"))

	_, err := s.importer.ImportCategory(s.ctx, "armor")
	s.Require().Error(err)
	s.Equal(errors.CodeUnavailable, errors.GetCode(err))
}

func (s *ImporterTestSuite) TestImportItemFailure() {
	s.mockClient.EXPECT().GetEquipmentCategory("armor").Return(&entities.EquipmentCategory{
		Equipment: []*entities.ReferenceItem{{Key: "chain-mail"}},
	}, nil)
	s.mockClient.EXPECT().GetEquipment("chain-mail").Return(nil, stderrors.New("timeout"))

	_, err := s.importer.ImportCategory(s.ctx, "armor")
	s.Require().Error(err)
	s.Contains(err.Error(), "chain-mail")
}

func (s *ImporterTestSuite) TestEmptyCategory() {
	_, err := s.importer.ImportCategory(s.ctx, "")
	s.True(errors.IsInvalidArgument(err))

	s.mockClient.EXPECT().GetEquipmentCategory("potion").Return(&entities.EquipmentCategory{}, nil)
	_, err = s.importer.ImportCategory(s.ctx, "potion")
	s.True(errors.IsNotFound(err))
}
