package equipment_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/repositories/equipment"
	"github.com/KirkDiggler/rpg-sheet/internal/testutils"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	miniRedis *miniredis.Miniredis
	cleanup   func()
	repo      equipment.Repository
	ctx       context.Context
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	client, mr, cleanup := testutils.CreateTestRedisServer(s.T())
	s.miniRedis = mr
	s.cleanup = cleanup

	repo, err := equipment.NewRedis(&equipment.RedisConfig{Client: client})
	s.Require().NoError(err)
	s.repo = repo
	s.ctx = context.Background()
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.cleanup()
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) TestUpdateGetList() {
	maxDex := 2
	entries := []*dnd5e.EquipmentCatalogEntry{
		{Slug: "scale-mail", Name: "Scale Mail", ArmorCategory: dnd5e.ArmorMedium, BaseAC: 14, MaxDexBonus: &maxDex},
		{Slug: "chain-mail", Name: "Chain Mail", ArmorCategory: dnd5e.ArmorHeavy, BaseAC: 16},
	}

	out, err := s.repo.Update(s.ctx, equipment.UpdateInput{Entries: entries})
	s.Require().NoError(err)
	s.Equal(2, out.Stored)
	s.True(s.miniRedis.Exists(equipment.Key))

	got, err := s.repo.Get(s.ctx, equipment.GetInput{Slug: "scale-mail"})
	s.Require().NoError(err)
	s.Equal(entries[0], got.Entry)

	list, err := s.repo.List(s.ctx, equipment.ListInput{})
	s.Require().NoError(err)
	s.Require().Len(list.Entries, 2)
	s.Equal("chain-mail", list.Entries[0].Slug)
	s.Equal("scale-mail", list.Entries[1].Slug)
}

func (s *RedisRepositoryTestSuite) TestUpdateReplacesBySlug() {
	_, err := s.repo.Update(s.ctx, equipment.UpdateInput{Entries: []*dnd5e.EquipmentCatalogEntry{
		{Slug: "chain-mail", Name: "Chain Mail", ArmorCategory: dnd5e.ArmorHeavy, BaseAC: 15},
	}})
	s.Require().NoError(err)
	_, err = s.repo.Update(s.ctx, equipment.UpdateInput{Entries: []*dnd5e.EquipmentCatalogEntry{
		{Slug: "chain-mail", Name: "Chain Mail", ArmorCategory: dnd5e.ArmorHeavy, BaseAC: 16},
	}})
	s.Require().NoError(err)

	got, err := s.repo.Get(s.ctx, equipment.GetInput{Slug: "chain-mail"})
	s.Require().NoError(err)
	s.Equal(16, got.Entry.BaseAC)
}

func (s *RedisRepositoryTestSuite) TestUpdateRejectsMissingSlug() {
	_, err := s.repo.Update(s.ctx, equipment.UpdateInput{Entries: []*dnd5e.EquipmentCatalogEntry{{Name: "Nameless"}}})
	s.True(errors.IsInvalidArgument(err))
}

func (s *RedisRepositoryTestSuite) TestNotFound() {
	_, err := s.repo.Get(s.ctx, equipment.GetInput{Slug: "plate-armor"})
	s.True(errors.IsNotFound(err))

	_, err = s.repo.Delete(s.ctx, equipment.DeleteInput{Slug: "plate-armor"})
	s.True(errors.IsNotFound(err))

	_, err = s.repo.Get(s.ctx, equipment.GetInput{})
	s.True(errors.IsInvalidArgument(err))
}

func (s *RedisRepositoryTestSuite) TestDelete() {
	_, err := s.repo.Update(s.ctx, equipment.UpdateInput{Entries: []*dnd5e.EquipmentCatalogEntry{
		{Slug: "shield", Name: "Shield", ArmorCategory: dnd5e.ArmorShield, BaseAC: 2},
	}})
	s.Require().NoError(err)

	_, err = s.repo.Delete(s.ctx, equipment.DeleteInput{Slug: "shield"})
	s.Require().NoError(err)

	list, err := s.repo.List(s.ctx, equipment.ListInput{})
	s.Require().NoError(err)
	s.Empty(list.Entries)
}

func TestReadsPreloadedCatalog(t *testing.T) {
	client, cleanup := testutils.CreateTestRedisClientWithContext(t, func(mr *miniredis.Miniredis) {
		mr.HSet(equipment.Key,
			"leather-armor", `{"slug":"leather-armor","name":"Leather Armor","armorCategory":"Light","baseAC":11}`,
			"broken", `{"slug":`)
	})
	defer cleanup()

	repo, err := equipment.NewRedis(&equipment.RedisConfig{Client: client})
	require.NoError(t, err)
	ctx := context.Background()

	got, err := repo.Get(ctx, equipment.GetInput{Slug: "leather-armor"})
	require.NoError(t, err)
	assert.Equal(t, 11, got.Entry.BaseAC)
	assert.True(t, got.Entry.IsArmor())

	_, err = repo.Get(ctx, equipment.GetInput{Slug: "broken"})
	assert.Error(t, err)

	_, err = repo.List(ctx, equipment.ListInput{})
	assert.Error(t, err)
}
