package pendingroll_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/pkg/clock"
	pendingroll "github.com/KirkDiggler/rpg-sheet/internal/repositories/pending_roll"
	"github.com/KirkDiggler/rpg-sheet/internal/testutils"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	miniRedis *miniredis.Miniredis
	cleanup   func()
	clock     *clock.Fixed
	repo      pendingroll.Repository
	ctx       context.Context
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	client, mr, cleanup := testutils.CreateTestRedisServer(s.T())
	s.miniRedis = mr
	s.cleanup = cleanup
	s.clock = clock.NewFixed(time.Unix(1700000000, 0).UTC())

	repo, err := pendingroll.NewRedisRepository(&pendingroll.Config{
		Client: client,
		Clock:  s.clock,
	})
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

func (s *RedisRepositoryTestSuite) pending(id string) *dnd5e.PendingRoll {
	now := s.clock.Now()
	return &dnd5e.PendingRoll{
		ID:        id,
		Kind:      dnd5e.RollKindDamage,
		Label:     "Greataxe",
		Notation:  "1d12+3",
		Modifier:  3,
		Predicted: []int{7},
		CreatedAt: now,
		ExpiresAt: now.Add(5 * time.Minute),
	}
}

func (s *RedisRepositoryTestSuite) TestCreateAndGet() {
	created, err := s.repo.Create(s.ctx, pendingroll.CreateInput{Roll: s.pending("roll_1")})
	s.Require().NoError(err)
	s.Equal(pendingroll.DefaultSessionID, created.Roll.SessionID)
	s.True(s.miniRedis.Exists("pending_roll:table:roll_1"))
	s.Equal(5*time.Minute, s.miniRedis.TTL("pending_roll:table:roll_1"))

	got, err := s.repo.Get(s.ctx, pendingroll.GetInput{ID: "roll_1"})
	s.Require().NoError(err)
	s.Equal([]int{7}, got.Roll.Predicted)
	s.Equal("1d12+3", got.Roll.Notation)
	s.True(created.Roll.ExpiresAt.Equal(got.Roll.ExpiresAt))
}

func (s *RedisRepositoryTestSuite) TestSessionsAreIsolated() {
	roll := s.pending("roll_1")
	roll.SessionID = "char-1"
	_, err := s.repo.Create(s.ctx, pendingroll.CreateInput{Roll: roll})
	s.Require().NoError(err)

	_, err = s.repo.Get(s.ctx, pendingroll.GetInput{SessionID: "char-2", ID: "roll_1"})
	s.True(errors.IsNotFound(err))

	_, err = s.repo.Get(s.ctx, pendingroll.GetInput{SessionID: "char-1", ID: "roll_1"})
	s.NoError(err)
}

func (s *RedisRepositoryTestSuite) TestExpiredRollIsNotFound() {
	_, err := s.repo.Create(s.ctx, pendingroll.CreateInput{Roll: s.pending("roll_1")})
	s.Require().NoError(err)

	s.clock.Advance(6 * time.Minute)
	_, err = s.repo.Get(s.ctx, pendingroll.GetInput{ID: "roll_1"})
	s.True(errors.IsNotFound(err))
	s.False(s.miniRedis.Exists("pending_roll:table:roll_1"))
}

func (s *RedisRepositoryTestSuite) TestRedisTTLEvicts() {
	_, err := s.repo.Create(s.ctx, pendingroll.CreateInput{Roll: s.pending("roll_1")})
	s.Require().NoError(err)

	s.miniRedis.FastForward(5*time.Minute + time.Second)
	_, err = s.repo.Get(s.ctx, pendingroll.GetInput{ID: "roll_1"})
	s.True(errors.IsNotFound(err))
}

func (s *RedisRepositoryTestSuite) TestCreateRejectsExpired() {
	roll := s.pending("roll_1")
	roll.ExpiresAt = s.clock.Now().Add(-time.Second)

	_, err := s.repo.Create(s.ctx, pendingroll.CreateInput{Roll: roll})
	s.True(errors.IsFailedPrecondition(err))

	_, err = s.repo.Create(s.ctx, pendingroll.CreateInput{})
	s.True(errors.IsInvalidArgument(err))
}

func (s *RedisRepositoryTestSuite) TestDelete() {
	_, err := s.repo.Create(s.ctx, pendingroll.CreateInput{Roll: s.pending("roll_1")})
	s.Require().NoError(err)

	out, err := s.repo.Delete(s.ctx, pendingroll.DeleteInput{ID: "roll_1"})
	s.Require().NoError(err)
	s.True(out.Deleted)

	out, err = s.repo.Delete(s.ctx, pendingroll.DeleteInput{ID: "roll_1"})
	s.Require().NoError(err)
	s.False(out.Deleted)
}
