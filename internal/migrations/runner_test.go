package migrations_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/migrations"
	migrationsmock "github.com/KirkDiggler/rpg-sheet/internal/migrations/mock"
	"github.com/KirkDiggler/rpg-sheet/internal/testutils"
)

type RunnerTestSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	mockStore *migrationsmock.MockStore
	runner    *migrations.Runner
	ctx       context.Context
}

func (s *RunnerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockStore = migrationsmock.NewMockStore(s.ctrl)
	s.ctx = context.Background()

	runner, err := migrations.NewRunner(&migrations.RunnerConfig{Store: s.mockStore})
	s.Require().NoError(err)
	s.runner = runner
}

func (s *RunnerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestRunnerTestSuite(t *testing.T) {
	suite.Run(t, new(RunnerTestSuite))
}

func (s *RunnerTestSuite) TestNewRunnerRequiresStore() {
	_, err := migrations.NewRunner(&migrations.RunnerConfig{})
	s.True(errors.IsInvalidArgument(err))
}

func (s *RunnerTestSuite) TestCurrentStoreSkipsListing() {
	s.mockStore.EXPECT().GetSchemaVersion(s.ctx).Return(migrations.CurrentVersion, nil)

	result, err := s.runner.Run(s.ctx)
	s.Require().NoError(err)
	s.Equal(migrations.CurrentVersion, result.ToVersion)
	s.Zero(result.Migrated)
}

func (s *RunnerTestSuite) TestMigratesEveryDocument() {
	s.mockStore.EXPECT().GetSchemaVersion(s.ctx).Return(0, nil)
	s.mockStore.EXPECT().ListRaw(s.ctx).Return(map[string][]byte{
		"char-legacy":  []byte(testutils.LegacyCharacterJSON),
		"char-corrupt": []byte(`{"id":`),
	}, nil)

	var written []byte
	gomock.InOrder(
		s.mockStore.EXPECT().PutRaw(s.ctx, "char-legacy", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, data []byte) error {
				written = data
				return nil
			}),
		s.mockStore.EXPECT().SetSchemaVersion(s.ctx, migrations.CurrentVersion).Return(nil),
	)

	result, err := s.runner.Run(s.ctx)
	s.Require().NoError(err)
	s.Equal(0, result.FromVersion)
	s.Equal(migrations.CurrentVersion, result.ToVersion)
	s.Equal(1, result.Migrated)
	s.Equal([]string{"char-corrupt"}, result.Skipped)

	doc, err := migrations.DecodeDocument(written)
	s.Require().NoError(err)
	s.Equal("dwarf", doc["species"])
}

func (s *RunnerTestSuite) TestWriteFailureKeepsVersion() {
	s.mockStore.EXPECT().GetSchemaVersion(s.ctx).Return(2, nil)
	s.mockStore.EXPECT().ListRaw(s.ctx).Return(map[string][]byte{
		"char-1": []byte(`{"id":"char-1","level":1}`),
	}, nil)
	s.mockStore.EXPECT().PutRaw(s.ctx, "char-1", gomock.Any()).Return(errors.Unavailablef("redis down"))

	_, err := s.runner.Run(s.ctx)
	s.Require().Error(err)
	s.Equal(errors.CodeUnavailable, errors.GetCode(err))
}

func (s *RunnerTestSuite) TestVersionReadFailure() {
	s.mockStore.EXPECT().GetSchemaVersion(s.ctx).Return(0, errors.Unavailablef("redis down"))

	_, err := s.runner.Run(s.ctx)
	s.Require().Error(err)
}
