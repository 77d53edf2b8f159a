package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/pkg/validate"
)

type sample struct {
	Name    string `validate:"required"`
	Level   int    `validate:"min=1,max=20"`
	Edition string `validate:"edition"`
}

func TestStruct(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validate.Struct(sample{Name: "Mira", Level: 3, Edition: "2014"}))
	})

	t.Run("empty edition is allowed", func(t *testing.T) {
		assert.NoError(t, validate.Struct(sample{Name: "Mira", Level: 3}))
	})

	t.Run("field failures become invalid argument", func(t *testing.T) {
		err := validate.Struct(sample{Level: 21, Edition: "1e"})
		require.Error(t, err)
		assert.True(t, errors.IsInvalidArgument(err))

		fields, ok := errors.GetMeta(err)["validation_errors"].(map[string][]string)
		require.True(t, ok)
		assert.Equal(t, []string{"is required"}, fields["Name"])
		assert.Equal(t, []string{"must be at most 20"}, fields["Level"])
		assert.Equal(t, []string{"is invalid: unknown edition"}, fields["Edition"])
	})
}
