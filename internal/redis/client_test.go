package redis_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-sheet/internal/redis"
)

func TestNewClientFromURL(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := redis.NewClientFromURL("redis://" + mr.Addr() + "/0")
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestNewClientFromURLErrors(t *testing.T) {
	_, err := redis.NewClientFromURL("")
	assert.Error(t, err)

	_, err = redis.NewClientFromURL("http://localhost:6379")
	assert.Error(t, err)
}

func TestNewClientRequiresEndpoint(t *testing.T) {
	_, err := redis.NewClient("", nil)
	assert.Error(t, err)
}
