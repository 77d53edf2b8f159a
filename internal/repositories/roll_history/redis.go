package rollhistory

import (
	"context"
	"encoding/json"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	redisclient "github.com/KirkDiggler/rpg-sheet/internal/redis"
)

const (
	historyKeyPrefix = "roll_history:"

	errRollNil = "roll cannot be nil"
)

// RedisConfig contains configuration for the Redis roll history.
type RedisConfig struct {
	Client   redisclient.Client
	Capacity int
}

// Validate validates the RedisConfig.
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	vb := errors.NewValidationBuilder()
	if cfg.Client == nil {
		vb.RequiredField("Client")
	}
	if cfg.Capacity < 0 {
		vb.InvalidField("Capacity", "must not be negative")
	}
	return vb.Build()
}

type redisRepository struct {
	client   redisclient.Client
	capacity int
}

// NewRedis creates a Redis list backed roll history
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	capacity := cfg.Capacity
	if capacity == 0 {
		capacity = DefaultCapacity
	}

	return &redisRepository{
		client:   cfg.Client,
		capacity: capacity,
	}, nil
}

var _ Repository = (*redisRepository)(nil)

func historyKey(owner string) string {
	return historyKeyPrefix + ownerOrDefault(owner)
}

func (r *redisRepository) Append(ctx context.Context, input AppendInput) (*AppendOutput, error) {
	if input.Roll == nil {
		return nil, errors.InvalidArgument(errRollNil)
	}

	data, err := json.Marshal(input.Roll)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal roll")
	}

	key := historyKey(input.Owner)

	pipe := r.client.TxPipeline()
	pipe.RPush(ctx, key, data)
	pipe.LTrim(ctx, key, int64(-r.capacity), -1)
	size := pipe.LLen(ctx, key)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to append roll")
	}

	return &AppendOutput{Size: int(size.Val())}, nil
}

func (r *redisRepository) List(ctx context.Context, input ListInput) (*ListOutput, error) {
	raw, err := r.client.LRange(ctx, historyKey(input.Owner), 0, -1).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list rolls")
	}

	rolls := make([]*dnd5e.DiceRoll, 0, len(raw))
	for _, item := range raw {
		var roll dnd5e.DiceRoll
		if err := json.Unmarshal([]byte(item), &roll); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal roll")
		}
		rolls = append(rolls, &roll)
	}

	return &ListOutput{Rolls: rolls}, nil
}

func (r *redisRepository) Clear(ctx context.Context, input ClearInput) (*ClearOutput, error) {
	key := historyKey(input.Owner)

	pipe := r.client.TxPipeline()
	size := pipe.LLen(ctx, key)
	pipe.Del(ctx, key)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to clear rolls")
	}

	return &ClearOutput{Removed: int(size.Val())}, nil
}
