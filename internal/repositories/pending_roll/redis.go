package pendingroll

import (
	"context"
	"encoding/json"
	"fmt"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/pkg/clock"
	redisclient "github.com/KirkDiggler/rpg-sheet/internal/redis"
)

const (
	// Key pattern: pending_roll:{session_id}:{roll_id}
	pendingKeyPrefix = "pending_roll:"

	// DefaultSessionID scopes rolls made without a session
	DefaultSessionID = "table"

	// Error messages
	errRollNil     = "pending roll cannot be nil"
	errRollIDEmpty = "roll ID cannot be empty"
	errRollExpired = "pending roll has already expired"
)

// Config holds the configuration for the Redis repository
type Config struct {
	Client redisclient.Client
	Clock  clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	if c.Clock == nil {
		return errors.InvalidArgument("clock is required")
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// NewRedisRepository creates a new Redis repository for pending rolls
func NewRedisRepository(cfg *Config) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  cfg.Clock,
	}, nil
}

// Ensure redisRepository implements Repository
var _ Repository = (*redisRepository)(nil)

// Create stores a pending roll with a TTL ending at its expiry
func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if input.Roll == nil {
		return nil, errors.InvalidArgument(errRollNil)
	}
	if input.Roll.ID == "" {
		return nil, errors.InvalidArgument(errRollIDEmpty)
	}

	roll := *input.Roll
	if roll.SessionID == "" {
		roll.SessionID = DefaultSessionID
	}

	ttl := roll.ExpiresAt.Sub(r.clock.Now())
	if ttl <= 0 {
		return nil, errors.FailedPrecondition(errRollExpired)
	}

	rollJSON, err := json.Marshal(&roll)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal pending roll")
	}

	key := r.buildKey(roll.SessionID, roll.ID)
	if err := r.client.Set(ctx, key, rollJSON, ttl).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to store pending roll in Redis")
	}

	return &CreateOutput{Roll: &roll}, nil
}

// Get retrieves a pending roll by session and id
func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errRollIDEmpty)
	}
	sessionID := input.SessionID
	if sessionID == "" {
		sessionID = DefaultSessionID
	}

	key := r.buildKey(sessionID, input.ID)

	rollJSON, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("pending roll %s not found", input.ID)
		}
		return nil, errors.Wrapf(err, "failed to get pending roll from Redis")
	}

	var roll dnd5e.PendingRoll
	if err := json.Unmarshal([]byte(rollJSON), &roll); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal pending roll")
	}

	// Redis TTL and the roll's own clock can disagree by a tick
	if r.clock.Now().After(roll.ExpiresAt) {
		_ = r.client.Del(ctx, key)
		return nil, errors.NotFoundf("pending roll %s has expired", input.ID)
	}

	return &GetOutput{Roll: &roll}, nil
}

// Delete removes a pending roll
func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errRollIDEmpty)
	}
	sessionID := input.SessionID
	if sessionID == "" {
		sessionID = DefaultSessionID
	}

	removed, err := r.client.Del(ctx, r.buildKey(sessionID, input.ID)).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to delete pending roll from Redis")
	}

	return &DeleteOutput{Deleted: removed > 0}, nil
}

// buildKey creates the Redis key for a pending roll
func (r *redisRepository) buildKey(sessionID, rollID string) string {
	return fmt.Sprintf("%s%s:%s", pendingKeyPrefix, sessionID, rollID)
}
