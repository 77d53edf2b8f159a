package character

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-sheet/internal/pkg/validate"
	redisclient "github.com/KirkDiggler/rpg-sheet/internal/redis"
)

const (
	characterKeyPrefix = "character:"
	schemaVersionKey   = "schema:version"
	scanBatch          = 100

	// Error messages
	errCharacterNil     = "character cannot be nil"
	errCharacterIDEmpty = "character ID cannot be empty"
)

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// RedisConfig contains configuration for the Redis character repository.
type RedisConfig struct {
	Client redisclient.Client
	Clock  clock.Clock
}

// Validate validates the RedisConfig.
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

// NewRedis creates a new Redis-backed character repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Use real clock if none provided
	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  c,
	}, nil
}

var _ Repository = (*redisRepository)(nil)

func characterKey(id string) string {
	return characterKeyPrefix + id
}

func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if input.Character == nil {
		return nil, errors.InvalidArgument(errCharacterNil)
	}
	if input.Character.ID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	key := characterKey(input.Character.ID)

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check existence")
	}
	if exists > 0 {
		return nil, errors.AlreadyExistsf("character with ID %s already exists", input.Character.ID)
	}

	char := input.Character.Clone()
	now := r.clock.Now().Unix()
	if char.CreatedAt == 0 {
		char.CreatedAt = now
	}
	char.UpdatedAt = now

	if err := r.write(ctx, char); err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "Created character", "character_id", char.ID)
	return &CreateOutput{Character: char}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	result, err := r.client.Get(ctx, characterKey(input.ID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("character with ID %s not found", input.ID)
		}
		return nil, errors.Wrapf(err, "failed to get character")
	}

	var char dnd5e.Character
	if err := json.Unmarshal([]byte(result), &char); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeDataLoss, "failed to unmarshal character data").
			WithMeta("character_id", input.ID)
	}

	return &GetOutput{Character: &char}, nil
}

func (r *redisRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	if input.Character == nil {
		return nil, errors.InvalidArgument(errCharacterNil)
	}
	if input.Character.ID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	exists, err := r.client.Exists(ctx, characterKey(input.Character.ID)).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check existence")
	}
	if exists == 0 {
		return nil, errors.NotFoundf("character with ID %s not found", input.Character.ID)
	}

	char := input.Character.Clone()
	char.UpdatedAt = r.clock.Now().Unix()

	if err := r.write(ctx, char); err != nil {
		return nil, err
	}

	return &UpdateOutput{Character: char}, nil
}

// write validates and stores the whole record
func (r *redisRepository) write(ctx context.Context, char *dnd5e.Character) error {
	if err := validate.Struct(char); err != nil {
		return err
	}

	data, err := json.Marshal(char)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal character data")
	}

	if err := r.client.Set(ctx, characterKey(char.ID), data, 0).Err(); err != nil {
		return errors.Wrapf(err, "failed to store character %s", char.ID)
	}
	return nil
}

func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	deleted, err := r.client.Del(ctx, characterKey(input.ID)).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to delete character")
	}
	if deleted == 0 {
		return nil, errors.NotFoundf("character with ID %s not found", input.ID)
	}

	return &DeleteOutput{}, nil
}

func (r *redisRepository) List(ctx context.Context, _ ListInput) (*ListOutput, error) {
	keys, err := r.scanKeys(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(keys))
	for _, key := range keys {
		ids = append(ids, strings.TrimPrefix(key, characterKeyPrefix))
	}
	sort.Strings(ids)

	return &ListOutput{IDs: ids}, nil
}

func (r *redisRepository) scanKeys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := r.client.Scan(ctx, 0, characterKeyPrefix+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to scan character keys")
	}
	return keys, nil
}

// GetSchemaVersion returns 0 when no version was ever recorded
func (r *redisRepository) GetSchemaVersion(ctx context.Context) (int, error) {
	result, err := r.client.Get(ctx, schemaVersionKey).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, errors.Wrapf(err, "failed to get schema version")
	}

	version, err := strconv.Atoi(result)
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.CodeDataLoss, "schema version is not a number")
	}
	return version, nil
}

func (r *redisRepository) SetSchemaVersion(ctx context.Context, version int) error {
	if err := r.client.Set(ctx, schemaVersionKey, version, 0).Err(); err != nil {
		return errors.Wrapf(err, "failed to set schema version")
	}
	return nil
}

// ListRaw returns every stored document keyed by character ID
func (r *redisRepository) ListRaw(ctx context.Context) (map[string][]byte, error) {
	keys, err := r.scanKeys(ctx)
	if err != nil {
		return nil, err
	}

	docs := make(map[string][]byte, len(keys))
	for _, key := range keys {
		data, err := r.client.Get(ctx, key).Bytes()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			return nil, errors.Wrapf(err, "failed to read %s", key)
		}
		docs[strings.TrimPrefix(key, characterKeyPrefix)] = data
	}
	return docs, nil
}

// PutRaw stores a document as is
func (r *redisRepository) PutRaw(ctx context.Context, id string, data []byte) error {
	if id == "" {
		return errors.InvalidArgument(errCharacterIDEmpty)
	}
	if err := r.client.Set(ctx, characterKey(id), data, 0).Err(); err != nil {
		return errors.Wrapf(err, "failed to store character %s", id)
	}
	return nil
}
