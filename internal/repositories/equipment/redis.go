package equipment

import (
	"context"
	"encoding/json"
	"sort"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	redisclient "github.com/KirkDiggler/rpg-sheet/internal/redis"
)

const (
	// Key is the hash holding slug -> entry JSON
	Key = "catalog:equipment"

	// Error messages
	errSlugEmpty = "equipment slug cannot be empty"
)

type redisRepository struct {
	client redisclient.Client
}

// RedisConfig contains configuration for the Redis equipment repository.
type RedisConfig struct {
	Client redisclient.Client
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

// NewRedis creates a new Redis-backed equipment repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &redisRepository{
		client: cfg.Client,
	}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.Slug == "" {
		return nil, errors.InvalidArgument(errSlugEmpty)
	}

	result, err := r.client.HGet(ctx, Key, input.Slug).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("equipment %s not found", input.Slug)
		}
		return nil, errors.Wrapf(err, "failed to get equipment %s", input.Slug)
	}

	var entry dnd5e.EquipmentCatalogEntry
	if err := json.Unmarshal([]byte(result), &entry); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal equipment %s", input.Slug)
	}

	return &GetOutput{Entry: &entry}, nil
}

func (r *redisRepository) List(ctx context.Context, _ ListInput) (*ListOutput, error) {
	all, err := r.client.HGetAll(ctx, Key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list equipment")
	}

	entries := make([]*dnd5e.EquipmentCatalogEntry, 0, len(all))
	for slug, raw := range all {
		var entry dnd5e.EquipmentCatalogEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal equipment %s", slug)
		}
		entries = append(entries, &entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Slug < entries[j].Slug })

	return &ListOutput{Entries: entries}, nil
}

func (r *redisRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	if len(input.Entries) == 0 {
		return &UpdateOutput{}, nil
	}

	values := make(map[string]interface{}, len(input.Entries))
	for _, entry := range input.Entries {
		if entry == nil || entry.Slug == "" {
			return nil, errors.InvalidArgument(errSlugEmpty)
		}
		data, err := json.Marshal(entry)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to marshal equipment %s", entry.Slug)
		}
		values[entry.Slug] = data
	}

	if err := r.client.HSet(ctx, Key, values).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to store equipment")
	}

	return &UpdateOutput{Stored: len(values)}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.Slug == "" {
		return nil, errors.InvalidArgument(errSlugEmpty)
	}

	removed, err := r.client.HDel(ctx, Key, input.Slug).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to delete equipment %s", input.Slug)
	}
	if removed == 0 {
		return nil, errors.NotFoundf("equipment %s not found", input.Slug)
	}

	return &DeleteOutput{}, nil
}
