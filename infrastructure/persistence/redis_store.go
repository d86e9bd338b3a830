package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/Idkwii/Cycle-youtube-analytics/domain/model"
)

// Redis keys for the two whole-document records.
const (
	redisStateKey = "cycle:dashboard:state"
	redisCacheKey = "cycle:dashboard:videos"
)

// RedisStateStore keeps the settings document under a single Redis key, so a
// dashboard survives process restarts without a writable filesystem.
type RedisStateStore struct {
	client *redis.Client
}

func NewRedisStateStore(client *redis.Client) *RedisStateStore {
	return &RedisStateStore{client: client}
}

func (s *RedisStateStore) Load(ctx context.Context) (*model.PersistedState, error) {
	var state model.PersistedState
	ok, err := redisGet(ctx, s.client, redisStateKey, &state)
	if err != nil || !ok {
		return nil, err
	}
	return &state, nil
}

func (s *RedisStateStore) Save(ctx context.Context, state *model.PersistedState) error {
	return redisSet(ctx, s.client, redisStateKey, state)
}

// RedisVideoCache keeps the fetched-videos document under a single Redis key.
type RedisVideoCache struct {
	client *redis.Client
}

func NewRedisVideoCache(client *redis.Client) *RedisVideoCache {
	return &RedisVideoCache{client: client}
}

func (c *RedisVideoCache) Load(ctx context.Context) (*model.VideoCacheRecord, error) {
	var record model.VideoCacheRecord
	ok, err := redisGet(ctx, c.client, redisCacheKey, &record)
	if err != nil || !ok {
		return nil, err
	}
	return &record, nil
}

func (c *RedisVideoCache) Save(ctx context.Context, record *model.VideoCacheRecord) error {
	return redisSet(ctx, c.client, redisCacheKey, record)
}

func redisGet(ctx context.Context, client *redis.Client, key string, v interface{}) (bool, error) {
	raw, err := client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return true, nil
}

func redisSet(ctx context.Context, client *redis.Client, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := client.Set(ctx, key, raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
