package common

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yethikrishna/y0-waitlist-builder/internal/logging"
)

// RedisCacheService implements CacheInterface on Redis. Values are stored
// as JSON, so cross-instance reads come back as decoded JSON values
// (numbers as float64).
type RedisCacheService struct {
	client *redis.Client
}

var _ CacheInterface = (*RedisCacheService)(nil)

func NewRedisCacheService(client *redis.Client) *RedisCacheService {
	return &RedisCacheService{client: client}
}

func (cs *RedisCacheService) Set(key string, value interface{}, duration time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		logging.Warn("Redis cache set: marshal failed", "key", key, "error", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := cs.client.Set(ctx, key, data, duration).Err(); err != nil {
		logging.Warn("Redis cache set failed", "key", key, "error", err.Error())
	}
}

func (cs *RedisCacheService) Get(key string) (interface{}, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	val, err := cs.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			logging.Warn("Redis cache get failed", "key", key, "error", err.Error())
		}
		return nil, false
	}

	var decoded interface{}
	if err := json.Unmarshal([]byte(val), &decoded); err != nil {
		return nil, false
	}
	return decoded, true
}

func (cs *RedisCacheService) Delete(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := cs.client.Del(ctx, key).Err(); err != nil {
		logging.Warn("Redis cache delete failed", "key", key, "error", err.Error())
	}
}

func (cs *RedisCacheService) GetOrSet(
	key string,
	duration time.Duration,
	loader func() (any, error)) (interface{}, error) {
	if val, found := cs.Get(key); found {
		return val, nil
	}

	val, err := loader()
	if err != nil {
		return nil, err
	}

	cs.Set(key, val, duration)
	return val, nil
}

func (cs *RedisCacheService) Close() error {
	return cs.client.Close()
}
