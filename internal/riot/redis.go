package riot

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const puuidKeyPrefix = "counterpick:puuid:"

// RedisCache is a PUUIDCache backed by Redis. Summoner ids never change
// owner, so entries don't expire.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to the Redis server at a redis:// URL.
func NewRedisCache(ctx context.Context, redisURL string) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close() //nolint:errcheck // Already returning an error.
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisCache{client: client}, nil
}

// GetPUUID returns the cached PUUID, or the empty string on a miss.
func (r *RedisCache) GetPUUID(ctx context.Context, summonerID string) (string, error) {
	v, err := r.client.Get(ctx, puuidKeyPrefix+summonerID).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get cached PUUID: %w", err)
	}
	return v, nil
}

// SetPUUID caches a PUUID.
func (r *RedisCache) SetPUUID(ctx context.Context, summonerID, puuid string) error {
	if err := r.client.Set(ctx, puuidKeyPrefix+summonerID, puuid, 0).Err(); err != nil {
		return fmt.Errorf("set cached PUUID: %w", err)
	}
	return nil
}

// Close closes the connection.
func (r *RedisCache) Close() error {
	return r.client.Close()
}
