package cache

import (
	"chebyshev-board/internal/domain"
	"chebyshev-board/internal/platform/obs"
	"chebyshev-board/internal/ports"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "chebyshev:explanation:"

// RedisExplanationCache stores explanation text in redis; expiry is enforced by redis itself.
type RedisExplanationCache struct {
	client redis.UniversalClient
}

var _ ports.BatchExplanationCache = (*RedisExplanationCache)(nil)

func NewRedisExplanationCache(client redis.UniversalClient) *RedisExplanationCache {
	return &RedisExplanationCache{client: client}
}

// NewRedisClient parses a redis:// URL and verifies the connection.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis client: parse url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis client: ping: %w", err)
	}

	return client, nil
}

func redisKey(key domain.ExplanationKey) string { return redisKeyPrefix + key.String() }

// Fetch one cached explanation.
func (r *RedisExplanationCache) Get(
	ctx context.Context,
	key domain.ExplanationKey,
) (_ string, _ bool, err error) {
	defer obs.Time(ctx, "explanation.redis.Get")(&err)

	text, err := r.client.Get(ctx, redisKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get explanation cache key=%q: %w", key.String(), err)
	}

	return text, true, nil
}

// Fetch cached explanations for many keys with a single MGET.
func (r *RedisExplanationCache) GetMany(
	ctx context.Context,
	keys []domain.ExplanationKey,
) (_ map[domain.ExplanationKey]string, err error) {
	defer obs.Time(ctx, "explanation.redis.GetMany")(&err)

	if len(keys) == 0 {
		return map[domain.ExplanationKey]string{}, nil
	}

	redisKeys := make([]string, 0, len(keys))
	for _, k := range keys {
		redisKeys = append(redisKeys, redisKey(k))
	}

	vals, err := r.client.MGet(ctx, redisKeys...).Result()
	if err != nil {
		return nil, fmt.Errorf("get explanation cache: mget %d keys: %w", len(keys), err)
	}

	out := make(map[domain.ExplanationKey]string, len(keys))
	for i, v := range vals {
		text, ok := v.(string)
		if !ok {
			continue
		}
		out[keys[i]] = text
	}

	return out, nil
}

// Store one explanation; a non-positive ttl never expires.
func (r *RedisExplanationCache) Set(
	ctx context.Context,
	key domain.ExplanationKey,
	text string,
	ttl time.Duration,
) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("insert explanation cache key=%q: empty text", key.String())
	}

	if ttl < 0 {
		ttl = 0
	}

	if err := r.client.Set(ctx, redisKey(key), text, ttl).Err(); err != nil {
		return fmt.Errorf("insert explanation cache key=%q: %w", key.String(), err)
	}

	return nil
}
