package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/MKhiriev/go-recipe-keeper/internal/logger"
	"github.com/redis/go-redis/v9"
)

const (
	tokenCacheKeyPrefix = "auth:token:"
	redisPingTimeout    = 5 * time.Second
)

// redisTokenCache keeps the current token id of each user in Redis so that
// authenticated requests skip the tokens table.
type redisTokenCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisTokenCache connects to the Redis server at url and verifies it
// answers a ping. Entries expire after ttl; zero keeps them forever.
func NewRedisTokenCache(ctx context.Context, url string, ttl time.Duration, log *logger.Logger) (TokenCache, func() error, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid redis url: %w", err)
	}

	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()

	if err = rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Info().Str("func", "NewRedisTokenCache").Str("addr", opts.Addr).Msg("connected to redis")

	return newRedisTokenCache(rdb, ttl), rdb.Close, nil
}

func newRedisTokenCache(rdb *redis.Client, ttl time.Duration) *redisTokenCache {
	return &redisTokenCache{rdb: rdb, ttl: ttl}
}

func tokenCacheKey(userID int64) string {
	return tokenCacheKeyPrefix + strconv.FormatInt(userID, 10)
}

func (c *redisTokenCache) SetTokenKey(ctx context.Context, userID int64, key string) error {
	return c.rdb.Set(ctx, tokenCacheKey(userID), key, c.ttl).Err()
}

// AddTokenKey stores key only when nothing is cached for userID. It reports
// whether key was stored.
func (c *redisTokenCache) AddTokenKey(ctx context.Context, userID int64, key string) (bool, error) {
	return c.rdb.SetNX(ctx, tokenCacheKey(userID), key, c.ttl).Result()
}

func (c *redisTokenCache) GetTokenKey(ctx context.Context, userID int64) (string, error) {
	key, err := c.rdb.Get(ctx, tokenCacheKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	return key, err
}

func (c *redisTokenCache) DeleteTokenKey(ctx context.Context, userID int64) error {
	return c.rdb.Del(ctx, tokenCacheKey(userID)).Err()
}

// noopTokenCache is used when no Redis URL is configured; every lookup misses.
type noopTokenCache struct{}

func NewNoopTokenCache() TokenCache {
	return noopTokenCache{}
}

func (noopTokenCache) SetTokenKey(context.Context, int64, string) error { return nil }

func (noopTokenCache) AddTokenKey(context.Context, int64, string) (bool, error) { return true, nil }

func (noopTokenCache) GetTokenKey(context.Context, int64) (string, error) { return "", ErrCacheMiss }

func (noopTokenCache) DeleteTokenKey(context.Context, int64) error { return nil }
