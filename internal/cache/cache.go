package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// ResponseCache stores encoded response bodies shared between replicas.
// Failures are logged and reported as misses.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, body []byte)
}

type redisCache struct {
	redisClient *redis.Client
	keyPrefix   string
	ttl         time.Duration
}

func NewRedisCache(redisClient *redis.Client, keyPrefix string, ttl time.Duration) ResponseCache {
	return &redisCache{
		redisClient: redisClient,
		keyPrefix:   keyPrefix,
		ttl:         ttl,
	}
}

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := c.redisClient.Get(ctx, c.keyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warnf("Failed to read cached response %s: %v", key, err)
		}
		return nil, false
	}
	return val, true
}

func (c *redisCache) Set(ctx context.Context, key string, body []byte) {
	if err := c.redisClient.Set(ctx, c.keyPrefix+key, body, c.ttl).Err(); err != nil {
		log.Warnf("Failed to cache response %s: %v", key, err)
	}
}

type noopCache struct{}

// NewNoopCache is used when Redis is disabled.
func NewNoopCache() ResponseCache {
	return noopCache{}
}

func (noopCache) Get(context.Context, string) ([]byte, bool) { return nil, false }
func (noopCache) Set(context.Context, string, []byte) {}

// Key derives a cache key from the request parts.
func Key(parts ...string) string {
	sum := sha1.Sum([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(sum[:])
}
