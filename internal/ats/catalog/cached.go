// internal/ats/catalog/cached.go
package catalog

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"nexthire-workers/internal/common/logger"

	"github.com/redis/go-redis/v9"
)

// CachedResolver wraps a Resolver with a Redis cache. The resolved
// vocabulary depends only on the requirement strings, so entries are keyed
// by a hash of the requirement list. Cache failures fall back to resolving
// directly; the cache is an optimization, never a correctness dependency.
type CachedResolver struct {
	inner  *Resolver
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedResolver(inner *Resolver, rdb *redis.Client, ttl time.Duration, log logger.Logger) *CachedResolver {
	return &CachedResolver{
		inner:  inner,
		redis:  rdb,
		ttl:    ttl,
		logger: log,
	}
}

func (c *CachedResolver) Resolve(ctx context.Context, requirements []string) []string {
	if len(requirements) == 0 {
		return nil
	}

	key := cacheKey(requirements)
	if val, err := c.redis.Get(ctx, key).Result(); err == nil {
		var vocabulary []string
		if err := json.Unmarshal([]byte(val), &vocabulary); err == nil {
			return vocabulary
		}
	}

	vocabulary := c.inner.Resolve(ctx, requirements)

	data, err := json.Marshal(vocabulary)
	if err == nil {
		if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.Warn("vocabulary cache write failed", map[string]interface{}{
				"key":   key,
				"error": err,
			})
		}
	}

	return vocabulary
}

func cacheKey(requirements []string) string {
	// \x1f separates entries so ["ab","c"] and ["a","bc"] hash differently.
	sum := sha256.Sum256([]byte(strings.Join(requirements, "\x1f")))
	return "ats:vocab:" + hex.EncodeToString(sum[:])
}
