// Package cache provides an optional Redis layer in front of the
// user-similarity matrix. When no Redis address is configured every
// method is a no-op and callers fall through to the database.
package cache

import (
	"context"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gomodule/redigo/redis"
	"github.com/rs/zerolog/log"

	"github.com/giftwise/giftwise/pkg/models"
)

// ErrMiss is returned when the key is absent or the cache is disabled.
var ErrMiss = fmt.Errorf("cache miss")

// DefaultTTL bounds staleness between similarity rebuilds.
const DefaultTTL = 15 * time.Minute

// SimilarityCache caches the top neighbors per user. A nil
// *SimilarityCache is valid and always misses.
type SimilarityCache struct {
	pool *redis.Pool
	ttl  time.Duration
}

// New dials a Redis pool. An empty addr returns nil, which disables
// caching entirely.
func New(addr string, ttl time.Duration) *SimilarityCache {
	if addr == "" {
		return nil
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	pool := &redis.Pool{
		MaxIdle:     5,
		MaxActive:   20,
		IdleTimeout: 4 * time.Minute,
		Dial: func() (redis.Conn, error) {
			return redis.Dial("tcp", addr,
				redis.DialConnectTimeout(2*time.Second),
				redis.DialReadTimeout(1*time.Second),
				redis.DialWriteTimeout(1*time.Second),
			)
		},
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			if time.Since(t) < time.Minute {
				return nil
			}
			_, err := c.Do("PING")
			return err
		},
	}
	log.Info().Str("addr", addr).Dur("ttl", ttl).Msg("similarity cache enabled")
	return &SimilarityCache{pool: pool, ttl: ttl}
}

func similarityKey(userID int64) string {
	return fmt.Sprintf("giftwise:sim:%d", userID)
}

// GetTopSimilar returns the cached neighbor list for a user, or
// ErrMiss.
func (c *SimilarityCache) GetTopSimilar(ctx context.Context, userID int64) ([]models.UserSimilarity, error) {
	if c == nil {
		return nil, ErrMiss
	}
	conn, err := c.pool.GetContext(ctx)
	if err != nil {
		return nil, ErrMiss
	}
	defer conn.Close()

	raw, err := redis.Bytes(conn.Do("GET", similarityKey(userID)))
	if err != nil {
		return nil, ErrMiss
	}
	var sims []models.UserSimilarity
	if err := json.Unmarshal(raw, &sims); err != nil {
		return nil, ErrMiss
	}
	return sims, nil
}

// SetTopSimilar stores the neighbor list for a user. Failures are
// logged, never surfaced; the cache is best effort.
func (c *SimilarityCache) SetTopSimilar(ctx context.Context, userID int64, sims []models.UserSimilarity) {
	if c == nil {
		return
	}
	conn, err := c.pool.GetContext(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("similarity cache set skipped")
		return
	}
	defer conn.Close()

	raw, err := json.Marshal(sims)
	if err != nil {
		return
	}
	if _, err := conn.Do("SET", similarityKey(userID), raw, "EX", int(c.ttl.Seconds())); err != nil {
		log.Debug().Err(err).Int64("user_id", userID).Msg("similarity cache set failed")
	}
}

// Invalidate drops the cached neighbors for a user, typically after a
// rebuild.
func (c *SimilarityCache) Invalidate(ctx context.Context, userID int64) {
	if c == nil {
		return
	}
	conn, err := c.pool.GetContext(ctx)
	if err != nil {
		return
	}
	defer conn.Close()
	if _, err := conn.Do("DEL", similarityKey(userID)); err != nil {
		log.Debug().Err(err).Int64("user_id", userID).Msg("similarity cache invalidate failed")
	}
}

// Close releases the pool.
func (c *SimilarityCache) Close() error {
	if c == nil {
		return nil
	}
	return c.pool.Close()
}
