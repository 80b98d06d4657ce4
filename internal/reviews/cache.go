package reviews

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Tejayenduri9/biryani-boys-backend/pkg/logger"
	"github.com/Tejayenduri9/biryani-boys-backend/pkg/redis"
)

type mirrorStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	ReviewCacheKey() string
}

// Cache is the explicitly owned review cache shared by every consumer in the
// process: an in-memory map from meal title to its review list, mirrored as
// one serialized entry in Redis. Created at startup, hydrated once before any
// remote traffic, rewritten last-write-wins on every change.
type Cache struct {
	mu     sync.RWMutex
	byMeal map[string][]Review
	mirror mirrorStore
	logg   *logger.Logger
}

// NewCache builds the cache. mirror may be nil, in which case the cache is
// memory-only (used in tests).
func NewCache(mirror *redis.Client, logg *logger.Logger) *Cache {
	c := &Cache{
		byMeal: map[string][]Review{},
		logg:   logg,
	}
	if mirror != nil {
		c.mirror = mirror
	}
	return c
}

// Hydrate loads the mirrored map so readers see content before any remote
// round trip. A missing entry is a clean first start.
func (c *Cache) Hydrate(ctx context.Context) error {
	if c.mirror == nil {
		return nil
	}
	raw, err := c.mirror.Get(ctx, c.mirror.ReviewCacheKey())
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("loading review mirror: %w", err)
	}
	byMeal := map[string][]Review{}
	if err := json.Unmarshal([]byte(raw), &byMeal); err != nil {
		return fmt.Errorf("decoding review mirror: %w", err)
	}
	c.mu.Lock()
	c.byMeal = byMeal
	c.mu.Unlock()
	return nil
}

// Get returns a copy of the meal's list, newest first.
func (c *Cache) Get(meal string) []Review {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Review{}, c.byMeal[meal]...)
}

// Replace swaps the meal's list wholesale and rewrites the mirror.
func (c *Cache) Replace(ctx context.Context, meal string, list []Review) {
	c.mu.Lock()
	c.byMeal[meal] = append([]Review{}, list...)
	payload, err := c.snapshotLocked()
	c.mu.Unlock()

	if c.mirror == nil {
		return
	}
	if err != nil {
		if c.logg != nil {
			c.logg.Error(ctx, "encoding review mirror", err)
		}
		return
	}
	// Mirror writes are best effort; the in-memory map stays authoritative
	// for this process even when Redis is unreachable.
	if err := c.mirror.Set(ctx, c.mirror.ReviewCacheKey(), payload, 0); err != nil && c.logg != nil {
		c.logg.Error(ctx, "writing review mirror", err)
	}
}

func (c *Cache) snapshotLocked() ([]byte, error) {
	return json.Marshal(c.byMeal)
}
