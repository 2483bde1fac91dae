package revalidate

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// PageCache stores rendered pages in redis. A nil client disables it.
type PageCache struct {
	redis *redis.Client
}

func NewPageCache(redisClient *redis.Client) *PageCache {
	return &PageCache{redis: redisClient}
}

func PageKey(kind, id string) string {
	return "page:" + kind + ":" + id
}

func ListKey(kind string) string {
	return "page:" + kind + ":list"
}

func (c *PageCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil || c.redis == nil {
		return nil, false
	}
	b, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return b, true
}

func (c *PageCache) Set(ctx context.Context, key string, body []byte, ttl time.Duration) error {
	if c == nil || c.redis == nil {
		return nil
	}
	return c.redis.Set(ctx, key, body, ttl).Err()
}

// Evict drops the cached render for (kind, id) and the kind's list view.
func (c *PageCache) Evict(ctx context.Context, ev Event) error {
	if c == nil || c.redis == nil {
		return nil
	}
	keys := []string{ListKey(ev.Kind)}
	if ev.ID != "" {
		keys = append(keys, PageKey(ev.Kind, ev.ID))
	}
	return c.redis.Del(ctx, keys...).Err()
}
