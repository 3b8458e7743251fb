package cachedresults

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bussin/bussin/pkg/redis_client"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "cachedresults"

type Cache struct {
	Cache *cache.Cache[string]
}

func New(client *redis.Client, expiry time.Duration) *Cache {
	redisStore := redisstore.NewRedis(client, store.WithExpiration(expiry))

	return &Cache{
		Cache: cache.New[string](redisStore),
	}
}

func (c *Cache) Setup(expiry time.Duration) {
	*c = *New(redis_client.Client, expiry)
}

func Key(parts ...any) string {
	key := keyPrefix
	for _, part := range parts {
		key = fmt.Sprintf("%s/%v", key, part)
	}

	return key
}

// Get returns the cached value, with found false on a miss. Store errors are
// reported as misses too so a broken cache only costs an upstream request.
func (c *Cache) Get(ctx context.Context, key string) (string, bool) {
	value, err := c.Cache.Get(ctx, key)
	if err != nil {
		return "", false
	}

	return value, true
}

func (c *Cache) Set(ctx context.Context, key string, value string) error {
	return c.Cache.Set(ctx, key, value)
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.Cache.Delete(ctx, key)
}

func (c *Cache) GetJSON(ctx context.Context, key string, value any) (bool, error) {
	cached, found := c.Get(ctx, key)
	if !found {
		return false, nil
	}

	if err := json.Unmarshal([]byte(cached), value); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}

	return true, nil
}

func (c *Cache) SetJSON(ctx context.Context, key string, value any) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.Set(ctx, key, string(encoded))
}
