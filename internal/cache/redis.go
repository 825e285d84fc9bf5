package cache

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis backs the reply cache with a shared Redis instance so replicas of
// the server share warm entries. Failures degrade to cache misses.
type Redis struct {
	client *redis.Client
}

func NewRedis(addr, password string, db int) *Redis {
	return &Redis{client: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})}
}

func (c *Redis) Get(ctx context.Context, key string) (string, bool) {
	v, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("[cache] redis get %s: %v", key, err)
		}
		return "", false
	}
	return v, true
}

func (c *Redis) Set(ctx context.Context, key string, reply string, ttl time.Duration) {
	if err := c.client.Set(ctx, key, reply, ttl).Err(); err != nil {
		log.Printf("[cache] redis set %s: %v", key, err)
	}
}

func (c *Redis) Close() error { return c.client.Close() }
