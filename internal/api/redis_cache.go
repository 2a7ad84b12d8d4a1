package api

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache is the ListingCache used when the service runs with more
// than one replica; entries expire via TTL and are deleted on write.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(addr, password string, db int, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		ttl: ttl,
	}
}

func listingKey(userID string) string {
	return "readings:listing:" + userID
}

func (c *RedisCache) Get(ctx context.Context, userID string) ([]byte, bool) {
	body, err := c.client.Get(ctx, listingKey(userID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("redis get %s: %v", listingKey(userID), err)
		}
		return nil, false
	}
	return body, true
}

func (c *RedisCache) Set(ctx context.Context, userID string, body []byte) {
	if err := c.client.Set(ctx, listingKey(userID), body, c.ttl).Err(); err != nil {
		log.Printf("redis set %s: %v", listingKey(userID), err)
	}
}

func (c *RedisCache) Invalidate(ctx context.Context, userID string) {
	if err := c.client.Del(ctx, listingKey(userID)).Err(); err != nil {
		log.Printf("redis del %s: %v", listingKey(userID), err)
	}
}
