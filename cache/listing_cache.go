package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"travel-backend/models"
)

// Connect opens a redis client and pings it once.
func Connect(addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: "",
		DB:       0,
	})

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect redis: %w", err)
	}
	return client, nil
}

// ListingCache caches single-listing reads. The cache is best effort: any
// redis error falls back to the database.
type ListingCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewListingCache(rdb *redis.Client) *ListingCache {
	return &ListingCache{rdb: rdb, ttl: 10 * time.Minute}
}

func listingKey(id uint) string {
	return fmt.Sprintf("listing:%d", id)
}

func (c *ListingCache) Get(ctx context.Context, id uint) (*models.Listing, bool) {
	val, err := c.rdb.Get(ctx, listingKey(id)).Result()
	if err != nil {
		return nil, false
	}
	var listing models.Listing
	if err := json.Unmarshal([]byte(val), &listing); err != nil {
		return nil, false
	}
	return &listing, true
}

func (c *ListingCache) Set(ctx context.Context, listing *models.Listing) {
	b, err := json.Marshal(listing)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, listingKey(listing.ID), b, c.ttl)
}

func (c *ListingCache) Invalidate(ctx context.Context, id uint) {
	c.rdb.Del(ctx, listingKey(id))
}
