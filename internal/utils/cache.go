package utils

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"strconv"       // Integer formatting for cache keys
	"time"          // Time durations

	"github.com/redis/go-redis/v9" // Redis client
)

// Cache keys for the catalog read paths. Listings are cached per filter and
// invalidated by the mutating handlers.
const (
	CategoriesCacheKey     = "catalog:categories"    // All categories listing
	ServicesCacheKeyPrefix = "catalog:services:cat:" // Services listing, suffixed with the category filter
	TopServicesCachePrefix = "topservices:"          // Top-services ranking, suffixed with limit and category
)

// ServicesCacheKey builds the cache key for a services listing filtered by
// categoryID; an empty categoryID means the unfiltered listing
func ServicesCacheKey(categoryID string) string {
	return ServicesCacheKeyPrefix + categoryID
}

// TopServicesCacheKey builds the cache key for one top-services variant
func TopServicesCacheKey(limit int, categoryID string) string {
	return TopServicesCachePrefix + "limit:" + strconv.Itoa(limit) + ":cat:" + categoryID
}

// GetCache retrieves a value from Redis and unmarshals it into dest
func GetCache(ctx context.Context, rdb *redis.Client, key string, dest any) (bool, error) {
	val, err := rdb.Get(ctx, key).Result() // Get value from Redis
	if err == redis.Nil {
		return false, nil // Key does not exist
	} else if err != nil {
		return false, err // Other Redis error
	}
	return true, json.Unmarshal([]byte(val), dest) // Unmarshal JSON into dest
}

// SetCache sets a value in Redis with a specified TTL
func SetCache(ctx context.Context, rdb *redis.Client, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err // Return error if marshaling fails
	}
	return rdb.Set(ctx, key, b, ttl).Err() // Set value in Redis with TTL
}

// DeleteCache deletes a key from Redis
func DeleteCache(ctx context.Context, rdb *redis.Client, key string) error {
	return rdb.Del(ctx, key).Err() // Delete key from Redis
}
