package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/AnshRaj112/pookie-backend/internal/database"
)

const (
	// CacheKeyPrefix is the Redis key prefix for cached data
	CacheKeyPrefix = "cache:"
	// ProfileCacheTTL bounds how stale a cached profile lookup may get
	ProfileCacheTTL = 8 * time.Hour
)

// CacheService caches small lookups (currently user profiles) in Redis.
type CacheService struct{}

// Get retrieves a value from cache. A miss is not an error.
func (c *CacheService) Get(key string, dest interface{}) (bool, error) {
	ctx := context.Background()

	val, err := database.RedisClient.Get(ctx, CacheKeyPrefix+key).Result()
	if err != nil {
		return false, nil // cache miss
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores a value in cache with the default TTL
func (c *CacheService) Set(key string, value interface{}) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return database.RedisClient.Set(ctx, CacheKeyPrefix+key, jsonData, ProfileCacheTTL).Err()
}

// Delete removes a value from cache
func (c *CacheService) Delete(key string) error {
	ctx := context.Background()
	return database.RedisClient.Del(ctx, CacheKeyPrefix+key).Err()
}

// Global cache service instance
var Cache = &CacheService{}
