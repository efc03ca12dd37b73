package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheService caches export tables for the read API. A nil client disables
// caching entirely, so Redis stays optional for local analysis.
type CacheService struct {
	client *redis.Client
}

func NewCacheService(client *redis.Client) *CacheService {
	return &CacheService{
		client: client,
	}
}

// Enabled reports whether a Redis client is wired.
func (s *CacheService) Enabled() bool {
	return s != nil && s.client != nil
}

func (s *CacheService) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if !s.Enabled() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	if err := s.client.Set(ctx, key, data, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}

	return nil
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) error {
	if !s.Enabled() {
		return fmt.Errorf("cache disabled")
	}

	data, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return fmt.Errorf("key not found")
		}
		return fmt.Errorf("failed to get cache: %w", err)
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return fmt.Errorf("failed to unmarshal value: %w", err)
	}

	return nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	if !s.Enabled() {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete cache: %w", err)
	}
	return nil
}

// Flush clears all cache entries, called after each pipeline refresh so
// readers never see tables from a stale snapshot.
func (s *CacheService) Flush() error {
	if !s.Enabled() {
		return nil
	}
	return s.client.FlushDB(context.Background()).Err()
}

// Cache key generators
func TableCacheKey(runID, table string) string {
	return fmt.Sprintf("table:%s:%s", runID, table)
}

func SummaryCacheKey(runID string) string {
	return fmt.Sprintf("summary:%s", runID)
}

func PredictionCacheKey(runID, homeTeam, awayTeam string) string {
	return fmt.Sprintf("prediction:%s:%s:%s", runID, homeTeam, awayTeam)
}
