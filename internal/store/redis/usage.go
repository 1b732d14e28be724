package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// IncrementUsage bumps the usage counter of a bookmark and returns the new value
func (s *Store) IncrementUsage(ctx context.Context, id int64) (int64, error) {
	n, err := s.client.Incr(ctx, UsageKey(id)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment usage: %w", err)
	}
	return n, nil
}

// Usage returns the usage counter of a bookmark, 0 when it was never read
func (s *Store) Usage(ctx context.Context, id int64) (int64, error) {
	n, err := s.client.Get(ctx, UsageKey(id)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get usage: %w", err)
	}
	return n, nil
}

// DeleteUsage drops the usage counter of a bookmark
func (s *Store) DeleteUsage(ctx context.Context, id int64) error {
	if err := s.client.Del(ctx, UsageKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete usage: %w", err)
	}
	return nil
}

// UsageStats returns every tracked counter keyed by bookmark ID
func (s *Store) UsageStats(ctx context.Context) (map[int64]int64, error) {
	stats := make(map[int64]int64)

	iter := s.client.Scan(ctx, 0, KeyPrefixUsage+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		id, err := ExtractBookmarkID(key)
		if err != nil {
			continue
		}
		n, err := s.client.Get(ctx, key).Int64()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read usage %s: %w", key, err)
		}
		stats[id] = n
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan usage keys: %w", err)
	}

	return stats, nil
}
