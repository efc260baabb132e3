// Package store persists run output: a Redis seen-hash set for cross-run
// deduplication and an optional Postgres sink for the posting feed.
package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// seenKey is the Redis set holding every exported fingerprint.
const seenKey = "ie:seen_hashes"

// SeenStore keeps the cross-run fingerprint set in a Redis set.
type SeenStore struct {
	rdb *redis.Client
}

// NewSeenStore parses redisURL, verifies connectivity and returns the store.
func NewSeenStore(ctx context.Context, redisURL string) (*SeenStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL(%q): %w", redisURL, err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &SeenStore{rdb: client}, nil
}

// Load returns every fingerprint persisted so far.
func (s *SeenStore) Load(ctx context.Context) (map[string]struct{}, error) {
	members, err := s.rdb.SMembers(ctx, seenKey).Result()
	if err != nil {
		return nil, fmt.Errorf("SMEMBERS %s: %w", seenKey, err)
	}
	seen := make(map[string]struct{}, len(members))
	for _, h := range members {
		seen[h] = struct{}{}
	}
	return seen, nil
}

// Add records the given fingerprints. A no-op for an empty slice.
func (s *SeenStore) Add(ctx context.Context, hashes []string) error {
	if len(hashes) == 0 {
		return nil
	}
	members := make([]interface{}, len(hashes))
	for i, h := range hashes {
		members[i] = h
	}
	if err := s.rdb.SAdd(ctx, seenKey, members...).Err(); err != nil {
		return fmt.Errorf("SADD %s: %w", seenKey, err)
	}
	return nil
}

// Close releases the underlying connection.
func (s *SeenStore) Close() error { return s.rdb.Close() }
