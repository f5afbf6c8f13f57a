// Package redis caches probe results so repeated status requests for the
// same server do not hammer the status API.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/minedex/minedex/internal/domain"
)

const keyPrefixStatus = "minedex:status:"

// DefaultStatusTTL is how long a cached status stays fresh.
const DefaultStatusTTL = 30 * time.Second

// Store wraps the redis client with status-cache operations.
type Store struct {
	client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// StatusKey builds the cache key for one server id.
func StatusKey(id string) string {
	return keyPrefixStatus + id
}

// SetStatus caches a probe result for one server.
func (s *Store) SetStatus(ctx context.Context, id string, st domain.Status, ttl time.Duration) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode status: %w", err)
	}
	if err := s.client.Set(ctx, StatusKey(id), data, ttl).Err(); err != nil {
		return fmt.Errorf("cache status: %w", err)
	}
	return nil
}

// GetStatus returns the cached status for a server, or nil on a cache miss.
func (s *Store) GetStatus(ctx context.Context, id string) (*domain.Status, error) {
	data, err := s.client.Get(ctx, StatusKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // cache miss
		}
		return nil, fmt.Errorf("read cached status: %w", err)
	}
	var st domain.Status
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("decode cached status: %w", err)
	}
	return &st, nil
}

// InvalidateStatus drops the cached status for one server. Used when an
// entry is deleted so a recycled id cannot serve a stale status.
func (s *Store) InvalidateStatus(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, StatusKey(id)).Err(); err != nil {
		return fmt.Errorf("invalidate cached status: %w", err)
	}
	return nil
}
