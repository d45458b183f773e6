package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "conversion_marker:"

// Store keeps conversion markers in Redis. SET NX with a TTL gives the
// atomic check-and-set and models the browser-session scope via expiry.
type Store struct {
	client *redis.Client
}

// NewStore creates a Redis-backed marker store.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// CheckAndSet claims the key. Redis evaluates SET NX atomically, so exactly
// one caller observes true for a given key within the TTL window.
func (s *Store) CheckAndSet(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	claimed, err := s.client.SetNX(ctx, keyPrefix+key, 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("set conversion marker: %w", err)
	}
	return claimed, nil
}
