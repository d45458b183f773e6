package memory

import (
	"context"
	"sync"
	"time"
)

// Store keeps conversion markers in process memory. Suitable for local dev
// and tests; markers do not survive a restart.
type Store struct {
	mu    sync.Mutex
	now   func() time.Time
	items map[string]time.Time
}

// NewStore creates a new in-memory marker store.
func NewStore() *Store {
	return &Store{
		now:   time.Now,
		items: make(map[string]time.Time),
	}
}

// CheckAndSet claims the key if it is absent or expired. The mutex makes the
// check and the write one atomic step.
func (s *Store) CheckAndSet(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if expiry, ok := s.items[key]; ok && expiry.After(now) {
		return false, nil
	}

	s.items[key] = now.Add(ttl)
	return true, nil
}
