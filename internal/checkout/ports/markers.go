package ports

import (
	"context"
	"time"
)

// MarkerStore is the session-scoped idempotency marker behind the
// conversion emitter. CheckAndSet atomically claims a key: it returns true
// exactly once per key within the TTL window, so the caller that gets true
// is the one allowed to emit. There is no separate read-then-write step.
type MarkerStore interface {
	CheckAndSet(ctx context.Context, key string, ttl time.Duration) (claimed bool, err error)
}
