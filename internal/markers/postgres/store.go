package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store keeps conversion markers in Postgres, for deployments that already
// run a database and want markers to survive instance restarts.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a Postgres-backed marker store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// CheckAndSet claims the key. The conditional upsert is a single statement,
// so the claim is atomic: the insert wins for a fresh key, the update wins
// only when the previous marker has expired, and anything else touches no
// rows.
func (s *Store) CheckAndSet(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	query := `
		INSERT INTO conversion_markers (key, expires_at)
		VALUES ($1, now() + $2)
		ON CONFLICT (key) DO UPDATE
			SET expires_at = excluded.expires_at
			WHERE conversion_markers.expires_at < now()
	`

	tag, err := s.pool.Exec(ctx, query, key, ttl)
	if err != nil {
		return false, fmt.Errorf("claim conversion marker: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}
