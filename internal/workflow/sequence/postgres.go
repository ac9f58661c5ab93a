package sequence

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres allocates counters from the sequence_counters table. The upsert
// runs as one statement, so two concurrent creates always receive distinct
// values.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a generator over an existing pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) Next(ctx context.Context, key Key) (int64, error) {
	var n int64
	err := p.pool.QueryRow(ctx, `
		INSERT INTO sequence_counters (key, value)
		VALUES ($1, 1)
		ON CONFLICT (key) DO UPDATE SET value = sequence_counters.value + 1
		RETURNING value`, key.String()).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("increment counter %s: %w", key.String(), err)
	}
	return n, nil
}
