package sequence

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis allocates counters with INCR, which is atomic across all server
// instances sharing the same Redis.
type Redis struct {
	rdb *redis.Client
}

// NewRedis creates a generator over an existing client.
func NewRedis(rdb *redis.Client) *Redis {
	return &Redis{rdb: rdb}
}

func (r *Redis) Next(ctx context.Context, key Key) (int64, error) {
	n, err := r.rdb.Incr(ctx, key.String()).Result()
	if err != nil {
		return 0, fmt.Errorf("increment counter %s: %w", key.String(), err)
	}
	return n, nil
}
