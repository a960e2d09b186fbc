package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/scholarspoint/sphub-backend/internal/model"
)

// RedisGateway keeps the snapshot under one Redis key, the closest analogue
// of the original app's localStorage entry.
type RedisGateway struct {
	rdb *redis.Client
	key string
	log zerolog.Logger
}

// NewRedisGateway creates a gateway writing under the given storage key.
func NewRedisGateway(rdb *redis.Client, key string, log zerolog.Logger) *RedisGateway {
	return &RedisGateway{
		rdb: rdb,
		key: key,
		log: log.With().Str("component", "redis_gateway").Logger(),
	}
}

func (g *RedisGateway) Load(ctx context.Context) (*model.AppState, error) {
	raw, err := g.rdb.Get(ctx, g.key).Bytes()
	if errors.Is(err, redis.Nil) {
		g.log.Info().Str("key", g.key).Msg("No stored state, starting empty")
		return emptyState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return decodeState(raw, g.log), nil
}

func (g *RedisGateway) Save(ctx context.Context, state *model.AppState) error {
	raw, err := encodeState(state)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := g.rdb.Set(ctx, g.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}
