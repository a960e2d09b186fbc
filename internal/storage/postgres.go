package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/scholarspoint/sphub-backend/internal/model"
)

// PostgresGateway keeps the snapshot in a single app_snapshots row.
type PostgresGateway struct {
	pool *pgxpool.Pool
	key  string
	log  zerolog.Logger
}

// NewPostgresGateway creates a gateway writing under the given storage key.
func NewPostgresGateway(pool *pgxpool.Pool, key string, log zerolog.Logger) *PostgresGateway {
	return &PostgresGateway{
		pool: pool,
		key:  key,
		log:  log.With().Str("component", "postgres_gateway").Logger(),
	}
}

func (g *PostgresGateway) Load(ctx context.Context) (*model.AppState, error) {
	var raw []byte
	err := g.pool.QueryRow(ctx,
		`SELECT payload FROM app_snapshots WHERE key = $1`, g.key).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		g.log.Info().Str("key", g.key).Msg("No stored state, starting empty")
		return emptyState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return decodeState(raw, g.log), nil
}

func (g *PostgresGateway) Save(ctx context.Context, state *model.AppState) error {
	raw, err := encodeState(state)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	_, err = g.pool.Exec(ctx,
		`INSERT INTO app_snapshots (key, payload, updated_at) VALUES ($1, $2, NOW())
		 ON CONFLICT (key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()`,
		g.key, raw)
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}
