package db

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"giftExchangeServer/config"
	"giftExchangeServer/game"
	"giftExchangeServer/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// PostgresPool is the global PostgreSQL connection pool. Nil when the
// postgres snapshot mirror is disabled.
var PostgresPool *pgxpool.Pool

// InitPostgres initializes the PostgreSQL connection pool.
func InitPostgres() error {
	logger.Get().Info("🔌 Connecting to PostgreSQL...")

	databaseURL := os.Getenv(config.EnvDatabaseURL)
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.SnapshotTimeout)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return fmt.Errorf("failed to parse database URL: %w", err)
	}

	// Configure pool settings
	poolConfig.MaxConns = config.MaxOpenConns
	poolConfig.MinConns = config.MinIdleConns
	poolConfig.MaxConnLifetime = config.ConnMaxLifetime

	PostgresPool, err = pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := PostgresPool.Ping(ctx); err != nil {
		PostgresPool.Close()
		PostgresPool = nil
		return fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Get().Info("✅ PostgreSQL connected")

	if err := InitSchema(context.Background()); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	return nil
}

// ClosePostgres closes the PostgreSQL connection pool.
func ClosePostgres() {
	if PostgresPool != nil {
		logger.Get().Info("🔌 Closing PostgreSQL connection...")
		PostgresPool.Close()
	}
}

// InitSchema creates the database tables if they don't exist.
func InitSchema(ctx context.Context) error {
	logger.Get().Info("📋 Initializing database schema...")

	snapshotSchema := `
	CREATE TABLE IF NOT EXISTS game_snapshots (
		game_id TEXT PRIMARY KEY,
		record JSONB NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	-- Index on updated_at for operational queries
	CREATE INDEX IF NOT EXISTS idx_game_snapshots_updated_at ON game_snapshots(updated_at DESC);
	`

	if _, err := PostgresPool.Exec(ctx, snapshotSchema); err != nil {
		return fmt.Errorf("failed to create game_snapshots table: %w", err)
	}

	logger.Get().Info("✅ Database schema initialized")
	return nil
}

/* =========================
   SNAPSHOT STORE (POSTGRES)
========================= */

// PostgresStore mirrors the snapshot map into the game_snapshots table, one
// row per game.
type PostgresStore struct{}

// NewPostgresStore returns the postgres-backed snapshot store. InitPostgres
// must have succeeded first.
func NewPostgresStore() *PostgresStore {
	return &PostgresStore{}
}

// Save upserts every game record.
func (s *PostgresStore) Save(ctx context.Context, games map[string]*game.Game) error {
	if PostgresPool == nil {
		logger.Get().Warn("⚠️  PostgreSQL not initialized, skipping snapshot")
		return nil
	}

	query := `
		INSERT INTO game_snapshots (game_id, record, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (game_id) DO UPDATE
		SET record = $2, updated_at = NOW()
	`

	for id, g := range games {
		record, err := json.Marshal(g)
		if err != nil {
			return fmt.Errorf("failed to marshal game %s: %w", id, err)
		}
		if _, err := PostgresPool.Exec(ctx, query, id, record); err != nil {
			return fmt.Errorf("failed to store game snapshot: %w", err)
		}
	}

	return nil
}

// Load reads every stored game record. Rows that no longer decode are
// skipped with a warning rather than failing startup.
func (s *PostgresStore) Load(ctx context.Context) (map[string]*game.Game, error) {
	games := make(map[string]*game.Game)
	if PostgresPool == nil {
		return games, nil
	}

	rows, err := PostgresPool.Query(ctx, `SELECT game_id, record FROM game_snapshots`)
	if err != nil {
		return nil, fmt.Errorf("failed to query game snapshots: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var record []byte
		if err := rows.Scan(&id, &record); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		var g game.Game
		if err := json.Unmarshal(record, &g); err != nil {
			logger.Get().Warn("⚠️  Skipping unreadable game snapshot",
				zap.String("game_id", id), zap.Error(err))
			continue
		}
		games[id] = &g
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return games, nil
}

/* =========================
   HEALTH CHECK
========================= */

// HealthCheckPostgres performs a PostgreSQL health check.
func HealthCheckPostgres(ctx context.Context) error {
	if PostgresPool == nil {
		return fmt.Errorf("PostgreSQL connection pool not initialized")
	}
	return PostgresPool.Ping(ctx)
}
