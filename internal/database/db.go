package database

import (
	"context"
	"database/sql"
	"sync"

	_ "github.com/lib/pq"

	"focusdock/internal/config"
	"focusdock/pkg/logger"
)

var (
	pool *sql.DB
	once sync.Once
)

// DB returns the global database connection pool (initialized on first use).
// Returns nil when DATABASE_URL is not set; callers fall back to the in-memory
// store in that case.
func DB(ctx context.Context) *sql.DB {
	once.Do(func() {
		cfg := config.Get()
		if cfg.DatabaseURL == "" {
			logger.Warn(ctx, "DATABASE_URL is not set; running without Postgres")
			return
		}
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			logger.Error(ctx, "Failed to open database", "error", err)
			return
		}
		db.SetMaxOpenConns(cfg.DBPoolSize)
		db.SetMaxIdleConns(cfg.DBPoolSize / 2)
		pool = db
		logger.Info(ctx, "Database pool initialized", "max_open", cfg.DBPoolSize)
	})
	return pool
}

// EnsureSchema creates the tables and indexes the stores depend on. Idempotent.
// The unique (owner_id, ord) index is the backstop for the dense-ordering
// invariant under concurrent creates and moves.
func EnsureSchema(ctx context.Context) error {
	db := DB(ctx)
	if db == nil {
		return nil
	}
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS todos (
			id TEXT PRIMARY KEY,
			text TEXT NOT NULL,
			completed BOOLEAN NOT NULL DEFAULT FALSE,
			ord INTEGER NOT NULL,
			owner_id TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			CONSTRAINT todos_owner_ord_unique UNIQUE (owner_id, ord)
		)`,
		`CREATE INDEX IF NOT EXISTS todos_owner_idx ON todos (owner_id)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			duration_minutes INTEGER NOT NULL,
			date TIMESTAMPTZ NOT NULL,
			clock_time TEXT,
			owner_id TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS sessions_owner_date_idx ON sessions (owner_id, date DESC)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
