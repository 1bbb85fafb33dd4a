// Package database provides the record store adapters behind core.Store.
//
// Three backends are available and selected by the scheme of DATABASE_URL:
//
//	postgres:// postgresql://   PostgresStore (pgx connection pool)
//	sqlite: sqlite:// file:     SQLiteStore (sqlx over go-sqlite3)
//	memory://                   MemoryStore (process memory, for tests and demos)
//
// The SQL backends create their tables with idempotent DDL on open. Every
// adapter translates driver errors into core.ErrNotFound and
// *core.ConflictError so the service never inspects driver types.
package database

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/iatacodes/internal/config"
	"github.com/JonMunkholm/iatacodes/internal/core"
)

// Open returns the store selected by cfg.URL.
func Open(ctx context.Context, cfg config.DatabaseConfig) (core.Store, error) {
	switch scheme := cfg.Scheme(); scheme {
	case "postgres":
		return NewPostgresStore(ctx, cfg)
	case "sqlite":
		return NewSQLiteStore(ctx, cfg.URL)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported database scheme %q", scheme)
	}
}

var (
	_ core.Store = (*PostgresStore)(nil)
	_ core.Store = (*SQLiteStore)(nil)
	_ core.Store = (*MemoryStore)(nil)
)
