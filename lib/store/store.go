// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"fmt"
	"log/slog"
	"runtime"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/bureau-foundation/warden/lib/clock"
)

const schema = `
CREATE TABLE IF NOT EXISTS account (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    name          TEXT    NOT NULL UNIQUE,
    password_hash TEXT    NOT NULL,
    allow_login   INTEGER NOT NULL DEFAULT 0,
    roles         TEXT    NOT NULL DEFAULT '[]',
    policies      TEXT    NOT NULL DEFAULT '[]',
    created_at    INTEGER NOT NULL,
    updated_at    INTEGER NOT NULL
);
`

// Config holds the parameters for opening a Store. Path is required.
type Config struct {
	// Path is the filesystem path to the SQLite database file. The
	// file is created if it does not exist.
	Path string

	// PoolSize is the number of pooled connections. If zero or
	// negative, defaults to max(runtime.NumCPU(), 4).
	PoolSize int

	// Logger receives operational messages. If nil, a no-op logger is
	// used.
	Logger *slog.Logger

	// Clock supplies timestamps for created_at/updated_at. If nil,
	// the real clock is used.
	Clock clock.Clock
}

// Store is a pool of SQLite connections with the account schema
// applied. It is safe for concurrent use.
type Store struct {
	pool   *sqlitex.Pool
	logger *slog.Logger
	clock  clock.Clock
	path   string
}

// Open creates the connection pool, applies pragmas to every
// connection, and ensures the schema exists. The caller must Close the
// store when done.
func Open(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("store: Path is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	clk := cfg.Clock
	if clk == nil {
		clk = clock.Real()
	}

	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = runtime.NumCPU()
		if poolSize < 4 {
			poolSize = 4
		}
	}

	pool, err := sqlitex.NewPool(cfg.Path, sqlitex.PoolOptions{
		PoolSize:    poolSize,
		PrepareConn: prepareConnection,
	})
	if err != nil {
		return nil, fmt.Errorf("store: opening %s: %w", cfg.Path, err)
	}

	logger.Info("account store opened",
		"path", cfg.Path,
		"pool_size", poolSize,
	)

	return &Store{
		pool:   pool,
		logger: logger,
		clock:  clk,
		path:   cfg.Path,
	}, nil
}

// Close closes all connections in the pool. Blocks until borrowed
// connections are returned.
func (s *Store) Close() error {
	if err := s.pool.Close(); err != nil {
		s.logger.Error("account store close error",
			"path", s.path,
			"error", err,
		)
		return fmt.Errorf("store: closing %s: %w", s.path, err)
	}
	s.logger.Info("account store closed", "path", s.path)
	return nil
}

// prepareConnection runs once per pooled connection: standard pragmas,
// then the schema. WAL gives concurrent readers with a single writer,
// which fits the login-heavy read pattern.
func prepareConnection(conn *sqlite.Conn) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if err := sqlitex.ExecuteTransient(conn, pragma, nil); err != nil {
			return fmt.Errorf("store: %s: %w", pragma, err)
		}
	}
	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		return fmt.Errorf("store: applying schema: %w", err)
	}
	return nil
}
