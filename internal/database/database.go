// Anisette - Anime Metadata Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anisette

/*
database.go - DuckDB Warehouse Connection Management

This file manages the DuckDB connection lifecycle for the anime metadata
warehouse: opening with a tuned DSN, connection pool configuration, schema
initialization, and graceful shutdown with a final checkpoint.

DuckDB is embedded (CGO), so the "pool" is a set of connections into one
in-process database. The pipeline is the only writer; API queries are
read-only and can run concurrently with it.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	// DuckDB driver (registers "duckdb" with database/sql)
	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/anisette/internal/config"
	"github.com/tomtom215/anisette/internal/logging"
)

// DB wraps the DuckDB connection and exposes the warehouse operations the
// pipeline and API layers use. All methods are safe for concurrent use.
type DB struct {
	conn *sql.DB
	cfg  *config.DatabaseConfig
}

// New creates a database connection, configures the pool, and initializes
// the warehouse schema. The caller owns the returned DB and must Close it.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database config is required")
	}

	// Ensure parent directory exists for file-backed databases
	if cfg.Path != ":memory:" && cfg.Path != "" {
		dbDir := filepath.Dir(cfg.Path)
		if err := os.MkdirAll(dbDir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	maxMemory := cfg.MaxMemory
	if maxMemory == "" {
		maxMemory = "1GB"
	}

	dsn := fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s",
		cfg.Path, threads, maxMemory)

	conn, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{
		conn: conn,
		cfg:  cfg,
	}

	db.configureConnectionPool()

	if err := db.initialize(); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	logging.Info().
		Str("path", cfg.Path).
		Int("threads", threads).
		Str("max_memory", maxMemory).
		Msg("Database initialized")

	return db, nil
}

// configureConnectionPool tunes the database/sql pool for an embedded
// DuckDB workload: bounded by CPU count, idle connections trimmed quickly.
func (db *DB) configureConnectionPool() {
	db.conn.SetMaxOpenConns(runtime.NumCPU())
	db.conn.SetMaxIdleConns(2)
	db.conn.SetConnMaxLifetime(time.Hour)
	db.conn.SetConnMaxIdleTime(5 * time.Minute)
}

// initialize creates tables and indexes if they do not exist
func (db *DB) initialize() error {
	if err := db.createTables(); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	if err := db.createIndexes(); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

// Close checkpoints the WAL and closes the connection. The checkpoint is
// best-effort: a failure is logged but does not block shutdown.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}

	ctx, cancel := schemaContext()
	defer cancel()

	if _, err := db.conn.ExecContext(ctx, "CHECKPOINT"); err != nil {
		logging.Warn().Err(err).Msg("Failed to checkpoint database before close")
	}

	if err := db.conn.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	logging.Info().Msg("Database closed")
	return nil
}

// Ping verifies the database connection is alive
func (db *DB) Ping() error {
	if db.conn == nil {
		return fmt.Errorf("database connection is nil")
	}
	return db.conn.Ping()
}

// Conn exposes the underlying connection for callers that need raw access
func (db *DB) Conn() *sql.DB {
	return db.conn
}
