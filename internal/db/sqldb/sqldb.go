// Package sqldb opens relational stores (modernc SQLite or PostgreSQL via pgx)
// behind one *sql.DB and rewrites placeholders per dialect.
package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // "pgx" driver
	_ "modernc.org/sqlite"             // "sqlite" driver
)

// Dialect selects the SQL flavour.
type Dialect string

// Supported dialects.
const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

// DB is a *sql.DB tagged with its dialect.
type DB struct {
	*sql.DB
	dialect Dialect
}

// Options tunes Open.
type Options struct {
	BusyTimeout  time.Duration // SQLite only
	MaxOpenConns int
}

// Open opens dsn with the given dialect. SQLite gets WAL, busy_timeout,
// synchronous=NORMAL and foreign keys; file paths have their directory created.
func Open(ctx context.Context, dialect Dialect, dsn string, opts Options) (*DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("sqldb: dsn is required")
	}

	var driver string
	switch dialect {
	case SQLite:
		driver = "sqlite"
		if !isMemory(dsn) && !strings.HasPrefix(dsn, "file:") {
			if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
				return nil, fmt.Errorf("sqldb: mkdir: %w", err)
			}
		}
	case Postgres:
		driver = "pgx"
	default:
		return nil, fmt.Errorf("sqldb: unsupported dialect %q", dialect)
	}

	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqldb: open: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if dialect == SQLite && isMemory(dsn) {
		// every connection to :memory: is a separate database
		sqlDB.SetMaxOpenConns(1)
	}

	db := &DB{DB: sqlDB, dialect: dialect}
	if dialect == SQLite {
		if err := db.applyPragmas(ctx, opts); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
	}
	return db, nil
}

func (db *DB) applyPragmas(ctx context.Context, opts Options) error {
	busy := opts.BusyTimeout
	if busy <= 0 {
		busy = 10 * time.Second
	}
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		fmt.Sprintf("PRAGMA busy_timeout = %d", busy.Milliseconds()),
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("sqldb: %s: %w", p, err)
		}
	}
	return nil
}

// Dialect returns the SQL flavour.
func (db *DB) Dialect() Dialect { return db.dialect }

// Rebind rewrites '?' placeholders to '$n' for PostgreSQL.
func (db *DB) Rebind(query string) string {
	if db.dialect != Postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Ping checks connectivity.
func (db *DB) Ping(ctx context.Context) error {
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// WaitForReady polls Ping until the database responds or timeout expires.
func (db *DB) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		if err := db.Ping(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for database: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

// Close closes the pool.
func (db *DB) Close() {
	_ = db.DB.Close()
}

func isMemory(dsn string) bool {
	return dsn == ":memory:" || strings.Contains(dsn, "mode=memory")
}
