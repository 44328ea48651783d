// Package db opens the backing SQL database and applies the embedded
// migrations. SQLite is the default; Postgres is selected with the pgx driver.
package db

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Connect opens the database and verifies it answers, without migrating.
func Connect(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	if driver == "sqlite" && !isMemory(dsn) {
		if err := os.MkdirAll(filepath.Dir(sqlitePath(dsn)), 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	conn, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}
	tunePool(conn, driver, dsn)

	slog.Info("database connected", "driver", driver)
	return conn, nil
}

// Open connects and brings the schema up to date.
func Open(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	conn, err := Connect(ctx, driver, dsn)
	if err != nil {
		return nil, err
	}
	if err := Migrate(ctx, conn, driver); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

func Close(conn *sqlx.DB) error {
	if conn == nil {
		return nil
	}
	return conn.Close()
}

func tunePool(conn *sqlx.DB, driver, dsn string) {
	switch {
	case driver == "sqlite" && isMemory(dsn):
		// Each connection to :memory: is its own empty database.
		conn.SetMaxOpenConns(1)
	case driver == "sqlite":
		// One writer at a time; WAL lets readers proceed alongside it.
		conn.SetMaxOpenConns(4)
		conn.SetMaxIdleConns(4)
	default:
		conn.SetMaxOpenConns(25)
		conn.SetMaxIdleConns(5)
		conn.SetConnMaxLifetime(5 * time.Minute)
	}
}

func isMemory(dsn string) bool {
	return strings.HasPrefix(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

// sqlitePath strips the file: scheme and query parameters from a sqlite DSN.
func sqlitePath(dsn string) string {
	dsn = strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(dsn, '?'); i >= 0 {
		dsn = dsn[:i]
	}
	return dsn
}
