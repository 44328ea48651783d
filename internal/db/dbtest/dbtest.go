// Package dbtest provides a migrated in-memory database for tests.
package dbtest

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/relayvision/visionlog/internal/db"
)

// New returns a fresh sqlite database with every migration applied.
// It is closed when the test ends.
func New(t testing.TB) *sqlx.DB {
	t.Helper()
	conn, err := db.Open(context.Background(), "sqlite", ":memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	t.Cleanup(func() {
		conn.Close()
	})
	return conn
}
