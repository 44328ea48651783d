package db

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableExists(t *testing.T, conn *sqlx.DB, name string) bool {
	t.Helper()
	var n int
	require.NoError(t, conn.Get(&n, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = $1`, name))
	return n == 1
}

func TestMigrateStatusRollback(t *testing.T) {
	ctx := context.Background()
	conn, err := Connect(ctx, "sqlite", ":memory:")
	require.NoError(t, err)
	defer conn.Close()

	pending, err := Status(ctx, conn, "sqlite")
	require.NoError(t, err)
	require.NotEmpty(t, pending)
	assert.False(t, pending[0].Applied)
	assert.Equal(t, int64(1), pending[0].Version)
	assert.Equal(t, "00001_init", pending[0].Name)

	require.NoError(t, Migrate(ctx, conn, "sqlite"))
	for _, table := range []string{"users", "profiles", "thoughts", "missions", "goals", "visions", "ally_invites", "files"} {
		assert.True(t, tableExists(t, conn, table), table)
	}

	applied, err := Status(ctx, conn, "sqlite")
	require.NoError(t, err)
	assert.True(t, applied[0].Applied)

	// Up again is a no-op.
	require.NoError(t, Migrate(ctx, conn, "sqlite"))

	require.NoError(t, Rollback(ctx, conn, "sqlite"))
	assert.False(t, tableExists(t, conn, "missions"))
	require.NoError(t, Rollback(ctx, conn, "sqlite"))
}

func TestUnknownDriver(t *testing.T) {
	_, err := provider(&sqlx.DB{}, "clickhouse")
	assert.ErrorContains(t, err, "clickhouse")
}

func TestSqlitePath(t *testing.T) {
	assert.Equal(t, "./data/visionlog.db", sqlitePath("./data/visionlog.db?_pragma=foreign_keys(1)"))
	assert.Equal(t, "/tmp/x.db", sqlitePath("file:/tmp/x.db"))
	assert.True(t, isMemory(":memory:?_pragma=foreign_keys(1)"))
	assert.True(t, isMemory("file:test?mode=memory&cache=shared"))
	assert.False(t, isMemory("./data/visionlog.db"))
}
