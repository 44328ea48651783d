package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStale(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(src, []byte("package main"), 0o644))
	notes := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(notes, []byte("x"), 0o644))

	built := time.Now()
	old := built.Add(-time.Hour)
	require.NoError(t, os.Chtimes(src, old, old))
	assert.False(t, stale(built, dir))

	// Only sources count.
	future := built.Add(time.Hour)
	require.NoError(t, os.Chtimes(notes, future, future))
	assert.False(t, stale(built, dir))

	require.NoError(t, os.Chtimes(src, future, future))
	assert.True(t, stale(built, filepath.Join(dir, "missing"), dir))
}

func TestRootHasDevTools(t *testing.T) {
	root := RootCmd()
	for _, path := range [][]string{{"dev"}, {"migrate", "up"}, {"migrate", "down"}, {"migrate", "status"}} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}
