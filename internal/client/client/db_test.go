package client

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDatabase(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.db")

	db, err := InitDatabase(ctx, path)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `INSERT INTO metadata (key, value) VALUES ('k', 'v')`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// Reopening an existing file is a no-op migration.
	db, err = InitDatabase(ctx, path)
	require.NoError(t, err)
	defer db.Close()

	var v string
	require.NoError(t, db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = 'k'`).Scan(&v))
	assert.Equal(t, "v", v)
}

func TestInitDatabase_BadPath(t *testing.T) {
	_, err := InitDatabase(context.Background(), filepath.Join(t.TempDir(), "missing", "dir", "session.db"))
	assert.Error(t, err)
}
