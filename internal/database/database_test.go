package database

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_Migrates(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "pins.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var name string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'pins'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "pins", name)
}

func TestOpen_Twice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pins.db")
	db, err := Open(path, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(path, zerolog.Nop())
	require.NoError(t, err, "migrations are idempotent")
	db.Close()
}
