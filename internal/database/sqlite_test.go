package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "coach.db")

	db, err := InitDB(path)
	require.NoError(t, err)
	defer func() { require.NoError(t, db.Close()) }()

	var name string
	err = db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'credentials'").Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "credentials", name)
}

func TestInitDB_IsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coach.db")

	first, err := InitDB(path)
	require.NoError(t, err)
	_, err = first.Exec("INSERT INTO credentials (name, value, updated_at) VALUES ('k', x'00', CURRENT_TIMESTAMP)")
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := InitDB(path)
	require.NoError(t, err)
	defer func() { require.NoError(t, second.Close()) }()

	var count int
	require.NoError(t, second.QueryRow("SELECT COUNT(*) FROM credentials").Scan(&count))
	assert.Equal(t, 1, count)
}
