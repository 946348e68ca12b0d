package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenCreatesSchemaAndMigrates(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	cols, err := tableColumns(db, "imported_trades")
	require.NoError(t, err)
	for _, name := range []string{"hash_id", "timeframe", "commission", "swap"} {
		assert.True(t, cols[name], name)
	}
}

func TestOpenAddsColumnsToOlderDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.db")

	db, err := Open(path)
	require.NoError(t, err)
	_, err = db.Exec("ALTER TABLE imported_trades DROP COLUMN swap")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()

	cols, err := tableColumns(db, "imported_trades")
	require.NoError(t, err)
	assert.True(t, cols["swap"])
}

func TestInitDB(t *testing.T) {
	require.NoError(t, InitDB(":memory:"))
	t.Cleanup(func() { DB.Close() })
	require.NoError(t, DB.Ping())
}
