package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// NewTestDB creates a new in-memory SQLite database for testing
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	require.NoError(t, err, "failed to create test database")

	err = db.RunMigrations()
	require.NoError(t, err, "failed to run migrations")

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// TestMigrations verifies that migrations run successfully and are repeatable
func TestMigrations(t *testing.T) {
	db := NewTestDB(t)

	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", "slots").Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 1, count, "table slots not found")

	require.NoError(t, db.RunMigrations(), "second run should be a no-op")
}

// TestSlotsTable verifies the slots table structure
func TestSlotsTable(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx, `INSERT INTO slots (key, value) VALUES (?, ?)`, "k1", []byte(`[]`))
	require.NoError(t, err)

	var value []byte
	err = db.QueryRowContext(ctx, `SELECT value FROM slots WHERE key = ?`, "k1").Scan(&value)
	require.NoError(t, err)
	require.Equal(t, `[]`, string(value))

	// key is the primary key
	_, err = db.ExecContext(ctx, `INSERT INTO slots (key, value) VALUES (?, ?)`, "k1", []byte(`[1]`))
	require.Error(t, err, "duplicate key should fail")
}

// TestFileDatabase verifies data survives reopening a file database
func TestFileDatabase(t *testing.T) {
	ctx := context.Background()
	path := t.TempDir() + "/knitpick.db"

	db, err := New(path)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	require.NoError(t, NewSlotRepository(db).Put(ctx, "projects", []byte(`[{"id":"1"}]`)))
	require.NoError(t, db.Close())

	reopened, err := New(path)
	require.NoError(t, err)
	t.Cleanup(func() { reopened.Close() })
	require.NoError(t, reopened.RunMigrations())

	data, err := NewSlotRepository(reopened).Get(ctx, "projects")
	require.NoError(t, err)
	require.Equal(t, `[{"id":"1"}]`, string(data))
}
