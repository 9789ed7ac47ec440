package database_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/llm-benchmarks-backend/internal/database"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := database.Open(context.Background(), database.Config{
		Driver: database.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "nested", "bench.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRunMigrations(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	mm := database.NewMigrationManager(db)

	applied, err := mm.RunMigrations(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, applied)

	again, err := mm.RunMigrations(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, again, "migrations are idempotent")

	var tables []string
	require.NoError(t, db.SelectContext(ctx, &tables,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name IN ('models', 'benchmarks', 'results') ORDER BY name"))
	assert.Equal(t, []string{"benchmarks", "models", "results"}, tables)
}

func TestForeignKeysEnforced(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	_, err := database.NewMigrationManager(db).RunMigrations(ctx)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx,
		"INSERT INTO results (date, model_name, benchmark_id, score) VALUES ('2024-01', 'ghost', 'none', 1)")
	assert.Error(t, err)
}

func TestTransactionRollback(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	_, err := database.NewMigrationManager(db).RunMigrations(ctx)
	require.NoError(t, err)

	boom := errors.New("boom")
	err = database.Transaction(ctx, db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, "INSERT INTO benchmarks (id, name) VALUES ('b1', 'MMLU')"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int
	require.NoError(t, db.GetContext(ctx, &count, "SELECT COUNT(*) FROM benchmarks"))
	assert.Zero(t, count)
}

func TestBackupSQLite(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	_, err := database.NewMigrationManager(db).RunMigrations(ctx)
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "backups")
	path, err := database.BackupSQLite(ctx, db, dir)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
	assert.Equal(t, dir, filepath.Dir(path))
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := database.Open(context.Background(), database.Config{Driver: "mysql"})
	assert.ErrorContains(t, err, "unsupported database driver")
}
