package repository_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/llm-benchmarks-backend/internal/config"
	"github.com/jengzang/llm-benchmarks-backend/internal/database"
	"github.com/jengzang/llm-benchmarks-backend/internal/models"
	"github.com/jengzang/llm-benchmarks-backend/internal/repository"
)

func newSQLiteStore(t *testing.T) *repository.SQLStore {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()

	db, err := database.Open(ctx, database.Config{Driver: database.DriverSQLite, DSN: filepath.Join(dir, "bench.db")})
	require.NoError(t, err)
	_, err = database.NewMigrationManager(db).RunMigrations(ctx)
	require.NoError(t, err)

	store := repository.NewSQLStore(db, 0, filepath.Join(dir, "backups"))
	t.Cleanup(func() { store.Close() })
	return store
}

func newJSONStore(t *testing.T) *repository.JSONStore {
	t.Helper()
	dir := t.TempDir()
	store, err := repository.NewJSONStore(filepath.Join(dir, "data"), filepath.Join(dir, "backups"))
	require.NoError(t, err)
	return store
}

func author(s string) *string { return &s }

// seed adds two benchmarks and a few results across both categories
func seed(t *testing.T, store repository.Store) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, store.AddBenchmark(ctx, models.Benchmark{ID: "b-mmlu", Name: "MMLU"}))
	require.NoError(t, store.AddBenchmark(ctx, models.Benchmark{ID: "b-gsm", Name: "GSM8K"}))

	save := func(name string, c models.Category, bench, date string, score float64) {
		_, err := store.SaveResult(ctx,
			models.Model{Name: name, Author: author(repository.DefaultAuthor), OpenClosed: c},
			models.Result{Date: date, ModelName: name, BenchmarkID: bench, Score: score})
		require.NoError(t, err)
	}
	save("llama", models.CategoryOpen, "b-mmlu", "2024-01", 0.6)
	save("gpt", models.CategoryClosed, "b-mmlu", "2024-02", 0.8)
	save("llama", models.CategoryOpen, "b-mmlu", "2024-03", 0.7)
	save("gpt", models.CategoryClosed, "b-gsm", "2024-02", 0.9)
}

func TestStores(t *testing.T) {
	factories := map[string]func(t *testing.T) repository.Store{
		"sqlite": func(t *testing.T) repository.Store { return newSQLiteStore(t) },
		"json":   func(t *testing.T) repository.Store { return newJSONStore(t) },
	}

	for name, factory := range factories {
		t.Run(name, func(t *testing.T) {
			t.Run("empty store", func(t *testing.T) {
				store := factory(t)
				ctx := context.Background()

				data, err := store.AllData(ctx)
				require.NoError(t, err)
				assert.NotNil(t, data.Models)
				assert.Empty(t, data.Results)

				obs, err := store.Observations(ctx, "missing")
				require.NoError(t, err)
				assert.Empty(t, obs)
				assert.NoError(t, store.Ping(ctx))
			})

			t.Run("save and read back", func(t *testing.T) {
				store := factory(t)
				ctx := context.Background()
				seed(t, store)

				status, err := store.Status(ctx)
				require.NoError(t, err)
				assert.Equal(t, int64(2), status.ModelCount)
				assert.Equal(t, int64(2), status.BenchmarkCount)
				assert.Equal(t, int64(4), status.ResultCount)
				assert.Equal(t, store.Driver(), status.Driver)

				obs, err := store.Observations(ctx, "b-mmlu")
				require.NoError(t, err)
				require.Len(t, obs, 3)
				assert.Equal(t, models.Observation{
					Date: "2024-01", ModelName: "llama", BenchmarkID: "b-mmlu", Score: 0.6, Category: models.CategoryOpen,
				}, obs[0])
				assert.Equal(t, models.CategoryClosed, obs[1].Category)

				list, err := store.ListModels(ctx)
				require.NoError(t, err)
				require.Len(t, list, 2)
				assert.Equal(t, "llama", list[0].Name)
				require.NotNil(t, list[0].Author)
				assert.Equal(t, repository.DefaultAuthor, *list[0].Author)
				assert.Nil(t, list[0].Params)
			})

			t.Run("existing model is reused", func(t *testing.T) {
				store := factory(t)
				ctx := context.Background()
				seed(t, store)

				created, err := store.SaveResult(ctx,
					models.Model{Name: "llama", OpenClosed: models.CategoryOpen},
					models.Result{Date: "2024-04", ModelName: "llama", BenchmarkID: "b-gsm", Score: 0.5})
				require.NoError(t, err)
				assert.False(t, created)
			})

			t.Run("unknown benchmark is rejected", func(t *testing.T) {
				store := factory(t)
				_, err := store.SaveResult(context.Background(),
					models.Model{Name: "x", OpenClosed: models.CategoryOpen},
					models.Result{Date: "2024-04", ModelName: "x", BenchmarkID: "nope", Score: 1})
				assert.ErrorIs(t, err, repository.ErrNotFound)
			})

			t.Run("duplicate benchmark conflicts", func(t *testing.T) {
				store := factory(t)
				ctx := context.Background()
				require.NoError(t, store.AddBenchmark(ctx, models.Benchmark{ID: "a", Name: "ARC"}))

				err := store.AddBenchmark(ctx, models.Benchmark{ID: "b", Name: "ARC"})
				assert.ErrorIs(t, err, repository.ErrConflict)

				got, err := store.GetBenchmark(ctx, "a")
				require.NoError(t, err)
				assert.Equal(t, "ARC", got.Name)

				_, err = store.GetBenchmark(ctx, "b")
				assert.ErrorIs(t, err, repository.ErrNotFound)
			})

			t.Run("delete benchmark removes its results", func(t *testing.T) {
				store := factory(t)
				ctx := context.Background()
				seed(t, store)

				deleted, err := store.DeleteBenchmarkByName(ctx, "MMLU")
				require.NoError(t, err)
				assert.Equal(t, "b-mmlu", deleted.ID)

				results, err := store.ListResults(ctx)
				require.NoError(t, err)
				require.Len(t, results, 1)
				assert.Equal(t, "b-gsm", results[0].BenchmarkID)

				_, err = store.DeleteBenchmarkByName(ctx, "MMLU")
				assert.ErrorIs(t, err, repository.ErrNotFound)
			})

			t.Run("delete models removes their results", func(t *testing.T) {
				store := factory(t)
				ctx := context.Background()
				seed(t, store)

				removed, err := store.DeleteModels(ctx, []string{"gpt", "ghost"})
				require.NoError(t, err)
				assert.Equal(t, int64(1), removed)

				data, err := store.AllData(ctx)
				require.NoError(t, err)
				assert.Len(t, data.Models, 1)
				assert.Len(t, data.Results, 2)
				for _, r := range data.Results {
					assert.Equal(t, "llama", r.ModelName)
				}
			})

			t.Run("backup", func(t *testing.T) {
				store := factory(t)
				seed(t, store)

				path, err := store.Backup(context.Background())
				require.NoError(t, err)
				_, err = os.Stat(path)
				assert.NoError(t, err)
			})
		})
	}
}

func TestJSONStoreFormat(t *testing.T) {
	store := newJSONStore(t)
	seed(t, store)

	data, err := store.AllData(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), data.Models[0].ID)
	assert.Equal(t, int64(2), data.Models[1].ID)
	assert.Zero(t, data.Results[0].ID, "result ids are not persisted in flat files")
}

func TestJSONStoreBackupCopiesFiles(t *testing.T) {
	store := newJSONStore(t)
	seed(t, store)

	path, err := store.Backup(context.Background())
	require.NoError(t, err)

	for _, name := range []string{repository.ModelsFile, repository.BenchmarksFile, repository.ResultsFile} {
		_, err := os.Stat(filepath.Join(path, name))
		assert.NoError(t, err, name)
	}

	backup, err := repository.LoadJSONData(path)
	require.NoError(t, err)
	assert.Len(t, backup.Results, 4)
}

func TestSQLStoreTransactionRepositories(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()
	seed(t, store)

	err := store.InTx(ctx, func(r repository.Repositories) error {
		existing, err := r.Results.Find(ctx, "2024-01", "llama", "b-mmlu")
		require.NoError(t, err)
		return r.Results.UpdateScore(ctx, existing.ID, 0.65)
	})
	require.NoError(t, err)

	found, err := repository.NewResultRepository(store.DB()).Find(ctx, "2024-01", "llama", "b-mmlu")
	require.NoError(t, err)
	assert.Equal(t, 0.65, found.Score)

	_, err = repository.NewResultRepository(store.DB()).Find(ctx, "2030-01", "llama", "b-mmlu")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	names, err := repository.NewModelRepository(store.DB()).Names(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"llama", "gpt"}, names)

	ids, err := repository.NewBenchmarkRepository(store.DB()).IDs(ctx)
	require.NoError(t, err)
	assert.True(t, ids["b-gsm"])
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := repository.Open(ctx, config.StorageConfig{Driver: config.DriverJSON, JSONDir: filepath.Join(dir, "json")})
	require.NoError(t, err)
	assert.Equal(t, "json", store.Driver())

	store, err = repository.Open(ctx, config.StorageConfig{Driver: config.DriverSQLite, SQLitePath: filepath.Join(dir, "bench.db")})
	require.NoError(t, err)
	assert.Equal(t, database.DriverSQLite, store.Driver())
	require.NoError(t, store.Ping(ctx))
	require.NoError(t, store.Close())

	_, err = repository.OpenSQL(ctx, config.StorageConfig{Driver: config.DriverJSON})
	assert.Error(t, err)
}
