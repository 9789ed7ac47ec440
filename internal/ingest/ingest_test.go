package ingest_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/llm-benchmarks-backend/internal/database"
	"github.com/jengzang/llm-benchmarks-backend/internal/ingest"
	"github.com/jengzang/llm-benchmarks-backend/internal/models"
	"github.com/jengzang/llm-benchmarks-backend/internal/repository"
)

func newStore(t *testing.T) *repository.SQLStore {
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

func score(v float64) *float64 { return &v }

func approve(_ []string) (bool, error) { return true, nil }

func TestNormaliseModelName(t *testing.T) {
	cases := map[string]string{
		"gpt-4o-2024-05-13":      "gpt 4o",
		"claude-3-opus-20240229": "claude 3 opus",
		"model-1234":             "model",
		"llama-2-70b":            "llama 2 70b",
		"Mistral_Large":          "mistral large",
		"  Qwen  ":               "qwen",
	}
	for in, want := range cases {
		assert.Equal(t, want, ingest.NormaliseModelName(in), in)
	}
}

func TestNormaliseDate(t *testing.T) {
	valid := map[string]string{
		"2024-03":    "2024-03",
		"2024-03-17": "2024-03",
		"20240317":   "2024-03",
		"2024":       "2024-01",
	}
	for in, want := range valid {
		got, err := ingest.NormaliseDate(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	for _, in := range []string{"", "March 2024", "2024-13", "24-03", "2024/03"} {
		_, err := ingest.NormaliseDate(in)
		assert.Error(t, err, in)
	}
}

func TestValidate(t *testing.T) {
	good := ingest.Item{Date: "20240501", ModelName: "m", BenchmarkID: "b", Score: score(1), OpenClosed: models.CategoryOpen}

	out, err := ingest.Validate([]ingest.Item{good})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "2024-05", out[0].Date)
	assert.Equal(t, "20240501", good.Date, "input must not be mutated")

	missingScore := good
	missingScore.Score = nil
	_, err = ingest.Validate([]ingest.Item{good, missingScore})
	assert.True(t, errors.Is(err, ingest.ErrMalformedObservation))
	assert.Contains(t, err.Error(), "item 1")
	assert.Contains(t, err.Error(), "score")

	badCategory := good
	badCategory.OpenClosed = "open"
	_, err = ingest.Validate([]ingest.Item{badCategory})
	assert.True(t, errors.Is(err, ingest.ErrMalformedObservation))

	badDate := good
	badDate.Date = "yesterday"
	_, err = ingest.Validate([]ingest.Item{badDate})
	assert.True(t, errors.Is(err, ingest.ErrMalformedObservation))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "results.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`[
		{"date": "2024-05", "modelName": "gpt-4o", "benchmarkId": "mmlu", "score": 88.7, "openClosed": "Closed"}
	]`), 0644))

	items, err := ingest.LoadFile(jsonPath)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "gpt-4o", items[0].ModelName)
	require.NotNil(t, items[0].Score)
	assert.Equal(t, 88.7, *items[0].Score)
	assert.Equal(t, models.CategoryClosed, items[0].OpenClosed)

	yamlPath := filepath.Join(dir, "results.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
- date: "2024-06"
  modelName: llama-3-70b
  benchmarkId: mmlu
  score: 82
  openClosed: Open
`), 0644))

	items, err = ingest.LoadFile(yamlPath)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "2024-06", items[0].Date)
	assert.Equal(t, models.CategoryOpen, items[0].OpenClosed)

	brokenPath := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(brokenPath, []byte(`{not json`), 0644))
	_, err = ingest.LoadFile(brokenPath)
	assert.True(t, errors.Is(err, ingest.ErrMalformedObservation))

	_, err = ingest.LoadFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestDiceMatcher(t *testing.T) {
	m := ingest.NewDiceMatcher(ingest.DefaultSimilarityThreshold)
	candidates := []string{"mistral large", "qwen 72b"}

	got, ok := m.Match("mistral large 2", candidates)
	assert.True(t, ok)
	assert.Equal(t, "mistral large", got)

	got, ok = m.Match("qwen 72b", candidates)
	assert.True(t, ok)
	assert.Equal(t, "qwen 72b", got)

	_, ok = m.Match("qwen 2", candidates)
	assert.False(t, ok)

	_, ok = m.Match("anything", nil)
	assert.False(t, ok)
}

func TestIngesterRun(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts then updates and skips", func(t *testing.T) {
		store := newStore(t)
		in := ingest.New(store, ingest.WithConfirm(approve))

		report, err := in.Run(ctx, []ingest.Item{
			{Date: "2024-05-13", ModelName: "GPT-4o-2024-05-13", BenchmarkID: "mmlu", Score: score(88.7), OpenClosed: models.CategoryClosed},
			{Date: "2024-04", ModelName: "llama-3-70b", BenchmarkID: "mmlu", Score: score(82), OpenClosed: models.CategoryOpen},
		})
		require.NoError(t, err)
		assert.Equal(t, 2, report.Inserted)
		assert.Equal(t, 2, report.ModelsCreated)
		assert.Equal(t, 1, report.BenchmarksCreated)
		assert.NotEmpty(t, report.BackupPath)

		b, err := store.GetBenchmark(ctx, "mmlu")
		require.NoError(t, err)
		assert.Equal(t, "mmlu", b.Name)

		report, err = in.Run(ctx, []ingest.Item{
			{Date: "2024-05", ModelName: "gpt-4o", BenchmarkID: "mmlu", Score: score(89.1), OpenClosed: models.CategoryClosed},
			{Date: "2024-04", ModelName: "llama-3-70b", BenchmarkID: "mmlu", Score: score(82), OpenClosed: models.CategoryOpen},
		})
		require.NoError(t, err)
		assert.Equal(t, 0, report.Inserted)
		assert.Equal(t, 1, report.Updated)
		assert.Equal(t, 1, report.Skipped)
		assert.Equal(t, 0, report.ModelsCreated)

		results, err := store.ListResults(ctx)
		require.NoError(t, err)
		require.Len(t, results, 2)
		for _, r := range results {
			if r.ModelName == "gpt 4o" {
				assert.Equal(t, 89.1, r.Score)
			}
		}
	})

	t.Run("merges near-identical model names", func(t *testing.T) {
		store := newStore(t)
		in := ingest.New(store, ingest.WithConfirm(approve), ingest.WithoutBackup())

		report, err := in.Run(ctx, []ingest.Item{
			{Date: "2024-02", ModelName: "mistral-large", BenchmarkID: "mmlu", Score: score(81), OpenClosed: models.CategoryClosed},
			{Date: "2024-07", ModelName: "Mistral_Large_2", BenchmarkID: "mmlu", Score: score(84), OpenClosed: models.CategoryClosed},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, report.ModelsCreated)
		assert.Equal(t, 2, report.Inserted)

		names, err := store.ListModels(ctx)
		require.NoError(t, err)
		require.Len(t, names, 1)
		assert.Equal(t, "mistral large", names[0].Name)
		require.NotNil(t, names[0].Author)
		assert.Equal(t, repository.DefaultAuthor, *names[0].Author)
	})

	t.Run("refused confirmation rolls back", func(t *testing.T) {
		store := newStore(t)
		var asked []string
		in := ingest.New(store, ingest.WithoutBackup(), ingest.WithConfirm(func(ids []string) (bool, error) {
			asked = ids
			return false, nil
		}))

		_, err := in.Run(ctx, []ingest.Item{
			{Date: "2024-02", ModelName: "a", BenchmarkID: "gpqa", Score: score(1), OpenClosed: models.CategoryOpen},
			{Date: "2024-02", ModelName: "b", BenchmarkID: "mmlu", Score: score(1), OpenClosed: models.CategoryOpen},
			{Date: "2024-03", ModelName: "c", BenchmarkID: "gpqa", Score: score(1), OpenClosed: models.CategoryOpen},
		})
		assert.True(t, errors.Is(err, ingest.ErrIngestCancelled))
		assert.Equal(t, []string{"gpqa", "mmlu"}, asked)

		status, err := store.Status(ctx)
		require.NoError(t, err)
		assert.Zero(t, status.BenchmarkCount)
		assert.Zero(t, status.ModelCount)
		assert.Zero(t, status.ResultCount)
	})

	t.Run("no confirm callback cancels new benchmarks", func(t *testing.T) {
		store := newStore(t)
		_, err := ingest.New(store, ingest.WithoutBackup()).Run(ctx, []ingest.Item{
			{Date: "2024-02", ModelName: "a", BenchmarkID: "gpqa", Score: score(1), OpenClosed: models.CategoryOpen},
		})
		assert.True(t, errors.Is(err, ingest.ErrIngestCancelled))
	})

	t.Run("known benchmarks need no confirmation", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.AddBenchmark(ctx, models.Benchmark{ID: "mmlu", Name: "MMLU"}))

		report, err := ingest.New(store, ingest.WithoutBackup()).Run(ctx, []ingest.Item{
			{Date: "2024-02", ModelName: "a", BenchmarkID: "mmlu", Score: score(1), OpenClosed: models.CategoryOpen},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, report.Inserted)
		assert.Equal(t, 0, report.BenchmarksCreated)
	})

	t.Run("invalid items write nothing", func(t *testing.T) {
		store := newStore(t)
		_, err := ingest.New(store, ingest.WithConfirm(approve)).Run(ctx, []ingest.Item{
			{Date: "2024-02", ModelName: "a", BenchmarkID: "mmlu", Score: score(1), OpenClosed: models.CategoryOpen},
			{Date: "2024-02", ModelName: "b", BenchmarkID: "mmlu", OpenClosed: models.CategoryOpen},
		})
		assert.True(t, errors.Is(err, ingest.ErrMalformedObservation))

		status, err := store.Status(ctx)
		require.NoError(t, err)
		assert.Zero(t, status.ResultCount)
	})
}

func TestImportAll(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	data := &models.AllData{
		Models: []models.Model{
			{ID: 1, Name: "llama", OpenClosed: models.CategoryOpen},
			{ID: 2, Name: "gpt", OpenClosed: models.CategoryClosed},
			{ID: 3, Name: "odd", OpenClosed: "Other"},
		},
		Benchmarks: []models.Benchmark{{ID: "b1", Name: "MMLU"}},
		Results: []models.Result{
			{Date: "2024-01", ModelName: "llama", BenchmarkID: "b1", Score: 60},
			{Date: "2024-02", ModelName: "gpt", BenchmarkID: "b1", Score: 80},
			{Date: "2024-02", ModelName: "ghost", BenchmarkID: "b1", Score: 10},
			{Date: "2024-02", ModelName: "gpt", BenchmarkID: "b9", Score: 10},
		},
	}

	report, err := ingest.ImportAll(ctx, store, data)
	require.NoError(t, err)
	assert.Equal(t, &ingest.ImportReport{Models: 2, Benchmarks: 1, Results: 2, Skipped: 2}, report)

	report, err = ingest.ImportAll(ctx, store, data)
	require.NoError(t, err)
	assert.Equal(t, &ingest.ImportReport{Models: 0, Benchmarks: 0, Results: 0, Skipped: 4}, report)

	obs, err := store.Observations(ctx, "b1")
	require.NoError(t, err)
	assert.Len(t, obs, 2)
}
