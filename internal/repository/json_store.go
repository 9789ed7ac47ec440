package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jengzang/llm-benchmarks-backend/internal/models"
)

// File names used by JSONStore
const (
	ModelsFile     = "models.json"
	BenchmarksFile = "benchmarks.json"
	ResultsFile    = "results.json"
)

// JSONStore implements Store over three JSON documents in one directory.
// Every mutation rewrites the affected files under a single lock.
type JSONStore struct {
	mu        sync.RWMutex
	dir       string
	backupDir string
}

// NewJSONStore creates a store rooted at dir, creating the directory if needed
func NewJSONStore(dir, backupDir string) (*JSONStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &JSONStore{dir: dir, backupDir: backupDir}, nil
}

// LoadJSONData reads a JSON store directory without taking ownership of it
func LoadJSONData(dir string) (*models.AllData, error) {
	s := &JSONStore{dir: dir}
	return s.load()
}

func (s *JSONStore) path(name string) string {
	return filepath.Join(s.dir, name)
}

// readFile decodes one document; a missing file is an empty list
func (s *JSONStore) readFile(name string, v interface{}) error {
	raw, err := os.ReadFile(s.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

// writeFile replaces one document atomically with 2-space indentation
func (s *JSONStore) writeFile(name string, v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), s.path(name)); err != nil {
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}

func (s *JSONStore) load() (*models.AllData, error) {
	data := &models.AllData{
		Models:     []models.Model{},
		Benchmarks: []models.Benchmark{},
		Results:    []models.Result{},
	}
	if err := s.readFile(ModelsFile, &data.Models); err != nil {
		return nil, err
	}
	if err := s.readFile(BenchmarksFile, &data.Benchmarks); err != nil {
		return nil, err
	}
	if err := s.readFile(ResultsFile, &data.Results); err != nil {
		return nil, err
	}
	return data, nil
}

// Driver implements Store
func (s *JSONStore) Driver() string {
	return "json"
}

// ListModels implements Store
func (s *JSONStore) ListModels(_ context.Context) ([]models.Model, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := []models.Model{}
	return list, s.readFile(ModelsFile, &list)
}

// ListBenchmarks implements Store
func (s *JSONStore) ListBenchmarks(_ context.Context) ([]models.Benchmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := []models.Benchmark{}
	return list, s.readFile(BenchmarksFile, &list)
}

// ListResults implements Store
func (s *JSONStore) ListResults(_ context.Context) ([]models.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := []models.Result{}
	return list, s.readFile(ResultsFile, &list)
}

// AllData implements Store
func (s *JSONStore) AllData(_ context.Context) (*models.AllData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.load()
}

// Observations implements Store
func (s *JSONStore) Observations(_ context.Context, benchmarkID string) ([]models.Observation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := s.load()
	if err != nil {
		return nil, err
	}

	categories := make(map[string]models.Category, len(data.Models))
	for _, m := range data.Models {
		categories[m.Name] = m.OpenClosed
	}

	observations := []models.Observation{}
	for _, r := range data.Results {
		if r.BenchmarkID != benchmarkID {
			continue
		}
		category, ok := categories[r.ModelName]
		if !ok {
			continue
		}
		observations = append(observations, models.Observation{
			Date:        r.Date,
			ModelName:   r.ModelName,
			BenchmarkID: r.BenchmarkID,
			Score:       r.Score,
			Category:    category,
		})
	}
	return observations, nil
}

// GetBenchmark implements Store
func (s *JSONStore) GetBenchmark(_ context.Context, id string) (*models.Benchmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var list []models.Benchmark
	if err := s.readFile(BenchmarksFile, &list); err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == id {
			return &list[i], nil
		}
	}
	return nil, fmt.Errorf("benchmark %q: %w", id, ErrNotFound)
}

// AddBenchmark implements Store
func (s *JSONStore) AddBenchmark(_ context.Context, b models.Benchmark) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var list []models.Benchmark
	if err := s.readFile(BenchmarksFile, &list); err != nil {
		return err
	}
	for _, existing := range list {
		if existing.ID == b.ID || existing.Name == b.Name {
			return fmt.Errorf("benchmark %q: %w", b.Name, ErrConflict)
		}
	}
	return s.writeFile(BenchmarksFile, append(list, b))
}

// DeleteBenchmarkByName implements Store
func (s *JSONStore) DeleteBenchmarkByName(_ context.Context, name string) (*models.Benchmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return nil, err
	}

	var target *models.Benchmark
	benchmarks := make([]models.Benchmark, 0, len(data.Benchmarks))
	for i := range data.Benchmarks {
		if target == nil && data.Benchmarks[i].Name == name {
			target = &data.Benchmarks[i]
			continue
		}
		benchmarks = append(benchmarks, data.Benchmarks[i])
	}
	if target == nil {
		return nil, fmt.Errorf("benchmark %q: %w", name, ErrNotFound)
	}

	results := make([]models.Result, 0, len(data.Results))
	for _, r := range data.Results {
		if r.BenchmarkID != target.ID {
			results = append(results, r)
		}
	}

	if err := s.writeFile(BenchmarksFile, benchmarks); err != nil {
		return nil, err
	}
	if err := s.writeFile(ResultsFile, results); err != nil {
		return nil, err
	}
	return target, nil
}

// SaveResult implements Store
func (s *JSONStore) SaveResult(_ context.Context, model models.Model, res models.Result) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return false, err
	}

	known := false
	for _, b := range data.Benchmarks {
		if b.ID == res.BenchmarkID {
			known = true
			break
		}
	}
	if !known {
		return false, fmt.Errorf("benchmark %q: %w", res.BenchmarkID, ErrNotFound)
	}

	created := true
	var nextID int64
	for _, m := range data.Models {
		if m.Name == model.Name {
			created = false
		}
		if m.ID > nextID {
			nextID = m.ID
		}
	}

	if created {
		model.ID = nextID + 1
		if err := s.writeFile(ModelsFile, append(data.Models, model)); err != nil {
			return false, err
		}
	}

	res.ID = 0
	if err := s.writeFile(ResultsFile, append(data.Results, res)); err != nil {
		return created, err
	}
	return created, nil
}

// DeleteModels implements Store
func (s *JSONStore) DeleteModels(_ context.Context, names []string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return 0, err
	}

	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}

	var removed int64
	kept := make([]models.Model, 0, len(data.Models))
	for _, m := range data.Models {
		if drop[m.Name] {
			removed++
			continue
		}
		kept = append(kept, m)
	}

	results := make([]models.Result, 0, len(data.Results))
	for _, r := range data.Results {
		if !drop[r.ModelName] {
			results = append(results, r)
		}
	}

	if err := s.writeFile(ModelsFile, kept); err != nil {
		return 0, err
	}
	if err := s.writeFile(ResultsFile, results); err != nil {
		return 0, err
	}
	return removed, nil
}

// Status implements Store
func (s *JSONStore) Status(ctx context.Context) (*models.StoreStatus, error) {
	data, err := s.AllData(ctx)
	if err != nil {
		return nil, err
	}
	return &models.StoreStatus{
		Driver:         s.Driver(),
		ModelCount:     int64(len(data.Models)),
		BenchmarkCount: int64(len(data.Benchmarks)),
		ResultCount:    int64(len(data.Results)),
	}, nil
}

// Ping implements Store
func (s *JSONStore) Ping(_ context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("data directory unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data directory %s is not a directory", s.dir)
	}
	return nil
}

// Backup implements Store by copying the three documents into a timestamped directory
func (s *JSONStore) Backup(_ context.Context) (string, error) {
	if s.backupDir == "" {
		return "", errors.New("backup directory not configured")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	target := filepath.Join(s.backupDir, time.Now().UTC().Format("2006-01-02T15-04-05.000000000Z"))
	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	for _, name := range []string{ModelsFile, BenchmarksFile, ResultsFile} {
		if err := copyFile(s.path(name), filepath.Join(target, name)); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return "", fmt.Errorf("failed to back up %s: %w", name, err)
		}
	}

	log.Info().Str("path", target).Msg("Backup created successfully")
	return target, nil
}

// Close implements Store
func (s *JSONStore) Close() error {
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
