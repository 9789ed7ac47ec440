package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jengzang/llm-benchmarks-backend/internal/cache"
	"github.com/jengzang/llm-benchmarks-backend/internal/models"
	"github.com/jengzang/llm-benchmarks-backend/internal/repository"
	"github.com/jengzang/llm-benchmarks-backend/pkg/metrics"
)

// AllDataCacheKey is the cache key of the full store snapshot
const AllDataCacheKey = "llmb:all_data"

// ErrInvalidRequest marks caller mistakes the handlers report as 400
var ErrInvalidRequest = errors.New("invalid request")

// DataService serves whole-store reads and owns the snapshot cache
type DataService struct {
	store   repository.Store
	cache   cache.Cache
	ttl     time.Duration
	metrics *metrics.Manager
}

// NewDataService creates a new data service. A nil cache or a zero ttl
// disables caching.
func NewDataService(store repository.Store, c cache.Cache, ttl time.Duration, m *metrics.Manager) *DataService {
	return &DataService{store: store, cache: c, ttl: ttl, metrics: m}
}

func (s *DataService) cacheEnabled() bool {
	return s.cache != nil && s.ttl > 0
}

// GetAllData returns every model, benchmark and result
func (s *DataService) GetAllData(ctx context.Context) (*models.AllData, error) {
	if s.cacheEnabled() {
		if raw, ok := s.cache.Get(ctx, AllDataCacheKey); ok {
			var data models.AllData
			if err := json.Unmarshal(raw, &data); err == nil {
				s.metrics.RecordCacheHit()
				return &data, nil
			}
			s.metrics.RecordCacheError()
			log.Warn().Str("key", AllDataCacheKey).Msg("Discarding undecodable cache entry")
		} else {
			s.metrics.RecordCacheMiss()
		}
	}

	data, err := s.store.AllData(ctx)
	if err != nil {
		return nil, err
	}

	if s.cacheEnabled() {
		if raw, err := json.Marshal(data); err == nil {
			s.cache.Set(ctx, AllDataCacheKey, raw, s.ttl)
		}
	}
	return data, nil
}

// Invalidate drops the cached snapshot after a mutation
func (s *DataService) Invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Delete(ctx, AllDataCacheKey)
	}
}

// Status returns row counts of the backing store
func (s *DataService) Status(ctx context.Context) (*models.StoreStatus, error) {
	return s.store.Status(ctx)
}

// Ping checks the backing store is reachable
func (s *DataService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// Backup snapshots the backing store and returns where it was written
func (s *DataService) Backup(ctx context.Context) (string, error) {
	path, err := s.store.Backup(ctx)
	if err != nil {
		return "", err
	}
	log.Info().Str("driver", s.store.Driver()).Str("path", path).Msg("Store backed up")
	return path, nil
}
