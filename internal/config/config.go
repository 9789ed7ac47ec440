// Package config defines service configuration and its loading hooks.
//
// Every value has a default (New); Load layers an optional YAML file and
// LLMB_-prefixed environment variables on top.
package config

import (
	"time"
)

// Config contains process configuration.
type Config struct {
	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects console or json output.
	LogFormat string `koanf:"log_format"`

	Storage   StorageConfig   `koanf:"storage"`
	Trend     TrendConfig     `koanf:"trend"`
	Admin     AdminConfig     `koanf:"admin"`
	Cache     CacheConfig     `koanf:"cache"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
}

// Storage drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverJSON     = "json"
)

// StorageConfig selects and configures the backing store.
type StorageConfig struct {
	Driver       string        `koanf:"driver"`
	SQLitePath   string        `koanf:"sqlite_path"`
	JSONDir      string        `koanf:"json_dir"`
	PostgresDSN  string        `koanf:"postgres_dsn"`
	QueryTimeout time.Duration `koanf:"query_timeout"`
	BackupDir    string        `koanf:"backup_dir"`
}

// TrendConfig holds the chart pipeline defaults. Requests may override the
// window, months and clamp mode.
type TrendConfig struct {
	// DataPoints is the trailing window K used for the linear fit.
	DataPoints int `koanf:"data_points"`

	// PredictionMonths is how many months are projected past the last observation.
	PredictionMonths int `koanf:"prediction_months"`

	// BenchmarkClamp applies to per-benchmark charts: none, unit or range.
	BenchmarkClamp string `koanf:"benchmark_clamp"`

	// AverageClamp applies to the synthetic average chart.
	AverageClamp string `koanf:"average_clamp"`

	// ClampMin and ClampMax bound projections when a clamp mode is "range".
	// ClampMin must stay below ClampMax since requests may select range mode.
	ClampMin float64 `koanf:"clamp_min"`
	ClampMax float64 `koanf:"clamp_max"`

	// AverageNormalize maps each benchmark to [0, 1] before averaging.
	AverageNormalize bool `koanf:"average_normalize"`
}

// AdminConfig guards the mutating endpoints.
type AdminConfig struct {
	Enabled   bool   `koanf:"enabled"`
	JWTSecret string `koanf:"jwt_secret"`
}

// CacheConfig configures the read cache. An empty RedisAddr keeps it in memory.
type CacheConfig struct {
	RedisAddr string        `koanf:"redis_addr"`
	TTL       time.Duration `koanf:"ttl"`
}

// RateLimitConfig is a per-client token bucket; RPS <= 0 disables it.
type RateLimitConfig struct {
	RPS   float64 `koanf:"rps"`
	Burst int     `koanf:"burst"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Addr:      ":8080",
		LogLevel:  "info",
		LogFormat: "console",
		Storage: StorageConfig{
			Driver:       DriverSQLite,
			SQLitePath:   "./data/benchmarks.db",
			JSONDir:      "./data",
			QueryTimeout: 5 * time.Second,
			BackupDir:    "./data/backups",
		},
		Trend: TrendConfig{
			DataPoints:       11,
			PredictionMonths: 6,
			BenchmarkClamp:   "none",
			AverageClamp:     "unit",
			ClampMin:         0,
			ClampMax:         100,
			AverageNormalize: true,
		},
		Admin: AdminConfig{
			Enabled: true,
		},
		Cache: CacheConfig{
			TTL: 30 * time.Second,
		},
		RateLimit: RateLimitConfig{
			RPS:   20,
			Burst: 40,
		},
	}
}
