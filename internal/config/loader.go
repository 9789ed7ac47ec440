package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/jengzang/llm-benchmarks-backend/internal/trend"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "LLMB_"

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New)
//  2. file (YAML) if LLMB_CONFIG is set
//  3. env (prefix LLMB_, "__" separates nested keys)
func Load() (*Config, error) {
	return LoadFile(os.Getenv(EnvPrefix + "CONFIG"))
}

// LoadFile is Load with an explicit YAML path; an empty path skips the file layer.
func LoadFile(path string) (*Config, error) {
	base := New()
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
		}
	}

	// LLMB_TREND__DATA_POINTS -> trend.data_points
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field ranges and enumerations.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}

	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}

	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("%w: storage.sqlite_path must not be empty", ErrInvalidConfig)
		}
	case DriverPostgres:
		if c.Storage.PostgresDSN == "" {
			return fmt.Errorf("%w: storage.postgres_dsn must not be empty", ErrInvalidConfig)
		}
	case DriverJSON:
		if c.Storage.JSONDir == "" {
			return fmt.Errorf("%w: storage.json_dir must not be empty", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown storage.driver %q", ErrInvalidConfig, c.Storage.Driver)
	}

	if c.Trend.DataPoints < 1 {
		return fmt.Errorf("%w: trend.data_points must be >= 1", ErrInvalidConfig)
	}
	if c.Trend.PredictionMonths < 0 {
		return fmt.Errorf("%w: trend.prediction_months must be >= 0", ErrInvalidConfig)
	}

	for _, mode := range []string{c.Trend.BenchmarkClamp, c.Trend.AverageClamp} {
		if _, err := trend.ParseClampMode(mode); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	// Checked regardless of mode: a request can select range clamping.
	if !(c.Trend.ClampMin < c.Trend.ClampMax) {
		return fmt.Errorf("%w: trend.clamp_min must be below trend.clamp_max", ErrInvalidConfig)
	}

	if c.Cache.TTL < 0 {
		return fmt.Errorf("%w: cache.ttl must not be negative", ErrInvalidConfig)
	}
	return nil
}

// TrendOptions builds the per-benchmark pipeline options.
func (c *Config) TrendOptions() trend.Options {
	return c.trendOptions(c.Trend.BenchmarkClamp)
}

// AverageOptions builds the pipeline options for the average chart.
func (c *Config) AverageOptions() trend.Options {
	return c.trendOptions(c.Trend.AverageClamp)
}

func (c *Config) trendOptions(clamp string) trend.Options {
	mode, _ := trend.ParseClampMode(clamp)
	return trend.Options{
		TrendDataPoints:  c.Trend.DataPoints,
		PredictionMonths: c.Trend.PredictionMonths,
		Clamp: trend.Clamp{
			Mode: mode,
			Min:  c.Trend.ClampMin,
			Max:  c.Trend.ClampMax,
		},
	}
}
