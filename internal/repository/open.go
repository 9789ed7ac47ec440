package repository

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/jengzang/llm-benchmarks-backend/internal/config"
	"github.com/jengzang/llm-benchmarks-backend/internal/database"
)

// Open returns the store selected by cfg.Driver. SQL databases are migrated
// before they are returned.
func Open(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	if cfg.Driver == config.DriverJSON {
		log.Info().Str("dir", cfg.JSONDir).Msg("Using JSON file store")
		return NewJSONStore(cfg.JSONDir, cfg.BackupDir)
	}
	return OpenSQL(ctx, cfg)
}

// OpenSQL opens and migrates a sqlite or postgres store
func OpenSQL(ctx context.Context, cfg config.StorageConfig) (*SQLStore, error) {
	var dbCfg database.Config
	switch cfg.Driver {
	case config.DriverSQLite:
		dbCfg = database.Config{Driver: database.DriverSQLite, DSN: cfg.SQLitePath}
	case config.DriverPostgres:
		dbCfg = database.Config{Driver: database.DriverPostgres, DSN: cfg.PostgresDSN}
	default:
		return nil, fmt.Errorf("storage driver %q is not a SQL database", cfg.Driver)
	}

	db, err := database.Open(ctx, dbCfg)
	if err != nil {
		return nil, err
	}

	applied, err := database.NewMigrationManager(db).RunMigrations(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	if applied > 0 {
		log.Info().Int("applied", applied).Msg("Migrations applied")
	}

	return NewSQLStore(db, cfg.QueryTimeout, cfg.BackupDir), nil
}
