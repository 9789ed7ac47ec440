package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jengzang/llm-benchmarks-backend/internal/api"
	"github.com/jengzang/llm-benchmarks-backend/internal/cache"
	"github.com/jengzang/llm-benchmarks-backend/internal/config"
	"github.com/jengzang/llm-benchmarks-backend/internal/repository"
	"github.com/jengzang/llm-benchmarks-backend/pkg/logger"
	"github.com/jengzang/llm-benchmarks-backend/pkg/metrics"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open the store
	store, err := repository.Open(ctx, cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("Failed to open store")
	}
	defer store.Close()

	m := metrics.NewManager()
	svc := api.NewServices(cfg, store, cache.New(cfg.Cache.RedisAddr), m)
	router := api.SetupRouter(cfg, svc, m)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", cfg.Addr).
			Str("driver", store.Driver()).
			Bool("admin", cfg.Admin.Enabled).
			Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}
