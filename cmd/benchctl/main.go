package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jengzang/llm-benchmarks-backend/internal/config"
	"github.com/jengzang/llm-benchmarks-backend/pkg/logger"
)

var (
	configPath string
	cfg        *config.Config
)

// rootCmd is the base command for the benchctl CLI
var rootCmd = &cobra.Command{
	Use:   "benchctl",
	Short: "Maintain the LLM benchmark store",
	Long: `benchctl imports benchmark results, migrates flat-file data into SQL,
takes backups, prints trend projections and mints admin tokens.

Configuration is read from --config (or LLMB_CONFIG) and LLMB_* environment
variables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if configPath != "" {
			cfg, err = config.LoadFile(configPath)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return err
		}
		logger.Init(cfg.LogLevel, cfg.LogFormat)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
