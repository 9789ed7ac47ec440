package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jengzang/llm-benchmarks-backend/internal/ingest"
	"github.com/jengzang/llm-benchmarks-backend/internal/middleware"
	"github.com/jengzang/llm-benchmarks-backend/internal/repository"
)

// migrateCmd copies a JSON file store into the SQL store
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Import a JSON file store into the SQL store",
	Long: `Read models.json, benchmarks.json and results.json from a directory and
insert them into the configured SQL database in one transaction. Rows that
already exist are left untouched, so the command can be re-run safely.

Example:
  benchctl migrate --from ./data`,
	RunE: runMigrate,
}

// backupCmd snapshots the configured store
var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Snapshot the configured store",
	RunE:  runBackup,
}

// tokenCmd mints an admin token for the HTTP API
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an admin bearer token",
	Long: `Sign a token with admin.jwt_secret for the mutating API routes.

Example:
  benchctl token --subject ops --ttl 24h`,
	RunE: runToken,
}

var (
	migrateFrom  string
	tokenSubject string
	tokenTTL     time.Duration
)

func init() {
	rootCmd.AddCommand(migrateCmd, backupCmd, tokenCmd)

	migrateCmd.Flags().StringVar(&migrateFrom, "from", "", "Directory holding the JSON store files")
	_ = migrateCmd.MarkFlagRequired("from")

	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "admin", "Token subject")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "Token lifetime")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	data, err := repository.LoadJSONData(migrateFrom)
	if err != nil {
		return err
	}

	store, err := repository.OpenSQL(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer store.Close()

	report, err := ingest.ImportAll(ctx, store, data)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderSummary("Migration complete", [][2]string{
		{"Models", fmt.Sprint(report.Models)},
		{"Benchmarks", fmt.Sprint(report.Benchmarks)},
		{"Results", fmt.Sprint(report.Results)},
		{"Skipped", fmt.Sprint(report.Skipped)},
	}))
	return nil
}

func runBackup(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := repository.Open(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer store.Close()

	path, err := store.Backup(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

func runToken(cmd *cobra.Command, args []string) error {
	if tokenTTL <= 0 {
		return errors.New("--ttl must be positive")
	}
	token, err := middleware.MintAdminToken(cfg.Admin.JWTSecret, tokenSubject, tokenTTL)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
