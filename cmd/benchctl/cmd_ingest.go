package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jengzang/llm-benchmarks-backend/internal/ingest"
	"github.com/jengzang/llm-benchmarks-backend/internal/repository"
)

// ingestCmd imports a results file into the SQL store
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Import benchmark results from a JSON or YAML file",
	Long: `Import a list of results into the SQL store in one transaction.

Model names are normalised and merged with near-identical existing names.
Existing (date, model, benchmark) rows are updated when the score differs and
skipped when it is equal. A backup is taken first when the store supports it.

Examples:
  benchctl ingest --file import.json
  benchctl ingest --file import.yaml --yes`,
	RunE: runIngest,
}

var (
	ingestFile      string
	ingestYes       bool
	ingestThreshold float64
)

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringVarP(&ingestFile, "file", "f", "", "Import file (.json, .yaml or .yml)")
	ingestCmd.Flags().BoolVarP(&ingestYes, "yes", "y", false, "Create new benchmarks without asking")
	ingestCmd.Flags().Float64Var(&ingestThreshold, "threshold", ingest.DefaultSimilarityThreshold, "Name similarity needed to merge models")
	_ = ingestCmd.MarkFlagRequired("file")
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	items, err := ingest.LoadFile(ingestFile)
	if err != nil {
		return err
	}
	log.Info().Str("file", ingestFile).Int("items", len(items)).Msg("Loaded import file")

	store, err := repository.OpenSQL(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer store.Close()

	confirm := promptConfirm(cmd.InOrStdin(), cmd.OutOrStdout())
	if ingestYes {
		confirm = func([]string) (bool, error) { return true, nil }
	}

	in := ingest.New(store,
		ingest.WithMatcher(ingest.NewDiceMatcher(ingestThreshold)),
		ingest.WithConfirm(confirm),
	)
	report, err := in.Run(ctx, items)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderSummary("Ingestion complete", [][2]string{
		{"Inserted", fmt.Sprint(report.Inserted)},
		{"Updated", fmt.Sprint(report.Updated)},
		{"Skipped", fmt.Sprint(report.Skipped)},
		{"Models created", fmt.Sprint(report.ModelsCreated)},
		{"Benchmarks created", fmt.Sprint(report.BenchmarksCreated)},
		{"Backup", report.BackupPath},
	}))
	return nil
}

// promptConfirm asks on out and reads a y/n answer from in
func promptConfirm(in io.Reader, out io.Writer) ingest.ConfirmFunc {
	reader := bufio.NewReader(in)
	return func(ids []string) (bool, error) {
		fmt.Fprintf(out, "Create %d new benchmark(s): %s? [y/N] ", len(ids), strings.Join(ids, ", "))
		answer, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return false, err
		}
		answer = strings.ToLower(strings.TrimSpace(answer))
		return answer == "y" || answer == "yes", nil
	}
}
