package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"takt/internal/config"
	"takt/internal/ingest"
	"takt/internal/logging"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Recalculate all UPH summaries from a CSV work-cycle export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve csv path: %w", err)
			}
			file, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open csv: %w", err)
			}
			defer file.Close()

			cycles, report, err := ingest.ReadCycles(file)
			if err != nil {
				return fmt.Errorf("read csv: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Read %d rows (%d imported, %d skipped)\n",
				report.Rows, report.Imported, report.Skipped)

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			st, err := ctx.openStore()
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			run, err := ctx.newRunner(st, logger)
			if err != nil {
				return err
			}
			outcome, err := run.RunCycles(cmd.Context(), cycles, ingest.DataSource)
			if err != nil {
				return err
			}
			printOutcome(cmd, outcome)
			return nil
		},
	}
}
