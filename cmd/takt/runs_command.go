package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"takt/internal/api"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show calculation run history",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore()
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			runs, err := st.ListRuns(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list runs: %w", err)
			}

			if asJSON {
				return writeJSON(cmd, api.RunsResponse{Runs: api.FromRuns(runs)})
			}

			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No calculation runs recorded yet.")
				return nil
			}

			headers := []string{"Run", "Source", "Status", "Started", "Cycles", "Skipped", "Filtered", "Summaries", "Error"}
			aligns := []columnAlignment{
				alignLeft, alignLeft, alignLeft, alignLeft,
				alignRight, alignRight, alignRight, alignRight,
				alignLeft,
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					shortRunID(run.ID),
					run.Source,
					string(run.Status),
					formatTimestamp(run.StartedAt),
					formatCount(run.CyclesIn),
					formatCount(run.RecordsSkipped),
					formatCount(run.OutliersFiltered),
					formatCount(run.SummariesOut),
					run.Error,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
