package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"takt/internal/api"
	"takt/internal/store"
)

func newUPHCommand(ctx *commandContext) *cobra.Command {
	var operator string
	var workCenter string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "uph",
		Short: "Show stored UPH summaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore()
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			records, err := st.ListSummaries(cmd.Context(), store.SummaryFilter{
				Operator:   operator,
				WorkCenter: workCenter,
			})
			if err != nil {
				return fmt.Errorf("list summaries: %w", err)
			}

			if asJSON {
				return writeJSON(cmd, api.SummariesResponse{Summaries: api.FromSummaries(records)})
			}

			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No UPH summaries stored. Run `takt run` or `takt import` first.")
				return nil
			}

			headers := []string{"Operator", "Work Center", "Routing", "UPH", "Obs", "Qty", "Hours", "Source"}
			aligns := []columnAlignment{
				alignLeft, alignLeft, alignLeft,
				alignRight, alignRight, alignRight, alignRight,
				alignLeft,
			}
			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				rows = append(rows, []string{
					rec.Operator,
					rec.WorkCenter,
					rec.Routing,
					formatFloat(rec.UnitsPerHour),
					formatCount(rec.Observations),
					formatFloat(rec.TotalQuantity),
					formatFloat(rec.TotalHours),
					rec.DataSource,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))
			return nil
		},
	}

	cmd.Flags().StringVar(&operator, "operator", "", "Filter by operator name")
	cmd.Flags().StringVar(&workCenter, "work-center", "", "Filter by normalized work center")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}
