package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"takt/internal/api"
	"takt/internal/apiclient"
	"takt/internal/store"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon and last-run status",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}

			status, err := client.Status(cmd.Context())
			if err != nil && !errors.Is(err, apiclient.ErrDaemonUnavailable) {
				return err
			}

			if asJSON {
				if status == nil {
					return writeJSON(cmd, map[string]bool{"running": false})
				}
				return writeJSON(cmd, status)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			if status == nil {
				fmt.Fprintln(out, renderStatusLine("daemon", statusWarn, "not running", colorize))
				return printLastRunFromStore(cmd, ctx, colorize)
			}

			fmt.Fprintln(out, renderStatusLine("daemon", statusOK,
				fmt.Sprintf("running (pid %d)", status.PID), colorize))
			fmt.Fprintln(out, renderStatusLine("database", statusInfo, status.DatabasePath, colorize))
			fmt.Fprintln(out, renderStatusLine("run active", statusInfo, yesNo(status.RunActive), colorize))
			if status.LastRun != nil {
				printRunLine(cmd, *status.LastRun, colorize)
			} else {
				fmt.Fprintln(out, renderStatusLine("last run", statusInfo, "none", colorize))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of status lines")
	return cmd
}

// printLastRunFromStore reports run history straight from the database when
// no daemon is reachable.
func printLastRunFromStore(cmd *cobra.Command, ctx *commandContext, colorize bool) error {
	st, err := ctx.openStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	last, err := st.LatestRun(cmd.Context())
	if err != nil {
		return fmt.Errorf("load latest run: %w", err)
	}
	out := cmd.OutOrStdout()
	if last == nil {
		fmt.Fprintln(out, renderStatusLine("last run", statusInfo, "none", colorize))
		return nil
	}
	printRunLine(cmd, api.FromRun(*last), colorize)
	return nil
}

func printRunLine(cmd *cobra.Command, run api.RunRecord, colorize bool) {
	kind := statusOK
	if run.Status == string(store.RunFailed) {
		kind = statusError
	} else if run.Status == string(store.RunRunning) {
		kind = statusInfo
	}
	message := fmt.Sprintf("%s from %s at %s (%d summaries)",
		run.Status, run.Source, formatTimestamp(run.StartedAt), run.SummariesOut)
	if run.Error != "" {
		message += ": " + run.Error
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderStatusLine("last run", kind, message, colorize))
}
