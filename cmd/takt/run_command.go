package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"takt/internal/apiclient"
	"takt/internal/logging"
	"takt/internal/runner"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var local bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch work cycles from the ERP and recalculate all UPH summaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !local {
				triggered, err := triggerViaDaemon(cmd, ctx)
				if err != nil {
					return err
				}
				if triggered {
					return nil
				}
				// No daemon reachable; fall through to a local run.
			}
			return runLocally(cmd, ctx)
		},
	}

	cmd.Flags().BoolVar(&local, "local", false, "Run in this process even if a daemon is active")
	return cmd
}

// triggerViaDaemon asks a running daemon to recalculate so its run gate is
// honored. Returns false when no daemon is reachable.
func triggerViaDaemon(cmd *cobra.Command, ctx *commandContext) (bool, error) {
	client, err := ctx.apiClient()
	if err != nil {
		return false, err
	}
	trigger, err := client.Recalculate(cmd.Context())
	switch {
	case errors.Is(err, apiclient.ErrDaemonUnavailable):
		return false, nil
	case errors.Is(err, apiclient.ErrRunActive):
		return false, err
	case err != nil:
		return false, fmt.Errorf("trigger recalculation: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Recalculation complete (run %s, via daemon)\n", trigger.RunID)
	return true, nil
}

func runLocally(cmd *cobra.Command, ctx *commandContext) error {
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
	outcome, err := run.RunFromERP(cmd.Context())
	if err != nil {
		return err
	}
	printOutcome(cmd, outcome)
	return nil
}

func printOutcome(cmd *cobra.Command, outcome *runner.Outcome) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s complete in %s\n", outcome.RunID, outcome.Duration.Round(timeResolution))
	fmt.Fprintf(out, "  cycles in:         %d\n", outcome.Stats.CyclesIn)
	fmt.Fprintf(out, "  records skipped:   %d\n", outcome.Stats.RecordsSkipped)
	fmt.Fprintf(out, "  outliers filtered: %d\n", outcome.Stats.OutliersFiltered)
	fmt.Fprintf(out, "  summaries stored:  %d\n", outcome.Stats.SummariesOut)
}
