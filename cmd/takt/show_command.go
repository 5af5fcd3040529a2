package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"takt/internal/logs"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var lines int
	var follow bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show recent daemon log output",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logPath := filepath.Join(cfg.Paths.LogDir, "takt.log")
			return logs.Tail(cmd.Context(), logPath, logs.Options{
				Lines:  lines,
				Follow: follow,
			}, cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVar(&lines, "lines", 25, "Number of trailing lines to print")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep streaming appended log lines")
	return cmd
}
