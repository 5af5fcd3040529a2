package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"takt/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand(ctx))
	configCmd.AddCommand(newConfigValidateCommand(ctx))

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Edit the file to set erp.base_url and erp.api_key (or export TAKT_ERP_API_KEY) before running takt.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "data dir:        %s\n", cfg.Paths.DataDir)
			fmt.Fprintf(out, "log dir:         %s\n", cfg.Paths.LogDir)
			fmt.Fprintf(out, "database:        %s\n", cfg.DatabasePath())
			fmt.Fprintf(out, "api bind:        %s\n", cfg.Paths.APIBind)
			fmt.Fprintf(out, "api token set:   %s\n", yesNo(cfg.Paths.APIToken != ""))
			fmt.Fprintf(out, "erp base url:    %s\n", orNone(cfg.ERP.BaseURL))
			fmt.Fprintf(out, "erp key set:     %s\n", yesNo(cfg.ERP.APIKey != ""))
			fmt.Fprintf(out, "erp page size:   %d\n", cfg.ERP.PageSize)
			fmt.Fprintf(out, "min duration:    %g min\n", cfg.UPH.MinDurationMinutes)
			fmt.Fprintf(out, "uph window:      [%g, %g]\n", cfg.UPH.MinUnitsPerHour, cfg.UPH.MaxUnitsPerHour)
			fmt.Fprintf(out, "averaging:       %s\n", cfg.UPH.Averaging)
			fmt.Fprintf(out, "sync interval:   %d min\n", cfg.Sync.IntervalMinutes)
			fmt.Fprintf(out, "slack webhook:   %s\n", yesNo(cfg.Notifications.SlackWebhookURL != ""))
			fmt.Fprintf(out, "log level:       %s\n", cfg.Logging.Level)
			fmt.Fprintf(out, "log format:      %s\n", cfg.Logging.Format)
			return nil
		},
	}
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Validate configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if ctx.configFlag != nil {
				path = strings.TrimSpace(*ctx.configFlag)
			}
			cfg, resolved, exists, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", resolved)
			if !exists {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

func orNone(value string) string {
	if strings.TrimSpace(value) == "" {
		return "(none)"
	}
	return value
}
