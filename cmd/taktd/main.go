// Command taktd runs the takt daemon headless, without the CLI wrapper.
// It loads the default configuration, starts the calculation daemon with
// its HTTP control API and periodic ERP sync, and shuts down on SIGINT or
// SIGTERM.
package main

import (
	"context"
	"log"
	"log/slog"
	"os/signal"
	"syscall"

	"takt/internal/config"
	"takt/internal/daemon"
	"takt/internal/logging"
	"takt/internal/notifications"
	"takt/internal/runner"
	"takt/internal/store"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	st, err := store.Open(cfg)
	if err != nil {
		logger.Error("open store", slog.Any("error", err))
		return
	}

	run := runner.New(cfg, st, notifications.NewService(cfg), logger)
	d, err := daemon.New(cfg, st, run, logger)
	if err != nil {
		_ = st.Close()
		logger.Error("create daemon", slog.Any("error", err))
		return
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		logger.Error("daemon start", slog.Any("error", err))
		return
	}

	<-ctx.Done()
	logger.Info("taktd shutting down")
}
