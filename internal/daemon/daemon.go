package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"takt/internal/api"
	"takt/internal/config"
	"takt/internal/logging"
	"takt/internal/runner"
	"takt/internal/store"
)

// Daemon owns the long-running takt process: the store, the calculation
// runner, the periodic ERP sync, and the control API.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *store.Store
	runner *runner.Runner

	lockPath string
	lock     *flock.Flock

	server    *apiServer
	startedAt time.Time

	mu      sync.Mutex
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New assembles a daemon from application config. The store and runner are
// owned by the daemon and closed with it.
func New(cfg *config.Config, st *store.Store, run *runner.Runner, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("daemon requires config")
	}
	if st == nil || run == nil {
		return nil, errors.New("daemon requires store and runner")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	lockPath := cfg.LockPath()
	return &Daemon{
		cfg:      cfg,
		logger:   logger.With(logging.FieldComponent, "daemon"),
		store:    st,
		runner:   run,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the daemon lock, binds the control API, and launches the
// periodic sync loop when one is configured.
func (d *Daemon) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another takt daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)

	server, err := newAPIServer(d, d.cfg.Paths.APIBind, d.cfg.Paths.APIToken, d.logger)
	if err != nil {
		_ = d.lock.Unlock()
		d.cancel()
		d.ctx = nil
		d.cancel = nil
		return fmt.Errorf("start api server: %w", err)
	}
	d.server = server
	d.server.serve()

	if interval := d.syncInterval(); interval > 0 {
		d.wg.Add(1)
		go d.syncLoop(interval)
	}

	d.startedAt = time.Now()
	d.running = true
	d.logger.Info("takt daemon started",
		slog.String("lock", d.lockPath),
		slog.String("api", d.server.addr()))
	return nil
}

// Stop shuts down the API server and sync loop and releases the lock.
func (d *Daemon) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.running {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if d.server != nil {
		d.server.close()
		d.server = nil
	}
	d.wg.Wait()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", slog.Any("error", err))
	}
	d.ctx = nil
	d.running = false
	d.logger.Info("takt daemon stopped")
}

// Close stops the daemon and closes the store.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Addr returns the control API's bound address, empty when not running.
func (d *Daemon) Addr() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.server == nil {
		return ""
	}
	return d.server.addr()
}

// Status assembles the daemon status snapshot served by the control API.
func (d *Daemon) Status(ctx context.Context) (api.DaemonStatus, error) {
	d.mu.Lock()
	running := d.running
	startedAt := d.startedAt
	d.mu.Unlock()

	status := api.DaemonStatus{
		Running:      running,
		PID:          os.Getpid(),
		RunActive:    d.runner.Active(),
		DatabasePath: d.store.Path(),
		LockPath:     d.lockPath,
		StartedAt:    startedAt,
	}
	last, err := d.store.LatestRun(ctx)
	if err != nil {
		return status, fmt.Errorf("load latest run: %w", err)
	}
	if last != nil {
		record := api.FromRun(*last)
		status.LastRun = &record
	}
	return status, nil
}

// TriggerRun starts an ERP recalculation. It returns runner.ErrRunInProgress
// when a run is already active.
func (d *Daemon) TriggerRun(ctx context.Context) (*runner.Outcome, error) {
	return d.runner.RunFromERP(ctx)
}

func (d *Daemon) syncInterval() time.Duration {
	if d.cfg.Sync.IntervalMinutes <= 0 || d.cfg.ERP.BaseURL == "" {
		return 0
	}
	return time.Duration(d.cfg.Sync.IntervalMinutes) * time.Minute
}

func (d *Daemon) syncLoop(interval time.Duration) {
	defer d.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	d.logger.Info("periodic sync enabled", slog.Duration("interval", interval))
	for {
		select {
		case <-d.ctx.Done():
			return
		case <-ticker.C:
			outcome, err := d.runner.RunFromERP(d.ctx)
			switch {
			case errors.Is(err, runner.ErrRunInProgress):
				d.logger.Debug("sync skipped, run already active")
			case err != nil:
				// The runner already logged and recorded the failure.
				d.logger.Warn("periodic sync failed", slog.Any("error", err))
			default:
				d.logger.Info("periodic sync complete",
					logging.FieldRunID, outcome.RunID,
					slog.Int("summaries", outcome.Stats.SummariesOut))
			}
		}
	}
}
