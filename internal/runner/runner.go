package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"takt/internal/config"
	"takt/internal/erp"
	"takt/internal/logging"
	"takt/internal/notifications"
	"takt/internal/store"
	"takt/internal/uph"
)

// ErrRunInProgress indicates a calculation run is already active. Runs are
// full recomputes that replace the summary table wholesale, so at most one
// may execute at a time.
var ErrRunInProgress = errors.New("calculation run already in progress")

// CycleFetcher supplies the raw work cycles for a run.
type CycleFetcher interface {
	FetchWorkCycles(ctx context.Context) ([]uph.WorkCycle, error)
}

// Outcome reports what one completed run did.
type Outcome struct {
	RunID     string
	Source    string
	Summaries []uph.Summary
	Stats     store.RunStats
	Duration  time.Duration
}

// Runner executes calculation runs: fetch or accept cycles, compute, and
// atomically replace the persisted summary set.
type Runner struct {
	cfg      *config.Config
	store    *store.Store
	notifier notifications.Service
	logger   *slog.Logger
	fetcher  CycleFetcher

	active atomic.Bool
}

// New builds a runner. The notifier may not be nil; pass the noop service
// when notifications are unconfigured.
func New(cfg *config.Config, st *store.Store, notifier notifications.Service, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{
		cfg:      cfg,
		store:    st,
		notifier: notifier,
		logger:   logger.With(logging.FieldComponent, "runner"),
	}
}

// SetFetcher overrides the ERP-backed cycle source (used in tests).
func (r *Runner) SetFetcher(f CycleFetcher) {
	r.fetcher = f
}

// Active reports whether a run is currently executing.
func (r *Runner) Active() bool {
	return r.active.Load()
}

// RunCycles executes a calculation run over an already-loaded cycle set,
// typically a CSV import. source is the provenance tag stamped on summaries.
func (r *Runner) RunCycles(ctx context.Context, cycles []uph.WorkCycle, source string) (*Outcome, error) {
	return r.run(ctx, source, func(context.Context) ([]uph.WorkCycle, error) {
		return cycles, nil
	})
}

// RunFromERP fetches the full work-cycle set from the ERP and executes a
// calculation run over it.
func (r *Runner) RunFromERP(ctx context.Context) (*Outcome, error) {
	fetch := func(ctx context.Context) ([]uph.WorkCycle, error) {
		fetcher := r.fetcher
		if fetcher == nil {
			client, err := erp.NewClient(r.cfg, r.logger)
			if err != nil {
				return nil, err
			}
			fetcher = client
		}
		return fetcher.FetchWorkCycles(ctx)
	}
	return r.run(ctx, erp.DataSource, fetch)
}

func (r *Runner) run(ctx context.Context, source string, fetch func(context.Context) ([]uph.WorkCycle, error)) (*Outcome, error) {
	if !r.active.CompareAndSwap(false, true) {
		return nil, ErrRunInProgress
	}
	defer r.active.Store(false)

	runID := uuid.NewString()
	started := time.Now()
	logger := r.logger.With(logging.FieldRunID, runID)

	if err := r.store.BeginRun(ctx, runID, source); err != nil {
		return nil, fmt.Errorf("record run start: %w", err)
	}

	cycles, err := fetch(ctx)
	if err != nil {
		return nil, r.fail(ctx, logger, runID, source, fmt.Errorf("fetch work cycles: %w", err))
	}

	logger.Info("calculation run started",
		slog.String("source", source),
		slog.Int("cycles", len(cycles)))
	if notifyErr := r.notifier.NotifyRunStarted(ctx, source, len(cycles)); notifyErr != nil {
		logger.Warn("run-start notification failed", slog.Any("error", notifyErr))
	}

	result, err := uph.Compute(cycles, r.cfg.Policy(), source)
	if err != nil {
		return nil, r.fail(ctx, logger, runID, source, fmt.Errorf("compute summaries: %w", err))
	}
	r.logAudit(logger, result.Audit)

	if err := r.store.ReplaceSummaries(ctx, runID, result.Summaries); err != nil {
		return nil, r.fail(ctx, logger, runID, source, fmt.Errorf("persist summaries: %w", err))
	}

	stats := store.RunStats{
		CyclesIn:         result.Audit.InputRecords,
		SummariesOut:     len(result.Summaries),
		RecordsSkipped:   result.Audit.SkippedRecords,
		OutliersFiltered: len(result.Audit.Filtered),
	}
	if err := r.store.CompleteRun(ctx, runID, stats); err != nil {
		return nil, r.fail(ctx, logger, runID, source, fmt.Errorf("record run completion: %w", err))
	}

	duration := time.Since(started)
	logger.Info("calculation run complete",
		slog.String("source", source),
		slog.Int("summaries", stats.SummariesOut),
		slog.Int("skipped", stats.RecordsSkipped),
		slog.Int("filtered", stats.OutliersFiltered),
		slog.Duration("duration", duration))
	if notifyErr := r.notifier.NotifyRunCompleted(ctx, source,
		stats.SummariesOut, stats.RecordsSkipped, stats.OutliersFiltered, duration); notifyErr != nil {
		logger.Warn("run-complete notification failed", slog.Any("error", notifyErr))
	}

	return &Outcome{
		RunID:     runID,
		Source:    source,
		Summaries: result.Summaries,
		Stats:     stats,
		Duration:  duration,
	}, nil
}

// fail records the run as failed and returns the cause. The summary table is
// left untouched; the previous result set stays current.
func (r *Runner) fail(ctx context.Context, logger *slog.Logger, runID, source string, cause error) error {
	logger.Error("calculation run failed", slog.Any("error", cause))
	if err := r.store.FailRun(ctx, runID, cause); err != nil {
		logger.Error("failed to record run failure", slog.Any("error", err))
	}
	if notifyErr := r.notifier.NotifyRunFailed(ctx, source, cause); notifyErr != nil {
		logger.Warn("run-failure notification failed", slog.Any("error", notifyErr))
	}
	return cause
}

// logAudit emits the engine's decision trail. Skip and filter totals go out
// at info; per-record detail stays at debug so normal runs are not noisy.
func (r *Runner) logAudit(logger *slog.Logger, audit uph.Audit) {
	for reason, count := range audit.SkipReasons {
		logger.Info("records skipped",
			logging.FieldReason, string(reason),
			slog.Int("count", count))
	}
	for _, dropped := range audit.Filtered {
		logger.Debug("outlier filtered",
			logging.FieldOperator, dropped.Key.Operator,
			logging.FieldWorkCenter, dropped.Key.WorkCenter,
			logging.FieldRouting, dropped.Key.Routing,
			logging.FieldMONumber, dropped.Key.MONumber,
			logging.FieldReason, string(dropped.Reason),
			slog.Float64("units_per_hour", dropped.UnitsPerHour),
			slog.Float64("duration_hours", dropped.DurationHours))
	}
	logger.Info("engine audit",
		slog.Int("input_records", audit.InputRecords),
		slog.Int("skipped", audit.SkippedRecords),
		slog.Int("aggregates", audit.Aggregates),
		slog.Int("observations", len(audit.Observations)),
		slog.Int("filtered", len(audit.Filtered)),
		slog.Int("surviving", audit.Surviving))
}
