package runner_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"takt/internal/logging"
	"takt/internal/notifications"
	"takt/internal/runner"
	"takt/internal/store"
	"takt/internal/testsupport"
	"takt/internal/uph"
)

func newRunner(t *testing.T) (*runner.Runner, *store.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	r := runner.New(cfg, st, notifications.NewService(cfg), logging.NewNop())
	return r, st
}

func sampleCycles() []uph.WorkCycle {
	return []uph.WorkCycle{
		{Operator: "Jane Doe", WorkCenterRaw: "Sewing", Routing: "R1", MONumber: "MO1", MOQuantity: 50, DurationSeconds: 1800, State: "done"},
		{Operator: "Jane Doe", WorkCenterRaw: "Sewing", Routing: "R1", MONumber: "MO1", MOQuantity: 50, DurationSeconds: 1800, State: "done"},
	}
}

func TestRunCyclesPersistsSummariesAndRun(t *testing.T) {
	r, st := newRunner(t)
	ctx := context.Background()

	outcome, err := r.RunCycles(ctx, sampleCycles(), "csv")
	if err != nil {
		t.Fatalf("RunCycles failed: %v", err)
	}
	if outcome.RunID == "" {
		t.Fatal("expected run id")
	}
	if outcome.Stats.SummariesOut != 1 || outcome.Stats.CyclesIn != 2 {
		t.Fatalf("unexpected stats: %#v", outcome.Stats)
	}

	records, err := st.ListSummaries(ctx, store.SummaryFilter{})
	if err != nil {
		t.Fatalf("ListSummaries failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 persisted summary, got %d", len(records))
	}
	rec := records[0]
	if rec.Operator != "Jane Doe" || rec.UnitsPerHour != 50 || rec.DataSource != "csv" {
		t.Fatalf("unexpected summary: %#v", rec)
	}
	if rec.RunID != outcome.RunID {
		t.Fatalf("summary run id = %q, want %q", rec.RunID, outcome.RunID)
	}

	run, err := st.LatestRun(ctx)
	if err != nil {
		t.Fatalf("LatestRun failed: %v", err)
	}
	if run == nil || run.Status != store.RunCompleted {
		t.Fatalf("expected completed run, got %#v", run)
	}
	if run.SummariesOut != 1 || run.CyclesIn != 2 {
		t.Fatalf("unexpected run counters: %#v", run)
	}
}

func TestRunReplacesPreviousResultSet(t *testing.T) {
	r, st := newRunner(t)
	ctx := context.Background()

	if _, err := r.RunCycles(ctx, sampleCycles(), "csv"); err != nil {
		t.Fatalf("first run failed: %v", err)
	}

	other := []uph.WorkCycle{
		{Operator: "Bob Ray", WorkCenterRaw: "Cutting", Routing: "R2", MONumber: "MO9", MOQuantity: 30, DurationSeconds: 3600, State: "done"},
	}
	if _, err := r.RunCycles(ctx, other, "csv"); err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	records, err := st.ListSummaries(ctx, store.SummaryFilter{})
	if err != nil {
		t.Fatalf("ListSummaries failed: %v", err)
	}
	if len(records) != 1 || records[0].Operator != "Bob Ray" {
		t.Fatalf("expected replacement with second run's set, got %#v", records)
	}
}

func TestRunWithEmptyInputClearsSummaries(t *testing.T) {
	r, st := newRunner(t)
	ctx := context.Background()

	if _, err := r.RunCycles(ctx, sampleCycles(), "csv"); err != nil {
		t.Fatalf("seed run failed: %v", err)
	}
	outcome, err := r.RunCycles(ctx, nil, "csv")
	if err != nil {
		t.Fatalf("empty run failed: %v", err)
	}
	if outcome.Stats.SummariesOut != 0 {
		t.Fatalf("expected zero summaries, got %d", outcome.Stats.SummariesOut)
	}

	records, err := st.ListSummaries(ctx, store.SummaryFilter{})
	if err != nil {
		t.Fatalf("ListSummaries failed: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected cleared summary table, got %d rows", len(records))
	}
}

type blockingFetcher struct {
	entered chan struct{}
	release chan struct{}
}

func (f *blockingFetcher) FetchWorkCycles(ctx context.Context) ([]uph.WorkCycle, error) {
	close(f.entered)
	select {
	case <-f.release:
		return nil, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestConcurrentRunRejected(t *testing.T) {
	r, _ := newRunner(t)
	fetcher := &blockingFetcher{entered: make(chan struct{}), release: make(chan struct{})}
	r.SetFetcher(fetcher)

	done := make(chan error, 1)
	go func() {
		_, err := r.RunFromERP(context.Background())
		done <- err
	}()

	<-fetcher.entered
	if !r.Active() {
		t.Fatal("expected runner to report active")
	}
	if _, err := r.RunCycles(context.Background(), sampleCycles(), "csv"); !errors.Is(err, runner.ErrRunInProgress) {
		t.Fatalf("expected ErrRunInProgress, got %v", err)
	}

	close(fetcher.release)
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("blocked run failed: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run did not finish")
	}
	if r.Active() {
		t.Fatal("expected runner idle after run")
	}
}

type failingFetcher struct{}

func (failingFetcher) FetchWorkCycles(context.Context) ([]uph.WorkCycle, error) {
	return nil, errors.New("erp unreachable")
}

func TestFetchFailureRecordsFailedRunAndKeepsSummaries(t *testing.T) {
	r, st := newRunner(t)
	ctx := context.Background()

	if _, err := r.RunCycles(ctx, sampleCycles(), "csv"); err != nil {
		t.Fatalf("seed run failed: %v", err)
	}

	r.SetFetcher(failingFetcher{})
	if _, err := r.RunFromERP(ctx); err == nil {
		t.Fatal("expected fetch failure")
	}

	run, err := st.LatestRun(ctx)
	if err != nil {
		t.Fatalf("LatestRun failed: %v", err)
	}
	if run == nil || run.Status != store.RunFailed {
		t.Fatalf("expected failed run, got %#v", run)
	}
	if run.Error == "" {
		t.Fatal("expected failure cause recorded")
	}

	records, err := st.ListSummaries(ctx, store.SummaryFilter{})
	if err != nil {
		t.Fatalf("ListSummaries failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected previous summaries preserved, got %d rows", len(records))
	}
}

func TestInvalidPolicyFailsRun(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.UPH.Averaging = "median"
	st := testsupport.MustOpenStore(t, cfg)
	r := runner.New(cfg, st, notifications.NewService(cfg), logging.NewNop())

	if _, err := r.RunCycles(context.Background(), sampleCycles(), "csv"); !errors.Is(err, uph.ErrInvalidPolicy) {
		t.Fatalf("expected ErrInvalidPolicy, got %v", err)
	}

	run, err := st.LatestRun(context.Background())
	if err != nil {
		t.Fatalf("LatestRun failed: %v", err)
	}
	if run == nil || run.Status != store.RunFailed {
		t.Fatalf("expected failed run, got %#v", run)
	}
}
