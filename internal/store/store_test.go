package store_test

import (
	"context"
	"errors"
	"testing"

	"takt/internal/store"
	"takt/internal/testsupport"
	"takt/internal/uph"
)

func summaries(values ...float64) []uph.Summary {
	out := make([]uph.Summary, 0, len(values))
	for i, v := range values {
		out = append(out, uph.Summary{
			Operator:      string(rune('A' + i)),
			WorkCenter:    "Assembly",
			Routing:       "R1",
			UnitsPerHour:  v,
			Observations:  1,
			TotalQuantity: v,
			TotalHours:    1,
			DataSource:    "test",
		})
	}
	return out
}

func TestReplaceSummariesSwapsFullResultSet(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if err := s.BeginRun(ctx, "run-1", "test"); err != nil {
		t.Fatalf("BeginRun failed: %v", err)
	}
	if err := s.ReplaceSummaries(ctx, "run-1", summaries(50, 60, 70)); err != nil {
		t.Fatalf("ReplaceSummaries failed: %v", err)
	}

	records, err := s.ListSummaries(ctx, store.SummaryFilter{})
	if err != nil {
		t.Fatalf("ListSummaries failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 summaries, got %d", len(records))
	}

	// A second run fully replaces, never merges.
	if err := s.BeginRun(ctx, "run-2", "test"); err != nil {
		t.Fatalf("BeginRun failed: %v", err)
	}
	if err := s.ReplaceSummaries(ctx, "run-2", summaries(40)); err != nil {
		t.Fatalf("ReplaceSummaries failed: %v", err)
	}

	records, err = s.ListSummaries(ctx, store.SummaryFilter{})
	if err != nil {
		t.Fatalf("ListSummaries failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected replacement to drop old rows, got %d", len(records))
	}
	if records[0].RunID != "run-2" {
		t.Fatalf("expected run-2 provenance, got %q", records[0].RunID)
	}
}

func TestReplaceSummariesWithEmptySetClearsTable(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if err := s.BeginRun(ctx, "run-1", "test"); err != nil {
		t.Fatalf("BeginRun failed: %v", err)
	}
	if err := s.ReplaceSummaries(ctx, "run-1", summaries(50)); err != nil {
		t.Fatalf("ReplaceSummaries failed: %v", err)
	}
	if err := s.BeginRun(ctx, "run-2", "test"); err != nil {
		t.Fatalf("BeginRun failed: %v", err)
	}
	if err := s.ReplaceSummaries(ctx, "run-2", nil); err != nil {
		t.Fatalf("ReplaceSummaries with empty set failed: %v", err)
	}

	records, err := s.ListSummaries(ctx, store.SummaryFilter{})
	if err != nil {
		t.Fatalf("ListSummaries failed: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty table, got %d rows", len(records))
	}
}

func TestListSummariesFilters(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if err := s.BeginRun(ctx, "run-1", "test"); err != nil {
		t.Fatalf("BeginRun failed: %v", err)
	}
	rows := []uph.Summary{
		{Operator: "A", WorkCenter: "Assembly", Routing: "R1", UnitsPerHour: 50, Observations: 1, DataSource: "test"},
		{Operator: "A", WorkCenter: "Cutting", Routing: "R1", UnitsPerHour: 20, Observations: 1, DataSource: "test"},
		{Operator: "B", WorkCenter: "Assembly", Routing: "R2", UnitsPerHour: 30, Observations: 1, DataSource: "test"},
	}
	if err := s.ReplaceSummaries(ctx, "run-1", rows); err != nil {
		t.Fatalf("ReplaceSummaries failed: %v", err)
	}

	byOperator, err := s.ListSummaries(ctx, store.SummaryFilter{Operator: "A"})
	if err != nil {
		t.Fatalf("ListSummaries failed: %v", err)
	}
	if len(byOperator) != 2 {
		t.Fatalf("expected 2 rows for operator A, got %d", len(byOperator))
	}

	byBoth, err := s.ListSummaries(ctx, store.SummaryFilter{Operator: "A", WorkCenter: "Cutting"})
	if err != nil {
		t.Fatalf("ListSummaries failed: %v", err)
	}
	if len(byBoth) != 1 || byBoth[0].UnitsPerHour != 20 {
		t.Fatalf("unexpected filtered rows: %#v", byBoth)
	}
}

func TestRunLifecycle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if err := s.BeginRun(ctx, "run-1", "erp"); err != nil {
		t.Fatalf("BeginRun failed: %v", err)
	}
	stats := store.RunStats{CyclesIn: 100, SummariesOut: 5, RecordsSkipped: 3, OutliersFiltered: 2}
	if err := s.CompleteRun(ctx, "run-1", stats); err != nil {
		t.Fatalf("CompleteRun failed: %v", err)
	}

	run, err := s.LatestRun(ctx)
	if err != nil {
		t.Fatalf("LatestRun failed: %v", err)
	}
	if run == nil || run.ID != "run-1" {
		t.Fatalf("unexpected latest run: %#v", run)
	}
	if run.Status != store.RunCompleted {
		t.Fatalf("expected completed status, got %q", run.Status)
	}
	if run.CyclesIn != 100 || run.SummariesOut != 5 || run.RecordsSkipped != 3 || run.OutliersFiltered != 2 {
		t.Fatalf("unexpected counters: %#v", run)
	}
	if run.FinishedAt == nil {
		t.Fatal("expected finished timestamp")
	}
}

func TestFailRunKeepsPreviousSummaries(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if err := s.BeginRun(ctx, "run-1", "test"); err != nil {
		t.Fatalf("BeginRun failed: %v", err)
	}
	if err := s.ReplaceSummaries(ctx, "run-1", summaries(50)); err != nil {
		t.Fatalf("ReplaceSummaries failed: %v", err)
	}

	if err := s.BeginRun(ctx, "run-2", "test"); err != nil {
		t.Fatalf("BeginRun failed: %v", err)
	}
	if err := s.FailRun(ctx, "run-2", errors.New("erp unreachable")); err != nil {
		t.Fatalf("FailRun failed: %v", err)
	}

	records, err := s.ListSummaries(ctx, store.SummaryFilter{})
	if err != nil {
		t.Fatalf("ListSummaries failed: %v", err)
	}
	if len(records) != 1 || records[0].RunID != "run-1" {
		t.Fatalf("expected run-1 results preserved, got %#v", records)
	}

	run, err := s.LatestRun(ctx)
	if err != nil {
		t.Fatalf("LatestRun failed: %v", err)
	}
	if run.Status != store.RunFailed || run.Error != "erp unreachable" {
		t.Fatalf("unexpected failed run: %#v", run)
	}
}

func TestCompleteUnknownRun(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)

	err := s.CompleteRun(context.Background(), "missing", store.RunStats{})
	if !errors.Is(err, store.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
}
