package api_test

import (
	"testing"
	"time"

	"takt/internal/api"
	"takt/internal/store"
)

func TestFromRun(t *testing.T) {
	finished := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	run := store.Run{
		ID:               "run-1",
		Source:           "erp",
		Status:           store.RunCompleted,
		StartedAt:        finished.Add(-time.Minute),
		FinishedAt:       &finished,
		CyclesIn:         120,
		SummariesOut:     8,
		RecordsSkipped:   3,
		OutliersFiltered: 2,
	}

	record := api.FromRun(run)
	if record.ID != "run-1" || record.Status != "completed" {
		t.Fatalf("unexpected record: %#v", record)
	}
	if record.FinishedAt == nil || !record.FinishedAt.Equal(finished) {
		t.Fatalf("unexpected finished time: %v", record.FinishedAt)
	}
	if record.CyclesIn != 120 || record.SummariesOut != 8 {
		t.Fatalf("unexpected counters: %#v", record)
	}
}

func TestFromSummariesPreservesOrder(t *testing.T) {
	records := []store.SummaryRecord{
		{Operator: "Alice", WorkCenter: "Assembly", Routing: "R1", UnitsPerHour: 42.5},
		{Operator: "Bob", WorkCenter: "Cutting", Routing: "R2", UnitsPerHour: 19},
	}

	summaries := api.FromSummaries(records)
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].Operator != "Alice" || summaries[1].Operator != "Bob" {
		t.Fatalf("order not preserved: %#v", summaries)
	}
	if summaries[0].UnitsPerHour != 42.5 {
		t.Fatalf("unexpected uph: %v", summaries[0].UnitsPerHour)
	}
}
