package api

import "takt/internal/store"

// FromRun converts a persisted run row to its wire shape.
func FromRun(run store.Run) RunRecord {
	return RunRecord{
		ID:               run.ID,
		Source:           run.Source,
		Status:           string(run.Status),
		StartedAt:        run.StartedAt,
		FinishedAt:       run.FinishedAt,
		CyclesIn:         run.CyclesIn,
		SummariesOut:     run.SummariesOut,
		RecordsSkipped:   run.RecordsSkipped,
		OutliersFiltered: run.OutliersFiltered,
		Error:            run.Error,
	}
}

// FromRuns converts run rows preserving order.
func FromRuns(runs []store.Run) []RunRecord {
	records := make([]RunRecord, 0, len(runs))
	for _, run := range runs {
		records = append(records, FromRun(run))
	}
	return records
}

// FromSummary converts a persisted summary row to its wire shape.
func FromSummary(rec store.SummaryRecord) Summary {
	return Summary{
		Operator:      rec.Operator,
		WorkCenter:    rec.WorkCenter,
		Routing:       rec.Routing,
		Operation:     rec.Operation,
		UnitsPerHour:  rec.UnitsPerHour,
		Observations:  rec.Observations,
		TotalQuantity: rec.TotalQuantity,
		TotalHours:    rec.TotalHours,
		DataSource:    rec.DataSource,
		RunID:         rec.RunID,
		ComputedAt:    rec.ComputedAt,
	}
}

// FromSummaries converts summary rows preserving order.
func FromSummaries(records []store.SummaryRecord) []Summary {
	summaries := make([]Summary, 0, len(records))
	for _, rec := range records {
		summaries = append(summaries, FromSummary(rec))
	}
	return summaries
}
