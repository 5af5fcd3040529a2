package store

import "time"

// RunStatus is the lifecycle state of a calculation run.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// Run is one calculation run's history row.
type Run struct {
	ID               string
	Source           string
	Status           RunStatus
	StartedAt        time.Time
	FinishedAt       *time.Time
	CyclesIn         int
	SummariesOut     int
	RecordsSkipped   int
	OutliersFiltered int
	Error            string
}

// RunStats carries the counters recorded when a run completes.
type RunStats struct {
	CyclesIn         int
	SummariesOut     int
	RecordsSkipped   int
	OutliersFiltered int
}

// SummaryRecord is a persisted UPH summary row.
type SummaryRecord struct {
	ID            int64
	Operator      string
	WorkCenter    string
	Routing       string
	Operation     string
	UnitsPerHour  float64
	Observations  int
	TotalQuantity float64
	TotalHours    float64
	DataSource    string
	RunID         string
	ComputedAt    time.Time
}

// SummaryFilter narrows ListSummaries results. Empty fields match everything.
type SummaryFilter struct {
	Operator   string
	WorkCenter string
}
