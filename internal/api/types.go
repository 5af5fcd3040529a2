package api

import "time"

// DaemonStatus reports the daemon's current state.
type DaemonStatus struct {
	Running      bool       `json:"running"`
	PID          int        `json:"pid"`
	RunActive    bool       `json:"run_active"`
	DatabasePath string     `json:"database_path"`
	LockPath     string     `json:"lock_path"`
	StartedAt    time.Time  `json:"started_at"`
	LastRun      *RunRecord `json:"last_run,omitempty"`
}

// RunRecord is one calculation run's history entry.
type RunRecord struct {
	ID               string     `json:"id"`
	Source           string     `json:"source"`
	Status           string     `json:"status"`
	StartedAt        time.Time  `json:"started_at"`
	FinishedAt       *time.Time `json:"finished_at,omitempty"`
	CyclesIn         int        `json:"cycles_in"`
	SummariesOut     int        `json:"summaries_out"`
	RecordsSkipped   int        `json:"records_skipped"`
	OutliersFiltered int        `json:"outliers_filtered"`
	Error            string     `json:"error,omitempty"`
}

// Summary is one persisted operator/work-center/routing UPH row.
type Summary struct {
	Operator      string    `json:"operator"`
	WorkCenter    string    `json:"work_center"`
	Routing       string    `json:"routing"`
	Operation     string    `json:"operation,omitempty"`
	UnitsPerHour  float64   `json:"units_per_hour"`
	Observations  int       `json:"observations"`
	TotalQuantity float64   `json:"total_quantity"`
	TotalHours    float64   `json:"total_hours"`
	DataSource    string    `json:"data_source"`
	RunID         string    `json:"run_id"`
	ComputedAt    time.Time `json:"computed_at"`
}

// SummariesResponse wraps a summary listing.
type SummariesResponse struct {
	Summaries []Summary `json:"summaries"`
}

// RunsResponse wraps run history.
type RunsResponse struct {
	Runs []RunRecord `json:"runs"`
}

// TriggerResponse answers a recalculation request.
type TriggerResponse struct {
	Accepted bool   `json:"accepted"`
	RunID    string `json:"run_id,omitempty"`
	Message  string `json:"message,omitempty"`
}

// ErrorResponse is the body for non-2xx answers.
type ErrorResponse struct {
	Error string `json:"error"`
}
