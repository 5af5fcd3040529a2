package uph

import "strings"

// StateDone is the only explicit work-cycle state eligible for UPH
// calculation. Cycles with an empty state are treated as done; anything else
// is skipped.
const StateDone = "done"

// WorkCycle is one timed interval of labor logged against an operator, work
// center, and manufacturing order. Records arrive field-normalized from the
// ingest collaborators (ERP client, CSV reader).
type WorkCycle struct {
	Operator        string
	WorkCenterRaw   string
	Routing         string
	MONumber        string
	MOQuantity      float64
	DurationSeconds float64
	Operation       string
	State           string
}

// eligible reports whether the cycle state permits it to contribute to UPH.
func (c WorkCycle) eligible() bool {
	return c.State == "" || c.State == StateDone
}

// MOKey identifies one manufacturing order's work within a single work center
// for a single operator. Multiple cycles and operations sharing the key are
// combined before any UPH math happens.
type MOKey struct {
	Operator   string
	WorkCenter string
	Routing    string
	MONumber   string
}

// GroupKey is the reporting dimension summaries are keyed by.
type GroupKey struct {
	Operator   string
	WorkCenter string
	Routing    string
}

// Group returns the reporting key the MO contributes to.
func (k MOKey) Group() GroupKey {
	return GroupKey{Operator: k.Operator, WorkCenter: k.WorkCenter, Routing: k.Routing}
}

// MOAggregate is the combined labor an operator logged against one MO in one
// work center. MOQuantity is the order's quantity, constant across the group;
// summing cycle-level quantities would double count and is never done.
type MOAggregate struct {
	Key                  MOKey
	TotalDurationSeconds float64
	CycleCount           int
	MOQuantity           float64
	Operations           []string
}

// DurationHours converts the aggregate's total duration to hours.
func (a MOAggregate) DurationHours() float64 {
	return a.TotalDurationSeconds / 3600
}

// Observation is one MO's productivity figure before plausibility filtering.
type Observation struct {
	Key           MOKey
	UnitsPerHour  float64
	DurationHours float64
	Quantity      float64
	CycleCount    int
	Operations    []string
}

// Summary is the per-(operator, work center, routing) output record handed to
// the persistence collaborator.
type Summary struct {
	Operator      string
	WorkCenter    string
	Routing       string
	Operation     string
	UnitsPerHour  float64
	Observations  int
	TotalQuantity float64
	TotalHours    float64
	DataSource    string
}

// joinOperations renders an operation-name union for display. Purely
// informational; operations never participate in grouping keys.
func joinOperations(names []string) string {
	return strings.Join(names, ", ")
}
