package uph

import "math"

// Audit records everything the engine decided during one run: which records
// were skipped and why, the full pre-filter observation list, and every
// outlier rejection with its identifying key. Callers log it for
// traceability; the engine itself performs no I/O.
type Audit struct {
	InputRecords   int
	SkippedRecords int
	SkipReasons    map[SkipReason]int
	Aggregates     int
	Observations   []Observation
	Filtered       []FilteredObservation
	Surviving      int
}

// Result is the complete outcome of one calculation run.
type Result struct {
	Summaries []Summary
	Audit     Audit
}

// Compute derives UPH summaries from raw work cycles under the given policy.
//
// The calculation is a pure function of its inputs: identical records and
// policy yield identical output, in deterministic order. Malformed records
// are skipped and counted, never fatal; an input set with no survivable
// records yields an empty (valid) result so downstream persistence can
// safely replace-with-empty. The only error condition is an invalid policy,
// which aborts before any output is produced.
//
// dataSource is a provenance tag stamped onto every summary unchanged.
func Compute(records []WorkCycle, policy Policy, dataSource string) (Result, error) {
	if err := policy.Validate(); err != nil {
		return Result{}, err
	}

	aggs, skips := aggregate(records)
	observations := observe(aggs)
	kept, dropped := filterObservations(observations, policy)
	summaries := summarize(kept, policy, dataSource)

	skipped := 0
	for _, n := range skips {
		skipped += n
	}

	return Result{
		Summaries: summaries,
		Audit: Audit{
			InputRecords:   len(records),
			SkippedRecords: skipped,
			SkipReasons:    skips,
			Aggregates:     len(aggs),
			Observations:   observations,
			Filtered:       dropped,
			Surviving:      len(kept),
		},
	}, nil
}

// round2 rounds to two decimal places for the output contract.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
