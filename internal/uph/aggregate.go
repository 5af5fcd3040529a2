package uph

import (
	"sort"

	"takt/internal/workcenter"
)

// SkipReason classifies why a raw work cycle was excluded from aggregation.
// Skipped records are counted and surfaced in the audit, never fatal.
type SkipReason string

const (
	SkipMissingOperator    SkipReason = "missing_operator"
	SkipMissingWorkCenter  SkipReason = "missing_work_center"
	SkipMissingRouting     SkipReason = "missing_routing"
	SkipMissingMONumber    SkipReason = "missing_mo_number"
	SkipNonPositiveQty     SkipReason = "non_positive_quantity"
	SkipIneligibleState    SkipReason = "ineligible_state"
)

// skipReasonFor returns the first validation failure for the cycle, or ""
// when the cycle is usable.
func skipReasonFor(c WorkCycle) SkipReason {
	switch {
	case !c.eligible():
		return SkipIneligibleState
	case c.Operator == "":
		return SkipMissingOperator
	case c.WorkCenterRaw == "":
		return SkipMissingWorkCenter
	case c.Routing == "":
		return SkipMissingRouting
	case c.MONumber == "":
		return SkipMissingMONumber
	case c.MOQuantity <= 0:
		return SkipNonPositiveQty
	default:
		return ""
	}
}

// aggregate groups usable cycles by (operator, normalized work center,
// routing, MO) and sums their durations. A cycle whose duration is zero or
// negative still increments CycleCount but contributes nothing to the total:
// it stays visible in the counts without shrinking the denominator.
//
// Aggregates are returned in deterministic key order.
func aggregate(records []WorkCycle) ([]MOAggregate, map[SkipReason]int) {
	skips := make(map[SkipReason]int)
	byKey := make(map[MOKey]*MOAggregate)
	opsByKey := make(map[MOKey]map[string]struct{})
	order := make([]MOKey, 0, len(records))

	for _, rec := range records {
		if reason := skipReasonFor(rec); reason != "" {
			skips[reason]++
			continue
		}

		key := MOKey{
			Operator:   rec.Operator,
			WorkCenter: workcenter.Normalize(rec.WorkCenterRaw),
			Routing:    rec.Routing,
			MONumber:   rec.MONumber,
		}

		agg, ok := byKey[key]
		if !ok {
			agg = &MOAggregate{Key: key, MOQuantity: rec.MOQuantity}
			byKey[key] = agg
			opsByKey[key] = make(map[string]struct{})
			order = append(order, key)
		}

		agg.CycleCount++
		if rec.DurationSeconds > 0 {
			agg.TotalDurationSeconds += rec.DurationSeconds
		}
		if rec.Operation != "" {
			opsByKey[key][rec.Operation] = struct{}{}
		}
	}

	sort.Slice(order, func(i, j int) bool { return lessMOKey(order[i], order[j]) })

	aggs := make([]MOAggregate, 0, len(order))
	for _, key := range order {
		agg := byKey[key]
		agg.Operations = sortedOperations(opsByKey[key])
		aggs = append(aggs, *agg)
	}
	return aggs, skips
}

func sortedOperations(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lessMOKey(a, b MOKey) bool {
	if a.Operator != b.Operator {
		return a.Operator < b.Operator
	}
	if a.WorkCenter != b.WorkCenter {
		return a.WorkCenter < b.WorkCenter
	}
	if a.Routing != b.Routing {
		return a.Routing < b.Routing
	}
	return a.MONumber < b.MONumber
}
