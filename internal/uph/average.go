package uph

import "sort"

// summarize groups surviving observations by (operator, work center, routing)
// and computes the representative UPH per group. Groups with zero survivors
// emit nothing: absence of a summary is the normal "insufficient data"
// outcome, distinct from a zero-UPH record.
//
// Summaries are returned in deterministic group-key order.
func summarize(obs []Observation, policy Policy, dataSource string) []Summary {
	byGroup := make(map[GroupKey][]Observation)
	order := make([]GroupKey, 0)

	for _, o := range obs {
		group := o.Key.Group()
		if _, ok := byGroup[group]; !ok {
			order = append(order, group)
		}
		byGroup[group] = append(byGroup[group], o)
	}

	sort.Slice(order, func(i, j int) bool { return lessGroupKey(order[i], order[j]) })

	summaries := make([]Summary, 0, len(order))
	for _, group := range order {
		members := byGroup[group]

		var totalQuantity, totalHours float64
		opSet := make(map[string]struct{})
		for _, o := range members {
			totalQuantity += o.Quantity
			totalHours += o.DurationHours
			for _, op := range o.Operations {
				opSet[op] = struct{}{}
			}
		}

		summaries = append(summaries, Summary{
			Operator:      group.Operator,
			WorkCenter:    group.WorkCenter,
			Routing:       group.Routing,
			Operation:     joinOperations(sortedOperations(opSet)),
			UnitsPerHour:  round2(groupMean(members, policy.Averaging)),
			Observations:  len(members),
			TotalQuantity: totalQuantity,
			TotalHours:    round2(totalHours),
			DataSource:    dataSource,
		})
	}
	return summaries
}

// groupMean combines the group's per-MO UPH values under the selected
// strategy. The weighted mean reduces to total quantity over total hours
// because each observation's uph is quantity/hours.
func groupMean(members []Observation, strategy AveragingStrategy) float64 {
	if len(members) == 0 {
		return 0
	}

	switch strategy {
	case AveragingWeighted:
		var totalQuantity, totalHours float64
		for _, o := range members {
			totalQuantity += o.Quantity
			totalHours += o.DurationHours
		}
		if totalHours <= 0 {
			return 0
		}
		return totalQuantity / totalHours
	default:
		var sum float64
		for _, o := range members {
			sum += o.UnitsPerHour
		}
		return sum / float64(len(members))
	}
}

func lessGroupKey(a, b GroupKey) bool {
	if a.Operator != b.Operator {
		return a.Operator < b.Operator
	}
	if a.WorkCenter != b.WorkCenter {
		return a.WorkCenter < b.WorkCenter
	}
	return a.Routing < b.Routing
}
