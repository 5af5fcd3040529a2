package uph

// observe converts every MO aggregate into a raw productivity observation.
// No plausibility filtering happens here; that is filterObservations' job, so
// the bounds are applied exactly once and the full observation list survives
// for the audit trail.
//
// An aggregate with no positive duration yields UnitsPerHour zero rather than
// dividing by zero; the duration floor removes it downstream.
func observe(aggs []MOAggregate) []Observation {
	obs := make([]Observation, 0, len(aggs))
	for _, agg := range aggs {
		hours := agg.DurationHours()
		o := Observation{
			Key:           agg.Key,
			DurationHours: hours,
			Quantity:      agg.MOQuantity,
			CycleCount:    agg.CycleCount,
			Operations:    agg.Operations,
		}
		if hours > 0 {
			o.UnitsPerHour = agg.MOQuantity / hours
		}
		obs = append(obs, o)
	}
	return obs
}
