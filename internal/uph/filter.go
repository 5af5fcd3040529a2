package uph

// DropReason classifies why a per-MO observation was rejected as an outlier.
type DropReason string

const (
	// DropBelowDurationFloor marks MOs with too little combined labor to be
	// meaningful. A ten-second administrative cycle against a 40-unit order
	// implies thousands of units per hour; the floor removes it before the
	// magnitude check even runs.
	DropBelowDurationFloor DropReason = "below_duration_floor"

	// DropBelowFloor marks UPH values under the plausible minimum.
	DropBelowFloor DropReason = "below_uph_floor"

	// DropAboveCeiling marks UPH values over the plausible maximum.
	DropAboveCeiling DropReason = "above_uph_ceiling"
)

// FilteredObservation is one rejected observation with enough identifying
// detail to trace the decision in the audit log.
type FilteredObservation struct {
	Key           MOKey
	UnitsPerHour  float64
	DurationHours float64
	Quantity      float64
	Reason        DropReason
}

// filterObservations applies the plausibility policy to every observation,
// the duration floor first, then the UPH window. Re-running it over the kept
// set drops nothing further; this is the only place the bounds are applied.
func filterObservations(obs []Observation, policy Policy) ([]Observation, []FilteredObservation) {
	kept := make([]Observation, 0, len(obs))
	var dropped []FilteredObservation

	for _, o := range obs {
		if reason, ok := dropReasonFor(o, policy); !ok {
			dropped = append(dropped, FilteredObservation{
				Key:           o.Key,
				UnitsPerHour:  o.UnitsPerHour,
				DurationHours: o.DurationHours,
				Quantity:      o.Quantity,
				Reason:        reason,
			})
			continue
		}
		kept = append(kept, o)
	}
	return kept, dropped
}

func dropReasonFor(o Observation, policy Policy) (DropReason, bool) {
	switch {
	case o.DurationHours < policy.MinDurationHours:
		return DropBelowDurationFloor, false
	case o.UnitsPerHour < policy.MinUnitsPerHour:
		return DropBelowFloor, false
	case o.UnitsPerHour > policy.MaxUnitsPerHour:
		return DropAboveCeiling, false
	default:
		return "", true
	}
}
