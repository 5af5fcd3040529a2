package uph

import (
	"errors"
	"fmt"
)

// ErrInvalidPolicy indicates the policy constants cannot produce a meaningful
// calculation. This is a configuration error: the run aborts before any
// output is produced.
var ErrInvalidPolicy = errors.New("invalid uph policy")

// AveragingStrategy names how per-MO observations are combined into a group
// figure. The strategy is selected once via configuration and applied
// uniformly; the engine never mixes strategies within a run.
type AveragingStrategy string

const (
	// AveragingSimple is the unweighted arithmetic mean of per-MO UPH values.
	// Every MO counts equally regardless of its size or duration, favoring
	// many observations over a few large ones.
	AveragingSimple AveragingStrategy = "simple"

	// AveragingWeighted weights each MO by its duration, equivalent to total
	// quantity divided by total hours across the group.
	AveragingWeighted AveragingStrategy = "weighted"
)

// Policy holds the plausibility thresholds and averaging choice for one run.
//
// The upstream system applied several competing constants in different code
// paths (UPH ceilings of 100/500/1000, duration floors of 30s/2m/5m). Takt
// applies exactly one documented pair everywhere: a five-minute duration
// floor and a 1..500 UPH window.
type Policy struct {
	// MinDurationHours is the duration floor. MOs with less combined labor
	// than this are too short to be meaningful and emit no observation.
	MinDurationHours float64

	// MinUnitsPerHour and MaxUnitsPerHour bound the plausible UPH range.
	// Observations outside [min, max] are discarded rather than allowed to
	// corrupt the average.
	MinUnitsPerHour float64
	MaxUnitsPerHour float64

	// Averaging selects the group averaging strategy.
	Averaging AveragingStrategy
}

const (
	defaultMinDurationHours = 1.0 / 12 // five minutes
	defaultMinUnitsPerHour  = 1
	defaultMaxUnitsPerHour  = 500
)

// DefaultPolicy returns the documented production thresholds.
func DefaultPolicy() Policy {
	return Policy{
		MinDurationHours: defaultMinDurationHours,
		MinUnitsPerHour:  defaultMinUnitsPerHour,
		MaxUnitsPerHour:  defaultMaxUnitsPerHour,
		Averaging:        AveragingSimple,
	}
}

// Validate ensures the policy constants are usable. A zero or negative
// duration floor would let zero-duration MOs reach the division.
func (p Policy) Validate() error {
	if p.MinDurationHours <= 0 {
		return fmt.Errorf("%w: min duration hours must be positive, got %v", ErrInvalidPolicy, p.MinDurationHours)
	}
	if p.MinUnitsPerHour <= 0 {
		return fmt.Errorf("%w: min units per hour must be positive, got %v", ErrInvalidPolicy, p.MinUnitsPerHour)
	}
	if p.MaxUnitsPerHour <= p.MinUnitsPerHour {
		return fmt.Errorf("%w: max units per hour (%v) must exceed min (%v)", ErrInvalidPolicy, p.MaxUnitsPerHour, p.MinUnitsPerHour)
	}
	switch p.Averaging {
	case AveragingSimple, AveragingWeighted:
	case "":
		return fmt.Errorf("%w: averaging strategy is required", ErrInvalidPolicy)
	default:
		return fmt.Errorf("%w: unknown averaging strategy %q", ErrInvalidPolicy, p.Averaging)
	}
	return nil
}
