package memory

import (
	"fmt"
	"time"
)

// Options configures a Store. Zero-valued fields are filled in from
// DefaultOptions by New.
type Options struct {
	// Boundaries are the maximum ages for the four finite tiers
	// (Immediate..Ancient); Eternal is unbounded. Must be strictly
	// increasing.
	Boundaries [tierCount - 1]time.Duration

	// Capacities caps the member count per tier, Immediate..Eternal.
	Capacities [tierCount]int

	// GrowthFactor multiplies an echo's weight on each retrieval.
	GrowthFactor float64

	// WeightCap bounds weight growth.
	WeightCap float64

	// SampleSize bounds the per-tier echo sample in snapshots.
	SampleSize int

	// DriftInterval is the cadence of tier reclassification.
	DriftInterval time.Duration

	// SnapshotInterval is the cadence of snapshot generation.
	SnapshotInterval time.Duration

	// Clock overrides the time source. Tests use this to age echoes.
	Clock func() time.Time
}

// DefaultOptions returns the standard tuning: daily/weekly/monthly/yearly
// boundaries, capacities 1000/500/200/100/50, 5% weight growth capped at
// 10.0, 50-echo snapshot samples, hourly drift and snapshots.
func DefaultOptions() Options {
	return Options{
		Boundaries: [tierCount - 1]time.Duration{
			24 * time.Hour,
			7 * 24 * time.Hour,
			30 * 24 * time.Hour,
			365 * 24 * time.Hour,
		},
		Capacities:       [tierCount]int{1000, 500, 200, 100, 50},
		GrowthFactor:     1.05,
		WeightCap:        10.0,
		SampleSize:       50,
		DriftInterval:    time.Hour,
		SnapshotInterval: time.Hour,
	}
}

func (o *Options) fillDefaults() {
	def := DefaultOptions()
	var zeroBounds [tierCount - 1]time.Duration
	if o.Boundaries == zeroBounds {
		o.Boundaries = def.Boundaries
	}
	var zeroCaps [tierCount]int
	if o.Capacities == zeroCaps {
		o.Capacities = def.Capacities
	}
	if o.GrowthFactor == 0 {
		o.GrowthFactor = def.GrowthFactor
	}
	if o.WeightCap == 0 {
		o.WeightCap = def.WeightCap
	}
	if o.SampleSize == 0 {
		o.SampleSize = def.SampleSize
	}
	if o.DriftInterval == 0 {
		o.DriftInterval = def.DriftInterval
	}
	if o.SnapshotInterval == 0 {
		o.SnapshotInterval = def.SnapshotInterval
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
}

func (o *Options) validate() error {
	for i := 1; i < len(o.Boundaries); i++ {
		if o.Boundaries[i] <= o.Boundaries[i-1] {
			return fmt.Errorf("tier boundaries must be strictly increasing: %v", o.Boundaries)
		}
	}
	for i, c := range o.Capacities {
		if c <= 0 {
			return fmt.Errorf("tier %s capacity must be positive, got %d", Tiers[i], c)
		}
	}
	if o.GrowthFactor < 1 {
		return fmt.Errorf("growth factor must be >= 1, got %v", o.GrowthFactor)
	}
	return nil
}
