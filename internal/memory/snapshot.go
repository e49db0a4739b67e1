package memory

import "time"

// HealthStatus classifies the store from its empty-content ratio.
type HealthStatus string

const (
	HealthHealthy  HealthStatus = "healthy"  // under 5% empty
	HealthWarning  HealthStatus = "warning"  // under 10% empty
	HealthCritical HealthStatus = "critical" // 10% or more empty
)

func classify(emptyPct float64) HealthStatus {
	switch {
	case emptyPct < 5:
		return HealthHealthy
	case emptyPct < 10:
		return HealthWarning
	default:
		return HealthCritical
	}
}

// Snapshot is an immutable point-in-time record of store contents and
// derived statistics, built for the persistence sink.
type Snapshot struct {
	Timestamp   time.Time               `json:"timestamp"`
	TotalEchoes int                     `json:"total_echoes"`
	Tiers       map[string]TierSnapshot `json:"tiers"`
	Stats       Statistics              `json:"statistics"`
}

// TierSnapshot holds one tier's member count and a bounded sample of
// its echoes.
type TierSnapshot struct {
	Count  int    `json:"count"`
	Echoes []Echo `json:"echoes"`
}

// Statistics are the aggregate numbers frozen into each snapshot.
type Statistics struct {
	EmptyEchoes    int          `json:"empty_echoes"`
	EmptyPct       float64      `json:"empty_percentage"`
	UniqueAuthors  int          `json:"unique_authors"`
	AverageWeight  float64      `json:"average_weight"`
	TotalResonance int          `json:"total_resonance"`
	Health         HealthStatus `json:"health_status"`
}

// BuildSnapshot freezes the current state under the store lock. It never
// fails; persistence is the caller's concern (see Service.Snapshot).
func (s *Store) BuildSnapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := &Snapshot{
		Timestamp:   s.opts.Clock(),
		TotalEchoes: len(s.echoes),
		Tiers:       make(map[string]TierSnapshot, tierCount),
	}

	for i, t := range Tiers {
		ids := s.tiers[i]
		n := len(ids)
		sample := ids
		if len(sample) > s.opts.SampleSize {
			sample = sample[:s.opts.SampleSize]
		}
		echoes := make([]Echo, 0, len(sample))
		for _, id := range sample {
			if e, ok := s.echoes[id]; ok {
				echoes = append(echoes, e.clone())
			}
		}
		snap.Tiers[t.String()] = TierSnapshot{Count: n, Echoes: echoes}
	}

	snap.Stats = s.statsLocked()
	return snap
}

// statsLocked computes aggregate statistics. Caller must hold mu.
func (s *Store) statsLocked() Statistics {
	var st Statistics
	var weightSum float64
	for _, e := range s.echoes {
		if e.IsEmpty() {
			st.EmptyEchoes++
		}
		weightSum += e.Weight
		st.TotalResonance += e.Resonance
	}
	if n := len(s.echoes); n > 0 {
		st.EmptyPct = float64(st.EmptyEchoes) / float64(n) * 100
		st.AverageWeight = weightSum / float64(n)
	}
	st.UniqueAuthors = len(s.byAuthor)
	st.Health = classify(st.EmptyPct)
	return st
}

// HealthReport is the synchronous, side-effect-free view polled by
// metrics consumers.
type HealthReport struct {
	TotalEchoes   int            `json:"total_echoes"`
	EmptyEchoes   int            `json:"empty_echoes"`
	EmptyPct      float64        `json:"empty_percentage"`
	Tiers         map[string]int `json:"tiers"`
	UniqueAuthors int            `json:"unique_authors"`
	Health        HealthStatus   `json:"health_status"`
}

// Health reports current store health. An empty store is healthy.
func (s *Store) Health() HealthReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.statsLocked()
	tiers := make(map[string]int, tierCount)
	for i, t := range Tiers {
		tiers[t.String()] = len(s.tiers[i])
	}
	return HealthReport{
		TotalEchoes:   len(s.echoes),
		EmptyEchoes:   st.EmptyEchoes,
		EmptyPct:      st.EmptyPct,
		Tiers:         tiers,
		UniqueAuthors: st.UniqueAuthors,
		Health:        st.Health,
	}
}
