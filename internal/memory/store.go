package memory

import (
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Store owns the canonical id→Echo map plus the two derived indices:
// per-tier id lists (in insertion order) and the author→ids reverse
// index. One mutex serializes every mutation; no operation touches the
// indices without it, so the three structures can never drift apart.
type Store struct {
	opts Options

	mu       sync.Mutex
	echoes   map[string]*Echo
	tiers    [tierCount][]string
	byAuthor map[string]map[string]bool
	entropy  *ulid.MonotonicEntropy
}

// New creates an empty store. Zero-valued option fields take defaults.
func New(opts Options) (*Store, error) {
	opts.fillDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &Store{
		opts:     opts,
		echoes:   make(map[string]*Echo),
		byAuthor: make(map[string]map[string]bool),
		entropy:  ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}, nil
}

// newID mints a ULID stamped with the echo's creation time. ULIDs sort
// chronologically, which the compression tie-break relies on only
// indirectly: tier lists track insertion order themselves.
// Caller must hold mu (the entropy source is not goroutine safe).
func (s *Store) newID(now time.Time) string {
	return ulid.MustNew(ulid.Timestamp(now), s.entropy).String()
}

// Add records a new echo. It always succeeds: content is not validated,
// empty or whitespace-only text is accepted and tracked. The echo lands
// in the Immediate tier and the author index; if that pushes Immediate
// over capacity the tier is compressed in the same critical section.
func (s *Store) Add(content, authorID string, typ EchoType, weight float64, meta map[string]MetaValue) Echo {
	if weight <= 0 {
		weight = 1.0
	}
	if weight > s.opts.WeightCap {
		weight = s.opts.WeightCap
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Copy the metadata so the caller's map never aliases store state.
	var metaCopy map[string]MetaValue
	if len(meta) > 0 {
		metaCopy = make(map[string]MetaValue, len(meta))
		for k, v := range meta {
			metaCopy[k] = v
		}
	}

	now := s.opts.Clock()
	e := &Echo{
		ID:        s.newID(now),
		Content:   content,
		AuthorID:  authorID,
		Type:      typ,
		CreatedAt: now,
		Weight:    weight,
		Meta:      metaCopy,
	}

	s.echoes[e.ID] = e
	s.tiers[TierImmediate.index()] = append(s.tiers[TierImmediate.index()], e.ID)
	if s.byAuthor[authorID] == nil {
		s.byAuthor[authorID] = make(map[string]bool)
	}
	s.byAuthor[authorID][e.ID] = true

	if len(s.tiers[TierImmediate.index()]) > s.opts.Capacities[TierImmediate.index()] {
		s.compressTier(TierImmediate)
	}

	return e.clone()
}

// Retrieve looks up an echo by id. A hit reinforces it: resonance grows
// by one and weight by the growth factor, capped. A miss is an absence,
// not an error.
func (s *Store) Retrieve(id string) (Echo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.echoes[id]
	if !ok {
		return Echo{}, false
	}
	e.Resonance++
	e.Weight = min(s.opts.WeightCap, e.Weight*s.opts.GrowthFactor)
	return e.clone(), true
}

// Remove deletes an echo from all three indices as one unit. Reports
// whether the id existed.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.echoes[id]; !ok {
		return false
	}
	s.removeLocked(id)
	return true
}

// removeLocked drops id from the echo map, its tier list, and the author
// index. Caller must hold mu; the three deletions happen under the one
// lock so no reader can observe a partial removal.
func (s *Store) removeLocked(id string) {
	e := s.echoes[id]
	delete(s.echoes, id)

	for i := range s.tiers {
		if removeID(&s.tiers[i], id) {
			break
		}
	}

	if owned := s.byAuthor[e.AuthorID]; owned != nil {
		delete(owned, id)
		if len(owned) == 0 {
			delete(s.byAuthor, e.AuthorID)
		}
	}
}

func removeID(ids *[]string, id string) bool {
	for i, v := range *ids {
		if v == id {
			*ids = append((*ids)[:i], (*ids)[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the store. Administrative reset, never invoked by the
// background jobs.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.echoes = make(map[string]*Echo)
	s.byAuthor = make(map[string]map[string]bool)
	for i := range s.tiers {
		s.tiers[i] = nil
	}
}

// Len returns the total echo count.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.echoes)
}

// tierOfLocked finds the tier currently holding id. Caller must hold mu.
func (s *Store) tierOfLocked(id string) (Tier, bool) {
	for i := range s.tiers {
		for _, v := range s.tiers[i] {
			if v == id {
				return Tiers[i], true
			}
		}
	}
	return 0, false
}
