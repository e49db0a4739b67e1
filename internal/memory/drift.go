package memory

// Drift reclassifies every echo into its age-appropriate tier, then
// compresses any destination tier pushed over capacity. Assignment is
// strictly age-driven, so running it again with no elapsed time moves
// nothing. Destruction is never drift's job: echoes only die through
// compression or an explicit Remove/Clear.
//
// Returns the number of echoes that changed tier.
func (s *Store) Drift() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.opts.Clock()

	// Walk tier lists in order rather than the echo map so moves are
	// deterministic and arrive in the destination tier oldest-first,
	// preserving the insertion-order tie-break.
	type move struct {
		id       string
		from, to Tier
	}
	var moves []move
	for i := range s.tiers {
		from := Tiers[i]
		for _, id := range s.tiers[i] {
			e, ok := s.echoes[id]
			if !ok {
				// Orphaned id; should not happen, tolerate and skip
				// rather than abort the rest of the pass.
				continue
			}
			to := tierFor(now.Sub(e.CreatedAt), s.opts.Boundaries)
			if to != from {
				moves = append(moves, move{id: id, from: from, to: to})
			}
		}
	}

	touched := make(map[Tier]bool)
	for _, m := range moves {
		removeID(&s.tiers[m.from.index()], m.id)
		s.tiers[m.to.index()] = append(s.tiers[m.to.index()], m.id)
		touched[m.to] = true
	}

	// Compression is tier-local and only runs for tiers that actually
	// received members this pass.
	for _, t := range Tiers {
		if touched[t] && len(s.tiers[t.index()]) > s.opts.Capacities[t.index()] {
			s.compressTier(t)
		}
	}

	return len(moves)
}
