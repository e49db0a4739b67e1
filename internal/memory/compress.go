package memory

import "sort"

// compressTier evicts the least significant echoes from a tier until it
// fits its capacity. Ranking is by significance (weight × (resonance+1))
// descending; equal scores keep the earlier-added echo. The survivors
// stay in their original insertion order so the tie-break remains stable
// across repeated compressions. Strictly tier-local: members are
// destroyed, never demoted.
//
// Caller must hold mu.
func (s *Store) compressTier(t Tier) {
	ids := s.tiers[t.index()]
	capacity := s.opts.Capacities[t.index()]
	if len(ids) <= capacity {
		return
	}

	// Rank positions, not ids: SliceStable keeps insertion order for
	// equal scores because the slice starts in insertion order.
	ranked := make([]int, len(ids))
	for i := range ranked {
		ranked[i] = i
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return s.echoes[ids[ranked[a]]].Significance() > s.echoes[ids[ranked[b]]].Significance()
	})

	keep := make(map[int]bool, capacity)
	for _, pos := range ranked[:capacity] {
		keep[pos] = true
	}

	kept := make([]string, 0, capacity)
	for pos, id := range ids {
		if keep[pos] {
			kept = append(kept, id)
			continue
		}
		e := s.echoes[id]
		delete(s.echoes, id)
		if owned := s.byAuthor[e.AuthorID]; owned != nil {
			delete(owned, id)
			if len(owned) == 0 {
				delete(s.byAuthor, e.AuthorID)
			}
		}
	}
	s.tiers[t.index()] = kept
}
