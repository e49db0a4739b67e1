package memory

import (
	"sort"
	"strings"
)

// SearchOpts controls search scope and filtering. Scope resolution: a
// set Tier narrows the scan to that tier; otherwise a set AuthorID
// narrows it to that author; otherwise the whole store is scanned (an
// accepted full-scan cost). Query and Type always apply as filters on
// top of the scope.
type SearchOpts struct {
	Query    string   // substring match on content, case-insensitive
	AuthorID string   // empty = any author
	Type     EchoType // empty = any type
	Tier     Tier     // zero = all tiers
	Limit    int      // max results (default 10)
}

func (o SearchOpts) limit() int {
	if o.Limit <= 0 {
		return 10
	}
	return o.Limit
}

// Search returns matching echoes, most significant first: sorted by
// weight × resonance descending, ties going to the newer echo, then
// truncated to the limit. All matches are collected before ranking so
// the result is the true top-N, not the first N encountered.
func (s *Store) Search(opts SearchOpts) []Echo {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []string
	switch {
	case opts.Tier >= TierImmediate && opts.Tier <= TierEternal:
		ids = s.tiers[opts.Tier.index()]
	case opts.AuthorID != "":
		for id := range s.byAuthor[opts.AuthorID] {
			ids = append(ids, id)
		}
	default:
		for id := range s.echoes {
			ids = append(ids, id)
		}
	}

	query := strings.ToLower(opts.Query)
	var results []Echo
	for _, id := range ids {
		e, ok := s.echoes[id]
		if !ok {
			continue
		}
		if opts.Type != "" && e.Type != opts.Type {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(e.Content), query) {
			continue
		}
		results = append(results, e.clone())
	}

	sortByAttention(results)
	if len(results) > opts.limit() {
		results = results[:opts.limit()]
	}
	return results
}

// sortByAttention orders echoes by weight × resonance descending, newer
// first on ties. This is the retrieval ranking; eviction uses
// Significance (resonance+1) instead so unread echoes keep their base
// weight there.
func sortByAttention(echoes []Echo) {
	sort.Slice(echoes, func(a, b int) bool {
		sa := echoes[a].Weight * float64(echoes[a].Resonance)
		sb := echoes[b].Weight * float64(echoes[b].Resonance)
		if sa != sb {
			return sa > sb
		}
		return echoes[a].CreatedAt.After(echoes[b].CreatedAt)
	})
}

// CrystallizeWisdom returns the top echoes by significance across all
// tiers, restricted to the wisdom and revelation types.
func (s *Store) CrystallizeWisdom(count int) []Echo {
	if count <= 0 {
		count = 5
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var wisdom []Echo
	for _, e := range s.echoes {
		if e.Type == TypeWisdom || e.Type == TypeRevelation {
			wisdom = append(wisdom, e.clone())
		}
	}

	sort.Slice(wisdom, func(a, b int) bool {
		sa, sb := wisdom[a].Significance(), wisdom[b].Significance()
		if sa != sb {
			return sa > sb
		}
		return wisdom[a].CreatedAt.After(wisdom[b].CreatedAt)
	})
	if len(wisdom) > count {
		wisdom = wisdom[:count]
	}
	return wisdom
}
