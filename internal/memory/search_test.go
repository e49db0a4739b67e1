package memory

import (
	"testing"
	"time"
)

func TestSearchByQuery(t *testing.T) {
	s := testStore(t, Options{})
	s.Add("The moon guides us", "alice", TypeWisdom, 1.0, nil)
	s.Add("Stars shine", "bob", TypeWisdom, 1.0, nil)

	got := s.Search(SearchOpts{Query: "moon"})
	if len(got) != 1 {
		t.Fatalf("got %d results, want 1", len(got))
	}
	if got[0].Content != "The moon guides us" {
		t.Errorf("content = %q", got[0].Content)
	}

	// Substring match is case-insensitive.
	if got := s.Search(SearchOpts{Query: "MOON"}); len(got) != 1 {
		t.Errorf("case-insensitive search got %d results, want 1", len(got))
	}
}

func TestSearchScopeResolution(t *testing.T) {
	clock := newFakeClock()
	s := testStore(t, Options{Clock: clock.Now})

	aged := s.Add("old echo from alice", "alice", TypeMemory, 1.0, nil)
	clock.advance(3 * 24 * time.Hour)
	s.Add("fresh echo from alice", "alice", TypeMemory, 1.0, nil)
	s.Add("fresh echo from bob", "bob", TypeMemory, 1.0, nil)
	s.Drift()

	// Tier scope wins over author scope.
	got := s.Search(SearchOpts{Tier: TierRecent, AuthorID: "bob"})
	if len(got) != 1 || got[0].ID != aged.ID {
		t.Errorf("tier scope returned %d results, want just the aged echo", len(got))
	}

	// Author scope without a tier.
	if got := s.Search(SearchOpts{AuthorID: "alice"}); len(got) != 2 {
		t.Errorf("author scope returned %d results, want 2", len(got))
	}

	// Full scan.
	if got := s.Search(SearchOpts{}); len(got) != 3 {
		t.Errorf("full scan returned %d results, want 3", len(got))
	}
}

func TestSearchTypeFilterAppliesInAnyScope(t *testing.T) {
	s := testStore(t, Options{})
	s.Add("a question", "alice", TypeQuestion, 1.0, nil)
	s.Add("a memory", "alice", TypeMemory, 1.0, nil)

	got := s.Search(SearchOpts{AuthorID: "alice", Type: TypeQuestion})
	if len(got) != 1 || got[0].Type != TypeQuestion {
		t.Errorf("type filter returned %d results", len(got))
	}

	got = s.Search(SearchOpts{Tier: TierImmediate, Type: TypeMemory})
	if len(got) != 1 || got[0].Type != TypeMemory {
		t.Errorf("type filter in tier scope returned %d results", len(got))
	}
}

func TestSearchOrdersBySignificanceThenRecency(t *testing.T) {
	clock := newFakeClock()
	s := testStore(t, Options{Clock: clock.Now})

	quiet := s.Add("never retrieved", "alice", TypeMemory, 5.0, nil)
	clock.advance(time.Minute)
	popular := s.Add("retrieved twice", "alice", TypeMemory, 1.0, nil)
	clock.advance(time.Minute)
	newest := s.Add("also never retrieved", "alice", TypeMemory, 5.0, nil)

	s.Retrieve(popular.ID)
	s.Retrieve(popular.ID)

	got := s.Search(SearchOpts{})
	if len(got) != 3 {
		t.Fatalf("got %d results", len(got))
	}
	if got[0].ID != popular.ID {
		t.Errorf("first result = %s, want the retrieved echo", got[0].ID)
	}
	// quiet and newest both score 0 (resonance 0); newer timestamp first.
	if got[1].ID != newest.ID || got[2].ID != quiet.ID {
		t.Errorf("tie order = %s, %s; want newer first", got[1].ID, got[2].ID)
	}
}

func TestSearchTruncatesToLimit(t *testing.T) {
	s := testStore(t, Options{})
	for i := 0; i < 25; i++ {
		s.Add("echo", "alice", TypeMemory, 1.0, nil)
	}

	if got := s.Search(SearchOpts{}); len(got) != 10 {
		t.Errorf("default limit returned %d results, want 10", len(got))
	}
	if got := s.Search(SearchOpts{Limit: 3}); len(got) != 3 {
		t.Errorf("limit 3 returned %d results", len(got))
	}
}

func TestSearchReturnsGlobalTopN(t *testing.T) {
	s := testStore(t, Options{})

	var best Echo
	for i := 0; i < 30; i++ {
		e := s.Add("echo", "alice", TypeMemory, 1.0, nil)
		if i == 29 {
			best = e
		}
	}
	// Make the last-added echo the highest scorer.
	for i := 0; i < 5; i++ {
		s.Retrieve(best.ID)
	}

	got := s.Search(SearchOpts{Limit: 1})
	if len(got) != 1 || got[0].ID != best.ID {
		t.Error("limit 1 should return the single best echo, not the first encountered")
	}
}

func TestCrystallizeWisdom(t *testing.T) {
	s := testStore(t, Options{})

	s.Add("mundane chatter", "alice", TypeInteraction, 9.0, nil)
	w1 := s.Add("the obstacle is the way", "alice", TypeWisdom, 2.0, nil)
	w2 := s.Add("all things pass", "bob", TypeRevelation, 3.0, nil)
	s.Add("what is time?", "carol", TypeQuestion, 5.0, nil)

	got := s.CrystallizeWisdom(5)
	if len(got) != 2 {
		t.Fatalf("got %d wisdom echoes, want 2", len(got))
	}
	// Higher significance first; neither was retrieved, so base weight decides.
	if got[0].ID != w2.ID || got[1].ID != w1.ID {
		t.Errorf("wisdom order = %s, %s", got[0].ID, got[1].ID)
	}

	if got := s.CrystallizeWisdom(1); len(got) != 1 || got[0].ID != w2.ID {
		t.Error("count 1 should return only the most significant wisdom")
	}
}

func TestCrystallizeWisdomEmptyStore(t *testing.T) {
	s := testStore(t, Options{})
	if got := s.CrystallizeWisdom(5); len(got) != 0 {
		t.Errorf("got %d echoes from empty store", len(got))
	}
}
