package sim

import "testing"

func TestPathStore_InsertDedupes(t *testing.T) {
	s := NewPathStore()
	p := Path{"a", "b"}
	if !s.Insert("as1", "as2", p) {
		t.Fatal("expected first insert to report new")
	}
	if s.Insert("as1", "as2", p) {
		t.Fatal("expected duplicate insert to report not-new")
	}
	if len(s.Paths("as1", "as2")) != 1 {
		t.Errorf("expected exactly one stored path, got %d", len(s.Paths("as1", "as2")))
	}
}

func TestPathStore_DistinctPairsIndependent(t *testing.T) {
	s := NewPathStore()
	s.Insert("as1", "as2", Path{"a"})
	s.Insert("as2", "as1", Path{"a"})
	if len(s.Paths("as1", "as2")) != 1 || len(s.Paths("as2", "as1")) != 1 {
		t.Error("expected (as1,as2) and (as2,as1) to be tracked independently")
	}
}

func TestPathStore_Pairs_SortedDeterministic(t *testing.T) {
	s := NewPathStore()
	s.Insert("as2", "as1", Path{"x"})
	s.Insert("as1", "as3", Path{"y"})
	s.Insert("as1", "as2", Path{"z"})

	pairs := s.Pairs()
	for i := 1; i < len(pairs); i++ {
		prev, cur := pairs[i-1], pairs[i]
		if cur.src < prev.src || (cur.src == prev.src && cur.dst < prev.dst) {
			t.Fatalf("pairs not sorted: %v", pairs)
		}
	}
}

func TestPathStore_UnknownPair_ReturnsNil(t *testing.T) {
	s := NewPathStore()
	if got := s.Paths("x", "y"); got != nil {
		t.Errorf("expected nil for unknown pair, got %v", got)
	}
}
