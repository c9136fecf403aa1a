package memory

import "testing"

func TestBuildDeckInvariants(t *testing.T) {
	for _, count := range ValidCardCounts {
		deck := BuildDeck(count)
		if len(deck) != count {
			t.Fatalf("count %d: got %d cards", count, len(deck))
		}

		counts := make(map[string]int)
		uids := make(map[int]bool)
		for _, c := range deck {
			counts[c.CountryKey]++
			if uids[c.UID] {
				t.Fatalf("count %d: duplicate UID %d", count, c.UID)
			}
			uids[c.UID] = true
			if c.Matched {
				t.Fatalf("count %d: freshly built card marked matched", count)
			}
		}

		for key, n := range counts {
			if n%2 != 0 {
				t.Fatalf("count %d: country %q has odd multiplicity %d", count, key, n)
			}
		}
	}
}

func TestValidCardCount(t *testing.T) {
	for _, v := range ValidCardCounts {
		if !ValidCardCount(v) {
			t.Fatalf("expected %d to be valid", v)
		}
	}
	if ValidCardCount(25) {
		t.Fatal("expected 25 to be invalid")
	}
}
