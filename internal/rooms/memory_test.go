package rooms

import (
	"testing"
	"time"
)

func TestMemoryMismatchResolvesAfterDelay(t *testing.T) {
	c := NewMemoryCoordinator()
	c.MismatchResolveDelay = time.Millisecond

	code, _ := c.Create(alice(), MemoryCreateOptions{})
	c.Join(alice(), code)
	c.Join(bob(), code)
	if err := c.Start(alice(), code, MemoryStartOptions{CardCount: 20}); err != nil {
		t.Fatalf("start: %v", err)
	}

	room, _ := c.Registry.Get(code)
	room.Lock()
	turn, _ := room.TurnUserID()
	// Force a guaranteed mismatch: cards 0 and 1 are only equal by luck,
	// so pick two cards we know differ in countryKey if possible.
	a, b := 0, 1
	for i := 1; i < len(room.Cards); i++ {
		if room.Cards[i].CountryKey != room.Cards[0].CountryKey {
			b = i
			break
		}
	}
	room.Unlock()

	actor := alice()
	if turn == bob().UserID {
		actor = bob()
	}

	if err := c.Pick(actor, code, a); err != nil {
		t.Fatalf("pick a: %v", err)
	}
	if err := c.Pick(actor, code, b); err != nil {
		t.Fatalf("pick b: %v", err)
	}

	room.Lock()
	resolving := room.Resolving
	room.Unlock()
	if !resolving {
		t.Fatal("expected resolving=true immediately after a mismatch")
	}

	time.Sleep(20 * time.Millisecond)

	room.Lock()
	defer room.Unlock()
	if room.Resolving {
		t.Fatal("expected resolving cleared after the deferred timer fires")
	}
	if len(room.RevealedIndices) != 0 {
		t.Fatal("expected revealedIndices cleared after mismatch resolution")
	}
}

func TestMemoryPickRejectsOutOfRangeIndex(t *testing.T) {
	c := NewMemoryCoordinator()
	code, _ := c.Create(alice(), MemoryCreateOptions{})
	c.Join(alice(), code)
	c.Start(alice(), code, MemoryStartOptions{CardCount: 20})

	if err := c.Pick(alice(), code, 999); err == nil {
		t.Fatal("expected invalid_index error")
	}
}

func TestMemoryStartRejectsBadCardCount(t *testing.T) {
	c := NewMemoryCoordinator()
	code, _ := c.Create(alice(), MemoryCreateOptions{})
	c.Join(alice(), code)

	if err := c.Start(alice(), code, MemoryStartOptions{CardCount: 7}); err == nil {
		t.Fatal("expected invalid_card_count error")
	}
}
