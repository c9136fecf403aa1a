package rooms

import (
	"testing"
	"time"

	"github.com/boardhall/boardhall/internal/games/croc"
	"github.com/boardhall/boardhall/internal/identity"
)

func TestCrocTrapEndsGameWithWinner(t *testing.T) {
	c := NewCrocCoordinator()
	c.Now = func() time.Time { return time.Unix(0, 0) }

	code, _ := c.Create(alice(), CrocCreateOptions{ToothCountPerJaw: 10})
	c.Join(alice(), code)
	c.Join(bob(), code)

	if err := c.Start(alice(), code, CrocStartOptions{ToothCountPerJaw: 10}); err != nil {
		t.Fatalf("start: %v", err)
	}

	room, _ := c.Registry.Get(code)
	room.Lock()
	room.TrapTooth = 7
	turn, _ := room.TurnUserID()
	room.Unlock()

	var first, second identity.Identity
	if turn == alice().UserID {
		first, second = alice(), bob()
	} else {
		first, second = bob(), alice()
	}

	if err := c.Pick(first, code, 3); err != nil {
		t.Fatalf("pick 3: %v", err)
	}

	room.Lock()
	if room.Status != StatusPlaying {
		t.Fatal("expected game still playing after non-trap pick")
	}
	room.Unlock()

	if err := c.Pick(second, code, 7); err != nil {
		t.Fatalf("pick trap: %v", err)
	}

	room.Lock()
	defer room.Unlock()
	if room.Status != StatusEnded {
		t.Fatal("expected game ended after trap pick")
	}
	if room.LoserUserID != second.UserID {
		t.Fatalf("expected loser %s, got %s", second.UserID, room.LoserUserID)
	}
	if room.WinnerUserID != first.UserID {
		t.Fatalf("expected winner %s, got %s", first.UserID, room.WinnerUserID)
	}
}

func TestCrocPickRejectsOutOfRangeTooth(t *testing.T) {
	c := NewCrocCoordinator()
	code, _ := c.Create(alice(), CrocCreateOptions{ToothCountPerJaw: 8})
	c.Join(alice(), code)
	c.Join(bob(), code)
	c.Start(alice(), code, CrocStartOptions{ToothCountPerJaw: 8})

	room, _ := c.Registry.Get(code)
	room.Lock()
	turn, _ := room.TurnUserID()
	room.Unlock()
	actor := alice()
	if turn == bob().UserID {
		actor = bob()
	}

	if err := c.Pick(actor, code, croc.TotalTeeth(8)+1); err == nil {
		t.Fatal("expected invalid_tooth error")
	}
}

func TestCrocStartRequiresTwoPlayers(t *testing.T) {
	c := NewCrocCoordinator()
	code, _ := c.Create(alice(), CrocCreateOptions{ToothCountPerJaw: 8})
	c.Join(alice(), code)

	if err := c.Start(alice(), code, CrocStartOptions{ToothCountPerJaw: 8}); err == nil {
		t.Fatal("expected need_two_players error")
	}
}
