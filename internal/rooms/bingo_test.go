package rooms

import (
	"testing"
	"time"

	"github.com/boardhall/boardhall/internal/identity"
)

func alice() identity.Identity { return identity.Identity{UserID: "u-alice", Username: "Alice"} }
func bob() identity.Identity   { return identity.Identity{UserID: "u-bob", Username: "Bob"} }

func newTestBingoCoordinator() *BingoCoordinator {
	c := NewBingoCoordinator()
	c.BotDrawDelay = time.Millisecond
	return c
}

func TestBingoCreateDoesNotSeatCreator(t *testing.T) {
	c := newTestBingoCoordinator()
	code, err := c.Create(alice(), BingoCreateOptions{Size: 5, BotEnabled: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	room, ok := c.Registry.Get(code)
	if !ok {
		t.Fatal("room missing after create")
	}
	if len(room.Players) != 0 {
		t.Fatalf("expected no seated players before join, got %d", len(room.Players))
	}
	if room.HostUserID != alice().UserID {
		t.Fatalf("expected creator to be host")
	}
}

func TestBingoSoloJoinSpawnsBot(t *testing.T) {
	c := newTestBingoCoordinator()
	code, _ := c.Create(alice(), BingoCreateOptions{Size: 5, BotEnabled: true})

	snap, err := c.Join(alice(), code)
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if len(snap.Players) != 2 {
		t.Fatalf("expected bot to join alongside solo human, got %d players", len(snap.Players))
	}

	var sawBot bool
	for _, p := range snap.Players {
		if p.IsBot {
			sawBot = true
		}
	}
	if !sawBot {
		t.Fatal("expected a bot player in snapshot")
	}
}

func TestBingoSecondHumanRemovesBot(t *testing.T) {
	c := newTestBingoCoordinator()
	code, _ := c.Create(alice(), BingoCreateOptions{Size: 5, BotEnabled: true})
	c.Join(alice(), code)

	snap, err := c.Join(bob(), code)
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if len(snap.Players) != 2 {
		t.Fatalf("expected bot removed once second human joins, got %d players", len(snap.Players))
	}
	for _, p := range snap.Players {
		if p.IsBot {
			t.Fatal("expected no bot once two humans are present")
		}
	}
}

func TestBingoStartRequiresHost(t *testing.T) {
	c := newTestBingoCoordinator()
	code, _ := c.Create(alice(), BingoCreateOptions{Size: 5, BotEnabled: false})
	c.Join(alice(), code)
	c.Join(bob(), code)

	if err := c.Start(bob(), code, BingoStartOptions{DrawTimeoutSeconds: 5}); err == nil {
		t.Fatal("expected host_only error for non-host start")
	}
	if err := c.Start(alice(), code, BingoStartOptions{DrawTimeoutSeconds: 5}); err != nil {
		t.Fatalf("start: %v", err)
	}

	room, _ := c.Registry.Get(code)
	room.Lock()
	defer room.Unlock()
	if room.Status != StatusPlaying {
		t.Fatalf("expected playing status, got %s", room.Status)
	}
}

func TestBingoDrawNumberEnforcesTurn(t *testing.T) {
	c := newTestBingoCoordinator()
	code, _ := c.Create(alice(), BingoCreateOptions{Size: 5, BotEnabled: false})
	c.Join(alice(), code)
	c.Join(bob(), code)
	c.Start(alice(), code, BingoStartOptions{DrawTimeoutSeconds: 5})

	room, _ := c.Registry.Get(code)
	room.Lock()
	turn, _ := room.TurnUserID()
	room.Unlock()

	var offTurn identity.Identity
	if turn == alice().UserID {
		offTurn = bob()
	} else {
		offTurn = alice()
	}

	if err := c.DrawNumber(offTurn, code, 1); err == nil {
		t.Fatal("expected not_your_turn error")
	}

	var onTurn identity.Identity
	if turn == alice().UserID {
		onTurn = alice()
	} else {
		onTurn = bob()
	}
	if err := c.DrawNumber(onTurn, code, 1); err != nil {
		t.Fatalf("draw: %v", err)
	}
	// The turn has passed to offTurn, so its repeat of 1 reaches the
	// already-called check rather than the turn check.
	if err := c.DrawNumber(offTurn, code, 1); err == nil {
		t.Fatal("expected number_already_called error on repeat draw")
	}
}

func TestBingoLeaveEmptyRoomIsDeleted(t *testing.T) {
	c := newTestBingoCoordinator()
	code, _ := c.Create(alice(), BingoCreateOptions{Size: 5, BotEnabled: false})
	c.Join(alice(), code)

	if err := c.Leave(alice(), code); err != nil {
		t.Fatalf("leave: %v", err)
	}
	if _, ok := c.Registry.Get(code); ok {
		t.Fatal("expected room to be deleted once empty")
	}
}
