package rooms

import (
	"testing"

	"github.com/boardhall/boardhall/internal/games/gomoku"
	"github.com/boardhall/boardhall/internal/identity"
)

func TestGomokuJoinAssignsStonesDeterministically(t *testing.T) {
	c := NewGomokuCoordinator()
	code, _ := c.Create(alice(), GomokuCreateOptions{})

	snap, _ := c.Join(alice(), code)
	if snap.Players[0].Stone != "B" {
		t.Fatalf("expected first joiner to hold Black, got %s", snap.Players[0].Stone)
	}

	snap, _ = c.Join(bob(), code)
	var aliceStone, bobStone string
	for _, p := range snap.Players {
		switch p.UserID {
		case alice().UserID:
			aliceStone = p.Stone
		case bob().UserID:
			bobStone = p.Stone
		}
	}
	if aliceStone != "B" || bobStone != "W" {
		t.Fatalf("expected Black/White assignment, got alice=%s bob=%s", aliceStone, bobStone)
	}
}

func carol() identity.Identity { return identity.Identity{UserID: "u-carol", Username: "Carol"} }

func TestGomokuStartReassignsStoneByTurnOrder(t *testing.T) {
	c := NewGomokuCoordinator()
	code, _ := c.Create(alice(), GomokuCreateOptions{})
	c.Join(alice(), code)
	c.Join(bob(), code)

	// Alice (Black) leaves while still in lobby, so no forfeit logic
	// runs. Carol then joins and, by the join-time blackTaken() check,
	// is handed Black too, since only Bob (White) remains seated.
	if err := c.Leave(alice(), code); err != nil {
		t.Fatalf("leave: %v", err)
	}
	c.Join(carol(), code)

	if err := c.Start(bob(), code, GomokuStartOptions{}); err != nil {
		t.Fatalf("start: %v", err)
	}

	room, _ := c.Registry.Get(code)
	room.Lock()
	defer room.Unlock()

	if room.PlayerOrder[0] != bob().UserID {
		t.Fatalf("expected bob at turn-order cursor 0, got %s", room.PlayerOrder[0])
	}
	if room.Players[bob().UserID].Stone != gomoku.Black {
		t.Fatalf("expected cursor-0 player to hold Black, got %c", room.Players[bob().UserID].Stone)
	}
	if room.Players[carol().UserID].Stone != gomoku.White {
		t.Fatalf("expected other player to hold White, got %c", room.Players[carol().UserID].Stone)
	}
	if turn, ok := room.TurnUserID(); !ok || turn != bob().UserID {
		t.Fatalf("expected Black (bob) to hold the first turn, got %s", turn)
	}
}

func TestGomokuFiveInARowEndsGame(t *testing.T) {
	c := NewGomokuCoordinator()
	code, _ := c.Create(alice(), GomokuCreateOptions{})
	c.Join(alice(), code)
	c.Join(bob(), code)
	if err := c.Start(alice(), code, GomokuStartOptions{}); err != nil {
		t.Fatalf("start: %v", err)
	}

	room, _ := c.Registry.Get(code)
	room.Lock()
	turn, _ := room.TurnUserID()
	room.Unlock()

	black, white := alice(), bob()
	if turn != alice().UserID {
		black, white = bob(), alice()
	}

	for i := 0; i < 4; i++ {
		if err := c.Move(black, code, gomoku.Index(0, i)); err != nil {
			t.Fatalf("black move %d: %v", i, err)
		}
		if err := c.Move(white, code, gomoku.Index(1, i)); err != nil {
			t.Fatalf("white move %d: %v", i, err)
		}
	}
	if err := c.Move(black, code, gomoku.Index(0, 4)); err != nil {
		t.Fatalf("winning move: %v", err)
	}

	room.Lock()
	defer room.Unlock()
	if room.Status != StatusEnded {
		t.Fatal("expected game ended after five in a row")
	}
	if room.WinnerUserID != black.UserID {
		t.Fatalf("expected winner %s, got %s", black.UserID, room.WinnerUserID)
	}
}

func TestGomokuLeaveDuringPlayForfeits(t *testing.T) {
	c := NewGomokuCoordinator()
	code, _ := c.Create(alice(), GomokuCreateOptions{})
	c.Join(alice(), code)
	c.Join(bob(), code)
	c.Start(alice(), code, GomokuStartOptions{})

	if err := c.Leave(bob(), code); err != nil {
		t.Fatalf("leave: %v", err)
	}

	room, _ := c.Registry.Get(code)
	room.Lock()
	defer room.Unlock()
	if room.Status != StatusEnded {
		t.Fatal("expected game ended by forfeit")
	}
	if room.WinnerUserID != alice().UserID {
		t.Fatalf("expected remaining player to win by forfeit, got %s", room.WinnerUserID)
	}
}
