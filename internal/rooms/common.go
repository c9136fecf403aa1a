// Package rooms implements the four Room Coordinators (spec.md §4.9):
// Bingo, Croc, Memory, and Gomoku. Each composes a room-code
// allocator, a registry, presence/connection bookkeeping, the
// subscription fan-out, the turn scheduler, and its game's pure rule
// helpers behind one lock per room, the way the teacher's Hub
// (celebrity.go) composes the same concerns for its one game. Base
// holds the fields and helpers every game's room needs regardless of
// its game-specific state.
package rooms

import (
	"sync"
	"time"

	"github.com/boardhall/boardhall/internal/scheduler"
	"github.com/boardhall/boardhall/internal/stream"
)

// Status is a room's lifecycle state, spec.md §3. Transitions only
// ever move forward: lobby -> playing -> ended.
type Status string

const (
	StatusLobby   Status = "lobby"
	StatusPlaying Status = "playing"
	StatusEnded   Status = "ended"
)

// Base holds the fields common to every game's room (spec.md §3
// RoomCommon, minus the Players map, whose element type differs per
// game and so lives on each concrete room type instead).
type Base struct {
	mu sync.Mutex

	Code       string
	Status     Status
	HostUserID string
	CreatedAt  time.Time
	LastActive time.Time

	// PlayerOrder is the insertion order of userIds currently seated,
	// spec.md §3: "Insertion order is the canonical turn order."
	PlayerOrder []string

	Connections map[string]int
	Subs        *stream.Subscribers
	Turns       scheduler.Turns

	// Timer is the one outstanding deferred task for this room (the
	// Bingo bot move or the Memory mismatch-resolution pause). Any
	// mutation that changes the turn must cancel it first, spec.md §5.
	Timer *scheduler.Deadline
}

// NewBase constructs a Base with a freshly allocated code.
func NewBase(code string, now time.Time) Base {
	return Base{
		Code:        code,
		Status:      StatusLobby,
		CreatedAt:   now,
		LastActive:  now,
		Connections: make(map[string]int),
		Subs:        stream.NewSubscribers(),
	}
}

// Lock and Unlock guard all room state, including Base's own fields.
func (b *Base) Lock()   { b.mu.Lock() }
func (b *Base) Unlock() { b.mu.Unlock() }

// Touch marks the room as recently active, for the idle reaper.
func (b *Base) Touch(now time.Time) { b.LastActive = now }

// Online reports whether userId has at least one live subscription.
func (b *Base) Online(userID string) bool {
	return b.Connections[userID] > 0
}

// IncConn records a new subscription for userId.
func (b *Base) IncConn(userID string) {
	b.Connections[userID]++
}

// DecConn removes a subscription for userId, floored at zero.
func (b *Base) DecConn(userID string) {
	if b.Connections[userID] > 0 {
		b.Connections[userID]--
	}
	if b.Connections[userID] == 0 {
		delete(b.Connections, userID)
	}
}

// AppendPlayerOrder records a newly joined userId at the end of the
// insertion order.
func (b *Base) AppendPlayerOrder(userID string) {
	b.PlayerOrder = append(b.PlayerOrder, userID)
}

// RemovePlayerOrder drops userId from the insertion order.
func (b *Base) RemovePlayerOrder(userID string) {
	next := make([]string, 0, len(b.PlayerOrder))
	for _, id := range b.PlayerOrder {
		if id == userID {
			continue
		}
		next = append(next, id)
	}
	b.PlayerOrder = next
}

// TurnUserID returns the userId holding the turn, or ("", false) if
// the room isn't playing or has no turn order, per spec.md's
// invariant: "turnUserId = turnOrder[turnCursor mod |turnOrder|]
// whenever status=playing and turnOrder is non-empty; otherwise null."
func (b *Base) TurnUserID() (string, bool) {
	if b.Status != StatusPlaying {
		return "", false
	}
	return b.Turns.Current()
}

// CancelTimer stops any outstanding deferred task and clears the
// field, so a stale callback's identity compare will fail.
func (b *Base) CancelTimer() {
	b.Timer.Cancel()
	b.Timer = nil
}

// NextHost picks the next surviving human to hold the host role in
// join order, skipping the bot sentinel, spec.md §3: "transferred to
// the next surviving human in join order." isBot reports whether a
// given userId is the bot.
func NextHost(order []string, isBot func(string) bool) string {
	for _, id := range order {
		if !isBot(id) {
			return id
		}
	}
	return ""
}
