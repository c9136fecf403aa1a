// Package scheduler implements the per-room turn-order cursor
// (spec.md §4.4) and the cancelable deferred-task abstraction used for
// the Bingo bot move and the Memory mismatch-resolution pause
// (spec.md §9 "Model as an explicit Deadline abstraction"). The timer
// shape is grounded on the other_examples rias-glitch-telegram-webapp
// room: a time.AfterFunc stored on the room, which re-acquires the
// room lock and re-checks state before mutating anything.
package scheduler

import "time"

// Turns is the turn-order cursor embedded in every per-game room. It
// holds the insertion-ordered player list snapshotted at start and the
// cursor into it.
type Turns struct {
	Order  []string
	Cursor int
}

// BuildOrder snapshots player IDs (already in insertion order) into a
// fresh Turns at cursor 0.
func BuildOrder(playerIDs []string) Turns {
	order := make([]string, len(playerIDs))
	copy(order, playerIDs)
	return Turns{Order: order, Cursor: 0}
}

// Current returns the userId holding the turn, or ("", false) if there
// is no turn order.
func (t *Turns) Current() (string, bool) {
	if len(t.Order) == 0 {
		return "", false
	}
	i := t.Cursor % len(t.Order)
	if i < 0 {
		i += len(t.Order)
	}
	return t.Order[i], true
}

// Advance moves the cursor to the next player.
func (t *Turns) Advance() {
	if len(t.Order) == 0 {
		return
	}
	t.Cursor = (t.Cursor + 1) % len(t.Order)
}

// OnLeave removes userID from the order. If the leaver held the turn,
// or the cursor otherwise now points outside the shrunk order, the
// cursor is clamped into [0, len). It reports whether the order is now
// empty.
func (t *Turns) OnLeave(userID string) (empty bool) {
	if len(t.Order) == 0 {
		return true
	}

	leaverIdx := -1
	for i, id := range t.Order {
		if id == userID {
			leaverIdx = i
			break
		}
	}
	if leaverIdx == -1 {
		return len(t.Order) == 0
	}

	heldTurn := t.Cursor == leaverIdx

	next := make([]string, 0, len(t.Order)-1)
	for i, id := range t.Order {
		if i == leaverIdx {
			continue
		}
		next = append(next, id)
	}
	t.Order = next

	if len(t.Order) == 0 {
		t.Cursor = 0
		return true
	}

	switch {
	case heldTurn:
		if t.Cursor >= len(t.Order) {
			t.Cursor = 0
		}
	case leaverIdx < t.Cursor:
		t.Cursor--
	}

	if t.Cursor < 0 || t.Cursor >= len(t.Order) {
		t.Cursor = 0
	}

	return false
}

// Deadline wraps a cancelable deferred task. The zero value is a
// no-op, so a room's *Deadline field can start nil.
type Deadline struct {
	timer *time.Timer
}

// After schedules fn to run after d and returns a handle. Callers
// store the handle on the room and must, inside fn, re-acquire the
// room lock and compare the room's current handle against this one
// (by pointer identity) before mutating — a later operation may have
// superseded it.
func After(d time.Duration, fn func()) *Deadline {
	dl := &Deadline{}
	dl.timer = time.AfterFunc(d, fn)
	return dl
}

// Cancel stops the underlying timer. Safe to call on a nil Deadline.
func (d *Deadline) Cancel() {
	if d == nil || d.timer == nil {
		return
	}
	d.timer.Stop()
}
