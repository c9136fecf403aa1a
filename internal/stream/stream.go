// Package stream implements the event fan-out described in spec.md
// §4.3: a per-room set of subscriber sinks, best-effort broadcast of a
// serialized snapshot, and the SSE wire framing. It is grounded on the
// teacher's Hub broadcast loops (celebrity.go broadcastGameStateLocked
// et al., which iterate h.clients and silently drop clients whose send
// channel is full) generalized from a channel-based websocket push to
// a transport-agnostic Sink, and on the framing conventions in
// other_examples/grimsleydl-treacherest's sse_enhanced.go.
package stream

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// EventName is the sole application event this engine ever emits.
const EventName = "state"

// HeartbeatInterval matches spec.md §4.3's 25s cadence.
const HeartbeatInterval = 25 * time.Second

// Sink is a single subscriber's live connection. Write failures are
// swallowed by Subscribers.Broadcast: a broken sink is only ever
// removed through the transport-close hook (Subscribers.Remove),
// matching spec.md §4.3's "sinks that fail are silently retained."
type Sink interface {
	Write(event string, payload []byte) error
}

// Subscriber pairs a Sink with the userId it was opened for, so a
// coordinator can target a single subscriber (e.g. the initial push on
// subscribe) without broadcasting.
type Subscriber struct {
	UserID string
	Sink   Sink
}

// Subscribers is the per-room set of live event sinks.
type Subscribers struct {
	mu  sync.Mutex
	set map[*Subscriber]struct{}
}

// NewSubscribers constructs an empty subscriber set.
func NewSubscribers() *Subscribers {
	return &Subscribers{set: make(map[*Subscriber]struct{})}
}

// Add attaches a subscriber.
func (s *Subscribers) Add(sub *Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.set[sub] = struct{}{}
}

// Remove detaches a subscriber. Safe to call more than once.
func (s *Subscribers) Remove(sub *Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.set, sub)
}

// Len reports the number of live subscribers.
func (s *Subscribers) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.set)
}

// snapshot copies the subscriber set so Broadcast never iterates the
// live map while holding its lock (spec.md §9: "broadcasts iterate a
// copy of the subscriber set to avoid reentrancy").
func (s *Subscribers) snapshot() []*Subscriber {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Subscriber, 0, len(s.set))
	for sub := range s.set {
		out = append(out, sub)
	}
	return out
}

// Broadcast serializes snapshot once and best-effort writes it to
// every subscriber. Write errors are ignored: a broken transport is
// reaped by its own close hook, not by the broadcaster.
func (s *Subscribers) Broadcast(snapshot any) {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return
	}

	for _, sub := range s.snapshot() {
		_ = sub.Sink.Write(EventName, payload)
	}
}

// EncodeFrame renders one SSE `event: ...\ndata: ...\n\n` frame.
func EncodeFrame(event string, payload []byte) []byte {
	return fmt.Appendf(nil, "event: %s\ndata: %s\n\n", event, payload)
}

// EncodeHeartbeat renders a comment heartbeat frame, timestamped in
// the same ISO-8601 form used elsewhere in this engine.
func EncodeHeartbeat(now time.Time) []byte {
	return fmt.Appendf(nil, ": heartbeat %s\n\n", now.UTC().Format(time.RFC3339))
}
