package rooms

import (
	"github.com/boardhall/boardhall/internal/identity"
	"github.com/boardhall/boardhall/internal/stream"
)

// Streamer is the subset of a per-game Coordinator's surface that
// doesn't vary by game (spec.md §4.9's subscribe operation), letting
// httpapi wire one generic SSE handler for all four games instead of
// four near-identical copies.
type Streamer interface {
	// CheckMembership validates that id may subscribe to the room
	// identified by code (the room exists and id is seated in it)
	// without attaching anything. The HTTP handler calls this before
	// committing the SSE response headers, so a room_not_found or
	// not_in_room failure can still be reported as a normal
	// {ok:false,error:<id>} envelope instead of crossing into the
	// event stream, spec.md §9: "No error crosses into the event
	// stream."
	CheckMembership(id identity.Identity, code string) error

	// Subscribe attaches sink to the room identified by code on behalf
	// of id, pushes the initial snapshot directly to it, and broadcasts
	// the presence change to every subscriber, the new one included. It
	// returns the subscriber
	// handle to pass back to Unsubscribe on transport close.
	Subscribe(id identity.Identity, code string, sink stream.Sink) (*stream.Subscriber, error)

	// Unsubscribe detaches sub from the room, decrements presence, and
	// broadcasts if the player's online flag changed.
	Unsubscribe(code string, sub *stream.Subscriber)
}
