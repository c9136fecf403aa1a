// Package apperr carries the stable error-kind identifiers spec.md §7
// enumerates, so every layer of the engine (rule engines, coordinators,
// HTTP handlers) returns the same vocabulary the wire contract
// promises. The teacher's errors.go centralized one kind of failure
// (rendering an HTML error page); this generalizes that idea to an
// enumerated kind carried on a normal Go error.
package apperr

import "errors"

// Kind is one of the stable identifiers from spec.md §7.
type Kind string

const (
	// Validation
	InvalidJSON               Kind = "invalid_json"
	BodyTooLarge              Kind = "body_too_large"
	InvalidSize               Kind = "invalid_size"
	InvalidDrawTimeoutSeconds Kind = "invalid_draw_timeout_seconds"
	InvalidTooth              Kind = "invalid_tooth"
	InvalidToothCountPerJaw   Kind = "invalid_tooth_count_per_jaw"
	InvalidCardCount          Kind = "invalid_card_count"
	InvalidIndex              Kind = "invalid_index"
	InvalidNumber             Kind = "invalid_number"
	UsernameLength            Kind = "username_length"

	// Authorization
	Unauthorized Kind = "unauthorized"
	HostOnly     Kind = "host_only"
	NotInRoom    Kind = "not_in_room"
	NotYourTurn  Kind = "not_your_turn"

	// State
	NotPlaying           Kind = "not_playing"
	RoomNotJoinable      Kind = "room_not_joinable"
	RoomFull             Kind = "room_full"
	NeedTwoPlayers       Kind = "need_two_players"
	NoPlayers            Kind = "no_players"
	NumberAlreadyCalled  Kind = "number_already_called"
	AlreadySelected      Kind = "already_selected"
	AlreadyMatched       Kind = "already_matched"
	AlreadyRevealed      Kind = "already_revealed"
	Resolving            Kind = "resolving"
	Occupied             Kind = "occupied"
	PlayerNotReady       Kind = "player_not_ready"

	// Not-found
	RoomNotFound Kind = "room_not_found"

	// Internal
	RoomCodeCollision Kind = "room_code_collision"
)

// Error wraps a Kind as a Go error.
type Error struct {
	Kind Kind
}

func (e *Error) Error() string {
	return string(e.Kind)
}

// New builds an *Error for a Kind.
func New(kind Kind) error {
	return &Error{Kind: kind}
}

// As extracts the Kind from err, if any error in its chain is an
// *Error from this package.
func As(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// Is reports whether err carries the given Kind.
func Is(err error, kind Kind) bool {
	k, ok := As(err)
	return ok && k == kind
}
