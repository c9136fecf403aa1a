// Package httpapi is the JSON-over-HTTP surface of the Room
// Coordination Engine: request decoding, the {ok,error,...payload}
// envelope, identity resolution, error-kind to status mapping, route
// registration for the four games, and the SSE stream handler.
// Grounded on the teacher's web.go/html.go handler shape (one
// httprouter.Handle per route) generalized from HTML responses to a
// JSON envelope. These handlers set no security headers and do no
// logging; those stay with the root package's own handlers.
package httpapi

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/boardhall/boardhall/internal/apperr"
)

// MaxBodyBytes is the request body cap, spec.md §6: exceeding it
// yields body_too_large.
const MaxBodyBytes = 32 * 1024

// decodeBody reads r.Body capped at MaxBodyBytes and decodes it into
// dst. An empty body is treated as an empty JSON object, since several
// operations (join, leave, subscribe) carry no body at all.
func decodeBody(r *http.Request, dst any) error {
	limited := io.LimitReader(r.Body, MaxBodyBytes+1)
	raw, err := io.ReadAll(limited)
	if err != nil {
		return apperr.New(apperr.InvalidJSON)
	}
	if len(raw) > MaxBodyBytes {
		return apperr.New(apperr.BodyTooLarge)
	}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return apperr.New(apperr.InvalidJSON)
	}
	return nil
}

// statusFor maps an error Kind to its HTTP status, spec.md §7's
// propagation policy grouped by category.
func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.Unauthorized:
		return http.StatusUnauthorized
	case apperr.HostOnly, apperr.NotInRoom, apperr.NotYourTurn:
		return http.StatusForbidden
	case apperr.RoomNotFound:
		return http.StatusNotFound
	case apperr.BodyTooLarge:
		return http.StatusRequestEntityTooLarge
	case apperr.InvalidJSON, apperr.InvalidSize, apperr.InvalidDrawTimeoutSeconds,
		apperr.InvalidTooth, apperr.InvalidToothCountPerJaw, apperr.InvalidCardCount,
		apperr.InvalidIndex, apperr.InvalidNumber, apperr.UsernameLength:
		return http.StatusBadRequest
	case apperr.RoomCodeCollision:
		return http.StatusInternalServerError
	default:
		// not_playing, room_not_joinable, room_full, need_two_players,
		// no_players, number_already_called, already_selected,
		// already_matched, already_revealed, resolving, occupied,
		// player_not_ready: all are lock-checked state conflicts.
		return http.StatusConflict
	}
}

// writeOK sends {ok:true, ...payload}. payload may be nil.
func writeOK(w http.ResponseWriter, payload map[string]any) {
	if payload == nil {
		payload = map[string]any{}
	}
	payload["ok"] = true

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeErr sends {ok:false, error:<id>} at the status matching err's
// Kind. Any error not carrying a recognized Kind is treated as an
// internal error without leaking its message, per spec.md §7.
func writeErr(w http.ResponseWriter, err error) {
	kind, ok := apperr.As(err)
	status := http.StatusInternalServerError
	id := "internal"
	if ok {
		status = statusFor(kind)
		id = string(kind)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": id})
}
