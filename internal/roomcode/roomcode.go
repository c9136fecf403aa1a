// Package roomcode allocates the 6-character room codes shared by all
// four game registries. Grounded on the teacher's newGameID
// (celebrity.go GameManager.newGameID): draw, check the namespace for
// a collision, retry. The teacher retries forever; spec.md §4.1 caps
// retries at 10 and surfaces a distinct error kind, so that cap is
// made explicit here instead.
package roomcode

import (
	"errors"
	"strings"

	"github.com/boardhall/boardhall/internal/randsrc"
)

// Alphabet excludes the visually ambiguous glyphs 0/O/1/I, per
// spec.md §4.1.
const Alphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

// Length is the fixed code length.
const Length = 6

// maxAttempts bounds the collision-retry loop.
const maxAttempts = 10

// ErrCollision is returned when no unique code could be drawn within
// maxAttempts tries.
var ErrCollision = errors.New("room_code_collision")

// Exists reports whether a (canonicalized) code is already present in
// a registry's namespace.
type Exists func(code string) bool

// Canonical upper-cases a caller-supplied code so lookups are
// case-insensitive, per spec.md §4.1.
func Canonical(code string) string {
	return strings.ToUpper(code)
}

func draw() string {
	b := make([]byte, Length)
	for i := range b {
		b[i] = Alphabet[randsrc.IntN(len(Alphabet))]
	}
	return string(b)
}

// Allocate draws a code from Alphabet, retrying on collision within a
// single namespace up to maxAttempts times.
func Allocate(exists Exists) (string, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		code := draw()
		if !exists(code) {
			return code, nil
		}
	}
	return "", ErrCollision
}
