// Package croc holds the pure bounds-checking helpers for the
// Crocodile-Tooth game (spec.md §4.6).
package croc

import "github.com/boardhall/boardhall/internal/randsrc"

// MinTeethPerJaw and MaxTeethPerJaw bound toothCountPerJaw, spec.md §3.
const (
	MinTeethPerJaw = 8
	MaxTeethPerJaw = 20
)

// ValidToothCountPerJaw reports whether n is in the configured range.
func ValidToothCountPerJaw(n int) bool {
	return n >= MinTeethPerJaw && n <= MaxTeethPerJaw
}

// TotalTeeth returns the full tooth range size for a jaw count.
func TotalTeeth(toothCountPerJaw int) int {
	return 2 * toothCountPerJaw
}

// ValidTooth reports whether tooth is a legal 1-based position for the
// given jaw count.
func ValidTooth(tooth, toothCountPerJaw int) bool {
	return tooth >= 1 && tooth <= TotalTeeth(toothCountPerJaw)
}

// RandomTrap draws a uniformly random trap position in [1, 2*toothCountPerJaw].
func RandomTrap(toothCountPerJaw int) int {
	return randsrc.IntN(TotalTeeth(toothCountPerJaw)) + 1
}

// FirstNonPicker returns the first entry in turnOrder that isn't
// pickerUserID, the spec.md §4.6 winner-selection rule ("picking the
// first in turnOrder that is not the picker is acceptable"). Returns
// ("", false) if no other player exists.
func FirstNonPicker(turnOrder []string, pickerUserID string) (string, bool) {
	for _, id := range turnOrder {
		if id != pickerUserID {
			return id, true
		}
	}
	return "", false
}
