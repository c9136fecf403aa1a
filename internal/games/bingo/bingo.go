// Package bingo holds the pure, transport-free math for the Bingo
// game (spec.md §4.5): board generation and line counting. Room
// lifecycle, turn scheduling, and the bot timer live in
// internal/rooms, which calls into this package the way the teacher's
// Hub methods call small pure helpers like randomGameID — the part
// that has no business touching a mutex gets its own testable unit.
package bingo

import "github.com/boardhall/boardhall/internal/randsrc"

// TargetLines is the fixed win threshold, spec.md §4.5.
const TargetLines = 5

// MinSize and MaxSize bound the configurable board size, spec.md §3.
const (
	MinSize = 5
	MaxSize = 10
)

// ValidDrawTimeouts enumerates the only accepted client-hint values for
// drawTimeoutSeconds (spec.md §3).
var ValidDrawTimeouts = []int{3, 5, 7, 10, 15, 20}

// Board is a row-major size x size matrix of distinct numbers 1..size^2.
type Board [][]int

// GenerateBoard shuffles 1..size^2 and reshapes it into a size x size
// row-major matrix, per spec.md §4.5.
func GenerateBoard(size int) Board {
	cells := size * size
	values := make([]int, cells)
	for i := range values {
		values[i] = i + 1
	}
	randsrc.Shuffle(len(values), func(i, j int) { values[i], values[j] = values[j], values[i] })

	board := make(Board, size)
	for r := 0; r < size; r++ {
		row := make([]int, size)
		copy(row, values[r*size:(r+1)*size])
		board[r] = row
	}
	return board
}

// Flatten returns the board's cells in row-major order, used to check
// the "permutation of 1..size^2" invariant.
func (b Board) Flatten() []int {
	out := make([]int, 0, len(b)*len(b))
	for _, row := range b {
		out = append(out, row...)
	}
	return out
}

// CountLines counts complete rows, columns, and both main diagonals
// whose every cell is in called, per spec.md §4.5.
func (b Board) CountLines(called map[int]bool) int {
	size := len(b)
	if size == 0 {
		return 0
	}

	lines := 0

	for r := 0; r < size; r++ {
		complete := true
		for c := 0; c < size; c++ {
			if !called[b[r][c]] {
				complete = false
				break
			}
		}
		if complete {
			lines++
		}
	}

	for c := 0; c < size; c++ {
		complete := true
		for r := 0; r < size; r++ {
			if !called[b[r][c]] {
				complete = false
				break
			}
		}
		if complete {
			lines++
		}
	}

	diag1 := true
	diag2 := true
	for i := 0; i < size; i++ {
		if !called[b[i][i]] {
			diag1 = false
		}
		if !called[b[i][size-1-i]] {
			diag2 = false
		}
	}
	if diag1 {
		lines++
	}
	if diag2 {
		lines++
	}

	return lines
}

// ValidSize reports whether size is in [MinSize, MaxSize].
func ValidSize(size int) bool {
	return size >= MinSize && size <= MaxSize
}

// ValidDrawTimeout reports whether seconds is one of the enumerated
// client-hint values.
func ValidDrawTimeout(seconds int) bool {
	for _, v := range ValidDrawTimeouts {
		if v == seconds {
			return true
		}
	}
	return false
}
