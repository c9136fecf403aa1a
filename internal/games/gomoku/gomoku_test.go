package gomoku

import "testing"

func newBoard() []Stone {
	return make([]Stone, Cells)
}

func TestHasFiveInARowHorizontal(t *testing.T) {
	board := newBoard()
	for _, idx := range []int{112, 113, 114, 115} {
		board[idx] = Black
	}
	if HasFiveInARow(board, 114, Black) {
		t.Fatal("expected only four in a row so far")
	}
	board[116] = Black
	if !HasFiveInARow(board, 116, Black) {
		t.Fatal("expected five in a row on placing 116")
	}
}

func TestHasFiveInARowDiagonal(t *testing.T) {
	board := newBoard()
	idxs := []int{}
	for i := 0; i < 5; i++ {
		idxs = append(idxs, Index(i, i))
	}
	for _, idx := range idxs[:4] {
		board[idx] = White
	}
	last := idxs[4]
	board[last] = White
	if !HasFiveInARow(board, last, White) {
		t.Fatal("expected diagonal five in a row")
	}
}

func TestHasFiveInARowNoFalsePositive(t *testing.T) {
	board := newBoard()
	board[Index(7, 7)] = Black
	board[Index(7, 8)] = White
	if HasFiveInARow(board, Index(7, 7), Black) {
		t.Fatal("expected no five in a row with a single stone")
	}
}

func TestBoardFull(t *testing.T) {
	board := newBoard()
	if BoardFull(board) {
		t.Fatal("expected empty board to not be full")
	}
	for i := range board {
		board[i] = Black
	}
	if !BoardFull(board) {
		t.Fatal("expected fully filled board to be full")
	}
}

func TestIndexRowColRoundTrip(t *testing.T) {
	for i := 0; i < Cells; i++ {
		r, c := RowCol(i)
		if Index(r, c) != i {
			t.Fatalf("round trip failed for index %d", i)
		}
	}
	if Index(-1, 0) != -1 || Index(BoardSize, 0) != -1 {
		t.Fatal("expected out-of-bounds indices to return -1")
	}
}
