package bingo

import "testing"

func TestGenerateBoardIsPermutation(t *testing.T) {
	for _, size := range []int{MinSize, 7, MaxSize} {
		board := GenerateBoard(size)
		if len(board) != size {
			t.Fatalf("size %d: got %d rows", size, len(board))
		}

		seen := make(map[int]bool)
		for _, v := range board.Flatten() {
			if v < 1 || v > size*size {
				t.Fatalf("size %d: value %d out of range", size, v)
			}
			if seen[v] {
				t.Fatalf("size %d: duplicate value %d", size, v)
			}
			seen[v] = true
		}
		if len(seen) != size*size {
			t.Fatalf("size %d: expected %d distinct values, got %d", size, size*size, len(seen))
		}
	}
}

func TestCountLinesRow(t *testing.T) {
	board := Board{
		{1, 2, 3, 4, 5},
		{6, 7, 8, 9, 10},
		{11, 12, 13, 14, 15},
		{16, 17, 18, 19, 20},
		{21, 22, 23, 24, 25},
	}

	called := map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true}
	if got := board.CountLines(called); got != 1 {
		t.Fatalf("expected 1 line, got %d", got)
	}
}

func TestCountLinesDiagonal(t *testing.T) {
	board := Board{
		{1, 2, 3},
		{4, 5, 6},
		{7, 8, 9},
	}

	called := map[int]bool{1: true, 5: true, 9: true}
	if got := board.CountLines(called); got != 1 {
		t.Fatalf("expected 1 diagonal line, got %d", got)
	}

	called2 := map[int]bool{3: true, 5: true, 7: true}
	if got := board.CountLines(called2); got != 1 {
		t.Fatalf("expected 1 anti-diagonal line, got %d", got)
	}
}

func TestValidDrawTimeout(t *testing.T) {
	for _, v := range ValidDrawTimeouts {
		if !ValidDrawTimeout(v) {
			t.Fatalf("expected %d to be valid", v)
		}
	}
	if ValidDrawTimeout(4) {
		t.Fatal("expected 4 to be invalid")
	}
}

func TestValidSize(t *testing.T) {
	if ValidSize(4) || ValidSize(11) {
		t.Fatal("expected out-of-range sizes to be invalid")
	}
	if !ValidSize(5) || !ValidSize(10) {
		t.Fatal("expected boundary sizes to be valid")
	}
}
