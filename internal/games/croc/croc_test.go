package croc

import "testing"

func TestValidToothCountPerJaw(t *testing.T) {
	if ValidToothCountPerJaw(7) || ValidToothCountPerJaw(21) {
		t.Fatal("expected out-of-range counts to be invalid")
	}
	if !ValidToothCountPerJaw(8) || !ValidToothCountPerJaw(20) {
		t.Fatal("expected boundary counts to be valid")
	}
}

func TestValidTooth(t *testing.T) {
	if !ValidTooth(1, 10) || !ValidTooth(20, 10) {
		t.Fatal("expected boundary teeth to be valid")
	}
	if ValidTooth(0, 10) || ValidTooth(21, 10) {
		t.Fatal("expected out-of-range teeth to be invalid")
	}
}

func TestRandomTrapInRange(t *testing.T) {
	for i := 0; i < 100; i++ {
		trap := RandomTrap(10)
		if !ValidTooth(trap, 10) {
			t.Fatalf("trap %d out of range", trap)
		}
	}
}

func TestFirstNonPicker(t *testing.T) {
	order := []string{"a", "b", "c"}

	winner, ok := FirstNonPicker(order, "a")
	if !ok || winner != "b" {
		t.Fatalf("expected b, got %q ok=%v", winner, ok)
	}

	winner, ok = FirstNonPicker(order, "b")
	if !ok || winner != "a" {
		t.Fatalf("expected a, got %q ok=%v", winner, ok)
	}

	_, ok = FirstNonPicker([]string{"solo"}, "solo")
	if ok {
		t.Fatal("expected no non-picker in a solo order")
	}
}
