package rng

import "testing"

func TestStreamDeterminism(t *testing.T) {
	a := NewStream(42, "combat")
	b := NewStream(42, "combat")
	for i := 0; i < 1000; i++ {
		if av, bv := a.Uint64(), b.Uint64(); av != bv {
			t.Fatalf("draw %d diverged: %d != %d", i, av, bv)
		}
	}
}

func TestStreamIndependence(t *testing.T) {
	a := NewStream(42, "combat")
	b := NewStream(42, "galaxy")
	same := 0
	for i := 0; i < 100; i++ {
		if a.Uint64() == b.Uint64() {
			same++
		}
	}
	if same > 0 {
		t.Errorf("streams with different labels collided %d times", same)
	}
}

func TestSeedSeparation(t *testing.T) {
	a := NewStream(1, "combat")
	b := NewStream(2, "combat")
	if a.Uint64() == b.Uint64() {
		t.Error("different seeds produced the same first draw")
	}
}

func TestFloat64Range(t *testing.T) {
	s := NewStream(7, "test")
	for i := 0; i < 10000; i++ {
		v := s.Float64()
		if v < 0 || v >= 1 {
			t.Fatalf("Float64() = %v outside [0,1)", v)
		}
	}
}

func TestIntnBounds(t *testing.T) {
	s := NewStream(7, "test")
	seen := make(map[int]bool)
	for i := 0; i < 1000; i++ {
		v := s.Intn(5)
		if v < 0 || v >= 5 {
			t.Fatalf("Intn(5) = %d", v)
		}
		seen[v] = true
	}
	if len(seen) != 5 {
		t.Errorf("Intn(5) covered %d values in 1000 draws", len(seen))
	}
}

func TestIntRangeInclusive(t *testing.T) {
	s := NewStream(9, "test")
	for i := 0; i < 1000; i++ {
		v := s.IntRange(2, 4)
		if v < 2 || v > 4 {
			t.Fatalf("IntRange(2,4) = %d", v)
		}
	}
	if v := s.IntRange(3, 3); v != 3 {
		t.Errorf("degenerate range = %d, want 3", v)
	}
}

func TestResume(t *testing.T) {
	a := NewStream(42, "combat")
	for i := 0; i < 10; i++ {
		a.Uint64()
	}
	pos := a.Pos()
	next := a.Uint64()

	b := NewStream(42, "combat")
	b.Resume(pos)
	if got := b.Uint64(); got != next {
		t.Errorf("resumed draw = %d, want %d", got, next)
	}
}
