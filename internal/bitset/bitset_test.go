package bitset

import "testing"

func TestBitvectorBasics(t *testing.T) {
	var v Bitvector
	v = v.Add(3).Add(5).Add(63)

	if !v.Contains(3) || !v.Contains(5) || !v.Contains(63) {
		t.Fatalf("expected 3, 5, 63 to be members of %064b", v)
	}
	if v.Contains(4) {
		t.Fatalf("4 should not be a member")
	}
	if v.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", v.Len())
	}

	v = v.Remove(5)
	if v.Contains(5) || v.Len() != 2 {
		t.Fatalf("Remove(5) failed: %064b", v)
	}
}

func TestBitvectorAscendingIteration(t *testing.T) {
	v := FromSlice([]uint8{40, 1, 7, 0, 63})
	var got []uint8
	v.ForEach(func(idx uint8) { got = append(got, idx) })

	want := []uint8{0, 1, 7, 40, 63}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestBitvectorSetOps(t *testing.T) {
	a := FromSlice([]uint8{1, 2, 3})
	b := FromSlice([]uint8{2, 3, 4})

	if u := a.Union(b); u.Len() != 4 {
		t.Fatalf("union len = %d, want 4", u.Len())
	}
	if d := a.Difference(b); d != FromSlice([]uint8{1}) {
		t.Fatalf("difference = %064b, want {1}", d)
	}
	if !FromSlice([]uint8{2, 3}).Subset(a) {
		t.Fatalf("{2,3} should be a subset of a")
	}
	if !a.IntersectAny(b) {
		t.Fatalf("a and b should intersect")
	}
}

func TestLazyBitboardUntouchedRowsAreFalse(t *testing.T) {
	var b LazyBitboard
	if b.Has(10, 20) {
		t.Fatalf("untouched cell should read false")
	}
	b.Set(10, 20)
	if !b.Has(10, 20) {
		t.Fatalf("set cell should read true")
	}
	if b.Has(11, 20) {
		t.Fatalf("neighboring untouched cell in a touched row should read false")
	}
	if b.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", b.Len())
	}
}

func TestLazyBitboardReset(t *testing.T) {
	var b LazyBitboard
	b.Set(0, 0)
	b.Set(63, 63)
	b.Reset()
	if b.Len() != 0 {
		t.Fatalf("Len() after Reset = %d, want 0", b.Len())
	}
	if b.Has(0, 0) || b.Has(63, 63) {
		t.Fatalf("Reset should clear all touched rows")
	}
}

func TestBitboardForEach(t *testing.T) {
	var b Bitboard
	b.Set(1, 1)
	b.Set(2, 1)
	b.Set(5, 40)

	count := 0
	for y := 0; y < MaxDim; y++ {
		for x := 0; x < MaxDim; x++ {
			if b.Has(x, y) {
				count++
			}
		}
	}
	if count != 3 {
		t.Fatalf("count = %d, want 3", count)
	}
}
