package search

import "testing"

func TestTranspositionSkipRequiresShallowerOrEqualStoredDepth(t *testing.T) {
	tt := NewTransposition(1024)
	const hash = 0xDEADBEEFCAFEBABE

	if tt.Skip(hash, 5) {
		t.Fatalf("empty table should never report skip")
	}

	tt.Insert(hash, 5)
	if !tt.Skip(hash, 5) {
		t.Fatalf("depth 5 lookup against a stored depth 5 should skip")
	}
	if !tt.Skip(hash, 9) {
		t.Fatalf("deeper lookup (9) against a stored shallower depth (5) should skip")
	}
	if tt.Skip(hash, 2) {
		t.Fatalf("shallower lookup (2) against a stored deeper depth (5) should not skip")
	}
}

func TestTranspositionInsertKeepsShallowestDepth(t *testing.T) {
	tt := NewTransposition(1024)
	const hash = 0x1234

	tt.Insert(hash, 5)
	tt.Insert(hash, 8) // deeper: should not overwrite the shallower record
	if !tt.Skip(hash, 5) {
		t.Fatalf("shallowest inserted depth should still be in effect")
	}

	tt.Insert(hash, 2) // shallower: should overwrite
	if !tt.Skip(hash, 3) {
		t.Fatalf("stored depth should now be 2, so a depth-3 lookup must skip")
	}
	if !tt.Skip(hash, 2) {
		t.Fatalf("depth-2 lookup should skip once depth 2 is recorded")
	}
}

func TestTranspositionKeyVerificationRejectsCollidingIndex(t *testing.T) {
	tt := NewTransposition(1024) // mask = 1023

	// Two hashes that collide on the low bits but differ in the upper 32
	// (the stored key) must not be confused for one another.
	const a = uint64(0x0000000100000001)
	const b = uint64(0x0000000200000001)

	tt.Insert(a, 3)
	if tt.Skip(b, 10) {
		t.Fatalf("a different upper-key hash must not be treated as a hit")
	}
}

func TestTranspositionClearResetsAllEntries(t *testing.T) {
	tt := NewTransposition(1024)
	tt.Insert(0x42, 4)
	tt.Clear()
	if tt.Skip(0x42, 10) {
		t.Fatalf("cleared table should not report any skip")
	}
}

func TestTranspositionRoundsCapacityDownToPowerOfTwo(t *testing.T) {
	tt := NewTransposition(2000)
	if len(tt.entries) != 1024 {
		t.Fatalf("len(entries) = %d, want 1024", len(tt.entries))
	}
	tt = NewTransposition(10)
	if len(tt.entries) != 1024 {
		t.Fatalf("requesting below the 1024 floor should still yield 1024, got %d", len(tt.entries))
	}
}
