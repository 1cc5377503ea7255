// Package search implements the components the driver integrates (spec
// 4.D-4.I): the transposition table, the heuristic lower bound, the frozen
// crate detector, the corral analyzer and its bounded deadlock mini-search,
// and the iterative-deepening driver itself.
package search

// TTEntry is the transposition table's stored value: the minimum depth at
// which a state has been proven not to lead to a solution within the
// remaining budget (spec 3, Transposition Entry; spec 4.D).
type TTEntry struct {
	key   uint32 // upper 32 bits of the Zobrist hash, for collision checks
	depth int
	used  bool
}

// Transposition is the search's per-iteration transposition table. It is
// cleared between iterative-deepening iterations (spec 4.D), grounded on
// the teacher's TranspositionTable probe/store/clear shape but storing a
// minimum-refuted-depth instead of a scored move.
type Transposition struct {
	entries []TTEntry
	mask    uint64
}

// NewTransposition allocates a table with numEntries rounded down to a
// power of two (at least 1024).
func NewTransposition(numEntries int) *Transposition {
	n := roundDownPow2(numEntries)
	if n < 1024 {
		n = 1024
	}
	return &Transposition{
		entries: make([]TTEntry, n),
		mask:    uint64(n - 1),
	}
}

func roundDownPow2(n int) int {
	if n <= 0 {
		return 1
	}
	p := 1
	for p*2 <= n {
		p *= 2
	}
	return p
}

// Skip reports whether a state at this hash, searched to the given depth,
// is redundant: a stored depth d' <= d means any deeper re-exploration
// within the same remaining budget was already exhausted (spec 4.D).
func (tt *Transposition) Skip(hash uint64, depth int) bool {
	idx := hash & tt.mask
	e := &tt.entries[idx]
	if !e.used || e.key != uint32(hash>>32) {
		return false
	}
	return e.depth <= depth
}

// Insert records that hash has been explored to depth. Matches the
// teacher's replace-if-not-shallower policy: only a strictly smaller
// recorded depth is preserved, since a smaller depth proves a stronger
// (more redundant) skip condition.
func (tt *Transposition) Insert(hash uint64, depth int) {
	idx := hash & tt.mask
	e := &tt.entries[idx]
	key := uint32(hash >> 32)
	if e.used && e.key == key && e.depth <= depth {
		return
	}
	e.key = key
	e.depth = depth
	e.used = true
}

// Clear empties the table, as required between IDA*/IDDFS iterations.
func (tt *Transposition) Clear() {
	for i := range tt.entries {
		tt.entries[i] = TTEntry{}
	}
}
