// Package bitset provides dense bit-set primitives used throughout the
// solver: a 64-index Bitvector for crate/position sets and a 64x64 Bitboard
// for cell-extent sets, with a lazily-initialized variant for sparse use.
package bitset

import "math/bits"

// Bitvector is a dense set over indices in [0, 64).
type Bitvector uint64

// Add returns the vector with idx inserted.
func (v Bitvector) Add(idx uint8) Bitvector {
	return v | (1 << idx)
}

// Remove returns the vector with idx removed.
func (v Bitvector) Remove(idx uint8) Bitvector {
	return v &^ (1 << idx)
}

// Contains reports whether idx is a member.
func (v Bitvector) Contains(idx uint8) bool {
	return v&(1<<idx) != 0
}

// Union returns v | o.
func (v Bitvector) Union(o Bitvector) Bitvector {
	return v | o
}

// Difference returns the members of v not in o.
func (v Bitvector) Difference(o Bitvector) Bitvector {
	return v &^ o
}

// Intersect returns v & o.
func (v Bitvector) Intersect(o Bitvector) Bitvector {
	return v & o
}

// Subset reports whether every member of v is also a member of o.
func (v Bitvector) Subset(o Bitvector) bool {
	return v&o == v
}

// IntersectAny reports whether v and o share any member.
func (v Bitvector) IntersectAny(o Bitvector) bool {
	return v&o != 0
}

// Len returns the population count.
func (v Bitvector) Len() int {
	return bits.OnesCount64(uint64(v))
}

// Empty reports whether the vector has no members.
func (v Bitvector) Empty() bool {
	return v == 0
}

// LowestSet returns the index of the lowest set bit and true, or (0, false)
// if the vector is empty.
func (v Bitvector) LowestSet() (uint8, bool) {
	if v == 0 {
		return 0, false
	}
	return uint8(bits.TrailingZeros64(uint64(v))), true
}

// PopLowest removes and returns the lowest set bit.
func (v *Bitvector) PopLowest() (uint8, bool) {
	idx, ok := v.LowestSet()
	if !ok {
		return 0, false
	}
	*v &^= 1 << idx
	return idx, true
}

// ForEach calls f for every member in ascending order.
func (v Bitvector) ForEach(f func(idx uint8)) {
	for v != 0 {
		idx, _ := v.PopLowest()
		f(idx)
	}
}

// Slice returns the members in ascending order.
func (v Bitvector) Slice() []uint8 {
	out := make([]uint8, 0, v.Len())
	v.ForEach(func(idx uint8) { out = append(out, idx) })
	return out
}

// FromSlice builds a Bitvector from a slice of indices.
func FromSlice(idxs []uint8) Bitvector {
	var v Bitvector
	for _, idx := range idxs {
		v = v.Add(idx)
	}
	return v
}
