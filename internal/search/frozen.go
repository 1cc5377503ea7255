package search

import (
	"github.com/sokosolve/sokosolve/internal/bitset"
	"github.com/sokosolve/sokosolve/internal/game"
)

// FrozenDetector maintains the persistent set of crates proven frozen along
// the current recursion path (spec 4.G). A crate is frozen once it is
// axis-blocked on both axes, where axis-blocked tolerates provisionally
// co-classified neighbor crates in the same DFS group.
type FrozenDetector struct {
	g      *game.Game
	frozen bitset.Bitvector
}

// NewFrozenDetector builds an empty detector bound to g.
func NewFrozenDetector(g *game.Game) *FrozenDetector {
	return &FrozenDetector{g: g}
}

// Frozen reports whether crate idx is currently in the frozen set.
func (f *FrozenDetector) Frozen(idx int) bool {
	return f.frozen.Contains(uint8(idx))
}

// ClearFrozen removes every crate in group from the frozen set, as required
// when undoing the push that created the group (spec 4.G).
func (f *FrozenDetector) ClearFrozen(group bitset.Bitvector) {
	f.frozen = f.frozen.Difference(group)
}

// Hash returns the XOR of box_hash over the frozen set, folded into the
// driver's transposition key (spec 4.G). zt supplies the per-cell box hash.
func (f *FrozenDetector) Hash(zt func(x, y int) uint64) uint64 {
	var h uint64
	f.frozen.ForEach(func(idx uint8) {
		x, y := f.g.CratePos(int(idx))
		h ^= zt(x, y)
	})
	return h
}

// DetectFromCrate runs the co-inductive frozen test starting at crate idx
// (the crate just moved by the most recent push), per spec 4.G. It returns
// the newly-classified-frozen group (empty if the group failed the test or
// idx was already frozen) and whether that group proves a deadlock — a
// frozen group is a deadlock iff at least one member does not sit on a goal.
func (f *FrozenDetector) DetectFromCrate(idx int) (group bitset.Bitvector, deadlock bool) {
	if f.Frozen(idx) {
		return 0, false
	}

	order := f.postOrder(idx)
	provisional := f.frozen
	for _, c := range order {
		provisional = provisional.Add(uint8(c))
	}

	// Test in reverse post-order (the start crate first): a crate passes
	// only if axis-blocked against the already-frozen set plus the whole
	// group assumed frozen (co-induction), so the result does not depend on
	// the order. One failing crate rejects the group.
	accepted := f.frozen
	for i := len(order) - 1; i >= 0; i-- {
		c := order[i]
		if !f.axisBlocked(c, accepted.Union(provisional)) {
			return 0, false
		}
		accepted = accepted.Add(uint8(c))
	}

	group = accepted.Difference(f.frozen)
	f.frozen = accepted

	allOnGoal := true
	group.ForEach(func(c uint8) {
		x, y := f.g.CratePos(int(c))
		if !f.g.Terrain.IsGoal(x, y) {
			allOnGoal = false
		}
	})
	return group, !allOnGoal
}

// postOrder does a DFS over 4-adjacent crate neighbors starting at idx,
// producing a post-order sequence (spec 4.G).
func (f *FrozenDetector) postOrder(start int) []int {
	var order []int
	visited := bitset.Bitvector(0).Add(uint8(start))
	var visit func(c int)
	visit = func(c int) {
		x, y := f.g.CratePos(c)
		for _, d := range game.AllDirections {
			dx, dy := d.Delta()
			nx, ny := x+dx, y+dy
			nc, occupied := f.g.CrateAt(nx, ny)
			if !occupied || visited.Contains(uint8(nc)) {
				continue
			}
			visited = visited.Add(uint8(nc))
			visit(nc)
		}
		order = append(order, c)
	}
	visit(start)
	return order
}

// axisBlocked reports whether crate c is blocked on both the horizontal and
// vertical axis, where a blocked axis has a wall, out-of-bounds cell, or a
// member of consider (already-frozen or provisionally-frozen) on at least
// one of its two sides (spec 4.G).
func (f *FrozenDetector) axisBlocked(c int, consider bitset.Bitvector) bool {
	x, y := f.g.CratePos(c)
	horiz := f.sideBlocked(x-1, y, consider) || f.sideBlocked(x+1, y, consider)
	vert := f.sideBlocked(x, y-1, consider) || f.sideBlocked(x, y+1, consider)
	return horiz && vert
}

func (f *FrozenDetector) sideBlocked(x, y int, consider bitset.Bitvector) bool {
	if !f.g.Terrain.InBounds(x, y) || f.g.Terrain.IsWall(x, y) {
		return true
	}
	if nc, occupied := f.g.CrateAt(x, y); occupied {
		return consider.Contains(uint8(nc))
	}
	return false
}

// NoOpFrozenDetector is the backward-search frozen detector named in spec
// 4.G: pulls never freeze anything into permanent deadlock, so it always
// reports no group and no deadlock.
type NoOpFrozenDetector struct{}

func (NoOpFrozenDetector) DetectFromCrate(int) (bitset.Bitvector, bool) { return 0, false }
func (NoOpFrozenDetector) ClearFrozen(bitset.Bitvector)                 {}
func (NoOpFrozenDetector) Hash(func(x, y int) uint64) uint64            { return 0 }
