package game

import "github.com/sokosolve/sokosolve/internal/bitset"

// Reachable is the pusher's terrain-reachable closure through empty cells
// for the current crate layout (spec 3, Bitvector/Bitboard; GLOSSARY
// "Reachable closure"). Crates block the flood; walls always block it.
type Reachable struct {
	cells bitset.LazyBitboard
}

// Has reports whether (x, y) is in the reachable closure.
func (r *Reachable) Has(x, y int) bool {
	return r.cells.Has(x, y)
}

// ForEach visits every cell in the closure.
func (r *Reachable) ForEach(f func(x, y int)) {
	r.cells.ForEach(f)
}

// floodFrom computes the reachable closure from (startX, startY) over cells
// that are non-wall and not occupied by a visible crate.
func (g *Game) floodFrom(startX, startY int) *Reachable {
	r := &Reachable{}
	if g.Terrain.IsWall(startX, startY) {
		return r
	}
	if _, occupied := g.CrateAt(startX, startY); occupied {
		return r
	}

	type cell struct{ x, y int }
	queue := []cell{{startX, startY}}
	r.cells.Set(startX, startY)

	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		for _, d := range AllDirections {
			dx, dy := d.Delta()
			nx, ny := c.x+dx, c.y+dy
			if !g.Terrain.InBounds(nx, ny) || g.Terrain.IsWall(nx, ny) {
				continue
			}
			if r.cells.Has(nx, ny) {
				continue
			}
			if _, occupied := g.CrateAt(nx, ny); occupied {
				continue
			}
			r.cells.Set(nx, ny)
			queue = append(queue, cell{nx, ny})
		}
	}
	return r
}

// CurrentReachable returns the reachable closure from the current known
// pusher position. Panics if the pusher is unknown; callers must check
// Pusher()'s known flag first.
func (g *Game) CurrentReachable() *Reachable {
	if !g.pusherKnown {
		panic("game: CurrentReachable: pusher position is unknown")
	}
	return g.floodFrom(g.pusherX, g.pusherY)
}

// canonicalOf returns the lexicographically smallest (x, y) in the closure
// (GLOSSARY, "Canonical pusher"): compared by x first, then y.
func canonicalOf(r *Reachable) (x, y int, ok bool) {
	best := [2]int{1 << 30, 1 << 30}
	found := false
	r.ForEach(func(cx, cy int) {
		if !found || cx < best[0] || (cx == best[0] && cy < best[1]) {
			best = [2]int{cx, cy}
			found = true
		}
	})
	return best[0], best[1], found
}
