package game

import (
	"sort"

	"github.com/sokosolve/sokosolve/internal/bitset"
)

// sortPushes orders a push list by ascending (direction, crate-index), the
// deterministic tie-break spec 5 requires.
func sortPushes(pushes []Push) {
	sort.Slice(pushes, func(i, j int) bool {
		if pushes[i].Dir != pushes[j].Dir {
			return pushes[i].Dir < pushes[j].Dir
		}
		return pushes[i].Crate < pushes[j].Crate
	})
}

// pushesFromReachable scans every cell in a reachable closure for adjacent
// crates whose forward push is legal.
func (g *Game) pushesFromReachable(r *Reachable) []Push {
	var pushes []Push
	r.ForEach(func(x, y int) {
		for _, d := range AllDirections {
			dx, dy := d.Delta()
			crateX, crateY := x+dx, y+dy
			ci, occupied := g.CrateAt(crateX, crateY)
			if !occupied {
				continue
			}
			destX, destY := crateX+dx, crateY+dy
			if !g.Terrain.InBounds(destX, destY) || g.Terrain.IsWall(destX, destY) {
				continue
			}
			if _, destOccupied := g.CrateAt(destX, destY); destOccupied {
				continue
			}
			pushes = append(pushes, Push{Crate: ci, Dir: d})
		}
	})
	return pushes
}

// pullsFromReachable scans every cell in a reachable closure for adjacent
// crates whose pull (the inverse of a forward push in the same direction)
// is legal. A returned Push p is replayed with UndoPush(p); ApplyPush(p)
// reverses it, exactly the push/pull symmetry in the GLOSSARY.
func (g *Game) pullsFromReachable(r *Reachable) []Push {
	var pulls []Push
	r.ForEach(func(x, y int) {
		for _, d := range AllDirections {
			dx, dy := d.Delta()
			crateX, crateY := x+dx, y+dy
			ci, occupied := g.CrateAt(crateX, crateY)
			if !occupied {
				continue
			}
			newPusherX, newPusherY := x-dx, y-dy
			if !g.Terrain.InBounds(newPusherX, newPusherY) || g.Terrain.IsWall(newPusherX, newPusherY) {
				continue
			}
			if _, blocked := g.CrateAt(newPusherX, newPusherY); blocked {
				continue
			}
			pulls = append(pulls, Push{Crate: ci, Dir: d})
		}
	})
	return pulls
}

// ComputeForwardSuccessors returns every currently-legal push, ordered by
// ascending (direction, crate-index), and canonicalizes the pusher position
// to the lexicographically smallest reachable cell (spec 4.C). If the state
// is already solved, the pusher becomes unknown and no pushes are returned.
func (g *Game) ComputeForwardSuccessors() []Push {
	if g.IsSolved() {
		g.setPusherUnknown()
		return nil
	}
	r := g.CurrentReachable()
	pushes := g.pushesFromReachable(r)
	sortPushes(pushes)
	if cx, cy, ok := canonicalOf(r); ok {
		g.setPusher(cx, cy)
	}
	return pushes
}

// ComputeBackwardSuccessors returns every currently-legal pull (spec 4.C),
// used by backward search. When the pusher is unknown — only permitted at
// the solved root — it unions pulls over every connected component of
// non-wall, non-crate cells and leaves the canonical pusher unknown.
func (g *Game) ComputeBackwardSuccessors() []Push {
	if !g.pusherKnown {
		return g.computeBackwardFromUnknownPusher()
	}
	r := g.CurrentReachable()
	pulls := g.pullsFromReachable(r)
	sortPushes(pulls)
	if cx, cy, ok := canonicalOf(r); ok {
		g.setPusher(cx, cy)
	}
	return pulls
}

func (g *Game) computeBackwardFromUnknownPusher() []Push {
	var pulls []Push
	var visited bitset.LazyBitboard
	for y := 0; y < g.Terrain.Height; y++ {
		for x := 0; x < g.Terrain.Width; x++ {
			if visited.Has(x, y) || g.Terrain.IsWall(x, y) {
				continue
			}
			if _, occupied := g.CrateAt(x, y); occupied {
				continue
			}
			r := g.floodFrom(x, y)
			r.ForEach(func(fx, fy int) { visited.Set(fx, fy) })
			pulls = append(pulls, g.pullsFromReachable(r)...)
		}
	}
	sortPushes(pulls)
	return pulls
}
