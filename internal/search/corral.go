package search

import (
	"github.com/dgraph-io/ristretto/v2"

	"github.com/sokosolve/sokosolve/internal/bitset"
	"github.com/sokosolve/sokosolve/internal/game"
)

// DeadlockVerdict is the corral mini-search's internal outcome (spec 7).
type DeadlockVerdict int

const (
	VerdictOk DeadlockVerdict = iota
	VerdictDeadlocked
	VerdictCutOff
)

// Verdict is the corral analyzer's per-node pruning decision (spec 4.I
// step 4): the node is a proven deadlock, its successors should be narrowed
// to a PI-corral's inward pushes, or no pruning information is available.
type Verdict struct {
	Kind   VerdictKind
	Pushes []game.Push // only set for VerdictPrune
}

type VerdictKind int

const (
	VerdictNone VerdictKind = iota
	VerdictDeadlockedNode
	VerdictPrune
)

// Corral is one discovered pocket of pusher-unreachable cells (spec 4.H).
type Corral struct {
	extent bitset.LazyBitboard
	boxes  bitset.Bitvector
}

// Analyzer runs corral discovery and the bounded deadlock mini-search
// (spec 4.H), grounded on the driver's transposition/heuristic split: a
// per-search table cleared on every mini-search invocation, and a
// ristretto-backed persistent table amortizing verdicts across the whole
// outer solve.
type Analyzer struct {
	h             *Heuristic
	maxNodes      int
	persistent    *ristretto.Cache[uint64, DeadlockVerdict]
	perSearch     map[uint64]int // hash -> depth recorded this mini-search
	nodesExplored int
}

// NewAnalyzer builds an Analyzer. maxNodesExplored bounds each mini-search
// invocation (spec 4.H, "max_nodes_explored").
func NewAnalyzer(h *Heuristic, maxNodesExplored int) *Analyzer {
	cache, err := ristretto.NewCache(&ristretto.Config[uint64, DeadlockVerdict]{
		NumCounters: 1e6,
		MaxCost:     1 << 16,
		BufferItems: 64,
	})
	if err != nil {
		// ristretto.NewCache only fails on invalid config constants, which
		// are fixed above; a failure here is a programmer error.
		panic("search: NewAnalyzer: ristretto config rejected: " + err.Error())
	}
	return &Analyzer{h: h, maxNodes: maxNodesExplored, persistent: cache}
}

// Analyze runs corral discovery against the current reachable closure r and
// returns the driver's pruning decision (spec 4.H Pruning semantics). It may
// discover and mini-search several corrals; the first proven deadlock wins,
// otherwise the smallest-inward-push-set PI-corral is chosen.
func (a *Analyzer) Analyze(g *game.Game, r *game.Reachable) Verdict {
	corrals := a.discoverCorrals(g, r)
	var best *Corral
	var bestPushes []game.Push

	for _, c := range corrals {
		i, p, inward := a.classifyCorral(g, c, r)
		if i {
			if a.isDeadlocked(g, c) {
				return Verdict{Kind: VerdictDeadlockedNode}
			}
		}
		if i && p {
			if best == nil || len(inward) < len(bestPushes) {
				cc := c
				best = &cc
				bestPushes = inward
			}
		}
	}
	if best != nil {
		return Verdict{Kind: VerdictPrune, Pushes: bestPushes}
	}
	return Verdict{Kind: VerdictNone}
}

// discoverCorrals finds every maximal pocket of cells outside the reachable
// closure that borders a crate the pusher could currently push (spec 4.H).
func (a *Analyzer) discoverCorrals(g *game.Game, r *game.Reachable) []Corral {
	pushable := pushableCrateSeeds(g, r)
	if pushable.Empty() {
		return nil
	}

	var seeds []int // cell = y*width+x
	width := g.Terrain.Width
	var visitedSeed bitset.LazyBitboard

	pushable.ForEach(func(ci uint8) {
		cx, cy := g.CratePos(int(ci))
		for _, d := range game.AllDirections {
			dx, dy := d.Delta()
			nx, ny := cx+dx, cy+dy
			if !g.Terrain.InBounds(nx, ny) || g.Terrain.IsWall(nx, ny) {
				continue
			}
			if r.Has(nx, ny) {
				continue
			}
			if _, occupied := g.CrateAt(nx, ny); occupied {
				continue
			}
			seeds = append(seeds, ny*width+nx)
		}
	})

	var corrals []Corral
	for _, s := range seeds {
		sx, sy := s%width, s/width
		if visitedSeed.Has(sx, sy) {
			continue
		}
		c := a.floodCorral(g, sx, sy, r)
		c.extent.ForEach(func(x, y int) { visitedSeed.Set(x, y) })
		if a.isTrivial(g, c) {
			continue
		}
		corrals = append(corrals, c)
	}
	return corrals
}

// pushableCrateSeeds returns the crates that compute_forward_successors
// would currently push (spec 4.H's "a crate the pusher could push").
func pushableCrateSeeds(g *game.Game, r *game.Reachable) bitset.Bitvector {
	var out bitset.Bitvector
	r.ForEach(func(x, y int) {
		for _, d := range game.AllDirections {
			dx, dy := d.Delta()
			ci, occupied := g.CrateAt(x+dx, y+dy)
			if !occupied {
				continue
			}
			destX, destY := x+2*dx, y+2*dy
			if !g.Terrain.InBounds(destX, destY) || g.Terrain.IsWall(destX, destY) {
				continue
			}
			if _, destOccupied := g.CrateAt(destX, destY); destOccupied {
				continue
			}
			out = out.Add(uint8(ci))
		}
	})
	return out
}

// floodCorral fills the connected pocket of non-reachable, non-wall cells
// starting at (sx, sy), recording any crate bordering it as an edge crate
// (spec 4.H: "stopping expansion at crates on R's boundary").
func (a *Analyzer) floodCorral(g *game.Game, sx, sy int, r *game.Reachable) Corral {
	var c Corral
	type cell struct{ x, y int }
	queue := []cell{{sx, sy}}
	c.extent.Set(sx, sy)

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, d := range game.AllDirections {
			dx, dy := d.Delta()
			nx, ny := cur.x+dx, cur.y+dy
			if !g.Terrain.InBounds(nx, ny) || g.Terrain.IsWall(nx, ny) {
				continue
			}
			if r.Has(nx, ny) {
				continue
			}
			if ci, occupied := g.CrateAt(nx, ny); occupied {
				c.boxes = c.boxes.Add(uint8(ci))
				continue
			}
			if c.extent.Has(nx, ny) {
				continue
			}
			c.extent.Set(nx, ny)
			queue = append(queue, cell{nx, ny})
		}
	}
	return c
}

// isTrivial reports whether no resolution is required: no off-goal edge
// crate and no empty goal anywhere in the corral's extent (spec 4.H).
func (a *Analyzer) isTrivial(g *game.Game, c Corral) bool {
	trivial := true
	c.extent.ForEach(func(x, y int) {
		if g.Terrain.IsGoal(x, y) {
			if _, occupied := g.CrateAt(x, y); !occupied {
				trivial = false
			}
		}
	})
	c.boxes.ForEach(func(ci uint8) {
		x, y := g.CratePos(int(ci))
		if !g.Terrain.IsGoal(x, y) {
			trivial = false
		}
	})
	return trivial
}

// classifyCorral evaluates the I/P conditions over every edge crate and
// direction (spec 4.H, Inward pushes) and returns the admissible inward
// push set.
func (a *Analyzer) classifyCorral(g *game.Game, c Corral, r *game.Reachable) (i, p bool, inward []game.Push) {
	i, p = true, true
	c.boxes.ForEach(func(ci uint8) {
		cx, cy := g.CratePos(int(ci))
		for _, d := range game.AllDirections {
			dx, dy := d.Delta()
			pusherX, pusherY := cx-dx, cy-dy // condition 1/3: the cell opposite d
			destX, destY := cx+dx, cy+dy

			if g.Terrain.IsWall(pusherX, pusherY) || !g.Terrain.InBounds(pusherX, pusherY) {
				continue // condition 3 fails: not a push candidate at all
			}
			if c.extent.Has(pusherX, pusherY) {
				continue // condition 1 fails: pusher's cell is inside the corral
			}
			if !g.Terrain.InBounds(destX, destY) || g.Terrain.IsWall(destX, destY) {
				continue // condition 2 fails
			}
			if _, occupied := g.CrateAt(destX, destY); occupied {
				continue // condition 2 fails
			}
			if g.IsPushDead(destX, destY) {
				continue // condition 4 fails
			}

			if !c.extent.Has(destX, destY) {
				// Conditions 1-4 hold but the push exits the corral.
				i = false
				continue
			}
			// Condition 5 holds; check condition 6.
			if !r.Has(pusherX, pusherY) {
				p = false
				continue
			}
			inward = append(inward, game.Push{Crate: int(ci), Dir: d})
		}
	})
	return i, p, inward
}

// isDeadlocked runs the bounded mini-search described in spec 4.H to decide
// whether an I-corral is resolvable. g is mutated via Project/Checkpoint and
// fully restored before returning.
func (a *Analyzer) isDeadlocked(g *game.Game, c Corral) bool {
	hash := g.Hash() ^ corralShapeHash(g, c)
	if v, found := a.persistent.Get(hash); found {
		return v == VerdictDeadlocked
	}

	cp := g.Checkpoint()
	g.Project(c.boxes)
	a.perSearch = make(map[uint64]int)
	a.nodesExplored = 0

	verdict := a.miniSearch(g, 0, &c.extent)
	g.Restore(cp)

	a.persistent.Set(hash, verdict, 1)
	a.persistent.Wait()
	return verdict == VerdictDeadlocked
}

// corralShapeHash folds a corral's box membership and cell extent into the
// persistent table's key so verdicts for distinct corral shapes at the same
// underlying Zobrist hash don't collide. The extent is packed through g's
// Position Index (spec 3) into a Bitvector -- the "compact bit-set
// representation" the index exists to enable. Only cells whose index is
// below 64 are packed; every other cell of the extent is left out of the
// key, so two shapes that differ only in such cells share it.
func corralShapeHash(g *game.Game, c Corral) uint64 {
	pi := g.PosIndex()
	var extentBits bitset.Bitvector
	c.extent.ForEach(func(x, y int) {
		if idx := pi.IndexOf(x, y); idx != game.NoIndex && idx < 64 {
			extentBits = extentBits.Add(idx)
		}
	})
	h := uint64(c.boxes) * 0x9E3779B97F4A7C15
	h ^= uint64(extentBits) * 0xC2B2AE3D27D4EB4F
	return h
}

// miniSearch is the bounded DFS described in spec 4.H. extent is the
// corral's original footprint: a push whose destination falls outside it
// means the subproblem has escaped the corral and is therefore resolvable.
func (a *Analyzer) miniSearch(g *game.Game, depth int, extent *bitset.LazyBitboard) DeadlockVerdict {
	if g.IsSolved() {
		return VerdictOk
	}

	pushes := g.ComputeForwardSuccessors()
	hash := g.Hash()

	if d, ok := a.perSearch[hash]; ok && d <= depth {
		return VerdictDeadlocked
	}
	a.perSearch[hash] = depth

	a.nodesExplored++
	if a.nodesExplored > a.maxNodes {
		return VerdictCutOff
	}

	for _, push := range pushes {
		destX, destY := pushDestination(g, push)
		if g.IsPushDead(destX, destY) {
			continue
		}
		if !extent.Has(destX, destY) {
			return VerdictOk
		}
		g.ApplyPush(push)
		v := a.miniSearch(g, depth+1, extent)
		g.UndoPush(push)
		if v == VerdictOk || v == VerdictCutOff {
			return v
		}
	}
	return VerdictDeadlocked
}

func pushDestination(g *game.Game, p game.Push) (int, int) {
	x, y := g.CratePos(p.Crate)
	dx, dy := p.Dir.Delta()
	return x + dx, y + dy
}
