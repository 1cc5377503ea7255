package search

import (
	"github.com/sokosolve/sokosolve/internal/bitset"
	"github.com/sokosolve/sokosolve/internal/game"
)

// Unreachable marks a cell that a distance table never reaches.
const Unreachable = 1 << 16

// distanceTable is a W*H grid of push distances for one goal or one crate
// start, row-major to match game.Terrain's layout.
type distanceTable struct {
	width, height int
	dist          []int
}

func newDistanceTable(width, height int) *distanceTable {
	d := &distanceTable{width: width, height: height, dist: make([]int, width*height)}
	for i := range d.dist {
		d.dist[i] = Unreachable
	}
	return d
}

func (d *distanceTable) at(x, y int) int {
	if x < 0 || y < 0 || x >= d.width || y >= d.height {
		return Unreachable
	}
	return d.dist[y*d.width+x]
}

func (d *distanceTable) set(x, y, v int) {
	d.dist[y*d.width+x] = v
}

// Heuristic holds the precomputed goal-distance and start-distance tables
// (spec 4.E) and produces admissible push-count lower bounds for both
// search directions.
type Heuristic struct {
	terrain *game.Terrain
	goalDist  []*distanceTable // one per goal
	startDist []*distanceTable // one per crate
	numCrates int
}

// NewHeuristic builds the distance oracles for g. Must be called once
// before the driver begins searching; the tables are immutable afterward.
func NewHeuristic(g *game.Game) *Heuristic {
	t := g.Terrain
	h := &Heuristic{terrain: t, numCrates: g.NumCrates()}

	h.goalDist = make([]*distanceTable, len(g.Goals))
	for i, goal := range g.Goals {
		h.goalDist[i] = pullBFS(t, goal[0], goal[1])
	}

	h.startDist = make([]*distanceTable, g.NumCrates())
	for i := 0; i < g.NumCrates(); i++ {
		sx, sy := g.CrateStart(i)
		h.startDist[i] = pushBFS(t, sx, sy)
	}
	return h
}

// pullBFS computes goal_distance from goal (gx, gy): the minimum pushes to
// move a crate from (x,y) onto the goal, via a BFS of pulls starting at the
// goal (spec 4.E). An edge from a cell c to a neighbor n in direction d
// exists iff n is walkable and the cell behind n (n + delta(d)) is also
// walkable, i.e. a pusher standing behind n could push a crate at n to c.
func pullBFS(t *game.Terrain, gx, gy int) *distanceTable {
	d := newDistanceTable(t.Width, t.Height)
	if t.IsWall(gx, gy) {
		return d
	}
	d.set(gx, gy, 0)

	type cell struct{ x, y int }
	queue := []cell{{gx, gy}}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		base := d.at(c.x, c.y)
		for _, dir := range game.AllDirections {
			dx, dy := dir.Delta()
			// Pulling the crate from c to n=(c+dir) leaves the puller at
			// behind=(n+dir); n and behind must both be walkable floor/goal
			// cells.
			nx, ny := c.x+dx, c.y+dy
			bx, by := nx+dx, ny+dy
			if !t.InBounds(nx, ny) || t.IsWall(nx, ny) {
				continue
			}
			if !t.InBounds(bx, by) || t.IsWall(bx, by) {
				continue
			}
			if d.at(nx, ny) != Unreachable {
				continue
			}
			d.set(nx, ny, base+1)
			queue = append(queue, cell{nx, ny})
		}
	}
	return d
}

// pushBFS computes start_distance from the crate's start cell (sx, sy): the
// minimum pushes to move the crate from there to (x,y), via a BFS of pushes.
// An edge from c to neighbor n=(c+dir) exists iff n is walkable and the cell
// behind c (c - dir) is walkable, i.e. a pusher behind c can push it to n.
func pushBFS(t *game.Terrain, sx, sy int) *distanceTable {
	d := newDistanceTable(t.Width, t.Height)
	if t.IsWall(sx, sy) {
		return d
	}
	d.set(sx, sy, 0)

	type cell struct{ x, y int }
	queue := []cell{{sx, sy}}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		base := d.at(c.x, c.y)
		for _, dir := range game.AllDirections {
			dx, dy := dir.Delta()
			nx, ny := c.x+dx, c.y+dy
			behindX, behindY := c.x-dx, c.y-dy
			if !t.InBounds(nx, ny) || t.IsWall(nx, ny) {
				continue
			}
			if !t.InBounds(behindX, behindY) || t.IsWall(behindX, behindY) {
				continue
			}
			if d.at(nx, ny) != Unreachable {
				continue
			}
			d.set(nx, ny, base+1)
			queue = append(queue, cell{nx, ny})
		}
	}
	return d
}

// GoalDistance returns goal_distance[g][y][x].
func (h *Heuristic) GoalDistance(goalIdx, x, y int) int {
	return h.goalDist[goalIdx].at(x, y)
}

// StartDistance returns start_distance[crate][y][x].
func (h *Heuristic) StartDistance(crateIdx, x, y int) int {
	return h.startDist[crateIdx].at(x, y)
}

// PushDeadBoard derives the precomputed push-dead predicate named in spec 9:
// a cell is push-dead iff every goal's pull-BFS leaves it unreachable.
func (h *Heuristic) PushDeadBoard() *bitset.Bitboard {
	bb := &bitset.Bitboard{}
	for y := 0; y < h.terrain.Height; y++ {
		for x := 0; x < h.terrain.Width; x++ {
			if h.terrain.IsWall(x, y) {
				continue
			}
			dead := true
			for _, gd := range h.goalDist {
				if gd.at(x, y) != Unreachable {
					dead = false
					break
				}
			}
			if dead {
				bb.Set(x, y)
			}
		}
	}
	return bb
}

// ForwardLowerBound returns the assignment-based lower bound for g's current
// crate layout against the goal set (spec 4.E): the minimum-cost matching of
// crates to goals under goal_distance, computed by method (Hungarian is
// exact and admissible; Greedy is cheap but not admissible in general), or
// (0, false) if some crate cannot reach some goal under any assignment that
// is otherwise forced (a row or column is entirely unreachable in the cost
// matrix handed to the solver).
func (h *Heuristic) ForwardLowerBound(g *game.Game, method AssignmentMethod) (int, bool) {
	n := h.numCrates
	cost := make([][]int, n)
	for i := range cost {
		cost[i] = make([]int, n)
		cx, cy := g.CratePos(i)
		for j := 0; j < n; j++ {
			d := h.GoalDistance(j, cx, cy)
			if d >= Unreachable {
				cost[i][j] = InfCost
			} else {
				cost[i][j] = d
			}
		}
	}
	return solveAssignment(cost, method)
}

// BackwardLowerBound is the symmetric heuristic for backward search (spec
// 4.E): crates are matched against the set of crate start cells under
// start_distance instead of goal_distance. Any crate may be matched to any
// start cell, not only to its own.
func (h *Heuristic) BackwardLowerBound(g *game.Game, method AssignmentMethod) (int, bool) {
	n := h.numCrates
	cost := make([][]int, n)
	for i := range cost {
		cost[i] = make([]int, n)
		cx, cy := g.CratePos(i)
		for j := 0; j < n; j++ {
			d := h.startDist[j].at(cx, cy)
			if d >= Unreachable {
				cost[i][j] = InfCost
			} else {
				cost[i][j] = d
			}
		}
	}
	return solveAssignment(cost, method)
}
