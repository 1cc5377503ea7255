package game

import (
	"fmt"

	"github.com/sokosolve/sokosolve/internal/bitset"
	"github.com/sokosolve/sokosolve/internal/zobrist"
)

// Game is the tuple described in spec 3: terrain, crate roster,
// pusher-position, empty-goal-count. It is built once from parsed input and
// then mutated destructively along the search recursion path via
// ApplyPush/UndoPush; Checkpoint/Restore snapshot and revert the mutable
// fields exactly (spec 3, Lifecycle).
type Game struct {
	Terrain *Terrain
	Goals   [][2]int // ordered goal positions, fixes the heuristic's goal index

	crateStart [][2]int // invariant, used by backward search
	cratePos   [][2]int // mutates on push/undo

	// cellToCrate is the reverse map: cell -> crate index, or -1. It is a
	// derived view of cratePos, kept consistent atomically with it rather
	// than treated as an independent source of truth (spec 9).
	cellToCrate []int

	pusherX, pusherY int
	pusherKnown      bool

	emptyGoalCount int

	zt         *zobrist.Tables
	boxesHash  uint64
	pusherHash uint64

	// posIndex is the terrain-only flood-fill index from the initial pusher
	// position (spec 3, Position Index). It is built once and never mutated;
	// callers needing a compact Bitvector fingerprint of a cell set use it
	// instead of the wider Bitboard representation.
	posIndex *PositionIndex

	// pushDead is precomputed by the heuristic once goal-distance tables
	// exist (spec 9, "push-dead square predicate ... assumed precomputed by
	// the game component"). Nil until SetPushDead is called, in which case
	// IsPushDead reports false for every cell.
	pushDead *bitset.Bitboard
}

// New builds a Game from parsed, validated input. crateStart and goals must
// have equal, non-zero length and at most MaxCrates entries (spec 3,
// Invariants).
func New(terrain *Terrain, crateStart, goals [][2]int, pusherX, pusherY int) (*Game, error) {
	if len(crateStart) == 0 {
		return nil, fmt.Errorf("game: at least one crate is required")
	}
	if len(crateStart) > MaxCrates {
		return nil, fmt.Errorf("game: %d crates exceeds the %d-crate ceiling", len(crateStart), MaxCrates)
	}
	if len(crateStart) != len(goals) {
		return nil, fmt.Errorf("game: %d crates != %d goals", len(crateStart), len(goals))
	}

	g := &Game{
		Terrain:     terrain,
		Goals:       append([][2]int(nil), goals...),
		crateStart:  append([][2]int(nil), crateStart...),
		cratePos:    append([][2]int(nil), crateStart...),
		cellToCrate: make([]int, terrain.Width*terrain.Height),
		pusherX:     pusherX,
		pusherY:     pusherY,
		pusherKnown: true,
		zt:          zobrist.NewTables(terrain.Width, terrain.Height),
	}
	for i := range g.cellToCrate {
		g.cellToCrate[i] = -1
	}

	for i, p := range g.cratePos {
		if !terrain.InBounds(p[0], p[1]) || terrain.IsWall(p[0], p[1]) {
			return nil, fmt.Errorf("game: crate %d at (%d,%d) is out of bounds or on a wall", i, p[0], p[1])
		}
		if existing := g.cellToCrate[g.cellIdx(p[0], p[1])]; existing != -1 {
			return nil, fmt.Errorf("game: crates %d and %d both occupy (%d,%d)", existing, i, p[0], p[1])
		}
		g.cellToCrate[g.cellIdx(p[0], p[1])] = i
		g.boxesHash ^= g.zt.BoxHash(p[0], p[1])
	}
	if g.cellToCrate[g.cellIdx(pusherX, pusherY)] != -1 {
		return nil, fmt.Errorf("game: pusher at (%d,%d) overlaps a crate", pusherX, pusherY)
	}
	g.pusherHash = g.zt.PlayerHash(pusherX, pusherY)
	g.posIndex = BuildPositionIndex(terrain, pusherX, pusherY)
	g.recomputeEmptyGoalCount()
	return g, nil
}

// PosIndex returns the terrain-only position index built from the initial
// pusher position (spec 3, Position Index).
func (g *Game) PosIndex() *PositionIndex {
	return g.posIndex
}

func (g *Game) cellIdx(x, y int) int {
	return y*g.Terrain.Width + x
}

// NumCrates returns the crate count N.
func (g *Game) NumCrates() int {
	return len(g.cratePos)
}

// CratePos returns the current position of crate i.
func (g *Game) CratePos(i int) (x, y int) {
	p := g.cratePos[i]
	return p[0], p[1]
}

// CrateStart returns the invariant starting position of crate i.
func (g *Game) CrateStart(i int) (x, y int) {
	p := g.crateStart[i]
	return p[0], p[1]
}

// CrateAt returns the crate index occupying (x, y), or (-1, false).
func (g *Game) CrateAt(x, y int) (int, bool) {
	if !g.Terrain.InBounds(x, y) {
		return -1, false
	}
	idx := g.cellToCrate[g.cellIdx(x, y)]
	if idx < 0 {
		return -1, false
	}
	return idx, true
}

// Pusher returns the pusher position; known is false at the solved root of
// backward search (spec 3).
func (g *Game) Pusher() (x, y int, known bool) {
	return g.pusherX, g.pusherY, g.pusherKnown
}

// EmptyGoalCount returns the number of goal cells not occupied by a crate.
func (g *Game) EmptyGoalCount() int {
	return g.emptyGoalCount
}

// IsSolved reports whether every goal is occupied.
func (g *Game) IsSolved() bool {
	return g.emptyGoalCount == 0
}

// BoxHashAt returns the Zobrist box-tag contribution for a single cell,
// exposed so the frozen-box detector can fold its persistent frozen set
// into the driver's transposition key (spec 4.G).
func (g *Game) BoxHashAt(x, y int) uint64 {
	return g.zt.BoxHash(x, y)
}

// Hash returns the incrementally-maintained Zobrist hash of the current
// state (spec 4.D): XOR of box tags over crate positions, XOR-ed with the
// player tag of the canonical pusher position.
func (g *Game) Hash() uint64 {
	if !g.pusherKnown {
		return g.boxesHash
	}
	return g.boxesHash ^ g.pusherHash
}

// SetPushDead installs the precomputed push-dead predicate (spec 9),
// typically derived from the heuristic's goal-distance tables: a cell is
// push-dead iff every goal's pull-BFS leaves it at infinity.
func (g *Game) SetPushDead(bb *bitset.Bitboard) {
	g.pushDead = bb
}

// IsPushDead reports whether (x, y) is a statically-known permanent
// deadlock cell. Returns false if SetPushDead has not been called.
func (g *Game) IsPushDead(x, y int) bool {
	if g.pushDead == nil {
		return false
	}
	return g.pushDead.Has(x, y)
}

func (g *Game) recomputeEmptyGoalCount() {
	n := 0
	for _, goal := range g.Goals {
		if _, occupied := g.CrateAt(goal[0], goal[1]); !occupied {
			n++
		}
	}
	g.emptyGoalCount = n
}

// Checkpoint is a snapshot of Game's mutable fields (spec 3, Lifecycle).
type Checkpoint struct {
	cratePos       [][2]int
	cellToCrate    []int
	pusherX        int
	pusherY        int
	pusherKnown    bool
	emptyGoalCount int
	boxesHash      uint64
	pusherHash     uint64
}

// Checkpoint snapshots the mutable fields of Game.
func (g *Game) Checkpoint() Checkpoint {
	return Checkpoint{
		cratePos:       append([][2]int(nil), g.cratePos...),
		cellToCrate:    append([]int(nil), g.cellToCrate...),
		pusherX:        g.pusherX,
		pusherY:        g.pusherY,
		pusherKnown:    g.pusherKnown,
		emptyGoalCount: g.emptyGoalCount,
		boxesHash:      g.boxesHash,
		pusherHash:     g.pusherHash,
	}
}

// Restore reverts the mutable fields to a prior Checkpoint.
func (g *Game) Restore(cp Checkpoint) {
	g.cratePos = append([][2]int(nil), cp.cratePos...)
	g.cellToCrate = append([]int(nil), cp.cellToCrate...)
	g.pusherX = cp.pusherX
	g.pusherY = cp.pusherY
	g.pusherKnown = cp.pusherKnown
	g.emptyGoalCount = cp.emptyGoalCount
	g.boxesHash = cp.boxesHash
	g.pusherHash = cp.pusherHash
}

// Project removes every crate not in subset from the reverse map, leaving
// those crates invisible to collision checks and successor generation
// (spec 4.C). Their stored positions are untouched so a later Restore can
// bring them back. Used by the corral deadlock mini-search to reduce the
// game to just a corral's own crates.
func (g *Game) Project(subset bitset.Bitvector) {
	for i := range g.cellToCrate {
		g.cellToCrate[i] = -1
	}
	for i, p := range g.cratePos {
		if subset.Contains(uint8(i)) {
			g.cellToCrate[g.cellIdx(p[0], p[1])] = i
		}
	}
	g.recomputeEmptyGoalCount()
}

// SetToGoalState repositions every crate onto its corresponding goal,
// setting the pusher to unknown and the empty-goal count to zero (spec
// 4.C). Used to seed backward search from the solved state.
func (g *Game) SetToGoalState() {
	for i := range g.cellToCrate {
		g.cellToCrate[i] = -1
	}
	g.boxesHash = 0
	for i, goal := range g.Goals {
		g.cratePos[i] = goal
		g.cellToCrate[g.cellIdx(goal[0], goal[1])] = i
		g.boxesHash ^= g.zt.BoxHash(goal[0], goal[1])
	}
	g.pusherKnown = false
	g.pusherHash = 0
	g.emptyGoalCount = 0
}
