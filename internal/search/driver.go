package search

import (
	"time"

	"github.com/sokosolve/sokosolve/internal/bitset"
	"github.com/sokosolve/sokosolve/internal/game"
	"github.com/sokosolve/sokosolve/internal/pqueue"
)

// Outcome is the top-level result kind a solve produces (spec 7,
// SearchOutcome).
type Outcome int

const (
	OutcomeSolved Outcome = iota
	OutcomeUnsolvable
	OutcomeInconclusive
)

// Result is what Solve returns: a reconstructed push list on success, or a
// verdict explaining why none was found, plus the run's Stats.
type Result struct {
	Outcome Outcome
	Pushes  []game.Push
	Stats   Stats
}

// Stats reports solve-run counters, mirroring engine.SearchInfo's shape:
// ambient observability the CLI can print, not a new core behavior.
type Stats struct {
	NodesExpanded     uint64
	TranspositionHits uint64
	CorralPrunes      uint64
	FrozenPrunes      uint64
	Elapsed           time.Duration
}

// Options configures one solve (spec 4.I, 5).
type Options struct {
	// MaxLimit bounds the outer iterative-deepening loop. Zero selects the
	// spec's default of 100.
	MaxLimit int
	// MaxNodesExplored bounds each corral mini-search invocation.
	MaxNodesExplored int
	// Assignment selects the heuristic's matching algorithm (spec 4.E).
	// Zero value is AssignmentHungarian, the admissible default.
	Assignment AssignmentMethod
}

const defaultMaxLimit = 100
const defaultMaxNodesExplored = 20000

// frozenDetector is satisfied by both FrozenDetector (forward search) and
// NoOpFrozenDetector (backward search never freezes a crate permanently,
// spec 4.G).
type frozenDetector interface {
	DetectFromCrate(idx int) (bitset.Bitvector, bool)
	ClearFrozen(bitset.Bitvector)
	Hash(func(x, y int) uint64) uint64
}

// driver holds the per-solve mutable search state: the transposition table,
// heuristic tables, frozen detector, corral analyzer, and the in-progress
// move stack (spec 4.I).
type driver struct {
	g        *game.Game
	h        *Heuristic
	tt       *Transposition
	frozen   frozenDetector
	analyzer *Analyzer
	opts     Options
	pq       *pqueue.PriorityQueue
	stats    Stats

	path []game.Push
}

// Solve runs the forward IDA*/IDDFS search described in spec 4.I: iterative
// deepening by f-value (depth plus the assignment lower bound selected by
// Options.Assignment, Hungarian by default), pruned by the
// transposition table, the frozen-box detector, and the corral analyzer.
func Solve(g *game.Game, opts Options) Result {
	start := time.Now()
	if opts.MaxLimit == 0 {
		opts.MaxLimit = defaultMaxLimit
	}
	if opts.MaxNodesExplored == 0 {
		opts.MaxNodesExplored = defaultMaxNodesExplored
	}

	h := NewHeuristic(g)
	g.SetPushDead(h.PushDeadBoard())

	d := &driver{
		g:        g,
		h:        h,
		tt:       NewTransposition(1 << 16),
		frozen:   NewFrozenDetector(g),
		analyzer: NewAnalyzer(h, opts.MaxNodesExplored),
		opts:     opts,
		pq:       pqueue.New(),
	}

	if g.IsSolved() {
		d.stats.Elapsed = time.Since(start)
		return Result{Outcome: OutcomeSolved, Pushes: nil, Stats: d.stats}
	}

	rootBound, ok := h.ForwardLowerBound(g, opts.Assignment)
	if !ok {
		d.stats.Elapsed = time.Since(start)
		return Result{Outcome: OutcomeUnsolvable, Stats: d.stats}
	}

	limit := rootBound
	for limit <= opts.MaxLimit {
		d.tt.Clear()
		d.path = d.path[:0]
		nextLimit := -1

		if d.dfs(0, limit, &nextLimit) {
			d.stats.Elapsed = time.Since(start)
			return Result{Outcome: OutcomeSolved, Pushes: append([]game.Push(nil), d.path...), Stats: d.stats}
		}
		if nextLimit < 0 {
			// No node exceeded the current bound at all: every branch was
			// proven a dead end within limit, so increasing it further
			// cannot help either.
			d.stats.Elapsed = time.Since(start)
			return Result{Outcome: OutcomeUnsolvable, Stats: d.stats}
		}
		limit = nextLimit
	}
	d.stats.Elapsed = time.Since(start)
	return Result{Outcome: OutcomeInconclusive, Stats: d.stats}
}

// dfs is one recursive frame of the iterative-deepening search (spec 4.I).
// nextLimit accumulates the minimum f-value that exceeded the current
// bound, seeding the next outer iteration's limit (IDA*'s standard
// f-bound escalation).
func (d *driver) dfs(depth, limit int, nextLimit *int) bool {
	g := d.g
	d.stats.NodesExpanded++
	if g.IsSolved() {
		return true
	}

	bound, ok := d.h.ForwardLowerBound(g, d.opts.Assignment)
	if !ok {
		// IMPOSSIBLE: exceeds every finite bound, so it never seeds the
		// next iteration's limit.
		return false
	}
	f := depth + bound
	if f > limit {
		if *nextLimit < 0 || f < *nextLimit {
			*nextLimit = f
		}
		return false
	}

	r := g.CurrentReachable()
	pushes := g.ComputeForwardSuccessors()
	hash := g.Hash() ^ d.frozen.Hash(g.BoxHashAt)

	if d.tt.Skip(hash, depth) {
		d.stats.TranspositionHits++
		return false
	}
	d.tt.Insert(hash, depth)

	verdict := d.analyzer.Analyze(g, r)
	switch verdict.Kind {
	case VerdictDeadlockedNode:
		d.stats.CorralPrunes++
		return false
	case VerdictPrune:
		d.stats.CorralPrunes++
		pushes = verdict.Pushes
	}

	pushes = d.orderPushes(pushes)
	for _, push := range pushes {
		d.path = append(d.path, push)
		g.ApplyPush(push)

		group, deadlock := d.frozen.DetectFromCrate(push.Crate)
		if deadlock {
			d.stats.FrozenPrunes++
			d.frozen.ClearFrozen(group)
			g.UndoPush(push)
			d.path = d.path[:len(d.path)-1]
			continue
		}

		if d.dfs(depth+1, limit, nextLimit) {
			return true
		}

		d.frozen.ClearFrozen(group)
		g.UndoPush(push)
		d.path = d.path[:len(d.path)-1]
	}
	return false
}

// orderPushes sorts candidate pushes by the best goal_distance their
// destination reaches, using the bucketed priority queue of spec 4.B: a
// crate landing closer to some goal is explored first, the same "order
// children by how promising they look" idiom the teacher's move generator
// applies before alpha-beta search. Purely an ordering heuristic -- it
// changes how quickly a solution is found, never whether one is found. The
// queue is owned by the driver and fully drained every call, so no frame
// allocates its own.
func (d *driver) orderPushes(pushes []game.Push) []game.Push {
	if len(pushes) < 2 {
		return pushes
	}

	for i, push := range pushes {
		dx, dy := pushDestination(d.g, push)
		priority := pqueue.NumBuckets - 1
		for gi := range d.g.Goals {
			if dist := d.h.GoalDistance(gi, dx, dy); dist < priority {
				priority = dist
			}
		}
		if priority >= pqueue.NumBuckets {
			priority = pqueue.NumBuckets - 1
		}
		d.pq.Push(priority, i)
	}

	ordered := make([]game.Push, 0, len(pushes))
	for d.pq.Len() > 0 {
		idx, _ := d.pq.PopMin()
		ordered = append(ordered, pushes[idx])
	}
	return ordered
}

// backwardDriver runs the symmetric backward search named in spec 4.E/4.I
// ("the symmetric backward variant supports bidirectional search if
// desired"): pulls from the solved state with the start-distance heuristic
// and no frozen-box detector (pulls never freeze a crate). It shares the same transposition/IDA*
// shape as the forward driver but never touches the corral analyzer, since
// pulls cannot create the forward-only push-dead corrals spec 4.H defines.
type backwardDriver struct {
	g     *game.Game
	h     *Heuristic
	tt    *Transposition
	opts  Options
	stats Stats
	path  []game.Push
}

// SolveBackward seeds g at the solved state and searches pulls back toward
// the original crate layout, returning the push list in forward order.
func SolveBackward(g *game.Game, opts Options) Result {
	start := time.Now()
	if opts.MaxLimit == 0 {
		opts.MaxLimit = defaultMaxLimit
	}
	h := NewHeuristic(g)

	d := &backwardDriver{g: g, h: h, tt: NewTransposition(1 << 16), opts: opts}
	g.SetToGoalState()

	limit := 0
	for limit <= opts.MaxLimit {
		d.tt.Clear()
		d.path = d.path[:0]
		if d.dfs(0, limit) {
			reversed := make([]game.Push, len(d.path))
			for i, p := range d.path {
				reversed[len(d.path)-1-i] = p
			}
			d.stats.Elapsed = time.Since(start)
			return Result{Outcome: OutcomeSolved, Pushes: reversed, Stats: d.stats}
		}
		limit++
	}
	d.stats.Elapsed = time.Since(start)
	return Result{Outcome: OutcomeInconclusive, Stats: d.stats}
}

func (d *backwardDriver) dfs(depth, limit int) bool {
	g := d.g
	d.stats.NodesExpanded++
	if d.reachedStart() {
		return true
	}

	bound, ok := d.h.BackwardLowerBound(g, d.opts.Assignment)
	f := depth
	if !ok {
		f = limit + 1
	} else {
		f += bound
	}
	if f > limit {
		return false
	}

	pulls := g.ComputeBackwardSuccessors()
	hash := g.Hash()
	if d.tt.Skip(hash, depth) {
		d.stats.TranspositionHits++
		return false
	}
	d.tt.Insert(hash, depth)

	for _, pull := range pulls {
		d.path = append(d.path, pull)
		g.UndoPush(pull)

		if d.dfs(depth+1, limit) {
			return true
		}

		g.ApplyPush(pull)
		d.path = d.path[:len(d.path)-1]
	}
	return false
}

// reachedStart reports whether every crate sits on its own recorded start
// cell, the backward search's terminal condition.
func (d *backwardDriver) reachedStart() bool {
	for i := 0; i < d.g.NumCrates(); i++ {
		sx, sy := d.g.CrateStart(i)
		cx, cy := d.g.CratePos(i)
		if sx != cx || sy != cy {
			return false
		}
	}
	return true
}
