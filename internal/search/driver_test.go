package search

import (
	"strings"
	"testing"

	"github.com/sokosolve/sokosolve/internal/pqueue"
	"github.com/sokosolve/sokosolve/internal/xsb"
)

func solveSrc(t *testing.T, src string) Result {
	t.Helper()
	levels, err := xsb.ParseAll(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseAll: %v", err)
	}
	return Solve(levels[0].Game, Options{})
}

// spec 8, scenario 1: one-push trivial.
func TestSolveOnePushTrivial(t *testing.T) {
	res := solveSrc(t, "####\n#@$.#\n####\n")
	if res.Outcome != OutcomeSolved {
		t.Fatalf("outcome = %v, want OutcomeSolved", res.Outcome)
	}
	if len(res.Pushes) != 1 {
		t.Fatalf("solution length = %d, want 1", len(res.Pushes))
	}
}

// spec 8, scenario 2: already solved.
func TestSolveAlreadySolved(t *testing.T) {
	res := solveSrc(t, "####\n#@*#\n####\n")
	if res.Outcome != OutcomeSolved {
		t.Fatalf("outcome = %v, want OutcomeSolved", res.Outcome)
	}
	if len(res.Pushes) != 0 {
		t.Fatalf("solution length = %d, want 0", len(res.Pushes))
	}
}

// spec 8, scenario 3: two-push corridor.
func TestSolveTwoPushCorridor(t *testing.T) {
	res := solveSrc(t, "#####\n#@$ .#\n#####\n")
	if res.Outcome != OutcomeSolved {
		t.Fatalf("outcome = %v, want OutcomeSolved", res.Outcome)
	}
	if len(res.Pushes) != 2 {
		t.Fatalf("solution length = %d, want 2", len(res.Pushes))
	}
}

// spec 8, scenario 4: corner deadlock detection (frozen-box). The crate
// starts wedged in a non-goal corner with no legal push at all, so the
// frozen-box/corral machinery need not even fire: the root has zero
// successors and is not solved.
func TestSolveCornerDeadlockIsUnsolvable(t *testing.T) {
	res := solveSrc(t, "#####\n#+  #\n#  $#\n#####\n")
	if res.Outcome != OutcomeUnsolvable {
		t.Fatalf("outcome = %v, want OutcomeUnsolvable", res.Outcome)
	}
}

// An L-shaped push sequence (three rightward pushes, then one downward push
// onto the goal) exercises successor generation, canonicalization, and the
// heuristic together across a multi-push solve.
func TestSolveLShapedCorridor(t *testing.T) {
	const src = "#######\n#     #\n#@$   #\n#    .#\n#######\n"
	res := solveSrc(t, src)
	if res.Outcome != OutcomeSolved {
		t.Fatalf("outcome = %v, want OutcomeSolved", res.Outcome)
	}
	if len(res.Pushes) != 4 {
		t.Fatalf("solution length = %d, want 4", len(res.Pushes))
	}

	levels, err := xsb.ParseAll(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseAll: %v", err)
	}
	if err := Replay(levels[0].Game, res.Pushes); err != nil {
		t.Fatalf("Replay rejected a genuine solution: %v", err)
	}
}

// Replay must reject a push list that stops short of solving the level.
func TestReplayRejectsIncompleteSolution(t *testing.T) {
	const src = "#####\n#@$ .#\n#####\n"
	levels, err := xsb.ParseAll(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseAll: %v", err)
	}
	g := levels[0].Game
	pushes := g.ComputeForwardSuccessors()
	if len(pushes) == 0 {
		t.Fatalf("setup: expected at least one legal push")
	}
	if err := Replay(g, pushes[:1]); err == nil {
		t.Fatalf("Replay accepted a push list that doesn't reach the solved state")
	}
}

// The L-shaped corridor's first node offers a push toward the goal (the
// correct direction) alongside a push away from it; orderPushes must rank
// the goal-approaching push first.
func TestOrderPushesPrefersCloserDestination(t *testing.T) {
	lvl := parseOneCorral(t, "#######\n#     #\n#@$   #\n#    .#\n#######\n")
	g := lvl.Game
	h := NewHeuristic(g)
	g.SetPushDead(h.PushDeadBoard())
	d := &driver{g: g, h: h, pq: pqueue.New()}

	pushes := g.ComputeForwardSuccessors()
	if len(pushes) < 2 {
		t.Fatalf("setup: expected at least two candidate pushes, got %d", len(pushes))
	}
	ordered := d.orderPushes(pushes)

	gx, gy := g.Goals[0][0], g.Goals[0][1]
	firstX, firstY := pushDestination(g, ordered[0])
	lastX, lastY := pushDestination(g, ordered[len(ordered)-1])
	if h.GoalDistance(0, firstX, firstY) > h.GoalDistance(0, lastX, lastY) {
		t.Fatalf("ordering did not rank the closer destination first: first=(%d,%d) last=(%d,%d) goal=(%d,%d)",
			firstX, firstY, lastX, lastY, gx, gy)
	}
}

// Options.Assignment must actually reach the heuristic: selecting
// AssignmentGreedy still solves the same trivial level (IDA* stays complete
// under a non-admissible heuristic; it just loses the optimality guarantee).
func TestSolveWithGreedyAssignmentStillSolves(t *testing.T) {
	levels, err := xsb.ParseAll(strings.NewReader("####\n#@$.#\n####\n"))
	if err != nil {
		t.Fatalf("ParseAll: %v", err)
	}
	res := Solve(levels[0].Game, Options{Assignment: AssignmentGreedy})
	if res.Outcome != OutcomeSolved {
		t.Fatalf("outcome = %v, want OutcomeSolved", res.Outcome)
	}
	if len(res.Pushes) != 1 {
		t.Fatalf("solution length = %d, want 1", len(res.Pushes))
	}
}

// A multi-push solve must report non-zero Stats: the counters are meant to be
// read after the fact by the CLI, so a Result that did real search work but
// leaves them at their zero value would be a silent regression.
func TestSolveReportsStats(t *testing.T) {
	res := solveSrc(t, "#######\n#     #\n#@$   #\n#    .#\n#######\n")
	if res.Outcome != OutcomeSolved {
		t.Fatalf("outcome = %v, want OutcomeSolved", res.Outcome)
	}
	if res.Stats.NodesExpanded == 0 {
		t.Fatalf("Stats.NodesExpanded = 0, want > 0 after a multi-push search")
	}
	if res.Stats.Elapsed <= 0 {
		t.Fatalf("Stats.Elapsed = %v, want > 0", res.Stats.Elapsed)
	}
}

func TestSolveBackwardReachesOriginalLayout(t *testing.T) {
	res := solveSrc(t, "####\n#@$.#\n####\n")
	if res.Outcome != OutcomeSolved {
		t.Fatalf("forward outcome = %v, want OutcomeSolved", res.Outcome)
	}

	levels, err := xsb.ParseAll(strings.NewReader("####\n#@$.#\n####\n"))
	if err != nil {
		t.Fatalf("ParseAll: %v", err)
	}
	backRes := SolveBackward(levels[0].Game, Options{})
	if backRes.Outcome != OutcomeSolved {
		t.Fatalf("backward outcome = %v, want OutcomeSolved", backRes.Outcome)
	}
	if len(backRes.Pushes) != 1 {
		t.Fatalf("backward solution length = %d, want 1", len(backRes.Pushes))
	}
}
