package search

import (
	"math/rand"
	"testing"
)

func TestHungarianMatchesKnownOptimum(t *testing.T) {
	cost := [][]int{
		{4, 1, 3},
		{2, 0, 5},
		{3, 2, 2},
	}
	total, assignment, ok := Hungarian(cost)
	if !ok {
		t.Fatalf("expected a feasible assignment")
	}
	if total != 5 {
		t.Fatalf("total = %d, want 5", total)
	}
	seen := make(map[int]bool)
	for _, j := range assignment {
		if seen[j] {
			t.Fatalf("column %d assigned twice: %v", j, assignment)
		}
		seen[j] = true
	}
	sum := 0
	for i, j := range assignment {
		sum += cost[i][j]
	}
	if sum != total {
		t.Fatalf("reported total %d does not match recomputed sum %d over %v", total, sum, assignment)
	}
}

func TestHungarianInfeasibleRowReturnsNotOK(t *testing.T) {
	cost := [][]int{
		{InfCost, InfCost},
		{1, 2},
	}
	if _, _, ok := Hungarian(cost); ok {
		t.Fatalf("expected infeasible when a row is entirely forbidden")
	}
}

func TestHungarianEmptyMatrix(t *testing.T) {
	total, assignment, ok := Hungarian(nil)
	if !ok || total != 0 || assignment != nil {
		t.Fatalf("Hungarian(nil) = (%d, %v, %v), want (0, nil, true)", total, assignment, ok)
	}
}

// bruteForceAssignment enumerates every permutation for n <= 6, matching
// spec 8's property: "Hungarian cost equals the sum of the optimal
// assignment; comparing to a brute-force enumeration for n <= 6 holds."
func bruteForceAssignment(cost [][]int) int {
	n := len(cost)
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	best := 1 << 30
	var permute func(k int)
	permute = func(k int) {
		if k == n {
			sum := 0
			for i, j := range perm {
				sum += cost[i][j]
			}
			if sum < best {
				best = sum
			}
			return
		}
		for i := k; i < n; i++ {
			perm[k], perm[i] = perm[i], perm[k]
			permute(k + 1)
			perm[k], perm[i] = perm[i], perm[k]
		}
	}
	permute(0)
	return best
}

func TestHungarianAgainstBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 30; trial++ {
		n := 1 + rng.Intn(6)
		cost := make([][]int, n)
		for i := range cost {
			cost[i] = make([]int, n)
			for j := range cost[i] {
				cost[i][j] = rng.Intn(50)
			}
		}
		total, _, ok := Hungarian(cost)
		if !ok {
			t.Fatalf("trial %d: expected feasible for a fully-dense cost matrix", trial)
		}
		want := bruteForceAssignment(cost)
		if total != want {
			t.Fatalf("trial %d (n=%d): Hungarian = %d, brute force = %d, cost=%v", trial, n, total, want, cost)
		}
	}
}

func TestGreedyAssignmentSumsChosenCosts(t *testing.T) {
	cost := [][]int{
		{1, 9},
		{9, 1},
	}
	total, ok := GreedyAssignment(cost)
	if !ok || total != 2 {
		t.Fatalf("GreedyAssignment = (%d, %v), want (2, true)", total, ok)
	}
}
