package search

// InfCost marks a forbidden assignment (spec 4.F).
const InfCost = 1 << 16 // 65536

// AssignmentMethod selects which of spec 4.E's two assignment algorithms
// produces the heuristic's matching cost.
type AssignmentMethod int

const (
	// AssignmentHungarian is the exact, admissible O(n^3) solver. It is the
	// default: IDA* pruning requires an admissible heuristic to stay
	// correct.
	AssignmentHungarian AssignmentMethod = iota
	// AssignmentGreedy is the cheap, non-admissible-in-general fallback;
	// selecting it trades solution optimality for speed.
	AssignmentGreedy
)

// solveAssignment dispatches to the requested assignment algorithm.
func solveAssignment(cost [][]int, method AssignmentMethod) (int, bool) {
	if method == AssignmentGreedy {
		return GreedyAssignment(cost)
	}
	total, _, ok := Hungarian(cost)
	return total, ok
}

// Hungarian solves the n x n minimum-cost perfect assignment problem via
// the Jonker-Volgenant/Kuhn shortest-augmenting-path formulation described
// in spec 4.F: 1-indexed rows/columns with a dummy column 0 serving as the
// augmentation root. cost[i][j] is the cost of assigning row i to column j.
//
// Returns the minimum total cost and, for each row, its assigned column.
// If the matrix admits no perfect assignment (some row or column is
// entirely InfCost), ok is false.
func Hungarian(cost [][]int) (total int, assignment []int, ok bool) {
	n := len(cost)
	if n == 0 {
		return 0, nil, true
	}

	const inf = 1 << 30

	u := make([]int, n+1)
	v := make([]int, n+1)
	p := make([]int, n+1) // p[j] = row currently assigned to column j (1-indexed rows)
	way := make([]int, n+1)

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		minv := make([]int, n+1)
		used := make([]bool, n+1)
		for j := range minv {
			minv[j] = inf
		}

		for {
			used[j0] = true
			i0 := p[j0]
			delta := inf
			j1 := -1
			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				c := cost[i0-1][j-1]
				if c >= InfCost {
					continue
				}
				cur := c - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			if j1 == -1 {
				// No reachable column: some row/column pair is entirely
				// forbidden, so no perfect assignment exists.
				return 0, nil, false
			}
			for j := 0; j <= n; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else if minv[j] < inf {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}

		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}

	assignment = make([]int, n)
	for j := 1; j <= n; j++ {
		if p[j] == 0 {
			return 0, nil, false
		}
		assignment[p[j]-1] = j - 1
	}

	total = 0
	for i := 0; i < n; i++ {
		total += cost[i][assignment[i]]
	}
	return total, assignment, true
}

// GreedyAssignment is the cheap, non-admissible-in-general fallback named in
// spec 4.E: for each unmatched destination column in turn, pick the
// unmatched row with the smallest cost.
func GreedyAssignment(cost [][]int) (total int, ok bool) {
	n := len(cost)
	rowUsed := make([]bool, n)

	for j := 0; j < n; j++ {
		best := -1
		bestCost := InfCost
		for i := 0; i < n; i++ {
			if rowUsed[i] {
				continue
			}
			if cost[i][j] < bestCost {
				bestCost = cost[i][j]
				best = i
			}
		}
		if best == -1 || bestCost >= InfCost {
			return 0, false
		}
		rowUsed[best] = true
		total += bestCost
	}
	return total, true
}
