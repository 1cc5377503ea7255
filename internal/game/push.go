package game

// ApplyPush advances crate p.Crate by one cell in direction p.Dir and moves
// the pusher onto the crate's former cell (spec 4.C). Violations of the
// push preconditions are programmer errors in the caller (the successor
// generator is responsible for only ever proposing legal pushes) and panic
// rather than returning an error, matching the UsageError taxonomy in
// SPEC_FULL.
func (g *Game) ApplyPush(p Push) {
	if p.Crate < 0 || p.Crate >= len(g.cratePos) {
		panic("game: ApplyPush: crate index out of range")
	}
	old := g.cratePos[p.Crate]
	dx, dy := p.Dir.Delta()
	dest := [2]int{old[0] + dx, old[1] + dy}

	if !g.Terrain.InBounds(dest[0], dest[1]) {
		panic("game: ApplyPush: destination out of bounds")
	}
	if g.Terrain.IsWall(dest[0], dest[1]) {
		panic("game: ApplyPush: destination is a wall")
	}
	if g.cellToCrate[g.cellIdx(dest[0], dest[1])] != -1 {
		panic("game: ApplyPush: destination is occupied")
	}

	g.cellToCrate[g.cellIdx(old[0], old[1])] = -1
	g.cellToCrate[g.cellIdx(dest[0], dest[1])] = p.Crate
	g.cratePos[p.Crate] = dest

	g.boxesHash ^= g.zt.BoxHash(old[0], old[1])
	g.boxesHash ^= g.zt.BoxHash(dest[0], dest[1])

	if g.Terrain.IsGoal(dest[0], dest[1]) {
		g.emptyGoalCount--
	}
	if g.Terrain.IsGoal(old[0], old[1]) {
		g.emptyGoalCount++
	}

	g.setPusher(old[0], old[1])
}

// UndoPush is the exact inverse of ApplyPush: the crate returns to its
// pre-push cell and the pusher is restored to the cell opposite p.Dir from
// that cell (spec 4.C).
func (g *Game) UndoPush(p Push) {
	if p.Crate < 0 || p.Crate >= len(g.cratePos) {
		panic("game: UndoPush: crate index out of range")
	}
	cur := g.cratePos[p.Crate]
	dx, dy := p.Dir.Delta()
	old := [2]int{cur[0] - dx, cur[1] - dy}
	behind := [2]int{old[0] - dx, old[1] - dy}

	g.cellToCrate[g.cellIdx(cur[0], cur[1])] = -1
	g.cellToCrate[g.cellIdx(old[0], old[1])] = p.Crate
	g.cratePos[p.Crate] = old

	g.boxesHash ^= g.zt.BoxHash(cur[0], cur[1])
	g.boxesHash ^= g.zt.BoxHash(old[0], old[1])

	if g.Terrain.IsGoal(old[0], old[1]) {
		g.emptyGoalCount--
	}
	if g.Terrain.IsGoal(cur[0], cur[1]) {
		g.emptyGoalCount++
	}

	g.setPusher(behind[0], behind[1])
}

// setPusher sets the known pusher position and maintains the incremental
// player-hash contribution.
func (g *Game) setPusher(x, y int) {
	if g.pusherKnown {
		g.pusherHash ^= g.zt.PlayerHash(g.pusherX, g.pusherY)
	}
	g.pusherX, g.pusherY = x, y
	g.pusherKnown = true
	g.pusherHash ^= g.zt.PlayerHash(x, y)
}

// setPusherUnknown clears the pusher position, as at the root of backward
// search from a solved state.
func (g *Game) setPusherUnknown() {
	if g.pusherKnown {
		g.pusherHash ^= g.zt.PlayerHash(g.pusherX, g.pusherY)
	}
	g.pusherKnown = false
	g.pusherHash = 0
}
