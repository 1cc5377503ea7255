package search

import (
	"fmt"

	"github.com/sokosolve/sokosolve/internal/game"
)

// Replay re-applies pushes to g in order and reports whether doing so lands
// on a solved state, mirroring Position.Validate's shape: a pure post-hoc
// checker the test suite (and optionally the CLI) runs over a Result before
// trusting it. g is mutated in place; callers that still need the original
// layout should pass a checkpoint-restored copy.
//
// Each push is validated against the same preconditions ApplyPush enforces
// before being applied, so a malformed push list returns an error instead of
// panicking.
func Replay(g *game.Game, pushes []game.Push) error {
	for i, p := range pushes {
		if err := validatePush(g, p); err != nil {
			return fmt.Errorf("replay: push %d (crate %d, dir %d): %w", i, p.Crate, p.Dir, err)
		}
		g.ApplyPush(p)
	}
	if !g.IsSolved() {
		return fmt.Errorf("replay: %d pushes applied but %d goals remain empty", len(pushes), g.EmptyGoalCount())
	}
	return nil
}

// validatePush checks the legality preconditions ApplyPush assumes its
// caller already verified (spec 4.C): the crate index is in range, the
// destination cell is in bounds, not a wall, and not occupied by another
// crate. It does not check pusher reachability -- a replayed push list is
// trusted to have come from a real search, so this is a sanity check against
// a corrupted or hand-edited push list, not a full legal-move generator.
func validatePush(g *game.Game, p game.Push) error {
	if p.Crate < 0 || p.Crate >= g.NumCrates() {
		return fmt.Errorf("crate index out of range")
	}
	cx, cy := g.CratePos(p.Crate)
	dx, dy := p.Dir.Delta()
	destX, destY := cx+dx, cy+dy
	if !g.Terrain.InBounds(destX, destY) {
		return fmt.Errorf("destination (%d,%d) out of bounds", destX, destY)
	}
	if g.Terrain.IsWall(destX, destY) {
		return fmt.Errorf("destination (%d,%d) is a wall", destX, destY)
	}
	if _, occupied := g.CrateAt(destX, destY); occupied {
		return fmt.Errorf("destination (%d,%d) is occupied", destX, destY)
	}
	return nil
}
