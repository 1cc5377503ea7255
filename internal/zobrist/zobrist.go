// Package zobrist provides the deterministic position hashing used by the
// transposition table (spec 4.D). Keys are generated from a seeded PRNG so
// that identical puzzle input always produces identical hashes and
// traversal order (spec 6, Determinism).
package zobrist

// Seed is the fixed Zobrist seed named in spec 6, reused verbatim so this
// implementation's traversal is reproducible the way the spec requires.
const Seed uint64 = 0x123456789ABCDEF0

// prng is a xorshift64* generator, the same algorithm and shape the teacher
// uses for its own fixed-seed Zobrist tables.
type prng struct {
	state uint64
}

func newPRNG(seed uint64) *prng {
	if seed == 0 {
		seed = 1 // xorshift64* never recovers from a zero state
	}
	return &prng{state: seed}
}

func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

// Tables holds the per-cell random tags for a board of the given width and
// height: one tag per cell for a crate occupying it, one per cell for the
// pusher standing there.
type Tables struct {
	width, height int
	boxHash       []uint64 // len width*height
	playerHash    []uint64 // len width*height
}

// NewTables builds Zobrist tables for a board of the given dimensions using
// the fixed Seed.
func NewTables(width, height int) *Tables {
	return newTablesSeeded(width, height, Seed)
}

// newTablesSeeded allows tests to construct tables from an arbitrary seed
// while production code always goes through NewTables.
func newTablesSeeded(width, height int, seed uint64) *Tables {
	rng := newPRNG(seed)
	n := width * height
	t := &Tables{
		width:      width,
		height:     height,
		boxHash:    make([]uint64, n),
		playerHash: make([]uint64, n),
	}
	for i := 0; i < n; i++ {
		t.boxHash[i] = rng.next()
	}
	for i := 0; i < n; i++ {
		t.playerHash[i] = rng.next()
	}
	return t
}

func (t *Tables) index(x, y int) int {
	return y*t.width + x
}

// BoxHash returns the crate tag for (x, y).
func (t *Tables) BoxHash(x, y int) uint64 {
	return t.boxHash[t.index(x, y)]
}

// PlayerHash returns the pusher tag for (x, y).
func (t *Tables) PlayerHash(x, y int) uint64 {
	return t.playerHash[t.index(x, y)]
}

// Hash computes a state hash from scratch: XOR of box tags over every crate
// position, XOR-ed with the player tag of the canonical pusher position.
// Used both to seed the incremental hash and, in tests, to verify it.
func (t *Tables) Hash(cratePositions [][2]int, pusherX, pusherY int, pusherKnown bool) uint64 {
	var h uint64
	for _, p := range cratePositions {
		h ^= t.BoxHash(p[0], p[1])
	}
	if pusherKnown {
		h ^= t.PlayerHash(pusherX, pusherY)
	}
	return h
}
