package levelcache

import (
	"encoding/json"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/ristretto/v2"

	"github.com/sokosolve/sokosolve/internal/game"
)

// Outcome mirrors search.Outcome without importing internal/search, keeping
// the cache usable from both the solver and any future inspection tooling.
type Outcome int

const (
	OutcomeSolved Outcome = iota
	OutcomeUnsolvable
	OutcomeInconclusive
)

// Record is the persisted verdict for a single level.
type Record struct {
	Outcome  Outcome     `json:"outcome"`
	Pushes   []game.Push `json:"pushes,omitempty"`
	SolvedAt time.Time   `json:"solved_at"`
}

// Key hashes a level's XSB source text into a lookup key. Two byte-identical
// level sources always hash to the same key regardless of surrounding
// whitespace differences in the pack they came from.
func Key(levelText string) uint64 {
	return xxhash.Sum64String(levelText)
}

// Cache persists solve records in BadgerDB, with a ristretto read-through
// layer in front so repeated lookups of the same level within one batch run
// do not round-trip through disk.
type Cache struct {
	db  *badger.DB
	mem *ristretto.Cache[uint64, Record]
}

// Open opens (creating if needed) the on-disk level cache in its default
// platform directory.
func Open() (*Cache, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return OpenAt(dbDir)
}

// OpenAt opens the level cache at an explicit directory, for tests and
// callers that want an isolated location.
func OpenAt(dir string) (*Cache, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	mem, err := ristretto.NewCache(&ristretto.Config[uint64, Record]{
		NumCounters: 10000,
		MaxCost:     1 << 20,
		BufferItems: 64,
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Cache{db: db, mem: mem}, nil
}

// Close closes the database and stops the in-memory cache.
func (c *Cache) Close() error {
	c.mem.Close()
	return c.db.Close()
}

// Save persists a solve record under key, and warms the in-memory layer.
func (c *Cache) Save(key uint64, rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	err = c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(keyBytes(key), data)
	})
	if err != nil {
		return err
	}

	c.mem.Set(key, rec, int64(len(data)))
	c.mem.Wait()
	return nil
}

// Load returns the record for key, and whether one was found.
func (c *Cache) Load(key uint64) (Record, bool, error) {
	if rec, ok := c.mem.Get(key); ok {
		return rec, true, nil
	}

	var rec Record
	found := false
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(keyBytes(key))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		return Record{}, false, err
	}
	if found {
		c.mem.Set(key, rec, 64)
		c.mem.Wait()
	}
	return rec, found, nil
}

func keyBytes(key uint64) []byte {
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(key >> (8 * i))
	}
	return b
}
