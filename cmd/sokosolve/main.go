package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/sokosolve/sokosolve/internal/game"
	"github.com/sokosolve/sokosolve/internal/levelcache"
	"github.com/sokosolve/sokosolve/internal/search"
	"github.com/sokosolve/sokosolve/internal/solvelog"
	"github.com/sokosolve/sokosolve/internal/xsb"
)

var (
	verbose  = flag.Bool("v", false, "enable verbose debug logging")
	backward = flag.Bool("backward", false, "solve with the backward (pull-based) driver instead of forward search")
	maxLimit = flag.Int("max-limit", 0, "cap on the iterative-deepening push limit (0 = driver default)")
	maxNodes = flag.Int("max-nodes", 0, "cap on corral mini-search nodes explored per call (0 = driver default)")
	useCache = flag.Bool("cache", true, "consult and update the on-disk level-result cache")
	cacheDir = flag.String("cache-dir", "", "override the level cache directory (default: platform data dir)")
)

func main() {
	flag.Parse()
	solvelog.Verbose = *verbose

	paths := flag.Args()
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "usage: sokosolve [flags] level.xsb [level2.xsb.gz ...]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	var cache *levelcache.Cache
	if *useCache {
		var err error
		if *cacheDir != "" {
			cache, err = levelcache.OpenAt(*cacheDir)
		} else {
			cache, err = levelcache.Open()
		}
		if err != nil {
			solvelog.Fatalf("Cache", "opening level cache: %v", err)
		}
		defer cache.Close()
	}

	opts := search.Options{MaxLimit: *maxLimit, MaxNodesExplored: *maxNodes}

	reports := make([]string, len(paths))
	if len(paths) == 1 {
		reports[0] = solveFile(paths[0], cache, opts)
	} else {
		// Batch mode: one errgroup goroutine per level file. The driver
		// itself stays single-threaded per spec 5 ("no concurrency inside
		// the core"); this is the outer fan-out the spec leaves to callers.
		var g errgroup.Group
		for i, path := range paths {
			i, path := i, path
			g.Go(func() error {
				reports[i] = solveFile(path, cache, opts)
				return nil
			})
		}
		_ = g.Wait()
	}

	for _, r := range reports {
		fmt.Println(r)
	}
}

func solveFile(path string, cache *levelcache.Cache, opts search.Options) string {
	start := time.Now()
	levels, err := xsb.ParseFile(path)
	if err != nil {
		solvelog.Infof("CLI", "%s: %v", path, err)
		return fmt.Sprintf("%s: parse error: %v", path, err)
	}

	solved, unsolvable, inconclusive := 0, 0, 0
	totalPushes := 0
	for i, lvl := range levels {
		key := levelcache.Key(lvl.Raw)
		res, fromCache := solveOne(lvl.Game, key, cache, opts)
		switch res.Outcome {
		case search.OutcomeSolved:
			solved++
			totalPushes += len(res.Pushes)
			if !fromCache {
				verifyPushes(path, i, lvl.Raw, res.Pushes)
			}
		case search.OutcomeUnsolvable:
			unsolvable++
		default:
			inconclusive++
		}
		solvelog.Debugf("CLI", "%s level %d: outcome=%v pushes=%d cached=%v", path, i+1, res.Outcome, len(res.Pushes), fromCache)
	}

	elapsed := time.Since(start)
	return fmt.Sprintf(
		"%s: %d level(s), %d solved (%s total pushes), %d unsolvable, %d inconclusive, in %s",
		path, len(levels), solved, humanize.Comma(int64(totalPushes)), unsolvable, inconclusive, elapsed.Round(time.Millisecond),
	)
}

func solveOne(g *game.Game, key uint64, cache *levelcache.Cache, opts search.Options) (search.Result, bool) {
	if cache != nil {
		if rec, ok, err := cache.Load(key); err == nil && ok {
			return search.Result{Outcome: search.Outcome(rec.Outcome), Pushes: rec.Pushes}, true
		}
	}

	var res search.Result
	if *backward {
		res = search.SolveBackward(g, opts)
	} else {
		res = search.Solve(g, opts)
	}

	if cache != nil {
		rec := levelcache.Record{
			Outcome:  levelcache.Outcome(res.Outcome),
			Pushes:   res.Pushes,
			SolvedAt: time.Now(),
		}
		if err := cache.Save(key, rec); err != nil {
			solvelog.Infof("Cache", "saving result: %v", err)
		}
	}
	return res, false
}

// verifyPushes replays a freshly-computed push list against a fresh parse of
// the level before it's trusted (SPEC_FULL's push-list replay/validation
// checker, used here as a belt-and-braces check on a solve the cache hasn't
// seen before). A mismatch means a driver or cache bug, not a bad level, so
// it's logged rather than failing the run.
func verifyPushes(path string, levelIdx int, raw string, pushes []game.Push) {
	levels, err := xsb.ParseAll(strings.NewReader(raw))
	if err != nil || len(levels) != 1 {
		solvelog.Infof("CLI", "%s level %d: could not re-parse for replay verification", path, levelIdx+1)
		return
	}
	if err := search.Replay(levels[0].Game, pushes); err != nil {
		solvelog.Infof("CLI", "%s level %d: replay verification failed: %v", path, levelIdx+1, err)
	}
}
