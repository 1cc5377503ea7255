// Package xsb parses Sokoban levels in the XSB text format (spec 6): one or
// more rectangular blocks of '#', ' ', '.', '$', '*', '@', '+', separated by
// blank lines, with ';'-prefixed comment lines. This is one of the thin
// external collaborators named in spec 1 — its only contract with the core
// is producing a validated game.Game.
package xsb

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/sokosolve/sokosolve/internal/game"
)

// ParseError describes a malformed level, including its 1-based position in
// the source (level index and, where applicable, line number).
type ParseError struct {
	Level int
	Line  int
	Msg   string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("xsb: level %d, line %d: %s", e.Level, e.Line, e.Msg)
	}
	return fmt.Sprintf("xsb: level %d: %s", e.Level, e.Msg)
}

// Level is a single parsed puzzle: raw rows plus the game.Game built from
// them.
type Level struct {
	Name string // from a preceding "; Title:" style comment, if any
	Raw  string // the level's own rows, newline-joined, ignoring surrounding comments/blank lines
	Game *game.Game
}

// ParseAll splits r into blank-line-separated blocks and parses each one.
func ParseAll(r io.Reader) ([]*Level, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)

	var levels []*Level
	var block []string
	var title string
	levelIdx := 0
	lineNo := 0
	blockStart := 0 // line number of block's first row

	flush := func() error {
		if len(block) == 0 {
			return nil
		}
		levelIdx++
		lvl, err := parseBlock(block, levelIdx, blockStart)
		if err != nil {
			return err
		}
		lvl.Name = title
		lvl.Raw = strings.Join(block, "\n")
		levels = append(levels, lvl)
		block = nil
		title = ""
		return nil
	}

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		trimmed := strings.TrimRight(line, "\r\n")

		if strings.TrimSpace(trimmed) == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		if strings.HasPrefix(strings.TrimSpace(trimmed), ";") {
			if t, ok := strings.CutPrefix(strings.TrimSpace(trimmed), "; Title:"); ok {
				title = strings.TrimSpace(t)
			}
			continue
		}
		if len(block) == 0 {
			blockStart = lineNo
		}
		block = append(block, trimmed)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("xsb: scanning input: %w", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	if len(levels) == 0 {
		return nil, fmt.Errorf("xsb: no levels found in input")
	}
	return levels, nil
}

// ParseFile reads and parses a level file, transparently decompressing a
// ".gz" suffix via klauspost/compress's faster gzip reader.
func ParseFile(path string) ([]*Level, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("xsb: opening %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("xsb: gzip %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}
	return ParseAll(r)
}

// cellGlyphs maps XSB glyphs to their floor/goal/pusher/crate composition.
var cellGlyphs = map[rune]struct {
	cell   game.Cell
	crate  bool
	pusher bool
}{
	' ': {game.CellFloor, false, false},
	'#': {game.CellWall, false, false},
	'.': {game.CellGoal, false, false},
	'$': {game.CellFloor, true, false},
	'*': {game.CellGoal, true, false},
	'@': {game.CellFloor, false, true},
	'+': {game.CellGoal, false, true},
}

func parseBlock(rows []string, levelIdx, firstLine int) (*Level, error) {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	height := len(rows)
	if width == 0 || height == 0 {
		return nil, &ParseError{Level: levelIdx, Msg: "empty level block"}
	}

	cells := make([]game.Cell, width*height)
	var crates, goals [][2]int
	pusherX, pusherY := -1, -1
	pusherCount := 0

	for y, row := range rows {
		for x := 0; x < width; x++ {
			var r rune = ' '
			if x < len(row) {
				r = rune(row[x])
			}
			g, ok := cellGlyphs[r]
			if !ok {
				return nil, &ParseError{Level: levelIdx, Line: firstLine + y, Msg: fmt.Sprintf("unrecognized glyph %q at column %d", r, x)}
			}
			cells[y*width+x] = g.cell
			if g.cell == game.CellGoal {
				goals = append(goals, [2]int{x, y})
			}
			if g.crate {
				crates = append(crates, [2]int{x, y})
			}
			if g.pusher {
				pusherCount++
				pusherX, pusherY = x, y
			}
		}
	}

	if pusherCount == 0 {
		return nil, &ParseError{Level: levelIdx, Msg: "no pusher found"}
	}
	if pusherCount > 1 {
		return nil, &ParseError{Level: levelIdx, Msg: fmt.Sprintf("found %d pushers, expected exactly 1", pusherCount)}
	}
	if len(crates) == 0 {
		return nil, &ParseError{Level: levelIdx, Msg: "no crates found"}
	}
	if len(crates) != len(goals) {
		return nil, &ParseError{Level: levelIdx, Msg: fmt.Sprintf("%d crates != %d goals", len(crates), len(goals))}
	}

	terrain, err := game.NewTerrain(width, height, cells)
	if err != nil {
		return nil, &ParseError{Level: levelIdx, Msg: err.Error()}
	}
	g, err := game.New(terrain, crates, goals, pusherX, pusherY)
	if err != nil {
		return nil, &ParseError{Level: levelIdx, Msg: err.Error()}
	}
	return &Level{Game: g}, nil
}
