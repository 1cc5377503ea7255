package xsb

import (
	"strings"
	"testing"
)

func TestParseOnePushTrivial(t *testing.T) {
	const src = "####\n#@$.#\n####\n"
	levels, err := ParseAll(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseAll: %v", err)
	}
	if len(levels) != 1 {
		t.Fatalf("got %d levels, want 1", len(levels))
	}
	g := levels[0].Game
	if g.NumCrates() != 1 {
		t.Fatalf("NumCrates() = %d, want 1", g.NumCrates())
	}
	pushes := g.ComputeForwardSuccessors()
	if len(pushes) != 1 {
		t.Fatalf("expected exactly 1 push, got %d", len(pushes))
	}
}

func TestParseAlreadySolved(t *testing.T) {
	const src = "####\n#@*#\n####\n"
	levels, err := ParseAll(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseAll: %v", err)
	}
	if !levels[0].Game.IsSolved() {
		t.Fatalf("expected an already-solved level")
	}
}

func TestParseMultipleLevelsSeparatedByBlankLines(t *testing.T) {
	const src = "####\n#@$.#\n####\n\n####\n#@*#\n####\n"
	levels, err := ParseAll(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseAll: %v", err)
	}
	if len(levels) != 2 {
		t.Fatalf("got %d levels, want 2", len(levels))
	}
}

func TestParseCommentLinesIgnored(t *testing.T) {
	const src = "; a comment\n####\n#@$.#\n####\n; trailing comment\n"
	levels, err := ParseAll(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseAll: %v", err)
	}
	if len(levels) != 1 {
		t.Fatalf("got %d levels, want 1", len(levels))
	}
}

func TestParseRejectsMissingPusher(t *testing.T) {
	const src = "####\n#.$ #\n####\n"
	if _, err := ParseAll(strings.NewReader(src)); err == nil {
		t.Fatalf("expected an error for a level with no pusher")
	}
}

func TestParseRejectsDuplicatePusher(t *testing.T) {
	const src = "#####\n#@$.@#\n#####\n"
	if _, err := ParseAll(strings.NewReader(src)); err == nil {
		t.Fatalf("expected an error for a level with two pushers")
	}
}

func TestParseRejectsMismatchedCratesAndGoals(t *testing.T) {
	const src = "#####\n#@$$.#\n#####\n"
	if _, err := ParseAll(strings.NewReader(src)); err == nil {
		t.Fatalf("expected an error when crate count != goal count")
	}
}

func TestParseRaggedRowsPadAsUnreachableFloor(t *testing.T) {
	// Second row is shorter; the short tail is padded as floor outside the
	// play region per spec 6, not a wall that would block parsing.
	const src = "#####\n#@$.\n#####\n"
	levels, err := ParseAll(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseAll: %v", err)
	}
	if len(levels) != 1 {
		t.Fatalf("got %d levels, want 1", len(levels))
	}
}
