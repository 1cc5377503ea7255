// Package solvelog is a thin wrapper over the standard library logger used
// by the CLI and search driver for progress and diagnostic output.
package solvelog

import (
	"io"
	"log"
	"os"
)

// Verbose gates Debugf output, mirroring the teacher's package-level
// board.DebugMoveValidation switch.
var Verbose = false

var std = log.New(os.Stderr, "", log.LstdFlags)

// SetOutput redirects the underlying logger, for tests that want to capture
// or silence output.
func SetOutput(w io.Writer) {
	std.SetOutput(w)
}

// Infof logs unconditionally, tagged with the given component name.
func Infof(tag, format string, args ...any) {
	std.Printf("["+tag+"] "+format, args...)
}

// Debugf logs only when Verbose is enabled.
func Debugf(tag, format string, args ...any) {
	if !Verbose {
		return
	}
	std.Printf("["+tag+"] "+format, args...)
}

// Fatalf logs and exits, matching log.Fatalf's behavior for unrecoverable
// CLI errors (the CLI uses it when the level cache cannot be opened).
func Fatalf(tag, format string, args ...any) {
	std.Fatalf("["+tag+"] "+format, args...)
}
