package solvelog

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestInfofAlwaysWrites(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	Infof("Solve", "starting limit=%d", 3)
	if !strings.Contains(buf.String(), "[Solve] starting limit=3") {
		t.Fatalf("output = %q, want it to contain the tagged message", buf.String())
	}
}

func TestDebugfRespectsVerbose(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	Verbose = false
	Debugf("Corral", "suppressed")
	if buf.Len() != 0 {
		t.Fatalf("expected no output while Verbose is false, got %q", buf.String())
	}

	Verbose = true
	defer func() { Verbose = false }()
	Debugf("Corral", "shown")
	if !strings.Contains(buf.String(), "[Corral] shown") {
		t.Fatalf("output = %q, want it to contain the debug message", buf.String())
	}
}
