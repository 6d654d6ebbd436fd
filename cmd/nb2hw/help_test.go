package main

// Notes:
// - printUsage/printConvertUsage: we test that required content strings are
//   present in the output. We don't test exact formatting as that's an
//   implementation detail.
// - runHelp: we test routing to the correct help topic.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestPrintUsage - Main usage output
// ---------------------------------------------------------------------------

func TestPrintUsage(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printUsage(&buf)
	output := buf.String()

	for _, s := range []string{"Usage: nb2hw", "Commands:", "convert", "doctor", "version", "help"} {
		if !strings.Contains(output, s) {
			t.Errorf("printUsage output should contain %q", s)
		}
	}
}

// ---------------------------------------------------------------------------
// TestPrintConvertUsage - Convert command usage output
// ---------------------------------------------------------------------------

func TestPrintConvertUsage(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printConvertUsage(&buf)
	output := buf.String()

	groups := []string{"Selection:", "Input/Output:", "Rendering:", "Header:", "Page:", "Footer:", "Output Control:"}
	for _, g := range groups {
		if !strings.Contains(output, g) {
			t.Errorf("convert usage should contain group %q", g)
		}
	}

	flags := []string{
		"hw", "problems", "by-hand", "legacy", "clean", "dir", "output", "config",
		"workers", "timeout", "include-raw", "keep-variables", "notebook-only",
		"style", "asset-path", "date", "due", "page-size", "orientation",
		"margin", "footer-text", "no-footer", "quiet", "verbose",
	}
	for _, name := range flags {
		if !strings.Contains(output, "--"+name) {
			t.Errorf("convert usage should document --%s", name)
		}
	}
}

// ---------------------------------------------------------------------------
// TestRunHelp - Topic routing
// ---------------------------------------------------------------------------

func TestRunHelp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{nil, ExitSuccess, "Commands:", ""},
		{[]string{"convert"}, ExitSuccess, "Usage: nb2hw convert", ""},
		{[]string{"doctor"}, ExitSuccess, "Usage: nb2hw doctor", ""},
		{[]string{"version"}, ExitSuccess, "Usage: nb2hw version", ""},
		{[]string{"help"}, ExitSuccess, "Usage: nb2hw help", ""},
		{[]string{"bogus"}, ExitUsage, "", "Unknown command: bogus"},
	}

	for _, tt := range tests {
		h := newHarness(t)
		code := runHelp(tt.args, h.env)
		if code != tt.wantCode {
			t.Errorf("runHelp(%v) = %d, want %d", tt.args, code, tt.wantCode)
		}
		if !strings.Contains(h.stdout.String(), tt.wantStdout) {
			t.Errorf("runHelp(%v) stdout = %q, want %q", tt.args, h.stdout.String(), tt.wantStdout)
		}
		if !strings.Contains(h.stderr.String(), tt.wantStderr) {
			t.Errorf("runHelp(%v) stderr = %q, want %q", tt.args, h.stderr.String(), tt.wantStderr)
		}
	}
}
