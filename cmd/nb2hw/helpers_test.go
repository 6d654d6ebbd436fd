package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	nb2hw "github.com/alnah/go-nb2hw"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Stub pool, renderer and merger
// ---------------------------------------------------------------------------

// stubRenderer returns "<problem>:<variant>" payloads and records inputs.
type stubRenderer struct {
	mu     sync.Mutex
	inputs []nb2hw.Input
	err    error
}

func (r *stubRenderer) Convert(ctx context.Context, in nb2hw.Input) (*nb2hw.ConvertResult, error) {
	r.mu.Lock()
	r.inputs = append(r.inputs, in)
	r.mu.Unlock()

	if r.err != nil {
		return nil, r.err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tag := in.Resources.UniqueKey + ":" + in.Resources.Variant.String()
	res := &nb2hw.ConvertResult{Notebook: []byte(`{"tag":"` + tag + `"}`)}
	if !in.NotebookOnly {
		res.PDF = []byte("%PDF " + tag)
	}
	return res, nil
}

// recorded returns a copy of the recorded inputs.
func (r *stubRenderer) recorded() []nb2hw.Input {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]nb2hw.Input(nil), r.inputs...)
}

// stubPool hands out one shared stubRenderer.
type stubPool struct {
	renderer *stubRenderer
	size     int
	closed   bool
}

func (p *stubPool) Acquire(ctx context.Context) (nb2hw.Renderer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.renderer, nil
}

func (p *stubPool) Release(nb2hw.Renderer) {}
func (p *stubPool) Size() int              { return p.size }
func (p *stubPool) Close() error           { p.closed = true; return nil }

// joinMerger concatenates PDFs with "|" so tests can check the order.
type joinMerger struct{}

func (joinMerger) Merge(pdfs [][]byte) ([]byte, error) {
	return bytes.Join(pdfs, []byte("|")), nil
}

// testHarness captures what runConvert did.
type testHarness struct {
	env      *Environment
	stdout   *bytes.Buffer
	stderr   *bytes.Buffer
	renderer *stubRenderer
	pool     *stubPool // nil until NewPool is called
	poolOpts []nb2hw.Option
}

var fixedNow = time.Date(2026, time.September, 14, 10, 0, 0, 0, time.UTC)

func newHarness(t *testing.T) *testHarness {
	t.Helper()

	h := &testHarness{
		stdout:   &bytes.Buffer{},
		stderr:   &bytes.Buffer{},
		renderer: &stubRenderer{},
	}
	h.env = &Environment{
		Now:    func() time.Time { return fixedNow },
		Stdout: h.stdout,
		Stderr: h.stderr,
		NewPool: func(size int, opts ...nb2hw.Option) Pool {
			h.pool = &stubPool{renderer: h.renderer, size: size}
			h.poolOpts = opts
			return h.pool
		},
		Merger: joinMerger{},
	}
	return h
}

// ---------------------------------------------------------------------------
// Test Infrastructure - Notebook fixtures
// ---------------------------------------------------------------------------

const taggedNotebookJSON = `{
 "cells": [
  {"cell_type": "markdown", "metadata": {}, "source": ["# Problem\n", "Compute x."]},
  {"cell_type": "markdown", "metadata": {"tags": ["solution"]}, "source": "## Solution"},
  {"cell_type": "code", "metadata": {}, "execution_count": null, "outputs": [], "source": "x = 1"}
 ],
 "metadata": {},
 "nbformat": 4,
 "nbformat_minor": 4
}`

const unmarkedNotebookJSON = `{
 "cells": [
  {"cell_type": "markdown", "metadata": {}, "source": "# Problem"},
  {"cell_type": "code", "metadata": {}, "execution_count": null, "outputs": [], "source": "x = 1"}
 ],
 "metadata": {},
 "nbformat": 4,
 "nbformat_minor": 4
}`

// writeAssignment creates dir/<name> for each name with content.
func writeAssignment(t *testing.T, dir, content string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatalf("setup: %v", err)
		}
	}
}

// readOutput returns the content of an output file, failing if missing.
func readOutput(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path) // #nosec G304 -- test path
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}
