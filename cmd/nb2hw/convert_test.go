package main

// Notes:
// - runConvert: we drive the command with a stub pool and merger so no
//   browser starts. One test uses the real converter pool with
//   --notebook-only, which never launches Chrome.
// - Tests that set NB2HW_* variables are not parallel (t.Setenv).
// - buildHeader, buildPageSettings, buildFooter, mergeFlags,
//   resolveTimeout and resolveWorkers are tested directly.
// These are acceptable gaps: PDF rendering itself is covered by the
// integration tests of the root package.

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	nb2hw "github.com/alnah/go-nb2hw"
	"github.com/alnah/go-nb2hw/internal/config"
	"github.com/alnah/go-nb2hw/internal/dateutil"
)

// ---------------------------------------------------------------------------
// TestRunConvert - Full command with stub rendering
// ---------------------------------------------------------------------------

func TestRunConvert_BuildsOutputs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeAssignment(t, dir, taggedNotebookJSON,
		"homework-3-10.ipynb", "homework-3-2.ipynb", "homework-3-1.ipynb", "notes.ipynb", "homework-3-x.ipynb")
	h := newHarness(t)

	err := runConvert(context.Background(), []string{"--hw", "3", "--dir", dir}, h.env)
	if err != nil {
		t.Fatalf("runConvert() error = %v", err)
	}

	out := filepath.Join(dir, "output")
	wantPDF := "%PDF homework-3-1:assignment|%PDF homework-3-2:assignment|%PDF homework-3-10:assignment"
	if got := readOutput(t, filepath.Join(out, "homework-3.pdf")); got != wantPDF {
		t.Errorf("homework-3.pdf = %q, want %q", got, wantPDF)
	}
	wantSoln := "%PDF homework-3-1:solution|%PDF homework-3-2:solution|%PDF homework-3-10:solution"
	if got := readOutput(t, filepath.Join(out, "homework-3-soln.pdf")); got != wantSoln {
		t.Errorf("homework-3-soln.pdf = %q, want %q", got, wantSoln)
	}

	wantEntries := []string{"homework-3-1.ipynb", "homework-3-2.ipynb", "homework-3-10.ipynb"}
	if diff := cmp.Diff(wantEntries, zipNames(t, filepath.Join(out, "homework-3.zip"))); diff != "" {
		t.Errorf("homework-3.zip entries mismatch (-want +got):\n%s", diff)
	}
	wantSolnEntries := []string{"homework-3-1-soln.ipynb", "homework-3-2-soln.ipynb", "homework-3-10-soln.ipynb"}
	if diff := cmp.Diff(wantSolnEntries, zipNames(t, filepath.Join(out, "homework-3-soln.zip"))); diff != "" {
		t.Errorf("homework-3-soln.zip entries mismatch (-want +got):\n%s", diff)
	}

	if strings.Count(h.stdout.String(), "Created ") != 4 {
		t.Errorf("stdout = %q, want 4 Created lines", h.stdout.String())
	}
	if h.pool == nil || !h.pool.closed {
		t.Error("pool was not closed")
	}
	if h.pool != nil && (h.pool.size < 1 || h.pool.size > 3) {
		t.Errorf("pool size = %d, want 1..3", h.pool.size)
	}
}

func TestRunConvert_ExplicitProblems(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeAssignment(t, dir, taggedNotebookJSON, "homework-2-1.ipynb", "homework-2-2.ipynb", "homework-2-3.ipynb")
	h := newHarness(t)

	args := []string{"-n", "2", "-d", dir, "-p", "3,1,3", "--by-hand", "3,7"}
	if err := runConvert(context.Background(), args, h.env); err != nil {
		t.Fatalf("runConvert() error = %v", err)
	}

	got := readOutput(t, filepath.Join(dir, "output", "homework-2.pdf"))
	if want := "%PDF homework-2-1:assignment|%PDF homework-2-3:assignment"; got != want {
		t.Errorf("homework-2.pdf = %q, want %q", got, want)
	}

	for _, in := range h.renderer.recorded() {
		wantHand := in.Resources.UniqueKey == "homework-2-3"
		if in.Resources.ByHand != wantHand {
			t.Errorf("%s ByHand = %v, want %v", in.Resources.UniqueKey, in.Resources.ByHand, wantHand)
		}
	}
	if !strings.Contains(h.stderr.String(), "by-hand problem not in assignment") {
		t.Errorf("stderr = %q, want warning for problem 7", h.stderr.String())
	}
}

func TestRunConvert_PassesSettings(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeAssignment(t, dir, taggedNotebookJSON, "homework-4-1.ipynb")
	cfgPath := filepath.Join(dir, "course.yaml")
	cfgYAML := "course:\n  name: Data 8\n  term: Fall 2026\nfooter:\n  text: Data 8\n"
	if err := os.WriteFile(cfgPath, []byte(cfgYAML), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	h := newHarness(t)

	args := []string{
		"--hw", "4", "--dir", dir, "--config", cfgPath, "--legacy",
		"--due", "2026-09-21", "--page-size", "a4", "--margin", "1",
		"--include-raw", "--timeout", "45s",
	}
	if err := runConvert(context.Background(), args, h.env); err != nil {
		t.Fatalf("runConvert() error = %v", err)
	}

	inputs := h.renderer.recorded()
	if len(inputs) != 2 {
		t.Fatalf("got %d conversions, want 2", len(inputs))
	}
	in := inputs[0]

	wantHeader := &nb2hw.Header{
		Course: "Data 8",
		Term:   "Fall 2026",
		Date:   "September 14, 2026",
		Due:    "September 21, 2026",
	}
	if diff := cmp.Diff(wantHeader, in.Header); diff != "" {
		t.Errorf("Header mismatch (-want +got):\n%s", diff)
	}
	wantPage := &nb2hw.PageSettings{Size: "a4", Orientation: "portrait", Margin: 1}
	if diff := cmp.Diff(wantPage, in.Page); diff != "" {
		t.Errorf("Page mismatch (-want +got):\n%s", diff)
	}
	wantFooter := &nb2hw.Footer{ShowPageNumber: true, ShowProblem: true, Text: "Data 8"}
	if diff := cmp.Diff(wantFooter, in.Footer); diff != "" {
		t.Errorf("Footer mismatch (-want +got):\n%s", diff)
	}
	if !in.Resources.Legacy {
		t.Error("Resources.Legacy = false, want true")
	}
	if in.Resources.Metadata["homework"] != 4 {
		t.Errorf("Metadata[homework] = %v, want 4", in.Resources.Metadata["homework"])
	}
	// style, include-raw, keep-variables, logger and timeout
	if len(h.poolOpts) != 5 {
		t.Errorf("got %d converter options, want 5", len(h.poolOpts))
	}
}

func TestRunConvert_NotebookOnlySkipsPDFs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeAssignment(t, dir, taggedNotebookJSON, "homework-1-1.ipynb")
	out := filepath.Join(t.TempDir(), "dist")
	h := newHarness(t)

	args := []string{"--hw", "1", "--dir", dir, "--output", out, "--notebook-only", "--no-footer"}
	if err := runConvert(context.Background(), args, h.env); err != nil {
		t.Fatalf("runConvert() error = %v", err)
	}

	for _, name := range []string{"homework-1.pdf", "homework-1-soln.pdf"} {
		if _, err := os.Stat(filepath.Join(out, name)); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("%s exists, want no PDFs with --notebook-only", name)
		}
	}
	for _, name := range []string{"homework-1.zip", "homework-1-soln.zip"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
	if in := h.renderer.recorded()[0]; in.Footer != nil {
		t.Errorf("Footer = %+v, want nil with --no-footer", in.Footer)
	}
}

func TestRunConvert_Quiet(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeAssignment(t, dir, taggedNotebookJSON, "homework-1-1.ipynb")
	h := newHarness(t)

	if err := runConvert(context.Background(), []string{"--hw", "1", "--dir", dir, "-q"}, h.env); err != nil {
		t.Fatalf("runConvert() error = %v", err)
	}
	if h.stdout.Len() != 0 {
		t.Errorf("stdout = %q, want empty with --quiet", h.stdout.String())
	}
}

func TestRunConvert_Clean(t *testing.T) {
	t.Parallel()

	t.Run("without problems only cleans", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeAssignment(t, dir, taggedNotebookJSON, "homework-5-1.ipynb")
		out := filepath.Join(dir, "output")
		if err := os.MkdirAll(out, 0o750); err != nil {
			t.Fatalf("setup: %v", err)
		}
		writeAssignment(t, out, "stale", "homework-5.pdf")
		h := newHarness(t)

		if err := runConvert(context.Background(), []string{"--hw", "5", "--dir", dir, "--clean"}, h.env); err != nil {
			t.Fatalf("runConvert() error = %v", err)
		}
		if _, err := os.Stat(out); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("output folder still exists: %v", err)
		}
		if !strings.Contains(h.stdout.String(), "Removed "+out) {
			t.Errorf("stdout = %q, want Removed line", h.stdout.String())
		}
		if h.pool != nil {
			t.Error("pool created, want none when only cleaning")
		}
	})

	t.Run("with problems rebuilds", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeAssignment(t, dir, taggedNotebookJSON, "homework-5-1.ipynb")
		out := filepath.Join(dir, "output")
		if err := os.MkdirAll(out, 0o750); err != nil {
			t.Fatalf("setup: %v", err)
		}
		writeAssignment(t, out, "stale", "leftover.txt")
		h := newHarness(t)

		args := []string{"--hw", "5", "--dir", dir, "--clean", "-p", "1"}
		if err := runConvert(context.Background(), args, h.env); err != nil {
			t.Fatalf("runConvert() error = %v", err)
		}
		if _, err := os.Stat(filepath.Join(out, "leftover.txt")); !errors.Is(err, os.ErrNotExist) {
			t.Error("leftover.txt survived --clean")
		}
		if _, err := os.Stat(filepath.Join(out, "homework-5.pdf")); err != nil {
			t.Errorf("homework-5.pdf: %v", err)
		}
	})
}

func TestRunConvert_CleanRefusesSourceFolders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args func(dir string) []string
	}{
		{
			name: "output is the assignment folder",
			args: func(dir string) []string { return []string{"--hw", "5", "--dir", dir, "-o", dir, "--clean"} },
		},
		{
			name: "output is a parent of the assignment folder",
			args: func(dir string) []string {
				return []string{"--hw", "5", "--dir", dir, "-o", filepath.Dir(dir), "--clean"}
			},
		},
		{
			name: "output is the working directory",
			args: func(dir string) []string { return []string{"--hw", "5", "--dir", dir, "-o", ".", "--clean"} },
		},
		{
			name: "config output.dir resolves to the assignment folder",
			args: func(dir string) []string {
				cfg := filepath.Join(dir, "course.yaml")
				if err := os.WriteFile(cfg, []byte("output:\n  dir: \".\"\n"), 0o600); err != nil {
					t.Fatalf("setup: %v", err)
				}
				return []string{"--hw", "5", "--dir", dir, "-c", cfg, "--clean", "-p", "1"}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeAssignment(t, dir, taggedNotebookJSON, "homework-5-1.ipynb")
			h := newHarness(t)

			err := runConvert(context.Background(), tt.args(dir), h.env)
			if !errors.Is(err, ErrUnsafeClean) || !errors.Is(err, ErrUsage) {
				t.Fatalf("runConvert() error = %v, want %v", err, ErrUnsafeClean)
			}
			if code := exitCodeFor(err); code != ExitUsage {
				t.Errorf("exit code = %d, want %d", code, ExitUsage)
			}
			if !strings.Contains(err.Error(), "hint:") {
				t.Errorf("error %q carries no hint", err)
			}
			if _, err := os.Stat(filepath.Join(dir, "homework-5-1.ipynb")); err != nil {
				t.Errorf("source notebook gone: %v", err)
			}
			if strings.Contains(h.stdout.String(), "Removed") {
				t.Errorf("stdout = %q, want nothing removed", h.stdout.String())
			}
		})
	}
}

func TestIsWithin(t *testing.T) {
	t.Parallel()

	root := filepath.Join(string(filepath.Separator), "work", "course")
	tests := []struct {
		name string
		path string
		dir  string
		want bool
	}{
		{"same", root, root, true},
		{"child", filepath.Join(root, "homework-5"), root, true},
		{"sibling with shared prefix", root + "-old", root, false},
		{"parent", filepath.Dir(root), root, false},
		{"dot-dot named child", filepath.Join(root, "..hidden"), root, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := isWithin(tt.path, tt.dir); got != tt.want {
				t.Errorf("isWithin(%q, %q) = %v, want %v", tt.path, tt.dir, got, tt.want)
			}
		})
	}
}

func TestRunConvert_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		files    []string
		args     func(dir string) []string
		wantErr  error
		wantCode int
	}{
		{
			name:     "missing hw",
			args:     func(dir string) []string { return []string{"--dir", dir} },
			wantErr:  ErrMissingHW,
			wantCode: ExitUsage,
		},
		{
			name:     "unknown flag",
			args:     func(string) []string { return []string{"--hw", "1", "--bogus"} },
			wantErr:  ErrUsage,
			wantCode: ExitUsage,
		},
		{
			name:     "positional argument",
			args:     func(string) []string { return []string{"--hw", "1", "extra"} },
			wantErr:  ErrUsage,
			wantCode: ExitUsage,
		},
		{
			name:     "negative workers",
			args:     func(dir string) []string { return []string{"--hw", "1", "--dir", dir, "-w", "-1"} },
			wantErr:  ErrInvalidWorkerCount,
			wantCode: ExitUsage,
		},
		{
			name:     "bad timeout",
			files:    []string{"homework-1-1.ipynb"},
			args:     func(dir string) []string { return []string{"--hw", "1", "--dir", dir, "-t", "soon"} },
			wantErr:  ErrInvalidTimeout,
			wantCode: ExitUsage,
		},
		{
			name:     "bad margin",
			files:    []string{"homework-1-1.ipynb"},
			args:     func(dir string) []string { return []string{"--hw", "1", "--dir", dir, "--margin", "9"} },
			wantErr:  config.ErrInvalidValue,
			wantCode: ExitUsage,
		},
		{
			name:     "bad due date",
			files:    []string{"homework-1-1.ipynb"},
			args:     func(dir string) []string { return []string{"--hw", "1", "--dir", dir, "--due", "next week"} },
			wantErr:  dateutil.ErrInvalidDate,
			wantCode: ExitUsage,
		},
		{
			name: "missing config",
			args: func(dir string) []string {
				return []string{"--hw", "1", "--dir", dir, "-c", filepath.Join(dir, "nope.yaml")}
			},
			wantErr:  config.ErrConfigNotFound,
			wantCode: ExitUsage,
		},
		{
			name:     "assignment folder missing",
			args:     func(dir string) []string { return []string{"--hw", "1", "--dir", filepath.Join(dir, "nope")} },
			wantErr:  ErrAssignmentNotFound,
			wantCode: ExitIO,
		},
		{
			name:     "no problems",
			files:    []string{"homework-2-1.ipynb"},
			args:     func(dir string) []string { return []string{"--hw", "1", "--dir", dir} },
			wantErr:  ErrNoProblemsFound,
			wantCode: ExitIO,
		},
		{
			name:     "explicit problem missing",
			files:    []string{"homework-1-1.ipynb"},
			args:     func(dir string) []string { return []string{"--hw", "1", "--dir", dir, "-p", "1,4"} },
			wantErr:  ErrProblemNotFound,
			wantCode: ExitIO,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeAssignment(t, dir, taggedNotebookJSON, tt.files...)
			h := newHarness(t)

			err := runConvert(context.Background(), tt.args(dir), h.env)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("runConvert() error = %v, want %v", err, tt.wantErr)
			}
			if got := exitCodeFor(err); got != tt.wantCode {
				t.Errorf("exitCodeFor() = %d, want %d", got, tt.wantCode)
			}
			if h.pool != nil {
				t.Error("pool created before validation finished")
			}
		})
	}
}

func TestRunConvert_NoProblemsHint(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	err := runConvert(context.Background(), []string{"--hw", "6", "--dir", t.TempDir()}, h.env)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "hint: expected notebooks named homework-6-<N>.ipynb") {
		t.Errorf("error = %q, want hint", err.Error())
	}
}

func TestRunConvert_RendererError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeAssignment(t, dir, taggedNotebookJSON, "homework-1-1.ipynb")
	h := newHarness(t)
	h.renderer.err = nb2hw.ErrBrowserConnect

	err := runConvert(context.Background(), []string{"--hw", "1", "--dir", dir}, h.env)

	var pe *nb2hw.ProblemError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want *ProblemError", err)
	}
	if pe.ID != "homework-1-1" {
		t.Errorf("ProblemError.ID = %q, want homework-1-1", pe.ID)
	}
	if got := exitCodeFor(err); got != ExitBrowser {
		t.Errorf("exitCodeFor() = %d, want %d", got, ExitBrowser)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "output")); !errors.Is(statErr, os.ErrNotExist) {
		t.Error("output folder created after a failed build")
	}
	if !h.pool.closed {
		t.Error("pool not closed after failure")
	}
}

// ---------------------------------------------------------------------------
// TestRunConvert_RealPool - Real converters without a browser
// ---------------------------------------------------------------------------

func TestRunConvert_RealPool(t *testing.T) {
	t.Parallel()

	t.Run("tagged notebooks", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeAssignment(t, dir, taggedNotebookJSON, "homework-7-1.ipynb")
		env := DefaultEnv()
		env.Stdout, env.Stderr = &bytes.Buffer{}, &bytes.Buffer{}

		if err := runConvert(context.Background(), []string{"--hw", "7", "--dir", dir, "--notebook-only"}, env); err != nil {
			t.Fatalf("runConvert() error = %v", err)
		}

		files := zipFiles(t, filepath.Join(dir, "output", "homework-7.zip"))
		nb, ok := files["homework-7-1.ipynb"]
		if !ok {
			t.Fatalf("archive entries = %v, want homework-7-1.ipynb", files)
		}
		if strings.Contains(nb, "x = 1") {
			t.Error("assignment notebook still contains the solution code")
		}
		soln := zipFiles(t, filepath.Join(dir, "output", "homework-7-soln.zip"))["homework-7-1-soln.ipynb"]
		if !strings.Contains(soln, "x = 1") {
			t.Error("solution notebook lost the solution code")
		}
	})

	t.Run("unmarked notebook exits 5", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeAssignment(t, dir, unmarkedNotebookJSON, "homework-7-1.ipynb")
		stderr := &bytes.Buffer{}
		env := DefaultEnv()
		env.Stdout, env.Stderr = &bytes.Buffer{}, stderr

		code := runMain([]string{"nb2hw", "convert", "--hw", "7", "--dir", dir, "--notebook-only"}, env)
		if code != ExitDocument {
			t.Errorf("exit code = %d, want %d", code, ExitDocument)
		}
		if !strings.Contains(stderr.String(), `tag the first solution cell "solution"`) {
			t.Errorf("stderr = %q, want solution marker hint", stderr.String())
		}
	})
}

// ---------------------------------------------------------------------------
// TestResolve - Precedence helpers
// ---------------------------------------------------------------------------

func TestResolveTimeout(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Render.Timeout = "1m"

	tests := []struct {
		name    string
		flag    string
		env     time.Duration
		want    time.Duration
		wantErr error
	}{
		{"flag wins", "10s", 20 * time.Second, 10 * time.Second, nil},
		{"env over config", "", 20 * time.Second, 20 * time.Second, nil},
		{"config last", "", 0, time.Minute, nil},
		{"invalid flag", "fast", 0, 0, ErrInvalidTimeout},
		{"non-positive flag", "0s", 0, 0, ErrInvalidTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := resolveTimeout(tt.flag, &envConfig{Timeout: tt.env}, cfg)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("resolveTimeout() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("resolveTimeout() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveWorkers(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Render.Workers = 2

	tests := []struct {
		name string
		flag int
		env  int
		want int
	}{
		{"flag wins", 4, 3, 4},
		{"env over config", 0, 3, 3},
		{"config last", 0, 0, 2},
	}
	for _, tt := range tests {
		if got := resolveWorkers(tt.flag, &envConfig{Workers: tt.env}, cfg); got != tt.want {
			t.Errorf("%s: resolveWorkers() = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestValidateWorkers(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 1, nb2hw.MaxPoolSize} {
		if err := validateWorkers(n); err != nil {
			t.Errorf("validateWorkers(%d) error = %v", n, err)
		}
	}
	for _, n := range []int{-1, nb2hw.MaxPoolSize + 1} {
		if err := validateWorkers(n); !errors.Is(err, ErrInvalidWorkerCount) {
			t.Errorf("validateWorkers(%d) error = %v, want ErrInvalidWorkerCount", n, err)
		}
	}
}

func TestMergeFlags(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	flags := &convertFlags{
		render: renderFlags{style: "plain.css", keepVariables: true},
		page:   pageFlags{orientation: "landscape"},
		footer: footerFlags{text: "Stat 20"},
	}
	mergeFlags(flags, cfg)

	if cfg.Render.Style != "plain.css" {
		t.Errorf("Render.Style = %q, want plain.css", cfg.Render.Style)
	}
	if !cfg.Render.KeepVariables {
		t.Error("Render.KeepVariables = false, want true")
	}
	if cfg.Page.Orientation != "landscape" {
		t.Errorf("Page.Orientation = %q, want landscape", cfg.Page.Orientation)
	}
	if cfg.Page.Size != "letter" {
		t.Errorf("Page.Size = %q, want default letter kept", cfg.Page.Size)
	}
	if cfg.Footer.Text != "Stat 20" {
		t.Errorf("Footer.Text = %q, want Stat 20", cfg.Footer.Text)
	}
}

func TestBuildHeader(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Course = config.CourseConfig{Name: "Data 8", Instructor: "A. Lee"}

	t.Run("literal date flag", func(t *testing.T) {
		t.Parallel()
		got, err := buildHeader(cfg, headerFlags{date: "Week 3"}, fixedNow)
		if err != nil {
			t.Fatalf("buildHeader() error = %v", err)
		}
		want := &nb2hw.Header{Course: "Data 8", Instructor: "A. Lee", Date: "Week 3"}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("buildHeader() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("auto format", func(t *testing.T) {
		t.Parallel()
		got, err := buildHeader(cfg, headerFlags{date: "auto:YYYY-MM-DD"}, fixedNow)
		if err != nil {
			t.Fatalf("buildHeader() error = %v", err)
		}
		if got.Date != "2026-09-14" {
			t.Errorf("Date = %q, want 2026-09-14", got.Date)
		}
	})

	t.Run("invalid format", func(t *testing.T) {
		t.Parallel()
		_, err := buildHeader(cfg, headerFlags{date: "auto:"}, fixedNow)
		if !errors.Is(err, dateutil.ErrInvalidDateFormat) {
			t.Errorf("error = %v, want ErrInvalidDateFormat", err)
		}
	})
}

func TestBuildPageSettings(t *testing.T) {
	t.Parallel()

	got := buildPageSettings(&config.Config{})
	if diff := cmp.Diff(nb2hw.DefaultPageSettings(), got); diff != "" {
		t.Errorf("empty config mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildFooter(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Footer = config.FooterConfig{PageNumbers: false, Text: "Fall 2026"}

	if got := buildFooter(cfg, true); got != nil {
		t.Errorf("buildFooter(disabled) = %+v, want nil", got)
	}
	want := &nb2hw.Footer{ShowProblem: true, Text: "Fall 2026"}
	if diff := cmp.Diff(want, buildFooter(cfg, false)); diff != "" {
		t.Errorf("buildFooter() mismatch (-want +got):\n%s", diff)
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func zipNames(t *testing.T, path string) []string {
	t.Helper()
	r, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("opening %s: %v", path, err)
	}
	defer r.Close()

	names := make([]string, 0, len(r.File))
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	return names
}

func zipFiles(t *testing.T, path string) map[string]string {
	t.Helper()
	r, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("opening %s: %v", path, err)
	}
	defer r.Close()

	files := make(map[string]string, len(r.File))
	for _, f := range r.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("opening %s: %v", f.Name, err)
		}
		var buf bytes.Buffer
		if _, err := buf.ReadFrom(rc); err != nil {
			t.Fatalf("reading %s: %v", f.Name, err)
		}
		_ = rc.Close()
		files[f.Name] = buf.String()
	}
	return files
}
