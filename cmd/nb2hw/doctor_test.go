package main

// Notes:
// - Chrome detection depends on system state, so runDoctorCmd tests only
//   check the shape of the result and the exit code/status agreement.
// - The merge, config and asset checks are exercised directly with real
//   pdfcpu, config files and asset folders in t.TempDir().
// - NB2HW_ASSET_PATH and NB2HW_CONTAINER tests modify the environment and
//   cannot use t.Parallel().

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/alnah/go-nb2hw/internal/config"
)

type fakeMerger struct {
	out []byte
	err error
}

func (m fakeMerger) Merge([][]byte) ([]byte, error) { return m.out, m.err }

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_JSONOutput - JSON output format and structure
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_JSONOutput(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	env := &Environment{Stdout: &stdout, Stderr: &stderr}

	exitCode := runDoctorCmd([]string{"--json"}, env)

	var result doctorResult
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		t.Fatalf("Invalid JSON output: %v\nOutput was: %s", err, stdout.String())
	}

	validStatuses := map[string]bool{"ready": true, "warnings": true, "errors": true}
	if !validStatuses[result.Status] {
		t.Errorf("Invalid status %q, expected ready/warnings/errors", result.Status)
	}
	if result.Status == "errors" && exitCode != ExitGeneral {
		t.Errorf("Expected exit code %d for errors status, got %d", ExitGeneral, exitCode)
	}
	if result.Status != "errors" && exitCode != ExitSuccess {
		t.Errorf("Expected exit code %d for non-error status, got %d", ExitSuccess, exitCode)
	}

	if !slices.Contains(result.Assets.Styles, "homework") {
		t.Errorf("Assets.Styles = %v, want homework", result.Assets.Styles)
	}
	if !result.Assets.Header {
		t.Error("embedded header template did not render")
	}
	if !result.Merge.OK || result.Merge.Pages != 2 {
		t.Errorf("Merge = %+v, want two pages", result.Merge)
	}
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_HumanOutput - Human-readable sections
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_HumanOutput(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	env := &Environment{Stdout: &stdout, Stderr: &stderr}

	runDoctorCmd(nil, env)

	output := stdout.String()
	for _, section := range []string{"nb2hw doctor", "Browser", "Config", "Assets", "PDF merge", "Status:"} {
		if !strings.Contains(output, section) {
			t.Errorf("output should contain %q", section)
		}
	}
}

func TestRunDoctorCmd_BadFlag(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	if code := runDoctorCmd([]string{"--bogus"}, &Environment{Stdout: &stdout, Stderr: &stderr}); code != ExitUsage {
		t.Errorf("exit code = %d, want %d", code, ExitUsage)
	}
}

// ---------------------------------------------------------------------------
// TestCheckMerge - pdfcpu merge of generated pages
// ---------------------------------------------------------------------------

func TestBlankPagePDF(t *testing.T) {
	t.Parallel()

	n, err := api.PageCount(bytes.NewReader(blankPagePDF()), nil)
	if err != nil {
		t.Fatalf("PageCount() error = %v", err)
	}
	if n != 1 {
		t.Errorf("pages = %d, want 1", n)
	}
}

func TestCheckMerge(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		merger    fakeMerger
		wantOK    bool
		wantPages int
	}{
		{"merge fails", fakeMerger{err: errors.New("boom")}, false, 0},
		{"unreadable output", fakeMerger{out: []byte("garbage")}, false, 0},
		{"page lost", fakeMerger{out: blankPagePDF()}, false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var r doctorResult
			checkMerge(&r, tt.merger)
			if r.Merge.OK != tt.wantOK || r.Merge.Pages != tt.wantPages {
				t.Errorf("Merge = %+v, want ok=%v pages=%d", r.Merge, tt.wantOK, tt.wantPages)
			}
			if len(r.Errors) != 1 {
				t.Errorf("Errors = %v, want one", r.Errors)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestCheckConfig - config resolution and assignments folder
// ---------------------------------------------------------------------------

func TestCheckConfig(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	existing := filepath.Join(root, "courses")
	if err := os.Mkdir(existing, 0o750); err != nil {
		t.Fatalf("setup: %v", err)
	}
	writeConfig := func(name, baseDir string) string {
		path := filepath.Join(root, name)
		if err := os.WriteFile(path, []byte("input:\n  baseDir: "+baseDir+"\n"), 0o600); err != nil {
			t.Fatalf("setup: %v", err)
		}
		return path
	}

	tests := []struct {
		name         string
		config       string
		wantBaseDir  string
		wantFound    bool
		wantWarnings int
		wantErrors   int
	}{
		{
			name:        "existing base dir",
			config:      writeConfig("ok.yaml", existing),
			wantBaseDir: existing,
			wantFound:   true,
		},
		{
			name:         "missing base dir warns",
			config:       writeConfig("missing.yaml", filepath.Join(root, "gone")),
			wantBaseDir:  filepath.Join(root, "gone"),
			wantWarnings: 1,
		},
		{
			name:         "unknown config falls back to defaults",
			config:       filepath.Join(root, "nope.yaml"),
			wantBaseDir:  config.DefaultConfig().Input.BaseDir,
			wantFound:    false,
			wantWarnings: 1,
			wantErrors:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var r doctorResult
			cfg := checkConfig(&r, tt.config)
			if cfg == nil {
				t.Fatal("checkConfig() returned nil config")
			}
			if r.Config.Source != tt.config {
				t.Errorf("Source = %q, want %q", r.Config.Source, tt.config)
			}
			if r.Config.BaseDir != tt.wantBaseDir || r.Config.BaseDirFound != tt.wantFound {
				t.Errorf("Config = %+v, want base %q found=%v", r.Config, tt.wantBaseDir, tt.wantFound)
			}
			if !r.Config.TempWritable {
				t.Error("TempWritable = false")
			}
			if len(r.Warnings) != tt.wantWarnings || len(r.Errors) != tt.wantErrors {
				t.Errorf("warnings = %v, errors = %v", r.Warnings, r.Errors)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestCheckAssets - style and header template rendering
// ---------------------------------------------------------------------------

func TestCheckAssets(t *testing.T) {
	t.Parallel()

	assetDir := func(t *testing.T, header string) string {
		t.Helper()
		dir := t.TempDir()
		if header == "" {
			return dir
		}
		if err := os.MkdirAll(filepath.Join(dir, "templates"), 0o750); err != nil {
			t.Fatalf("setup: %v", err)
		}
		if err := os.WriteFile(filepath.Join(dir, "templates", "header.html"), []byte(header), 0o600); err != nil {
			t.Fatalf("setup: %v", err)
		}
		return dir
	}

	tests := []struct {
		name       string
		setup      func(t *testing.T, cfg *config.Config)
		wantCustom bool
		wantHeader bool
		wantErrors int
	}{
		{
			name:       "embedded defaults",
			setup:      func(*testing.T, *config.Config) {},
			wantHeader: true,
		},
		{
			name: "custom header renders",
			setup: func(t *testing.T, cfg *config.Config) {
				cfg.Render.AssetPath = assetDir(t, `<header>{{.Title}} {{.Variant}}</header>`)
			},
			wantCustom: true,
			wantHeader: true,
		},
		{
			name: "broken custom header",
			setup: func(t *testing.T, cfg *config.Config) {
				cfg.Render.AssetPath = assetDir(t, `<header>{{.Title</header>`)
			},
			wantCustom: true,
			wantErrors: 1,
		},
		{
			name: "missing asset path falls back to embedded",
			setup: func(t *testing.T, cfg *config.Config) {
				cfg.Render.AssetPath = filepath.Join(t.TempDir(), "nope")
			},
			wantHeader: true,
			wantErrors: 1,
		},
		{
			name: "unknown style",
			setup: func(_ *testing.T, cfg *config.Config) {
				cfg.Render.Style = "nope"
			},
			wantHeader: true,
			wantErrors: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.DefaultConfig()
			tt.setup(t, cfg)

			var r doctorResult
			checkAssets(&r, cfg)
			if r.Assets.Custom != tt.wantCustom || r.Assets.Header != tt.wantHeader {
				t.Errorf("Assets = %+v, want custom=%v header=%v", r.Assets, tt.wantCustom, tt.wantHeader)
			}
			if len(r.Errors) != tt.wantErrors {
				t.Errorf("Errors = %v, want %d", r.Errors, tt.wantErrors)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_Env - environment overrides
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_Env(t *testing.T) {
	t.Run("asset path from environment", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("NB2HW_ASSET_PATH", dir)

		var stdout bytes.Buffer
		runDoctorCmd([]string{"--json"}, &Environment{Stdout: &stdout, Stderr: &bytes.Buffer{}})

		var result doctorResult
		if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
			t.Fatalf("Invalid JSON output: %v", err)
		}
		if result.Assets.AssetPath != dir || !result.Assets.Custom {
			t.Errorf("Assets = %+v, want custom %s", result.Assets, dir)
		}
	})

	t.Run("container override", func(t *testing.T) {
		t.Setenv("NB2HW_CONTAINER", "1")

		var stdout bytes.Buffer
		runDoctorCmd([]string{"--json"}, &Environment{Stdout: &stdout, Stderr: &bytes.Buffer{}})

		var result doctorResult
		if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
			t.Fatalf("Invalid JSON output: %v", err)
		}
		if !result.Browser.Container {
			t.Errorf("Browser = %+v, want container", result.Browser)
		}
	})
}
