package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-rod/rod/lib/launcher"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	flag "github.com/spf13/pflag"

	nb2hw "github.com/alnah/go-nb2hw"
	"github.com/alnah/go-nb2hw/internal/config"
	"github.com/alnah/go-nb2hw/internal/fileutil"
	"github.com/alnah/go-nb2hw/internal/hints"
	"github.com/alnah/go-nb2hw/internal/pipeline"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string      `json:"status"` // "ready", "warnings", "errors"
	Browser  browserInfo `json:"browser"`
	Config   configInfo  `json:"config"`
	Assets   assetsInfo  `json:"assets"`
	Merge    mergeInfo   `json:"merge"`
	Warnings []string    `json:"warnings,omitempty"`
	Errors   []string    `json:"errors,omitempty"`
}

type browserInfo struct {
	Found     bool   `json:"found"`
	Path      string `json:"path,omitempty"`
	Sandbox   bool   `json:"sandbox"`
	Container bool   `json:"container"`
}

type configInfo struct {
	Source       string `json:"source"` // config name or path, "defaults" when none
	BaseDir      string `json:"base_dir"`
	BaseDirFound bool   `json:"base_dir_found"`
	TempWritable bool   `json:"temp_writable"`
}

// assetsInfo holds style and template check results.
type assetsInfo struct {
	Styles    []string `json:"styles"`
	Style     string   `json:"style"`
	AssetPath string   `json:"asset_path,omitempty"`
	Custom    bool     `json:"custom_ok"`
	Header    bool     `json:"header_ok"`
}

type mergeInfo struct {
	OK    bool `json:"ok"`
	Pages int  `json:"pages"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found, 2 = bad flags.
func runDoctorCmd(args []string, env *Environment) int {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	jsonOutput := fs.Bool("json", false, "print the report as JSON")
	configName := fs.StringP("config", "c", "", "config file name or path")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return ExitSuccess
		}
		return ExitUsage
	}

	merger := env.Merger
	if merger == nil {
		merger = nb2hw.NewPDFCPUMerger()
	}
	result := runDoctor(*configName, merger)

	if *jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(configName string, merger nb2hw.PageMerger) *doctorResult {
	result := &doctorResult{Status: "ready"}

	checkBrowser(result)
	cfg := checkConfig(result, configName)
	checkAssets(result, cfg)
	checkMerge(result, merger)

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}
	return result
}

// checkBrowser locates Chrome the way the renderer will.
func checkBrowser(result *doctorResult) {
	noSandbox := os.Getenv("ROD_NO_SANDBOX") == "1"
	result.Browser.Sandbox = !noSandbox
	result.Browser.Container = os.Getenv("NB2HW_CONTAINER") == "1" || hints.IsInContainer()

	path := os.Getenv("ROD_BROWSER_BIN")
	if path == "" {
		var found bool
		if path, found = launcher.LookPath(); !found {
			result.Errors = append(result.Errors,
				"Chrome/Chromium not found. Install Chrome, set ROD_BROWSER_BIN, or convert with --notebook-only")
			return
		}
	}
	if !fileutil.FileExists(path) {
		result.Errors = append(result.Errors, fmt.Sprintf("Chrome not found at %s", path))
		return
	}
	result.Browser.Found = true
	result.Browser.Path = path

	if result.Browser.Container && !noSandbox {
		result.Warnings = append(result.Warnings,
			"Container detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}
}

// checkConfig resolves the configuration convert would use and checks the
// folders it points at. It returns defaults when the config cannot load.
func checkConfig(result *doctorResult, name string) *config.Config {
	envCfg := loadEnvConfig()
	if name == "" {
		name = envCfg.ConfigPath
	}
	result.Config.Source = name
	if name == "" {
		result.Config.Source = "defaults"
	}

	cfg, err := loadConfig(name, envCfg)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		cfg = config.DefaultConfig()
		applyEnvConfig(envCfg, cfg)
	}

	result.Config.BaseDir = cfg.Input.BaseDir
	result.Config.BaseDirFound = fileutil.DirExists(cfg.Input.BaseDir)
	if !result.Config.BaseDirFound {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Assignments folder %q not found; convert will need --dir", cfg.Input.BaseDir))
	}

	// The renderer hands Chrome a temporary HTML file.
	if _, cleanup, err := fileutil.WriteTempFile("<html></html>", "html"); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Temp directory not writable: %v", err))
	} else {
		cleanup()
		result.Config.TempWritable = true
	}
	return cfg
}

// checkAssets loads the configured style and renders the problem header
// with sample data.
func checkAssets(result *doctorResult, cfg *config.Config) {
	result.Assets.Styles = nb2hw.EmbeddedStyles()
	result.Assets.Style = cfg.Render.Style
	result.Assets.AssetPath = cfg.Render.AssetPath

	loader, err := nb2hw.NewAssetLoader(cfg.Render.AssetPath)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Asset path unusable: %v", err))
		if loader, err = nb2hw.NewAssetLoader(""); err != nil {
			return
		}
	} else if cfg.Render.AssetPath != "" {
		result.Assets.Custom = true
	}

	if _, err := loader.LoadStyle(cfg.Render.Style); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Style %q: %v", cfg.Render.Style, err))
	}

	tmpl, err := loader.LoadTemplate(nb2hw.HeaderTemplate)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Header template: %v", err))
		return
	}
	injector, err := pipeline.NewHeaderInjection(tmpl)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Header template: %v", err))
		return
	}
	sample := &pipeline.HeaderData{
		Title:   "homework-1-1",
		Course:  cfg.Course.Name,
		Term:    cfg.Course.Term,
		Variant: nb2hw.VariantAssignment.String(),
	}
	if _, err := injector.InjectHeader(context.Background(), "<html><body></body></html>", sample); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Header template: %v", err))
		return
	}
	result.Assets.Header = true
}

// checkMerge merges two blank pages and counts the result.
func checkMerge(result *doctorResult, merger nb2hw.PageMerger) {
	page := blankPagePDF()
	merged, err := merger.Merge([][]byte{page, page})
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("PDF merge: %v", err))
		return
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	n, err := api.PageCount(bytes.NewReader(merged), conf)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("PDF merge produced an unreadable file: %v", err))
		return
	}
	result.Merge.Pages = n
	if n != 2 {
		result.Errors = append(result.Errors, fmt.Sprintf("PDF merge produced %d pages, want 2", n))
		return
	}
	result.Merge.OK = true
}

// blankPagePDF returns a single empty letter-size page.
func blankPagePDF() []byte {
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "nb2hw doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Browser")
	if r.Browser.Found {
		fmt.Fprintf(w, "  [OK] Chrome: %s\n", r.Browser.Path)
		if !r.Browser.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled (ROD_NO_SANDBOX=1)")
		}
	} else {
		fmt.Fprintln(w, "  [ERROR] Chrome: not found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Config")
	fmt.Fprintf(w, "  [OK] Source: %s\n", r.Config.Source)
	fmt.Fprintf(w, "  %s Assignments folder: %s\n", okMark(r.Config.BaseDirFound, "[WARN]"), r.Config.BaseDir)
	fmt.Fprintf(w, "  %s Temp directory writable\n", okMark(r.Config.TempWritable, "[ERROR]"))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Assets")
	fmt.Fprintf(w, "  [OK] Styles: %s (using %s)\n", strings.Join(r.Assets.Styles, ", "), r.Assets.Style)
	if r.Assets.AssetPath != "" {
		fmt.Fprintf(w, "  %s Asset path: %s\n", okMark(r.Assets.Custom, "[ERROR]"), r.Assets.AssetPath)
	}
	fmt.Fprintf(w, "  %s Header template\n", okMark(r.Assets.Header, "[ERROR]"))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "PDF merge")
	fmt.Fprintf(w, "  %s Two blank pages merged into %d\n", okMark(r.Merge.OK, "[ERROR]"), r.Merge.Pages)
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}
	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to build assignments")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}

func okMark(ok bool, failed string) string {
	if ok {
		return "[OK]"
	}
	return failed
}
