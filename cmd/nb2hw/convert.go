package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	nb2hw "github.com/alnah/go-nb2hw"
	"github.com/alnah/go-nb2hw/internal/config"
	"github.com/alnah/go-nb2hw/internal/dateutil"
	"github.com/alnah/go-nb2hw/internal/fileutil"
	"github.com/alnah/go-nb2hw/internal/hints"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage              = errors.New("invalid usage")
	ErrMissingHW          = errors.New("missing assignment number (--hw)")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrInvalidTimeout     = errors.New("invalid timeout")
	ErrAssignmentNotFound = errors.New("assignment folder not found")
	ErrNoProblemsFound    = errors.New("no problem notebooks found")
	ErrProblemNotFound    = errors.New("problem notebook not found")
	ErrReadNotebook       = errors.New("failed to read notebook")
	ErrWriteOutput        = errors.New("failed to write output")
	ErrUnsafeClean        = errors.New("refusing to clean")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// runParams is what runConvert resolved from flags, env and config.
type runParams struct {
	hw            int
	name          string // "homework-N"
	assignmentDir string
	outputDir     string
	cfg           *config.Config
	timeout       time.Duration // 0 = converter default
	workers       int           // 0 = auto
}

// hintedError appends an actionable hint to an error message.
type hintedError struct {
	err  error
	hint string
}

func (e *hintedError) Error() string { return e.err.Error() + e.hint }
func (e *hintedError) Unwrap() error { return e.err }

// runConvert orchestrates the conversion of one assignment.
func runConvert(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseConvertFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: unexpected argument %q", ErrUsage, positional[0])
	}

	log := newLogger(env.Stderr, logLevel(flags.common))
	defer func() { _ = log.Sync() }()

	err = convertAssignment(ctx, flags, env, log)
	if h := hintFor(err, flags); h != "" {
		return &hintedError{err: err, hint: h}
	}
	return err
}

func convertAssignment(ctx context.Context, flags *convertFlags, env *Environment, log *zap.Logger) error {
	if flags.selection.hw <= 0 {
		return ErrMissingHW
	}
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	envCfg := loadEnvConfig()
	warnUnknownEnvVars(log)

	params, err := resolveParams(flags, envCfg)
	if err != nil {
		return err
	}

	if flags.selection.clean {
		if err := checkCleanTarget(params.outputDir, params.assignmentDir); err != nil {
			return err
		}
		if err := os.RemoveAll(params.outputDir); err != nil {
			return fmt.Errorf("%w: removing %s: %v", ErrWriteOutput, params.outputDir, err)
		}
		if !flags.common.quiet {
			fmt.Fprintf(env.Stdout, "Removed %s\n", params.outputDir)
		}
		if len(flags.selection.problems) == 0 {
			return nil
		}
	}

	paths, err := discoverProblems(params.assignmentDir, params.hw, flags.selection.problems)
	if err != nil {
		return err
	}
	problems, err := loadProblems(paths, flags.selection.byHand, log)
	if err != nil {
		return err
	}

	input, err := buildAssignmentInput(params, flags, problems, env.Now())
	if err != nil {
		return err
	}

	poolSize := min(nb2hw.ResolvePoolSize(params.workers), len(problems))
	log.Debug("starting conversion",
		zap.String("assignment", params.name),
		zap.Int("problems", len(problems)),
		zap.Int("workers", poolSize))

	pool := env.NewPool(poolSize, converterOptions(params, log)...)
	defer func() {
		if cerr := pool.Close(); cerr != nil {
			log.Warn("closing browsers", zap.Error(cerr))
		}
	}()

	builder := nb2hw.NewAssignmentBuilder(pool,
		nb2hw.WithMerger(env.Merger),
		nb2hw.WithBuilderLogger(log),
		nb2hw.WithClock(env.Now))

	result, err := builder.Build(ctx, input)
	if err != nil {
		return err
	}

	return writeOutputs(params, result, flags.common.quiet, env)
}

// checkCleanTarget rejects an output folder that is, or contains, the
// assignment folder or the working directory.
func checkCleanTarget(outputDir, assignmentDir string) error {
	out, err := absPath(outputDir)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	guarded := []string{assignmentDir}
	if wd, err := os.Getwd(); err == nil {
		guarded = append(guarded, wd)
	}
	for _, g := range guarded {
		abs, err := absPath(g)
		if err != nil {
			continue
		}
		if isWithin(abs, out) {
			return fmt.Errorf("%w: %w: %s holds %s", ErrUsage, ErrUnsafeClean, outputDir, g)
		}
	}
	return nil
}

// absPath returns the absolute path with symlinks resolved when it exists.
func absPath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return abs, nil
}

// isWithin reports whether path equals dir or lies below it.
func isWithin(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// resolveParams loads the config and applies env vars and flags to it.
func resolveParams(flags *convertFlags, envCfg *envConfig) (*runParams, error) {
	cfg, err := loadConfig(flags.common.config, envCfg)
	if err != nil {
		return nil, err
	}
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	timeout, err := resolveTimeout(flags.timeout, envCfg, cfg)
	if err != nil {
		return nil, err
	}
	workers := resolveWorkers(flags.workers, envCfg, cfg)
	if err := validateWorkers(workers); err != nil {
		return nil, err
	}

	hw := flags.selection.hw
	name := "homework-" + strconv.Itoa(hw)

	dir := flags.dir
	if dir == "" {
		dir = filepath.Join(cfg.Input.BaseDir, name)
	}
	if !fileutil.DirExists(dir) {
		return nil, fmt.Errorf("%w: %s", ErrAssignmentNotFound, dir)
	}

	out := flags.output
	if out == "" {
		out = cfg.Output.Dir
		if !filepath.IsAbs(out) {
			out = filepath.Join(dir, out)
		}
	}

	return &runParams{
		hw:            hw,
		name:          name,
		assignmentDir: dir,
		outputDir:     out,
		cfg:           cfg,
		timeout:       timeout,
		workers:       workers,
	}, nil
}

// loadConfig reads the config named by the flag or NB2HW_CONFIG over the
// defaults with env overrides applied. No name means defaults only.
func loadConfig(name string, envCfg *envConfig) (*config.Config, error) {
	base := config.DefaultConfig()
	applyEnvConfig(envCfg, base)

	if name == "" {
		name = envCfg.ConfigPath
	}
	if name == "" {
		return base, nil
	}

	cfg, err := config.LoadConfigOver(name, base)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeFlags overrides config values with flags that were set.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	// Render flags
	if flags.render.style != "" {
		cfg.Render.Style = flags.render.style
	}
	if flags.render.assetPath != "" {
		cfg.Render.AssetPath = flags.render.assetPath
	}
	if flags.render.includeRaw {
		cfg.Render.IncludeRaw = true
	}
	if flags.render.keepVariables {
		cfg.Render.KeepVariables = true
	}

	// Page flags
	if flags.page.size != "" {
		cfg.Page.Size = flags.page.size
	}
	if flags.page.orientation != "" {
		cfg.Page.Orientation = flags.page.orientation
	}
	if flags.page.margin != 0 {
		cfg.Page.Margin = flags.page.margin
	}

	// Footer flags
	if flags.footer.text != "" {
		cfg.Footer.Text = flags.footer.text
	}
}

// resolveTimeout picks the per-render timeout.
// Priority: flag > env var > config. Zero means the converter default.
func resolveTimeout(flagValue string, envCfg *envConfig, cfg *config.Config) (time.Duration, error) {
	if flagValue != "" {
		d, err := time.ParseDuration(flagValue)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %v", ErrInvalidTimeout, flagValue, err)
		}
		if d <= 0 {
			return 0, fmt.Errorf("%w: %q (must be positive)", ErrInvalidTimeout, flagValue)
		}
		return d, nil
	}
	if envCfg.Timeout > 0 {
		return envCfg.Timeout, nil
	}
	return cfg.TimeoutDuration()
}

// resolveWorkers picks the worker count.
// Priority: flag > env var > config. Zero means automatic.
func resolveWorkers(flagValue int, envCfg *envConfig, cfg *config.Config) int {
	switch {
	case flagValue > 0:
		return flagValue
	case envCfg.Workers > 0:
		return envCfg.Workers
	default:
		return cfg.Render.Workers
	}
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > nb2hw.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, nb2hw.MaxPoolSize)
	}
	return nil
}

// loadProblems reads each notebook. Problems whose number is in byHand are
// marked as answered by hand; unmatched numbers are reported.
func loadProblems(paths []string, byHand []int, log *zap.Logger) ([]nb2hw.Problem, error) {
	problems := make([]nb2hw.Problem, 0, len(paths))
	matched := make(map[int]bool, len(byHand))

	for _, path := range paths {
		nb, err := nb2hw.ReadNotebook(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrReadNotebook, path, err)
		}

		id := problemID(path)
		n, err := nb2hw.ProblemNumber(id)
		if err != nil {
			return nil, err
		}
		hand := slices.Contains(byHand, n)
		if hand {
			matched[n] = true
		}

		problems = append(problems, nb2hw.Problem{
			ID:        id,
			Notebook:  nb,
			SourceDir: filepath.Dir(path),
			ByHand:    hand,
		})
	}

	for _, n := range byHand {
		if !matched[n] {
			log.Warn("by-hand problem not in assignment", zap.Int("problem", n))
		}
	}
	return problems, nil
}

// buildAssignmentInput assembles the per-run settings shared by all problems.
func buildAssignmentInput(p *runParams, flags *convertFlags, problems []nb2hw.Problem, now time.Time) (nb2hw.AssignmentInput, error) {
	header, err := buildHeader(p.cfg, flags.header, now)
	if err != nil {
		return nb2hw.AssignmentInput{}, err
	}

	return nb2hw.AssignmentInput{
		Name:         p.name,
		Problems:     problems,
		Legacy:       flags.selection.legacy,
		Header:       header,
		Page:         buildPageSettings(p.cfg),
		Footer:       buildFooter(p.cfg, flags.footer.disabled),
		Metadata:     map[string]any{"homework": p.hw},
		NotebookOnly: flags.render.notebookOnly,
	}, nil
}

// buildHeader resolves the header date once for the whole assignment.
func buildHeader(cfg *config.Config, f headerFlags, now time.Time) (*nb2hw.Header, error) {
	dateValue := f.date
	if dateValue == "" {
		dateValue = cfg.Render.DateFormat
	}
	date, err := dateutil.ResolveDate(dateValue, now)
	if err != nil {
		return nil, fmt.Errorf("invalid date format: %w", err)
	}

	var due string
	if f.due != "" {
		due, err = dateutil.Reformat(f.due, cfg.Render.DateFormat)
		if err != nil {
			return nil, fmt.Errorf("invalid due date: %w", err)
		}
	}

	return &nb2hw.Header{
		Course:     cfg.Course.Name,
		Term:       cfg.Course.Term,
		Instructor: cfg.Course.Instructor,
		Date:       date,
		Due:        due,
	}, nil
}

// buildPageSettings fills unset page values with defaults.
func buildPageSettings(cfg *config.Config) *nb2hw.PageSettings {
	page := nb2hw.DefaultPageSettings()
	if cfg.Page.Size != "" {
		page.Size = cfg.Page.Size
	}
	if cfg.Page.Orientation != "" {
		page.Orientation = cfg.Page.Orientation
	}
	if cfg.Page.Margin != 0 {
		page.Margin = cfg.Page.Margin
	}
	return page
}

// buildFooter returns nil when the footer is disabled.
func buildFooter(cfg *config.Config, disabled bool) *nb2hw.Footer {
	if disabled {
		return nil
	}
	return &nb2hw.Footer{
		ShowPageNumber: cfg.Footer.PageNumbers,
		ShowProblem:    true,
		Text:           cfg.Footer.Text,
	}
}

// converterOptions builds the options shared by every pooled converter.
func converterOptions(p *runParams, log *zap.Logger) []nb2hw.Option {
	opts := []nb2hw.Option{
		nb2hw.WithStyle(p.cfg.Render.Style),
		nb2hw.WithIncludeRaw(p.cfg.Render.IncludeRaw),
		nb2hw.WithKeepVariables(p.cfg.Render.KeepVariables),
		nb2hw.WithLogger(log),
	}
	if p.cfg.Render.AssetPath != "" {
		opts = append(opts, nb2hw.WithAssetPath(p.cfg.Render.AssetPath))
	}
	if p.timeout > 0 {
		opts = append(opts, nb2hw.WithTimeout(p.timeout))
	}
	return opts
}

// writeOutputs writes the merged PDFs and archives atomically.
func writeOutputs(p *runParams, res *nb2hw.AssignmentResult, quiet bool, env *Environment) error {
	if err := os.MkdirAll(p.outputDir, dirPermissions); err != nil {
		return fmt.Errorf("%w: creating output directory: %v", ErrWriteOutput, err)
	}

	soln := p.name + nb2hw.SolutionSuffix
	outputs := []struct {
		name string
		data []byte
	}{
		{p.name + ".pdf", res.AssignmentPDF},
		{soln + ".pdf", res.SolutionPDF},
		{p.name + ".zip", res.AssignmentArchive},
		{soln + ".zip", res.SolutionArchive},
	}

	for _, o := range outputs {
		if o.data == nil {
			continue
		}
		path := filepath.Join(p.outputDir, o.name)
		// #nosec G306 -- outputs are meant to be readable
		if err := fileutil.WriteFileAtomic(path, o.data, filePermissions); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrWriteOutput, path, err)
		}
		if !quiet {
			fmt.Fprintf(env.Stdout, "Created %s\n", path)
		}
	}
	return nil
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error, flags *convertFlags) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, nb2hw.ErrNoSolutionMarker):
		return hints.ForNoSolutionMarker(flags.selection.legacy)
	case errors.Is(err, ErrNoProblemsFound):
		return hints.ForNoProblems(flags.selection.hw)
	case errors.Is(err, nb2hw.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(config.SearchPaths(flags.common.config))
	case errors.Is(err, nb2hw.ErrStyleNotFound):
		return hints.ForStyleNotFound(nb2hw.EmbeddedStyles())
	case errors.Is(err, ErrUnsafeClean):
		return hints.ForUnsafeClean()
	case errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	}
	return ""
}
