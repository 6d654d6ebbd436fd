package nb2hw

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-nb2hw/internal/notebook"
	"github.com/alnah/go-nb2hw/internal/solution"
)

// Notebook is a parsed Jupyter notebook.
type Notebook = notebook.Notebook

// Resources configures the solution partition of one conversion.
type Resources = solution.Resources

// Variant selects the assignment or the solution version of a problem.
type Variant = solution.Variant

// Variants.
const (
	VariantAssignment = solution.VariantAssignment
	VariantSolution   = solution.VariantSolution
)

// ReadNotebook reads and parses an .ipynb file.
func ReadNotebook(path string) (*Notebook, error) {
	return notebook.ReadFile(path)
}

// Page size constants.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in inches.
const (
	MinMargin     = 0.25
	MaxMargin     = 3.0
	DefaultMargin = 0.5
)

// PageSettings configures PDF page dimensions.
type PageSettings struct {
	Size        string  // "letter", "a4", "legal"
	Orientation string  // "portrait", "landscape"
	Margin      float64 // inches, applied to all sides
}

// DefaultPageSettings returns page settings with default values.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:        PageSizeLetter,
		Orientation: OrientationPortrait,
		Margin:      DefaultMargin,
	}
}

// Validate checks that page settings are valid.
// Returns nil if p is nil (nil means use defaults).
// Does not mutate - uses case-insensitive comparison.
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}

	switch strings.ToLower(p.Size) {
	case PageSizeLetter, PageSizeA4, PageSizeLegal:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}

	switch strings.ToLower(p.Orientation) {
	case OrientationPortrait, OrientationLandscape:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}

	if p.Margin < MinMargin || p.Margin > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}

	return nil
}

// Footer configures Chrome's native PDF footer.
type Footer struct {
	ShowPageNumber bool
	ShowProblem    bool   // print the problem key
	Text           string // free text, e.g. the course name
}

// Header is the course information printed above each problem.
type Header struct {
	Course     string
	Term       string
	Instructor string
	Date       string // already formatted
	Due        string // already formatted, empty hides the line
}

// Input contains the parameters of one (problem, variant) conversion.
type Input struct {
	Notebook  *Notebook // required, never modified
	Resources Resources // Variant is required
	SourceDir string    // resolves relative image paths in text cells
	Title     string    // header title (default: Resources.UniqueKey)
	Header    *Header   // optional
	CSS       string    // appended after the converter style
	Page      *PageSettings
	Footer    *Footer

	// NotebookOnly skips the HTML and PDF stages.
	NotebookOnly bool
}

// ConvertResult holds the outputs of one conversion.
type ConvertResult struct {
	Notebook []byte // .ipynb JSON of the produced variant
	HTML     []byte // empty when Input.NotebookOnly
	PDF      []byte // empty when Input.NotebookOnly
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout       time.Duration
	styleInput    string
	resolvedStyle string
	assetPath     string
	includeRaw    bool
	keepVariables bool
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the render timeout for each PDF.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("nb2hw: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithStyle sets the CSS style: a style name resolved by the asset loader,
// a file path, or literal CSS content.
func WithStyle(style string) Option {
	return func(c *Converter) {
		c.cfg.styleInput = style
	}
}

// WithAssetPath loads styles and templates from dir, falling back to the
// embedded assets.
func WithAssetPath(dir string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = dir
	}
}

// WithAssetLoader sets a custom asset loader. Takes precedence over
// WithAssetPath.
func WithAssetLoader(l AssetLoader) Option {
	return func(c *Converter) {
		c.publicAssetLoader = l
	}
}

// WithIncludeRaw keeps raw cells instead of dropping them.
func WithIncludeRaw(include bool) Option {
	return func(c *Converter) {
		c.cfg.includeRaw = include
	}
}

// WithKeepVariables keeps metadata.variables in text cells after
// interpolation.
func WithKeepVariables(keep bool) Option {
	return func(c *Converter) {
		c.cfg.keepVariables = keep
	}
}

// WithLogger sets the logger for partition warnings and stage timings.
// A nil logger is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.log = l
		}
	}
}
