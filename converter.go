package nb2hw

import (
	"context"
	"fmt"
	"maps"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-nb2hw/internal/assets"
	"github.com/alnah/go-nb2hw/internal/fileutil"
	"github.com/alnah/go-nb2hw/internal/notebook"
	"github.com/alnah/go-nb2hw/internal/pipeline"
	"github.com/alnah/go-nb2hw/internal/solution"
)

// Compile-time interface implementation checks.
// These ensure implementations satisfy their interfaces at compile time,
// catching signature mismatches before runtime.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.MarkupPreprocessor)(nil)
	_ pipeline.NotebookExporter     = (*pipeline.MarkdownExporter)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.CSSInjector          = (*pipeline.CSSInjection)(nil)
	_ pipeline.HeaderInjector       = (*pipeline.HeaderInjection)(nil)
	_ AssetLoader                   = (assets.AssetLoader)(nil)
)

// Converter runs the notebook pipeline for one (problem, variant) pair:
// raw filter, interpolation, solution partition, then markdown, HTML and
// PDF. Create with NewConverter, use Convert, and Close when done.
//
// A Converter owns one browser. Convert calls on the same Converter must not
// overlap; use ConverterPool for parallel work.
type Converter struct {
	cfg               converterConfig
	log               *zap.Logger
	assetLoader       assets.AssetLoader
	publicAssetLoader AssetLoader
	partitioner       *solution.Partitioner
	exporter          pipeline.NotebookExporter
	htmlConverter     pipeline.HTMLConverter
	cssInjector       pipeline.CSSInjector
	headerInjector    pipeline.HeaderInjector
	pdfConverter      pdfConverter
}

// NewConverter creates a Converter with default configuration.
// Use options to customize behavior (e.g., WithTimeout, WithStyle, WithLogger).
// Returns error if asset loading or template parsing fails.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg:           converterConfig{timeout: defaultTimeout, styleInput: DefaultStyle},
		log:           zap.NewNop(),
		assetLoader:   assets.NewEmbeddedLoader(),
		exporter:      pipeline.NewMarkdownExporter(),
		htmlConverter: pipeline.NewGoldmarkConverter(),
		cssInjector:   &pipeline.CSSInjection{},
	}

	for _, opt := range opts {
		opt(c)
	}

	c.partitioner = solution.NewPartitioner(solution.WithLogger(c.log))

	// Handle WithAssetPath: resolve to internal loader
	if c.cfg.assetPath != "" {
		resolver, err := assets.NewAssetResolver(c.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		c.assetLoader = resolver
	}

	// The public interface has the same method set as the internal one.
	if c.publicAssetLoader != nil {
		c.assetLoader = c.publicAssetLoader
	}

	if err := c.resolveStyle(); err != nil {
		return nil, err
	}

	if c.headerInjector == nil {
		tmpl, err := c.assetLoader.LoadTemplate(assets.HeaderTemplateName)
		if err != nil {
			return nil, fmt.Errorf("loading header template: %w", convertAssetError(err))
		}
		c.headerInjector, err = pipeline.NewHeaderInjection(tmpl)
		if err != nil {
			return nil, fmt.Errorf("initializing header injector: %w", err)
		}
	}

	// Create PDF converter if not injected (e.g., by tests)
	if c.pdfConverter == nil {
		c.pdfConverter = newRodConverter(c.cfg.timeout)
	}

	return c, nil
}

// Convert produces one variant of a problem. The returned notebook bytes
// are always set; HTML and PDF are skipped when input.NotebookOnly is true.
// The input notebook is never modified.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *ConvertResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := validateInput(input); err != nil {
		return nil, err
	}

	log := c.log.With(
		zap.String("problem", input.Resources.UniqueKey),
		zap.Stringer("variant", input.Resources.Variant),
	)
	start := time.Now()

	nb := pipeline.StripToolbar(input.Notebook)
	nb = pipeline.RemoveRawCells(nb, c.cfg.includeRaw)
	nb = pipeline.InterpolateCells(nb, !c.cfg.keepVariables)

	nb, err = c.partitioner.Partition(nb, input.Resources)
	if err != nil {
		return nil, fmt.Errorf("partitioning: %w", err)
	}

	nbBytes, err := notebook.Marshal(nb)
	if err != nil {
		return nil, fmt.Errorf("encoding notebook: %w", err)
	}
	res := &ConvertResult{Notebook: nbBytes}
	log.Debug("notebook ready", zap.Int("cells", len(nb.Cells)))

	if input.NotebookOnly {
		return res, nil
	}

	htmlContent, err := c.renderHTML(ctx, nb, input)
	if err != nil {
		return nil, err
	}
	res.HTML = []byte(htmlContent)

	pdfBytes, err := c.pdfConverter.ToPDF(ctx, htmlContent, &pdfOptions{
		Page:   input.Page,
		Footer: toFooterData(input.Footer, input.Resources.UniqueKey),
	})
	if err != nil {
		return nil, fmt.Errorf("converting to PDF: %w", err)
	}
	res.PDF = pdfBytes

	log.Debug("rendered", zap.Duration("duration", time.Since(start)), zap.Int("bytes", len(pdfBytes)))
	return res, nil
}

// renderHTML turns the partitioned notebook into a standalone HTML page.
func (c *Converter) renderHTML(ctx context.Context, nb *notebook.Notebook, input Input) (string, error) {
	nb, files, err := pipeline.ExtractAttachments(nb)
	if err != nil {
		return "", fmt.Errorf("extracting attachments: %w", err)
	}

	md, outputs, err := c.exporter.Export(ctx, nb)
	if err != nil {
		return "", fmt.Errorf("exporting markdown: %w", err)
	}
	maps.Copy(files, outputs)

	title := input.Title
	if title == "" {
		title = input.Resources.UniqueKey
	}

	htmlContent, err := c.htmlConverter.ToHTML(ctx, title, md)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}

	// Alert boxes, sup/sub and page breaks were kept as placeholders so
	// Goldmark can run without WithUnsafe.
	htmlContent = pipeline.ConvertPlaceholders(htmlContent)

	// Converter style first (base), user CSS last (can override)
	cssContent := c.cfg.resolvedStyle
	if input.CSS != "" {
		cssContent += "\n" + input.CSS
	}
	htmlContent = c.cssInjector.InjectCSS(ctx, htmlContent, cssContent)
	if err := ctx.Err(); err != nil {
		return "", err
	}

	htmlContent, err = c.headerInjector.InjectHeader(ctx, htmlContent, toHeaderData(title, input))
	if err != nil {
		return "", fmt.Errorf("injecting header: %w", err)
	}

	htmlContent, err = pipeline.EmbedResources(htmlContent, input.SourceDir, files)
	if err != nil {
		return "", fmt.Errorf("embedding resources: %w", err)
	}
	return htmlContent, nil
}

// Close releases resources (headless Chrome browser).
func (c *Converter) Close() error {
	if c.pdfConverter != nil {
		return c.pdfConverter.Close()
	}
	return nil
}

// resolveStyle resolves the style input (name, path, or CSS content) to CSS content.
// Called during NewConverter after options are applied and the asset loader is configured.
func (c *Converter) resolveStyle() error {
	input := c.cfg.styleInput
	if input == "" {
		return nil
	}

	// File path? (contains / or \)
	if fileutil.IsFilePath(input) {
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return fmt.Errorf("loading style file %q: %w", input, err)
		}
		c.cfg.resolvedStyle = string(content)
		return nil
	}

	// CSS content? (contains {)
	if strings.Contains(input, "{") {
		c.cfg.resolvedStyle = input
		return nil
	}

	css, err := c.assetLoader.LoadStyle(input)
	if err != nil {
		return fmt.Errorf("loading style %q: %w", input, convertAssetError(err))
	}
	c.cfg.resolvedStyle = css
	return nil
}

// validateInput checks that required fields are present and valid.
//
// This is a TRUST BOUNDARY for direct library users who build Input manually.
// CLI users have their input validated earlier by Config.Validate() at config load time.
func validateInput(input Input) error {
	if input.Notebook == nil {
		return ErrNilNotebook
	}
	if len(input.Notebook.Cells) == 0 {
		return ErrEmptyNotebook
	}
	if err := input.Resources.Validate(); err != nil {
		return err
	}
	return input.Page.Validate()
}

// toHeaderData builds the header template data.
func toHeaderData(title string, input Input) *pipeline.HeaderData {
	data := &pipeline.HeaderData{
		Title:    title,
		Variant:  input.Resources.Variant.String(),
		Metadata: input.Resources.Metadata,
	}
	if h := input.Header; h != nil {
		data.Course = h.Course
		data.Term = h.Term
		data.Instructor = h.Instructor
		data.Date = h.Date
		data.Due = h.Due
	}
	return data
}

// toFooterData converts the public Footer type to footerData.
func toFooterData(f *Footer, problem string) *footerData {
	if f == nil {
		return nil
	}
	data := &footerData{ShowPageNumber: f.ShowPageNumber, Text: f.Text}
	if f.ShowProblem {
		data.Problem = problem
	}
	return data
}
