package nb2hw

import (
	"context"
	"fmt"
	"maps"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SolutionSuffix marks solution artifacts: homework-3-soln.pdf,
// homework-3-2-soln.ipynb.
const SolutionSuffix = "-soln"

// AssignmentInput describes one assignment build.
type AssignmentInput struct {
	Name     string    // artifact base name, e.g. "homework-3"
	Problems []Problem // any order; sorted by problem number
	Legacy   bool      // detect solutions from headings instead of tags

	Header *Header
	CSS    string
	Page   *PageSettings
	Footer *Footer

	// Metadata is passed to every problem's header template.
	Metadata map[string]any

	// NotebookOnly skips PDF rendering and merging.
	NotebookOnly bool
}

// AssignmentResult holds the combined artifacts of an assignment.
type AssignmentResult struct {
	Problems []string // problem IDs in output order

	AssignmentPDF []byte // nil when NotebookOnly
	SolutionPDF   []byte // nil when NotebookOnly

	AssignmentArchive []byte // zip of <id>.ipynb
	SolutionArchive   []byte // zip of <id>-soln.ipynb
}

// BuilderOption configures an AssignmentBuilder.
type BuilderOption func(*AssignmentBuilder)

// WithMerger replaces the pdfcpu page merger.
func WithMerger(m PageMerger) BuilderOption {
	return func(b *AssignmentBuilder) {
		if m != nil {
			b.merger = m
		}
	}
}

// WithBuilderLogger sets the logger for progress and timing events.
func WithBuilderLogger(l *zap.Logger) BuilderOption {
	return func(b *AssignmentBuilder) {
		if l != nil {
			b.log = l
		}
	}
}

// WithClock sets the time source used for archive timestamps.
func WithClock(now func() time.Time) BuilderOption {
	return func(b *AssignmentBuilder) {
		if now != nil {
			b.now = now
		}
	}
}

// AssignmentBuilder converts every problem of an assignment twice (assignment
// and solution variants) and combines the results.
type AssignmentBuilder struct {
	provider RendererProvider
	merger   PageMerger
	log      *zap.Logger
	now      func() time.Time
}

// NewAssignmentBuilder creates a builder that renders through provider.
// Up to provider.Size() problems are converted at once.
func NewAssignmentBuilder(provider RendererProvider, opts ...BuilderOption) *AssignmentBuilder {
	b := &AssignmentBuilder{
		provider: provider,
		merger:   NewPDFCPUMerger(),
		log:      zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// problemOutput holds both variants of one problem.
type problemOutput struct {
	assignment *ConvertResult
	solution   *ConvertResult
}

// Build converts all problems and returns the combined artifacts. Problems
// run in parallel but results are assembled in problem order. The first
// failure cancels the remaining work and is returned as a *ProblemError;
// no partial result is returned.
func (b *AssignmentBuilder) Build(ctx context.Context, in AssignmentInput) (*AssignmentResult, error) {
	if len(in.Problems) == 0 {
		return nil, ErrNoProblems
	}
	problems, err := SortProblems(in.Problems)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	outputs := make([]problemOutput, len(problems))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, b.provider.Size()))

	for i, p := range problems {
		g.Go(func() error {
			out, err := b.convertProblem(gctx, p, in)
			if err != nil {
				return err
			}
			outputs[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return b.combine(in, problems, outputs, start)
}

// convertProblem runs both variants of p on one renderer.
func (b *AssignmentBuilder) convertProblem(ctx context.Context, p Problem, in AssignmentInput) (problemOutput, error) {
	r, err := b.provider.Acquire(ctx)
	if err != nil {
		return problemOutput{}, &ProblemError{ID: p.ID, Err: err}
	}
	defer b.provider.Release(r)

	b.log.Info("working on problem", zap.String("problem", p.ID))

	var out problemOutput
	for _, variant := range []Variant{VariantAssignment, VariantSolution} {
		res, err := r.Convert(ctx, b.problemInput(p, variant, in))
		if err != nil {
			return problemOutput{}, &ProblemError{ID: p.ID, Variant: variant, Err: err}
		}
		if variant == VariantAssignment {
			out.assignment = res
		} else {
			out.solution = res
		}
	}
	return out, nil
}

// problemInput builds the conversion input for one pass.
func (b *AssignmentBuilder) problemInput(p Problem, variant Variant, in AssignmentInput) Input {
	var md map[string]any
	if in.Metadata != nil {
		md = maps.Clone(in.Metadata)
	}
	return Input{
		Notebook: p.Notebook,
		Resources: Resources{
			Variant:   variant,
			ByHand:    p.ByHand,
			Legacy:    in.Legacy,
			UniqueKey: p.ID,
			Metadata:  md,
		},
		SourceDir:    p.SourceDir,
		Header:       in.Header,
		CSS:          in.CSS,
		Page:         in.Page,
		Footer:       in.Footer,
		NotebookOnly: in.NotebookOnly,
	}
}

// combine merges the per-problem outputs in order.
func (b *AssignmentBuilder) combine(in AssignmentInput, problems []Problem, outputs []problemOutput, start time.Time) (*AssignmentResult, error) {
	res := &AssignmentResult{Problems: make([]string, len(problems))}

	assignEntries := make([]ArchiveEntry, len(problems))
	solnEntries := make([]ArchiveEntry, len(problems))
	var assignPDFs, solnPDFs [][]byte

	for i, p := range problems {
		res.Problems[i] = p.ID
		out := outputs[i]
		assignEntries[i] = ArchiveEntry{Name: p.ID + ".ipynb", Data: out.assignment.Notebook}
		solnEntries[i] = ArchiveEntry{Name: p.ID + SolutionSuffix + ".ipynb", Data: out.solution.Notebook}
		if !in.NotebookOnly {
			assignPDFs = append(assignPDFs, out.assignment.PDF)
			solnPDFs = append(solnPDFs, out.solution.PDF)
		}
	}

	modTime := b.now()
	var err error
	if res.AssignmentArchive, err = BuildArchive(assignEntries, modTime); err != nil {
		return nil, err
	}
	if res.SolutionArchive, err = BuildArchive(solnEntries, modTime); err != nil {
		return nil, err
	}

	if !in.NotebookOnly {
		if res.AssignmentPDF, err = b.merger.Merge(assignPDFs); err != nil {
			return nil, fmt.Errorf("merging assignment PDFs: %w", err)
		}
		if res.SolutionPDF, err = b.merger.Merge(solnPDFs); err != nil {
			return nil, fmt.Errorf("merging solution PDFs: %w", err)
		}
	}

	b.log.Info("assignment built",
		zap.String("assignment", in.Name),
		zap.Int("problems", len(problems)),
		zap.Duration("duration", time.Since(start)),
	)
	return res, nil
}
