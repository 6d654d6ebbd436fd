// Package nb2hw turns instructor notebooks into homework assignments and
// their solutions.
//
// Each problem of an assignment is one Jupyter notebook holding the prompt
// followed by the full solution. The assignment variant keeps the prompt,
// drops the worked solution and inserts answer scaffolding in its place;
// the solution variant keeps everything.
//
// # Quick Start
//
// Convert a single problem:
//
//	conv, err := nb2hw.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	nb, err := nb2hw.ReadNotebook("homework-3-1.ipynb")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := conv.Convert(ctx, nb2hw.Input{
//	    Notebook:  nb,
//	    Resources: nb2hw.Resources{Variant: nb2hw.VariantAssignment, UniqueKey: "homework-3-1"},
//	})
//
// The result holds the rewritten notebook (result.Notebook), the HTML page
// (result.HTML) and the PDF (result.PDF). Use Input.NotebookOnly to skip
// rendering.
//
// # Marking Solutions
//
// Tag the first solution cell "solution". Inside the solution, tag each
// subsection heading "part"; add "sketch" to parts that expect a drawing.
// Notebooks written before tags were used can set Resources.Legacy to
// detect "## Solution" and "### " headings instead.
//
// # Conversion Pipeline
//
//  1. Raw cells removed (unless WithIncludeRaw)
//  2. {{ name }} placeholders interpolated from a variables cell
//  3. Solution partition for the requested variant
//  4. Notebook to Markdown, then HTML via Goldmark
//  5. CSS and problem header injection, images embedded
//  6. PDF rendering via headless Chrome (go-rod)
//
// # Assignments
//
// AssignmentBuilder runs every problem through a ConverterPool, both
// variants per problem, and merges the PDFs with pdfcpu:
//
//	pool := nb2hw.NewConverterPool(nb2hw.ResolvePoolSize(0))
//	defer pool.Close()
//
//	res, err := nb2hw.NewAssignmentBuilder(pool).Build(ctx, nb2hw.AssignmentInput{
//	    Name:     "homework-3",
//	    Problems: problems,
//	})
//
// Problems are ordered by the number after the last '-' in their ID. The
// first failing problem aborts the build with a *ProblemError.
//
// # Error Handling
//
// Errors wrap sentinels for use with errors.Is:
//
//	if errors.Is(err, nb2hw.ErrNoSolutionMarker) {
//	    // the notebook does not mark where its solution starts
//	}
package nb2hw
