package nb2hw

import (
	"errors"

	"github.com/alnah/go-nb2hw/internal/notebook"
	"github.com/alnah/go-nb2hw/internal/solution"
)

// Sentinel errors for library operations.
var (
	ErrNilNotebook    = errors.New("notebook cannot be nil")
	ErrHTMLConversion = errors.New("HTML conversion failed")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")

	// Page settings validation errors.
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidMargin      = errors.New("invalid margin")

	// Asset loading errors.
	ErrStyleNotFound    = errors.New("style not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidAssetPath = errors.New("invalid asset path")

	// Assignment errors.
	ErrNoProblems       = errors.New("assignment has no problems")
	ErrDuplicateProblem = errors.New("duplicate problem ID")
	ErrInvalidProblemID = errors.New("invalid problem ID")
	ErrMerge            = errors.New("PDF merge failed")
	ErrArchive          = errors.New("archive creation failed")
)

// Notebook and partition errors, re-exported so callers can match them
// without importing internal packages.
var (
	ErrNotebookParse    = notebook.ErrParse
	ErrEmptyNotebook    = notebook.ErrEmptyNotebook
	ErrMissingVariant   = solution.ErrMissingVariant
	ErrNoSolutionMarker = solution.ErrNoSolutionMarker
)

// ProblemError attaches the failing problem to an error from an assignment
// build.
type ProblemError struct {
	ID      string
	Variant Variant
	Err     error
}

func (e *ProblemError) Error() string {
	if e.Variant == 0 {
		return e.ID + ": " + e.Err.Error()
	}
	return e.ID + " (" + e.Variant.String() + "): " + e.Err.Error()
}

// Unwrap returns the underlying error for errors.Is and errors.As.
func (e *ProblemError) Unwrap() error {
	return e.Err
}
