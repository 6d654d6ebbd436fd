package main

import (
	"errors"
	"os"

	nb2hw "github.com/alnah/go-nb2hw"
	"github.com/alnah/go-nb2hw/internal/config"
	"github.com/alnah/go-nb2hw/internal/dateutil"
)

// Exit codes for nb2hw CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess  = 0 // Successful conversion
	ExitGeneral  = 1 // General/unexpected error
	ExitUsage    = 2 // Invalid flags, config, or validation
	ExitIO       = 3 // File not found, permission denied
	ExitBrowser  = 4 // Browser/Chrome errors
	ExitDocument = 5 // Notebook without a solution marker
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Malformed notebook (exit 5)
	if errors.Is(err, nb2hw.ErrNoSolutionMarker) {
		return ExitDocument
	}

	// Browser errors (exit 4)
	if errors.Is(err, nb2hw.ErrBrowserConnect) ||
		errors.Is(err, nb2hw.ErrPageCreate) ||
		errors.Is(err, nb2hw.ErrPageLoad) ||
		errors.Is(err, nb2hw.ErrPDFGeneration) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, nb2hw.ErrNotebookParse) ||
		errors.Is(err, ErrReadNotebook) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrAssignmentNotFound) ||
		errors.Is(err, ErrNoProblemsFound) ||
		errors.Is(err, ErrProblemNotFound) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, nb2hw.ErrMissingVariant) ||
		errors.Is(err, nb2hw.ErrEmptyNotebook) ||
		errors.Is(err, nb2hw.ErrInvalidPageSize) ||
		errors.Is(err, nb2hw.ErrInvalidOrientation) ||
		errors.Is(err, nb2hw.ErrInvalidMargin) ||
		errors.Is(err, nb2hw.ErrStyleNotFound) ||
		errors.Is(err, nb2hw.ErrTemplateNotFound) ||
		errors.Is(err, nb2hw.ErrInvalidAssetPath) ||
		errors.Is(err, nb2hw.ErrInvalidProblemID) ||
		errors.Is(err, nb2hw.ErrDuplicateProblem) ||
		errors.Is(err, dateutil.ErrInvalidDateFormat) ||
		errors.Is(err, dateutil.ErrInvalidDate) ||
		errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrMissingHW) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidTimeout) {
		return ExitUsage
	}

	return ExitGeneral
}
