// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alnah/go-nb2hw/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for browser connection errors.
// Detects CI/Docker environment and suggests relevant environment variables.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing timeout for slow renders.
func ForTimeout() string {
	return format("notebooks with many plots render slowly, raise --timeout")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config and the user config location from searchedPaths.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/course.yaml"
	for _, p := range searchedPaths {
		if strings.Contains(filepath.ToSlash(p), "/go-nb2hw/") {
			hint += " or create " + p
			break
		}
	}
	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStyleNotFound returns hints for style not found errors.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForNoSolutionMarker explains how to mark where a problem's solution starts.
func ForNoSolutionMarker(legacy bool) string {
	if legacy {
		return format(`add a "## Solution" heading cell, or drop --legacy and tag the cell "solution"`)
	}
	return format(`tag the first solution cell "solution" and each subsection cell "part"`)
}

// ForNoProblems describes the expected problem notebook names for an
// assignment.
func ForNoProblems(assignment int) string {
	return format("expected notebooks named homework-" + strconv.Itoa(assignment) + "-<N>.ipynb")
}

// ForUnsafeClean explains how to clean when the output folder overlaps the
// assignment folder.
func ForUnsafeClean() string {
	return format("point --output or output.dir at a dedicated folder, such as the default \"output\"")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
