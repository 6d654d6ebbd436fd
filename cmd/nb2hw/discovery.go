package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	nb2hw "github.com/alnah/go-nb2hw"
	"github.com/alnah/go-nb2hw/internal/fileutil"
)

// notebookExt is the problem notebook extension.
const notebookExt = ".ipynb"

// discoverProblems returns the notebook paths of an assignment.
// With no numbers, every homework-N-<digits>*.ipynb file in dir whose name
// ends in a problem number is returned. Otherwise each requested
// homework-N-P.ipynb must exist.
func discoverProblems(dir string, hw int, numbers []int) ([]string, error) {
	prefix := "homework-" + strconv.Itoa(hw) + "-"

	if len(numbers) > 0 {
		return requestedProblems(dir, prefix, numbers)
	}

	matches, err := filepath.Glob(filepath.Join(dir, prefix+"[0-9]*"+notebookExt))
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}

	paths := matches[:0]
	for _, m := range matches {
		if _, err := nb2hw.ProblemNumber(problemID(m)); err != nil {
			continue
		}
		if fileutil.FileExists(m) {
			paths = append(paths, m)
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoProblemsFound, dir)
	}
	return paths, nil
}

// requestedProblems maps problem numbers to paths, ignoring repeats.
func requestedProblems(dir, prefix string, numbers []int) ([]string, error) {
	seen := make(map[int]bool, len(numbers))
	paths := make([]string, 0, len(numbers))

	for _, n := range numbers {
		if seen[n] {
			continue
		}
		seen[n] = true

		path := filepath.Join(dir, prefix+strconv.Itoa(n)+notebookExt)
		if !fileutil.FileExists(path) {
			return nil, fmt.Errorf("%w: %s", ErrProblemNotFound, path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// problemID returns the file stem, e.g. "homework-3-10".
func problemID(path string) string {
	return strings.TrimSuffix(filepath.Base(path), notebookExt)
}
