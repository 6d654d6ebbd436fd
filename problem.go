package nb2hw

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Problem is one notebook of an assignment.
type Problem struct {
	ID        string    // file stem, e.g. "homework-3-10"
	Notebook  *Notebook // required, never modified
	SourceDir string    // directory of the notebook, for relative images
	ByHand    bool      // students submit handwritten work for this problem
}

// ProblemNumber returns the integer after the last '-' in id.
// "homework-3-10" gives 10.
func ProblemNumber(id string) (int, error) {
	i := strings.LastIndex(id, "-")
	if i < 0 || i == len(id)-1 {
		return 0, fmt.Errorf("%w: %q has no numeric suffix", ErrInvalidProblemID, id)
	}
	n, err := strconv.Atoi(id[i+1:])
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q has no numeric suffix", ErrInvalidProblemID, id)
	}
	return n, nil
}

// SortProblems returns problems ordered by the numeric suffix of their IDs,
// so homework-3-2 comes before homework-3-10. The input slice is not
// modified. IDs must be unique and end in a number.
func SortProblems(problems []Problem) ([]Problem, error) {
	type keyed struct {
		n int
		p Problem
	}

	ks := make([]keyed, len(problems))
	seen := make(map[string]bool, len(problems))
	for i, p := range problems {
		if seen[p.ID] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateProblem, p.ID)
		}
		seen[p.ID] = true

		n, err := ProblemNumber(p.ID)
		if err != nil {
			return nil, err
		}
		ks[i] = keyed{n: n, p: p}
	}

	slices.SortStableFunc(ks, func(a, b keyed) int {
		if a.n != b.n {
			return a.n - b.n
		}
		return strings.Compare(a.p.ID, b.p.ID)
	})

	out := make([]Problem, len(ks))
	for i, k := range ks {
		out[i] = k.p
	}
	return out, nil
}
