package solution

import (
	"fmt"
	"strings"

	"github.com/alnah/go-nb2hw/internal/notebook"
)

// Text markers for the legacy strategy.
const (
	legacySolutionMarker = "## solution" // matched case-insensitively anywhere in the cell
	legacyPartPrefix     = "### "
	legacySketchWord     = "sketch"
)

// partitionLegacy finds boundaries from markdown headings. Only text cells
// can be boundaries; tags are left as they are.
func partitionLegacy(cells []notebook.Cell, res Resources) ([]notebook.Cell, error) {
	bounds := legacyBoundaries(cells)
	if len(bounds) == 0 {
		return nil, fmt.Errorf("%w: no markdown cell contains %q (case-insensitive)",
			ErrNoSolutionMarker, legacySolutionMarker)
	}

	out := make([]notebook.Cell, 0, bounds[0]+1+3*len(bounds))
	out = append(out, cells[:bounds[0]+1]...)

	if len(bounds) == 1 {
		return append(out, rewriteBlock(legacyPolicy(cells[bounds[0]], res))...), nil
	}
	for _, idx := range bounds[1:] {
		out = append(out, cells[idx])
		out = append(out, rewriteBlock(legacyPolicy(cells[idx], res))...)
	}
	return out, nil
}

// legacyBoundaries returns the solution start index followed by every later
// part heading index, or nil when the solution start is missing.
func legacyBoundaries(cells []notebook.Cell) []int {
	var bounds []int
	for i, c := range cells {
		if c.Kind != notebook.KindText {
			continue
		}
		if bounds == nil {
			if strings.Contains(strings.ToLower(c.Source), legacySolutionMarker) {
				bounds = append(bounds, i)
			}
			continue
		}
		if strings.HasPrefix(c.Source, legacyPartPrefix) {
			bounds = append(bounds, i)
		}
	}
	return bounds
}

func legacyPolicy(boundary notebook.Cell, res Resources) Policy {
	sketch := strings.Contains(strings.ToLower(boundary.Source), legacySketchWord)
	return selectPolicy(sketch, res.ByHand)
}
