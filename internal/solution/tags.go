package solution

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/alnah/go-nb2hw/internal/notebook"
)

// Cell tags recognized by the tag strategy.
const (
	TagSolution = "solution"
	TagPart     = "part"
	TagSketch   = "sketch"
)

// partitionTags walks cells once. Every cell loses its tags on the way
// through, whether or not they mattered.
func partitionTags(log *zap.Logger, cells []notebook.Cell, res Resources) ([]notebook.Cell, error) {
	out := make([]notebook.Cell, 0, len(cells))
	started := false

	for i, cell := range cells {
		tags := cell.Tags
		cell.Tags = nil

		switch {
		case slices.Contains(tags, TagSolution):
			if started {
				log.Warn("duplicate solution marker, keeping cell", zap.Int("cell", i))
			}
			started = true
			out = append(out, cell)

		case slices.Contains(tags, TagPart):
			policy := selectPolicy(slices.Contains(tags, TagSketch), res.ByHand)
			out = append(out, cell)
			out = append(out, rewriteBlock(policy)...)

		default:
			if len(tags) > 0 {
				log.Warn("unknown cell tags", zap.Int("cell", i), zap.Strings("tags", tags))
			}
			if !started {
				out = append(out, cell)
			}
		}
	}

	// A tagged notebook without a solution cell is an error like in legacy
	// mode. Returning it unchanged would publish the solution to students.
	if !started {
		return nil, fmt.Errorf("%w: no cell is tagged %q", ErrNoSolutionMarker, TagSolution)
	}
	return out, nil
}
