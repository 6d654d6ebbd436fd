package solution

import (
	"go.uber.org/zap"

	"github.com/alnah/go-nb2hw/internal/notebook"
)

// Strategy is the boundary detection method for one partition run.
type Strategy int

const (
	StrategyTags Strategy = iota
	StrategyLegacy
)

// String returns the strategy name for logs.
func (s Strategy) String() string {
	if s == StrategyLegacy {
		return "legacy"
	}
	return "tags"
}

// StrategyFor returns the strategy selected by res.
func StrategyFor(res Resources) Strategy {
	if res.Legacy {
		return StrategyLegacy
	}
	return StrategyTags
}

// Option configures a Partitioner.
type Option func(*Partitioner)

// WithLogger sets the logger that receives partition warnings.
// A nil logger is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(p *Partitioner) {
		if l != nil {
			p.log = l
		}
	}
}

// Partitioner splits a notebook at its solution boundary and rewrites the
// solution parts. It holds no per-run state and is safe for concurrent use.
type Partitioner struct {
	log *zap.Logger
}

// NewPartitioner creates a Partitioner. Without WithLogger, warnings are
// discarded.
func NewPartitioner(opts ...Option) *Partitioner {
	p := &Partitioner{log: zap.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Partition returns the variant of nb selected by res. The input notebook is
// never modified: the solution variant is an equal deep copy and the
// assignment variant is built from copies of the kept cells.
//
// Errors:
//   - ErrMissingVariant if res does not select a variant
//   - ErrNoSolutionMarker if the assignment variant finds no solution start
func (p *Partitioner) Partition(nb *notebook.Notebook, res Resources) (*notebook.Notebook, error) {
	if err := res.Validate(); err != nil {
		return nil, err
	}

	out := nb.Clone()
	if !res.Variant.RemoveSolution() {
		return out, nil
	}

	log := p.log.With(zap.String("problem", res.UniqueKey))

	var (
		cells []notebook.Cell
		err   error
	)
	switch StrategyFor(res) {
	case StrategyLegacy:
		log.Warn("legacy solution detection is deprecated, tag the solution and part cells instead")
		cells, err = partitionLegacy(out.Cells, res)
	default:
		cells, err = partitionTags(log, out.Cells, res)
	}
	if err != nil {
		return nil, err
	}

	out.Cells = cells
	return out, nil
}
