package solution

// Variant selects which version of a problem is produced.
// The zero value means the caller never chose one.
type Variant int

const (
	VariantUnset      Variant = iota
	VariantAssignment         // solution removed, prompts inserted
	VariantSolution           // full solution kept
)

// String returns the variant name used in logs and file suffixes.
func (v Variant) String() string {
	switch v {
	case VariantAssignment:
		return "assignment"
	case VariantSolution:
		return "solution"
	default:
		return "unset"
	}
}

// RemoveSolution reports whether the variant strips the solution.
func (v Variant) RemoveSolution() bool {
	return v == VariantAssignment
}

// Resources configures one partition run.
type Resources struct {
	Variant   Variant
	ByHand    bool   // expect an image of handwritten work instead of typed work
	Legacy    bool   // detect boundaries from cell text instead of tags
	UniqueKey string // problem identifier, used in log fields

	// Metadata is passed through to the renderer untouched.
	Metadata map[string]any
}

// Validate checks that the resources can drive a partition.
func (r Resources) Validate() error {
	if r.Variant != VariantAssignment && r.Variant != VariantSolution {
		return ErrMissingVariant
	}
	return nil
}
