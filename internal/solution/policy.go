package solution

import "github.com/alnah/go-nb2hw/internal/notebook"

// Policy is the rewrite applied to one solution subsection.
type Policy int

const (
	PolicyFreeform Policy = iota
	PolicySketch
	PolicyByHand
)

// String returns the policy name for logs.
func (p Policy) String() string {
	switch p {
	case PolicySketch:
		return "sketch"
	case PolicyByHand:
		return "by-hand"
	default:
		return "freeform"
	}
}

// selectPolicy picks exactly one policy. Sketch wins over by-hand.
func selectPolicy(sketch, byHand bool) Policy {
	switch {
	case sketch:
		return PolicySketch
	case byHand:
		return PolicyByHand
	default:
		return PolicyFreeform
	}
}

// rewriteBlock builds the cells that replace one subsection's solution.
func rewriteBlock(p Policy) []notebook.Cell {
	switch p {
	case PolicySketch:
		return []notebook.Cell{SketchCell()}
	case PolicyByHand:
		return []notebook.Cell{ByHandCell()}
	default:
		return []notebook.Cell{ExplanationCell(), CodeAnswerCell(), AnswerBoxCell()}
	}
}
