package solution

import "github.com/alnah/go-nb2hw/internal/notebook"

// Prompt texts inserted into the assignment variant.
const (
	ByHandPrompt = "**Attach an image of your solution for this problem in this cell. " +
		"Attach multiple images, one in each cell, if necessary. Please make " +
		"sure the text is clear and legible.**"

	ExplanationPrompt = "**Write your engineering model, equations, and/or explanation of your process " +
		"here.**"

	CodeAnswerPrompt = "# Write your code here to solve the problem\n" +
		"# Make sure to write your final answer in the cell below."

	AnswerBoxPrompt = "<div class=\"alert alert-success\">\n\n**Answer:**\n\n</div>\n"

	SketchPrompt = "**Attach an image of your sketch for this problem in this cell.**"
)

// metaDeletable is the notebook metadata key that locks a cell in Jupyter.
const metaDeletable = "deletable"

// ByHandCell returns a new prompt for an attached handwritten solution.
func ByHandCell() notebook.Cell {
	return notebook.NewTextCell(ByHandPrompt)
}

// ExplanationCell returns a new prompt for the model and explanation.
func ExplanationCell() notebook.Cell {
	return notebook.NewTextCell(ExplanationPrompt)
}

// CodeAnswerCell returns a new empty code scaffold.
func CodeAnswerCell() notebook.Cell {
	return notebook.NewCodeCell(CodeAnswerPrompt)
}

// AnswerBoxCell returns a new answer box. Students cannot delete it.
func AnswerBoxCell() notebook.Cell {
	c := notebook.NewTextCell(AnswerBoxPrompt)
	c.Metadata[metaDeletable] = false
	return c
}

// SketchCell returns a new prompt for an attached sketch.
func SketchCell() notebook.Cell {
	return notebook.NewTextCell(SketchPrompt)
}
