package pipeline

import "github.com/alnah/go-nb2hw/internal/notebook"

// ToolbarKey is the notebook metadata key the classic Jupyter UI uses to
// remember which cell toolbar was open while authoring.
const ToolbarKey = "celltoolbar"

// StripToolbar returns a copy of nb without the authoring toolbar setting,
// so students do not open the assignment with the tag editor showing.
func StripToolbar(nb *notebook.Notebook) *notebook.Notebook {
	out := nb.Clone()
	if out != nil {
		delete(out.Metadata, ToolbarKey)
	}
	return out
}
