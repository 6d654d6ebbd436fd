package pipeline

import "github.com/alnah/go-nb2hw/internal/notebook"

// RemoveRawCells returns a copy of nb without raw cells. When includeRaw is
// true the copy keeps every cell. The order of kept cells is preserved.
func RemoveRawCells(nb *notebook.Notebook, includeRaw bool) *notebook.Notebook {
	out := nb.Clone()
	if includeRaw || out == nil {
		return out
	}

	kept := out.Cells[:0]
	for _, c := range out.Cells {
		if c.Kind != notebook.KindRaw {
			kept = append(kept, c)
		}
	}
	out.Cells = kept
	return out
}
