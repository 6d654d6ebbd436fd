// Package notebook models Jupyter notebooks (nbformat v4) as an ordered
// sequence of typed cells and reads/writes their JSON serialization.
//
// Cell tags are lifted out of the metadata map into Cell.Tags on read and
// written back on write, so callers never poke at metadata["tags"] directly.
package notebook

import (
	"slices"
)

// Kind identifies the cell type.
type Kind string

// Cell kinds, using the nbformat cell_type values.
const (
	KindText Kind = "markdown"
	KindCode Kind = "code"
	KindRaw  Kind = "raw"
)

// Supported nbformat version.
const (
	FormatMajor = 4
	FormatMinor = 5
)

// Cell is one unit of notebook content.
type Cell struct {
	ID             string
	Kind           Kind
	Source         string
	Tags           []string
	Metadata       map[string]any
	Attachments    map[string]map[string]string // name -> mime -> base64 data
	Outputs        []Output                     // code cells only
	ExecutionCount *int                         // code cells only
}

// Notebook is an ordered list of cells plus document metadata.
type Notebook struct {
	Cells         []Cell
	Metadata      map[string]any
	NBFormat      int
	NBFormatMinor int
}

// New creates an empty nbformat v4 notebook holding the given cells.
func New(cells ...Cell) *Notebook {
	return &Notebook{
		Cells:         cells,
		Metadata:      map[string]any{},
		NBFormat:      FormatMajor,
		NBFormatMinor: FormatMinor,
	}
}

// NewTextCell returns a markdown cell with the given source.
func NewTextCell(source string) Cell {
	return Cell{Kind: KindText, Source: source, Metadata: map[string]any{}}
}

// NewCodeCell returns a code cell with the given source and no outputs.
func NewCodeCell(source string) Cell {
	return Cell{Kind: KindCode, Source: source, Metadata: map[string]any{}}
}

// NewRawCell returns a raw cell with the given source.
func NewRawCell(source string) Cell {
	return Cell{Kind: KindRaw, Source: source, Metadata: map[string]any{}}
}

// HasTag reports whether the cell carries tag.
func (c *Cell) HasTag(tag string) bool {
	return slices.Contains(c.Tags, tag)
}

// Clone returns a deep copy of the cell. Nested metadata maps and slices
// are copied so mutating the clone never affects the original.
func (c Cell) Clone() Cell {
	out := c
	out.Tags = slices.Clone(c.Tags)
	out.Metadata = cloneMap(c.Metadata)
	if c.Attachments != nil {
		out.Attachments = make(map[string]map[string]string, len(c.Attachments))
		for name, bundle := range c.Attachments {
			cp := make(map[string]string, len(bundle))
			for mime, data := range bundle {
				cp[mime] = data
			}
			out.Attachments[name] = cp
		}
	}
	if c.Outputs != nil {
		out.Outputs = make([]Output, len(c.Outputs))
		for i, o := range c.Outputs {
			out.Outputs[i] = o.Clone()
		}
	}
	if c.ExecutionCount != nil {
		n := *c.ExecutionCount
		out.ExecutionCount = &n
	}
	return out
}

// Clone returns a deep copy of the notebook.
func (nb *Notebook) Clone() *Notebook {
	if nb == nil {
		return nil
	}
	out := &Notebook{
		Metadata:      cloneMap(nb.Metadata),
		NBFormat:      nb.NBFormat,
		NBFormatMinor: nb.NBFormatMinor,
	}
	if nb.Cells != nil {
		out.Cells = make([]Cell, len(nb.Cells))
		for i, c := range nb.Cells {
			out.Cells[i] = c.Clone()
		}
	}
	return out
}

// cloneMap deep-copies JSON-shaped values (maps, slices, scalars).
func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		cp := make([]any, len(t))
		for i, e := range t {
			cp[i] = cloneValue(e)
		}
		return cp
	case []string:
		return slices.Clone(t)
	case map[string]string:
		cp := make(map[string]string, len(t))
		for k, s := range t {
			cp[k] = s
		}
		return cp
	default:
		return v
	}
}
