package notebook

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
)

// Sentinel errors for notebook decoding.
var (
	ErrParse             = errors.New("failed to parse notebook")
	ErrUnsupportedFormat = errors.New("unsupported nbformat version")
	ErrEmptyNotebook     = errors.New("notebook has no cells")
	ErrUnknownCellType   = errors.New("unknown cell type")
)

// MaxInputSize limits notebook input to prevent memory exhaustion (64MB).
var MaxInputSize int64 = 64 << 20

// tagsKey is the metadata key nbformat uses for cell tags.
const tagsKey = "tags"

type fileJSON struct {
	Cells         []json.RawMessage `json:"cells"`
	Metadata      map[string]any    `json:"metadata"`
	NBFormat      int               `json:"nbformat"`
	NBFormatMinor int               `json:"nbformat_minor"`
}

type cellJSON struct {
	ID             string                          `json:"id,omitempty"`
	CellType       Kind                            `json:"cell_type"`
	Metadata       map[string]any                  `json:"metadata"`
	Source         Multiline                       `json:"source"`
	Attachments    map[string]map[string]Multiline `json:"attachments,omitempty"`
	Outputs        []Output                        `json:"outputs,omitempty"`
	ExecutionCount *int                            `json:"execution_count,omitempty"`
}

// codeCellJSON differs from cellJSON only in that nbformat requires
// outputs and execution_count to be present (possibly empty/null).
type codeCellJSON struct {
	ID             string         `json:"id,omitempty"`
	CellType       Kind           `json:"cell_type"`
	Metadata       map[string]any `json:"metadata"`
	Source         Multiline      `json:"source"`
	Outputs        []Output       `json:"outputs"`
	ExecutionCount *int           `json:"execution_count"`
}

// Read decodes an nbformat v4 notebook from r.
func Read(r io.Reader) (*Notebook, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxInputSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading notebook: %w", err)
	}
	if int64(len(data)) > MaxInputSize {
		return nil, fmt.Errorf("%w: input exceeds %d bytes", ErrParse, MaxInputSize)
	}
	return Unmarshal(data)
}

// ReadFile decodes the notebook stored at path.
func ReadFile(path string) (*Notebook, error) {
	f, err := os.Open(path) // #nosec G304 -- caller-provided notebook path
	if err != nil {
		return nil, err
	}
	defer f.Close()

	nb, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return nb, nil
}

// Unmarshal decodes an nbformat v4 notebook from data.
func Unmarshal(data []byte) (*Notebook, error) {
	var raw fileJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if raw.NBFormat != FormatMajor {
		return nil, fmt.Errorf("%w: %d (want %d)", ErrUnsupportedFormat, raw.NBFormat, FormatMajor)
	}
	if len(raw.Cells) == 0 {
		return nil, ErrEmptyNotebook
	}

	nb := &Notebook{
		Cells:         make([]Cell, 0, len(raw.Cells)),
		Metadata:      raw.Metadata,
		NBFormat:      raw.NBFormat,
		NBFormatMinor: raw.NBFormatMinor,
	}
	if nb.Metadata == nil {
		nb.Metadata = map[string]any{}
	}

	for i, rc := range raw.Cells {
		var cj cellJSON
		if err := json.Unmarshal(rc, &cj); err != nil {
			return nil, fmt.Errorf("%w: cell %d: %v", ErrParse, i, err)
		}
		cell, err := cellFromJSON(cj)
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", i, err)
		}
		nb.Cells = append(nb.Cells, cell)
	}
	return nb, nil
}

func cellFromJSON(cj cellJSON) (Cell, error) {
	switch cj.CellType {
	case KindText, KindCode, KindRaw:
	default:
		return Cell{}, fmt.Errorf("%w: %q", ErrUnknownCellType, cj.CellType)
	}

	c := Cell{
		ID:             cj.ID,
		Kind:           cj.CellType,
		Source:         string(cj.Source),
		Metadata:       cj.Metadata,
		Outputs:        cj.Outputs,
		ExecutionCount: cj.ExecutionCount,
	}
	if c.Metadata == nil {
		c.Metadata = map[string]any{}
	}
	c.Tags = liftTags(c.Metadata)

	if len(cj.Attachments) > 0 {
		c.Attachments = make(map[string]map[string]string, len(cj.Attachments))
		for name, bundle := range cj.Attachments {
			m := make(map[string]string, len(bundle))
			for mime, data := range bundle {
				m[mime] = string(data)
			}
			c.Attachments[name] = m
		}
	}
	return c, nil
}

// liftTags removes metadata["tags"] and returns its string entries.
func liftTags(md map[string]any) []string {
	v, ok := md[tagsKey]
	if !ok {
		return nil
	}
	delete(md, tagsKey)

	list, ok := v.([]any)
	if !ok {
		return nil
	}
	tags := make([]string, 0, len(list))
	for _, t := range list {
		if s, ok := t.(string); ok {
			tags = append(tags, s)
		}
	}
	return tags
}

// Marshal encodes nb as nbformat JSON with one-space indentation, the
// layout Jupyter itself writes. Cells without an ID get one derived from
// their position, the nearest earlier ID and their source when the
// notebook's minor version requires IDs, so equal notebooks encode to equal
// bytes.
func Marshal(nb *Notebook) ([]byte, error) {
	out := struct {
		Cells         []any          `json:"cells"`
		Metadata      map[string]any `json:"metadata"`
		NBFormat      int            `json:"nbformat"`
		NBFormatMinor int            `json:"nbformat_minor"`
	}{
		Cells:         make([]any, 0, len(nb.Cells)),
		Metadata:      nb.Metadata,
		NBFormat:      nb.NBFormat,
		NBFormatMinor: nb.NBFormatMinor,
	}
	if out.Metadata == nil {
		out.Metadata = map[string]any{}
	}
	if out.NBFormat == 0 {
		out.NBFormat = FormatMajor
	}

	needIDs := out.NBFormatMinor >= 5
	prevID := ""
	for i, c := range nb.Cells {
		id := c.ID
		if id == "" && needIDs {
			id = derivedCellID(i, prevID, c.Source)
		}
		if id != "" {
			prevID = id
		}
		out.Cells = append(out.Cells, cellToJSON(c, id))
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", " ")
	if err := enc.Encode(out); err != nil {
		return nil, fmt.Errorf("encoding notebook: %w", err)
	}
	return buf.Bytes(), nil
}

// Write encodes nb to w.
func Write(w io.Writer, nb *Notebook) error {
	data, err := Marshal(nb)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// cellIDSpace namespaces generated cell IDs.
var cellIDSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/alnah/go-nb2hw/cell"))

func derivedCellID(index int, prevID, source string) string {
	return uuid.NewSHA1(cellIDSpace, fmt.Appendf(nil, "%d\x00%s\x00%s", index, prevID, source)).String()
}

func cellToJSON(c Cell, id string) any {
	md := make(map[string]any, len(c.Metadata)+1)
	for k, v := range c.Metadata {
		md[k] = v
	}
	if len(c.Tags) > 0 {
		md[tagsKey] = c.Tags
	}

	if c.Kind == KindCode {
		outputs := c.Outputs
		if outputs == nil {
			outputs = []Output{}
		}
		return codeCellJSON{
			ID:             id,
			CellType:       c.Kind,
			Metadata:       md,
			Source:         Multiline(c.Source),
			Outputs:        outputs,
			ExecutionCount: c.ExecutionCount,
		}
	}

	cj := cellJSON{
		ID:       id,
		CellType: c.Kind,
		Metadata: md,
		Source:   Multiline(c.Source),
	}
	if len(c.Attachments) > 0 {
		cj.Attachments = make(map[string]map[string]Multiline, len(c.Attachments))
		for name, bundle := range c.Attachments {
			m := make(map[string]Multiline, len(bundle))
			for mime, data := range bundle {
				m[mime] = Multiline(data)
			}
			cj.Attachments[name] = m
		}
	}
	return cj
}
