package notebook

import (
	"encoding/json"
	"slices"
	"strings"
)

// Output types produced by code cells.
const (
	OutputStream        = "stream"
	OutputExecuteResult = "execute_result"
	OutputDisplayData   = "display_data"
	OutputError         = "error"
)

// Output is a single code cell output. Data keeps each MIME bundle entry
// as raw JSON since values may be strings, line lists, or JSON documents.
type Output struct {
	OutputType     string                     `json:"output_type"`
	Name           string                     `json:"name,omitempty"`
	Text           Multiline                  `json:"text,omitempty"`
	Data           map[string]json.RawMessage `json:"data,omitempty"`
	Metadata       map[string]any             `json:"metadata,omitempty"`
	ExecutionCount *int                       `json:"execution_count,omitempty"`
	EName          string                     `json:"ename,omitempty"`
	EValue         string                     `json:"evalue,omitempty"`
	Traceback      []string                   `json:"traceback,omitempty"`
}

// DataText returns the MIME bundle entry for mime as text. String and
// list-of-lines encodings are both accepted.
func (o *Output) DataText(mime string) (string, bool) {
	raw, ok := o.Data[mime]
	if !ok {
		return "", false
	}
	var m Multiline
	if err := json.Unmarshal(raw, &m); err != nil {
		return "", false
	}
	return string(m), true
}

// Clone returns a deep copy of the output.
func (o Output) Clone() Output {
	out := o
	if o.Data != nil {
		out.Data = make(map[string]json.RawMessage, len(o.Data))
		for k, v := range o.Data {
			out.Data[k] = slices.Clone(v)
		}
	}
	out.Metadata = cloneMap(o.Metadata)
	out.Traceback = slices.Clone(o.Traceback)
	if o.ExecutionCount != nil {
		n := *o.ExecutionCount
		out.ExecutionCount = &n
	}
	return out
}

// Multiline is nbformat's multiline string: either a JSON string or a list
// of lines that concatenate to the full text. It always marshals as a list.
type Multiline string

// UnmarshalJSON accepts both encodings.
func (m *Multiline) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*m = Multiline(s)
		return nil
	}
	var lines []string
	if err := json.Unmarshal(data, &lines); err != nil {
		return err
	}
	*m = Multiline(strings.Join(lines, ""))
	return nil
}

// MarshalJSON writes the list-of-lines form, each line keeping its newline.
func (m Multiline) MarshalJSON() ([]byte, error) {
	return json.Marshal(splitLines(string(m)))
}

// splitLines splits s after each newline, keeping the terminators.
func splitLines(s string) []string {
	lines := []string{}
	for s != "" {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			lines = append(lines, s)
			break
		}
		lines = append(lines, s[:i+1])
		s = s[i+1:]
	}
	return lines
}
