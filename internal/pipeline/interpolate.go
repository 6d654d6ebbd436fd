package pipeline

import (
	"regexp"

	"github.com/alnah/go-nb2hw/internal/notebook"
)

// VariablesKey is the text cell metadata key holding substitution values.
const VariablesKey = "variables"

// placeholderPattern matches {{name}}, shortest body first.
var placeholderPattern = regexp.MustCompile(`{{(.*?)}}`)

// Interpolate replaces each {{name}} in source with vars[name], or with the
// empty string when name is unknown. Replacement is a single left-to-right
// pass; substituted values are never rescanned. Names are case-sensitive.
func Interpolate(source string, vars map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(source, func(m string) string {
		return vars[placeholderName(m)]
	})
}

// InterpolateCells returns a copy of nb with every text cell's variables
// substituted. When deleteVariables is set, a non-empty variables metadata
// key is removed afterwards; an empty one stays.
//
// A cell whose placeholders reference a non-string value keeps its source
// unchanged.
func InterpolateCells(nb *notebook.Notebook, deleteVariables bool) *notebook.Notebook {
	out := nb.Clone()
	if out == nil {
		return nil
	}

	for i := range out.Cells {
		c := &out.Cells[i]
		if c.Kind != notebook.KindText {
			continue
		}
		vars, ok := c.Metadata[VariablesKey].(map[string]any)
		if !ok || len(vars) == 0 {
			continue
		}
		if src, ok := interpolateAny(c.Source, vars); ok {
			c.Source = src
		}
		if deleteVariables {
			delete(c.Metadata, VariablesKey)
		}
	}
	return out
}

// interpolateAny substitutes from JSON-decoded metadata. It reports false
// when a referenced value is not a string.
func interpolateAny(source string, vars map[string]any) (string, bool) {
	ok := true
	result := placeholderPattern.ReplaceAllStringFunc(source, func(m string) string {
		v, found := vars[placeholderName(m)]
		if !found {
			return ""
		}
		s, isString := v.(string)
		if !isString {
			ok = false
		}
		return s
	})
	if !ok {
		return source, false
	}
	return result, true
}

func placeholderName(match string) string {
	return match[2 : len(match)-2]
}
