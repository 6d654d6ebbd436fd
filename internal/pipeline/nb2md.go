package pipeline

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/alnah/go-nb2hw/internal/notebook"
)

// defaultLanguage is used when the notebook metadata names no kernel language.
const defaultLanguage = "python"

// Fence info strings for rendered outputs. Goldmark has no lexer for them,
// so they render as plain <code class="language-..."> blocks the stylesheet
// can target.
const (
	fenceOutput = "output"
	fenceStderr = "stderr"
	fenceError  = "error"
)

// pageBreakCommands are raw cell bodies that ask for a new page.
var pageBreakCommands = map[string]bool{
	`\newpage`:   true,
	`\pagebreak`: true,
	`\clearpage`: true,
}

// ansiEscape matches terminal color codes found in tracebacks.
var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)

// imageOutputs maps output MIME types to generated file extensions,
// in order of preference.
var imageOutputs = []struct{ mime, ext string }{
	{"image/png", ".png"},
	{"image/jpeg", ".jpg"},
	{"image/svg+xml", ".svg"},
}

// NotebookExporter defines the contract for notebook to markdown export.
type NotebookExporter interface {
	Export(ctx context.Context, nb *notebook.Notebook) (string, Files, error)
}

// MarkdownExporter renders a notebook as one markdown document. Text cells
// go through the markup preprocessor; code cells become fenced blocks
// followed by their outputs.
type MarkdownExporter struct {
	pre MarkdownPreprocessor
}

// NewMarkdownExporter creates a MarkdownExporter using MarkupPreprocessor.
func NewMarkdownExporter() *MarkdownExporter {
	return &MarkdownExporter{pre: &MarkupPreprocessor{}}
}

// Export renders nb. Images found in code outputs are returned as files
// named "output_<cell>_<output><ext>" and referenced by that name.
func (e *MarkdownExporter) Export(ctx context.Context, nb *notebook.Notebook) (string, Files, error) {
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}

	lang := kernelLanguage(nb.Metadata)
	files := Files{}
	blocks := make([]string, 0, len(nb.Cells))

	for i, c := range nb.Cells {
		switch c.Kind {
		case notebook.KindText:
			blocks = append(blocks, e.pre.PreprocessMarkdown(ctx, c.Source))

		case notebook.KindRaw:
			if pageBreakCommands[strings.TrimSpace(c.Source)] {
				blocks = append(blocks, PageBreakPlaceholder)
				continue
			}
			blocks = append(blocks, c.Source)

		case notebook.KindCode:
			if strings.TrimSpace(c.Source) != "" {
				blocks = append(blocks, fenced(lang, c.Source))
			}
			for j, out := range c.Outputs {
				block, err := renderOutput(out, i, j, files)
				if err != nil {
					return "", nil, fmt.Errorf("cell %d output %d: %w", i, j, err)
				}
				if block != "" {
					blocks = append(blocks, block)
				}
			}
		}
	}

	return strings.Join(blocks, "\n\n") + "\n", files, nil
}

// renderOutput returns the markdown for one output, registering images in
// files.
func renderOutput(out notebook.Output, cell, index int, files Files) (string, error) {
	switch out.OutputType {
	case notebook.OutputStream:
		if out.Name == "stderr" {
			return fenced(fenceStderr, string(out.Text)), nil
		}
		return fenced(fenceOutput, string(out.Text)), nil

	case notebook.OutputError:
		text := out.EName + ": " + out.EValue
		if len(out.Traceback) > 0 {
			text = strings.Join(out.Traceback, "\n")
		}
		return fenced(fenceError, ansiEscape.ReplaceAllString(text, "")), nil

	case notebook.OutputExecuteResult, notebook.OutputDisplayData:
		for _, img := range imageOutputs {
			payload, ok := out.DataText(img.mime)
			if !ok {
				continue
			}
			data, err := attachmentBytes(img.mime, payload)
			if err != nil {
				return "", fmt.Errorf("%w: %v", ErrAttachmentDecode, err)
			}
			name := "output_" + strconv.Itoa(cell) + "_" + strconv.Itoa(index) + img.ext
			files[name] = File{MIME: img.mime, Data: data}
			return "![output](" + name + ")", nil
		}
		if md, ok := out.DataText("text/markdown"); ok {
			return md, nil
		}
		if txt, ok := out.DataText("text/plain"); ok {
			return fenced(fenceOutput, txt), nil
		}
	}
	return "", nil
}

// fenced wraps body in a backtick fence longer than any run inside it.
func fenced(info, body string) string {
	fence := strings.Repeat("`", max(3, longestRun(body, '`')+1))
	return fence + info + "\n" + strings.TrimRight(body, "\n") + "\n" + fence
}

func longestRun(s string, r byte) int {
	longest, cur := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] == r {
			cur++
			longest = max(longest, cur)
		} else {
			cur = 0
		}
	}
	return longest
}

// kernelLanguage reads language_info.name, then kernelspec.language.
func kernelLanguage(md map[string]any) string {
	if info, ok := md["language_info"].(map[string]any); ok {
		if name, ok := info["name"].(string); ok && name != "" {
			return name
		}
	}
	if spec, ok := md["kernelspec"].(map[string]any); ok {
		if lang, ok := spec["language"].(string); ok && lang != "" {
			return lang
		}
	}
	return defaultLanguage
}
