package pipeline

import (
	"context"
	"regexp"
	"slices"
	"strings"
)

// Markup placeholders use Unicode Private Use Area characters.
// These pass through Goldmark unchanged (no WithUnsafe needed) and are
// turned into HTML by ConvertPlaceholders after conversion.
const (
	AlertStartPlaceholder = "\uE000" // followed by the alert type and AlertTypeEnd
	AlertTypeEnd          = "\uE001"
	AlertEndPlaceholder   = "\uE002"
	SupStartPlaceholder   = "\uE003"
	SupEndPlaceholder     = "\uE004"
	SubStartPlaceholder   = "\uE005"
	SubEndPlaceholder     = "\uE006"
	PageBreakPlaceholder  = "\uE007"
)

// AlertTypes are the Bootstrap alert types rendered as boxes.
var AlertTypes = []string{"success", "primary", "secondary", "warning", "danger", "info"}

// Precompiled regex patterns for performance.
var (
	// Line ending normalization
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// Compress multiple blank lines to max 2
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)

	// Opening or closing div tag. Group 1 is the class attribute, if any.
	divTagPattern = regexp.MustCompile(`(?i)<div(?:\s+class\s*=\s*"([^"]*)")?[^>]*>|</div\s*>`)

	// Raw superscript and subscript tags
	supSubPattern = regexp.MustCompile(`(?i)</?su[bp]>`)

	// Fence opener or closer
	fencePattern = regexp.MustCompile("^\\s{0,3}(```|~~~)")

	// Placeholder paragraphs produced by Goldmark
	alertStartHTML = regexp.MustCompile(`(?:<p>)?` + AlertStartPlaceholder + `([a-z]+)` + AlertTypeEnd + `(?:</p>)?`)
	alertEndHTML   = regexp.MustCompile(`(?:<p>)?` + AlertEndPlaceholder + `(?:</p>)?`)
	pageBreakHTML  = regexp.MustCompile(`(?:<p>)?` + PageBreakPlaceholder + `(?:</p>)?`)
)

// MarkdownPreprocessor defines the contract for markdown preprocessing.
type MarkdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, content string) string
}

// MarkupPreprocessor rewrites the raw HTML notebooks commonly use (alert
// divs, <sup>, <sub>) into placeholders Goldmark keeps intact.
type MarkupPreprocessor struct{}

// PreprocessMarkdown applies all transformations to prepare Markdown for conversion.
func (p *MarkupPreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	// Check for cancellation before processing
	if ctx.Err() != nil {
		return content
	}

	content = normalizeLineEndings(content)
	content = convertMarkup(content)
	content = compressBlankLines(content)
	return content
}

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// compressBlankLines limits consecutive blank lines to 2 maximum.
func compressBlankLines(content string) string {
	return multipleBlankLines.ReplaceAllString(content, "\n\n")
}

// convertMarkup replaces div and sup/sub tags outside fenced code.
// Divs are tracked as a stack so only the closing tag of an alert div
// becomes an alert end; other div wrappers are dropped.
func convertMarkup(content string) string {
	lines := strings.Split(content, "\n")
	var (
		stack   []bool // true when the open div is an alert
		inFence bool
		fence   string
	)

	for i, line := range lines {
		if m := fencePattern.FindStringSubmatch(line); m != nil {
			switch {
			case !inFence:
				inFence, fence = true, m[1]
			case m[1] == fence:
				inFence = false
			}
			continue
		}
		if inFence {
			continue
		}

		line = divTagPattern.ReplaceAllStringFunc(line, func(tag string) string {
			if strings.HasPrefix(tag, "</") {
				if len(stack) == 0 {
					return ""
				}
				alert := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if !alert {
					return ""
				}
				return "\n\n" + AlertEndPlaceholder + "\n\n"
			}

			sub := divTagPattern.FindStringSubmatch(tag)
			kind := alertType(sub[1])
			stack = append(stack, kind != "")
			if kind == "" {
				return ""
			}
			return "\n\n" + AlertStartPlaceholder + kind + AlertTypeEnd + "\n\n"
		})

		lines[i] = outsideCodeSpans(line, func(seg string) string {
			return supSubPattern.ReplaceAllStringFunc(seg, supSubPlaceholder)
		})
	}
	return strings.Join(lines, "\n")
}

// outsideCodeSpans applies fn to the parts of line outside backtick code
// spans. A backtick run without a closing run of the same length is text.
func outsideCodeSpans(line string, fn func(string) string) string {
	var b strings.Builder
	for line != "" {
		start := strings.IndexByte(line, '`')
		if start < 0 {
			b.WriteString(fn(line))
			break
		}
		n := backtickRun(line[start:])
		end := closingRun(line[start+n:], n)
		if end < 0 {
			b.WriteString(fn(line[:start+n]))
			line = line[start+n:]
			continue
		}
		b.WriteString(fn(line[:start]))
		stop := start + n + end + n
		b.WriteString(line[start:stop])
		line = line[stop:]
	}
	return b.String()
}

func backtickRun(s string) int {
	n := 0
	for n < len(s) && s[n] == '`' {
		n++
	}
	return n
}

// closingRun returns the offset of the first backtick run of exactly n, or -1.
func closingRun(s string, n int) int {
	for i := 0; i < len(s); {
		if s[i] != '`' {
			i++
			continue
		}
		run := backtickRun(s[i:])
		if run == n {
			return i
		}
		i += run
	}
	return -1
}

// alertType returns the Bootstrap type named by the first dashed class, or
// "" when the class list names no allowed type.
func alertType(classes string) string {
	for _, cls := range strings.Fields(classes) {
		parts := strings.Split(cls, "-")
		if len(parts) < 2 {
			continue
		}
		kind := strings.ToLower(parts[1])
		if slices.Contains(AlertTypes, kind) {
			return kind
		}
		return ""
	}
	return ""
}

func supSubPlaceholder(tag string) string {
	switch strings.ToLower(tag) {
	case "<sup>":
		return SupStartPlaceholder
	case "</sup>":
		return SupEndPlaceholder
	case "<sub>":
		return SubStartPlaceholder
	default:
		return SubEndPlaceholder
	}
}

// placeholderReplacer handles the inline placeholders.
var placeholderReplacer = strings.NewReplacer(
	SupStartPlaceholder, "<sup>",
	SupEndPlaceholder, "</sup>",
	SubStartPlaceholder, "<sub>",
	SubEndPlaceholder, "</sub>",
)

// ConvertPlaceholders turns placeholders back into HTML after Goldmark has
// run. This is the second half of MarkupPreprocessor.
func ConvertPlaceholders(content string) string {
	content = alertStartHTML.ReplaceAllString(content, `<div class="alert alert-$1">`)
	content = alertEndHTML.ReplaceAllString(content, `</div>`)
	content = pageBreakHTML.ReplaceAllString(content, `<div class="page-break"></div>`)
	return placeholderReplacer.Replace(content)
}
