package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
)

// ErrHeaderRender indicates the header template failed to execute.
var ErrHeaderRender = errors.New("header template rendering failed")

// CSSInjector defines the contract for CSS injection into HTML.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
}

// CSSInjection injects CSS as a <style> block into HTML content.
type CSSInjection struct{}

// InjectCSS inserts a <style> block into HTML content.
// Tries </head> first, then <body>, then prepends to the HTML.
// CSS content is sanitized to prevent injection attacks.
func (s *CSSInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" {
		return htmlContent
	}

	// Check for cancellation
	if ctx.Err() != nil {
		return htmlContent
	}

	sanitizedCSS := sanitizeCSS(cssContent)
	styleBlock := "<style>" + sanitizedCSS + "</style>"
	lowerHTML := strings.ToLower(htmlContent)

	// Try inserting before </head>
	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}

	// Try inserting after <body>
	if idx := strings.Index(lowerHTML, "<body"); idx != -1 {
		// Find the closing > of <body...>
		closeIdx := strings.Index(htmlContent[idx:], ">")
		if closeIdx != -1 {
			insertPos := idx + closeIdx + 1
			return htmlContent[:insertPos] + styleBlock + htmlContent[insertPos:]
		}
	}

	// Fallback: prepend
	return styleBlock + htmlContent
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
// Prevents CSS injection by escaping </style> and similar closing sequences.
func sanitizeCSS(css string) string {
	// Escape </ sequences to prevent closing the style tag prematurely
	return strings.ReplaceAll(css, "</", `<\/`)
}

// HeaderData holds the problem header shown at the top of each rendered
// problem.
type HeaderData struct {
	Title      string // problem identifier, e.g. "homework-3-2"
	Course     string
	Term       string
	Instructor string
	Variant    string         // "assignment" or "solution"
	Date       string         // when the PDF was produced
	Due        string         // optional due date
	Metadata   map[string]any // passthrough from the partition resources
}

// HeaderInjector defines the contract for header injection into HTML.
type HeaderInjector interface {
	InjectHeader(ctx context.Context, htmlContent string, data *HeaderData) (string, error)
}

// HeaderInjection renders and injects a problem header into HTML content.
type HeaderInjection struct {
	tmpl *template.Template
}

// NewHeaderInjection creates a HeaderInjection from template content.
// Returns error if the template cannot be parsed.
func NewHeaderInjection(tmplContent string) (*HeaderInjection, error) {
	tmpl, err := template.New("header").Parse(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("parsing header template: %w", err)
	}

	return &HeaderInjection{tmpl: tmpl}, nil
}

// InjectHeader renders the header template and injects it after <body>.
// If data is nil, returns htmlContent unchanged.
// Returns error if template rendering fails.
func (h *HeaderInjection) InjectHeader(ctx context.Context, htmlContent string, data *HeaderData) (string, error) {
	if data == nil {
		return htmlContent, nil
	}

	// Check for cancellation
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	var buf bytes.Buffer
	if err := h.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrHeaderRender, err)
	}

	headerHTML := buf.String()
	lowerHTML := strings.ToLower(htmlContent)

	// Try inserting after <body>
	if idx := strings.Index(lowerHTML, "<body"); idx != -1 {
		// Find the closing > of <body...>
		closeIdx := strings.Index(htmlContent[idx:], ">")
		if closeIdx != -1 {
			insertPos := idx + closeIdx + 1
			return htmlContent[:insertPos] + headerHTML + htmlContent[insertPos:], nil
		}
	}

	// Fallback: prepend
	return headerHTML + htmlContent, nil
}
