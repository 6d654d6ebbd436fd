// Package pipeline implements the notebook-to-HTML conversion pipeline.
//
// This package handles the document stages that run before and after
// solution partitioning:
//   - Raw cell removal and {{variable}} interpolation on notebooks
//   - Attachment extraction with sanitized file names
//   - Notebook to Markdown export (code fences, outputs, page breaks)
//   - Alert box and sup/sub markup via Private Use Area placeholders
//   - Markdown to HTML conversion via Goldmark
//   - CSS and problem header injection
//   - Embedding generated images as data URIs
//
// PDF generation is handled separately by the root nb2hw package using
// headless Chrome (go-rod). Solution partitioning lives in
// internal/solution.
package pipeline
