package pipeline

import (
	"encoding/base64"
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-nb2hw/internal/fileutil"
)

// EmbedResources resolves image and link references in rendered notebook
// HTML. Images whose src names a generated file in files are inlined as
// data URIs; remaining relative paths become absolute file:// URLs under
// sourceDir. With no files and an empty sourceDir the HTML is returned
// unchanged.
//
// Rewrites:
//   - img[src]: generated files, then relative paths to images
//   - a[href]: relative file paths (not anchors, not URLs)
//
// Does NOT rewrite (by design):
//   - video, audio, source elements (PDFs don't support media)
//   - srcset attributes (complex format, out of scope)
//   - CSS url() references (out of scope)
//   - script[src] (security)
//   - Absolute paths or URLs (already resolved)
func EmbedResources(htmlContent, sourceDir string, files Files) (string, error) {
	if sourceDir == "" && len(files) == 0 {
		return htmlContent, nil
	}

	r := resourceRewriter{files: files}
	if sourceDir != "" {
		// Make sourceDir absolute for consistent path resolution
		absSourceDir, err := filepath.Abs(sourceDir)
		if err != nil {
			return "", err
		}
		r.sourceDir = absSourceDir
	}

	// Parse HTML - detect if full document or fragment
	doc, isFragment, err := parseHTML(htmlContent)
	if err != nil {
		return "", err
	}

	// Rewrite references in the document tree
	r.rewriteNode(doc)

	// Render back to string
	return renderHTML(doc, isFragment)
}

// parseHTML parses HTML content, handling both full documents and fragments.
// Returns the parsed node, whether it was a fragment, and any error.
func parseHTML(content string) (*html.Node, bool, error) {
	trimmed := strings.TrimSpace(content)

	// Full document: starts with <!DOCTYPE or <html
	if strings.HasPrefix(strings.ToLower(trimmed), "<!doctype") ||
		strings.HasPrefix(strings.ToLower(trimmed), "<html") {
		doc, err := html.Parse(strings.NewReader(content))
		return doc, false, err
	}

	// Fragment: parse with body context to avoid wrapping
	context := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), context)
	if err != nil {
		return nil, true, err
	}

	// Wrap nodes in a container for uniform traversal
	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}

	return container, true, nil
}

// renderHTML renders the document back to string.
// For fragments, only renders the children (avoids adding <html><body> wrapper).
func renderHTML(doc *html.Node, isFragment bool) (string, error) {
	var buf strings.Builder

	if isFragment {
		// Render each child directly
		for c := doc.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(&buf, c); err != nil {
				return "", err
			}
		}
		return buf.String(), nil
	}

	// Full document: render normally
	if err := html.Render(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// resourceRewriter holds the lookup state for one EmbedResources call.
type resourceRewriter struct {
	sourceDir string
	files     Files
}

// rewriteNode traverses the DOM and rewrites references.
func (r *resourceRewriter) rewriteNode(n *html.Node) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "img":
			if !r.embedAttr(n, "src") {
				r.rewriteAttr(n, "src")
			}
		case "a":
			r.rewriteAttr(n, "href")
			// Note: video, audio, source intentionally NOT rewritten (PDFs don't support media)
			// Note: srcset intentionally NOT rewritten (complex format, out of scope)
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		r.rewriteNode(c)
	}
}

// embedAttr replaces attrName with a data URI when it names a generated file.
func (r *resourceRewriter) embedAttr(n *html.Node, attrName string) bool {
	for i, attr := range n.Attr {
		if attr.Key != attrName {
			continue
		}
		f, ok := r.files[attr.Val]
		if !ok {
			return false
		}
		n.Attr[i].Val = "data:" + f.MIME + ";base64," + base64.StdEncoding.EncodeToString(f.Data)
		return true
	}
	return false
}

// rewriteAttr rewrites a single attribute if it's a relative path.
func (r *resourceRewriter) rewriteAttr(n *html.Node, attrName string) {
	if r.sourceDir == "" {
		return
	}
	for i, attr := range n.Attr {
		if attr.Key != attrName {
			continue
		}
		if !isRelativePath(attr.Val) {
			continue
		}

		absPath := filepath.Join(r.sourceDir, attr.Val)

		// Security: validate path is under sourceDir (prevent traversal)
		if !isPathUnderDir(absPath, r.sourceDir) {
			continue // Skip rewriting, leave original path
		}

		// Convert to file:// URL (handles Windows paths correctly)
		n.Attr[i].Val = pathToFileURL(absPath)
	}
}

// isRelativePath returns true if the path should be rewritten.
func isRelativePath(path string) bool {
	if path == "" {
		return false
	}

	// Skip URLs (http, https, file, data, protocol-relative)
	if fileutil.IsURL(path) ||
		strings.HasPrefix(path, "file://") ||
		strings.HasPrefix(path, "data:") ||
		strings.HasPrefix(path, "//") {
		return false
	}

	// Skip anchors
	if strings.HasPrefix(path, "#") {
		return false
	}

	// Skip absolute paths
	if filepath.IsAbs(path) {
		return false
	}

	return true
}

// isPathUnderDir checks if absPath is under dir (prevents path traversal).
func isPathUnderDir(absPath, dir string) bool {
	cleanPath := filepath.Clean(absPath)
	cleanDir := filepath.Clean(dir)

	// Ensure dir ends with separator for correct prefix matching
	if !strings.HasSuffix(cleanDir, string(filepath.Separator)) {
		cleanDir += string(filepath.Separator)
	}

	// Path is under dir if it starts with dir/ or equals dir
	return strings.HasPrefix(cleanPath+string(filepath.Separator), cleanDir)
}

// pathToFileURL converts an absolute path to a file:// URL.
// Handles both Unix and Windows paths correctly.
func pathToFileURL(absPath string) string {
	// filepath.ToSlash handles Windows backslashes
	u := url.URL{
		Scheme: "file",
		Path:   filepath.ToSlash(absPath),
	}
	return u.String()
}
