package pipeline

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alnah/go-nb2hw/internal/notebook"
)

// ErrAttachmentDecode indicates an attachment payload is not valid base64.
var ErrAttachmentDecode = errors.New("failed to decode attachment")

// attachmentScheme prefixes references to cell attachments in markdown.
const attachmentScheme = "attachment:"

// File is an in-memory resource produced while rendering a notebook.
type File struct {
	MIME string
	Data []byte
}

// Files maps generated file names to their content.
type Files map[string]File

// ExtractAttachments returns a copy of nb whose text cells reference their
// attachments by generated file names, plus the decoded attachment bytes
// keyed by those names. Names are "_<cell index>_<sanitized name>" so two
// cells can attach files with the same name. Attachments are removed from
// the copied cells.
func ExtractAttachments(nb *notebook.Notebook) (*notebook.Notebook, Files, error) {
	out := nb.Clone()
	files := Files{}
	if out == nil {
		return nil, files, nil
	}

	for i := range out.Cells {
		c := &out.Cells[i]
		if c.Kind != notebook.KindText || len(c.Attachments) == 0 {
			continue
		}

		for name, bundle := range c.Attachments {
			mime, payload, ok := pickImage(bundle)
			if !ok {
				continue
			}
			data, err := attachmentBytes(mime, payload)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: cell %d %q: %v", ErrAttachmentDecode, i, name, err)
			}

			target := "_" + strconv.Itoa(i) + "_" + SanitizeFilename(name)
			files[target] = File{MIME: mime, Data: data}
			c.Source = strings.ReplaceAll(c.Source, attachmentScheme+name, target)
		}
		c.Attachments = nil
	}
	return out, files, nil
}

// SanitizeFilename URL-unescapes the stem of name and replaces every
// character outside [A-Za-z0-9_.-] with '-'. The extension is kept as is.
func SanitizeFilename(name string) string {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	if unescaped, err := url.PathUnescape(stem); err == nil {
		stem = unescaped
	}

	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '_', r == '.', r == '-':
			return r
		default:
			return '-'
		}
	}, stem) + ext
}

// imageMIMEs lists attachment types in order of preference.
var imageMIMEs = []string{"image/png", "image/jpeg", "image/gif", "image/svg+xml", "image/webp"}

func pickImage(bundle map[string]string) (mime, payload string, ok bool) {
	for _, m := range imageMIMEs {
		if p, found := bundle[m]; found {
			return m, p, true
		}
	}
	return "", "", false
}

// attachmentBytes decodes a payload. SVG is stored as text, the rest as base64.
func attachmentBytes(mime, payload string) ([]byte, error) {
	if mime == "image/svg+xml" {
		return []byte(payload), nil
	}
	return decodeBase64(payload)
}

// decodeBase64 tolerates the line breaks nbformat writers insert.
func decodeBase64(s string) ([]byte, error) {
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == ' ' {
			return -1
		}
		return r
	}, s)
	return base64.StdEncoding.DecodeString(s)
}
