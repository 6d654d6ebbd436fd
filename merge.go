package nb2hw

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PageMerger concatenates PDF documents. Pages appear in input order.
type PageMerger interface {
	Merge(pdfs [][]byte) ([]byte, error)
}

// PDFCPUMerger merges PDFs in memory with pdfcpu.
type PDFCPUMerger struct {
	conf *model.Configuration
}

// Compile-time interface check.
var _ PageMerger = (*PDFCPUMerger)(nil)

// NewPDFCPUMerger creates a merger with relaxed validation, since Chrome
// output occasionally trips strict mode.
func NewPDFCPUMerger() *PDFCPUMerger {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &PDFCPUMerger{conf: conf}
}

// Merge returns one PDF containing every page of pdfs, in order.
// A single input is returned as a copy without re-encoding.
func (m *PDFCPUMerger) Merge(pdfs [][]byte) ([]byte, error) {
	switch len(pdfs) {
	case 0:
		return nil, fmt.Errorf("%w: no documents", ErrMerge)
	case 1:
		return bytes.Clone(pdfs[0]), nil
	}

	readers := make([]io.ReadSeeker, len(pdfs))
	for i, p := range pdfs {
		if len(p) == 0 {
			return nil, fmt.Errorf("%w: document %d is empty", ErrMerge, i)
		}
		readers[i] = bytes.NewReader(p)
	}

	var buf bytes.Buffer
	if err := api.MergeRaw(readers, &buf, false, m.conf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMerge, err)
	}
	return buf.Bytes(), nil
}
