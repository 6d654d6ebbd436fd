package nb2hw

import (
	"archive/zip"
	"bytes"
	"fmt"
	"time"
)

// ArchiveEntry is one file in a zip archive.
type ArchiveEntry struct {
	Name string
	Data []byte
}

// BuildArchive writes entries, in order, into an in-memory zip archive.
// Entries share modTime so archives built from the same input are
// byte-identical.
func BuildArchive(entries []ArchiveEntry, modTime time.Time) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if seen[e.Name] {
			return nil, fmt.Errorf("%w: duplicate entry %q", ErrArchive, e.Name)
		}
		seen[e.Name] = true

		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     e.Name,
			Method:   zip.Deflate,
			Modified: modTime,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrArchive, e.Name, err)
		}
		if _, err := w.Write(e.Data); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrArchive, e.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArchive, err)
	}
	return buf.Bytes(), nil
}
