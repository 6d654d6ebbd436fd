package nb2hw

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"
	"time"
)

func TestBuildArchive(t *testing.T) {
	t.Parallel()

	modTime := time.Date(2026, 9, 8, 9, 30, 0, 0, time.UTC)
	entries := []ArchiveEntry{
		{Name: "homework-1-2.ipynb", Data: []byte(`{"cells":[]}`)},
		{Name: "homework-1-1.ipynb", Data: []byte(`{"cells":[1]}`)},
	}

	data, err := BuildArchive(entries, modTime)
	if err != nil {
		t.Fatalf("BuildArchive() unexpected error: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("zip.NewReader() error: %v", err)
	}
	if len(zr.File) != len(entries) {
		t.Fatalf("got %d entries, want %d", len(zr.File), len(entries))
	}
	for i, f := range zr.File {
		if f.Name != entries[i].Name {
			t.Errorf("entry %d name = %q, want %q (input order)", i, f.Name, entries[i].Name)
		}
		if !f.Modified.Equal(modTime) {
			t.Errorf("entry %d modified = %v, want %v", i, f.Modified, modTime)
		}
		if f.Method != zip.Deflate {
			t.Errorf("entry %d method = %d, want Deflate", i, f.Method)
		}
	}

	again, err := BuildArchive(entries, modTime)
	if err != nil {
		t.Fatalf("BuildArchive() unexpected error: %v", err)
	}
	if !bytes.Equal(data, again) {
		t.Error("archives from identical input differ")
	}
}

func TestBuildArchive_DuplicateName(t *testing.T) {
	t.Parallel()

	_, err := BuildArchive([]ArchiveEntry{
		{Name: "a.ipynb", Data: []byte("1")},
		{Name: "a.ipynb", Data: []byte("2")},
	}, time.Now())
	if !errors.Is(err, ErrArchive) {
		t.Errorf("BuildArchive() error = %v, want ErrArchive", err)
	}
}

func TestBuildArchive_Empty(t *testing.T) {
	t.Parallel()

	data, err := BuildArchive(nil, time.Now())
	if err != nil {
		t.Fatalf("BuildArchive() unexpected error: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("zip.NewReader() error: %v", err)
	}
	if len(zr.File) != 0 {
		t.Errorf("got %d entries, want 0", len(zr.File))
	}
}
