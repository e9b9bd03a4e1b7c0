package storage

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "uploads"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestSaveAndOpen(t *testing.T) {
	s := newTestStore(t)

	stored, err := s.Save("photo.jpg", []byte("jpeg bytes"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasSuffix(stored, "_photo.jpg") {
		t.Errorf("stored name %q should end with original filename", stored)
	}
	if strings.ContainsAny(stored, "/\\") {
		t.Errorf("stored name %q should be flat", stored)
	}

	f, err := s.Open(stored)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "jpeg bytes" {
		t.Errorf("contents = %q", data)
	}
}

func TestSaveSameNameDoesNotCollide(t *testing.T) {
	s := newTestStore(t)

	first, err := s.Save("photo.jpg", []byte("one"))
	if err != nil {
		t.Fatalf("first Save: %v", err)
	}
	second, err := s.Save("photo.jpg", []byte("two"))
	if err != nil {
		t.Fatalf("second Save: %v", err)
	}
	if first == second {
		t.Fatalf("stored names collide: %q", first)
	}

	f, err := s.Open(first)
	if err != nil {
		t.Fatalf("Open first: %v", err)
	}
	defer f.Close()
	data, _ := io.ReadAll(f)
	if string(data) != "one" {
		t.Errorf("first blob = %q, want %q", data, "one")
	}
}

func TestSaveStripsDirectoryComponents(t *testing.T) {
	s := newTestStore(t)

	stored, err := s.Save("../../../etc/passwd", []byte("x"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if strings.Contains(stored, "..") {
		t.Errorf("stored name %q should not contain traversal components", stored)
	}
	if _, err := os.Stat(filepath.Join(s.Dir(), stored)); err != nil {
		t.Errorf("blob should live inside uploads dir: %v", err)
	}
}

func TestPathRejectsEscape(t *testing.T) {
	s := newTestStore(t)

	for _, name := range []string{"../outside.jpg", "../../etc/passwd", "a/../../b"} {
		if _, err := s.Path(name); err == nil {
			t.Errorf("Path(%q) should fail", name)
		}
	}
}

func TestRemove(t *testing.T) {
	s := newTestStore(t)

	stored, err := s.Save("clip.mp4", []byte("video"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Remove(stored); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := s.Open(stored); err == nil {
		t.Error("removed blob should not open")
	}

	// Removing again is not an error.
	if err := s.Remove(stored); err != nil {
		t.Errorf("second Remove: %v", err)
	}
}

func TestRemoveAll(t *testing.T) {
	s := newTestStore(t)

	for _, name := range []string{"a.jpg", "b.mp4", "c.png"} {
		if _, err := s.Save(name, []byte(name)); err != nil {
			t.Fatalf("Save %s: %v", name, err)
		}
	}
	if err := s.RemoveAll(); err != nil {
		t.Fatalf("RemoveAll: %v", err)
	}

	entries, err := os.ReadDir(s.Dir())
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("uploads dir should be empty, has %d entries", len(entries))
	}
}
