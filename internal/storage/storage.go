package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"drone-media-map/internal/logging"
)

// Store persists uploaded media blobs under a single uploads directory.
// Stored names are timestamped to keep repeated uploads of the same
// filename from colliding.
type Store struct {
	dir string
}

// New creates the uploads directory if needed and returns a store
// rooted there.
func New(dir string) (*Store, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving uploads dir %s: %w", dir, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("creating uploads dir %s: %w", abs, err)
	}
	logging.Debug("upload store rooted at %s", abs)
	return &Store{dir: abs}, nil
}

// Dir returns the absolute uploads directory.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes blob contents under a timestamped variant of name and
// returns the stored filename, which callers keep as the record's
// source reference. Same-named uploads within one second get a counter
// suffix; O_EXCL keeps concurrent batch workers from clobbering each
// other.
func (s *Store) Save(name string, data []byte) (string, error) {
	ts := time.Now().UTC().Format("20060102_150405")
	base := sanitizeName(name)

	for i := 0; ; i++ {
		stored := ts + "_" + base
		if i > 0 {
			stored = fmt.Sprintf("%s_%d_%s", ts, i, base)
		}

		f, err := os.OpenFile(filepath.Join(s.dir, stored), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err != nil {
			if os.IsExist(err) {
				continue
			}
			return "", fmt.Errorf("creating %s: %w", stored, err)
		}

		if _, err := f.Write(data); err != nil {
			f.Close()
			return "", fmt.Errorf("writing %s: %w", stored, err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("writing %s: %w", stored, err)
		}
		return stored, nil
	}
}

// Open opens a stored blob for reading.
func (s *Store) Open(name string) (io.ReadCloser, error) {
	path, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}
	return f, nil
}

// Path resolves a stored name to an absolute path, rejecting anything
// that escapes the uploads directory.
func (s *Store) Path(name string) (string, error) {
	path := filepath.Join(s.dir, filepath.Clean("/"+name))
	rel, err := filepath.Rel(s.dir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid stored name %q", name)
	}
	return path, nil
}

// Remove deletes a stored blob. A missing file is not an error; the
// registry entry is authoritative and the blob may already be gone.
func (s *Store) Remove(name string) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing %s: %w", name, err)
	}
	return nil
}

// RemoveAll deletes every stored blob but keeps the directory.
func (s *Store) RemoveAll() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("listing uploads dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err != nil {
			logging.Warn("failed to remove %s: %v", e.Name(), err)
		}
	}
	return nil
}

// sanitizeName strips directory components and replaces separator
// characters so a stored name is always a single flat filename.
func sanitizeName(name string) string {
	name = filepath.Base(filepath.Clean(name))
	name = strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(name)
	if name == "" || name == "." {
		name = "upload"
	}
	return name
}
