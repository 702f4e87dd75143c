// internal/app/content/local.go
package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/google/uuid"
)

// Store implements Gateway over a waffle storage backend. References are
// relative slash paths of the form YYYY/MM/uuid-filename; resolving one is
// refused if it would escape the content root.
type Store struct {
	backend storage.Store
	local   *storage.Local
	root    string
}

// NewLocal creates a Store backed by local disk storage rooted at dir,
// creating the directory if needed.
func NewLocal(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create content root: %w", err)
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve content root: %w", err)
	}
	backend, err := storage.NewLocal(storage.LocalConfig{BasePath: root})
	if err != nil {
		return nil, fmt.Errorf("open content storage: %w", err)
	}
	return &Store{backend: backend, local: backend, root: root}, nil
}

// Put stores the bytes under a unique dated path.
func (s *Store) Put(ctx context.Context, r io.Reader, originalName, contentType string) (PutResult, error) {
	now := time.Now().UTC()
	dateDir := fmt.Sprintf("%04d/%02d", now.Year(), now.Month())
	uniqueName := fmt.Sprintf("%s-%s", uuid.New().String()[:8], sanitizeFilename(originalName))
	ref := filepath.ToSlash(filepath.Join(dateDir, uniqueName))

	counted := &countingReader{r: r}
	opts := &storage.PutOptions{ContentType: contentType}
	if err := s.backend.Put(ctx, ref, counted, opts); err != nil {
		return PutResult{}, fmt.Errorf("store content: %w", err)
	}
	return PutResult{Reference: ref, Size: counted.n}, nil
}

// Get opens the bytes for a reference.
func (s *Store) Get(ctx context.Context, reference string) (io.ReadCloser, error) {
	full, err := s.fullPath(reference)
	if err != nil {
		return nil, err
	}
	return os.Open(full)
}

// Delete removes the bytes; a missing reference is not an error.
func (s *Store) Delete(ctx context.Context, reference string) error {
	full, err := s.fullPath(reference)
	if err != nil {
		return err
	}
	if _, err := os.Stat(full); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := s.backend.Delete(ctx, reference); err != nil {
		return fmt.Errorf("delete content: %w", err)
	}
	return nil
}

// Exists reports whether the reference resolves to stored bytes.
func (s *Store) Exists(ctx context.Context, reference string) (bool, error) {
	full, err := s.fullPath(reference)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(full); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// fullPath resolves a reference to its on-disk path and verifies the result
// is still inside the content root. References arrive from stored metadata,
// never from generated paths alone, so containment is checked on every read.
func (s *Store) fullPath(reference string) (string, error) {
	joined := filepath.Join(s.root, filepath.FromSlash(reference))
	rel, err := filepath.Rel(s.root, joined)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("content reference escapes storage root: %q", reference)
	}
	return s.local.GetFullPath(reference)
}

// countingReader tracks how many bytes the backend consumed, so Put can
// report the stored size without a second pass.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// sanitizeFilename replaces characters that are unsafe in stored filenames.
func sanitizeFilename(filename string) string {
	filename = filepath.Base(filename)

	result := make([]byte, 0, len(filename))
	for i := 0; i < len(filename); i++ {
		c := filename[i]
		if isAllowedFilenameChar(c) {
			result = append(result, c)
		} else {
			result = append(result, '_')
		}
	}

	if len(result) == 0 {
		return "file"
	}
	if len(result) > 100 {
		ext := filepath.Ext(string(result))
		if len(ext) > 0 && len(ext) < 10 {
			result = append(result[:100-len(ext)], ext...)
		} else {
			result = result[:100]
		}
	}
	return string(result)
}

func isAllowedFilenameChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '.', c == '-', c == '_':
		return true
	}
	return false
}
