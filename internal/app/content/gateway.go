// internal/app/content/gateway.go

// Package content defines the file-content gateway: the contract through
// which dossier documents' raw bytes are saved, loaded, and deleted.
// Physical storage is an external concern; the archive only holds content
// references.
package content

import (
	"context"
	"io"
)

// PutResult describes stored content.
type PutResult struct {
	Reference string
	Size      int64
}

// Gateway persists and retrieves raw document bytes by reference.
type Gateway interface {
	// Put stores the bytes and returns the reference to retrieve them.
	Put(ctx context.Context, r io.Reader, originalName, contentType string) (PutResult, error)

	// Get opens the bytes for the given reference.
	Get(ctx context.Context, reference string) (io.ReadCloser, error)

	// Delete removes the bytes. Deleting a missing reference is a no-op,
	// so retries after a partial permanent-delete stay idempotent.
	Delete(ctx context.Context, reference string) error

	// Exists reports whether the reference resolves to stored bytes.
	Exists(ctx context.Context, reference string) (bool, error)
}
