package core

import (
	"context"
	"encoding/json"
	"time"
)

type (
	// Document is an Excalidraw scene payload. The storage layer treats it
	// as opaque JSON; structural validation belongs to callers.
	Document = json.RawMessage

	// DrawingMeta describes a stored drawing.
	DrawingMeta struct {
		ID        string    `json:"id"`
		CreatedAt time.Time `json:"created_at"`
		SizeBytes int64     `json:"size_bytes"`
	}

	// DrawingStore is the persistence contract for shared drawings.
	// Implementations must be safe for concurrent use; consistency beyond a
	// single operation is not guaranteed.
	DrawingStore interface {
		// Save persists doc under id, overwriting any existing drawing
		// with that id.
		Save(ctx context.Context, id string, doc Document) (DrawingMeta, error)

		// Load returns the stored document for id, or ErrNotFound.
		Load(ctx context.Context, id string) (Document, error)

		// Delete removes the drawing under id, or returns ErrNotFound.
		Delete(ctx context.Context, id string) error

		// List returns metadata for every stored drawing, newest first.
		List(ctx context.Context) ([]DrawingMeta, error)

		// Exists reports whether a drawing is stored under id. Absence is
		// a valid false result, not an error.
		Exists(ctx context.Context, id string) (bool, error)
	}
)
