package core

import "errors"

// Error kinds surfaced by DrawingStore implementations. Stores wrap these
// with %w so callers can match them with errors.Is. The store itself never
// logs; mapping a kind to user-visible behavior is the caller's job.
var (
	// ErrNotFound means the targeted id has no backing drawing.
	ErrNotFound = errors.New("drawing not found")

	// ErrStorage means an I/O failure below the not-found check
	// (permissions, disk, directory scan).
	ErrStorage = errors.New("storage failure")

	// ErrSerialization means the input could not be encoded as JSON, or a
	// stored drawing turned out to be malformed.
	ErrSerialization = errors.New("invalid drawing data")
)
