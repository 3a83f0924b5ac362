// Package idgen produces identifiers for shared drawings. Both forms use
// only [a-z0-9], so sanitization never alters them.
package idgen

import (
	"strings"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// New returns a short shareable id: the first hyphen segment of a UUIDv4.
func New() string {
	id := uuid.NewString()
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

// NewUnique returns a longer fallback id for the rare case where New
// collides with an existing drawing. ULIDs are globally unique, so the
// caller does not need a second existence check.
func NewUnique() string {
	return strings.ToLower(ulid.Make().String())
}
