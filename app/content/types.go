package content

import (
	"context"
	"errors"
)

var (
	ErrCollectionNotFound = errors.New("collection not found")
	ErrSchemaViolation    = errors.New("schema violation")
)

// Entry is one validated content item. Data holds the typed value produced by
// the collection's schema (BlogPost, Talk, Activity).
type Entry struct {
	Collection string
	Slug       string
	Data       any
	Body       string
}

// Path returns the canonical site path of the entry, e.g. /blog/hello-world/.
func (e Entry) Path() string {
	return "/" + e.Collection + "/" + e.Slug + "/"
}

// Store returns every entry of a named collection. Entries are schema-valid;
// order is unspecified. Unknown names fail with ErrCollectionNotFound.
type Store interface {
	GetCollection(ctx context.Context, name string) ([]Entry, error)
}
