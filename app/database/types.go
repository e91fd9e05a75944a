package database

import (
	"time"
)

type Collection struct {
	Name     string
	SyncedAt time.Time
	Entries  int
	Drafts   int
}

// SyncResult counts what a collection sync changed.
type SyncResult struct {
	Added     int
	Updated   int
	Removed   int
	Unchanged int
}

func (r SyncResult) Changed() bool {
	return r.Added > 0 || r.Updated > 0 || r.Removed > 0
}
