package database

import (
	"context"

	"github.com/kathrine0/sitefeed/app/content"
)

type ContentRepository interface {
	content.Store

	SyncCollection(ctx context.Context, name string, entries []content.Entry) (SyncResult, error)
	ListCollections(ctx context.Context) ([]Collection, error)
	CountEntries(ctx context.Context) (int, error)
}
