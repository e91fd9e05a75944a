package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kathrine0/sitefeed/app/database"
	"golang.org/x/sync/errgroup"
)

type CollectionSync struct {
	Collection string
	database.SyncResult
}

// Syncer loads every declared collection from disk and mirrors it into the
// content store. Collections are loaded concurrently; the first failure
// cancels the rest.
type Syncer struct {
	loader ContentLoader
	repo   CollectionSyncer
}

func NewSyncer(loader ContentLoader, repo CollectionSyncer) *Syncer {
	return &Syncer{loader: loader, repo: repo}
}

func (s *Syncer) Run(ctx context.Context) ([]CollectionSync, error) {
	start := time.Now()
	names := s.loader.Collections()
	results := make([]CollectionSync, len(names))

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			entries, err := s.loader.LoadCollection(name)
			if err != nil {
				return err
			}

			if err := gctx.Err(); err != nil {
				return err
			}

			result, err := s.repo.SyncCollection(gctx, name, entries)
			if err != nil {
				return fmt.Errorf("failed to sync collection %q: %w", name, err)
			}

			results[i] = CollectionSync{Collection: name, SyncResult: result}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, r := range results {
		slog.Debug("Collection synced",
			"collection", r.Collection,
			"added", r.Added,
			"updated", r.Updated,
			"removed", r.Removed,
			"unchanged", r.Unchanged)
	}
	slog.Debug("Content synced", "collections", len(results), "duration", time.Since(start))

	return results, nil
}

func Changed(results []CollectionSync) bool {
	for _, r := range results {
		if r.Changed() {
			return true
		}
	}
	return false
}
