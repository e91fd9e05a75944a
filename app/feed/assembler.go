package feed

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/kathrine0/sitefeed/app/content"
	"golang.org/x/sync/errgroup"
)

// Assembler turns content collections into an ordered list of feed items.
type Assembler struct {
	store    content.Store
	filterer *Filterer
	renderer Renderer
	maxItems int
}

// NewAssembler creates an assembler reading from store. renderer may be nil,
// in which case items carry no content. maxItems <= 0 means no limit.
func NewAssembler(store content.Store, renderer Renderer, maxItems int) *Assembler {
	return &Assembler{
		store:    store,
		filterer: NewFilterer(),
		renderer: renderer,
		maxItems: maxItems,
	}
}

// Run loads every named collection, drops drafts, sorts by publication date
// (newest first, equal dates keep their load order) and projects the entries
// into items. Metadata is returned unchanged. Any failure aborts the whole
// run; no partial item list is returned.
func (a *Assembler) Run(ctx context.Context, collections []string, metadata Metadata) (Metadata, []Item, error) {
	start := time.Now()

	batches := make([][]content.Entry, len(collections))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range collections {
		g.Go(func() error {
			entries, err := a.store.GetCollection(gctx, name)
			if err != nil {
				return fmt.Errorf("failed to get collection %q: %w", name, err)
			}
			batches[i] = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Metadata{}, nil, err
	}

	var working []Published
	for _, batch := range batches {
		kept, err := a.filterer.Run(batch)
		if err != nil {
			return Metadata{}, nil, err
		}
		working = append(working, kept...)
	}

	slices.SortStableFunc(working, func(x, y Published) int {
		return y.Data.PublishedAt().Compare(x.Data.PublishedAt())
	})

	if a.maxItems > 0 && len(working) > a.maxItems {
		working = working[:a.maxItems]
	}

	items := make([]Item, 0, len(working))
	for _, p := range working {
		item, err := a.project(p)
		if err != nil {
			return Metadata{}, nil, err
		}
		items = append(items, item)
	}

	slog.Debug("Feed assembled",
		"collections", collections,
		"items", len(items),
		"duration", time.Since(start))

	return metadata, items, nil
}

func (a *Assembler) project(p Published) (Item, error) {
	item := Item{
		Title:           p.Data.FeedTitle(),
		Description:     p.Data.FeedDescription(),
		PublicationDate: p.Data.PublishedAt(),
		Link:            p.Entry.Path(),
	}

	if a.renderer != nil && p.Entry.Body != "" {
		html, err := a.renderer.Render(p.Entry.Body)
		if err != nil {
			return Item{}, fmt.Errorf("failed to render %s/%s: %w", p.Entry.Collection, p.Entry.Slug, err)
		}
		item.Content = html
	}

	return item, nil
}
