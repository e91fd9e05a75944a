package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kathrine0/sitefeed/app/feed"
	"github.com/kathrine0/sitefeed/app/site"
	"github.com/kathrine0/sitefeed/app/sitemap"
)

const SitemapFile = "sitemap.xml"

type BuilderOptions struct {
	OutDir          string
	FeedPath        string
	FeedCollections []string
	PageCollections []string
}

type BuildResult struct {
	FeedFile    string
	SitemapFile string
	Items       int
}

// Builder writes the static artifacts of the site: the RSS feed and the
// sitemap. Builds are serialized. The builder stays dirty from the moment
// content changes until a build succeeds.
type Builder struct {
	mu        sync.Mutex
	dirty     atomic.Bool
	site      *site.Site
	assembler *feed.Assembler
	generator *feed.Generator
	validator *feed.Validator
	sitemap   *sitemap.Generator
	opts      BuilderOptions
}

func NewBuilder(s *site.Site, assembler *feed.Assembler, generator *feed.Generator, validator *feed.Validator, sitemapGenerator *sitemap.Generator, opts BuilderOptions) *Builder {
	b := &Builder{
		site:      s,
		assembler: assembler,
		generator: generator,
		validator: validator,
		sitemap:   sitemapGenerator,
		opts:      opts,
	}
	b.dirty.Store(true)
	return b
}

func (b *Builder) MarkDirty() {
	b.dirty.Store(true)
}

// Dirty reports whether the written artifacts may lag behind the store.
func (b *Builder) Dirty() bool {
	return b.dirty.Load()
}

func (b *Builder) Run(ctx context.Context) (BuildResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Cleared up front so changes synced during the build keep it dirty.
	b.dirty.Store(false)
	result, err := b.run(ctx)
	if err != nil {
		b.dirty.Store(true)
		return BuildResult{}, err
	}
	return result, nil
}

func (b *Builder) run(ctx context.Context) (BuildResult, error) {

	start := time.Now()

	metadata, items, err := b.assembler.Run(ctx, b.opts.FeedCollections, b.site.FeedMetadata())
	if err != nil {
		return BuildResult{}, fmt.Errorf("failed to assemble feed: %w", err)
	}

	feedData, err := b.generator.Run(metadata, items)
	if err != nil {
		return BuildResult{}, fmt.Errorf("failed to generate feed: %w", err)
	}

	if _, err := b.validator.Run(feedData, len(items)); err != nil {
		return BuildResult{}, fmt.Errorf("generated feed failed validation: %w", err)
	}

	sitemapData, err := b.sitemap.Run(ctx, b.site, b.opts.PageCollections)
	if err != nil {
		return BuildResult{}, fmt.Errorf("failed to generate sitemap: %w", err)
	}

	result := BuildResult{
		FeedFile:    filepath.Join(b.opts.OutDir, filepath.FromSlash(strings.TrimPrefix(b.opts.FeedPath, "/"))),
		SitemapFile: filepath.Join(b.opts.OutDir, SitemapFile),
		Items:       len(items),
	}

	if err := writeFileAtomic(result.FeedFile, feedData); err != nil {
		return BuildResult{}, err
	}
	if err := writeFileAtomic(result.SitemapFile, sitemapData); err != nil {
		return BuildResult{}, err
	}

	slog.Info("Site built",
		"feed", result.FeedFile,
		"sitemap", result.SitemapFile,
		"items", result.Items,
		"duration", time.Since(start))

	return result, nil
}

// writeFileAtomic writes data next to path and renames it into place, so
// readers never observe a partial file.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}

	return nil
}
