package api

import (
	"context"

	"github.com/kathrine0/sitefeed/app/content"
	"github.com/kathrine0/sitefeed/app/database"
	"github.com/kathrine0/sitefeed/app/feed"
	"github.com/kathrine0/sitefeed/app/tasks"
)

type ContentRepository interface {
	GetCollection(ctx context.Context, name string) ([]content.Entry, error)
	ListCollections(ctx context.Context) ([]database.Collection, error)
	CountEntries(ctx context.Context) (int, error)
}

var _ ContentRepository = (*database.EntryRepository)(nil)

type FeedAssembler interface {
	Run(ctx context.Context, collections []string, metadata feed.Metadata) (feed.Metadata, []feed.Item, error)
}

var _ FeedAssembler = (*feed.Assembler)(nil)

type Handler struct {
	repo            ContentRepository
	assembler       FeedAssembler
	metadata        feed.Metadata
	feedCollections []string
	scheduler       tasks.TaskSchedulerInterface
	rebuildTask     func() tasks.TaskInterface
	version         string
}

type collectionResponse struct {
	Name     string `json:"name"`
	SyncedAt string `json:"synced_at"`
	Entries  int    `json:"entries"`
	Drafts   int    `json:"drafts"`
}

type entryResponse struct {
	Slug string `json:"slug"`
	Path string `json:"path"`
	Data any    `json:"data"`
	Body string `json:"body,omitempty"`
}

type feedItemResponse struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	PublicationDate string `json:"publication_date"`
	Link            string `json:"link"`
}
