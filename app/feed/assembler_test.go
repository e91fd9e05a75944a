package feed

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kathrine0/sitefeed/app/content"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func blogEntry(slug, title string, published time.Time, draft bool) content.Entry {
	return content.Entry{
		Collection: "blog",
		Slug:       slug,
		Data: content.BlogPost{
			Title:       title,
			Description: title + " description",
			Date:        published,
			Draft:       draft,
			Cover:       "/covers/" + slug + ".png",
		},
	}
}

func activityEntry(slug, title string, published time.Time) content.Entry {
	return content.Entry{
		Collection: "activitiesAndAppearances",
		Slug:       slug,
		Data: content.Activity{
			Title: title,
			Event: title + " event",
			Date:  published,
		},
	}
}

var testMetadata = Metadata{
	Title:       "Home",
	Description: "Personal homepage",
	SiteURL:     "https://example.com",
}

func TestAssemblerEndToEnd(t *testing.T) {
	store := content.NewMemoryStore()
	store.Put("blog", []content.Entry{
		blogEntry("a", "A", date(2023, 1, 1), false),
		blogEntry("b", "B", date(2024, 1, 1), true),
		blogEntry("c", "C", date(2023, 6, 1), false),
	})

	assembler := NewAssembler(store, nil, 0)
	metadata, items, err := assembler.Run(context.Background(), []string{Source(content.Blog)}, testMetadata)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if metadata != testMetadata {
		t.Errorf("Expected metadata to pass through unchanged, got %+v", metadata)
	}

	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(items))
	}
	if items[0].Title != "C" || items[1].Title != "A" {
		t.Errorf("Expected order [C, A], got [%s, %s]", items[0].Title, items[1].Title)
	}
}

func TestAssemblerProjection(t *testing.T) {
	store := content.NewMemoryStore()
	store.Put("blog", []content.Entry{blogEntry("hello-world", "Hello World", date(2023, 3, 4), false)})

	_, items, err := NewAssembler(store, nil, 0).Run(context.Background(), []string{"blog"}, testMetadata)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	item := items[0]
	if item.Link != "/blog/hello-world/" {
		t.Errorf("Expected link '/blog/hello-world/', got '%s'", item.Link)
	}
	if item.Title != "Hello World" {
		t.Errorf("Expected title 'Hello World', got '%s'", item.Title)
	}
	if item.Description != "Hello World description" {
		t.Errorf("Expected description 'Hello World description', got '%s'", item.Description)
	}
	if !item.PublicationDate.Equal(date(2023, 3, 4)) {
		t.Errorf("Expected publication date 2023-03-04, got %v", item.PublicationDate)
	}
	if item.Content != "" {
		t.Errorf("Expected no content without a renderer, got '%s'", item.Content)
	}
}

func TestAssemblerDraftCount(t *testing.T) {
	store := content.NewMemoryStore()
	var entries []content.Entry
	drafts := 0
	for i := 0; i < 20; i++ {
		draft := i%3 == 0
		if draft {
			drafts++
		}
		entries = append(entries, blogEntry(strings.Repeat("x", i+1), "post", date(2020, 1, 1).AddDate(0, 0, i), draft))
	}
	store.Put("blog", entries)

	_, items, err := NewAssembler(store, nil, 0).Run(context.Background(), []string{"blog"}, testMetadata)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(items) != len(entries)-drafts {
		t.Errorf("Expected %d items, got %d", len(entries)-drafts, len(items))
	}

	for i := 1; i < len(items); i++ {
		if items[i-1].PublicationDate.Before(items[i].PublicationDate) {
			t.Errorf("Items %d and %d are not in descending date order", i-1, i)
		}
	}
}

func TestAssemblerKeepsEntriesWithoutDraftField(t *testing.T) {
	store := content.NewMemoryStore()
	store.Put("activitiesAndAppearances", []content.Entry{
		activityEntry("meetup", "Meetup", date(2024, 2, 1)),
		activityEntry("podcast", "Podcast", date(2024, 3, 1)),
	})

	_, items, err := NewAssembler(store, nil, 0).Run(context.Background(), []string{Source(content.Activities)}, testMetadata)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("Expected both activities to be kept, got %d items", len(items))
	}
	if items[0].Link != "/activitiesAndAppearances/podcast/" {
		t.Errorf("Expected newest activity first, got '%s'", items[0].Link)
	}
	if items[1].Description != "Meetup event" {
		t.Errorf("Expected description to fall back to event, got '%s'", items[1].Description)
	}
}

func TestAssemblerStableForEqualDates(t *testing.T) {
	store := content.NewMemoryStore()
	same := date(2024, 5, 5)
	store.Put("blog", []content.Entry{
		blogEntry("first", "First", same, false),
		blogEntry("newest", "Newest", date(2024, 6, 1), false),
		blogEntry("second", "Second", same, false),
	})
	store.Put("activitiesAndAppearances", []content.Entry{
		activityEntry("third", "Third", same),
	})

	_, items, err := NewAssembler(store, nil, 0).Run(context.Background(), []string{"blog", "activitiesAndAppearances"}, testMetadata)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	var titles []string
	for _, item := range items {
		titles = append(titles, item.Title)
	}
	if strings.Join(titles, ",") != "Newest,First,Second,Third" {
		t.Errorf("Expected Newest,First,Second,Third, got %s", strings.Join(titles, ","))
	}
}

func TestAssemblerCollectionNotFound(t *testing.T) {
	store := content.NewMemoryStore()
	store.Put("blog", []content.Entry{blogEntry("a", "A", date(2023, 1, 1), false)})

	metadata, items, err := NewAssembler(store, nil, 0).Run(context.Background(), []string{"blog", "projects"}, testMetadata)
	if !errors.Is(err, content.ErrCollectionNotFound) {
		t.Fatalf("Expected ErrCollectionNotFound, got: %v", err)
	}
	if !strings.Contains(err.Error(), "projects") {
		t.Errorf("Expected error to name the collection, got: %v", err)
	}
	if items != nil || metadata != (Metadata{}) {
		t.Error("Expected no partial output on failure")
	}
}

func TestAssemblerTalksFailFast(t *testing.T) {
	store := content.NewMemoryStore()
	store.Put("blog", []content.Entry{blogEntry("a", "A", date(2023, 1, 1), false)})
	store.Put("talks", []content.Entry{{
		Collection: "talks",
		Slug:       "intro",
		Data:       content.Talk{Title: "Intro"},
	}})

	_, items, err := NewAssembler(store, nil, 0).Run(context.Background(), []string{"blog", "talks"}, testMetadata)
	if !errors.Is(err, ErrMissingSortKey) {
		t.Fatalf("Expected ErrMissingSortKey, got: %v", err)
	}
	if !strings.Contains(err.Error(), "talks/intro") {
		t.Errorf("Expected error to name the entry, got: %v", err)
	}
	if items != nil {
		t.Error("Expected no items on failure")
	}
}

func TestAssemblerZeroDateFailsFast(t *testing.T) {
	store := content.NewMemoryStore()
	store.Put("blog", []content.Entry{blogEntry("undated", "Undated", time.Time{}, false)})

	_, _, err := NewAssembler(store, nil, 0).Run(context.Background(), []string{"blog"}, testMetadata)
	if !errors.Is(err, ErrMissingSortKey) {
		t.Errorf("Expected ErrMissingSortKey, got: %v", err)
	}
}

func TestAssemblerMaxItemsAndContent(t *testing.T) {
	store := content.NewMemoryStore()
	first := blogEntry("one", "One", date(2023, 1, 1), false)
	first.Body = "Hello *world*"
	second := blogEntry("two", "Two", date(2023, 2, 1), false)
	second.Body = "Second body"
	store.Put("blog", []content.Entry{first, second})

	_, items, err := NewAssembler(store, content.NewMarkdown(), 1).Run(context.Background(), []string{"blog"}, testMetadata)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(items) != 1 || items[0].Title != "Two" {
		t.Fatalf("Expected only the newest item, got %+v", items)
	}
	if !strings.Contains(items[0].Content, "<p>Second body</p>") {
		t.Errorf("Expected rendered content, got '%s'", items[0].Content)
	}
}

func TestAssemblerNoCollections(t *testing.T) {
	_, items, err := NewAssembler(content.NewMemoryStore(), nil, 0).Run(context.Background(), nil, testMetadata)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("Expected no items, got %d", len(items))
	}
}
