package content

import (
	"errors"
	"testing"
	"time"
)

func TestBlogSchemaParse(t *testing.T) {
	raw := map[string]any{
		"title":       "Hello World",
		"description": "First post",
		"date":        "2023-06-01",
		"draft":       true,
		"cover":       "/covers/hello.png",
		"unknown":     "ignored",
	}

	post, err := Blog.Parse("hello-world", raw)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if post.Title != "Hello World" {
		t.Errorf("Expected title 'Hello World', got '%s'", post.Title)
	}
	if !post.Date.Equal(time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected date 2023-06-01, got %v", post.Date)
	}
	if !post.Draft {
		t.Error("Expected draft to be true")
	}
	if post.Cover != "/covers/hello.png" {
		t.Errorf("Expected cover '/covers/hello.png', got '%s'", post.Cover)
	}
}

func TestBlogSchemaDraftDefaultsToFalse(t *testing.T) {
	raw := map[string]any{
		"title":       "Post",
		"description": "Desc",
		"date":        time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		"cover":       "cover.png",
	}

	post, err := Blog.Parse("post", raw)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if post.Draft {
		t.Error("Expected draft to default to false")
	}
	if post.Date.Year() != 2024 {
		t.Errorf("Expected year 2024, got %d", post.Date.Year())
	}
}

func TestBlogSchemaCollectsAllIssues(t *testing.T) {
	raw := map[string]any{
		"title": 42,
		"date":  "not a date",
		"draft": "yes",
	}

	_, err := Blog.Parse("broken", raw)
	if err == nil {
		t.Fatal("Expected validation error")
	}

	if !errors.Is(err, ErrSchemaViolation) {
		t.Errorf("Expected ErrSchemaViolation, got: %v", err)
	}

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("Expected *ValidationError, got %T", err)
	}

	if validationErr.Collection != "blog" || validationErr.Slug != "broken" {
		t.Errorf("Expected blog/broken, got %s/%s", validationErr.Collection, validationErr.Slug)
	}

	expected := map[string]bool{"title": true, "description": true, "date": true, "draft": true, "cover": true}
	if len(validationErr.Issues) != len(expected) {
		t.Errorf("Expected %d issues, got %d: %v", len(expected), len(validationErr.Issues), validationErr.Issues)
	}
	for _, issue := range validationErr.Issues {
		if !expected[issue.Field] {
			t.Errorf("Unexpected issue for field %s", issue.Field)
		}
	}
}

func TestTalkSchemaOptionalFields(t *testing.T) {
	talk, err := Talks.Parse("intro", map[string]any{
		"title":     "Intro to Go",
		"recording": "https://youtube.com/watch?v=1",
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if talk.Recording != "https://youtube.com/watch?v=1" {
		t.Errorf("Expected recording to be set, got '%s'", talk.Recording)
	}
	if talk.Slides != "" || talk.Repository != "" {
		t.Error("Expected missing optional fields to stay empty")
	}

	if _, err := Talks.Parse("empty", nil); !errors.Is(err, ErrSchemaViolation) {
		t.Errorf("Expected schema violation for missing title, got: %v", err)
	}
}

func TestActivityDescriptionFallsBackToEvent(t *testing.T) {
	activity, err := Activities.Parse("conf", map[string]any{
		"title": "Speaking at GopherCon",
		"event": "GopherCon EU",
		"date":  "2024-06-17T09:00:00Z",
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if activity.FeedDescription() != "GopherCon EU" {
		t.Errorf("Expected description to fall back to event, got '%s'", activity.FeedDescription())
	}
}

func TestSchemaDecodeRoundTrip(t *testing.T) {
	value, err := Blog.Decode([]byte(`{"title":"T","description":"D","date":"2023-01-01T00:00:00Z","cover":"c"}`))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	post, ok := value.(BlogPost)
	if !ok {
		t.Fatalf("Expected BlogPost, got %T", value)
	}
	if post.Title != "T" || post.Date.Year() != 2023 {
		t.Errorf("Unexpected decoded post: %+v", post)
	}
}

func TestRegistryLookup(t *testing.T) {
	registry := DefaultRegistry()

	names := registry.Names()
	if len(names) != 3 || names[0] != "blog" || names[1] != "talks" || names[2] != "activitiesAndAppearances" {
		t.Errorf("Unexpected registry names: %v", names)
	}

	if _, err := registry.Lookup("blog"); err != nil {
		t.Errorf("Expected blog schema, got error: %v", err)
	}
	if _, err := registry.Lookup("projects"); !errors.Is(err, ErrCollectionNotFound) {
		t.Errorf("Expected ErrCollectionNotFound, got: %v", err)
	}
}

func TestEntryPath(t *testing.T) {
	entry := Entry{Collection: "blog", Slug: "hello-world"}
	if entry.Path() != "/blog/hello-world/" {
		t.Errorf("Expected '/blog/hello-world/', got '%s'", entry.Path())
	}
}
