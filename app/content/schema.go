package content

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	CollectionBlog       = "blog"
	CollectionTalks      = "talks"
	CollectionActivities = "activitiesAndAppearances"
)

type BlogPost struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Draft       bool      `json:"draft,omitempty"`
	Cover       string    `json:"cover"`
}

func (p BlogPost) PublishedAt() time.Time { return p.Date }
func (p BlogPost) FeedTitle() string { return p.Title }
func (p BlogPost) FeedDescription() string { return p.Description }
func (p BlogPost) IsDraft() bool { return p.Draft }

// Talk has neither a date nor a draft flag and therefore cannot be sorted
// into a feed.
type Talk struct {
	Title      string `json:"title"`
	Slides     string `json:"slides,omitempty"`
	Repository string `json:"repository,omitempty"`
	Recording  string `json:"recording,omitempty"`
}

type Activity struct {
	Title       string    `json:"title"`
	Event       string    `json:"event"`
	Date        time.Time `json:"date"`
	Description string    `json:"description,omitempty"`
	Link        string    `json:"link,omitempty"`
}

func (a Activity) PublishedAt() time.Time { return a.Date }
func (a Activity) FeedTitle() string { return a.Title }

func (a Activity) FeedDescription() string {
	if a.Description != "" {
		return a.Description
	}
	return a.Event
}

// Validator is the type-erased view of a Schema used by loaders and stores.
type Validator interface {
	Name() string
	Validate(slug string, raw map[string]any) (any, error)
	Decode(data []byte) (any, error)
}

// Schema declares a collection together with the function that turns raw
// front matter into its typed value.
type Schema[T any] struct {
	name  string
	parse func(f *fields) T
}

func (s *Schema[T]) Name() string {
	return s.name
}

// Parse validates raw front matter and returns the typed value or a
// *ValidationError listing every offending field.
func (s *Schema[T]) Parse(slug string, raw map[string]any) (T, error) {
	f := newFields(raw)
	value := s.parse(f)
	if err := f.err(s.name, slug); err != nil {
		var zero T
		return zero, err
	}
	return value, nil
}

func (s *Schema[T]) Validate(slug string, raw map[string]any) (any, error) {
	return s.Parse(slug, raw)
}

func (s *Schema[T]) Decode(data []byte) (any, error) {
	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("failed to decode %s entry: %w", s.name, err)
	}
	return value, nil
}

var Blog = &Schema[BlogPost]{
	name: CollectionBlog,
	parse: func(f *fields) BlogPost {
		return BlogPost{
			Title:       f.requiredString("title"),
			Description: f.requiredString("description"),
			Date:        f.requiredDate("date"),
			Draft:       f.optionalBool("draft"),
			Cover:       f.requiredString("cover"),
		}
	},
}

var Talks = &Schema[Talk]{
	name: CollectionTalks,
	parse: func(f *fields) Talk {
		return Talk{
			Title:      f.requiredString("title"),
			Slides:     f.optionalString("slides"),
			Repository: f.optionalString("repository"),
			Recording:  f.optionalString("recording"),
		}
	},
}

var Activities = &Schema[Activity]{
	name: CollectionActivities,
	parse: func(f *fields) Activity {
		return Activity{
			Title:       f.requiredString("title"),
			Event:       f.requiredString("event"),
			Date:        f.requiredDate("date"),
			Description: f.optionalString("description"),
			Link:        f.optionalString("link"),
		}
	},
}

// Registry maps collection names to their schemas.
type Registry struct {
	schemas map[string]Validator
	names   []string
}

func NewRegistry(schemas ...Validator) *Registry {
	r := &Registry{schemas: make(map[string]Validator, len(schemas))}
	for _, schema := range schemas {
		if _, exists := r.schemas[schema.Name()]; exists {
			continue
		}
		r.schemas[schema.Name()] = schema
		r.names = append(r.names, schema.Name())
	}
	return r
}

// DefaultRegistry holds the blog, talks and activities collections.
func DefaultRegistry() *Registry {
	return NewRegistry(Blog, Talks, Activities)
}

func (r *Registry) Lookup(name string) (Validator, error) {
	schema, ok := r.schemas[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrCollectionNotFound, name)
	}
	return schema, nil
}

func (r *Registry) Names() []string {
	names := make([]string, len(r.names))
	copy(names, r.names)
	return names
}
