package feed

import (
	"errors"
	"time"

	"github.com/kathrine0/sitefeed/app/content"
)

var (
	ErrMissingSortKey  = errors.New("entry has no publication date")
	ErrInvalidDocument = errors.New("invalid feed document")
)

// Publishable marks collection data that carries a publication date and can
// therefore be sorted into a feed.
type Publishable interface {
	PublishedAt() time.Time
	FeedTitle() string
	FeedDescription() string
}

// Draftable is implemented by collection data with a draft flag. Data without
// it is always published.
type Draftable interface {
	IsDraft() bool
}

var (
	_ Publishable = content.BlogPost{}
	_ Draftable   = content.BlogPost{}
	_ Publishable = content.Activity{}
)

// Source returns the collection name of a schema whose entries are
// publishable. Talks do not qualify, so Source(content.Talks) does not compile.
func Source[T Publishable](schema *content.Schema[T]) string {
	return schema.Name()
}

type Metadata struct {
	Title       string
	Description string
	SiteURL     string
	Language    string
}

type Item struct {
	Title           string
	Description     string
	PublicationDate time.Time
	Link            string // site-relative, e.g. /blog/hello-world/
	Content         string // rendered HTML, empty unless enabled
}

type Renderer interface {
	Render(markdown string) (string, error)
}
