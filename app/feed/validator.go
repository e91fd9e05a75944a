package feed

import (
	"bytes"
	"fmt"

	"github.com/mmcdole/gofeed"
)

// Validator reads a generated document back with a feed parser to make sure
// readers will accept it.
type Validator struct {
	parser *gofeed.Parser
}

func NewValidator() *Validator {
	return &Validator{
		parser: gofeed.NewParser(),
	}
}

func (v *Validator) Run(data []byte, expectedItems int) (*gofeed.Feed, error) {
	parsed, err := v.parser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	if parsed.FeedType != "rss" {
		return nil, fmt.Errorf("%w: expected rss, got %q", ErrInvalidDocument, parsed.FeedType)
	}

	if len(parsed.Items) != expectedItems {
		return nil, fmt.Errorf("%w: expected %d items, parsed %d", ErrInvalidDocument, expectedItems, len(parsed.Items))
	}

	for i, item := range parsed.Items {
		if item.Link == "" || item.PublishedParsed == nil {
			return nil, fmt.Errorf("%w: item %d is missing a link or publication date", ErrInvalidDocument, i)
		}
	}

	return parsed, nil
}
