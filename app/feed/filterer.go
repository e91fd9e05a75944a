package feed

import (
	"fmt"

	"github.com/kathrine0/sitefeed/app/content"
)

// Published pairs an entry with its publication data.
type Published struct {
	Entry content.Entry
	Data  Publishable
}

type Filterer struct{}

func NewFilterer() *Filterer {
	return &Filterer{}
}

// Run drops drafts and returns the remaining entries with their publication
// data. An entry without a publication date aborts the run.
func (f *Filterer) Run(entries []content.Entry) ([]Published, error) {
	kept := make([]Published, 0, len(entries))
	for _, entry := range entries {
		if f.isDraft(entry) {
			continue
		}

		data, ok := entry.Data.(Publishable)
		if !ok {
			return nil, fmt.Errorf("%w: %s/%s (%T is not publishable)", ErrMissingSortKey, entry.Collection, entry.Slug, entry.Data)
		}
		if data.PublishedAt().IsZero() {
			return nil, fmt.Errorf("%w: %s/%s", ErrMissingSortKey, entry.Collection, entry.Slug)
		}

		kept = append(kept, Published{Entry: entry, Data: data})
	}

	return kept, nil
}

func (f *Filterer) isDraft(entry content.Entry) bool {
	draftable, ok := entry.Data.(Draftable)
	return ok && draftable.IsDraft()
}
