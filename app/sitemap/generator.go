package sitemap

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"

	"github.com/kathrine0/sitefeed/app/content"
	"github.com/kathrine0/sitefeed/app/feed"
	"github.com/kathrine0/sitefeed/app/site"
)

const namespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

type urlset struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

type URL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// Generator lists the static pages of a site and the page of every
// published entry.
type Generator struct {
	store content.Store
}

func NewGenerator(store content.Store) *Generator {
	return &Generator{store: store}
}

func (g *Generator) Run(ctx context.Context, s *site.Site, collections []string) ([]byte, error) {
	urls, err := g.URLs(ctx, s, collections)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(urlset{Xmlns: namespace, URLs: urls}); err != nil {
		return nil, fmt.Errorf("failed to encode sitemap: %w", err)
	}
	buf.WriteString("\n")

	return buf.Bytes(), nil
}

func (g *Generator) URLs(ctx context.Context, s *site.Site, collections []string) ([]URL, error) {
	base, err := url.Parse(s.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid site URL %q: %w", s.URL, err)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	var urls []URL
	for _, page := range s.SortedPages() {
		urls = append(urls, URL{Loc: absolute(base, page.Href)})
	}

	for _, name := range collections {
		entries, err := g.store.GetCollection(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to get collection %q: %w", name, err)
		}

		for _, entry := range entries {
			if d, ok := entry.Data.(feed.Draftable); ok && d.IsDraft() {
				continue
			}

			u := URL{Loc: absolute(base, entry.Path())}
			if p, ok := entry.Data.(feed.Publishable); ok && !p.PublishedAt().IsZero() {
				u.LastMod = p.PublishedAt().Format("2006-01-02")
			}
			urls = append(urls, u)
		}
	}

	return urls, nil
}

func absolute(base *url.URL, path string) string {
	ref, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return base.String() + strings.TrimPrefix(path, "/")
	}
	return base.ResolveReference(ref).String()
}
