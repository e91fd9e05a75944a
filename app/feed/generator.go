package feed

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"net/url"
	"strings"
	"time"
)

// Generator serializes assembled items into an RSS 2.0 document.
type Generator struct {
	feedPath string
	version  string
}

func NewGenerator(feedPath, version string) *Generator {
	return &Generator{
		feedPath: strings.TrimPrefix(feedPath, "/"),
		version:  version,
	}
}

func (g *Generator) Run(metadata Metadata, items []Item) ([]byte, error) {
	site, err := parseSiteURL(metadata.SiteURL)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	g.writeElement(&buf, "title", metadata.Title, 4)
	g.writeElement(&buf, "link", site.String(), 4)
	g.writeElement(&buf, "description", metadata.Description, 4)

	selfLink := resolve(site, g.feedPath)
	buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
		html.EscapeString(selfLink)))

	if metadata.Language != "" {
		g.writeElement(&buf, "language", metadata.Language, 4)
	}

	lastBuildDate := time.Now().In(time.Local)
	if len(items) > 0 && !items[0].PublicationDate.IsZero() {
		lastBuildDate = items[0].PublicationDate
	}
	g.writeElement(&buf, "lastBuildDate", lastBuildDate.Format(time.RFC1123Z), 4)
	g.writeElement(&buf, "generator", fmt.Sprintf("sitefeed/%s", g.version), 4)

	for _, item := range items {
		g.writeItem(&buf, site, item)
	}

	buf.WriteString("  </channel>\n</rss>\n")

	return buf.Bytes(), nil
}

func (g *Generator) writeItem(buf *bytes.Buffer, site *url.URL, item Item) {
	buf.WriteString("    <item>\n")

	g.writeElement(buf, "title", item.Title, 6)

	link := resolve(site, item.Link)
	g.writeElement(buf, "link", link, 6)

	buf.WriteString("      <guid isPermaLink=\"true\">")
	xml.EscapeText(buf, []byte(link))
	buf.WriteString("</guid>\n")

	g.writeElement(buf, "description", item.Description, 6)
	g.writeElement(buf, "pubDate", item.PublicationDate.Format(time.RFC1123Z), 6)

	if item.Content != "" {
		buf.WriteString("      <content:encoded><![CDATA[")
		buf.WriteString(strings.ReplaceAll(item.Content, "]]>", "]]]]><![CDATA[>"))
		buf.WriteString("]]></content:encoded>\n")
	}

	buf.WriteString("    </item>\n")
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}

func parseSiteURL(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, fmt.Errorf("site URL is required to generate a feed")
	}
	site, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid site URL %q: %w", raw, err)
	}
	if site.Scheme == "" || site.Host == "" {
		return nil, fmt.Errorf("site URL %q must be absolute", raw)
	}
	if !strings.HasSuffix(site.Path, "/") {
		site.Path += "/"
	}
	return site, nil
}

// resolve joins a site-relative path onto the site URL, keeping any base path
// the site is served under.
func resolve(site *url.URL, path string) string {
	ref, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return site.String() + strings.TrimPrefix(path, "/")
	}
	return site.ResolveReference(ref).String()
}
