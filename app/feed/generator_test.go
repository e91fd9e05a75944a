package feed

import (
	"strings"
	"testing"
	"time"
)

func TestGenerateRSS(t *testing.T) {
	generator := NewGenerator("/rss.xml", "test")

	items := []Item{
		{
			Title:           "Newest <post>",
			Description:     "Fish & chips",
			PublicationDate: time.Date(2023, 7, 3, 10, 0, 0, 0, time.UTC),
			Link:            "/blog/newest/",
			Content:         "<p>Hello</p>",
		},
		{
			Title:           "Older post",
			Description:     "Older description",
			PublicationDate: time.Date(2023, 7, 1, 10, 0, 0, 0, time.UTC),
			Link:            "/blog/older/",
		},
	}

	data, err := generator.Run(Metadata{
		Title:       "Home",
		Description: "Personal homepage",
		SiteURL:     "https://example.com",
		Language:    "en",
	}, items)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	rss := string(data)

	expectations := []string{
		`<?xml version="1.0" encoding="UTF-8"?>`,
		`<rss version="2.0"`,
		`xmlns:atom="http://www.w3.org/2005/Atom"`,
		"<title>Home</title>",
		"<link>https://example.com/</link>",
		"<description>Personal homepage</description>",
		`<atom:link href="https://example.com/rss.xml" rel="self" type="application/rss+xml" />`,
		"<language>en</language>",
		"<lastBuildDate>Mon, 03 Jul 2023 10:00:00 +0000</lastBuildDate>",
		"<generator>sitefeed/test</generator>",
		"<title>Newest &lt;post&gt;</title>",
		"<link>https://example.com/blog/newest/</link>",
		`<guid isPermaLink="true">https://example.com/blog/newest/</guid>`,
		"<description>Fish &amp; chips</description>",
		"<pubDate>Mon, 03 Jul 2023 10:00:00 +0000</pubDate>",
		"<content:encoded><![CDATA[<p>Hello</p>]]></content:encoded>",
		"<link>https://example.com/blog/older/</link>",
	}
	for _, expected := range expectations {
		if !strings.Contains(rss, expected) {
			t.Errorf("RSS should contain %s", expected)
		}
	}

	if strings.Count(rss, "<item>") != 2 {
		t.Errorf("Expected 2 items, got %d", strings.Count(rss, "<item>"))
	}
	if strings.Count(rss, "<content:encoded>") != 1 {
		t.Error("Only items with content should carry content:encoded")
	}
	if strings.Index(rss, "/blog/newest/") > strings.Index(rss, "/blog/older/") {
		t.Error("Items should keep the assembled order")
	}
}

func TestGenerateRSSWithBasePath(t *testing.T) {
	data, err := NewGenerator("rss.xml", "test").Run(Metadata{
		Title:   "Home",
		SiteURL: "https://example.com/site",
	}, []Item{{
		Title:           "Post",
		PublicationDate: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		Link:            "/blog/post/",
	}})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	rss := string(data)
	if !strings.Contains(rss, "<link>https://example.com/site/blog/post/</link>") {
		t.Errorf("Expected item link under the site base path, got:\n%s", rss)
	}
	if !strings.Contains(rss, `href="https://example.com/site/rss.xml"`) {
		t.Errorf("Expected self link under the site base path, got:\n%s", rss)
	}
}

func TestGenerateRSSEmptyFeed(t *testing.T) {
	data, err := NewGenerator("rss.xml", "test").Run(testMetadata, nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if strings.Contains(string(data), "<item>") {
		t.Error("Empty feed should not contain items")
	}
	if !strings.Contains(string(data), "<lastBuildDate>") {
		t.Error("Empty feed should still carry lastBuildDate")
	}
}

func TestGenerateRSSRequiresAbsoluteSite(t *testing.T) {
	generator := NewGenerator("rss.xml", "test")

	for _, site := range []string{"", "/relative", "example.com"} {
		if _, err := generator.Run(Metadata{Title: "Home", SiteURL: site}, nil); err == nil {
			t.Errorf("Expected error for site URL %q", site)
		}
	}
}

func TestGenerateRSSEscapesCDATATerminator(t *testing.T) {
	data, err := NewGenerator("rss.xml", "test").Run(testMetadata, []Item{{
		Title:           "Tricky",
		PublicationDate: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		Link:            "/blog/tricky/",
		Content:         "<p>a]]>b</p>",
	}})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !strings.Contains(string(data), "<![CDATA[<p>a]]]]><![CDATA[>b</p>]]>") {
		t.Errorf("Expected CDATA terminator to be split, got:\n%s", data)
	}
	if _, err := NewValidator().Run(data, 1); err != nil {
		t.Errorf("Expected valid document, got: %v", err)
	}
}
