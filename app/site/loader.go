package site

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/kathrine0/sitefeed/app/feed"
	"gopkg.in/yaml.v3"
)

const (
	defaultNumPostsOnHomepage = 3
	defaultNumTalksOnHomepage = 3
)

// Load reads site metadata from a .yml, .yaml or .toml file.
func Load(path string) (*Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read site file: %w", err)
	}

	var s Site
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yml", ".yaml":
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported site file extension %q", ext)
	}

	setDefaults(&s)

	if err := validate(&s); err != nil {
		return nil, fmt.Errorf("invalid site file %s: %w", path, err)
	}

	return &s, nil
}

func setDefaults(s *Site) {
	if s.NumPostsOnHomepage == 0 {
		s.NumPostsOnHomepage = defaultNumPostsOnHomepage
	}
	if s.NumTalksOnHomepage == 0 {
		s.NumTalksOnHomepage = defaultNumTalksOnHomepage
	}
}

func validate(s *Site) error {
	requiredFields := map[string]string{
		"site name": s.Name,
		"site URL":  s.URL,
	}

	for fieldName, fieldValue := range requiredFields {
		if fieldValue == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
	}

	u, err := url.Parse(s.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("site URL must be an absolute http(s) URL, got %q", s.URL)
	}

	nonNegativeFields := map[string]int{
		"num posts on homepage": s.NumPostsOnHomepage,
		"num talks on homepage": s.NumTalksOnHomepage,
	}

	for fieldName, fieldValue := range nonNegativeFields {
		if fieldValue < 0 {
			return fmt.Errorf("%s must be non-negative", fieldName)
		}
	}

	if _, ok := s.Pages[PageHome]; !ok {
		return fmt.Errorf("page %q is required", PageHome)
	}

	for key, page := range s.Pages {
		if page.Title == "" {
			return fmt.Errorf("page %q: title is required", key)
		}
		if !strings.HasPrefix(page.Href, "/") {
			return fmt.Errorf("page %q: href must start with '/', got %q", key, page.Href)
		}
	}

	for i, social := range s.Socials {
		if social.Name == "" || social.Href == "" {
			return fmt.Errorf("social at index %d must have a name and href", i)
		}
	}

	return nil
}

// FeedMetadata describes the site feed using the home page descriptor.
func (s *Site) FeedMetadata() feed.Metadata {
	home := s.Pages[PageHome]
	return feed.Metadata{
		Title:       home.Title,
		Description: home.Description,
		SiteURL:     s.URL,
		Language:    s.Language,
	}
}

// SortedPages returns the page descriptors ordered by href.
func (s *Site) SortedPages() []Page {
	pages := make([]Page, 0, len(s.Pages))
	for _, page := range s.Pages {
		pages = append(pages, page)
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].Href < pages[j].Href })
	return pages
}

// PageCollections returns the collections among names that have a listing
// page, so their entries get pages of their own.
func (s *Site) PageCollections(names []string) []string {
	var collections []string
	for _, name := range names {
		if _, ok := s.Pages[name]; ok {
			collections = append(collections, name)
		}
	}
	return collections
}
