package content

import (
	"bytes"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

var contentExtensions = map[string]bool{
	".md":  true,
	".mdx": true,
}

// Loader reads collections from <contentDir>/<collection>/**/*.md and
// validates every file against the collection schema.
type Loader struct {
	contentDir string
	registry   *Registry
	formats    []*frontmatter.Format
}

func NewLoader(contentDir string, registry *Registry) *Loader {
	return &Loader{
		contentDir: contentDir,
		registry:   registry,
		formats: []*frontmatter.Format{
			frontmatter.NewFormat("---", "---", yaml.Unmarshal),
			frontmatter.NewFormat("+++", "+++", toml.Unmarshal),
		},
	}
}

func (l *Loader) Collections() []string {
	return l.registry.Names()
}

// LoadCollection returns the validated entries of a collection. A declared
// collection without a directory is empty; an undeclared one is not found.
// The first invalid file aborts the load.
func (l *Loader) LoadCollection(name string) ([]Entry, error) {
	schema, err := l.registry.Lookup(name)
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(l.contentDir, name)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		slog.Warn("Collection directory does not exist", "collection", name, "dir", dir)
		return []Entry{}, nil
	}

	var entries []Entry
	seen := make(map[string]string)

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return fmt.Errorf("failed to access %s: %w", path, walkErr)
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), "_") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), "_") {
			return nil
		}
		if !contentExtensions[strings.ToLower(filepath.Ext(d.Name()))] {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", path, err)
		}
		slug := slugFromPath(rel)
		if slug == "" {
			return &ValidationError{Collection: name, Slug: rel, Issues: []Issue{{Field: "slug", Message: "file name yields an empty slug"}}}
		}
		if previous, dup := seen[slug]; dup {
			return &ValidationError{Collection: name, Slug: slug, Issues: []Issue{{Field: "slug", Message: fmt.Sprintf("duplicate of %s", previous)}}}
		}
		seen[slug] = rel

		entry, err := l.parseFile(schema, slug, path)
		if err != nil {
			return err
		}
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load collection %q: %w", name, err)
	}

	slog.Debug("Collection loaded", "collection", name, "entries", len(entries))

	return entries, nil
}

func (l *Loader) parseFile(schema Validator, slug, path string) (Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to read file: %w", err)
	}

	var raw map[string]any
	body, err := frontmatter.Parse(bytes.NewReader(data), &raw, l.formats...)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to parse front matter in %s: %w", path, err)
	}

	value, err := schema.Validate(slug, raw)
	if err != nil {
		return Entry{}, err
	}

	return Entry{
		Collection: schema.Name(),
		Slug:       slug,
		Data:       value,
		Body:       strings.TrimSpace(string(body)),
	}, nil
}

// slugFromPath slugifies every directory segment and the file name, so
// "Nested Dir/Hello World.md" becomes "nested-dir/hello-world".
func slugFromPath(rel string) string {
	rel = strings.TrimSuffix(rel, filepath.Ext(rel))
	segments := strings.Split(filepath.ToSlash(rel), "/")
	parts := make([]string, 0, len(segments))
	for _, segment := range segments {
		if s := Slugify(segment); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "/")
}
