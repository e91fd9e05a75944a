package content

import (
	"fmt"
	"strings"
	"time"
)

type Issue struct {
	Field   string
	Message string
}

type ValidationError struct {
	Collection string
	Slug       string
	Issues     []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return fmt.Sprintf("%s/%s does not match collection schema: %s", e.Collection, e.Slug, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrSchemaViolation
}

var dateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// fields reads typed values out of decoded front matter and records every
// mismatch instead of stopping at the first one.
type fields struct {
	raw    map[string]any
	issues []Issue
}

func newFields(raw map[string]any) *fields {
	if raw == nil {
		raw = map[string]any{}
	}
	return &fields{raw: raw}
}

func (f *fields) fail(field, format string, args ...any) {
	f.issues = append(f.issues, Issue{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (f *fields) requiredString(key string) string {
	value, ok := f.raw[key]
	if !ok || value == nil {
		f.fail(key, "required")
		return ""
	}
	s, ok := value.(string)
	if !ok {
		f.fail(key, "expected string, received %T", value)
		return ""
	}
	return s
}

func (f *fields) optionalString(key string) string {
	value, ok := f.raw[key]
	if !ok || value == nil {
		return ""
	}
	s, ok := value.(string)
	if !ok {
		f.fail(key, "expected string, received %T", value)
		return ""
	}
	return s
}

func (f *fields) optionalBool(key string) bool {
	value, ok := f.raw[key]
	if !ok || value == nil {
		return false
	}
	b, ok := value.(bool)
	if !ok {
		f.fail(key, "expected boolean, received %T", value)
		return false
	}
	return b
}

// requiredDate coerces strings and decoded timestamps into a time.Time.
func (f *fields) requiredDate(key string) time.Time {
	value, ok := f.raw[key]
	if !ok || value == nil {
		f.fail(key, "required")
		return time.Time{}
	}

	switch v := value.(type) {
	case time.Time:
		if v.IsZero() {
			f.fail(key, "invalid date")
		}
		return v
	case string:
		s := strings.TrimSpace(v)
		for _, layout := range dateFormats {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed
			}
		}
		f.fail(key, "invalid date %q", v)
	default:
		f.fail(key, "expected date, received %T", value)
	}
	return time.Time{}
}

func (f *fields) err(collection, slug string) error {
	if len(f.issues) == 0 {
		return nil
	}
	return &ValidationError{Collection: collection, Slug: slug, Issues: f.issues}
}
