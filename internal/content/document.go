package content

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/thoreinstein/mdsync/internal/errors"
)

// Metadata field names recognized by the validators.
const (
	FieldTitle       = "title"
	FieldType        = "type"
	FieldDescription = "description"
	FieldAuthor      = "author"
	FieldLanguage    = "language"
	FieldTags        = "tags"
	FieldPublishedAt = "publishedAt"
)

// Content types with type-specific validation rules.
const (
	TypeBlog = "blog"
	TypePost = "post"
	TypePage = "page"
)

// Document is a lenient view over a parsed metadata document. Fields are
// kept untyped so validators can distinguish absent, null, empty, and
// wrongly-typed values.
type Document map[string]any

// ParseError describes a metadata document that could not be parsed.
// Offset is the byte offset reported by the decoder, or -1 when the
// decoder did not provide one.
type ParseError struct {
	Offset int64
	Err    error
}

func (e *ParseError) Error() string {
	return e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseDocument decodes a metadata document. On failure it returns a
// *ParseError carrying the best-effort byte offset recovered from the
// decoder so callers can position the finding.
func ParseDocument(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		offset := int64(-1)
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &syntaxErr):
			offset = syntaxErr.Offset
		case errors.As(err, &typeErr):
			offset = typeErr.Offset
		}
		return nil, &ParseError{Offset: offset, Err: err}
	}
	return doc, nil
}

// Has reports whether the key is present, regardless of its value.
func (d Document) Has(key string) bool {
	_, ok := d[key]
	return ok
}

// String returns the value as a string. ok is false when the key is absent
// or the value is not a string.
func (d Document) String(key string) (string, bool) {
	v, present := d[key]
	if !present {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Truthy reports whether the key holds a non-falsy value: present, not nil,
// not an empty string, not false, and not zero.
func (d Document) Truthy(key string) bool {
	v, present := d[key]
	if !present || v == nil {
		return false
	}
	switch t := v.(type) {
	case string:
		return t != ""
	case bool:
		return t
	case float64:
		return t != 0
	default:
		return true
	}
}

// publishedAtLayouts are the date formats accepted for the publishedAt field.
var publishedAtLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate parses a publishedAt value. Leading/trailing whitespace is
// ignored. Returns an error when no accepted layout matches.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range publishedAtLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Newf("invalid date: %q", value)
}
