package domain

import (
	"fmt"
	"strconv"
)

// Metadata keys used by the book index.
const (
	KeyTitle     = "book_title"
	KeyAuthor    = "book_author"
	KeyYear      = "year_of_publication"
	KeyPublisher = "publisher"
	KeyLanguage  = "Language"
	KeyCategory  = "Category"
	KeySummary   = "Summary"
	KeyCover     = "img_l"
)

// BookFromMetadata reads a Book from an index metadata map. The title is
// required; every other field is optional and may be null.
func BookFromMetadata(md map[string]any) (Book, error) {
	raw, ok := md[KeyTitle]
	if !ok {
		return Book{}, fmt.Errorf("%w: missing %s", ErrMalformedMetadata, KeyTitle)
	}
	title, ok := raw.(string)
	if !ok {
		return Book{}, fmt.Errorf("%w: %s is %T, not a string", ErrMalformedMetadata, KeyTitle, raw)
	}
	return Book{
		Title:     title,
		Author:    stringField(md, KeyAuthor),
		Year:      stringField(md, KeyYear),
		Publisher: stringField(md, KeyPublisher),
		Language:  stringField(md, KeyLanguage),
		Category:  stringField(md, KeyCategory),
		Summary:   stringField(md, KeySummary),
		CoverURL:  stringField(md, KeyCover),
	}, nil
}

// Metadata is the inverse of BookFromMetadata.
func (b Book) Metadata() map[string]any {
	return map[string]any{
		KeyTitle:     b.Title,
		KeyAuthor:    b.Author,
		KeyYear:      b.Year,
		KeyPublisher: b.Publisher,
		KeyLanguage:  b.Language,
		KeyCategory:  b.Category,
		KeySummary:   b.Summary,
		KeyCover:     b.CoverURL,
	}
}

// stringField renders scalar metadata as a string. Index backends decode JSON
// numbers as float64 and YAML numbers as int, so both are accepted.
func stringField(md map[string]any, key string) string {
	switch v := md[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}
