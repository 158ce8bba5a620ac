// Package catalog formats book metadata for display.
package catalog

import (
	"strconv"
	"strings"

	"bookchat/internal/domain"
)

const (
	UnknownLanguage = "Unknown Language"
	UnknownCategory = "Unknown Category"
	UnknownYear     = "Unknown"
	DefaultCover    = "default_image.jpg"
)

var languages = map[string]string{
	"ar": "Arabic", "ca": "Catalan", "cy": "Welsh", "da": "Danish", "de": "German",
	"el": "Greek", "en": "English", "eo": "Esperanto", "es": "Spanish", "fa": "Persian (Farsi)",
	"fr": "French", "ga": "Irish", "gd": "Scottish Gaelic", "gl": "Galician", "hi": "Hindi",
	"it": "Italian", "ja": "Japanese", "ko": "Korean", "la": "Latin", "ms": "Malay",
	"nl": "Dutch", "no": "Norwegian", "pl": "Polish", "pt": "Portuguese", "ro": "Romanian",
	"ru": "Russian", "th": "Thai", "tl": "Tagalog (Filipino)", "vi": "Vietnamese",
	"zh-CN": "Chinese (Simplified)", "zh-TW": "Chinese (Traditional)",
}

// LanguageName maps a language code to its display name. Codes are matched exactly.
func LanguageName(code string) string {
	if name, ok := languages[code]; ok {
		return name
	}
	return UnknownLanguage
}

// NormalizeCategory strips the brackets of a single-element list such as
// "['Fiction']". This is a textual heuristic: the inner quotes stay, and
// multi-element lists are left with their commas.
func NormalizeCategory(category string) string {
	if category == "" {
		return UnknownCategory
	}
	if strings.HasPrefix(category, "[") && strings.HasSuffix(category, "]") {
		return category[1 : len(category)-1]
	}
	return category
}

// PublicationYear renders a numeric-as-string year ("1965.0") as an integer.
func PublicationYear(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return UnknownYear
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return raw
	}
	return strconv.FormatInt(int64(f), 10)
}

// CoverImage falls back to the bundled placeholder when a book has no cover.
func CoverImage(url string) string {
	if url == "" {
		return DefaultCover
	}
	return url
}

// Field is one labelled line of book details.
type Field struct {
	Label string
	Value string
}

// Describe returns the detail lines shown for the primary match.
func Describe(b domain.Book) []Field {
	return []Field{
		{"Title", b.Title},
		{"Author", b.Author},
		{"Year of Publication", PublicationYear(b.Year)},
		{"Publisher", b.Publisher},
		{"Language", LanguageName(b.Language)},
		{"Category", NormalizeCategory(b.Category)},
	}
}

// DescribeBrief returns the detail lines shown for a recommended book.
func DescribeBrief(b domain.Book) []Field {
	return []Field{
		{"Title", b.Title},
		{"Author", b.Author},
		{"Language", LanguageName(b.Language)},
	}
}
