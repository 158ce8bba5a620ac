package domain

import "context"

// Book is a catalog record as stored in the vector index metadata.
// Title doubles as the identity key; duplicate titles collide.
type Book struct {
	Title     string
	Author    string
	Year      string
	Publisher string
	Language  string
	Category  string
	Summary   string
	CoverURL  string
}

// Match is a book returned by the index together with its similarity score.
type Match struct {
	ID    string
	Score float64
	Book  Book
}

// Embedder converts free text into a numeric vector representation.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Index returns the nearest stored records for a query vector, ordered by
// descending similarity.
type Index interface {
	Query(ctx context.Context, vector []float32, topK int, includeMetadata bool) ([]Match, error)
}

// Completer generates a text completion for a prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
