package vectorstore

import (
	"context"

	"bookchat/internal/domain"
)

// Storage answers nearest-neighbour queries over book records.
type Storage interface {
	Query(ctx context.Context, vector []float32, topK int, includeMetadata bool) ([]domain.Match, error)
}

// ToMatch builds a Match from a raw index hit. Metadata is only decoded when
// it was requested.
func ToMatch(id string, score float64, metadata map[string]any, includeMetadata bool) (domain.Match, error) {
	m := domain.Match{ID: id, Score: score}
	if !includeMetadata {
		return m, nil
	}
	b, err := domain.BookFromMetadata(metadata)
	if err != nil {
		return domain.Match{}, err
	}
	m.Book = b
	return m, nil
}
