package memory

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"bookchat/internal/domain"
)

// Storage is a simple in-memory vector store using brute-force cosine similarity.
// Vectors are supplied precomputed; the store never embeds text itself.
type Storage struct {
	mu        sync.RWMutex
	dimension int
	ids       []string
	vectors   [][]float32
	books     []domain.Book
}

func NewStorage(dimension int) *Storage { return &Storage{dimension: dimension} }

// Seed is the on-disk layout of a memory index file.
type Seed struct {
	Dimension int          `yaml:"dimension"`
	Records   []SeedRecord `yaml:"records"`
}

// SeedRecord is one stored book with its precomputed vector.
type SeedRecord struct {
	ID       string         `yaml:"id"`
	Vector   []float32      `yaml:"vector"`
	Metadata map[string]any `yaml:"metadata"`
}

// LoadFile builds a Storage from a YAML seed file.
func LoadFile(path string) (*Storage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse memory index %s: %w", path, err)
	}
	dim := seed.Dimension
	if dim == 0 && len(seed.Records) > 0 {
		dim = len(seed.Records[0].Vector)
	}
	s := NewStorage(dim)
	for _, r := range seed.Records {
		b, err := domain.BookFromMetadata(r.Metadata)
		if err != nil {
			return nil, fmt.Errorf("memory index record %q: %w", r.ID, err)
		}
		if err := s.Upsert(r.ID, b, r.Vector); err != nil {
			return nil, fmt.Errorf("memory index record %q: %w", r.ID, err)
		}
	}
	return s, nil
}

// Upsert stores or replaces the record with the given id.
func (s *Storage) Upsert(id string, book domain.Book, vector []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dimension <= 0 {
		return errors.New("invalid dimension")
	}
	if len(vector) != s.dimension {
		return errors.New("vector dimension mismatch")
	}
	for i := range s.ids {
		if s.ids[i] == id {
			s.books[i] = book
			s.vectors[i] = vector
			return nil
		}
	}
	s.ids = append(s.ids, id)
	s.books = append(s.books, book)
	s.vectors = append(s.vectors, vector)
	return nil
}

// Dimension returns the vector length the store accepts.
func (s *Storage) Dimension() int { return s.dimension }

// Len returns the number of stored records.
func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

func (s *Storage) Query(_ context.Context, vector []float32, topK int, includeMetadata bool) ([]domain.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(vector) != s.dimension {
		return nil, fmt.Errorf("vector dimension mismatch: got %d, want %d", len(vector), s.dimension)
	}
	if topK <= 0 {
		topK = 5
	}
	scores := make([]float64, len(s.vectors))
	for i := range s.vectors {
		scores[i] = cosine(s.vectors[i], vector)
	}
	idxs := argsortDesc(scores)
	if topK > len(idxs) {
		topK = len(idxs)
	}
	results := make([]domain.Match, 0, topK)
	for i := 0; i < topK; i++ {
		j := idxs[i]
		m := domain.Match{ID: s.ids[j], Score: scores[j]}
		if includeMetadata {
			m.Book = s.books[j]
		}
		results = append(results, m)
	}
	return results, nil
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// argsortDesc orders indexes by descending score; ties keep insertion order.
func argsortDesc(vals []float64) []int {
	idxs := make([]int, len(vals))
	for i := range vals {
		idxs[i] = i
	}
	sort.SliceStable(idxs, func(a, b int) bool { return vals[idxs[a]] > vals[idxs[b]] })
	return idxs
}
