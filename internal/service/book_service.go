package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"bookchat/internal/domain"
	"bookchat/internal/metrics"
)

const (
	// SimilarLimit is the maximum number of similar books returned.
	SimilarLimit = 5
	// similarFetch over-fetches by one so the primary title can be dropped.
	similarFetch = SimilarLimit + 1
)

// Collaborator names used in errors, logs and metrics.
const (
	collabEmbedder = "embedder"
	collabIndex    = "index"
	collabLLM      = "llm"
)

// Options tunes collaborator calls. Zero timeouts mean no deadline beyond
// the caller's context.
type Options struct {
	EmbedTimeout    time.Duration
	IndexTimeout    time.Duration
	CompleteTimeout time.Duration
	// Dimension is the index dimensionality; 0 skips the length check.
	Dimension int
	// MaxPromptChars truncates prompts to this many runes; 0 is unlimited.
	MaxPromptChars int
}

// BookService resolves free-text queries to book records and expands
// summaries through a language model.
type BookService struct {
	embedder  domain.Embedder
	index     domain.Index
	completer domain.Completer
	opts      Options
	logger    *zap.Logger
}

// Recommendation is a similar book with its expanded summary.
type Recommendation struct {
	Book    domain.Book
	Summary string
}

// Lookup is everything one search interaction displays.
type Lookup struct {
	Query          string
	Primary        *domain.Book
	PrimarySummary string
	Similar        []Recommendation
}

func NewBookService(embedder domain.Embedder, index domain.Index, completer domain.Completer, opts Options, logger *zap.Logger) *BookService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookService{embedder: embedder, index: index, completer: completer, opts: opts, logger: logger}
}

// ResolvePrimary returns the single best match for query, or nil when the
// query is empty or the index has no matches.
func (s *BookService) ResolvePrimary(ctx context.Context, query string) (*domain.Book, error) {
	if isEmpty(query) {
		return nil, nil
	}
	matches, err := s.search(ctx, query, 1)
	if err != nil {
		return nil, fmt.Errorf("resolve primary: %w", err)
	}
	if len(matches) == 0 {
		return nil, nil
	}
	b := matches[0].Book
	return &b, nil
}

// ResolveSimilar returns up to SimilarLimit books near query whose title is
// not excludeTitle, in index order. Similarity is measured against the query
// text, not against the excluded book.
func (s *BookService) ResolveSimilar(ctx context.Context, query, excludeTitle string) ([]domain.Book, error) {
	if isEmpty(query) {
		return nil, nil
	}
	matches, err := s.search(ctx, query, similarFetch)
	if err != nil {
		return nil, fmt.Errorf("resolve similar: %w", err)
	}
	return filterSimilar(matches, excludeTitle), nil
}

// ExpandText sends text verbatim to the language model and returns the
// trimmed completion.
func (s *BookService) ExpandText(ctx context.Context, text string) (string, error) {
	out, err := s.complete(ctx, text)
	if err != nil {
		return "", fmt.Errorf("expand text: %w", err)
	}
	return out, nil
}

// Answer replies to a chat question. An empty question is not sent.
func (s *BookService) Answer(ctx context.Context, question string) (string, error) {
	if isEmpty(question) {
		return "", nil
	}
	out, err := s.complete(ctx, question)
	if err != nil {
		return "", fmt.Errorf("answer: %w", err)
	}
	return out, nil
}

// Lookup runs a full search interaction: primary match, its expanded
// summary, then similar books each with an expanded summary. Any failure
// aborts the whole lookup.
func (s *BookService) Lookup(ctx context.Context, query string) (*Lookup, error) {
	res := &Lookup{Query: query}
	if isEmpty(query) {
		return res, nil
	}

	primary, err := s.ResolvePrimary(ctx, query)
	if err != nil {
		return nil, err
	}
	exclude := ""
	if primary != nil {
		res.Primary = primary
		exclude = primary.Title
		if res.PrimarySummary, err = s.ExpandText(ctx, primary.Summary); err != nil {
			return nil, err
		}
	}

	similar, err := s.ResolveSimilar(ctx, query, exclude)
	if err != nil {
		return nil, err
	}
	for _, b := range similar {
		summary, err := s.ExpandText(ctx, b.Summary)
		if err != nil {
			return nil, err
		}
		res.Similar = append(res.Similar, Recommendation{Book: b, Summary: summary})
	}

	s.logger.Info("Lookup completed",
		zap.String("query", query),
		zap.Bool("found", primary != nil),
		zap.Int("similar", len(res.Similar)),
	)
	return res, nil
}

func (s *BookService) search(ctx context.Context, query string, topK int) ([]domain.Match, error) {
	vec, err := s.embed(ctx, query)
	if err != nil {
		return nil, err
	}

	ictx, cancel := withTimeout(ctx, s.opts.IndexTimeout)
	defer cancel()
	start := time.Now()
	matches, err := s.index.Query(ictx, vec, topK, true)
	metrics.Observe(collabIndex, start, err)
	if err != nil {
		return nil, s.fail(collabIndex, "query", start, err)
	}
	s.logger.Debug("Index query completed",
		zap.Int("top_k", topK),
		zap.Int("matches", len(matches)),
		zap.Duration("duration", time.Since(start)),
	)
	return matches, nil
}

func (s *BookService) embed(ctx context.Context, text string) ([]float32, error) {
	ectx, cancel := withTimeout(ctx, s.opts.EmbedTimeout)
	defer cancel()
	start := time.Now()
	vec, err := s.embedder.Embed(ectx, text)
	if err == nil {
		err = s.checkVector(vec)
	}
	metrics.Observe(collabEmbedder, start, err)
	if err != nil {
		return nil, s.fail(collabEmbedder, "embed", start, err)
	}
	s.logger.Debug("Embedding completed",
		zap.Int("dimensions", len(vec)),
		zap.Duration("duration", time.Since(start)),
	)
	return vec, nil
}

func (s *BookService) checkVector(vec []float32) error {
	if len(vec) == 0 {
		return errors.New("empty embedding")
	}
	if s.opts.Dimension > 0 && len(vec) != s.opts.Dimension {
		return fmt.Errorf("embedding has %d dimensions, index expects %d", len(vec), s.opts.Dimension)
	}
	return nil
}

func (s *BookService) complete(ctx context.Context, prompt string) (string, error) {
	prompt = capPrompt(prompt, s.opts.MaxPromptChars)

	cctx, cancel := withTimeout(ctx, s.opts.CompleteTimeout)
	defer cancel()
	start := time.Now()
	out, err := s.completer.Complete(cctx, prompt)
	metrics.Observe(collabLLM, start, err)
	if err != nil {
		return "", s.fail(collabLLM, "complete", start, err)
	}
	s.logger.Debug("Completion finished",
		zap.Int("prompt_chars", utf8.RuneCountInString(prompt)),
		zap.Duration("duration", time.Since(start)),
	)
	return strings.TrimSpace(out), nil
}

func (s *BookService) fail(collaborator, op string, start time.Time, err error) error {
	s.logger.Error("Collaborator call failed",
		zap.String("collaborator", collaborator),
		zap.String("op", op),
		zap.Duration("duration", time.Since(start)),
		zap.Error(err),
	)
	return domain.NewCollaboratorError(collaborator, op, err)
}

// filterSimilar drops matches titled excludeTitle and keeps the first
// SimilarLimit of the rest. Exact, case-sensitive comparison.
func filterSimilar(matches []domain.Match, excludeTitle string) []domain.Book {
	out := make([]domain.Book, 0, SimilarLimit)
	for _, m := range matches {
		if m.Book.Title == excludeTitle {
			continue
		}
		out = append(out, m.Book)
		if len(out) == SimilarLimit {
			break
		}
	}
	return out
}

func capPrompt(prompt string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(prompt) <= limit {
		return prompt
	}
	return string([]rune(prompt)[:limit])
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func isEmpty(s string) bool { return strings.TrimSpace(s) == "" }
