package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"bookchat/internal/domain"
	"bookchat/internal/vectorstore"
)

// Storage queries a Pinecone serverless or pod index over its data-plane REST API.
type Storage struct {
	host       string
	apiKey     string
	namespace  string
	apiVersion string
	client     *http.Client
}

// Config configures the Pinecone client. Host is the index host shown in
// the Pinecone console, with or without scheme.
type Config struct {
	Host       string
	APIKeyEnv  string
	Namespace  string
	APIVersion string
	Timeout    time.Duration
}

// NewStorage creates a Pinecone index client.
func NewStorage(cfg Config) (*Storage, error) {
	if cfg.Host == "" {
		return nil, errors.New("pinecone host is required")
	}
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	host := strings.TrimRight(cfg.Host, "/")
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "https://" + host
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Storage{
		host:       host,
		apiKey:     key,
		namespace:  cfg.Namespace,
		apiVersion: cfg.APIVersion,
		client:     &http.Client{Timeout: timeout},
	}, nil
}

type queryRequest struct {
	Vector          []float32 `json:"vector"`
	TopK            int       `json:"topK"`
	IncludeMetadata bool      `json:"includeMetadata"`
	Namespace       string    `json:"namespace,omitempty"`
}

type queryResponse struct {
	Matches []struct {
		ID       string         `json:"id"`
		Score    float64        `json:"score"`
		Metadata map[string]any `json:"metadata"`
	} `json:"matches"`
}

// Query returns the topK nearest records in the index's order.
func (s *Storage) Query(ctx context.Context, vector []float32, topK int, includeMetadata bool) ([]domain.Match, error) {
	if len(vector) == 0 {
		return nil, errors.New("empty query vector")
	}
	if topK <= 0 {
		topK = 5
	}
	data, err := json.Marshal(queryRequest{
		Vector:          vector,
		TopK:            topK,
		IncludeMetadata: includeMetadata,
		Namespace:       s.namespace,
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.host+"/query", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Key", s.apiKey)
	if s.apiVersion != "" {
		req.Header.Set("X-Pinecone-API-Version", s.apiVersion)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("pinecone query failed: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var out queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("pinecone decode response: %w", err)
	}
	matches := make([]domain.Match, 0, len(out.Matches))
	for _, m := range out.Matches {
		match, err := vectorstore.ToMatch(m.ID, m.Score, m.Metadata, includeMetadata)
		if err != nil {
			return nil, fmt.Errorf("pinecone match %s: %w", m.ID, err)
		}
		matches = append(matches, match)
	}
	return matches, nil
}
