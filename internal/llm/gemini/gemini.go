package gemini

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Client is a Google Gemini completer.
type Client struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// Config configures the Gemini client.
type Config struct {
	APIKeyEnv   string
	Model       string
	Temperature float64
}

// NewClient connects to Gemini. Close releases the underlying connection.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	apiKey := os.Getenv(cfg.APIKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create new gemini client: %w", err)
	}
	model := client.GenerativeModel(cfg.Model)
	if cfg.Temperature > 0 {
		model.SetTemperature(float32(cfg.Temperature))
	}
	return &Client{client: client, model: model}, nil
}

// Name returns the identifier of this completer implementation.
func (c *Client) Name() string { return "gemini" }

// Complete generates content for the prompt and joins the text parts of the
// first candidate.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return "", errors.New("no candidates returned from Gemini")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", errors.New("empty content returned from Gemini")
	}
	return joinText(candidate.Content.Parts)
}

// Close releases the client.
func (c *Client) Close() error { return c.client.Close() }

func joinText(parts []genai.Part) (string, error) {
	var sb strings.Builder
	for _, p := range parts {
		if txt, ok := p.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("unexpected response format from Gemini")
	}
	return sb.String(), nil
}
