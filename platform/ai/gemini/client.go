// Package gemini wraps the Google Gemini API for structured-output generation
// and adapts it to the ADK model interface.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Config for the Gemini client
type Config struct {
	APIKey string
	Model  string
}

// Client is a thin wrapper around the genai client that always asks for
// schema-constrained JSON output.
type Client struct {
	genai *genai.Client
	model string
}

// NewClient creates a Gemini client for the public Gemini API backend.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Client{genai: client, model: cfg.Model}, nil
}

// ModelName returns the configured model identifier.
func (c *Client) ModelName() string {
	return c.model
}

// GenerateStructured sends one prompt and returns the raw JSON the model
// produced under the given response schema. No retries; a single failure is
// the caller's problem to surface.
func (c *Client) GenerateStructured(ctx context.Context, system, prompt string, schema *genai.Schema) ([]byte, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    schema,
		Temperature:       genai.Ptr[float32](0.7),
	}

	resp, err := c.genai.Models.GenerateContent(ctx, c.model, genai.Text(prompt), config)
	if err != nil {
		return nil, fmt.Errorf("gemini generate failed: %w", err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("gemini returned an empty response")
	}

	return []byte(text), nil
}
