package gemini

import (
	"context"
	"fmt"
	"iter"

	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

// Model adapts the Gemini API to the ADK model.LLM interface so agents can
// run tool-calling loops against it.
type Model struct {
	client *genai.Client
	name   string
}

// NewModel builds an ADK model backed by an existing Gemini client.
func NewModel(c *Client) *Model {
	return &Model{client: c.genai, name: c.model}
}

func (m *Model) Name() string {
	return m.name
}

// GenerateContent forwards ADK requests to the Gemini API.
func (m *Model) GenerateContent(ctx context.Context, req *model.LLMRequest, stream bool) iter.Seq2[*model.LLMResponse, error] {
	return func(yield func(*model.LLMResponse, error) bool) {
		resp, err := m.generate(ctx, req)
		yield(resp, err)
	}
}

func (m *Model) generate(ctx context.Context, req *model.LLMRequest) (*model.LLMResponse, error) {
	var config *genai.GenerateContentConfig
	if req != nil {
		config = req.Config
	}

	var contents []*genai.Content
	if req != nil {
		contents = req.Contents
	}

	resp, err := m.client.Models.GenerateContent(ctx, m.name, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini generate failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("gemini returned no candidates")
	}

	return &model.LLMResponse{
		Content: resp.Candidates[0].Content,
	}, nil
}
