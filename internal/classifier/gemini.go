package classifier

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/spec-kit/support-router/internal/config"
)

// GeminiClient implements Oracle and Embedder on top of the Gemini API.
type GeminiClient struct {
	client        *genai.Client
	generateModel string
	embedModel    string
}

// NewGeminiClient builds a client from config. Requires an API key.
func NewGeminiClient(ctx context.Context, cfg config.GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini api key not configured")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiClient{
		client:        client,
		generateModel: cfg.GenerateModel,
		embedModel:    cfg.EmbedModel,
	}, nil
}

// Generate sends a single-turn prompt and returns the concatenated text parts.
func (g *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	content := genai.NewContentFromText(prompt, genai.RoleUser)
	resp, err := g.client.Models.GenerateContent(ctx, g.generateModel, []*genai.Content{content}, nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("gemini returned no candidates")
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			out.WriteString(part.Text)
		}
	}
	return out.String(), nil
}

// Embed returns the embedding vector for a single text.
func (g *GeminiClient) Embed(ctx context.Context, text string) ([]float32, error) {
	content := genai.NewContentFromText(text, genai.RoleUser)
	resp, err := g.client.Models.EmbedContent(ctx, g.embedModel, []*genai.Content{content}, nil)
	if err != nil {
		return nil, fmt.Errorf("gemini embed: %w", err)
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
		return nil, errors.New("gemini returned empty embedding")
	}
	return resp.Embeddings[0].Values, nil
}
