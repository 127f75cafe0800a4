package provider

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// GeminiProvider is a Provider backed by the Google GenAI SDK. It is appended
// to the chain after the OpenRouter handles when GEMINI_API_KEY is configured,
// giving the relay one last real model before the canned fallback.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider constructs a Gemini-backed handle.
func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("gemini: new client: %w", err)
	}
	return &GeminiProvider{client: client, model: model}, nil
}

func (p *GeminiProvider) Name() string { return p.model }

func (p *GeminiProvider) Complete(ctx context.Context, req Request) (string, error) {
	contents := make([]*genai.Content, 0, len(req.History)+1)
	for _, t := range req.History {
		role := genai.Role(genai.RoleUser)
		if t.Role == "assistant" {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(t.Content, role))
	}
	contents = append(contents, genai.NewContentFromText(req.Question, genai.RoleUser))

	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.SystemPrompt, genai.RoleUser),
		MaxOutputTokens:   int32(MaxTokens),
		Temperature:       genai.Ptr(float32(Temperature)),
		TopP:              genai.Ptr(float32(TopP)),
	})
	if err != nil {
		return "", fmt.Errorf("gemini: %s: %w", p.model, err)
	}
	answer := resp.Text()
	if answer == "" {
		return "", errors.New("gemini: " + p.model + ": empty completion")
	}
	return answer, nil
}
