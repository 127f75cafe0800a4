package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const openRouterURL = "https://openrouter.ai/api/v1/chat/completions"

// DefaultModels is the ordered list of model identifiers tried against
// OpenRouter, cheapest-first after the primary.
var DefaultModels = []string{
	"openrouter/polaris-alpha",
	"microsoft/phi-3-medium-4k-instruct:free",
	"meta-llama/llama-3.1-8b-instruct:free",
	"qwen/qwen-2.5-1.5b:free",
	"huggingfaceh4/zephyr-orpo-141b-a35b:free",
}

// OpenRouterClient is the shared HTTP transport for all OpenRouter model
// handles. One attempt is bounded by the client timeout.
type OpenRouterClient struct {
	apiKey  string
	baseURL string
	referer string
	http    *http.Client
}

// NewOpenRouterClient builds a client with the standard 15s attempt timeout.
func NewOpenRouterClient(apiKey, referer string) *OpenRouterClient {
	if referer == "" {
		referer = "https://schoolapp.com"
	}
	return &OpenRouterClient{
		apiKey:  apiKey,
		baseURL: openRouterURL,
		referer: referer,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// NewOpenRouterClientFromEnv reads OPENROUTER_API_KEY and APP_URL.
func NewOpenRouterClientFromEnv() *OpenRouterClient {
	return NewOpenRouterClient(os.Getenv("OPENROUTER_API_KEY"), os.Getenv("APP_URL"))
}

// Configured reports whether an API credential is present. An unconfigured
// client contributes no handles to the chain.
func (c *OpenRouterClient) Configured() bool { return c.apiKey != "" }

// Model returns a Provider handle for one model identifier on this client.
func (c *OpenRouterClient) Model(model string) Provider {
	return &openRouterModel{client: c, model: model}
}

// Models maps a model identifier list onto Provider handles.
func (c *OpenRouterClient) Models(ids []string) []Provider {
	handles := make([]Provider, 0, len(ids))
	for _, id := range ids {
		handles = append(handles, c.Model(id))
	}
	return handles
}

type openRouterModel struct {
	client *OpenRouterClient
	model  string
}

func (m *openRouterModel) Name() string { return m.model }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p"`
}

type completionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (m *openRouterModel) Complete(ctx context.Context, req Request) (string, error) {
	msgs := make([]chatMessage, 0, len(req.History)+2)
	msgs = append(msgs, chatMessage{Role: "system", Content: req.SystemPrompt})
	for _, t := range req.History {
		msgs = append(msgs, chatMessage{Role: t.Role, Content: t.Content})
	}
	msgs = append(msgs, chatMessage{Role: "user", Content: req.Question})

	body, err := json.Marshal(completionRequest{
		Model:       m.model,
		Messages:    msgs,
		MaxTokens:   MaxTokens,
		Temperature: Temperature,
		TopP:        TopP,
	})
	if err != nil {
		return "", fmt.Errorf("openrouter: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, m.client.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("openrouter: build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+m.client.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("HTTP-Referer", m.client.referer)
	httpReq.Header.Set("X-Title", "School AI Tutor")

	resp, err := m.client.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("openrouter: %s: %w", m.model, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little of the body for the error, then discard.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("openrouter: %s: status %d: %s", m.model, resp.StatusCode, snippet)
	}

	var out completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("openrouter: %s: decode response: %w", m.model, err)
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return "", errors.New("openrouter: " + m.model + ": empty completion")
	}
	return out.Choices[0].Message.Content, nil
}
