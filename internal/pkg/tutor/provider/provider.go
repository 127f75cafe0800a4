// Package provider obtains tutoring answers from upstream text-generation
// models with an ordered fallback chain. The chain is total: when every model
// fails, or none is configured, it degrades to a canned subject-classified
// answer instead of surfacing an error.
package provider

import "context"

// Fixed generation parameters for every attempt.
const (
	MaxTokens   = 800
	Temperature = 0.8
	TopP        = 0.9
)

// Turn is one prior exchange half in the conversation context.
// Role is "user" or "assistant".
type Turn struct {
	Role    string
	Content string
}

// Request carries everything one completion attempt needs: the fixed persona
// prompt, the reconstructed prior turns (oldest first) and the new question.
// StudentName and GradeLevel feed the canned fallback templates only.
type Request struct {
	SystemPrompt string
	History      []Turn
	Question     string
	StudentName  string
	GradeLevel   string
}

// Result is the adapter's total outcome. UsedFallback is true iff every
// configured model failed or none were attempted.
type Result struct {
	Answer       string
	UsedFallback bool
	ProviderUsed string
}

// Provider is one model handle in the fallback chain.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req Request) (string, error)
}
