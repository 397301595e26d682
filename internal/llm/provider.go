package llm

import "context"

// Provider abstracts a text-completion provider (Anthropic, OpenAI).
type Provider interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	Name() string
}

// Gateway routes completion calls to a configured provider with bounded
// retry, falling back to a secondary provider when the primary keeps
// failing. Errors out of the gateway are treated as transient; callers
// degrade to their deterministic fallbacks rather than propagating them.
type Gateway interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// CompletionRequest is a single prompt-in, text-out call.
type CompletionRequest struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
}
