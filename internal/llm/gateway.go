package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"docvault/internal/config"
)

type gateway struct {
	providers        map[string]Provider
	defaultProvider  string
	fallbackProvider string
	maxRetries       int
}

// NewGateway builds the completion gateway from configured API keys. A nil
// gateway is valid for callers that tolerate it; an empty gateway (no keys
// configured) fails every call, which downstream generation treats as the
// facility being unavailable.
func NewGateway(cfg config.LLMConfig) Gateway {
	g := &gateway{
		providers:        make(map[string]Provider),
		defaultProvider:  cfg.DefaultProvider,
		fallbackProvider: cfg.FallbackProvider,
		maxRetries:       cfg.MaxRetries,
	}

	if cfg.AnthropicKey != "" {
		g.providers["anthropic"] = NewAnthropicProvider(cfg.AnthropicKey, cfg.AnthropicModel)
	}
	if cfg.OpenAIKey != "" {
		g.providers["openai"] = NewOpenAIProvider(cfg.OpenAIKey, cfg.OpenAIModel)
	}

	return g
}

func (g *gateway) provider(name string) (Provider, error) {
	p, ok := g.providers[name]
	if !ok {
		return nil, fmt.Errorf("provider %q not configured", name)
	}
	return p, nil
}

func (g *gateway) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	text, err := g.completeWithRetry(ctx, g.defaultProvider, req)
	if err != nil && g.fallbackProvider != "" && g.fallbackProvider != g.defaultProvider {
		slog.Warn("primary provider failed, trying fallback",
			"primary", g.defaultProvider,
			"fallback", g.fallbackProvider,
			"error", err,
		)
		return g.completeWithRetry(ctx, g.fallbackProvider, req)
	}
	return text, err
}

func (g *gateway) completeWithRetry(ctx context.Context, providerName string, req CompletionRequest) (string, error) {
	p, err := g.provider(providerName)
	if err != nil {
		return "", err
	}

	var lastErr error
	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt*attempt) * 500 * time.Millisecond
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
			slog.Debug("retrying completion call", "provider", providerName, "attempt", attempt)
		}

		text, err := p.Complete(ctx, req)
		if err == nil {
			return text, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("all retries exhausted for %s: %w", providerName, lastErr)
}
