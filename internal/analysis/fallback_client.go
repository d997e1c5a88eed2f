package analysis

import (
	"context"
	"errors"

	"github.com/healthsignal/symptom-ai-platform/pkg/logging"
)

// Provider pairs an LLM client with the name reported in ai_models_used.
type Provider struct {
	Name   string
	Client LLMClient
}

// FallbackLLMClient tries each configured provider in order until one
// succeeds. The name of the provider that answered is tracked so reports can
// disclose which model produced them.
type FallbackLLMClient struct {
	providers []Provider
	logger    *logging.Logger
}

// NewFallbackLLMClient builds a client over an ordered provider chain.
func NewFallbackLLMClient(logger *logging.Logger, providers ...Provider) *FallbackLLMClient {
	if logger == nil {
		logger = logging.Default()
	}
	chain := make([]Provider, 0, len(providers))
	for _, p := range providers {
		if p.Client != nil {
			chain = append(chain, p)
		}
	}
	return &FallbackLLMClient{providers: chain, logger: logger}
}

// Providers returns the names in the chain, in order.
func (c *FallbackLLMClient) Providers() []string {
	names := make([]string, len(c.providers))
	for i, p := range c.providers {
		names[i] = p.Name
	}
	return names
}

// Complete runs the chain and returns the first successful response.
func (c *FallbackLLMClient) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	resp, _, err := c.CompleteWithProvider(ctx, req)
	return resp, err
}

// CompleteWithProvider runs the chain and also reports which provider
// answered. The last provider's error is returned when all of them fail.
func (c *FallbackLLMClient) CompleteWithProvider(ctx context.Context, req LLMRequest) (LLMResponse, string, error) {
	if len(c.providers) == 0 {
		return LLMResponse{}, "", errors.New("analysis: no llm providers configured")
	}

	var lastErr error
	for i, p := range c.providers {
		resp, err := p.Client.Complete(ctx, req)
		if err == nil {
			if i > 0 {
				c.logger.Info("fallback LLM succeeded after primary failure", "provider", p.Name)
			}
			return resp, p.Name, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			// Stop the chain once the caller's deadline is gone.
			return LLMResponse{}, "", err
		}
		c.logger.Warn("llm provider failed",
			"provider", p.Name,
			"remaining", len(c.providers)-i-1,
			"error", err,
		)
	}
	return LLMResponse{}, "", lastErr
}
