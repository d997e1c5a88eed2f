package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/healthsignal/symptom-ai-platform/pkg/logging"
)

type stubLLM struct {
	text    string
	err     error
	calls   int
	lastReq LLMRequest
}

func (s *stubLLM) Complete(_ context.Context, req LLMRequest) (LLMResponse, error) {
	s.calls++
	s.lastReq = req
	if s.err != nil {
		return LLMResponse{}, s.err
	}
	return LLMResponse{Text: s.text, Usage: TokenUsage{InputTokens: 10, OutputTokens: 20, TotalTokens: 30}}, nil
}

func TestFallbackLLMClient_PrimarySucceeds(t *testing.T) {
	primary := &stubLLM{text: "primary"}
	secondary := &stubLLM{text: "secondary"}
	chain := NewFallbackLLMClient(logging.Default(),
		Provider{Name: "openai:gpt-4o-mini", Client: primary},
		Provider{Name: "gemini:flash", Client: secondary},
	)

	resp, provider, err := chain.CompleteWithProvider(context.Background(), LLMRequest{})
	if err != nil {
		t.Fatalf("CompleteWithProvider returned error: %v", err)
	}
	if resp.Text != "primary" {
		t.Errorf("text = %q", resp.Text)
	}
	if provider != "openai:gpt-4o-mini" {
		t.Errorf("provider = %q", provider)
	}
	if secondary.calls != 0 {
		t.Error("secondary should not have been called")
	}
}

func TestFallbackLLMClient_FallsBackInOrder(t *testing.T) {
	primary := &stubLLM{err: errors.New("rate limited")}
	secondary := &stubLLM{text: "backup"}
	chain := NewFallbackLLMClient(logging.Default(),
		Provider{Name: "openai", Client: primary},
		Provider{Name: "bedrock", Client: secondary},
	)

	resp, provider, err := chain.CompleteWithProvider(context.Background(), LLMRequest{})
	if err != nil {
		t.Fatalf("CompleteWithProvider returned error: %v", err)
	}
	if resp.Text != "backup" || provider != "bedrock" {
		t.Errorf("got text %q from %q", resp.Text, provider)
	}
	if primary.calls != 1 {
		t.Errorf("primary calls = %d", primary.calls)
	}
}

func TestFallbackLLMClient_AllFail(t *testing.T) {
	lastErr := errors.New("bedrock down")
	chain := NewFallbackLLMClient(logging.Default(),
		Provider{Name: "openai", Client: &stubLLM{err: errors.New("openai down")}},
		Provider{Name: "bedrock", Client: &stubLLM{err: lastErr}},
	)

	_, _, err := chain.CompleteWithProvider(context.Background(), LLMRequest{})
	if !errors.Is(err, lastErr) {
		t.Fatalf("expected last provider error, got %v", err)
	}
}

func TestFallbackLLMClient_NoProviders(t *testing.T) {
	chain := NewFallbackLLMClient(logging.Default())
	if _, _, err := chain.CompleteWithProvider(context.Background(), LLMRequest{}); err == nil {
		t.Fatal("expected error with empty chain")
	}
}

func TestFallbackLLMClient_StopsWhenContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	secondary := &stubLLM{text: "backup"}
	failing := &stubLLM{err: context.Canceled}
	chain := NewFallbackLLMClient(logging.Default(),
		Provider{Name: "openai", Client: failing},
		Provider{Name: "bedrock", Client: secondary},
	)

	cancel()
	if _, _, err := chain.CompleteWithProvider(ctx, LLMRequest{}); err == nil {
		t.Fatal("expected error after cancellation")
	}
	if secondary.calls != 0 {
		t.Error("chain should stop once the context is cancelled")
	}
}

func TestFallbackLLMClient_SkipsNilClients(t *testing.T) {
	chain := NewFallbackLLMClient(logging.Default(),
		Provider{Name: "unconfigured", Client: nil},
		Provider{Name: "openai", Client: &stubLLM{text: "ok"}},
	)
	names := chain.Providers()
	if len(names) != 1 || names[0] != "openai" {
		t.Fatalf("providers = %v", names)
	}
}
