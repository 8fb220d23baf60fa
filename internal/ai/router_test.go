package ai_test

import (
	"context"
	"errors"
	"testing"

	"github.com/p-n-ai/deepblue/internal/ai"
)

func TestRouter_SingleProvider(t *testing.T) {
	router := ai.NewRouter()
	mock := ai.NewMockProvider("Hello!")
	router.Register("gemini", mock)

	resp, err := router.Complete(context.Background(), ai.CompletionRequest{
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "hi"}},
	})

	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if resp.Content != "Hello!" {
		t.Errorf("Content = %q, want %q", resp.Content, "Hello!")
	}
	if got := len(mock.Requests()); got != 1 {
		t.Errorf("provider called %d times, want exactly 1", got)
	}
}

func TestRouter_Fallback(t *testing.T) {
	router := ai.NewRouter()

	failing := &ai.MockProvider{Err: errors.New("rate limited")}
	fallback := ai.NewMockProvider("Fallback response")

	router.Register("gemini", failing)
	router.Register("openai", fallback)

	resp, err := router.Complete(context.Background(), ai.CompletionRequest{
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "hi"}},
	})

	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if resp.Content != "Fallback response" {
		t.Errorf("Content = %q, want %q", resp.Content, "Fallback response")
	}
	if got := len(failing.Requests()); got != 1 {
		t.Errorf("failing provider called %d times, want 1 (no retry)", got)
	}
}

func TestRouter_EmptyAnswerIsNotAFailure(t *testing.T) {
	router := ai.NewRouter()

	empty := ai.NewMockProvider("")
	second := ai.NewMockProvider("should not be used")
	router.Register("gemini", empty)
	router.Register("openai", second)

	resp, err := router.Complete(context.Background(), ai.CompletionRequest{})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if resp.Content != "" {
		t.Errorf("Content = %q, want empty", resp.Content)
	}
	if len(second.Requests()) != 0 {
		t.Error("second provider should not be asked when the first answered")
	}
}

func TestRouter_AllProvidersFail(t *testing.T) {
	router := ai.NewRouter()

	router.Register("gemini", &ai.MockProvider{Err: errors.New("fail 1")})
	router.Register("openai", &ai.MockProvider{Err: errors.New("fail 2")})

	_, err := router.Complete(context.Background(), ai.CompletionRequest{
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "hi"}},
	})

	if err == nil {
		t.Fatal("Complete() should return error when all providers fail")
	}
}

func TestRouter_NoProviders(t *testing.T) {
	router := ai.NewRouter()

	_, err := router.Complete(context.Background(), ai.CompletionRequest{
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "hi"}},
	})

	if !errors.Is(err, ai.ErrNoProvider) {
		t.Fatalf("Complete() error = %v, want ErrNoProvider", err)
	}
}

func TestRouter_HasProvider(t *testing.T) {
	router := ai.NewRouter()
	if router.HasProvider() {
		t.Error("HasProvider() should be false with no providers")
	}

	router.Register("mock", ai.NewMockProvider("ok"))
	if !router.HasProvider() {
		t.Error("HasProvider() should be true after Register")
	}
}

func TestRouter_FallbackOrder(t *testing.T) {
	router := ai.NewRouter()

	// First registered should be tried first.
	first := ai.NewMockProvider("first")
	second := ai.NewMockProvider("second")

	router.Register("first", first)
	router.Register("second", second)

	resp, err := router.Complete(context.Background(), ai.CompletionRequest{
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "hi"}},
	})

	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if resp.Content != "first" {
		t.Errorf("Content = %q, want %q (first registered should be tried first)", resp.Content, "first")
	}
}

func TestRouter_HealthCheck(t *testing.T) {
	router := ai.NewRouter()
	if err := router.HealthCheck(context.Background()); err == nil {
		t.Error("HealthCheck() should fail with no providers")
	}

	router.Register("down", &ai.MockProvider{Err: errors.New("down")})
	router.Register("up", ai.NewMockProvider("ok"))
	if err := router.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v, want nil when one provider is up", err)
	}
}

func TestRouter_Len(t *testing.T) {
	router := ai.NewRouter()
	if router.Len() != 0 {
		t.Errorf("Len() = %d, want 0", router.Len())
	}

	router.Register("gemini", ai.NewMockProvider("a"))
	router.Register("openai", ai.NewMockProvider("b"))
	router.Register("gemini", ai.NewMockProvider("c"))

	if router.Len() != 2 {
		t.Errorf("Len() = %d, want 2 (re-registering replaces)", router.Len())
	}
}
