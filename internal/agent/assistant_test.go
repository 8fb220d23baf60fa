package agent_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/p-n-ai/deepblue/internal/agent"
	"github.com/p-n-ai/deepblue/internal/ai"
	"github.com/p-n-ai/deepblue/internal/platform/locale"
)

func makeHistory(n int) []agent.ChatMessage {
	history := make([]agent.ChatMessage, n)
	for i := range history {
		role := ai.RoleUser
		if i%2 == 0 {
			role = ai.RoleAssistant
		}
		history[i] = agent.ChatMessage{
			ID:        fmt.Sprintf("m%d", i),
			Role:      role,
			Text:      fmt.Sprintf("message %d", i),
			Timestamp: int64(i + 1),
		}
	}
	return history
}

func TestAssistant_Reply(t *testing.T) {
	mockAI := ai.NewMockProvider("Always dive with a buddy.")
	assistant := agent.NewAssistant(agent.AssistantConfig{AI: mockAI})

	got := assistant.Reply(context.Background(), makeHistory(1), "What is the buddy system?")
	if got != "Always dive with a buddy." {
		t.Errorf("Reply() = %q", got)
	}

	req := mockAI.LastRequest
	if req.Task != ai.TaskChat {
		t.Errorf("Task = %v, want chat", req.Task)
	}
	if !strings.Contains(req.System, "DeepBlue") || !strings.Contains(req.System, "Simplified Chinese") {
		t.Errorf("System prompt missing persona or language:\n%s", req.System)
	}
	last := req.Messages[len(req.Messages)-1]
	if last.Role != ai.RoleUser || last.Content != "What is the buddy system?" {
		t.Errorf("last message = %+v, want the new user message", last)
	}
}

func TestAssistant_Reply_TrimsHistory(t *testing.T) {
	tests := []struct {
		name        string
		historyLen  int
		wantContext int
	}{
		{"short", 3, 3},
		{"exactly ten", 10, 10},
		{"eleven", 11, 10},
		{"long", 25, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockAI := ai.NewMockProvider("ok")
			assistant := agent.NewAssistant(agent.AssistantConfig{AI: mockAI})
			history := makeHistory(tt.historyLen)

			assistant.Reply(context.Background(), history, "new")

			msgs := mockAI.LastRequest.Messages
			if got := len(msgs) - 1; got != tt.wantContext {
				t.Fatalf("context messages = %d, want %d", got, tt.wantContext)
			}
			tail := history[len(history)-tt.wantContext:]
			for i, m := range tail {
				if msgs[i].Content != m.Text {
					t.Errorf("context[%d] = %q, want %q", i, msgs[i].Content, m.Text)
				}
				wantRole := ai.RoleAssistant
				if m.IsUser() {
					wantRole = ai.RoleUser
				}
				if msgs[i].Role != wantRole {
					t.Errorf("context[%d] role = %q, want %q", i, msgs[i].Role, wantRole)
				}
			}
		})
	}
}

func TestAssistant_Reply_Fallbacks(t *testing.T) {
	tests := []struct {
		name     string
		response string
		err      error
		want     string
	}{
		{"empty reply", "", nil, agent.EmptyReplyFallback},
		{"blank reply", "   ", nil, agent.EmptyReplyFallback},
		{"backend error", "", errors.New("connection refused"), agent.CommErrorFallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockAI := &ai.MockProvider{Response: tt.response, Err: tt.err}
			assistant := agent.NewAssistant(agent.AssistantConfig{AI: mockAI})

			if got := assistant.Reply(context.Background(), nil, "hello"); got != tt.want {
				t.Errorf("Reply() = %q, want %q", got, tt.want)
			}
		})
	}

	if agent.EmptyReplyFallback == agent.CommErrorFallback {
		t.Error("fallback strings must be distinguishable")
	}
}

func TestAssistant_Config(t *testing.T) {
	mockAI := ai.NewMockProvider("ok")
	assistant := agent.NewAssistant(agent.AssistantConfig{
		AI:           mockAI,
		Model:        "gpt-4o-mini",
		Language:     locale.MustParse("en"),
		HistoryLimit: 4,
	})

	assistant.Reply(context.Background(), makeHistory(9), "hi")

	req := mockAI.LastRequest
	if req.Model != "gpt-4o-mini" {
		t.Errorf("Model = %q", req.Model)
	}
	if len(req.Messages) != 5 {
		t.Errorf("Messages = %d, want 4 context + 1 new", len(req.Messages))
	}
	if !strings.Contains(req.System, "Answer in English.") {
		t.Errorf("System prompt should name English:\n%s", req.System)
	}
	if assistant.HistoryLimit() != 4 {
		t.Errorf("HistoryLimit() = %d, want 4", assistant.HistoryLimit())
	}
}
