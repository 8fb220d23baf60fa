package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/p-n-ai/deepblue/internal/ai"
	"github.com/p-n-ai/deepblue/internal/platform/locale"
)

const defaultHistoryLimit = 10

// Fallback replies. They are shown inline as assistant messages so the
// transcript stays usable; callers can compare against them to tell the two
// failure modes apart.
const (
	EmptyReplyFallback = "Sorry, I couldn't hear you underwater. Can you say that again?"
	CommErrorFallback  = "Comm error. Please check your connection."
)

// AssistantConfig holds dependencies for the chat assistant.
type AssistantConfig struct {
	AI           ai.Completer
	Model        string
	Language     locale.Language // default Simplified Chinese
	HistoryLimit int             // most recent messages replayed (default 10)
	MaxTokens    int
}

// Assistant answers chat turns as the DeepBlue instructor persona.
type Assistant struct {
	ai           ai.Completer
	model        string
	language     locale.Language
	historyLimit int
	maxTokens    int
}

// NewAssistant creates a chat assistant.
func NewAssistant(cfg AssistantConfig) *Assistant {
	lang := cfg.Language
	if lang.Tag.IsRoot() {
		lang = locale.MustParse("zh-Hans")
	}
	limit := cfg.HistoryLimit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return &Assistant{
		ai:           cfg.AI,
		model:        cfg.Model,
		language:     lang,
		historyLimit: limit,
		maxTokens:    cfg.MaxTokens,
	}
}

// Reply sends newMessage with the tail of history as context and returns the
// assistant's text. It never fails: backend errors and empty replies come back
// as CommErrorFallback and EmptyReplyFallback.
func (a *Assistant) Reply(ctx context.Context, history []ChatMessage, newMessage string) string {
	recent := trimHistory(history, a.historyLimit)
	messages := toAIMessages(recent)
	messages = append(messages, ai.Message{Role: ai.RoleUser, Content: newMessage})

	start := time.Now()
	resp, err := a.ai.Complete(ctx, ai.CompletionRequest{
		Messages:  messages,
		System:    a.systemPrompt(),
		Model:     a.model,
		MaxTokens: a.maxTokens,
		Task:      ai.TaskChat,
	})
	if err != nil {
		slog.Error("chat completion failed", "history", len(recent), "error", err)
		return CommErrorFallback
	}

	text := strings.TrimSpace(resp.Content)
	if text == "" {
		slog.Warn("chat completion returned no text", "model", resp.Model)
		return EmptyReplyFallback
	}

	slog.Info("chat reply",
		"history", len(recent),
		"model", resp.Model,
		"tokens", resp.TotalTokens(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return resp.Content
}

// HistoryLimit is how many prior messages each request replays.
func (a *Assistant) HistoryLimit() int {
	return a.historyLimit
}

func (a *Assistant) systemPrompt() string {
	return fmt.Sprintf(`You are 'DeepBlue', a friendly and highly experienced Scuba Diving Instructor.
You are passionate about the ocean and safety.
Answer questions accurately regarding scuba diving, marine life, equipment, and training.
Always emphasize safety boundaries (e.g., 'Check with your local instructor').
Answer in %s.`, a.language.Name())
}
