package agent

import (
	"github.com/p-n-ai/deepblue/internal/ai"
)

// ChatMessage is one turn of a chat transcript.
type ChatMessage struct {
	ID   string `json:"id"`
	Role string `json:"role"` // ai.RoleUser or ai.RoleAssistant
	Text string `json:"text"`
	// Timestamp is Unix milliseconds, strictly increasing within a session.
	Timestamp int64 `json:"timestamp"`
}

// IsUser reports whether the learner wrote the message.
func (m ChatMessage) IsUser() bool {
	return m.Role == ai.RoleUser
}

// trimHistory keeps the last limit messages in their original order.
func trimHistory(history []ChatMessage, limit int) []ChatMessage {
	if limit <= 0 || len(history) <= limit {
		return history
	}
	return history[len(history)-limit:]
}

func toAIMessages(history []ChatMessage) []ai.Message {
	messages := make([]ai.Message, 0, len(history)+1)
	for _, m := range history {
		role := ai.RoleAssistant
		if m.IsUser() {
			role = ai.RoleUser
		}
		messages = append(messages, ai.Message{Role: role, Content: m.Text})
	}
	return messages
}
