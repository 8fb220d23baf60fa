// Package ai provides a provider-agnostic gateway to generative-AI backends.
package ai

import "context"

// TaskType defines the kind of AI task, used for logging and model selection.
type TaskType int

const (
	TaskChat TaskType = iota
	TaskLesson
)

func (t TaskType) String() string {
	switch t {
	case TaskChat:
		return "chat"
	case TaskLesson:
		return "lesson"
	default:
		return "unknown"
	}
}

// Conversation roles. Providers translate these to their own vocabulary.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents one prior or current turn of a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is the input to an AI completion.
//
// When ResponseSchema is set the provider must constrain its output to JSON
// matching the schema. System carries the persona or system instruction and is
// sent out of band from Messages.
type CompletionRequest struct {
	Messages       []Message `json:"messages"`
	System         string    `json:"system,omitempty"`
	Model          string    `json:"model,omitempty"`
	MaxTokens      int       `json:"max_tokens,omitempty"`
	Temperature    *float64  `json:"temperature,omitempty"`
	ResponseSchema *Schema   `json:"response_schema,omitempty"`
	Task           TaskType  `json:"task,omitempty"`
}

// CompletionResponse is the output from an AI completion. An empty Content
// with a nil error means the backend answered without any text.
type CompletionResponse struct {
	Content      string `json:"content"`
	Model        string `json:"model"`
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
}

// TotalTokens returns the sum of input and output tokens.
func (r CompletionResponse) TotalTokens() int {
	return r.InputTokens + r.OutputTokens
}

// ModelInfo describes an available model.
type ModelInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MaxTokens   int    `json:"max_tokens"`
	Description string `json:"description"`
}

// Provider is the interface all AI providers must implement.
type Provider interface {
	Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error)
	Models() []ModelInfo
	HealthCheck(ctx context.Context) error
}

// Completer is the narrow view of a provider that callers depend on.
// Both *Router and every Provider satisfy it.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error)
}

// Float returns a pointer to v, for optional request fields.
func Float(v float64) *float64 {
	return &v
}
