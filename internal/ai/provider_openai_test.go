package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

const openaiOKBody = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "model": "gpt-4o",
  "choices": [{"index": 0, "message": {"role": "assistant", "content": "Hi there!"}, "finish_reason": "stop"}],
  "usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
}`

func TestOpenAIProvider_Complete(t *testing.T) {
	var req map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}
		json.NewDecoder(r.Body).Decode(&req)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(openaiOKBody))
	}))
	defer server.Close()

	provider := NewOpenAIProvider("test-key", WithBaseURL(server.URL))

	resp, err := provider.Complete(context.Background(), CompletionRequest{
		System:   "be brief",
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
		Model:    "gpt-4o",
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if resp.Content != "Hi there!" {
		t.Errorf("content = %q, want %q", resp.Content, "Hi there!")
	}
	if resp.TotalTokens() != 15 {
		t.Errorf("TotalTokens() = %d, want 15", resp.TotalTokens())
	}

	if req["model"] != "gpt-4o" {
		t.Errorf("model = %v, want gpt-4o", req["model"])
	}
	msgs, _ := req["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("messages = %v, want system + user", req["messages"])
	}
	first, _ := msgs[0].(map[string]any)
	if first["role"] != "system" || first["content"] != "be brief" {
		t.Errorf("first message = %v, want system instruction", first)
	}
}

func TestOpenAIProvider_Complete_Temperature(t *testing.T) {
	tests := []struct {
		name    string
		temp    *float64
		present bool
		check   func(float64) bool
	}{
		{"unset", nil, false, nil},
		{"zero stays near zero", Float(0), true, func(v float64) bool { return v > 0 && v < 1e-30 }},
		{"configured", Float(0.4), true, func(v float64) bool { return v > 0.39 && v < 0.41 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req map[string]any
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				json.NewDecoder(r.Body).Decode(&req)
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(openaiOKBody))
			}))
			defer server.Close()

			provider := NewOpenAIProvider("test-key", WithBaseURL(server.URL))
			if _, err := provider.Complete(context.Background(), CompletionRequest{
				Messages:    []Message{{Role: RoleUser, Content: "hi"}},
				Temperature: tt.temp,
			}); err != nil {
				t.Fatalf("Complete() error = %v", err)
			}

			got, ok := req["temperature"].(float64)
			if ok != tt.present {
				t.Fatalf("temperature present = %v, want %v (%v)", ok, tt.present, req["temperature"])
			}
			if tt.check != nil && !tt.check(got) {
				t.Errorf("temperature = %v", got)
			}
		})
	}
}

func TestOpenAIProvider_Complete_SchemaSetsResponseFormat(t *testing.T) {
	var req map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(openaiOKBody))
	}))
	defer server.Close()

	provider := NewOpenAIProvider("test-key", WithBaseURL(server.URL))

	_, err := provider.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: RoleUser, Content: "lesson"}},
		ResponseSchema: &Schema{
			Type:       TypeObject,
			Properties: map[string]*Schema{"title": {Type: TypeString}},
			Required:   []string{"title"},
		},
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	format, ok := req["response_format"].(map[string]any)
	if !ok {
		t.Fatalf("response_format missing: %v", req)
	}
	if format["type"] != "json_schema" {
		t.Errorf("response_format.type = %v, want json_schema", format["type"])
	}
	js, _ := format["json_schema"].(map[string]any)
	schema, _ := js["schema"].(map[string]any)
	if schema["type"] != "object" {
		t.Errorf("schema.type = %v, want object", schema["type"])
	}
}

func TestOpenAIProvider_Complete_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": {"message": "boom", "type": "server_error"}}`))
	}))
	defer server.Close()

	provider := NewOpenAIProvider("test-key", WithBaseURL(server.URL))

	_, err := provider.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	})
	if err == nil {
		t.Fatal("Complete() should return error on API error")
	}
}

func TestOpenAIProvider_Models(t *testing.T) {
	provider := NewOpenAIProvider("test-key")
	if len(provider.Models()) == 0 {
		t.Fatal("Models() returned empty list")
	}
}
