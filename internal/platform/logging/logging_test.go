package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/p-n-ai/deepblue/internal/platform/config"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, config.LogConfig{Level: "info", Format: "json"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Debug("hidden")
	logger.Info("lesson generated", "topic", "耳压平衡技巧")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1 (debug filtered): %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("line is not JSON: %v", err)
	}
	if rec["msg"] != "lesson generated" || rec["topic"] != "耳压平衡技巧" || rec["service"] != "deepblue" {
		t.Errorf("record = %v", rec)
	}
}

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, config.LogConfig{Level: "debug", Format: "text"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Debug("visible", "k", "v")

	if !strings.Contains(buf.String(), "msg=visible") || !strings.Contains(buf.String(), "k=v") {
		t.Errorf("text output = %q", buf.String())
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.LogConfig
	}{
		{"bad level", config.LogConfig{Level: "chatty", Format: "json"}},
		{"bad format", config.LogConfig{Level: "info", Format: "yaml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(&bytes.Buffer{}, tt.cfg); err == nil {
				t.Error("New() should fail")
			}
		})
	}
}
