package lesson

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/p-n-ai/deepblue/internal/ai"
	"github.com/p-n-ai/deepblue/internal/platform/locale"
)

const defaultTemperature = 0.4

// GeneratorConfig holds dependencies for the lesson generator.
type GeneratorConfig struct {
	AI          ai.Completer
	Model       string
	Temperature *float64        // nil means 0.4; 0 is sent as 0
	Language    locale.Language // default Simplified Chinese
	MaxTokens   int
}

// Generator turns a (topic, level) pair into a validated lesson. It keeps no
// cache: the same pair always produces a fresh request.
type Generator struct {
	ai          ai.Completer
	model       string
	temperature float64
	language    locale.Language
	maxTokens   int
}

// NewGenerator creates a lesson generator.
func NewGenerator(cfg GeneratorConfig) *Generator {
	temp := defaultTemperature
	if cfg.Temperature != nil {
		temp = *cfg.Temperature
	}
	lang := cfg.Language
	if lang.Tag.IsRoot() {
		lang = locale.MustParse("zh-Hans")
	}
	return &Generator{
		ai:          cfg.AI,
		model:       cfg.Model,
		temperature: temp,
		language:    lang,
		maxTokens:   cfg.MaxTokens,
	}
}

// Generate issues exactly one structured request and returns the decoded
// lesson, or a *GenerationError.
func (g *Generator) Generate(ctx context.Context, topic, levelDescription string) (LessonContent, error) {
	topic = locale.Normalize(topic)
	levelDescription = locale.Normalize(levelDescription)
	fail := func(kind FailureKind, err error) (LessonContent, error) {
		slog.Error("lesson generation failed",
			"topic", topic,
			"level", levelDescription,
			"kind", kind.String(),
			"error", err,
		)
		return LessonContent{}, &GenerationError{Kind: kind, Topic: topic, Level: levelDescription, Err: err}
	}

	start := time.Now()
	resp, err := g.ai.Complete(ctx, ai.CompletionRequest{
		Messages: []ai.Message{{
			Role:    ai.RoleUser,
			Content: buildPrompt(topic, levelDescription, g.language.Name()),
		}},
		Model:          g.model,
		MaxTokens:      g.maxTokens,
		Temperature:    ai.Float(g.temperature),
		ResponseSchema: Schema,
		Task:           ai.TaskLesson,
	})
	if err != nil {
		return fail(FailureBackend, err)
	}

	payload := bytes.TrimSpace([]byte(resp.Content))
	if len(payload) == 0 {
		return fail(FailureEmpty, fmt.Errorf("no content generated"))
	}

	content, err := decode(payload)
	if err != nil {
		return fail(FailureInvalid, err)
	}

	slog.Info("lesson generated",
		"topic", topic,
		"level", levelDescription,
		"questions", len(content.Quiz),
		"model", resp.Model,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return content, nil
}

// decode validates the payload against the contract before trusting its shape.
func decode(payload []byte) (LessonContent, error) {
	if err := validatePayload(payload); err != nil {
		return LessonContent{}, err
	}

	var content LessonContent
	if err := json.Unmarshal(payload, &content); err != nil {
		return LessonContent{}, fmt.Errorf("decode lesson: %w", err)
	}

	for i, q := range content.Quiz {
		if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
			return LessonContent{}, fmt.Errorf("quiz[%d]: correctIndex %d out of range for %d options",
				i, q.CorrectIndex, len(q.Options))
		}
	}
	return content, nil
}
