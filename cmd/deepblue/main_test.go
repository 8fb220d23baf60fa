package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/p-n-ai/deepblue/internal/agent"
	"github.com/p-n-ai/deepblue/internal/ai"
	"github.com/p-n-ai/deepblue/internal/app"
	"github.com/p-n-ai/deepblue/internal/curriculum"
	"github.com/p-n-ai/deepblue/internal/divelog"
	"github.com/p-n-ai/deepblue/internal/lesson"
)

const lessonJSON = `{"title":"耳压平衡","introduction":"intro","coreContent":"core","safetyTip":"never force it",
"quiz":[{"question":"When to equalize?","options":["When it hurts","Early and often"],"correctIndex":1,"explanation":"Stay ahead of the pressure."}]}`

type harness struct {
	mock    *ai.MockProvider
	log     *divelog.Log
	roadmap *curriculum.Roadmap
	needsAI []bool
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	roadmap, err := curriculum.Default()
	if err != nil {
		t.Fatalf("curriculum.Default() error = %v", err)
	}
	log, err := divelog.Open(context.Background(), divelog.NewMemoryKV())
	if err != nil {
		t.Fatalf("divelog.Open() error = %v", err)
	}
	return &harness{mock: ai.NewMockProvider(lessonJSON), log: log, roadmap: roadmap}
}

func (h *harness) build(_ context.Context, needsAI bool) (*app.Runtime, error) {
	h.needsAI = append(h.needsAI, needsAI)
	return &app.Runtime{
		Roadmap:   h.roadmap,
		Lessons:   lesson.NewGenerator(lesson.GeneratorConfig{AI: h.mock}),
		Assistant: agent.NewAssistant(agent.AssistantConfig{AI: h.mock}),
		DiveLog:   h.log,
	}, nil
}

func (h *harness) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	c := &cli{build: h.build}
	defer c.close()

	root := c.rootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRoadmapCommand(t *testing.T) {
	h := newHarness(t)
	out, err := h.run(t, "", "roadmap")
	if err != nil {
		t.Fatalf("roadmap error = %v", err)
	}
	first := h.roadmap.Steps()[0]
	for _, want := range []string{first.ID, first.Title, first.Topics[0]} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if len(h.needsAI) != 1 || h.needsAI[0] {
		t.Errorf("roadmap should not require an AI provider, got %v", h.needsAI)
	}
}

func TestLessonCommand(t *testing.T) {
	h := newHarness(t)
	step := h.roadmap.Steps()[0]

	out, err := h.run(t, "abc\n3\n2\n", "lesson", step.ID, step.Topics[0], "--quiz")
	if err != nil {
		t.Fatalf("lesson error = %v", err)
	}
	for _, want := range []string{"# 耳压平衡", "never force it", "Enter an option number.", "No such option.", "Correct!", "Score: 1/1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if got := len(h.mock.Requests()); got != 1 {
		t.Errorf("backend called %d times, want 1", got)
	}
}

func TestLessonCommand_Errors(t *testing.T) {
	h := newHarness(t)
	step := h.roadmap.Steps()[0]

	if _, err := h.run(t, "", "lesson", "nope", "x"); !errors.Is(err, app.ErrUnknownTopic) {
		t.Errorf("unknown step error = %v, want ErrUnknownTopic", err)
	}
	if _, err := h.run(t, "", "lesson", step.ID, "not a topic"); !errors.Is(err, app.ErrUnknownTopic) {
		t.Errorf("unknown topic error = %v, want ErrUnknownTopic", err)
	}

	h.mock.Err = errors.New("offline")
	out, err := h.run(t, "", "lesson", step.ID, step.Topics[0])
	if !lesson.IsGenerationError(err) {
		t.Errorf("error = %v, want GenerationError", err)
	}
	if !strings.Contains(out, lesson.FallbackMessage) {
		t.Errorf("output missing fallback message:\n%s", out)
	}
}

func TestChatCommand(t *testing.T) {
	h := newHarness(t)
	h.mock.SetResponse("Ascend no faster than 9 metres a minute.")

	out, err := h.run(t, "How fast should I ascend?\n\n/quit\nignored\n", "chat")
	if err != nil {
		t.Fatalf("chat error = %v", err)
	}
	if !strings.Contains(out, agent.DefaultGreeting) {
		t.Errorf("output missing greeting:\n%s", out)
	}
	if !strings.Contains(out, "9 metres") {
		t.Errorf("output missing reply:\n%s", out)
	}
	// The blank line is skipped and nothing after /quit is sent.
	if got := len(h.mock.Requests()); got != 1 {
		t.Errorf("backend called %d times, want 1", got)
	}
}

func TestDiveLogCommands(t *testing.T) {
	h := newHarness(t)

	if _, err := h.run(t, "", "divelog", "add",
		"--date", "2024-05-01", "--location", "Sipadan", "--depth", "18.5", "--duration", "45"); err != nil {
		t.Fatalf("add error = %v", err)
	}
	if _, err := h.run(t, "", "divelog", "add",
		"--date", "2024-05-01", "--location", "Tioman", "--depth", "deep"); !errors.Is(err, divelog.ErrInvalidEntry) {
		t.Errorf("invalid add error = %v, want ErrInvalidEntry", err)
	}

	out, err := h.run(t, "", "divelog", "list")
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	if !strings.Contains(out, "Sipadan") || !strings.Contains(out, "1 dives, deepest 18.5m") {
		t.Errorf("list output:\n%s", out)
	}

	path := filepath.Join(t.TempDir(), "log.xlsx")
	if _, err := h.run(t, "", "divelog", "export", "-o", path); err != nil {
		t.Fatalf("export error = %v", err)
	}
	book, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	book.Close()

	id := h.log.Entries()[0].ID
	if _, err := h.run(t, "", "divelog", "rm", id); err != nil {
		t.Fatalf("rm error = %v", err)
	}
	if _, err := h.run(t, "", "divelog", "rm", id); !errors.Is(err, divelog.ErrNotFound) {
		t.Errorf("second rm error = %v, want ErrNotFound", err)
	}

	for _, needs := range h.needsAI {
		if needs {
			t.Error("divelog commands should not require an AI provider")
		}
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("export file missing: %v", err)
	}
}
