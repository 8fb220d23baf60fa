package curriculum_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/p-n-ai/deepblue/internal/curriculum"
)

func TestDefault_LoadsAllLevelsInOrder(t *testing.T) {
	r, err := curriculum.Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}

	steps := r.Steps()
	if len(steps) != len(curriculum.Levels) {
		t.Fatalf("Steps() = %d, want %d", len(steps), len(curriculum.Levels))
	}
	for i, s := range steps {
		if s.Level != curriculum.Levels[i] {
			t.Errorf("step %d level = %s, want %s", i, s.Level, curriculum.Levels[i])
		}
		if len(s.Topics) == 0 {
			t.Errorf("step %s has no topics", s.ID)
		}
	}
}

func TestRoadmap_Step(t *testing.T) {
	r, err := curriculum.Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}

	step, found := r.Step("step-1")
	if !found {
		t.Fatal("Step(step-1) not found")
	}
	if step.Title != "开放水域潜水员 (OW)" {
		t.Errorf("Title = %q, want OW title", step.Title)
	}
	if !step.HasTopic("耳压平衡技巧") {
		t.Error("step-1 should contain the equalization topic")
	}

	if _, found := r.Step("step-99"); found {
		t.Error("Step(step-99) should not be found")
	}
}

func TestRoadmap_StepsAreCopies(t *testing.T) {
	r, err := curriculum.Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}

	steps := r.Steps()
	steps[0].Title = "mutated"
	steps[0].Topics[0] = "mutated"

	again, _ := r.Step(steps[0].ID)
	if again.Title == "mutated" || again.Topics[0] == "mutated" {
		t.Error("roadmap table should not be mutable through returned steps")
	}
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty", `steps: []`},
		{"unknown level", `
steps:
  - id: a
    level: ASTRONAUT
    title: x
    topics: [t]
`},
		{"duplicate id", `
steps:
  - {id: a, level: RESCUE, title: x, topics: [t]}
  - {id: a, level: RESCUE, title: y, topics: [t]}
`},
		{"no topics", `
steps:
  - {id: a, level: RESCUE, title: x}
`},
		{"no level", `
steps:
  - {id: a, title: x, topics: [t]}
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := curriculum.Parse([]byte(tt.yaml)); err == nil {
				t.Error("Parse() error = nil, want error")
			}
		})
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roadmap.yaml")
	os.WriteFile(path, []byte(`
steps:
  - id: custom
    level: OPEN_WATER
    title: "Custom OW"
    description: "override"
    image: ""
    topics: ["Mask clearing"]
`), 0o644)

	r, err := curriculum.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := curriculum.Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() should fail for a missing file")
	}
}
