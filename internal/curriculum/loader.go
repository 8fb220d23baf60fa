// Package curriculum holds the read-only certification roadmap.
package curriculum

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed roadmap.yaml
var defaultRoadmap []byte

// Roadmap is the immutable, ordered table of roadmap steps.
type Roadmap struct {
	steps []RoadmapStep
	byID  map[string]int
}

type roadmapFile struct {
	Steps []RoadmapStep `yaml:"steps"`
}

// Default returns the built-in roadmap.
func Default() (*Roadmap, error) {
	return Parse(defaultRoadmap)
}

// Load reads a roadmap from path, or the built-in table when path is empty.
func Load(path string) (*Roadmap, error) {
	if path == "" {
		r, err := Default()
		if err != nil {
			return nil, err
		}
		slog.Info("roadmap loaded", "source", "embedded", "steps", len(r.steps))
		return r, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading roadmap: %w", err)
	}
	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loading roadmap %s: %w", path, err)
	}
	slog.Info("roadmap loaded", "source", path, "steps", len(r.steps))
	return r, nil
}

// Parse decodes and validates a YAML roadmap table.
func Parse(data []byte) (*Roadmap, error) {
	var f roadmapFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing roadmap: %w", err)
	}
	if len(f.Steps) == 0 {
		return nil, fmt.Errorf("roadmap has no steps")
	}

	r := &Roadmap{
		steps: make([]RoadmapStep, 0, len(f.Steps)),
		byID:  make(map[string]int, len(f.Steps)),
	}
	for i, s := range f.Steps {
		if s.ID == "" {
			return nil, fmt.Errorf("step %d has no id", i)
		}
		if _, dup := r.byID[s.ID]; dup {
			return nil, fmt.Errorf("duplicate step id %q", s.ID)
		}
		if !s.Level.Valid() {
			return nil, fmt.Errorf("step %q: missing level", s.ID)
		}
		if s.Title == "" {
			return nil, fmt.Errorf("step %q has no title", s.ID)
		}
		if len(s.Topics) == 0 {
			return nil, fmt.Errorf("step %q has no topics", s.ID)
		}
		r.byID[s.ID] = len(r.steps)
		r.steps = append(r.steps, s.clone())
	}
	return r, nil
}

// Steps returns a copy of all steps in roadmap order.
func (r *Roadmap) Steps() []RoadmapStep {
	out := make([]RoadmapStep, len(r.steps))
	for i, s := range r.steps {
		out[i] = s.clone()
	}
	return out
}

// Step returns the step with the given id.
func (r *Roadmap) Step(id string) (RoadmapStep, bool) {
	i, ok := r.byID[id]
	if !ok {
		return RoadmapStep{}, false
	}
	return r.steps[i].clone(), true
}

// Len returns the number of steps.
func (r *Roadmap) Len() int {
	return len(r.steps)
}
