package curriculum

import (
	"fmt"
	"slices"
)

// DiveLevel is a rung in the certification progression.
type DiveLevel string

const (
	LevelInterest   DiveLevel = "INTEREST"
	LevelOpenWater  DiveLevel = "OPEN_WATER"
	LevelAdvanced   DiveLevel = "ADVANCED"
	LevelRescue     DiveLevel = "RESCUE"
	LevelDivemaster DiveLevel = "DIVEMASTER"
	LevelInstructor DiveLevel = "INSTRUCTOR"
)

// Levels lists every level in progression order.
var Levels = []DiveLevel{
	LevelInterest,
	LevelOpenWater,
	LevelAdvanced,
	LevelRescue,
	LevelDivemaster,
	LevelInstructor,
}

// Valid reports whether l is one of the known levels.
func (l DiveLevel) Valid() bool {
	return slices.Contains(Levels, l)
}

// UnmarshalText rejects unknown levels so a bad table fails at startup.
func (l *DiveLevel) UnmarshalText(b []byte) error {
	v := DiveLevel(b)
	if !v.Valid() {
		return fmt.Errorf("unknown dive level %q", string(b))
	}
	*l = v
	return nil
}

// RoadmapStep is one node of the curriculum.
type RoadmapStep struct {
	ID          string    `yaml:"id" json:"id"`
	Level       DiveLevel `yaml:"level" json:"level"`
	Title       string    `yaml:"title" json:"title"`
	Description string    `yaml:"description" json:"description"`
	Image       string    `yaml:"image" json:"image"`
	Topics      []string  `yaml:"topics" json:"topics"`
}

// HasTopic reports whether topic belongs to the step.
func (s RoadmapStep) HasTopic(topic string) bool {
	return slices.Contains(s.Topics, topic)
}

func (s RoadmapStep) clone() RoadmapStep {
	s.Topics = slices.Clone(s.Topics)
	return s
}
