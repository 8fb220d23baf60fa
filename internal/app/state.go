// Package app holds the top-level navigation state: which view is showing
// and which roadmap topic, if any, is open.
package app

import (
	"github.com/p-n-ai/deepblue/internal/curriculum"
)

// View is a top-level destination.
type View string

const (
	ViewHome    View = "home"
	ViewRoadmap View = "roadmap"
	ViewChat    View = "chat"
	ViewDiveLog View = "divelog"
)

// Valid reports whether v is a known view.
func (v View) Valid() bool {
	switch v {
	case ViewHome, ViewRoadmap, ViewChat, ViewDiveLog:
		return true
	}
	return false
}

// Selection is the topic opened from the roadmap.
type Selection struct {
	Step  curriculum.RoadmapStep `json:"step"`
	Topic string                 `json:"topic"`
}

func (s *Selection) same(o *Selection) bool {
	if s == nil || o == nil {
		return s == o
	}
	return s.Step.ID == o.Step.ID && s.Topic == o.Topic
}

// State is the navigation state. A non-nil Selection only ever accompanies
// ViewRoadmap.
type State struct {
	View      View       `json:"view"`
	Selection *Selection `json:"selection,omitempty"`
}

// Initial is where every run starts.
func Initial() State {
	return State{View: ViewHome}
}

// Event is a navigation input.
type Event interface {
	event()
}

// Start leaves the landing page for the roadmap.
type Start struct{}

// Navigate switches the top-level view.
type Navigate struct {
	To View
}

// SelectTopic opens a lesson for topic within step.
type SelectTopic struct {
	Step  curriculum.RoadmapStep
	Topic string
}

// BackToRoadmap closes the open lesson.
type BackToRoadmap struct{}

func (Start) event()         {}
func (Navigate) event()      {}
func (SelectTopic) event()   {}
func (BackToRoadmap) event() {}

// Transition returns the state after ev. It has no side effects; events that
// make no sense in s leave it unchanged.
func Transition(s State, ev Event) State {
	switch ev := ev.(type) {
	case Start:
		return State{View: ViewRoadmap, Selection: s.Selection}
	case Navigate:
		if !ev.To.Valid() {
			return s
		}
		next := State{View: ev.To}
		if ev.To == ViewRoadmap {
			next.Selection = s.Selection
		}
		return next
	case SelectTopic:
		if s.View != ViewRoadmap {
			return s
		}
		return State{View: ViewRoadmap, Selection: &Selection{Step: ev.Step, Topic: ev.Topic}}
	case BackToRoadmap:
		return State{View: s.View}
	}
	return s
}

// Screen is what a state renders.
type Screen string

const (
	ScreenHome    Screen = "home"
	ScreenRoadmap Screen = "roadmap"
	ScreenLesson  Screen = "lesson"
	ScreenChat    Screen = "chat"
	ScreenDiveLog Screen = "divelog"
)

// Screen derives the rendered screen from the state.
func (s State) Screen() Screen {
	switch s.View {
	case ViewRoadmap:
		if s.Selection != nil {
			return ScreenLesson
		}
		return ScreenRoadmap
	case ViewChat:
		return ScreenChat
	case ViewDiveLog:
		return ScreenDiveLog
	default:
		return ScreenHome
	}
}
