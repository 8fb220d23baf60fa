package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/p-n-ai/deepblue/internal/agent"
	"github.com/p-n-ai/deepblue/internal/curriculum"
	"github.com/p-n-ai/deepblue/internal/divelog"
	"github.com/p-n-ai/deepblue/internal/lesson"
)

var (
	// ErrUnknownTopic is returned when a selection is not on the roadmap.
	ErrUnknownTopic = errors.New("topic is not on the roadmap")
	// ErrNotMounted is returned when acting on a view that is not showing.
	ErrNotMounted = errors.New("view is not showing")
)

// Deps are the components the controller mounts views over.
type Deps struct {
	Roadmap   *curriculum.Roadmap
	Lessons   lesson.Source
	Assistant agent.Replier
	DiveLog   *divelog.Log
	Session   agent.SessionConfig
}

// Controller owns the navigation state and the component behind each
// mounted view. A lesson view lives as long as its selection; a chat session
// lives while the chat view is showing, so leaving chat discards the
// transcript.
type Controller struct {
	deps Deps

	mu     sync.Mutex
	state  State
	lesson *lesson.View
	chat   *agent.Session
}

// NewController starts at the home view.
func NewController(deps Deps) *Controller {
	return &Controller{deps: deps, state: Initial()}
}

// State returns the current navigation state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Dispatch applies ev and mounts or unmounts views to match.
func (c *Controller) Dispatch(ctx context.Context, ev Event) (State, error) {
	if sel, ok := ev.(SelectTopic); ok {
		if err := c.checkSelection(sel); err != nil {
			return c.State(), err
		}
	}

	c.mu.Lock()
	prev := c.state
	next := Transition(prev, ev)
	c.state = next

	switch {
	case next.Selection == nil:
		c.lesson = nil
	case !prev.Selection.same(next.Selection):
		c.lesson = lesson.NewView(c.deps.Lessons)
	}

	enteringDiveLog := next.View == ViewDiveLog && prev.View != ViewDiveLog
	switch {
	case next.View != ViewChat:
		c.chat = nil
	case prev.View != ViewChat:
		c.chat = agent.NewSession(c.deps.Assistant, c.deps.Session)
	}
	c.mu.Unlock()

	if enteringDiveLog && c.deps.DiveLog != nil {
		if err := c.deps.DiveLog.Reload(ctx); err != nil {
			slog.Error("dive log reload failed, showing last known entries", "error", err)
		}
	}

	slog.Debug("navigation", "from", prev.Screen(), "to", next.Screen())
	return next, nil
}

// Lesson opens (or returns) the lesson for the current selection.
func (c *Controller) Lesson(ctx context.Context) (lesson.Snapshot, error) {
	c.mu.Lock()
	view, sel := c.lesson, c.state.Selection
	c.mu.Unlock()

	if view == nil || sel == nil {
		return lesson.Snapshot{}, fmt.Errorf("lesson: %w", ErrNotMounted)
	}
	return view.Open(ctx, lesson.Key{Topic: sel.Topic, Level: sel.Step.Title})
}

// LessonView returns the mounted lesson view, or nil.
func (c *Controller) LessonView() *lesson.View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lesson
}

// Chat returns the mounted chat session, or nil.
func (c *Controller) Chat() *agent.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.chat
}

// DiveLog returns the dive log.
func (c *Controller) DiveLog() *divelog.Log {
	return c.deps.DiveLog
}

// Roadmap returns the curriculum.
func (c *Controller) Roadmap() *curriculum.Roadmap {
	return c.deps.Roadmap
}

func (c *Controller) checkSelection(sel SelectTopic) error {
	if c.deps.Roadmap == nil {
		return nil
	}
	step, ok := c.deps.Roadmap.Step(sel.Step.ID)
	if !ok || !step.HasTopic(sel.Topic) {
		return fmt.Errorf("%w: %s / %s", ErrUnknownTopic, sel.Step.ID, sel.Topic)
	}
	return nil
}
