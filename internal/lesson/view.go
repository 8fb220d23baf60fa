package lesson

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Status is the lesson view state.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Key identifies what a view is showing.
type Key struct {
	Topic string `json:"topic"`
	Level string `json:"level"`
}

// Snapshot is a read-only copy of a view's state.
type Snapshot struct {
	Status  Status         `json:"-"`
	State   string         `json:"state"`
	Key     Key            `json:"key"`
	Content *LessonContent `json:"content,omitempty"`
	// Message is the fallback shown with a failed lesson; the only action
	// offered with it is returning to the topic list.
	Message string `json:"message,omitempty"`
	Err     error  `json:"-"`
}

// Source produces lessons; *Generator is the production implementation.
type Source interface {
	Generate(ctx context.Context, topic, levelDescription string) (LessonContent, error)
}

// View drives one mounted lesson: Idle → Loading → Ready | Failed. A new
// request fires only when the (topic, level) key changes, and never while one
// is already in flight. Failed is terminal until the key changes.
type View struct {
	source   Source
	inflight *semaphore.Weighted

	mu      sync.Mutex
	status  Status
	key     Key
	content *LessonContent
	err     error
	quiz    *Quiz
}

// NewView creates an idle lesson view.
func NewView(source Source) *View {
	return &View{
		source:   source,
		inflight: semaphore.NewWeighted(1),
	}
}

// Open shows the lesson for key, generating it if the key changed.
func (v *View) Open(ctx context.Context, key Key) (Snapshot, error) {
	v.mu.Lock()
	if v.status != StatusIdle && v.status != StatusLoading && v.key == key {
		snap := v.snapshotLocked()
		v.mu.Unlock()
		return snap, nil
	}
	if !v.inflight.TryAcquire(1) {
		v.mu.Unlock()
		return Snapshot{}, ErrBusy
	}
	v.status = StatusLoading
	v.key = key
	v.content = nil
	v.err = nil
	v.quiz = nil
	v.mu.Unlock()

	defer v.inflight.Release(1)
	content, err := v.source.Generate(ctx, key.Topic, key.Level)

	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		v.status = StatusFailed
		v.err = err
	} else {
		v.status = StatusReady
		v.content = &content
		v.quiz = NewQuiz(content.Quiz)
	}
	return v.snapshotLocked(), nil
}

// Snapshot returns the current state.
func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshotLocked()
}

// Answer records a quiz answer on a ready lesson.
func (v *View) Answer(question, option int) (AnswerResult, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.status != StatusReady {
		return AnswerResult{}, ErrNoSuchQuestion
	}
	return v.quiz.Answer(question, option)
}

// Score reports quiz progress on a ready lesson.
func (v *View) Score() (correct, answered, total int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.quiz == nil {
		return 0, 0, 0
	}
	return v.quiz.Score()
}

func (v *View) snapshotLocked() Snapshot {
	snap := Snapshot{
		Status: v.status,
		State:  v.status.String(),
		Key:    v.key,
		Err:    v.err,
	}
	if v.content != nil {
		c := *v.content
		snap.Content = &c
	}
	if v.status == StatusFailed {
		snap.Message = FallbackMessage
	}
	return snap
}
