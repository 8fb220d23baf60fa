package agent

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/p-n-ai/deepblue/internal/ai"
)

// DefaultGreeting opens every transcript.
const DefaultGreeting = "你好！我是 DeepBlue 潜水助教。关于潜水装备、技巧、安全常识或者海洋生物，你有什么想问的吗？"

var (
	// ErrBusy is returned when a reply is still pending for the session.
	ErrBusy = errors.New("a reply is already pending")
	// ErrEmptyMessage is returned for blank input.
	ErrEmptyMessage = errors.New("message is empty")
)

// Replier produces assistant replies; *Assistant is the production implementation.
type Replier interface {
	Reply(ctx context.Context, history []ChatMessage, newMessage string) string
}

// SessionConfig configures a chat session.
type SessionConfig struct {
	Greeting string           // default DefaultGreeting
	Now      func() time.Time // default time.Now
}

// Exchange is one completed send: the learner's message and the reply to it.
type Exchange struct {
	User  ChatMessage `json:"user"`
	Reply ChatMessage `json:"reply"`
}

// Session is the transcript of one mounted chat view. It is append-only and
// allows a single exchange in flight at a time.
type Session struct {
	ID string

	replier  Replier
	now      func() time.Time
	inflight *semaphore.Weighted
	pending  atomic.Bool

	mu         sync.Mutex
	transcript []ChatMessage
	lastStamp  int64
}

// NewSession starts a transcript containing only the greeting.
func NewSession(replier Replier, cfg SessionConfig) *Session {
	greeting := cfg.Greeting
	if greeting == "" {
		greeting = DefaultGreeting
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	s := &Session{
		ID:       uuid.NewString(),
		replier:  replier,
		now:      now,
		inflight: semaphore.NewWeighted(1),
	}
	s.appendLocked(ai.RoleAssistant, greeting)
	return s
}

// Send appends text as a user message, waits for the reply and appends it.
// The reply is always placed directly after its user message.
func (s *Session) Send(ctx context.Context, text string) (Exchange, error) {
	if strings.TrimSpace(text) == "" {
		return Exchange{}, ErrEmptyMessage
	}
	if !s.inflight.TryAcquire(1) {
		return Exchange{}, ErrBusy
	}
	defer s.inflight.Release(1)
	s.pending.Store(true)
	defer s.pending.Store(false)

	s.mu.Lock()
	history := append([]ChatMessage(nil), s.transcript...)
	user := s.appendLocked(ai.RoleUser, text)
	s.mu.Unlock()

	reply := s.replier.Reply(ctx, history, text)

	s.mu.Lock()
	assistant := s.appendLocked(ai.RoleAssistant, reply)
	s.mu.Unlock()

	return Exchange{User: user, Reply: assistant}, nil
}

// Pending reports whether a reply is outstanding.
func (s *Session) Pending() bool {
	return s.pending.Load()
}

// Transcript returns a copy of every message so far.
func (s *Session) Transcript() []ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ChatMessage(nil), s.transcript...)
}

// Len returns the number of messages in the transcript.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.transcript)
}

func (s *Session) appendLocked(role, text string) ChatMessage {
	stamp := s.now().UnixMilli()
	if stamp <= s.lastStamp {
		stamp = s.lastStamp + 1
	}
	s.lastStamp = stamp

	msg := ChatMessage{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		Timestamp: stamp,
	}
	s.transcript = append(s.transcript, msg)
	return msg
}
