package chat

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/p-n-ai/deepblue/internal/agent"
)

// Relay binds connections to chat sessions. A connection gets a fresh
// session (greeting included) when it opens and loses it when it closes.
type Relay struct {
	gateway    *Gateway
	newSession func() *agent.Session

	mu       sync.Mutex
	sessions map[string]*agent.Session
}

// NewRelay creates a relay that answers through gw.
func NewRelay(gw *Gateway, newSession func() *agent.Session) *Relay {
	return &Relay{
		gateway:    gw,
		newSession: newSession,
		sessions:   make(map[string]*agent.Session),
	}
}

// Handle is the gateway handler.
func (r *Relay) Handle(ctx context.Context, msg InboundMessage) {
	switch msg.Event {
	case EventConnect:
		s := r.newSession()
		r.mu.Lock()
		r.sessions[key(msg)] = s
		r.mu.Unlock()
		r.send(ctx, msg, OutboundMessage{Type: TypeTranscript, Messages: s.Transcript()})

	case EventDisconnect:
		r.mu.Lock()
		delete(r.sessions, key(msg))
		r.mu.Unlock()

	case EventText:
		r.mu.Lock()
		s, ok := r.sessions[key(msg)]
		r.mu.Unlock()
		if !ok {
			slog.Warn("message for unknown connection", "channel", msg.Channel, "conn_id", msg.ConnID)
			return
		}
		r.exchange(ctx, msg, s)
	}
}

// Len returns the number of connected sessions.
func (r *Relay) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Relay) exchange(ctx context.Context, msg InboundMessage, s *agent.Session) {
	if s.Pending() {
		r.send(ctx, msg, OutboundMessage{Type: TypeError, Error: agent.ErrBusy.Error()})
		return
	}
	if err := r.gateway.SendTyping(ctx, msg.Channel, msg.ConnID); err != nil {
		slog.Debug("typing indicator failed", "conn_id", msg.ConnID, "error", err)
	}

	ex, err := s.Send(ctx, msg.Text)
	switch {
	case errors.Is(err, agent.ErrBusy), errors.Is(err, agent.ErrEmptyMessage):
		r.send(ctx, msg, OutboundMessage{Type: TypeError, Error: err.Error()})
		return
	case err != nil:
		slog.Error("chat exchange failed", "conn_id", msg.ConnID, "error", err)
		return
	}

	r.send(ctx, msg, OutboundMessage{Type: TypeMessage, Message: &ex.User})
	r.send(ctx, msg, OutboundMessage{Type: TypeMessage, Message: &ex.Reply})
}

func (r *Relay) send(ctx context.Context, in InboundMessage, out OutboundMessage) {
	out.Channel = in.Channel
	out.ConnID = in.ConnID
	if err := r.gateway.Send(ctx, out); err != nil {
		slog.Warn("chat frame not delivered", "channel", in.Channel, "conn_id", in.ConnID, "type", out.Type, "error", err)
	}
}

func key(msg InboundMessage) string {
	return msg.Channel + "/" + msg.ConnID
}
