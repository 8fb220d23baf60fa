// Package chat carries chat turns between front-end connections and the
// assistant. Each connection is one mounted chat view.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/p-n-ai/deepblue/internal/agent"
)

// EventKind tells a handler what happened on a connection.
type EventKind int

const (
	EventText EventKind = iota
	EventConnect
	EventDisconnect
)

// InboundMessage is something received from any channel.
type InboundMessage struct {
	Channel string
	ConnID  string
	Event   EventKind
	Text    string
}

// Outbound frame types.
const (
	TypeTranscript = "transcript"
	TypeMessage    = "message"
	TypeTyping     = "typing"
	TypeError      = "error"
)

// OutboundMessage is a frame to deliver to one connection.
type OutboundMessage struct {
	Channel  string              `json:"-"`
	ConnID   string              `json:"-"`
	Type     string              `json:"type"`
	Message  *agent.ChatMessage  `json:"message,omitempty"`
	Messages []agent.ChatMessage `json:"messages,omitempty"`
	Error    string              `json:"error,omitempty"`
}

// Channel is the interface each front-end transport implements.
type Channel interface {
	SendMessage(ctx context.Context, connID string, msg OutboundMessage) error
	SendTyping(ctx context.Context, connID string) error
	Start(ctx context.Context, handler func(InboundMessage)) error
	Stop() error
}

// Gateway routes messages to/from registered channels.
type Gateway struct {
	channels map[string]Channel
	mu       sync.RWMutex
}

// NewGateway creates a new chat gateway.
func NewGateway() *Gateway {
	return &Gateway{
		channels: make(map[string]Channel),
	}
}

// Register adds a channel to the gateway.
func (g *Gateway) Register(name string, ch Channel) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.channels[name] = ch
	slog.Info("chat channel registered", "channel", name)
}

// HasChannel returns true if the named channel is registered.
func (g *Gateway) HasChannel(name string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.channels[name]
	return ok
}

// Send dispatches a message to the appropriate channel.
func (g *Gateway) Send(ctx context.Context, msg OutboundMessage) error {
	ch, err := g.channel(msg.Channel)
	if err != nil {
		return err
	}
	return ch.SendMessage(ctx, msg.ConnID, msg)
}

// SendTyping tells the connection a reply is being prepared.
func (g *Gateway) SendTyping(ctx context.Context, channel, connID string) error {
	ch, err := g.channel(channel)
	if err != nil {
		return err
	}
	return ch.SendTyping(ctx, connID)
}

// StartAll starts all registered channels with the given message handler.
func (g *Gateway) StartAll(ctx context.Context, handler func(InboundMessage)) error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	for name, ch := range g.channels {
		slog.Info("starting channel", "channel", name)
		if err := ch.Start(ctx, handler); err != nil {
			return fmt.Errorf("starting channel %s: %w", name, err)
		}
	}
	return nil
}

// StopAll stops every registered channel, returning the first error.
func (g *Gateway) StopAll() error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var first error
	for name, ch := range g.channels {
		if err := ch.Stop(); err != nil {
			slog.Warn("stopping channel failed", "channel", name, "error", err)
			if first == nil {
				first = err
			}
		}
	}
	return first
}

func (g *Gateway) channel(name string) (Channel, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	ch, ok := g.channels[name]
	if !ok {
		return nil, fmt.Errorf("unknown channel: %s", name)
	}
	return ch, nil
}

// MockChannel is a test double for Channel.
type MockChannel struct {
	mu           sync.Mutex
	SentMessages []OutboundMessage
	Typing       int
	handler      func(InboundMessage)
}

func (m *MockChannel) SendMessage(_ context.Context, _ string, msg OutboundMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SentMessages = append(m.SentMessages, msg)
	return nil
}

func (m *MockChannel) SendTyping(_ context.Context, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Typing++
	return nil
}

func (m *MockChannel) Start(_ context.Context, handler func(InboundMessage)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handler = handler
	return nil
}

func (m *MockChannel) Stop() error {
	return nil
}

// Deliver feeds msg to the handler registered by Start.
func (m *MockChannel) Deliver(msg InboundMessage) {
	m.mu.Lock()
	h := m.handler
	m.mu.Unlock()
	if h != nil {
		h(msg)
	}
}

// Sent returns a copy of the frames sent so far.
func (m *MockChannel) Sent() []OutboundMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]OutboundMessage(nil), m.SentMessages...)
}
