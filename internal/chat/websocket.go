package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
)

const (
	// ChannelWebSocket is the gateway name of the WebSocket channel.
	ChannelWebSocket = "websocket"

	wsWriteTimeout = 10 * time.Second
	wsReadLimit    = 16 << 10
)

// inboundFrame is what browsers send: {"text": "..."}.
type inboundFrame struct {
	Text string `json:"text"`
}

// WebSocketChannel serves chat over WebSocket. Every accepted connection is
// its own conversation.
type WebSocketChannel struct {
	originPatterns []string

	mu      sync.RWMutex
	handler func(InboundMessage)
	conns   map[string]*websocket.Conn
	stopped bool
}

// NewWebSocketChannel creates the channel. originPatterns are passed to the
// handshake; empty means same-origin only.
func NewWebSocketChannel(originPatterns ...string) *WebSocketChannel {
	return &WebSocketChannel{
		originPatterns: originPatterns,
		conns:          make(map[string]*websocket.Conn),
	}
}

func (w *WebSocketChannel) Start(_ context.Context, handler func(InboundMessage)) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handler = handler
	w.stopped = false
	return nil
}

// Stop closes every open connection.
func (w *WebSocketChannel) Stop() error {
	w.mu.Lock()
	conns := w.conns
	w.conns = make(map[string]*websocket.Conn)
	w.stopped = true
	w.mu.Unlock()

	for _, c := range conns {
		c.Close(websocket.StatusGoingAway, "server shutting down")
	}
	return nil
}

func (w *WebSocketChannel) SendMessage(ctx context.Context, connID string, msg OutboundMessage) error {
	c, err := w.conn(connID)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
	defer cancel()
	if err := wsjson.Write(ctx, c, msg); err != nil {
		return fmt.Errorf("writing websocket frame: %w", err)
	}
	return nil
}

func (w *WebSocketChannel) SendTyping(ctx context.Context, connID string) error {
	return w.SendMessage(ctx, connID, OutboundMessage{Type: TypeTyping})
}

// ServeHTTP upgrades the request and pumps frames until the peer leaves.
func (w *WebSocketChannel) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	w.mu.RLock()
	handler, stopped := w.handler, w.stopped
	w.mu.RUnlock()
	if handler == nil || stopped {
		http.Error(rw, "chat channel not running", http.StatusServiceUnavailable)
		return
	}

	c, err := websocket.Accept(rw, r, &websocket.AcceptOptions{OriginPatterns: w.originPatterns})
	if err != nil {
		slog.Warn("websocket handshake failed", "error", err)
		return
	}
	c.SetReadLimit(wsReadLimit)

	connID := uuid.NewString()
	w.mu.Lock()
	w.conns[connID] = c
	w.mu.Unlock()

	slog.Info("websocket connected", "conn_id", connID, "remote", r.RemoteAddr)
	handler(InboundMessage{Channel: ChannelWebSocket, ConnID: connID, Event: EventConnect})

	err = w.readLoop(r.Context(), c, connID, handler)

	w.mu.Lock()
	delete(w.conns, connID)
	w.mu.Unlock()
	handler(InboundMessage{Channel: ChannelWebSocket, ConnID: connID, Event: EventDisconnect})

	status := websocket.CloseStatus(err)
	if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
		slog.Info("websocket closed", "conn_id", connID)
		c.CloseNow()
		return
	}
	slog.Warn("websocket dropped", "conn_id", connID, "error", err)
	c.Close(websocket.StatusInternalError, "read failed")
}

func (w *WebSocketChannel) readLoop(ctx context.Context, c *websocket.Conn, connID string, handler func(InboundMessage)) error {
	for {
		typ, data, err := c.Read(ctx)
		if err != nil {
			return err
		}
		var frame inboundFrame
		if typ != websocket.MessageText || json.Unmarshal(data, &frame) != nil {
			if err := w.SendMessage(ctx, connID, OutboundMessage{Type: TypeError, Error: "invalid frame"}); err != nil {
				return err
			}
			continue
		}
		go handler(InboundMessage{
			Channel: ChannelWebSocket,
			ConnID:  connID,
			Event:   EventText,
			Text:    frame.Text,
		})
	}
}

func (w *WebSocketChannel) conn(connID string) (*websocket.Conn, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	c, ok := w.conns[connID]
	if !ok {
		return nil, fmt.Errorf("websocket connection %s is gone", connID)
	}
	return c, nil
}

// Len returns the number of open connections.
func (w *WebSocketChannel) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.conns)
}
