// Package api exposes the curriculum, lessons, chat and dive log over HTTP.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/p-n-ai/deepblue/internal/agent"
	"github.com/p-n-ai/deepblue/internal/curriculum"
	"github.com/p-n-ai/deepblue/internal/divelog"
	"github.com/p-n-ai/deepblue/internal/lesson"
)

const maxBodyBytes = 64 << 10

// CheckFunc reports whether a dependency is reachable.
type CheckFunc func(ctx context.Context) error

// Config holds the components the API serves.
type Config struct {
	Roadmap  *curriculum.Roadmap
	Lessons  lesson.Source
	Sessions *agent.SessionRegistry
	DiveLog  *divelog.Log
	// ChatSocket serves GET /ws/chat when set.
	ChatSocket http.Handler
	// ReadyChecks are run by /readyz, keyed by dependency name.
	ReadyChecks map[string]CheckFunc
}

// Server is the HTTP API.
type Server struct {
	cfg Config
	mux *http.ServeMux
}

// NewServer registers every route.
func NewServer(cfg Config) *Server {
	s := &Server{cfg: cfg, mux: http.NewServeMux()}

	s.mux.HandleFunc("GET /healthz", s.handleHealthz)
	s.mux.HandleFunc("GET /readyz", s.handleReadyz)

	s.mux.HandleFunc("GET /api/roadmap", s.handleRoadmap)
	s.mux.HandleFunc("POST /api/lessons", s.handleLesson)

	s.mux.HandleFunc("POST /api/chat/sessions", s.handleCreateSession)
	s.mux.HandleFunc("GET /api/chat/sessions/{id}", s.handleGetSession)
	s.mux.HandleFunc("DELETE /api/chat/sessions/{id}", s.handleCloseSession)
	s.mux.HandleFunc("POST /api/chat/sessions/{id}/messages", s.handleSendMessage)
	if cfg.ChatSocket != nil {
		s.mux.Handle("GET /ws/chat", cfg.ChatSocket)
	}

	s.mux.HandleFunc("GET /api/divelogs", s.handleListDiveLogs)
	s.mux.HandleFunc("POST /api/divelogs", s.handleAddDiveLog)
	s.mux.HandleFunc("DELETE /api/divelogs/{id}", s.handleDeleteDiveLog)
	s.mux.HandleFunc("GET /api/divelogs/export.xlsx", s.handleExportDiveLogs)

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	failed := map[string]string{}
	for name, check := range s.cfg.ReadyChecks {
		if err := check(ctx); err != nil {
			slog.Warn("readiness check failed", "dependency", name, "error", err)
			failed[name] = err.Error()
		}
	}
	if len(failed) > 0 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "unavailable", "failed": failed})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleRoadmap(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"steps": s.cfg.Roadmap.Steps()})
}

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// decodeBody reads a bounded JSON body into v, writing a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}
