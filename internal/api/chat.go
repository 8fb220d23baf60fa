package api

import (
	"errors"
	"net/http"

	"github.com/p-n-ai/deepblue/internal/agent"
)

type sessionResponse struct {
	ID       string              `json:"id"`
	Messages []agent.ChatMessage `json:"messages"`
	Pending  bool                `json:"pending"`
}

type sendRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	session := s.cfg.Sessions.Create()
	writeJSON(w, http.StatusCreated, sessionResponse{ID: session.ID, Messages: session.Transcript()})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{
		ID:       session.ID,
		Messages: session.Transcript(),
		Pending:  session.Pending(),
	})
}

func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	if err := s.cfg.Sessions.Close(r.PathValue("id")); err != nil {
		writeError(w, http.StatusNotFound, "chat session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	var req sendRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ex, err := session.Send(r.Context(), req.Text)
	switch {
	case errors.Is(err, agent.ErrEmptyMessage):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, agent.ErrBusy):
		writeError(w, http.StatusConflict, err.Error())
	case err != nil:
		writeError(w, http.StatusInternalServerError, "chat failed")
	default:
		writeJSON(w, http.StatusOK, ex)
	}
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*agent.Session, bool) {
	session, err := s.cfg.Sessions.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "chat session not found")
		return nil, false
	}
	return session, true
}
