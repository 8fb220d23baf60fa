package api

import (
	"errors"
	"net/http"

	"github.com/p-n-ai/deepblue/internal/lesson"
)

type lessonRequest struct {
	StepID string `json:"stepId"`
	Topic  string `json:"topic"`
}

func (s *Server) handleLesson(w http.ResponseWriter, r *http.Request) {
	var req lessonRequest
	if !decodeBody(w, r, &req) {
		return
	}

	step, ok := s.cfg.Roadmap.Step(req.StepID)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown roadmap step")
		return
	}
	if !step.HasTopic(req.Topic) {
		writeError(w, http.StatusNotFound, "topic is not part of this step")
		return
	}

	content, err := s.cfg.Lessons.Generate(r.Context(), req.Topic, step.Title)
	if err != nil {
		body := errorBody{Error: lesson.FallbackMessage}
		var ge *lesson.GenerationError
		if errors.As(err, &ge) {
			body.Kind = ge.Kind.String()
		}
		writeJSON(w, http.StatusBadGateway, body)
		return
	}
	writeJSON(w, http.StatusOK, content)
}
