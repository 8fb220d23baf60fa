package api

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/p-n-ai/deepblue/internal/divelog"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type diveLogResponse struct {
	Entries []divelog.Entry `json:"entries"`
	Stats   divelog.Stats   `json:"stats"`
}

func (s *Server) handleListDiveLogs(w http.ResponseWriter, r *http.Request) {
	entries := s.cfg.DiveLog.Entries()
	if entries == nil {
		entries = []divelog.Entry{}
	}
	writeJSON(w, http.StatusOK, diveLogResponse{Entries: entries, Stats: divelog.Summarize(entries)})
}

func (s *Server) handleAddDiveLog(w http.ResponseWriter, r *http.Request) {
	var form divelog.Form
	if !decodeBody(w, r, &form) {
		return
	}

	entry, err := s.cfg.DiveLog.Add(r.Context(), form)
	switch {
	case errors.Is(err, divelog.ErrInvalidEntry):
		writeError(w, http.StatusBadRequest, err.Error())
	case err != nil:
		slog.Error("failed to save dive log", "error", err)
		writeError(w, http.StatusInternalServerError, "could not save dive log")
	default:
		writeJSON(w, http.StatusCreated, entry)
	}
}

func (s *Server) handleDeleteDiveLog(w http.ResponseWriter, r *http.Request) {
	err := s.cfg.DiveLog.Delete(r.Context(), r.PathValue("id"))
	switch {
	case errors.Is(err, divelog.ErrNotFound):
		writeError(w, http.StatusNotFound, "dive log entry not found")
	case err != nil:
		slog.Error("failed to delete dive log", "error", err)
		writeError(w, http.StatusInternalServerError, "could not delete dive log")
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) handleExportDiveLogs(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := divelog.WriteXLSX(&buf, s.cfg.DiveLog.Entries()); err != nil {
		slog.Error("dive log export failed", "error", err)
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	name := fmt.Sprintf("deepblue-divelog-%s.xlsx", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
