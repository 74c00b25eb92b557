package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"liquiledger/internal/core"
	"liquiledger/internal/engine"
	"liquiledger/internal/log"
)

// handleLedger serves the read-only snapshot for renderers.
func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, snapshotView(s.engine.Snapshot()))
}

// handleEntries accepts new entries. The body may be form-encoded or JSON;
// either way the handler only collects raw fields and lets the engine
// decide validity.
func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	raw, err := parseRawEntry(r)
	if err != nil {
		slog.ErrorContext(r.Context(), "Parse request error",
			log.FieldComponent, log.ComponentHTTP,
			log.FieldRequestID, RequestID(r.Context()),
			log.FieldError, err,
			log.FieldPath, r.URL.Path)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}

	snap, err := s.engine.AddEntry(r.Context(), raw)
	if err != nil {
		var verrs core.ValidationErrors
		if errors.As(err, &verrs) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":  "validation failed",
				"fields": verrs.Fields(),
			})
			return
		}

		slog.ErrorContext(r.Context(), "Failed to add entry",
			log.FieldComponent, log.ComponentHTTP,
			log.FieldRequestID, RequestID(r.Context()),
			log.FieldError, err,
			log.FieldEntryTitle, raw.Title,
			log.FieldOperation, log.OpAdd)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not save entry"})
		return
	}

	writeJSON(w, http.StatusCreated, snapshotView(snap))
}

// handleEntryByID removes the entry named by the path suffix.
func (s *Server) handleEntryByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		w.Header().Set("Allow", "DELETE")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	idStr := strings.TrimPrefix(r.URL.Path, "/api/entries/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid entry id"})
		return
	}

	snap, err := s.engine.RemoveEntry(r.Context(), id)
	if err != nil {
		var nf engine.NotFoundError
		if errors.As(err, &nf) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": nf.Error()})
			return
		}

		slog.ErrorContext(r.Context(), "Failed to remove entry",
			log.FieldComponent, log.ComponentHTTP,
			log.FieldRequestID, RequestID(r.Context()),
			log.FieldError, err,
			log.FieldEntryID, id,
			log.FieldOperation, log.OpRemove)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not remove entry"})
		return
	}

	writeJSON(w, http.StatusOK, snapshotView(snap))
}
