package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/mauricedesaxe/time-tracker/internal/core"
	"github.com/mauricedesaxe/time-tracker/internal/store"
)

type startTimerRequest struct {
	Description string `json:"description"`
	CategoryID  string `json:"categoryId"`
	ProjectID   string `json:"projectId"`
}

func (s *Server) handleTimerStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	var req startTimerRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	entry, err := s.store.StartTimer(strings.TrimSpace(req.Description), req.CategoryID, req.ProjectID)
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	slog.InfoContext(r.Context(), "Timer started",
		"entry_id", entry.ID,
		"entry_description", entry.Description,
		"category_id", entry.CategoryID)

	// The entry is kept even if a timer was already running; the
	// violation is reported so the UI can let the user resolve it.
	if err := core.ValidateSingleRunningEntry(s.store.Entries()); err != nil {
		var mre *core.MultipleRunningError
		if errors.As(err, &mre) {
			writeInvariantConflict(w, r, mre)
			return
		}
	}

	writeJSON(w, r, http.StatusCreated, entry)
}

func (s *Server) handleTimerStop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	entry, ok := s.store.StopTimer()
	if !ok {
		writeError(w, r, http.StatusConflict, "no timer is running")
		return
	}

	slog.InfoContext(r.Context(), "Timer stopped",
		"entry_id", entry.ID,
		"entry_description", entry.Description,
		"duration", core.FormatDuration(float64(*entry.EndTime-entry.StartTime), core.FormatOptions{Short: true}))

	writeJSON(w, r, http.StatusOK, entry)
}

func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListEntries(w, r)
	case http.MethodPost:
		s.handleCreateEntry(w, r)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	field, err := store.ParseSortField(r.URL.Query().Get("sort"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	desc := r.URL.Query().Get("desc") == "1" || r.URL.Query().Get("desc") == "true"

	writeJSON(w, r, http.StatusOK, s.store.EntriesSorted(field, desc))
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var entry core.TimeEntry
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&entry); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	if err := s.store.AddEntry(entry); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	slog.InfoContext(r.Context(), "Entry created",
		"entry_id", entry.ID,
		"entry_description", entry.Description)

	writeJSON(w, r, http.StatusCreated, entry)
}

func (s *Server) handleEntryByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/entries/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		entry, ok := s.store.Entry(id)
		if !ok {
			writeError(w, r, http.StatusNotFound, "entry not found")
			return
		}
		writeJSON(w, r, http.StatusOK, entry)

	case http.MethodPatch:
		patch, err := parseEntryPatch(r.Body)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}

		entry, ok, err := s.store.UpdateEntry(id, patch)
		if err != nil {
			writeError(w, r, http.StatusUnprocessableEntity, err.Error())
			return
		}
		if !ok {
			writeError(w, r, http.StatusNotFound, "entry not found")
			return
		}

		slog.InfoContext(r.Context(), "Entry updated", "entry_id", id)

		if err := core.ValidateSingleRunningEntry(s.store.Entries()); err != nil {
			var mre *core.MultipleRunningError
			if errors.As(err, &mre) {
				writeInvariantConflict(w, r, mre)
				return
			}
		}
		writeJSON(w, r, http.StatusOK, entry)

	case http.MethodDelete:
		// Deleting an absent entry is a tolerated no-op.
		s.store.DeleteEntry(id)
		slog.InfoContext(r.Context(), "Entry deleted", "entry_id", id)
		w.WriteHeader(http.StatusNoContent)

	default:
		methodNotAllowed(w, "GET, PATCH, DELETE")
	}
}
