package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mauricedesaxe/time-tracker/internal/core"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Time Tracker API"))
}

type healthResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptimeSeconds"`
	Entries       int    `json:"entries"`
	Categories    int    `json:"categories"`
	Projects      int    `json:"projects"`
	RunningCount  int    `json:"runningCount"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	entries := s.store.Entries()
	writeJSON(w, r, http.StatusOK, healthResponse{
		Status:        "OK",
		UptimeSeconds: int64(time.Since(s.started).Seconds()),
		Entries:       len(entries),
		Categories:    len(s.store.Categories()),
		Projects:      len(s.store.Projects()),
		RunningCount:  core.CountRunning(entries),
	})
}

// syncPayload is the whole-state document the web client pushes and
// pulls.
type syncPayload struct {
	LastSyncedAt int64                     `json:"lastSyncedAt"`
	TimeEntries  map[string]core.TimeEntry `json:"timeEntries"`
	Projects     map[string]core.Project   `json:"projects"`
	Categories   map[string]core.Category  `json:"categories"`
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.writeSyncState(w, r)
	case http.MethodPost:
		s.handleSyncPush(w, r)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) writeSyncState(w http.ResponseWriter, r *http.Request) {
	state := s.store.Snapshot()
	writeJSON(w, r, http.StatusOK, syncPayload{
		LastSyncedAt: time.Now().UnixMilli(),
		TimeEntries:  state.TimeEntries,
		Projects:     state.Projects,
		Categories:   state.Categories,
	})
}

// handleSyncPush replaces the whole tracker state with the uploaded
// one, then echoes it back with a fresh timestamp.
func (s *Server) handleSyncPush(w http.ResponseWriter, r *http.Request) {
	var payload syncPayload
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&payload); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	state := core.NewTrackerState()
	for id, e := range payload.TimeEntries {
		if e.ID == "" {
			e.ID = id
		}
		if err := e.Validate(); err != nil {
			writeError(w, r, http.StatusUnprocessableEntity, "time entry "+id+": "+err.Error())
			return
		}
		state.TimeEntries[id] = e
	}
	for id, c := range payload.Categories {
		if c.ID == "" {
			c.ID = id
		}
		if err := c.Validate(); err != nil {
			writeError(w, r, http.StatusUnprocessableEntity, "category "+id+": "+err.Error())
			return
		}
		state.Categories[id] = c
	}
	for id, p := range payload.Projects {
		if p.ID == "" {
			p.ID = id
		}
		if err := p.Validate(); err != nil {
			writeError(w, r, http.StatusUnprocessableEntity, "project "+id+": "+err.Error())
			return
		}
		state.Projects[id] = p
	}

	s.store.Restore(state)

	slog.InfoContext(r.Context(), "State replaced from sync upload",
		"entry_count", len(state.TimeEntries),
		"categories", len(state.Categories),
		"projects", len(state.Projects))

	s.writeSyncState(w, r)
}
