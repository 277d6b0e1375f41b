package http

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/mauricedesaxe/time-tracker/internal/core"
	"github.com/mauricedesaxe/time-tracker/internal/export"
)

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	// One snapshot feeds both the entries and the category names, so a
	// concurrent mutation cannot split the exported view.
	state := s.store.Snapshot()
	entries := make([]core.TimeEntry, 0, len(state.TimeEntries))
	for _, e := range state.TimeEntries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].StartTime != entries[j].StartTime {
			return entries[i].StartTime < entries[j].StartTime
		}
		return entries[i].ID < entries[j].ID
	})

	data, err := export.Entries(format, entries, state.Categories)
	if err != nil {
		slog.ErrorContext(r.Context(), "Export failed",
			"error", err, "format", string(format))
		writeError(w, r, http.StatusInternalServerError, "export failed")
		return
	}

	slog.InfoContext(r.Context(), "Entries exported",
		"format", string(format), "entry_count", len(state.TimeEntries))

	w.Header().Set("Content-Type", format.MIME())
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", format.Filename(time.Now())))
	_, _ = w.Write(data)
}

type pruneRequest struct {
	// OlderThanDays nil means prune everything.
	OlderThanDays *int `json:"olderThanDays"`
}

type pruneResponse struct {
	Deleted int `json:"deleted"`
}

func (s *Server) handlePrune(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	var req pruneRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid JSON body")
			return
		}
	}

	var deleted int
	if req.OlderThanDays == nil {
		deleted = s.store.PruneAll()
		slog.InfoContext(r.Context(), "All entries pruned", "deleted_count", deleted)
	} else {
		days := *req.OlderThanDays
		if days == 0 {
			days = s.pruneDefaultDays
		}
		if days < 1 {
			writeError(w, r, http.StatusUnprocessableEntity, "olderThanDays must be positive")
			return
		}
		deleted = s.store.PruneOlderThan(days)
		slog.InfoContext(r.Context(), "Old entries pruned",
			"older_than_days", days, "deleted_count", deleted)
	}

	writeJSON(w, r, http.StatusOK, pruneResponse{Deleted: deleted})
}
