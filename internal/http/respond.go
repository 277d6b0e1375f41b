package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mauricedesaxe/time-tracker/internal/core"
)

type errorBody struct {
	Error        string `json:"error"`
	RunningCount int    `json:"runningCount,omitempty"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(r.Context(), "Failed encoding response",
			"error", err, "path", r.URL.Path)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, errorBody{Error: msg})
}

// writeInvariantConflict reports a single-running-timer violation. The
// state is reported, never auto-corrected: discarding a running entry
// could throw away real tracked time.
func writeInvariantConflict(w http.ResponseWriter, r *http.Request, err *core.MultipleRunningError) {
	slog.WarnContext(r.Context(), "Running-entry invariant violated",
		"running_count", err.Count, "path", r.URL.Path)
	writeJSON(w, r, http.StatusConflict, errorBody{
		Error:        err.Error(),
		RunningCount: err.Count,
	})
}

// methodNotAllowed replies 405 with the allowed methods.
func methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	w.WriteHeader(http.StatusMethodNotAllowed)
}
