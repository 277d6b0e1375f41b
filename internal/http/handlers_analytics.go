package http

import (
	"net/http"
	"time"

	"github.com/mauricedesaxe/time-tracker/internal/analytics"
)

func (s *Server) handleAnalyticsWeek(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	writeJSON(w, r, http.StatusOK, analytics.CurrentWeek(s.store.Entries(), time.Now()))
}

func (s *Server) handleAnalyticsDaily(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	writeJSON(w, r, http.StatusOK, analytics.TrailingDayTotals(s.store.Entries(), time.Now()))
}

func (s *Server) handleAnalyticsWeekly(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	writeJSON(w, r, http.StatusOK, analytics.TrailingWeekTotals(s.store.Entries(), time.Now()))
}
