package http

import (
	"net/http"
	"strconv"
	"time"

	"kamela/internal/core"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	year, month := now.Year(), int(now.Month())
	if v := r.URL.Query().Get("year"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			year = n
		}
	}
	if v := r.URL.Query().Get("month"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 && n <= 12 {
			month = n
		}
	}

	stats, err := s.engine.Stats.Compute(r.Context(), year, month)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toStatsView(stats))
}

func (s *Server) handleDeadlines(w http.ResponseWriter, r *http.Request) {
	windowDays := 0
	if v := r.URL.Query().Get("window"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			windowDays = n
		}
	}

	today := core.DateOf(time.Now())
	entries, err := s.engine.Deadlines.Upcoming(r.Context(), today, windowDays)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	views := make([]deadlineView, 0, len(entries))
	for _, e := range entries {
		views = append(views, toDeadlineView(e))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	today := core.DateOf(time.Now())
	alerts, err := s.engine.Alerts.Evaluate(r.Context(), today)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	views := make([]alertView, 0, len(alerts))
	for _, a := range alerts {
		views = append(views, toAlertView(a))
	}
	writeJSON(w, http.StatusOK, views)
}
