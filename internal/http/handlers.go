package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/teaching-prom/internal/jobrun"
)

const (
	defaultJobsLimit = 20
	maxJobsLimit     = 500
)

func (s *Server) WelcomeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, welcomeResponse{Message: WelcomeMessage})
	}
}

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

// ListJobsHandler returns the most recent simulated job runs and the outcome
// totals from the journal.
func (s *Server) ListJobsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.Journal == nil {
			http.Error(w, "Job journal is disabled", http.StatusServiceUnavailable)
			return
		}

		limit := defaultJobsLimit
		if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
			parsed, err := strconv.Atoi(limitStr)
			if err != nil || parsed <= 0 || parsed > maxJobsLimit {
				log.Warn("Invalid 'limit' parameter provided", "limit_param", limitStr)
				http.Error(w, fmt.Sprintf("limit must be between 1 and %d", maxJobsLimit), http.StatusBadRequest)
				return
			}
			limit = parsed
		}

		runs, err := s.Journal.Recent(limit)
		if err != nil {
			http.Error(w, "Failed to get job runs", http.StatusInternalServerError)
			log.Error("Failed to get job runs from journal", "error", err)
			return
		}
		outcomes, err := s.Journal.CountByOutcome()
		if err != nil {
			http.Error(w, "Failed to get job outcomes", http.StatusInternalServerError)
			log.Error("Failed to count job outcomes", "error", err)
			return
		}
		if runs == nil {
			runs = []jobrun.Run{}
		}
		writeJSON(w, jobsResponse{Runs: runs, Outcomes: outcomes})
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response to JSON", "error", err)
	}
}
