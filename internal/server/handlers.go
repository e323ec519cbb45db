package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// matchRequest is the body of POST /match. Exactly one of JobDescription or
// JobURL must be provided; when only the URL is set the description is
// fetched and extracted before the run starts.
type matchRequest struct {
	JobDescription string `json:"job_description"`
	JobURL         string `json:"job_url"`
	PositionFilter string `json:"position_filter"`
}

type matchResponse struct {
	RunID    string `json:"run_id"`
	Accepted bool   `json:"accepted"`
}

// handleMatch accepts a ranking request and starts an asynchronous run.
func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	jobText := strings.TrimSpace(req.JobDescription)
	if jobText == "" && req.JobURL != "" {
		if s.fetcher == nil {
			s.errorResponse(w, http.StatusBadRequest, "job_url ingestion is not configured")
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
		defer cancel()
		fetched, err := s.fetcher.FetchJobText(ctx, req.JobURL)
		if err != nil {
			s.logger.Warn("job posting fetch failed", zap.String("url", req.JobURL), zap.Error(err))
			s.errorResponse(w, http.StatusBadGateway, "failed to fetch job posting")
			return
		}
		jobText = fetched
	}
	if jobText == "" {
		s.errorResponse(w, http.StatusBadRequest, "job_description or job_url is required")
		return
	}

	runID := s.matcher.StartRun(jobText, req.PositionFilter)
	s.jsonResponse(w, http.StatusAccepted, matchResponse{RunID: runID, Accepted: true})
}

// handleProgress returns the current progress snapshot for a run.
func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	run, ok := s.matcher.Lookup(r.PathValue("id"))
	if !ok {
		s.errorResponse(w, http.StatusNotFound, "run not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, run.Progress.Snapshot())
}

// handleResults returns the final ranking once the run has completed.
func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	run, ok := s.matcher.Lookup(r.PathValue("id"))
	if !ok {
		s.errorResponse(w, http.StatusNotFound, "run not found")
		return
	}

	results, done, err := run.Results()
	if !done {
		s.jsonResponse(w, http.StatusAccepted, map[string]any{"done": false})
		return
	}
	if err != nil {
		s.jsonResponse(w, http.StatusOK, map[string]any{
			"done":  true,
			"error": err.Error(),
			"logs":  run.Progress.Snapshot().Logs,
		})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"done":    true,
		"results": results,
	})
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
