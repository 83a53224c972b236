// Package api exposes a matching session over JSON HTTP for an external UI.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/jmwanja/resume-matcher/internal/agent"
	"github.com/jmwanja/resume-matcher/internal/models"
	"github.com/jmwanja/resume-matcher/internal/ranking"
	"github.com/jmwanja/resume-matcher/internal/scoring"
)

// Server handles HTTP requests.
type Server struct {
	agent  *agent.Agent
	engine *ranking.Engine
	logger *zap.Logger
}

// NewServer creates a new API server around one matching session.
func NewServer(matchAgent *agent.Agent, engine *ranking.Engine, logger *zap.Logger) *Server {
	return &Server{
		agent:  matchAgent,
		engine: engine,
		logger: logger,
	}
}

// Router returns the HTTP router.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /match", s.handleMatch)
	mux.HandleFunc("GET /report", s.handleReport)
	mux.HandleFunc("GET /candidates/{id}", s.handleCandidate)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /", s.handleRoot)

	return s.loggingMiddleware(mux)
}

// handleRoot provides API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"service": "Resume Matcher",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"POST /match":          "Score resumes against a job description",
			"GET /report":          "Get the ranked results",
			"GET /candidates/{id}": "Get the detail view for one candidate",
			"GET /health":          "Health check",
		},
	})
}

// handleHealth provides a health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"state":  s.agent.State().String(),
	})
}

type matchRequest struct {
	JobDescription models.JobDescription `json:"jobDescription"`
	Resumes        []models.Candidate    `json:"resumes"`
}

type matchResponse struct {
	State    string             `json:"state"`
	Summary  agent.Summary      `json:"summary"`
	Analysis models.JobAnalysis `json:"analysis"`
	Ranking  ranking.RankedView `json:"ranking"`
}

// handleMatch runs a full session: analyze the job, score the resumes and
// return the ranked view. Scoring itself cannot fail; candidates the scoring
// service could not handle come back with estimated scores.
func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.JobDescription.Title == "" && req.JobDescription.Description == "" {
		s.respondError(w, http.StatusBadRequest, "jobDescription is required")
		return
	}
	if len(req.Resumes) == 0 {
		s.respondError(w, http.StatusBadRequest, "resumes are required")
		return
	}

	analysis := s.agent.AnalyzeJob(r.Context(), req.JobDescription)
	if err := s.agent.SubmitCandidates(req.Resumes); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	scores, err := s.agent.Score(r.Context())
	if err != nil {
		s.respondError(w, http.StatusConflict, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, matchResponse{
		State:    s.agent.State().String(),
		Summary:  s.agent.Summary(),
		Analysis: analysis,
		Ranking:  s.engine.Rank(scores, ranking.Options{}),
	})
}

type reportResponse struct {
	JobTitle  string             `json:"jobTitle"`
	Timestamp string             `json:"timestamp"`
	Summary   agent.Summary      `json:"summary"`
	Ranking   ranking.RankedView `json:"ranking"`
}

// handleReport returns the ranked results, re-sorted and filtered per query.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if s.agent.State() != agent.StateRanked {
		s.respondError(w, http.StatusNotFound, "no results available, run a match first")
		return
	}

	q := r.URL.Query()
	opts := ranking.Options{
		SortBy:    q.Get("sortBy"),
		Ascending: q.Get("order") == "asc",
		Filter:    q.Get("filter"),
		Search:    q.Get("search"),
	}

	s.respondJSON(w, http.StatusOK, reportResponse{
		JobTitle:  s.agent.Job().Title,
		Timestamp: time.Now().Format(time.RFC3339),
		Summary:   s.agent.Summary(),
		Ranking:   s.engine.Rank(s.agent.Results(), opts),
	})
}

type candidateResponse struct {
	ranking.Entry
	Assessment scoring.Assessment `json:"assessment"`
}

// handleCandidate serves the detail view for one candidate from the data
// already in hand, with no remote call.
func (s *Server) handleCandidate(w http.ResponseWriter, r *http.Request) {
	if s.agent.State() != agent.StateRanked {
		s.respondError(w, http.StatusNotFound, "no results available, run a match first")
		return
	}

	view := s.engine.Rank(s.agent.Results(), ranking.Options{})
	entry, ok := view.Find(r.PathValue("id"))
	if !ok {
		s.respondError(w, http.StatusNotFound, "unknown candidate id")
		return
	}

	s.respondJSON(w, http.StatusOK, candidateResponse{
		Entry:      entry,
		Assessment: scoring.Assess(entry.CandidateScore),
	})
}

// respondJSON sends a JSON response.
func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// respondError sends an error response.
func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// loggingMiddleware logs HTTP requests.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", r.RemoteAddr),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
