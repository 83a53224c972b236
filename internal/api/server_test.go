package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/jmwanja/resume-matcher/internal/agent"
	"github.com/jmwanja/resume-matcher/internal/analysis"
	"github.com/jmwanja/resume-matcher/internal/models"
	"github.com/jmwanja/resume-matcher/internal/ranking"
	"github.com/jmwanja/resume-matcher/internal/retry"
)

// stubScorer scores every healthy candidate remotely with fixed subscores.
type stubScorer struct {
	overall map[string]int
}

func (s stubScorer) ScoreBatch(_ context.Context, _ models.JobDescription, batch []models.Candidate) ([]models.CandidateScore, error) {
	scores := make([]models.CandidateScore, len(batch))
	for i, c := range batch {
		scores[i] = models.CandidateScore{
			CandidateID: c.ID,
			Overall:     s.overall[c.ID],
			Keyword:     70,
			Skills:      70,
			Experience:  70,
			Education:   70,
		}
	}
	return scores, nil
}

type stubJobAnalyzer struct{}

func (stubJobAnalyzer) AnalyzeJob(context.Context, models.JobDescription) (models.JobAnalysis, error) {
	return models.JobAnalysis{Sections: []models.AnalyzedSection{
		{Name: "Technical Skills", Items: []string{"Go", "Docker"}},
	}}, nil
}

func newTestServer(t *testing.T, overall map[string]int) *httptest.Server {
	t.Helper()
	cfg := retry.Config{MaxAttempts: 1, BaseDelay: time.Millisecond}
	analyzer := analysis.NewAnalyzer(stubJobAnalyzer{}, analysis.NewCache(), zap.NewNop(), cfg)
	matchAgent := agent.New(stubScorer{overall: overall}, analyzer, zap.NewNop(), agent.Options{Retry: cfg})
	srv := NewServer(matchAgent, ranking.NewEngine(), zap.NewNop())
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func postMatch(t *testing.T, ts *httptest.Server, body interface{}) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(ts.URL+"/match", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func defaultMatchBody() map[string]interface{} {
	return map[string]interface{}{
		"jobDescription": map[string]interface{}{
			"id":    "j1",
			"title": "Backend Engineer",
		},
		"resumes": []map[string]interface{}{
			{"id": "r1", "name": "Alice", "fileName": "alice.txt", "content": "Go services"},
			{"id": "r2", "name": "Bob", "fileName": "bob.txt", "content": "Docker platforms"},
		},
	}
}

// TestHandleMatch tests the full match flow over HTTP
func TestHandleMatch(t *testing.T) {
	ts := newTestServer(t, map[string]int{"r1": 65, "r2": 90})

	resp := postMatch(t, ts, defaultMatchBody())
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var result struct {
		State   string `json:"state"`
		Summary struct {
			Total         int `json:"total"`
			FullyAnalyzed int `json:"fullyAnalyzed"`
		} `json:"summary"`
		Ranking struct {
			Entries []struct {
				ID   string `json:"resumeId"`
				Rank int    `json:"rank"`
			} `json:"entries"`
		} `json:"ranking"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}

	if result.State != "ranked" {
		t.Errorf("state = %q, want ranked", result.State)
	}
	if result.Summary.Total != 2 || result.Summary.FullyAnalyzed != 2 {
		t.Errorf("summary = %+v", result.Summary)
	}
	if len(result.Ranking.Entries) != 2 || result.Ranking.Entries[0].ID != "r2" {
		t.Errorf("ranking = %+v, want r2 first", result.Ranking.Entries)
	}
}

// TestHandleMatch_BadRequests tests request validation
func TestHandleMatch_BadRequests(t *testing.T) {
	ts := newTestServer(t, nil)

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{name: "Missing job description", body: map[string]interface{}{
			"resumes": []map[string]interface{}{{"id": "r1", "content": "x"}},
		}},
		{name: "Missing resumes", body: map[string]interface{}{
			"jobDescription": map[string]interface{}{"title": "Engineer"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postMatch(t, ts, tt.body)
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

// TestHandleReport tests re-sorting and filtering of a finished session
func TestHandleReport(t *testing.T) {
	ts := newTestServer(t, map[string]int{"r1": 65, "r2": 90})

	// Before any match.
	resp, err := http.Get(ts.URL + "/report")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("report before match: status = %d, want 404", resp.StatusCode)
	}

	postMatch(t, ts, defaultMatchBody()).Body.Close()

	resp, err = http.Get(ts.URL + "/report?order=asc&filter=good&search=alice")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var report struct {
		JobTitle string `json:"jobTitle"`
		Ranking  struct {
			Entries []struct {
				ID      string `json:"resumeId"`
				Overall int    `json:"overallScore"`
			} `json:"entries"`
		} `json:"ranking"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		t.Fatal(err)
	}
	if report.JobTitle != "Backend Engineer" {
		t.Errorf("jobTitle = %q", report.JobTitle)
	}
	if len(report.Ranking.Entries) != 1 || report.Ranking.Entries[0].ID != "r1" {
		t.Errorf("entries = %+v, want only r1 (good band, name match)", report.Ranking.Entries)
	}
}

// TestHandleCandidate tests the detail view lookup
func TestHandleCandidate(t *testing.T) {
	ts := newTestServer(t, map[string]int{"r1": 65, "r2": 90})
	postMatch(t, ts, defaultMatchBody()).Body.Close()

	resp, err := http.Get(ts.URL + "/candidates/r2")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var detail struct {
		ID         string `json:"resumeId"`
		Rank       int    `json:"rank"`
		Assessment struct {
			Overall string `json:"overallAssessment"`
		} `json:"assessment"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&detail); err != nil {
		t.Fatal(err)
	}
	if detail.ID != "r2" || detail.Rank != 1 {
		t.Errorf("detail = %+v, want r2 at rank 1", detail)
	}
	if detail.Assessment.Overall == "" {
		t.Error("assessment missing")
	}

	resp, err = http.Get(ts.URL + "/candidates/missing")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown candidate: status = %d, want 404", resp.StatusCode)
	}
}

// TestHandleHealth tests the health endpoint
func TestHandleHealth(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var health map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatal(err)
	}
	if health["status"] != "healthy" || health["state"] != "idle" {
		t.Errorf("health = %v", health)
	}
}
