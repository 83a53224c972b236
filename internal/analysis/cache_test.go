package analysis

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/jmwanja/resume-matcher/internal/models"
	"github.com/jmwanja/resume-matcher/internal/remote"
	"github.com/jmwanja/resume-matcher/internal/retry"
)

// TestCache_GetOrAnalyze_SingleInvocation tests that the analysis function
// runs at most once per key
func TestCache_GetOrAnalyze_SingleInvocation(t *testing.T) {
	cache := NewCache()
	job := models.JobDescription{ID: "job-1", Title: "Engineer"}

	calls := 0
	analyze := func(models.JobDescription) models.JobAnalysis {
		calls++
		return models.JobAnalysis{Sections: []models.AnalyzedSection{{Name: "Skills", Items: []string{"Go"}}}}
	}

	first := cache.GetOrAnalyze(job, analyze)
	second := cache.GetOrAnalyze(job, analyze)

	if calls != 1 {
		t.Errorf("analyze called %d times, want 1", calls)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("cached result differs: %+v vs %+v", first, second)
	}
}

// TestCache_KeyFallsBackToTitle tests keying when the job has no id
func TestCache_KeyFallsBackToTitle(t *testing.T) {
	cache := NewCache()

	calls := 0
	analyze := func(models.JobDescription) models.JobAnalysis {
		calls++
		return models.JobAnalysis{}
	}

	cache.GetOrAnalyze(models.JobDescription{Title: "Engineer"}, analyze)
	cache.GetOrAnalyze(models.JobDescription{Title: "Engineer"}, analyze)
	cache.GetOrAnalyze(models.JobDescription{Title: "Designer"}, analyze)

	if calls != 2 {
		t.Errorf("analyze called %d times, want 2 (one per distinct title)", calls)
	}
	if cache.Len() != 2 {
		t.Errorf("cache has %d entries, want 2", cache.Len())
	}
}

// stubAnalyzer returns a fixed analysis or error.
type stubAnalyzer struct {
	analysis models.JobAnalysis
	err      error
	calls    int
}

func (s *stubAnalyzer) AnalyzeJob(context.Context, models.JobDescription) (models.JobAnalysis, error) {
	s.calls++
	return s.analysis, s.err
}

func testRetry() retry.Config {
	return retry.Config{MaxAttempts: 2, BaseDelay: time.Millisecond}
}

// TestAnalyzer_RemoteSuccess tests the remote path
func TestAnalyzer_RemoteSuccess(t *testing.T) {
	stub := &stubAnalyzer{analysis: models.JobAnalysis{
		Sections: []models.AnalyzedSection{{Name: "Technical Skills", Items: []string{"Go"}}},
	}}
	analyzer := NewAnalyzer(stub, NewCache(), zap.NewNop(), testRetry())

	analysis := analyzer.Analyze(context.Background(), models.JobDescription{ID: "j1"})
	if len(analysis.Sections) != 1 || analysis.Sections[0].Name != "Technical Skills" {
		t.Errorf("unexpected analysis: %+v", analysis)
	}
	if stub.calls != 1 {
		t.Errorf("remote called %d times, want 1", stub.calls)
	}
}

// TestAnalyzer_FallbackOnTransportFailure tests that an unreachable analyzer
// yields heuristic sections with a connection note first
func TestAnalyzer_FallbackOnTransportFailure(t *testing.T) {
	stub := &stubAnalyzer{err: &remote.TransportError{Op: "analyze", Err: errors.New("connection refused")}}
	analyzer := NewAnalyzer(stub, NewCache(), zap.NewNop(), testRetry())

	job := models.JobDescription{
		ID:          "j1",
		Title:       "Backend Engineer",
		Description: "- 5+ years experience with Python and Docker required",
	}

	analysis := analyzer.Analyze(context.Background(), job)

	if stub.calls != 2 {
		t.Errorf("remote called %d times, want 2 (retried once)", stub.calls)
	}
	if len(analysis.Sections) == 0 {
		t.Fatal("fallback analysis has no sections")
	}
	if analysis.Sections[0].Name != "Analysis Service Unavailable" {
		t.Errorf("first section = %q, want the connection note", analysis.Sections[0].Name)
	}
}

// TestAnalyzer_FallbackResultIsCached tests that a recovered analysis is not
// retried on the next lookup for the same key
func TestAnalyzer_FallbackResultIsCached(t *testing.T) {
	stub := &stubAnalyzer{err: &remote.TransportError{Op: "analyze", Err: errors.New("no route")}}
	analyzer := NewAnalyzer(stub, NewCache(), zap.NewNop(), testRetry())

	job := models.JobDescription{ID: "j1", Description: "some text"}

	first := analyzer.Analyze(context.Background(), job)
	callsAfterFirst := stub.calls
	second := analyzer.Analyze(context.Background(), job)

	if stub.calls != callsAfterFirst {
		t.Errorf("remote re-attempted after cached fallback: %d calls, want %d", stub.calls, callsAfterFirst)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("second lookup differs from cached result")
	}
}

// TestEnrich tests field population without overwriting
func TestEnrich(t *testing.T) {
	tests := []struct {
		name       string
		job        models.JobDescription
		analysis   models.JobAnalysis
		wantSkills []string
	}{
		{
			name: "Analysis skills fill an empty job",
			job:  models.JobDescription{Description: "nothing to see"},
			analysis: models.JobAnalysis{Sections: []models.AnalyzedSection{
				{Name: "Technical Skills", Items: []string{"Go", "Kafka"}},
			}},
			wantSkills: []string{"Go", "Kafka"},
		},
		{
			name:       "Existing skills are preserved",
			job:        models.JobDescription{Skills: []string{"Rust"}},
			analysis:   models.JobAnalysis{Sections: []models.AnalyzedSection{{Name: "Skills", Items: []string{"Go"}}}},
			wantSkills: []string{"Rust"},
		},
		{
			name:       "Vocabulary scan as last resort",
			job:        models.JobDescription{Description: "We ship Python services on Kubernetes."},
			analysis:   models.JobAnalysis{},
			wantSkills: []string{"Python", "Kubernetes"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := tt.job
			Enrich(&job, tt.analysis)
			if !reflect.DeepEqual(job.Skills, tt.wantSkills) {
				t.Errorf("Skills = %v, want %v", job.Skills, tt.wantSkills)
			}
		})
	}
}
