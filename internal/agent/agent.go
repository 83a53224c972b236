// Package agent orchestrates a matching session: analyze the job description,
// take in candidates, score them in batches and hold the ranked results.
package agent

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/jmwanja/resume-matcher/internal/analysis"
	"github.com/jmwanja/resume-matcher/internal/models"
	"github.com/jmwanja/resume-matcher/internal/remote"
	"github.com/jmwanja/resume-matcher/internal/retry"
)

// ProgressCallback is called to report progress during scoring.
type ProgressCallback func(processed, total int, message string)

// State tracks how far a matching session has advanced: Idle, JobAnalyzed,
// ResumesSubmitted, Scoring, Ranked. A run advances through the states in
// order; analyzing a new job description rewinds a finished session to
// JobAnalyzed so the agent can be matched again.
type State int

const (
	StateIdle State = iota
	StateJobAnalyzed
	StateResumesSubmitted
	StateScoring
	StateRanked
)

// String returns the state name for logs and API payloads.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateJobAnalyzed:
		return "job_analyzed"
	case StateResumesSubmitted:
		return "resumes_submitted"
	case StateScoring:
		return "scoring"
	case StateRanked:
		return "ranked"
	default:
		return "unknown"
	}
}

// BatchScorer is the remote scoring dependency of the agent.
type BatchScorer interface {
	ScoreBatch(ctx context.Context, job models.JobDescription, batch []models.Candidate) ([]models.CandidateScore, error)
}

// DefaultBatchSize is the number of candidates sent per remote scoring call.
const DefaultBatchSize = 5

// Summary counts how the candidates of a session were evaluated.
type Summary struct {
	Total         int `json:"total"`
	FullyAnalyzed int `json:"fullyAnalyzed"`
	Fallback      int `json:"fallback"`
	ParseFailed   int `json:"parseFailed"`
}

// Agent runs one matching session end to end. Scoring never fails as a whole:
// candidates the remote service cannot score get local fallback scores, and
// the session always reaches the ranked state.
type Agent struct {
	scorer    BatchScorer
	analyzer  *analysis.Analyzer
	logger    *zap.Logger
	batchSize int
	retry     retry.Config

	mu          sync.RWMutex
	state       State
	job         models.JobDescription
	jobAnalysis models.JobAnalysis
	candidates  []models.Candidate
	scores      []models.CandidateScore
	progressCb  ProgressCallback
}

// Options tunes the agent. Zero values fall back to the defaults.
type Options struct {
	BatchSize int
	Retry     retry.Config
}

// New creates an agent for a single matching session.
func New(scorer BatchScorer, analyzer *analysis.Analyzer, logger *zap.Logger, opts Options) *Agent {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	return &Agent{
		scorer:    scorer,
		analyzer:  analyzer,
		logger:    logger,
		batchSize: opts.BatchSize,
		retry:     opts.Retry,
		state:     StateIdle,
	}
}

// SetProgressCallback sets the progress callback function.
func (a *Agent) SetProgressCallback(cb ProgressCallback) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.progressCb = cb
}

// reportProgress calls the progress callback if set.
func (a *Agent) reportProgress(processed, total int, message string) {
	a.mu.RLock()
	cb := a.progressCb
	a.mu.RUnlock()

	if cb != nil {
		cb(processed, total, message)
	}
}

// AnalyzeJob analyzes the job description and stores the enriched version for
// the rest of the session. The analyzer never fails, so neither does this.
func (a *Agent) AnalyzeJob(ctx context.Context, job models.JobDescription) models.JobAnalysis {
	jobAnalysis := a.analyzer.Analyze(ctx, job)
	analysis.Enrich(&job, jobAnalysis)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.job = job
	a.jobAnalysis = jobAnalysis
	a.state = StateJobAnalyzed

	a.logger.Info("job description analyzed",
		zap.String("job", job.CacheKey()),
		zap.Int("skills", len(job.Skills)),
		zap.Int("requirements", len(job.Requirements)),
	)
	return jobAnalysis
}

// SubmitCandidates registers the candidates to score. The job description
// must have been analyzed first.
func (a *Agent) SubmitCandidates(candidates []models.Candidate) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state < StateJobAnalyzed {
		return fmt.Errorf("no job description analyzed yet")
	}
	if len(candidates) == 0 {
		return fmt.Errorf("no candidates submitted")
	}

	a.candidates = candidates
	a.scores = nil
	a.state = StateResumesSubmitted
	return nil
}

// Score evaluates all submitted candidates against the job description and
// stores the ranked scores. The only error is calling it out of order; once
// scoring starts, the session always finishes ranked.
func (a *Agent) Score(ctx context.Context) ([]models.CandidateScore, error) {
	a.mu.Lock()
	if a.state != StateResumesSubmitted {
		state := a.state
		a.mu.Unlock()
		return nil, fmt.Errorf("cannot score in state %s, submit candidates first", state)
	}
	a.state = StateScoring
	candidates := a.candidates
	job := a.job
	a.mu.Unlock()

	scores := a.ScoreAll(ctx, candidates, job)

	a.mu.Lock()
	a.scores = scores
	a.state = StateRanked
	a.mu.Unlock()

	return scores, nil
}

// Results returns a copy of the ranked scores.
func (a *Agent) Results() []models.CandidateScore {
	a.mu.RLock()
	defer a.mu.RUnlock()

	results := make([]models.CandidateScore, len(a.scores))
	copy(results, a.scores)
	return results
}

// Job returns the enriched job description of the session.
func (a *Agent) Job() models.JobDescription {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.job
}

// Analysis returns the stored job analysis.
func (a *Agent) Analysis() models.JobAnalysis {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.jobAnalysis
}

// State returns the current session state.
func (a *Agent) State() State {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

// Summary reports how the session's candidates were evaluated.
func (a *Agent) Summary() Summary {
	a.mu.RLock()
	defer a.mu.RUnlock()

	s := Summary{Total: len(a.candidates)}
	for _, c := range a.candidates {
		if c.HasError() {
			s.ParseFailed++
		}
	}
	for _, score := range a.scores {
		if score.IsFallback {
			s.Fallback++
		} else {
			s.FullyAnalyzed++
		}
	}
	return s
}

// Ensure the HTTP client satisfies the scorer dependency.
var _ BatchScorer = (*remote.Client)(nil)
