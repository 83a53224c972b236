package analysis

import (
	"context"

	"go.uber.org/zap"

	"github.com/jmwanja/resume-matcher/internal/heuristic"
	"github.com/jmwanja/resume-matcher/internal/models"
	"github.com/jmwanja/resume-matcher/internal/remote"
	"github.com/jmwanja/resume-matcher/internal/retry"
)

// JobAnalyzer is the remote analysis dependency of the Analyzer.
type JobAnalyzer interface {
	AnalyzeJob(ctx context.Context, job models.JobDescription) (models.JobAnalysis, error)
}

// Analyzer resolves a job description to structured sections. Remote analysis
// is attempted through the retry executor; a transport failure falls back to
// the local heuristics, and the recovered result is cached like any other.
type Analyzer struct {
	remote JobAnalyzer
	cache  *Cache
	logger *zap.Logger
	retry  retry.Config
}

// NewAnalyzer wires an analyzer with its injected cache.
func NewAnalyzer(remoteClient JobAnalyzer, cache *Cache, logger *zap.Logger, retryCfg retry.Config) *Analyzer {
	return &Analyzer{
		remote: remoteClient,
		cache:  cache,
		logger: logger,
		retry:  retryCfg,
	}
}

// Analyze returns the analysis for the job, cached per job identity. It
// never fails: when the remote analyzer is unreachable after retries, the
// heuristic sections are returned with a connection note prepended.
func (a *Analyzer) Analyze(ctx context.Context, job models.JobDescription) models.JobAnalysis {
	return a.cache.GetOrAnalyze(job, func(job models.JobDescription) models.JobAnalysis {
		analysis, err := retry.Do(ctx, a.logger, a.retry, func(ctx context.Context) (models.JobAnalysis, error) {
			return a.remote.AnalyzeJob(ctx, job)
		})
		if err == nil {
			a.logger.Info("job description analyzed remotely",
				zap.String("job", job.CacheKey()),
				zap.Int("sections", len(analysis.Sections)),
			)
			return analysis
		}

		a.logger.Warn("remote analyzer unavailable, using heuristic analysis",
			zap.String("job", job.CacheKey()),
			zap.Error(err),
		)

		sections := append([]models.AnalyzedSection{{
			Name:  "Analysis Service Unavailable",
			Items: []string{"Failed to reach the analysis service; showing a locally generated analysis."},
		}}, heuristic.FallbackSections(job)...)

		return models.JobAnalysis{Sections: sections}
	})
}

// Enrich populates empty job fields from the analysis and the raw text,
// without ever overwriting non-empty values. Skills come from the analysis
// skills section or, failing that, the heuristic vocabulary scan;
// requirements come from the heuristic line scan.
func Enrich(job *models.JobDescription, a models.JobAnalysis) {
	skills := job.Skills
	if len(skills) == 0 {
		skills = a.SkillItems()
	}
	if len(skills) == 0 {
		skills = heuristic.ExtractSkills(job.Description)
	}

	requirements := job.Requirements
	if len(requirements) == 0 {
		requirements = heuristic.ExtractRequirements(job.Description)
	}

	job.Merge(skills, requirements)
}

// Ensure the HTTP client satisfies the analyzer dependency.
var _ JobAnalyzer = (*remote.Client)(nil)
