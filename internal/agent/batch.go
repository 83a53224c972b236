package agent

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/jmwanja/resume-matcher/internal/models"
	"github.com/jmwanja/resume-matcher/internal/retry"
	"github.com/jmwanja/resume-matcher/internal/scoring"
)

// ScoreAll scores every candidate against the job and returns one score per
// candidate, stable-sorted by overall score descending with ties kept in
// submission order. Candidates that already carry a parse error are scored
// locally and never sent to the remote service; the rest are sent in batches,
// and any batch the service cannot score after retries falls back to local
// scores for its members without affecting later batches.
func (a *Agent) ScoreAll(ctx context.Context, candidates []models.Candidate, job models.JobDescription) []models.CandidateScore {
	scores := make([]models.CandidateScore, len(candidates))
	total := len(candidates)

	// Errored candidates go straight to the fallback scorer.
	var healthy []int
	processed := 0
	for i, c := range candidates {
		if c.HasError() {
			a.logger.Info("scoring errored candidate locally",
				zap.String("candidate", c.ID),
				zap.String("error", c.Error),
			)
			scores[i] = scoring.Fallback(c, job)
			processed++
			continue
		}
		healthy = append(healthy, i)
	}
	a.reportProgress(processed, total, fmt.Sprintf("Scoring %d resumes...", total))

	for start := 0; start < len(healthy); start += a.batchSize {
		end := min(start+a.batchSize, len(healthy))
		indexes := healthy[start:end]

		batch := make([]models.Candidate, len(indexes))
		for k, idx := range indexes {
			batch[k] = candidates[idx]
		}

		batchScores := a.scoreBatch(ctx, job, batch)
		for k, idx := range indexes {
			scores[idx] = batchScores[k]
		}

		processed += len(indexes)
		a.reportProgress(processed, total, fmt.Sprintf("Scored %d/%d resumes", processed, total))
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Overall > scores[j].Overall
	})
	return scores
}

// scoreBatch scores one batch remotely with retries, falling back to local
// scores for the whole batch when the service stays unreachable or returns a
// response that cannot be matched to the batch.
func (a *Agent) scoreBatch(ctx context.Context, job models.JobDescription, batch []models.Candidate) []models.CandidateScore {
	responses, err := retry.Do(ctx, a.logger, a.retry, func(ctx context.Context) ([]models.CandidateScore, error) {
		return a.scorer.ScoreBatch(ctx, job, batch)
	})
	if err != nil {
		a.logger.Warn("batch scoring failed, using local fallback",
			zap.Int("batch_size", len(batch)),
			zap.Error(err),
		)
		return fallbackBatch(batch, job)
	}

	matched, ok := correlate(batch, responses)
	if !ok {
		a.logger.Warn("batch response could not be matched to candidates, using local fallback",
			zap.Int("batch_size", len(batch)),
			zap.Int("responses", len(responses)),
		)
		return fallbackBatch(batch, job)
	}

	for k := range matched {
		normalize(&matched[k], batch[k])
	}
	return matched
}

// correlate pairs the remote responses with the batch candidates. Responses
// carrying candidate ids are matched by id; when ids are absent the pairing
// falls back to response order, which requires matching cardinality. A
// response that can be matched neither way is a contract violation and the
// caller treats it like a transport failure.
func correlate(batch []models.Candidate, responses []models.CandidateScore) ([]models.CandidateScore, bool) {
	byID := make(map[string]models.CandidateScore, len(responses))
	for _, s := range responses {
		if s.CandidateID != "" {
			byID[s.CandidateID] = s
		}
	}

	if len(byID) == len(batch) {
		matched := make([]models.CandidateScore, len(batch))
		for i, c := range batch {
			s, ok := byID[c.ID]
			if !ok {
				return nil, false
			}
			matched[i] = s
		}
		return matched, true
	}

	if len(responses) != len(batch) {
		return nil, false
	}
	matched := make([]models.CandidateScore, len(batch))
	copy(matched, responses)
	return matched, true
}

// normalize fills in candidate identity the service may have omitted and
// clamps every score field to the displayable range.
func normalize(score *models.CandidateScore, candidate models.Candidate) {
	if score.CandidateID == "" {
		score.CandidateID = candidate.ID
	}
	if score.Name == "" {
		score.Name = candidate.Name
	}
	if score.FileName == "" {
		score.FileName = candidate.FileName
	}
	score.Clamp()
}

func fallbackBatch(batch []models.Candidate, job models.JobDescription) []models.CandidateScore {
	scores := make([]models.CandidateScore, len(batch))
	for i, c := range batch {
		scores[i] = scoring.Fallback(c, job)
	}
	return scores
}
