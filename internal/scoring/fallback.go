// Package scoring produces candidate scores locally when the remote scorer
// cannot. Fallback scores are deterministic, low-fidelity estimates that are
// deliberately capped below the excellent band so they remain visually
// distinguishable from remote results.
package scoring

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/jmwanja/resume-matcher/internal/models"
)

// Weights of the fallback overall score. The remote scorer may weight
// differently; these apply only to locally synthesized scores.
const (
	weightKeyword    = 0.05
	weightSkills     = 0.45
	weightExperience = 0.35
	weightEducation  = 0.15
)

const (
	subscoreFloor = 15
	subscoreCeil  = 80
	overallFloor  = 20
	overallCeil   = 75
)

// Fallback scores a single candidate without the remote service. It never
// fails: any candidate, including one with no content at all, yields a usable
// score. The result depends only on the content length and whether the
// candidate carries a parse error.
func Fallback(candidate models.Candidate, job models.JobDescription) models.CandidateScore {
	contentLength := utf8.RuneCountInString(candidate.Content)
	hasError := candidate.HasError()

	// More content usually means a better match; errors discount it.
	base := math.Min(45+float64(contentLength)/500, 70)
	penalty := 1.0
	if hasError {
		penalty = 0.7
	}

	keyword := subscore(base+10, penalty)
	skills := subscore(base-5, penalty)
	experience := subscore(base+5, penalty)
	education := subscore(base-10, penalty)

	overall := int(math.Round(
		float64(keyword)*weightKeyword +
			float64(skills)*weightSkills +
			float64(experience)*weightExperience +
			float64(education)*weightEducation,
	))
	overall = models.ClampScore(overall, overallFloor, overallCeil)

	warning := "Note: This analysis is an estimate as the resume could not be fully processed."
	if hasError {
		warning = "Warning: This resume had processing issues. Results may be incomplete."
	}

	return models.CandidateScore{
		CandidateID: candidate.ID,
		Name:        candidate.Name,
		FileName:    candidate.FileName,
		Overall:     overall,
		Keyword:     keyword,
		Skills:      skills,
		Experience:  experience,
		Education:   education,
		Narrative: []string{
			warning,
			fmt.Sprintf("Analyzed content length: %d characters", contentLength),
			fmt.Sprintf("File name: %s", candidate.FileName),
		},
		Details: []models.ScoreDetail{
			{
				Category: "Keywords",
				Matches:  []string{"Limited analysis available"},
				Misses:   []string{"Full keyword matching unavailable"},
			},
			{
				Category: "Skills",
				Matches:  []string{"Limited analysis available"},
				Misses:   []string{"Full skills matching unavailable"},
			},
		},
		IsFallback: true,
	}
}

func subscore(value, penalty float64) int {
	return models.ClampScore(int(math.Round(value*penalty)), subscoreFloor, subscoreCeil)
}
