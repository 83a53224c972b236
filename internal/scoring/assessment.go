package scoring

import "github.com/jmwanja/resume-matcher/internal/models"

// Assessment summarizes a score for the detail view: a one-line overall
// verdict plus subscore-driven strengths, weaknesses and recommendations.
type Assessment struct {
	Overall         string   `json:"overallAssessment"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Recommendations []string `json:"recommendations"`
}

// Assess derives a qualitative assessment from a candidate score. Subscores
// at or above 70 count as strengths, below 50 as weaknesses, and below 60
// produce a recommendation.
func Assess(score models.CandidateScore) Assessment {
	var a Assessment

	switch {
	case score.Overall >= 80:
		a.Overall = "Excellent match for the position. This candidate meets or exceeds most requirements."
	case score.Overall >= 65:
		a.Overall = "Good match for the position. This candidate meets many key requirements."
	case score.Overall >= 50:
		a.Overall = "Moderate match for the position. This candidate meets some requirements but has notable gaps."
	default:
		a.Overall = "Limited match for the position. This candidate may need significant additional qualifications."
	}

	if score.Keyword >= 70 {
		a.Strengths = append(a.Strengths, "Strong keyword relevance to the job description")
	}
	if score.Skills >= 70 {
		a.Strengths = append(a.Strengths, "Impressive skills alignment with job requirements")
	}
	if score.Experience >= 70 {
		a.Strengths = append(a.Strengths, "Relevant experience level for the position")
	}
	if score.Education >= 70 {
		a.Strengths = append(a.Strengths, "Education credentials match or exceed requirements")
	}

	if score.Keyword < 50 {
		a.Weaknesses = append(a.Weaknesses, "Resume lacks key terminology relevant to the position")
	}
	if score.Skills < 50 {
		a.Weaknesses = append(a.Weaknesses, "Skills gap compared to job requirements")
	}
	if score.Experience < 50 {
		a.Weaknesses = append(a.Weaknesses, "Experience level may be insufficient for the role")
	}
	if score.Education < 50 {
		a.Weaknesses = append(a.Weaknesses, "Educational qualifications may not meet requirements")
	}

	if score.Keyword < 60 {
		a.Recommendations = append(a.Recommendations, "Update resume to include more industry-specific terminology from the job description")
	}
	if score.Skills < 60 {
		a.Recommendations = append(a.Recommendations, "Highlight technical or soft skills that align with the job requirements")
	}
	if score.Experience < 60 {
		a.Recommendations = append(a.Recommendations, "Emphasize relevant work experience and accomplishments related to the role")
	}
	if score.Education < 60 {
		a.Recommendations = append(a.Recommendations, "Consider additional certifications or training to strengthen qualifications")
	}
	if score.Overall >= 50 && score.Overall < 75 {
		a.Recommendations = append(a.Recommendations, "Tailor the resume structure and content specifically for this type of position")
	}

	return a
}
