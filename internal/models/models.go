package models

import (
	"strings"
	"time"
)

// Candidate is a single uploaded resume with its extracted text content.
// Exactly one of Content or Error is authoritative; both may be set when the
// parser produced partial content alongside an error. Candidates are
// immutable after creation except for the score attached downstream.
type Candidate struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	FileName string `json:"fileName"`
	Content  string `json:"content"`
	Error    string `json:"error,omitempty"`
	Partial  bool   `json:"partial,omitempty"`
}

// HasError reports whether the candidate carries an upstream parse error.
func (c Candidate) HasError() bool {
	return c.Error != ""
}

// JobDescription represents a job posting and its extracted requirements.
// Skills and Requirements may be empty until analysis populates them.
type JobDescription struct {
	ID                 string     `json:"id"`
	Title              string     `json:"title"`
	Company            string     `json:"company"`
	Description        string     `json:"description"`
	Skills             []string   `json:"skills"`
	Requirements       []string   `json:"requirements"`
	Responsibilities   []string   `json:"responsibilities,omitempty"`
	ExperienceRequired string     `json:"experienceRequired,omitempty"`
	EmploymentType     string     `json:"employmentType,omitempty"`
	Location           string     `json:"location,omitempty"`
	Salary             string     `json:"salary,omitempty"`
	Deadline           *time.Time `json:"applicationDeadline,omitempty"`
}

// CacheKey identifies the job for analysis caching, preferring the stable ID
// over the title.
func (j JobDescription) CacheKey() string {
	if j.ID != "" {
		return j.ID
	}
	return j.Title
}

// Merge folds analysis output into the job description. A field is replaced
// only when the incoming value is non-empty, so a later analysis pass can
// never erase data an earlier pass produced.
func (j *JobDescription) Merge(skills, requirements []string) {
	if len(skills) > 0 {
		j.Skills = skills
	}
	if len(requirements) > 0 {
		j.Requirements = requirements
	}
}

// AnalyzedSection is one categorized group of findings from job-description
// analysis. Insertion order is presentation order.
type AnalyzedSection struct {
	Name  string   `json:"section_name"`
	Items []string `json:"requirements"`
}

// JobAnalysis is the structured result of analyzing a job description.
type JobAnalysis struct {
	Sections []AnalyzedSection `json:"sections"`
}

// SkillItems returns the items of the first section whose name mentions
// skills, or nil when there is none.
func (a JobAnalysis) SkillItems() []string {
	for _, s := range a.Sections {
		if strings.Contains(strings.ToLower(s.Name), "skill") {
			return s.Items
		}
	}
	return nil
}

// ScoreDetail holds per-category match evidence for a candidate score.
type ScoreDetail struct {
	Category string   `json:"category"`
	Score    int      `json:"score,omitempty"`
	Matches  []string `json:"matches"`
	Misses   []string `json:"misses"`
	Feedback string   `json:"feedback,omitempty"`
}

// CandidateScore is the evaluation result for one candidate. All score
// fields are percentages in [0,100]. IsFallback marks scores produced by the
// local heuristic instead of the remote service.
type CandidateScore struct {
	CandidateID string        `json:"resumeId"`
	Name        string        `json:"resumeName"`
	FileName    string        `json:"fileName"`
	Overall     int           `json:"overallScore"`
	Keyword     int           `json:"keywordMatch"`
	Skills      int           `json:"skillsMatch"`
	Experience  int           `json:"experienceMatch"`
	Education   int           `json:"educationMatch"`
	Details     []ScoreDetail `json:"scoreDetails,omitempty"`
	Narrative   []string      `json:"evaluationDetails,omitempty"`
	IsFallback  bool          `json:"isFallback"`
}

// Subscore returns the named subscore, defaulting to Overall for an unknown
// or empty field name.
func (s CandidateScore) Subscore(field string) int {
	switch field {
	case "keyword":
		return s.Keyword
	case "skills":
		return s.Skills
	case "experience":
		return s.Experience
	case "education":
		return s.Education
	default:
		return s.Overall
	}
}

// Clamp bounds every score field to [0,100]. Applied at the orchestrator
// boundary so a remote service with its own weighting cannot push values
// outside the displayable range.
func (s *CandidateScore) Clamp() {
	s.Overall = ClampScore(s.Overall, 0, 100)
	s.Keyword = ClampScore(s.Keyword, 0, 100)
	s.Skills = ClampScore(s.Skills, 0, 100)
	s.Experience = ClampScore(s.Experience, 0, 100)
	s.Education = ClampScore(s.Education, 0, 100)
}

// ClampScore bounds v to the inclusive range [lo, hi].
func ClampScore(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
