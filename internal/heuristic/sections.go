package heuristic

import (
	"time"

	"github.com/jmwanja/resume-matcher/internal/models"
)

// FallbackSections builds a structured analysis from job fields alone, for
// use when the remote analyzer is unreachable. Sections mirror what the
// remote service produces so cached fallback analyses are interchangeable
// with remote ones.
func FallbackSections(job models.JobDescription) []models.AnalyzedSection {
	skills := ExtractSkills(job.Description)
	requirements := ExtractRequirements(job.Description)

	var sections []models.AnalyzedSection

	if len(skills) > 0 {
		items := make([]string, 0, len(skills))
		for _, skill := range skills {
			items = append(items, "Proficiency in "+skill)
		}
		sections = append(sections, models.AnalyzedSection{Name: "Technical Skills", Items: items})
	}

	if len(requirements) > 0 {
		sections = append(sections, models.AnalyzedSection{Name: "Requirements", Items: requirements})
	}

	if details := jobDetails(job); len(details) > 0 {
		sections = append(sections, models.AnalyzedSection{Name: "Job Details", Items: details})
	}

	// Generic sections when extraction came up empty.
	if len(sections) == 0 || len(requirements) == 0 {
		sections = append(sections, models.AnalyzedSection{
			Name: "Work Experience",
			Items: []string{
				"Relevant work experience in the field",
				"Experience with industry-standard tools and practices",
			},
		})

		if len(skills) == 0 {
			sections = append(sections, models.AnalyzedSection{
				Name: "Technical Skills",
				Items: []string{
					"Programming skills relevant to the position",
					"Technical knowledge appropriate for the role",
				},
			})
		}

		sections = append(sections, models.AnalyzedSection{
			Name: "Education",
			Items: []string{
				"Bachelor's degree in a relevant field",
				"Advanced degree or equivalent experience",
			},
		})
	}

	sections = append(sections, models.AnalyzedSection{
		Name: "Note",
		Items: []string{
			"This is a limited analysis generated locally.",
			"The remote analysis service was unavailable.",
		},
	})

	return sections
}

func jobDetails(job models.JobDescription) []string {
	var details []string
	if job.Title != "" {
		details = append(details, "Title: "+job.Title)
	}
	if job.Company != "" {
		details = append(details, "Company: "+job.Company)
	}
	if job.ExperienceRequired != "" {
		details = append(details, "Required Experience: "+job.ExperienceRequired)
	}
	if job.EmploymentType != "" {
		details = append(details, "Employment Type: "+job.EmploymentType)
	}
	if job.Location != "" {
		details = append(details, "Location: "+job.Location)
	}
	if job.Salary != "" {
		details = append(details, "Salary Range: "+job.Salary)
	}
	if job.Deadline != nil {
		details = append(details, "Application Deadline: "+job.Deadline.Format(time.RFC3339))
	}
	return details
}
