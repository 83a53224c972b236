// Package heuristic extracts skills and requirements from free-form
// job-description text. It is a best-effort enrichment pass used when the
// remote analyzer is unreachable, not a parser: false positives and negatives
// are expected and acceptable.
package heuristic

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// vocabulary is the curated list of domain terms matched against job text.
var vocabulary = []string{
	"JavaScript", "TypeScript", "Python", "Java", "C#", "C++", "Ruby", "PHP", "Swift", "Kotlin",
	"React", "Angular", "Vue", "Node.js", "Express", "Django", "Flask", "Spring", "ASP.NET",
	"AWS", "Azure", "GCP", "Docker", "Kubernetes", "CI/CD", "Git", "SQL", "NoSQL", "MongoDB",
	"PostgreSQL", "MySQL", "GraphQL", "REST API", "Microservices", "DevOps", "Agile", "Scrum",
	"HTML", "CSS", "SASS", "LESS", "Tailwind", "Bootstrap", "Redux", "Next.js", "Gatsby",
	"Machine Learning", "AI", "Data Science", "Big Data", "Hadoop", "Spark", "TensorFlow",
	"Blockchain", "IoT", "AR/VR", "Mobile Development", "iOS", "Android", "React Native",
	"Flutter", "UI/UX", "Figma", "Sketch", "Adobe XD", "Photoshop", "Illustrator",
	"Testing", "Jest", "Mocha", "Cypress", "Selenium", "TDD", "BDD",
}

// cuePhrases capture the span following phrases that typically introduce a
// skill ("experience with X", "proficiency in X", ...). Vocabulary terms
// found inside the captured span are added as matches.
var cuePhrases = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bproficiency\s+(?:in|with)\s+([\w\s./+#,-]+)`),
	regexp.MustCompile(`(?i)\bexperience\s+(?:in|with|using)\s+([\w\s./+#,-]+)`),
	regexp.MustCompile(`(?i)\bknowledge\s+of\s+([\w\s./+#,-]+)`),
	regexp.MustCompile(`(?i)\bfamiliar\s+with\s+([\w\s./+#,-]+)`),
	regexp.MustCompile(`(?i)\bskills?\s+(?:in|with)\s+([\w\s./+#,-]+)`),
	regexp.MustCompile(`(?i)\bexpertise\s+(?:in|with)\s+([\w\s./+#,-]+)`),
}

var (
	listItemMarker = regexp.MustCompile(`^[•\-*\d.]+\s+`)
	requirementCue = regexp.MustCompile(`(?i)\b(required|requirement|must have|minimum|qualification|experience in)\b`)
	sectionHeader  = regexp.MustCompile(`(?i)^(?:technical\s+)?(?:skills|requirements)\s*:?\s*$`)
)

// vocabularyPatterns are the compiled word-boundary matchers, one per
// vocabulary term, allowing a trailing plural "s" where the term ends in a
// word character.
var vocabularyPatterns = compileVocabulary()

func compileVocabulary() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(vocabulary))
	for _, term := range vocabulary {
		expr := regexp.QuoteMeta(term)
		if isWordByte(term[0]) {
			expr = `\b` + expr
		}
		if isWordByte(term[len(term)-1]) {
			expr += `s?\b`
		}
		patterns = append(patterns, regexp.MustCompile(`(?i)`+expr))
	}
	return patterns
}

func isWordByte(b byte) bool {
	return b == '_' ||
		('a' <= b && b <= 'z') ||
		('A' <= b && b <= 'Z') ||
		('0' <= b && b <= '9')
}

// matchSet accumulates skills in insertion order of first detection,
// suppressing duplicates case-insensitively.
type matchSet struct {
	seen  map[string]bool
	order []string
}

func newMatchSet() *matchSet {
	return &matchSet{seen: make(map[string]bool)}
}

func (m *matchSet) add(skill string) {
	key := strings.ToLower(skill)
	if m.seen[key] {
		return
	}
	m.seen[key] = true
	m.order = append(m.order, skill)
}

func (m *matchSet) addVocabularyIn(text string) {
	for i, pattern := range vocabularyPatterns {
		if pattern.MatchString(text) {
			m.add(vocabulary[i])
		}
	}
}

// ExtractSkills scans job-description text for known domain terms. Four
// passes feed the same set: a whole-text vocabulary scan, cue-phrase spans,
// list-item lines, and explicit skills/requirements sections as a
// higher-confidence pass. The result preserves first-detection order.
func ExtractSkills(text string) []string {
	matches := newMatchSet()

	matches.addVocabularyIn(text)

	for _, cue := range cuePhrases {
		for _, captured := range cue.FindAllStringSubmatch(text, -1) {
			matches.addVocabularyIn(captured[1])
		}
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if listItemMarker.MatchString(trimmed) {
			matches.addVocabularyIn(trimmed)
		}
	}

	for _, section := range headerSections(text) {
		matches.addVocabularyIn(section)
	}

	return matches.order
}

// headerSections returns the bodies of explicit "Technical Skills" or
// "Requirements" sections when such headers are detectable, each body running
// until the next blank line or header.
func headerSections(text string) []string {
	var sections []string
	lines := strings.Split(text, "\n")

	for i := 0; i < len(lines); i++ {
		if !sectionHeader.MatchString(strings.TrimSpace(lines[i])) {
			continue
		}
		var body []string
		for j := i + 1; j < len(lines); j++ {
			trimmed := strings.TrimSpace(lines[j])
			if trimmed == "" || sectionHeader.MatchString(trimmed) {
				i = j - 1
				break
			}
			body = append(body, trimmed)
		}
		if len(body) > 0 {
			sections = append(sections, strings.Join(body, "\n"))
		}
	}

	return sections
}

// ExtractRequirements scans text line by line for likely requirement
// statements. A line qualifies when it starts with a bullet or numeral marker
// and is longer than 10 characters, or contains a requirement cue word and is
// longer than 15 characters. Qualifying lines are trimmed of their marker and
// capitalized at the first letter.
func ExtractRequirements(text string) []string {
	var requirements []string

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)

		switch {
		case listItemMarker.MatchString(trimmed) && len(trimmed) > 10:
			requirement := listItemMarker.ReplaceAllString(trimmed, "")
			requirements = append(requirements, capitalize(requirement))
		case requirementCue.MatchString(trimmed) && len(trimmed) > 15:
			requirements = append(requirements, capitalize(trimmed))
		}
	}

	return requirements
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
