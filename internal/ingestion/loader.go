// Package ingestion loads candidate resumes from a local directory. Plain
// text files are read directly; binary formats are delegated to the remote
// parser, and per-file failures are captured on the candidate instead of
// aborting the load.
package ingestion

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/jmwanja/resume-matcher/internal/models"
	"github.com/jmwanja/resume-matcher/internal/remote"
	"github.com/jmwanja/resume-matcher/internal/retry"
)

// ResumeParser extracts text from a binary resume. A non-empty parseErr is an
// application-level failure with optional partial content; err is a transport
// failure.
type ResumeParser interface {
	ParseResume(ctx context.Context, fileName string, data []byte) (content, parseErr string, err error)
}

// Loader reads resumes from a directory into candidates.
type Loader struct {
	dir    string
	parser ResumeParser
	logger *zap.Logger
	retry  retry.Config
}

// NewLoader creates a loader for the given directory.
func NewLoader(dir string, parser ResumeParser, logger *zap.Logger, retryCfg retry.Config) *Loader {
	return &Loader{
		dir:    dir,
		parser: parser,
		logger: logger,
		retry:  retryCfg,
	}
}

var textExtensions = map[string]bool{
	".txt": true,
	".md":  true,
}

var binaryExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

// LoadCandidates reads every supported file in the directory, in file-name
// order, and returns one candidate per file. It fails only when the directory
// itself cannot be read; everything that goes wrong with an individual file
// lands on that candidate's Error field so scoring can still proceed.
func (l *Loader) LoadCandidates(ctx context.Context) ([]models.Candidate, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read resumes directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !textExtensions[ext] && !binaryExtensions[ext] {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	candidates := make([]models.Candidate, 0, len(names))
	for _, name := range names {
		candidates = append(candidates, l.loadOne(ctx, name))
	}

	l.logger.Info("resumes loaded",
		zap.String("dir", l.dir),
		zap.Int("count", len(candidates)),
	)
	return candidates, nil
}

func (l *Loader) loadOne(ctx context.Context, fileName string) models.Candidate {
	candidate := models.Candidate{
		ID:       candidateID(fileName),
		Name:     candidateName(fileName),
		FileName: fileName,
	}

	data, err := os.ReadFile(filepath.Join(l.dir, fileName))
	if err != nil {
		candidate.Error = fmt.Sprintf("failed to read file: %v", err)
		return candidate
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	if textExtensions[ext] {
		candidate.Content = string(data)
		return candidate
	}

	type parsed struct {
		content  string
		parseErr string
	}
	result, err := retry.Do(ctx, l.logger, l.retry, func(ctx context.Context) (parsed, error) {
		content, parseErr, err := l.parser.ParseResume(ctx, fileName, data)
		return parsed{content: content, parseErr: parseErr}, err
	})
	if err != nil {
		l.logger.Warn("resume parser unreachable",
			zap.String("file", fileName),
			zap.Error(err),
		)
		candidate.Error = fmt.Sprintf("parser unavailable: %v", err)
		return candidate
	}

	candidate.Content = result.content
	if result.parseErr != "" {
		candidate.Error = result.parseErr
		candidate.Partial = result.content != ""
	}
	return candidate
}

// candidateID derives a stable id from the file name: lowercase, extension
// stripped, runs of non-alphanumerics collapsed to single dashes.
func candidateID(fileName string) string {
	base := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(base) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// candidateName turns "Jane_Doe_CV.pdf" into "Jane Doe CV".
func candidateName(fileName string) string {
	base := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	return strings.Join(strings.FieldsFunc(base, func(r rune) bool {
		return r == '_' || r == '-'
	}), " ")
}

// Ensure the HTTP client satisfies the parser dependency.
var _ ResumeParser = (*remote.Client)(nil)
