// Package remote implements the HTTP client for the resume analysis service.
// The service is opaque: this client speaks its JSON contract and classifies
// failures, nothing more.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/jmwanja/resume-matcher/internal/models"
)

const (
	contentType = "application/json"

	// DefaultAnalyzeTimeout bounds a job-analysis call.
	DefaultAnalyzeTimeout = 30 * time.Second
	// DefaultScoreTimeout bounds a batch scoring call.
	DefaultScoreTimeout = 60 * time.Second
	// DefaultParseTimeout bounds a resume parsing call.
	DefaultParseTimeout = 30 * time.Second
)

// TransportError marks failures where the service could not be reached or
// returned an unusable response: connection errors, timeouts, non-2xx
// statuses, undecodable bodies. Only these trigger the local fallback paths;
// application-level error payloads inside a successful response do not.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether err is (or wraps) a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	for err != nil {
		if t, ok := err.(*TransportError); ok {
			te = t
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return te != nil
}

// Client talks to the analysis service at a configurable base endpoint.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	logger         *zap.Logger
	AnalyzeTimeout time.Duration
	ScoreTimeout   time.Duration
	ParseTimeout   time.Duration
}

// New creates a client for the service at baseURL (no trailing slash needed).
func New(baseURL string, logger *zap.Logger) *Client {
	for len(baseURL) > 0 && baseURL[len(baseURL)-1] == '/' {
		baseURL = baseURL[:len(baseURL)-1]
	}
	return &Client{
		baseURL:        baseURL,
		httpClient:     &http.Client{},
		logger:         logger,
		AnalyzeTimeout: DefaultAnalyzeTimeout,
		ScoreTimeout:   DefaultScoreTimeout,
		ParseTimeout:   DefaultParseTimeout,
	}
}

// analyzeJobRequest flattens the job description for the analysis endpoint.
// Dates travel as ISO-8601 strings.
type analyzeJobRequest struct {
	Title               string `json:"title"`
	Company             string `json:"company"`
	Description         string `json:"description"`
	RequiredExperience  string `json:"requiredExperience,omitempty"`
	EmploymentType      string `json:"employmentType,omitempty"`
	Location            string `json:"location,omitempty"`
	SalaryRange         string `json:"salaryRange,omitempty"`
	ApplicationDeadline string `json:"applicationDeadline,omitempty"`
}

// AnalyzeJob requests a structured analysis of the job description.
func (c *Client) AnalyzeJob(ctx context.Context, job models.JobDescription) (models.JobAnalysis, error) {
	req := analyzeJobRequest{
		Title:              job.Title,
		Company:            job.Company,
		Description:        job.Description,
		RequiredExperience: job.ExperienceRequired,
		EmploymentType:     job.EmploymentType,
		Location:           job.Location,
		SalaryRange:        job.Salary,
	}
	if job.Deadline != nil {
		req.ApplicationDeadline = job.Deadline.Format(time.RFC3339)
	}

	var analysis models.JobAnalysis
	if err := c.postJSON(ctx, "/analyze-job-description", c.AnalyzeTimeout, req, &analysis); err != nil {
		return models.JobAnalysis{}, err
	}
	return analysis, nil
}

// scoreBatchRequest is one batch scoring call: the job description plus a
// batch-sized slice of candidates.
type scoreBatchRequest struct {
	JobDescription models.JobDescription `json:"jobDescription"`
	Resumes        []models.Candidate    `json:"resumes"`
}

// ScoreBatch scores a batch of candidates against the job description. The
// response is expected to match the batch cardinality; the caller verifies
// that and correlates entries by candidate id.
func (c *Client) ScoreBatch(ctx context.Context, job models.JobDescription, batch []models.Candidate) ([]models.CandidateScore, error) {
	req := scoreBatchRequest{JobDescription: job, Resumes: batch}

	var scores []models.CandidateScore
	if err := c.postJSON(ctx, "/analyze-resumes", c.ScoreTimeout, req, &scores); err != nil {
		return nil, err
	}
	return scores, nil
}

// parseResponse is the parse-resume payload. A populated Error field is an
// application-level failure: the call succeeded but the document did not.
type parseResponse struct {
	Content        string `json:"content"`
	Error          string `json:"error"`
	PartialContent string `json:"partial_content"`
}

// ParseResume submits a raw document to the external parser and returns the
// extracted text, or the parser's error alongside any partial content. Only
// transport failures are returned as errors.
func (c *Client) ParseResume(ctx context.Context, fileName string, data []byte) (content, parseErr string, err error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	field, err := w.CreateFormFile("file", fileName)
	if err != nil {
		return "", "", fmt.Errorf("building multipart form: %w", err)
	}
	if _, err := field.Write(data); err != nil {
		return "", "", fmt.Errorf("writing multipart form: %w", err)
	}
	if err := w.WriteField("filename", fileName); err != nil {
		return "", "", fmt.Errorf("writing multipart form: %w", err)
	}
	w.Close()

	ctx, cancel := context.WithTimeout(ctx, c.ParseTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/parse-resume", &body)
	if err != nil {
		return "", "", fmt.Errorf("building parse request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.do(req)
	if err != nil {
		return "", "", &TransportError{Op: "parse-resume", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", &TransportError{Op: "parse-resume", Err: fmt.Errorf("bad status: %s", resp.Status)}
	}

	var parsed parseResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", "", &TransportError{Op: "parse-resume", Err: fmt.Errorf("decoding response: %w", err)}
	}

	if parsed.Error != "" {
		return parsed.PartialContent, parsed.Error, nil
	}
	return parsed.Content, "", nil
}

// postJSON posts a JSON payload and decodes the JSON response into target.
func (c *Client) postJSON(ctx context.Context, path string, timeout time.Duration, payload, target any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding request for %s: %w", path, err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("building request for %s: %w", path, err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.do(req)
	if err != nil {
		return &TransportError{Op: path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return &TransportError{Op: path, Err: fmt.Errorf("bad status: %s", resp.Status)}
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return &TransportError{Op: path, Err: fmt.Errorf("decoding response: %w", err)}
	}

	return nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	c.logger.Debug("make request", zap.String("url", req.URL.String()))
	return c.httpClient.Do(req)
}
