// Package analysis is a thin client for the resume/job-description
// analysis backend. Parsing and skill extraction run server-side; this
// package only uploads inputs and decodes the structured comparison.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

const analyzePath = "/analyze"

type Client struct {
	baseURL    string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
}

func New(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		logger:  logger,
		HTTPClient: &http.Client{
			// Resume parsing is slow server-side.
			Timeout: 60 * time.Second,
		},
	}
}

// Recommendation is a suggested learning item for a missing skill.
type Recommendation struct {
	Skill     string   `json:"skill"`
	Courses   []string `json:"courses"`
	Resources []string `json:"resources"`
}

// SkillComparison is the structured result of matching a resume against a
// job description.
type SkillComparison struct {
	Matched         []string         `json:"matched_skills"`
	Missing         []string         `json:"missing_skills"`
	Partial         []string         `json:"partial_skills"`
	OverallScore    float64          `json:"overall_score"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Analyze uploads the resume file and job-description text and returns
// the backend's skill comparison.
func (c *Client) Analyze(ctx context.Context, resumePath, jobDescription string) (*SkillComparison, error) {
	file, err := os.Open(resumePath)
	if err != nil {
		return nil, fmt.Errorf("open resume: %w", err)
	}
	defer file.Close()

	var body io.Reader
	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)
	body = pr

	go func() {
		part, err := writer.CreateFormFile("resume", filepath.Base(resumePath))
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, file); err != nil {
			pw.CloseWithError(err)
			return
		}
		if err := writer.WriteField("job_description", jobDescription); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(writer.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+analyzePath, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", writer.FormDataContentType())
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	c.logger.Debug("make request", zap.String("url", req.URL.String()))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	var comparison SkillComparison
	if err := json.NewDecoder(resp.Body).Decode(&comparison); err != nil {
		return nil, fmt.Errorf("decode analysis response: %w", err)
	}

	return &comparison, nil
}
