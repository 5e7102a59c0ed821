// Package jsearch implements the fallback job-listing provider backed by
// the JSearch API on RapidAPI.
package jsearch

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/skillmatch/skillmatch/internal/jobs"
)

const (
	apiURL          = "https://jsearch.p.rapidapi.com"
	apiHost         = "jsearch.p.rapidapi.com"
	contentEncoding = "gzip, deflate, br"
)

type Client struct {
	apiKey     string
	logger     *zap.Logger
	HTTPClient *http.Client
	APIURL     string
	UserAgent  string
}

func New(apiKey string, logger *zap.Logger) *Client {
	return &Client{
		apiKey: apiKey,
		logger: logger,
		APIURL: apiURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) Name() string { return "jsearch" }

type searchResponse struct {
	Data []map[string]any `json:"data"`
}

type result struct {
	JobID          string  `json:"job_id"`
	JobTitle       string  `json:"job_title"`
	EmployerName   string  `json:"employer_name"`
	JobCity        string  `json:"job_city"`
	JobState       string  `json:"job_state"`
	JobCountry     string  `json:"job_country"`
	JobDescription string  `json:"job_description"`
	JobMinSalary   float64 `json:"job_min_salary"`
	JobMaxSalary   float64 `json:"job_max_salary"`
	JobPostedAt    string  `json:"job_posted_at_datetime_utc"`
	JobApplyLink   string  `json:"job_apply_link"`
	JobEmployment  string  `json:"job_employment_type"`
}

func (c *Client) Search(ctx context.Context, q jobs.Query) (*jobs.Jobs, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("jsearch api key is not configured")
	}

	query := q.Title
	if q.Location != "" {
		query = fmt.Sprintf("%s in %s", q.Title, q.Location)
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("page", "1")
	params.Set("num_pages", "1")
	params.Set("date_posted", "all")

	var response searchResponse
	if err := c.getJSON(ctx, c.APIURL+"/search", params, &response); err != nil {
		return nil, err
	}

	var results []*result
	cfg := &mapstructure.DecoderConfig{
		Result:           &results,
		TagName:          "json",
		WeaklyTypedInput: true,
	}
	decoder, _ := mapstructure.NewDecoder(cfg)
	if err := decoder.Decode(response.Data); err != nil {
		return nil, fmt.Errorf("decode jsearch results: %w", err)
	}

	found := &jobs.Jobs{}
	for _, r := range results {
		found.Items = append(found.Items, r.toPosting())
	}

	c.logger.Debug("jsearch search finished", zap.Int("count", found.Len()))

	return found, nil
}

func (r *result) toPosting() *jobs.Posting {
	parts := make([]string, 0, 3)
	for _, part := range []string{r.JobCity, r.JobState, r.JobCountry} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	location := strings.Join(parts, ", ")

	created, _ := time.Parse(time.RFC3339, r.JobPostedAt)

	return &jobs.Posting{
		ID:           r.JobID,
		Title:        r.JobTitle,
		Company:      r.EmployerName,
		Location:     location,
		Description:  r.JobDescription,
		SalaryMin:    r.JobMinSalary,
		SalaryMax:    r.JobMaxSalary,
		CreatedAt:    created,
		ContractType: r.JobEmployment,
		ApplyURL:     r.JobApplyLink,
	}
}

func (c *Client) getJSON(ctx context.Context, rawURL string, q url.Values, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}

	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", apiHost)
	req.Header.Set("Accept-Encoding", contentEncoding)
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	req.URL.RawQuery = q.Encode()

	c.logger.Debug("make request", zap.String("url", req.URL.Redacted()))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return err
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	if err := json.NewDecoder(reader).Decode(target); err != nil {
		return err
	}

	return nil
}
