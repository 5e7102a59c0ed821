// Package adzuna implements the primary job-listing provider backed by
// the Adzuna public search API.
package adzuna

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/skillmatch/skillmatch/internal/jobs"
)

const (
	apiURL          = "https://api.adzuna.com/v1/api/jobs"
	perPage         = 50
	contentEncoding = "gzip, deflate, br"
	defaultCountry  = "in"
)

type Client struct {
	appID      string
	appKey     string
	country    string
	logger     *zap.Logger
	HTTPClient *http.Client
	APIURL     string
	UserAgent  string
}

func New(appID, appKey, country string, logger *zap.Logger) *Client {
	if country == "" {
		country = defaultCountry
	}
	return &Client{
		appID:   appID,
		appKey:  appKey,
		country: country,
		logger:  logger,
		APIURL:  apiURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) Name() string { return "adzuna" }

// searchResponse mirrors the top-level Adzuna JSON response. Results stay
// raw maps until mapstructure shapes them.
type searchResponse struct {
	Results []map[string]any `json:"results"`
	Count   int              `json:"count"`
}

type result struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Company     struct {
		DisplayName string `json:"display_name"`
	} `json:"company"`
	Location struct {
		DisplayName string   `json:"display_name"`
		Area        []string `json:"area"`
	} `json:"location"`
	SalaryMin    float64 `json:"salary_min"`
	SalaryMax    float64 `json:"salary_max"`
	RedirectURL  string  `json:"redirect_url"`
	Created      string  `json:"created"`
	ContractType string  `json:"contract_type"`
}

func (c *Client) Search(ctx context.Context, q jobs.Query) (*jobs.Jobs, error) {
	if c.appID == "" || c.appKey == "" {
		return nil, fmt.Errorf("adzuna credentials are not configured")
	}

	params := url.Values{}
	params.Set("app_id", c.appID)
	params.Set("app_key", c.appKey)
	params.Set("results_per_page", strconv.Itoa(perPage))
	params.Set("what", q.Title)
	params.Set("where", q.Location)
	params.Set("content-type", "application/json")

	searchURL := fmt.Sprintf("%s/%s/search/1", c.APIURL, c.country)

	var response searchResponse
	if err := c.getJSON(ctx, searchURL, params, &response); err != nil {
		return nil, err
	}

	var results []*result
	cfg := &mapstructure.DecoderConfig{
		Result:  &results,
		TagName: "json",
	}
	decoder, _ := mapstructure.NewDecoder(cfg)
	if err := decoder.Decode(response.Results); err != nil {
		return nil, fmt.Errorf("decode adzuna results: %w", err)
	}

	found := &jobs.Jobs{}
	for _, r := range results {
		found.Items = append(found.Items, r.toPosting())
	}

	c.logger.Debug("adzuna search finished",
		zap.Int("count", found.Len()),
		zap.Int("reported_total", response.Count),
	)

	return found, nil
}

func (r *result) toPosting() *jobs.Posting {
	location := r.Location.DisplayName
	if location == "" {
		location = strings.Join(r.Location.Area, ", ")
	}

	company := r.Company.DisplayName
	if company == "" {
		company = "Company Name Not Listed"
	}

	// Unparseable timestamps degrade to "no recency bonus" downstream.
	created, _ := time.Parse(time.RFC3339, r.Created)

	return &jobs.Posting{
		ID:           r.ID,
		Title:        r.Title,
		Company:      company,
		Location:     location,
		Description:  r.Description,
		SalaryMin:    r.SalaryMin,
		SalaryMax:    r.SalaryMax,
		CreatedAt:    created,
		ContractType: r.ContractType,
		ApplyURL:     r.RedirectURL,
	}
}

func (c *Client) getJSON(ctx context.Context, rawURL string, q url.Values, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}

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
