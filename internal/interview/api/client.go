// Package api implements the QuestionProvider backed by the product's
// mock-interview HTTP backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/skillmatch/skillmatch/internal/interview"
)

const (
	startPath    = "/mock/start"
	answerPath   = "/mock/answer"
	feedbackPath = "/mock/feedback"

	contentType = "application/json"
)

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
			Timeout: 10 * time.Second,
		},
	}
}

type questionPayload struct {
	Question string `json:"question"`
}

type startResponse struct {
	SessionID   string          `json:"session_id"`
	Question    questionPayload `json:"question"`
	TotalRounds int             `json:"total_rounds"`
}

type answerResponse struct {
	Question *questionPayload `json:"question"`
}

type feedbackResponse struct {
	Strengths  string `json:"strengths"`
	Weaknesses string `json:"weaknesses"`
	Score      string `json:"score"`
	Tips       string `json:"tips"`
	Resources  string `json:"resources"`
}

func (c *Client) Start(ctx context.Context, companyType interview.CompanyType) (*interview.StartResult, error) {
	body := map[string]any{"company_type": string(companyType)}

	var response startResponse
	if err := c.postJSON(ctx, c.baseURL+startPath, body, &response); err != nil {
		return nil, err
	}

	return &interview.StartResult{
		SessionID: response.SessionID,
		Question:  response.Question.Question,
	}, nil
}

func (c *Client) NextQuestion(ctx context.Context, sessionID string, completedRound int) (string, error) {
	body := map[string]any{
		"session_id":   sessionID,
		"round_number": completedRound,
	}

	var response answerResponse
	if err := c.postJSON(ctx, c.baseURL+answerPath, body, &response); err != nil {
		return "", err
	}

	// Absent question means rounds are exhausted.
	if response.Question == nil {
		return "", nil
	}

	return response.Question.Question, nil
}

func (c *Client) Feedback(ctx context.Context, sessionID string) (*interview.Feedback, error) {
	q := url.Values{}
	q.Set("session_id", sessionID)

	var response feedbackResponse
	if err := c.getJSON(ctx, c.baseURL+feedbackPath, q, &response); err != nil {
		return nil, err
	}

	return &interview.Feedback{
		Strengths:  response.Strengths,
		Weaknesses: response.Weaknesses,
		Score:      response.Score,
		Tips:       response.Tips,
		Resources:  response.Resources,
	}, nil
}

func (c *Client) postJSON(ctx context.Context, rawURL string, body, target any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}

	c.setHeaders(req)
	req.Header.Set("Content-Type", contentType)

	return c.do(req, target)
}

func (c *Client) getJSON(ctx context.Context, rawURL string, q url.Values, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}

	c.setHeaders(req)
	req.URL.RawQuery = q.Encode()

	return c.do(req, target)
}

func (c *Client) do(req *http.Request, target any) error {
	c.logger.Debug("make request", zap.String("url", req.URL.String()))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	if target == nil {
		return nil
	}

	return json.Unmarshal(data, target)
}

func (c *Client) setHeaders(req *http.Request) {
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	req.Header.Set("Accept", contentType)
}
