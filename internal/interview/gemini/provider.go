// Package gemini implements a QuestionProvider that generates interview
// questions and feedback with the Gemini API instead of the product
// backend.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	_ "embed"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/skillmatch/skillmatch/internal/interview"
	"github.com/skillmatch/skillmatch/internal/logger"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

//go:embed question_prompt.md
var questionPrompt string

//go:embed feedback_prompt.md
var feedbackPrompt string

const defaultMaxLogLength = 200

// Provider keeps per-session state (company type, asked questions) so it
// can tailor later rounds and the final feedback. Sessions live only in
// memory; ids are generated locally.
type Provider struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int

	mu       sync.Mutex
	sessions map[string]*sessionState
}

type sessionState struct {
	companyType interview.CompanyType
	questions   []string
}

func NewProvider(generator contentGenerator, maxLogLength int, log *zap.Logger) *Provider {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Provider{
		generator: generator,
		logger:    log,
		maxLogLen: maxLogLength,
		sessions:  make(map[string]*sessionState),
	}
}

func (p *Provider) Start(ctx context.Context, companyType interview.CompanyType) (*interview.StartResult, error) {
	state := &sessionState{companyType: companyType}

	question, err := p.generateQuestion(ctx, state, interview.RoundCoding)
	if err != nil {
		return nil, err
	}
	state.questions = append(state.questions, question)

	id := uuid.NewString()

	p.mu.Lock()
	p.sessions[id] = state
	p.mu.Unlock()

	return &interview.StartResult{SessionID: id, Question: question}, nil
}

func (p *Provider) NextQuestion(ctx context.Context, sessionID string, completedRound int) (string, error) {
	if completedRound >= interview.TotalRounds {
		return "", nil
	}

	p.mu.Lock()
	state, ok := p.sessions[sessionID]
	p.mu.Unlock()
	if !ok {
		return "", fmt.Errorf("unknown session %q", sessionID)
	}

	question, err := p.generateQuestion(ctx, state, interview.Round(completedRound))
	if err != nil {
		return "", err
	}

	p.mu.Lock()
	state.questions = append(state.questions, question)
	p.mu.Unlock()

	return question, nil
}

func (p *Provider) Feedback(ctx context.Context, sessionID string) (*interview.Feedback, error) {
	p.mu.Lock()
	state, ok := p.sessions[sessionID]
	p.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("unknown session %q", sessionID)
	}

	var asked strings.Builder
	for i, question := range state.questions {
		fmt.Fprintf(&asked, "- Round %d (%s): %s\n", i+1, interview.Round(i).Label(), question)
	}

	prompt := strings.ReplaceAll(feedbackPrompt, "{{COMPANY_TYPE}}", state.companyType.Label())
	prompt = strings.ReplaceAll(prompt, "{{QUESTIONS}}", strings.TrimSpace(asked.String()))

	raw, err := p.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	data, err := parseJSONResponse(raw)
	if err != nil {
		return nil, err
	}

	return &interview.Feedback{
		Strengths:  coerceString(data["strengths"]),
		Weaknesses: coerceString(data["weaknesses"]),
		Score:      coerceString(data["score"]),
		Tips:       coerceString(data["tips"]),
		Resources:  coerceString(data["resources"]),
	}, nil
}

// generateQuestion produces the question for the round entered after
// completedRound rounds are done.
func (p *Provider) generateQuestion(ctx context.Context, state *sessionState, round interview.Round) (string, error) {
	previous := "none"
	if len(state.questions) > 0 {
		var sb strings.Builder
		for _, q := range state.questions {
			fmt.Fprintf(&sb, "- %s\n", q)
		}
		previous = strings.TrimSpace(sb.String())
	}

	prompt := strings.ReplaceAll(questionPrompt, "{{COMPANY_TYPE}}", state.companyType.Label())
	prompt = strings.ReplaceAll(prompt, "{{ROUND_NUMBER}}", strconv.Itoa(round.Number()))
	prompt = strings.ReplaceAll(prompt, "{{TOTAL_ROUNDS}}", strconv.Itoa(interview.TotalRounds))
	prompt = strings.ReplaceAll(prompt, "{{ROUND_LABEL}}", round.Label())
	prompt = strings.ReplaceAll(prompt, "{{PREVIOUS_QUESTIONS}}", previous)

	raw, err := p.generate(ctx, prompt)
	if err != nil {
		return "", err
	}

	data, err := parseJSONResponse(raw)
	if err != nil {
		return "", err
	}

	question := coerceString(data["question"])
	if question == "" {
		return "", fmt.Errorf("gemini returned no question")
	}

	return question, nil
}

func (p *Provider) generate(ctx context.Context, prompt string) (string, error) {
	p.logger.Debug("gemini generate content request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, p.maxLogLen)),
	)

	raw, err := p.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return "", err
	}

	p.logger.Debug("gemini generate content response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, p.maxLogLen)),
	)

	return raw, nil
}

func parseJSONResponse(raw string) (map[string]any, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	return data, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}
