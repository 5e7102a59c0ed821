package interview

import "context"

// StartResult is the provider's response to a new session request.
type StartResult struct {
	SessionID string
	Question  string
}

// Feedback is the terminal assessment of a completed session. Score is an
// opaque label like "9/10", never parsed as a number.
type Feedback struct {
	Strengths  string
	Weaknesses string
	Score      string
	Tips       string
	Resources  string
}

// QuestionProvider is the external service boundary supplying questions
// and feedback. NextQuestion returns an empty string once rounds are
// exhausted.
type QuestionProvider interface {
	Start(ctx context.Context, companyType CompanyType) (*StartResult, error)
	NextQuestion(ctx context.Context, sessionID string, completedRound int) (string, error)
	Feedback(ctx context.Context, sessionID string) (*Feedback, error)
}
