package interview

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// State of a session. A session is a state machine:
//
//	NotStarted ──► InProgress(round 0..3) ──► Complete
//
// Start always restarts from scratch; there is no resume.
type State string

const (
	StateNotStarted State = "NOT_STARTED"
	StateInProgress State = "IN_PROGRESS"
	StateComplete   State = "COMPLETE"
)

const (
	// RoundSeconds is the answer budget, reset on every round entry.
	RoundSeconds = 120

	// Sentinel answers recorded in place of user text.
	AnswerFlagged = "[FLAGGED]"
	AnswerSkipped = "[SKIPPED]"
)

// HistoryEntry records one completed round. Round is 1-based.
type HistoryEntry struct {
	Round    int
	Question string
	Answer   string
}

// Session coordinates one mock interview. All operations are atomic
// transitions guarded by a mutex, so a duplicate concurrent submission
// collapses into a no-op instead of a double history entry.
type Session struct {
	mu       sync.Mutex
	provider QuestionProvider
	logger   *zap.Logger

	state       State
	id          string
	companyType CompanyType
	roundIdx    int
	question    string
	draft       string
	history     []HistoryEntry
	remaining   int
	feedback    *Feedback

	// epoch is bumped on every round entry and on reset. A countdown
	// started for round N checks it and never mutates round N+1.
	epoch uint64
}

func NewSession(provider QuestionProvider, logger *zap.Logger) *Session {
	return &Session{
		provider: provider,
		logger:   logger,
		state:    StateNotStarted,
	}
}

// Start begins a new session, discarding any prior state. On provider
// failure the session stays NotStarted and Start may be retried.
func (s *Session) Start(ctx context.Context, companyType CompanyType) error {
	if _, err := ParseCompanyType(string(companyType)); err != nil {
		return &SessionStartError{Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetLocked()

	res, err := s.provider.Start(ctx, companyType)
	if err != nil {
		return &SessionStartError{Err: err}
	}

	id := strings.TrimSpace(res.SessionID)
	if id == "" {
		id = uuid.NewString()
	}

	s.state = StateInProgress
	s.id = id
	s.companyType = companyType
	s.question = res.Question
	s.remaining = RoundSeconds
	s.epoch++

	s.logger.Info("interview started",
		zap.String("session_id", s.id),
		zap.String("company_type", string(companyType)),
	)

	return nil
}

// SubmitAnswer records the answer for the current round and advances.
// Empty answers are rejected with ValidationError and no state change.
func (s *Session) SubmitAnswer(ctx context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitLocked(ctx, text, false)
}

// Flag records the current round as flagged for later review and
// advances like a normal submission.
func (s *Session) Flag(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitLocked(ctx, AnswerFlagged, true)
}

// Skip records the current round as skipped and advances.
func (s *Session) Skip(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitLocked(ctx, AnswerSkipped, true)
}

func (s *Session) submitLocked(ctx context.Context, answer string, sentinel bool) error {
	if s.state != StateInProgress {
		return nil
	}

	if !sentinel && strings.TrimSpace(answer) == "" {
		return &ValidationError{Reason: "answer must not be empty; flag or skip instead"}
	}

	// The answer is recorded before the next-question fetch so a
	// provider failure cannot lose it.
	completed := s.roundIdx + 1
	s.history = append(s.history, HistoryEntry{
		Round:    completed,
		Question: s.question,
		Answer:   answer,
	})
	s.draft = ""
	s.epoch++

	if completed >= TotalRounds {
		s.state = StateComplete
		s.roundIdx = TotalRounds
		s.question = ""
		s.remaining = 0
		s.logger.Info("interview complete", zap.String("session_id", s.id))
		return nil
	}

	s.roundIdx++
	s.remaining = RoundSeconds
	s.question = ""

	next, err := s.provider.NextQuestion(ctx, s.id, completed)
	if err != nil {
		s.logger.Warn("fetching next question failed",
			zap.String("session_id", s.id),
			zap.Int("round", s.roundIdx+1),
			zap.Error(err),
		)
		return &ProviderError{Op: "fetch next question", Err: err}
	}
	s.question = next

	return nil
}

// RetryQuestion re-requests the current round's question after a provider
// failure. A no-op when the question is already present.
func (s *Session) RetryQuestion(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateInProgress || s.question != "" {
		return nil
	}

	next, err := s.provider.NextQuestion(ctx, s.id, s.roundIdx)
	if err != nil {
		return &ProviderError{Op: "fetch next question", Err: err}
	}
	s.question = next

	return nil
}

// Tick decrements the round countdown by one second. Hitting zero
// auto-advances the round, recorded identically to a manual skip. A
// no-op once Complete.
func (s *Session) Tick(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tickLocked(ctx)
}

func (s *Session) tickLocked(ctx context.Context) error {
	if s.state != StateInProgress {
		return nil
	}

	if s.remaining > 0 {
		s.remaining--
	}

	if s.remaining == 0 {
		return s.submitLocked(ctx, AnswerSkipped, true)
	}

	return nil
}

// StartCountdown drives Tick once per second on behalf of the round that
// is current when it is called. The returned stop func cancels it; it
// also stops by itself as soon as that round ends, so a late fire can
// never touch a later round.
func (s *Session) StartCountdown(ctx context.Context) (stop func()) {
	s.mu.Lock()
	epoch := s.epoch
	s.mu.Unlock()

	done := make(chan struct{})
	var once sync.Once
	stop = func() { once.Do(func() { close(done) }) }

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case <-ticker.C:
				if stale := s.tickForEpoch(ctx, epoch); stale {
					return
				}
			}
		}
	}()

	return stop
}

// tickForEpoch ticks only while the session is still in the round the
// countdown was started for. Reports whether the countdown went stale.
func (s *Session) tickForEpoch(ctx context.Context, epoch uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if epoch != s.epoch {
		return true
	}

	if err := s.tickLocked(ctx); err != nil {
		s.logger.Warn("timeout auto-skip failed to fetch next question", zap.Error(err))
	}

	return epoch != s.epoch
}

// GetFeedback returns the terminal feedback, fetching it from the
// provider exactly once. Valid only once Complete. Fetch failures are
// retryable and never cached.
func (s *Session) GetFeedback(ctx context.Context) (*Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateComplete {
		return nil, &ValidationError{Reason: "interview is not complete yet"}
	}

	if s.feedback != nil {
		return s.feedback, nil
	}

	feedback, err := s.provider.Feedback(ctx, s.id)
	if err != nil {
		return nil, &ProviderError{Op: "fetch feedback", Err: err}
	}
	s.feedback = feedback

	return feedback, nil
}

// SetDraft stores the in-progress answer text.
func (s *Session) SetDraft(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateInProgress {
		return
	}
	s.draft = text
}

func (s *Session) Draft() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

func (s *Session) CompanyType() CompanyType {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.companyType
}

// RoundIndex is 0-based while InProgress and TotalRounds once Complete.
func (s *Session) RoundIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roundIdx
}

// CurrentRound is only meaningful while InProgress.
func (s *Session) CurrentRound() Round {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Round(s.roundIdx)
}

func (s *Session) Question() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.question
}

func (s *Session) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remaining
}

func (s *Session) Terminal() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateComplete
}

// History returns a copy of the completed rounds in completion order.
func (s *Session) History() []HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := make([]HistoryEntry, len(s.history))
	copy(history, s.history)
	return history
}

func (s *Session) resetLocked() {
	s.state = StateNotStarted
	s.id = ""
	s.companyType = ""
	s.roundIdx = 0
	s.question = ""
	s.draft = ""
	s.history = nil
	s.remaining = 0
	s.feedback = nil
	s.epoch++
}
