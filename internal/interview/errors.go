package interview

import "fmt"

// ValidationError reports invalid user input. The session state is
// unchanged; the caller should re-prompt.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// ProviderError reports a question/feedback provider failure. The session
// stays in a valid state at its current round and the same fetch may be
// retried.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *ProviderError) Unwrap() error { return e.Err }

// SessionStartError is fatal to a single start attempt only; the session
// stays NotStarted and may be started again.
type SessionStartError struct {
	Err error
}

func (e *SessionStartError) Error() string { return fmt.Sprintf("start interview: %v", e.Err) }

func (e *SessionStartError) Unwrap() error { return e.Err }
