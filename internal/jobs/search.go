package jobs

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Query carries the free-text search input shared by every provider.
type Query struct {
	Title    string
	Location string
}

// Provider is a single job-listing backend. An empty result set is a
// failure for fallback purposes, so implementations return an error when
// nothing was found.
type Provider interface {
	Name() string
	Search(ctx context.Context, q Query) (*Jobs, error)
}

// AggregateFailure is returned when every configured provider failed. It
// is a single user-facing "try a different search" condition, not any
// provider's raw error.
type AggregateFailure struct {
	Errs []error
}

func (e *AggregateFailure) Error() string {
	reasons := make([]string, 0, len(e.Errs))
	for _, err := range e.Errs {
		reasons = append(reasons, err.Error())
	}
	return fmt.Sprintf("unable to fetch jobs, try a different search: %s", strings.Join(reasons, "; "))
}

// Searcher tries providers in order and returns the first non-empty
// result set.
type Searcher struct {
	providers []Provider
	logger    *zap.Logger
}

func NewSearcher(providers []Provider, logger *zap.Logger) *Searcher {
	return &Searcher{providers: providers, logger: logger}
}

func (s *Searcher) Search(ctx context.Context, q Query) (*Jobs, error) {
	var failures []error

	for _, provider := range s.providers {
		found, err := provider.Search(ctx, q)
		if err != nil {
			s.logger.Warn("job provider failed, trying next",
				zap.String("provider", provider.Name()),
				zap.Error(err),
			)
			failures = append(failures, fmt.Errorf("%s: %w", provider.Name(), err))
			continue
		}

		if found.Len() == 0 {
			s.logger.Warn("job provider returned no results, trying next",
				zap.String("provider", provider.Name()),
			)
			failures = append(failures, fmt.Errorf("%s: no jobs found", provider.Name()))
			continue
		}

		s.logger.Info("got jobs from provider",
			zap.String("provider", provider.Name()),
			zap.Int("count", found.Len()),
		)
		return found, nil
	}

	return nil, &AggregateFailure{Errs: failures}
}
