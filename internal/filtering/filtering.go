package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/skillmatch/skillmatch/internal/jobs"
)

// Filter represents a single filtering step applied to scored postings.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate(cfg *Config) error
	Apply(ctx context.Context, deps Deps, j *jobs.Jobs) (*jobs.Jobs, Step, error)
}

// Deps aggregates dependencies shared across all filtering steps.
type Deps struct {
	Logger *zap.Logger
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Config contains configuration settings consumed by the filters.
type Config struct {
	MinScore      int
	MaxAgeDays    int
	Companies     []string
	DismissedFile string
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

// statusProvider is implemented by filters that can supply detailed status information.
type statusProvider interface {
	Status() Status
}

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
func DisableByName(steps []Filter, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Run executes the supplied filters sequentially, returning the postings that survived.
func Run(ctx context.Context, cfg *Config, deps Deps, steps []Filter, j *jobs.Jobs) (*jobs.Jobs, error) {
	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			if deps.Logger != nil {
				deps.Logger.Info("filter disabled", zap.String("name", step.Name()))
			}
			continue
		}

		next, info, err := step.Apply(ctx, deps, j)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		if deps.Logger != nil {
			deps.Logger.Info("filter step",
				zap.String("name", step.Name()),
				zap.Int("initial", info.Initial),
				zap.Int("dropped", info.Dropped),
				zap.Int("left", info.Left),
			)
		}

		j = next
	}

	return j, nil
}

// Describe returns status entries for the provided filters.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}
