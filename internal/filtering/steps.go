package filtering

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/skillmatch/skillmatch/internal/jobs"
)

type disableState struct {
	disabled bool
	reason   string
}

func (d *disableState) Disable(reason string) {
	d.disabled = true
	d.reason = reason
}

func (d *disableState) IsEnabled() bool { return !d.disabled }

type minScoreFilter struct {
	disableState
	minScore int
}

// NewMinScore creates a filter that removes postings under the configured match score.
func NewMinScore() Filter {
	return &minScoreFilter{}
}

func (f *minScoreFilter) Name() string { return "min_score" }

func (f *minScoreFilter) Validate(cfg *Config) error {
	f.minScore = 0
	if cfg != nil {
		if cfg.MinScore < 0 || cfg.MinScore > 100 {
			return fmt.Errorf("min score must be within [0,100], got %d", cfg.MinScore)
		}
		f.minScore = cfg.MinScore
	}
	return nil
}

func (f *minScoreFilter) Apply(_ context.Context, deps Deps, j *jobs.Jobs) (*jobs.Jobs, Step, error) {
	initial := j.Len()
	if f.minScore == 0 {
		return j, Step{Initial: initial, Dropped: 0, Left: j.Len()}, nil
	}

	kept := make([]*jobs.Posting, 0, initial)
	var excluded []string
	for _, posting := range j.Items {
		if posting.MatchScore < f.minScore {
			excluded = append(excluded, posting.ID)
			continue
		}
		kept = append(kept, posting)
	}
	j.Items = kept

	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Info("excluding postings under minimum match score",
			zap.Int("min_score", f.minScore),
			zap.Strings("excluded_postings", excluded),
			zap.Int("postings_left", j.Len()),
		)
	}

	return j, Step{Initial: initial, Dropped: len(excluded), Left: j.Len()}, nil
}

func (f *minScoreFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: map[string]string{
		"min_score": strconv.Itoa(f.minScore),
	}}
}

type staleFilter struct {
	disableState
	maxAgeDays int
	now        func() time.Time
}

// NewStale creates a filter that removes postings older than the configured age.
func NewStale() Filter {
	return &staleFilter{now: time.Now}
}

func (f *staleFilter) Name() string { return "stale" }

func (f *staleFilter) Validate(cfg *Config) error {
	f.maxAgeDays = 0
	if cfg != nil {
		if cfg.MaxAgeDays < 0 {
			return fmt.Errorf("max age days must not be negative, got %d", cfg.MaxAgeDays)
		}
		f.maxAgeDays = cfg.MaxAgeDays
	}
	return nil
}

func (f *staleFilter) Apply(_ context.Context, deps Deps, j *jobs.Jobs) (*jobs.Jobs, Step, error) {
	initial := j.Len()
	if f.maxAgeDays == 0 {
		return j, Step{Initial: initial, Dropped: 0, Left: j.Len()}, nil
	}

	cutoff := f.now().AddDate(0, 0, -f.maxAgeDays)
	kept := make([]*jobs.Posting, 0, initial)
	var excluded []string
	for _, posting := range j.Items {
		// Postings without a timestamp are kept; staleness is unknown.
		if !posting.CreatedAt.IsZero() && posting.CreatedAt.Before(cutoff) {
			excluded = append(excluded, posting.ID)
			continue
		}
		kept = append(kept, posting)
	}
	j.Items = kept

	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Info("excluding stale postings",
			zap.Int("max_age_days", f.maxAgeDays),
			zap.Strings("excluded_postings", excluded),
			zap.Int("postings_left", j.Len()),
		)
	}

	return j, Step{Initial: initial, Dropped: len(excluded), Left: j.Len()}, nil
}

func (f *staleFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: map[string]string{
		"max_age_days": strconv.Itoa(f.maxAgeDays),
	}}
}

type companiesFilter struct {
	disableState
	companies []string
}

// NewCompanies creates a filter that removes postings from companies configured in the config.
func NewCompanies() Filter {
	return &companiesFilter{}
}

func (f *companiesFilter) Name() string { return "companies" }

func (f *companiesFilter) Validate(cfg *Config) error {
	f.companies = nil
	if cfg != nil {
		f.companies = append(f.companies, cfg.Companies...)
	}
	return nil
}

func (f *companiesFilter) Apply(_ context.Context, deps Deps, j *jobs.Jobs) (*jobs.Jobs, Step, error) {
	initial := j.Len()
	if len(f.companies) == 0 {
		return j, Step{Initial: initial, Dropped: 0, Left: j.Len()}, nil
	}

	excluded := j.Exclude(jobs.PostingCompanyField, f.companies)
	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Info("excluding postings by company",
			zap.Strings("excluded_companies", f.companies),
			zap.Strings("excluded_postings", excluded),
			zap.Int("postings_left", j.Len()),
		)
	}

	return j, Step{Initial: initial, Dropped: len(excluded), Left: j.Len()}, nil
}

func (f *companiesFilter) Status() Status {
	details := map[string]string{}
	if len(f.companies) > 0 {
		details["companies"] = strings.Join(f.companies, ",")
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}

type dismissedFileFilter struct {
	disableState
	path string
}

// NewDismissedFile creates a filter that removes postings recorded in the dismissed-jobs file.
func NewDismissedFile() Filter {
	return &dismissedFileFilter{}
}

func (f *dismissedFileFilter) Name() string { return "dismissed_file" }

func (f *dismissedFileFilter) Validate(cfg *Config) error {
	f.path = ""
	if cfg != nil {
		f.path = strings.TrimSpace(cfg.DismissedFile)
	}
	return nil
}

func (f *dismissedFileFilter) Apply(_ context.Context, deps Deps, j *jobs.Jobs) (*jobs.Jobs, Step, error) {
	initial := j.Len()
	if f.path == "" {
		return j, Step{Initial: initial, Dropped: 0, Left: j.Len()}, nil
	}

	dismissed, err := jobs.GetDismissedJobsFromFile(f.path)
	if err != nil {
		return j, Step{}, fmt.Errorf("getting dismissed jobs from file: %w", err)
	}

	removed := j.Exclude(jobs.PostingIDField, dismissed.IDs())
	if deps.Logger != nil && len(removed) > 0 {
		deps.Logger.Info("excluding postings based on dismissed file",
			zap.String("path", f.path),
			zap.Strings("excluded_postings", removed),
			zap.Int("postings_left", j.Len()),
		)
	}

	return j, Step{Initial: initial, Dropped: len(removed), Left: j.Len()}, nil
}

func (f *dismissedFileFilter) Status() Status {
	details := map[string]string{}
	if f.path != "" {
		details["path"] = f.path
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
