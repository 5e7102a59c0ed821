// Package matching computes a deterministic 0-100 compatibility score
// between a candidate profile and a job posting.
//
// The score is a weighted additive heuristic:
//
//	skill overlap   0-40
//	title alignment 0-30 (full phrase beats single word)
//	location        0-15
//	salary presence 0-10
//	recency         0-5
package matching

import (
	"math"
	"strings"
	"time"

	"github.com/skillmatch/skillmatch/internal/jobs"
	"github.com/skillmatch/skillmatch/internal/profile"
)

const (
	// DefaultScore is returned for incomplete profiles where partial
	// scoring would be meaningless.
	DefaultScore = 50

	MaxScore = 100

	skillWeight       = 40.0
	titlePhraseBonus  = 30.0
	titleWordBonus    = 15.0
	locationBonus     = 15.0
	salaryBonus       = 10.0
	recencyWeekBonus  = 5.0
	recencyMonthBonus = 3.0
)

// Score rates how well a posting fits the candidate. Pure and
// deterministic for a fixed now; now only feeds the recency bucket.
// Malformed optional fields degrade to "no bonus", never error.
func Score(job *jobs.Posting, p *profile.CandidateProfile, now time.Time) int {
	skills := p.SkillList()
	targetRole := strings.ToLower(strings.TrimSpace(p.TargetRole))

	if len(skills) == 0 || targetRole == "" {
		return DefaultScore
	}

	title := strings.ToLower(job.Title)
	description := strings.ToLower(job.Description)

	score := skillOverlap(skills, title, description)
	score += titleAlignment(targetRole, title)
	score += locationAlignment(job, p)
	score += salaryPresence(job)
	score += recency(job, now)

	rounded := int(math.Round(score))
	if rounded > MaxScore {
		return MaxScore
	}
	if rounded < 0 {
		return 0
	}
	return rounded
}

// skillOverlap scores the fraction of candidate skills that appear as a
// substring of the job description or title.
func skillOverlap(skills []string, title, description string) float64 {
	matched := 0
	for _, skill := range skills {
		if strings.Contains(description, skill) || strings.Contains(title, skill) {
			matched++
		}
	}
	return float64(matched) / float64(len(skills)) * skillWeight
}

// titleAlignment prefers a full target-role phrase match over any single
// word hit; the two bonuses are mutually exclusive.
func titleAlignment(targetRole, title string) float64 {
	if strings.Contains(title, targetRole) {
		return titlePhraseBonus
	}
	for _, word := range strings.Fields(targetRole) {
		if strings.Contains(title, word) {
			return titleWordBonus
		}
	}
	return 0
}

func locationAlignment(job *jobs.Posting, p *profile.CandidateProfile) float64 {
	jobLocation := strings.ToLower(job.Location)
	userLocation := strings.ToLower(strings.TrimSpace(p.CurrentLocation))

	if strings.Contains(jobLocation, userLocation) || p.MatchesAnywhere() {
		return locationBonus
	}
	return 0
}

// salaryPresence rewards compensation transparency only; magnitude is not
// scored.
func salaryPresence(job *jobs.Posting) float64 {
	if job.SalaryMin > 0 || job.SalaryMax > 0 {
		return salaryBonus
	}
	return 0
}

func recency(job *jobs.Posting, now time.Time) float64 {
	if job.CreatedAt.IsZero() {
		return 0
	}

	days := now.Sub(job.CreatedAt).Hours() / 24
	switch {
	case days <= 7:
		return recencyWeekBonus
	case days <= 30:
		return recencyMonthBonus
	default:
		return 0
	}
}

// ScoreAll recomputes the match score of every posting in place.
func ScoreAll(j *jobs.Jobs, p *profile.CandidateProfile, now time.Time) {
	for _, posting := range j.Items {
		posting.MatchScore = Score(posting, p, now)
	}
}
