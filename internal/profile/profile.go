package profile

import (
	"fmt"
	"strings"
)

// LocationAnywhere is the sentinel location meaning "nationwide, always
// match". It survives from the product's India-focused job search.
const LocationAnywhere = "india"

// CandidateProfile is an immutable snapshot of the candidate data used for
// scoring and searching. Skills is a comma-separated free-text list.
type CandidateProfile struct {
	Skills          string `mapstructure:"skills" yaml:"skills"`
	TargetRole      string `mapstructure:"target-role" yaml:"target-role"`
	CurrentLocation string `mapstructure:"location" yaml:"location"`
}

// SkillList splits the comma-separated skills string into trimmed,
// lowercased entries. Empty entries are dropped.
func (p *CandidateProfile) SkillList() []string {
	skills := make([]string, 0)
	for _, s := range strings.Split(p.Skills, ",") {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		skills = append(skills, s)
	}
	return skills
}

// MatchesAnywhere reports whether the candidate location is the sentinel
// that matches every job location.
func (p *CandidateProfile) MatchesAnywhere() bool {
	return strings.EqualFold(strings.TrimSpace(p.CurrentLocation), LocationAnywhere)
}

// Validate ensures the profile is complete enough to search and score jobs.
func (p *CandidateProfile) Validate() error {
	if p == nil {
		return fmt.Errorf("profile is required")
	}
	if strings.TrimSpace(p.TargetRole) == "" {
		return fmt.Errorf("profile target role is required")
	}
	if strings.TrimSpace(p.CurrentLocation) == "" {
		return fmt.Errorf("profile location is required")
	}
	return nil
}
