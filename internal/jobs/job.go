package jobs

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"
)

const (
	PostingIDField      = "ID"
	PostingCompanyField = "Company"
)

// Jobs is a mutable collection of postings returned by a search.
type Jobs struct {
	Items []*Posting
}

// Posting is a single job listing normalized from whichever provider
// returned it. Salary values are currency-agnostic; zero means the
// posting does not expose that bound.
type Posting struct {
	ID           string    `json:"id,omitempty"`
	Title        string    `json:"title,omitempty"`
	Company      string    `json:"company,omitempty"`
	Location     string    `json:"location,omitempty"`
	Description  string    `json:"description,omitempty"`
	SalaryMin    float64   `json:"salary_min,omitempty"`
	SalaryMax    float64   `json:"salary_max,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
	ContractType string    `json:"contract_type,omitempty"`
	ApplyURL     string    `json:"apply_url,omitempty"`

	// MatchScore is recomputed on every search, never persisted.
	MatchScore int `json:"match_score,omitempty"`
}

func (j *Jobs) Len() int {
	return len(j.Items)
}

func (j *Jobs) FindByID(id string) *Posting {
	for _, posting := range j.Items {
		if posting.ID == id {
			return posting
		}
	}
	return nil
}

// SortByScore orders postings by match score, best first. Stable so that
// provider order breaks ties.
func (j *Jobs) SortByScore() {
	sort.SliceStable(j.Items, func(a, b int) bool {
		return j.Items[a].MatchScore > j.Items[b].MatchScore
	})
}

func (p *Posting) GetStringField(name string) string {
	switch name {
	case PostingIDField:
		return p.ID
	case PostingCompanyField:
		return p.Company
	default:
		return ""
	}
}

// Exclude removes postings whose named field matches one of the targets.
func (j *Jobs) Exclude(name string, targets []string) []string {
	var excluded []string
	for _, target := range targets {
		for idx, posting := range j.Items {
			if posting.GetStringField(name) == target {
				j.RemoveByIndex(idx)
				excluded = append(excluded, posting.ID)
				break
			}
		}
	}
	return excluded
}

// RemoveByIndex removes a posting from the list by index, keeping the
// remaining postings in order. The list is score-sorted once per search
// and later removals must not undo that.
func (j *Jobs) RemoveByIndex(idx int) {
	j.Items = append(j.Items[:idx], j.Items[idx+1:]...)
}

// ReportByCompany groups postings under their company name for reporting.
func (j *Jobs) ReportByCompany() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, posting := range j.Items {
		report[posting.Company] = append(report[posting.Company], map[string]string{
			"title":     posting.Title,
			"location":  posting.Location,
			"salary":    fmt.Sprintf("%.0f-%.0f", posting.SalaryMin, posting.SalaryMax),
			"score":     fmt.Sprintf("%d", posting.MatchScore),
			"apply_url": posting.ApplyURL,
		})
	}
	return report
}

func (j *Jobs) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "jobs_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(j); err != nil {
		return "", err
	}
	return file.Name(), nil
}
