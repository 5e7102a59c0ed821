package matching

import (
	"testing"
	"time"

	"github.com/skillmatch/skillmatch/internal/jobs"
	"github.com/skillmatch/skillmatch/internal/profile"
)

var now = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

func TestScoreDefaultForIncompleteProfile(t *testing.T) {
	job := &jobs.Posting{Title: "Software Engineer", Description: "go, sql"}

	cases := []struct {
		name    string
		profile *profile.CandidateProfile
	}{
		{"no skills", &profile.CandidateProfile{TargetRole: "software engineer"}},
		{"blank skills", &profile.CandidateProfile{Skills: " , ,", TargetRole: "software engineer"}},
		{"no target role", &profile.CandidateProfile{Skills: "go,sql"}},
		{"blank target role", &profile.CandidateProfile{Skills: "go,sql", TargetRole: "   "}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Score(job, tc.profile, now); got != DefaultScore {
				t.Fatalf("expected default score %d, got %d", DefaultScore, got)
			}
		})
	}
}

func TestScoreWeights(t *testing.T) {
	cases := []struct {
		name    string
		job     *jobs.Posting
		profile *profile.CandidateProfile
		want    int
	}{
		{
			name: "all components hit gives the maximum",
			job: &jobs.Posting{
				Title:       "Senior Software Engineer (Go)",
				Description: "go and sql required",
				Location:    "Bengaluru",
				SalaryMin:   1200000,
				CreatedAt:   now.Add(-24 * time.Hour),
			},
			profile: &profile.CandidateProfile{
				Skills:          "go,sql",
				TargetRole:      "Software Engineer",
				CurrentLocation: "Bengaluru",
			},
			want: 100,
		},
		{
			name: "partial skills with full phrase title match",
			job: &jobs.Posting{
				Title:       "Senior Software Engineer",
				Description: "we use react and node daily",
				Location:    "Bengaluru, India",
				SalaryMin:   1000000,
				CreatedAt:   now,
			},
			profile: &profile.CandidateProfile{
				Skills:          "react,node,sql",
				TargetRole:      "software engineer",
				CurrentLocation: "India",
			},
			// 2/3 of 40 + 30 + 15 + 10 + 5, rounded up.
			want: 87,
		},
		{
			name: "single title word is worth half the phrase bonus",
			job: &jobs.Posting{
				Title:    "Platform Engineer",
				Location: "Remote",
			},
			profile: &profile.CandidateProfile{
				Skills:          "cobol",
				TargetRole:      "software engineer",
				CurrentLocation: "Pune",
			},
			want: 15,
		},
		{
			name: "nothing matches",
			job: &jobs.Posting{
				Title:    "Accountant",
				Location: "Delhi",
			},
			profile: &profile.CandidateProfile{
				Skills:          "go",
				TargetRole:      "data scientist",
				CurrentLocation: "Pune",
			},
			want: 0,
		},
		{
			name: "sentinel location matches any job location",
			job: &jobs.Posting{
				Title:    "Accountant",
				Location: "Remote, USA",
			},
			profile: &profile.CandidateProfile{
				Skills:          "go",
				TargetRole:      "data scientist",
				CurrentLocation: "India",
			},
			want: 15,
		},
		{
			name: "empty candidate location matches everything",
			job: &jobs.Posting{
				Title:    "Accountant",
				Location: "Delhi",
			},
			profile: &profile.CandidateProfile{
				Skills:     "go",
				TargetRole: "data scientist",
			},
			want: 15,
		},
		{
			name: "salary presence needs either bound",
			job: &jobs.Posting{
				Title:     "Accountant",
				Location:  "Delhi",
				SalaryMax: 500000,
			},
			profile: &profile.CandidateProfile{
				Skills:          "go",
				TargetRole:      "data scientist",
				CurrentLocation: "Pune",
			},
			want: 10,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Score(tc.job, tc.profile, now); got != tc.want {
				t.Fatalf("expected score %d, got %d", tc.want, got)
			}
		})
	}
}

func TestScoreRecencyBuckets(t *testing.T) {
	p := &profile.CandidateProfile{
		Skills:          "go",
		TargetRole:      "data scientist",
		CurrentLocation: "Pune",
	}

	cases := []struct {
		name      string
		createdAt time.Time
		want      int
	}{
		{"posted today", now, 5},
		{"six days old", now.Add(-6 * 24 * time.Hour), 5},
		{"twenty days old", now.Add(-20 * 24 * time.Hour), 3},
		{"forty days old", now.Add(-40 * 24 * time.Hour), 0},
		{"no timestamp", time.Time{}, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			job := &jobs.Posting{Title: "Accountant", Location: "Delhi", CreatedAt: tc.createdAt}
			if got := Score(job, p, now); got != tc.want {
				t.Fatalf("expected score %d, got %d", tc.want, got)
			}
		})
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	job := &jobs.Posting{
		Title:       "Senior Software Engineer",
		Description: "we use react and node daily",
		Location:    "Bengaluru, India",
		SalaryMin:   1000000,
		CreatedAt:   now,
	}
	p := &profile.CandidateProfile{
		Skills:          "react,node,sql",
		TargetRole:      "software engineer",
		CurrentLocation: "India",
	}

	first := Score(job, p, now)
	for i := 0; i < 10; i++ {
		if got := Score(job, p, now); got != first {
			t.Fatalf("score changed between runs: %d != %d", got, first)
		}
	}
}

func TestScoreAll(t *testing.T) {
	list := &jobs.Jobs{Items: []*jobs.Posting{
		{Title: "Senior Software Engineer (Go)", Description: "go and sql", Location: "Pune", SalaryMin: 1, CreatedAt: now},
		{Title: "Accountant", Location: "Delhi"},
	}}
	p := &profile.CandidateProfile{
		Skills:          "go,sql",
		TargetRole:      "Software Engineer",
		CurrentLocation: "Pune",
	}

	ScoreAll(list, p, now)

	if list.Items[0].MatchScore != 100 {
		t.Fatalf("expected first posting to score 100, got %d", list.Items[0].MatchScore)
	}
	if list.Items[1].MatchScore != 0 {
		t.Fatalf("expected second posting to score 0, got %d", list.Items[1].MatchScore)
	}
}
