package profile

import (
	"reflect"
	"testing"
)

func TestSkillList(t *testing.T) {
	cases := []struct {
		name   string
		skills string
		want   []string
	}{
		{"simple", "go,sql", []string{"go", "sql"}},
		{"trims and lowercases", " Go , SQL ,React", []string{"go", "sql", "react"}},
		{"drops empties", "go,,  ,sql,", []string{"go", "sql"}},
		{"empty input", "", []string{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := &CandidateProfile{Skills: tc.skills}
			if got := p.SkillList(); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestMatchesAnywhere(t *testing.T) {
	cases := []struct {
		location string
		want     bool
	}{
		{"india", true},
		{"India", true},
		{"  INDIA  ", true},
		{"Bengaluru", false},
		{"", false},
	}

	for _, tc := range cases {
		p := &CandidateProfile{CurrentLocation: tc.location}
		if got := p.MatchesAnywhere(); got != tc.want {
			t.Fatalf("location %q: expected %v, got %v", tc.location, tc.want, got)
		}
	}
}

func TestValidate(t *testing.T) {
	valid := &CandidateProfile{Skills: "go", TargetRole: "engineer", CurrentLocation: "Pune"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := []struct {
		name    string
		profile *CandidateProfile
	}{
		{"nil profile", nil},
		{"no target role", &CandidateProfile{Skills: "go", CurrentLocation: "Pune"}},
		{"no location", &CandidateProfile{Skills: "go", TargetRole: "engineer"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.profile.Validate(); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}
