package filtering

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/skillmatch/skillmatch/internal/jobs"
)

var testNow = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

func testPostings() *jobs.Jobs {
	return &jobs.Jobs{Items: []*jobs.Posting{
		{ID: "a", Company: "Acme", MatchScore: 90, CreatedAt: testNow.Add(-2 * 24 * time.Hour)},
		{ID: "b", Company: "Globex", MatchScore: 40, CreatedAt: testNow.Add(-60 * 24 * time.Hour)},
		{ID: "c", Company: "Initech", MatchScore: 70},
	}}
}

func TestMinScoreFilter(t *testing.T) {
	filter := NewMinScore()

	if err := filter.Validate(&Config{MinScore: 60}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	left, info, err := filter.Apply(context.Background(), Deps{}, testPostings())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Dropped != 1 || left.Len() != 2 {
		t.Fatalf("expected 1 dropped and 2 left, got %d dropped and %d left", info.Dropped, left.Len())
	}
	if left.FindByID("b") != nil {
		t.Fatal("expected posting b to be dropped")
	}
}

func TestMinScoreFilterValidation(t *testing.T) {
	filter := NewMinScore()

	for _, score := range []int{-1, 101} {
		if err := filter.Validate(&Config{MinScore: score}); err == nil {
			t.Fatalf("expected an error for min score %d", score)
		}
	}
}

func TestMinScoreFilterNoopWhenUnset(t *testing.T) {
	filter := NewMinScore()

	if err := filter.Validate(&Config{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	left, info, err := filter.Apply(context.Background(), Deps{}, testPostings())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Dropped != 0 || left.Len() != 3 {
		t.Fatalf("expected a noop, got %d dropped and %d left", info.Dropped, left.Len())
	}
}

func TestStaleFilter(t *testing.T) {
	filter := NewStale().(*staleFilter)
	filter.now = func() time.Time { return testNow }

	if err := filter.Validate(&Config{MaxAgeDays: 30}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	left, info, err := filter.Apply(context.Background(), Deps{}, testPostings())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Dropped != 1 {
		t.Fatalf("expected 1 dropped, got %d", info.Dropped)
	}
	// Posting c has no timestamp and must survive.
	if left.FindByID("c") == nil {
		t.Fatal("expected the undated posting to be kept")
	}
	if left.FindByID("b") != nil {
		t.Fatal("expected the stale posting to be dropped")
	}
}

func TestCompaniesFilter(t *testing.T) {
	filter := NewCompanies()

	if err := filter.Validate(&Config{Companies: []string{"Acme"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	left, info, err := filter.Apply(context.Background(), Deps{}, testPostings())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Dropped != 1 || left.FindByID("a") != nil {
		t.Fatalf("expected the Acme posting to be dropped, got %d dropped", info.Dropped)
	}
}

func TestDismissedFileFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dismissed.json")
	dismissed := &jobs.DismissedJobs{Items: []*jobs.DismissedJob{{ID: "a"}, {ID: "c"}}}
	if err := dismissed.ToFile(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	filter := NewDismissedFile()
	if err := filter.Validate(&Config{DismissedFile: path}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	left, info, err := filter.Apply(context.Background(), Deps{}, testPostings())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Dropped != 2 || left.Len() != 1 || left.Items[0].ID != "b" {
		t.Fatalf("expected only posting b to survive, got %d left", left.Len())
	}
}

func TestDismissedFileFilterMissingFile(t *testing.T) {
	filter := NewDismissedFile()
	if err := filter.Validate(&Config{DismissedFile: filepath.Join(t.TempDir(), "missing.json")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, _, err := filter.Apply(context.Background(), Deps{}, testPostings()); err == nil {
		t.Fatal("expected an error for a missing dismissed file")
	}
}

func TestRunExecutesStepsInOrder(t *testing.T) {
	steps := []Filter{NewMinScore(), NewStale(), NewCompanies(), NewDismissedFile()}

	left, err := Run(context.Background(), &Config{MinScore: 50, Companies: []string{"Initech"}},
		Deps{Logger: zap.NewNop()}, steps, testPostings())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if left.Len() != 1 || left.Items[0].ID != "a" {
		t.Fatalf("expected only posting a to survive, got %d left", left.Len())
	}
}

func TestRunSkipsDisabledSteps(t *testing.T) {
	steps := []Filter{NewMinScore()}
	DisableByName(steps, "min_score", "testing")

	left, err := Run(context.Background(), &Config{MinScore: 999}, Deps{Logger: zap.NewNop()}, steps, testPostings())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if left.Len() != 3 {
		t.Fatalf("expected all postings to survive, got %d", left.Len())
	}

	statuses := Describe(steps)
	if len(statuses) != 1 || statuses[0].Enabled {
		t.Fatalf("expected a disabled status, got %+v", statuses)
	}
	if statuses[0].Reason != "testing" {
		t.Fatalf("expected the disable reason, got %q", statuses[0].Reason)
	}
}
