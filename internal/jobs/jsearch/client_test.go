package jsearch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/skillmatch/skillmatch/internal/jobs"
)

const searchFixture = `{
  "data": [
    {
      "job_id": "js-1",
      "job_title": "Backend Developer",
      "employer_name": "Globex",
      "job_city": "Pune",
      "job_state": "Maharashtra",
      "job_country": "India",
      "job_description": "Go and postgres",
      "job_min_salary": "900000",
      "job_max_salary": 1500000,
      "job_posted_at_datetime_utc": "2025-05-28T08:00:00Z",
      "job_apply_link": "https://example.com/apply/js-1",
      "job_employment_type": "FULLTIME"
    },
    {
      "job_id": "js-2",
      "job_title": "Remote Developer",
      "employer_name": "Initech",
      "job_country": "India"
    }
  ]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := New("test-key", zap.NewNop())
	client.APIURL = server.URL
	return client
}

func TestSearch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-RapidAPI-Key") != "test-key" {
			t.Error("expected the api key header")
		}

		q := r.URL.Query()
		if q.Get("query") != "developer in Pune" {
			t.Errorf("unexpected query param: %q", q.Get("query"))
		}
		if q.Get("page") != "1" || q.Get("num_pages") != "1" {
			t.Error("expected single-page pagination params")
		}

		fmt.Fprint(w, searchFixture)
	})

	found, err := client.Search(context.Background(), jobs.Query{Title: "developer", Location: "Pune"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if found.Len() != 2 {
		t.Fatalf("expected 2 postings, got %d", found.Len())
	}

	first := found.Items[0]
	if first.ID != "js-1" || first.Company != "Globex" {
		t.Fatalf("unexpected first posting: %+v", first)
	}
	if first.Location != "Pune, Maharashtra, India" {
		t.Fatalf("unexpected location: %q", first.Location)
	}
	// Salaries arrive as strings or numbers depending on the listing.
	if first.SalaryMin != 900000 || first.SalaryMax != 1500000 {
		t.Fatalf("unexpected salaries: %+v", first)
	}

	second := found.Items[1]
	if second.Location != "India" {
		t.Fatalf("expected empty location parts to collapse, got %q", second.Location)
	}
}

func TestSearchQueryWithoutLocation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("query"); got != "developer" {
			t.Errorf("unexpected query param: %q", got)
		}
		fmt.Fprint(w, `{"data": []}`)
	})

	if _, err := client.Search(context.Background(), jobs.Query{Title: "developer"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSearchWithoutKey(t *testing.T) {
	client := New("", zap.NewNop())

	if _, err := client.Search(context.Background(), jobs.Query{Title: "developer"}); err == nil {
		t.Fatal("expected an error without an api key")
	}
}
