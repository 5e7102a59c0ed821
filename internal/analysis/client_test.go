package analysis

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func writeResume(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "resume.pdf")
	if err := os.WriteFile(path, []byte("resume bytes"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return path
}

func TestAnalyze(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/analyze" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}

		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parsing multipart form: %v", err)
		}

		if got := r.FormValue("job_description"); got != "We need a Go engineer" {
			t.Errorf("unexpected job description: %q", got)
		}

		uploaded, header, err := r.FormFile("resume")
		if err != nil {
			t.Fatalf("reading resume part: %v", err)
		}
		defer uploaded.Close()

		if header.Filename != "resume.pdf" {
			t.Errorf("unexpected filename: %q", header.Filename)
		}
		data, _ := io.ReadAll(uploaded)
		if string(data) != "resume bytes" {
			t.Errorf("unexpected resume content: %q", data)
		}

		fmt.Fprint(w, `{
		  "matched_skills": ["go", "sql"],
		  "missing_skills": ["kubernetes"],
		  "partial_skills": ["docker"],
		  "overall_score": 72.5,
		  "recommendations": [
		    {"skill": "kubernetes", "courses": ["CKA"], "resources": ["kubernetes.io"]}
		  ]
		}`)
	}))
	t.Cleanup(server.Close)

	client := New(server.URL, zap.NewNop())

	comparison, err := client.Analyze(context.Background(), writeResume(t), "We need a Go engineer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(comparison.Matched) != 2 || comparison.Matched[0] != "go" {
		t.Fatalf("unexpected matched skills: %v", comparison.Matched)
	}
	if comparison.OverallScore != 72.5 {
		t.Fatalf("unexpected overall score: %v", comparison.OverallScore)
	}
	if len(comparison.Recommendations) != 1 || comparison.Recommendations[0].Skill != "kubernetes" {
		t.Fatalf("unexpected recommendations: %+v", comparison.Recommendations)
	}
}

func TestAnalyzeBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	t.Cleanup(server.Close)

	client := New(server.URL, zap.NewNop())

	if _, err := client.Analyze(context.Background(), writeResume(t), "jd"); err == nil {
		t.Fatal("expected an error on a bad status")
	}
}

func TestAnalyzeMissingResume(t *testing.T) {
	client := New("http://localhost:0", zap.NewNop())

	if _, err := client.Analyze(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"), "jd"); err == nil {
		t.Fatal("expected an error for a missing resume file")
	}
}
