package generator

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/readmeforge/readmeforge/internal/apierr"
	"github.com/readmeforge/readmeforge/internal/github"
)

func TestGenerateParsesCandidate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"# Generated\n"}]}}]}`))
	}))
	defer srv.Close()

	g := NewGeminiWithBaseURL("key", "gemini-1.5-pro", srv.URL)
	out, err := g.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if out != "# Generated\n" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestGenerateQuotaExceeded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"status":"RESOURCE_EXHAUSTED"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	g := NewGeminiWithBaseURL("key", "gemini-1.5-pro", srv.URL)
	_, err := g.Generate(context.Background(), "prompt")

	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) || apiErr.Code != apierr.CodeForbidden {
		t.Errorf("expected forbidden for upstream quota, got %v", err)
	}
}

func TestGenerateBadAPIKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"status":"INVALID_ARGUMENT","message":"API key not valid"}}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	g := NewGeminiWithBaseURL("bad", "gemini-1.5-pro", srv.URL)
	_, err := g.Generate(context.Background(), "prompt")

	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) || apiErr.Code != apierr.CodeInternal {
		t.Errorf("expected internal for bad API key, got %v", err)
	}
}

func TestGenerateEmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	g := NewGeminiWithBaseURL("key", "gemini-1.5-pro", srv.URL)
	if _, err := g.Generate(context.Background(), "prompt"); err == nil {
		t.Error("expected error for empty candidates")
	}
}

func TestBuildPrompt(t *testing.T) {
	a := &github.Analysis{
		Owner: "golang",
		Repo:  "go",
		Info: github.RepoInfo{
			Name:        "go",
			Description: "The Go programming language",
			Stars:       120000,
			License:     "BSD 3-Clause",
		},
		Languages: map[string]int{"Go": 900, "Assembly": 100},
		Contents: []github.ContentEntry{
			{Name: "src", Type: "dir"},
			{Name: "README.md", Type: "file"},
		},
		Contributors: []github.Contributor{{Login: "gopher", Contributions: 500}},
	}

	prompt := BuildPrompt(a)

	for _, want := range []string{
		"- Name: go",
		"- Description: The Go programming language",
		"- Owner: golang",
		"- License: BSD 3-Clause",
		"- Go: 90.0%",
		"- Assembly: 10.0%",
		"- src (dir)",
		"- gopher (500 contributions)",
	} {
		if !containsLine(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildPromptDefaults(t *testing.T) {
	prompt := BuildPrompt(&github.Analysis{Owner: "o", Repo: "r", Info: github.RepoInfo{Name: "r"}})

	if !containsLine(prompt, "- Description: No description provided") {
		t.Error("expected default description")
	}
	if !containsLine(prompt, "- License: Not specified") {
		t.Error("expected default license")
	}
}

func containsLine(s, sub string) bool {
	return strings.Contains(s, sub)
}
