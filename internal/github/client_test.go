package github

import (
	"errors"
	"net/http"
	"testing"

	gogithub "github.com/google/go-github/v66/github"

	"github.com/readmeforge/readmeforge/internal/apierr"
)

func TestParseRepoURL(t *testing.T) {
	cases := []struct {
		in        string
		owner     string
		repo      string
		expectErr bool
	}{
		{"https://github.com/golang/go", "golang", "go", false},
		{"https://github.com/golang/go.git", "golang", "go", false},
		{"https://github.com/golang/go/tree/master/src", "golang", "go", false},
		{"github.com/golang/go", "golang", "go", false},
		{"git@github.com:golang/go.git", "golang", "go", false},
		{"https://example.com/golang/go", "", "", true},
		{"not a url", "", "", true},
		{"", "", "", true},
	}

	for _, tc := range cases {
		owner, repo, err := ParseRepoURL(tc.in)
		if tc.expectErr {
			if err == nil {
				t.Errorf("ParseRepoURL(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseRepoURL(%q): unexpected error %v", tc.in, err)
			continue
		}
		if owner != tc.owner || repo != tc.repo {
			t.Errorf("ParseRepoURL(%q) = (%q, %q), want (%q, %q)", tc.in, owner, repo, tc.owner, tc.repo)
		}
	}
}

func TestMapError(t *testing.T) {
	ghErr := func(status int) error {
		return &gogithub.ErrorResponse{Response: &http.Response{StatusCode: status}}
	}

	cases := []struct {
		name string
		in   error
		want apierr.Code
	}{
		{"404", ghErr(http.StatusNotFound), apierr.CodeNotFound},
		{"403", ghErr(http.StatusForbidden), apierr.CodeForbidden},
		{"401", ghErr(http.StatusUnauthorized), apierr.CodeUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mapped := mapError(tc.in)
			var apiErr *apierr.Error
			if !errors.As(mapped, &apiErr) {
				t.Fatalf("expected *apierr.Error, got %T", mapped)
			}
			if apiErr.Code != tc.want {
				t.Errorf("expected code %q, got %q", tc.want, apiErr.Code)
			}
		})
	}
}

func TestMapErrorPassesThroughUnknown(t *testing.T) {
	in := errors.New("connection reset")
	mapped := mapError(in)

	var apiErr *apierr.Error
	if errors.As(mapped, &apiErr) {
		t.Errorf("unknown errors should not gain a taxonomy code, got %q", apiErr.Code)
	}
	if !errors.Is(mapped, in) {
		t.Error("mapped error should wrap the cause")
	}
}
