// Package github fetches the repository data the generation pipeline
// feeds on: metadata, root contents, languages, contributors and any
// existing README.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	gogithub "github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"

	"github.com/readmeforge/readmeforge/internal/apierr"
)

var repoURLPattern = regexp.MustCompile(`github\.com[:/]([^/\s]+)/([^/\s]+)`)

// ParseRepoURL extracts owner and repo from a GitHub repository URL.
func ParseRepoURL(raw string) (owner, repo string, err error) {
	m := repoURLPattern.FindStringSubmatch(raw)
	if m == nil {
		return "", "", apierr.New(apierr.CodeInvalidInput, "Invalid GitHub repository URL")
	}
	owner = m[1]
	repo = strings.TrimSuffix(m[2], ".git")
	if i := strings.IndexAny(repo, "/?#"); i >= 0 {
		repo = repo[:i]
	}
	if owner == "" || repo == "" {
		return "", "", apierr.New(apierr.CodeInvalidInput, "Invalid GitHub repository URL")
	}
	return owner, repo, nil
}

type RepoInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Stars       int    `json:"stars"`
	Forks       int    `json:"forks"`
	OpenIssues  int    `json:"openIssues"`
	License     string `json:"license"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
	URL         string `json:"url"`
}

type ContentEntry struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type Contributor struct {
	Login         string `json:"login"`
	Contributions int    `json:"contributions"`
}

// Analysis is everything fetched for one repository.
type Analysis struct {
	Owner          string
	Repo           string
	Info           RepoInfo
	Contents       []ContentEntry
	Languages      map[string]int
	Contributors   []Contributor
	ExistingReadme string
}

// Analyzer is the repository data provider boundary; the production
// implementation talks to the GitHub API.
type Analyzer interface {
	Analyze(ctx context.Context, owner, repo, token string) (*Analysis, error)
}

type Client struct {
	fallbackToken string
}

func NewClient(fallbackToken string) *Client {
	return &Client{fallbackToken: fallbackToken}
}

func (c *Client) Analyze(ctx context.Context, owner, repo, token string) (*Analysis, error) {
	if token == "" {
		token = c.fallbackToken
	}

	var httpClient *http.Client
	if token != "" {
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	}
	gh := gogithub.NewClient(httpClient)

	info, _, err := gh.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return nil, mapError(err)
	}

	analysis := &Analysis{
		Owner: owner,
		Repo:  repo,
		Info: RepoInfo{
			Name:        info.GetName(),
			Description: info.GetDescription(),
			Stars:       info.GetStargazersCount(),
			Forks:       info.GetForksCount(),
			OpenIssues:  info.GetOpenIssuesCount(),
			License:     info.GetLicense().GetName(),
			CreatedAt:   info.GetCreatedAt().Format("2006-01-02"),
			UpdatedAt:   info.GetUpdatedAt().Format("2006-01-02"),
			URL:         info.GetHTMLURL(),
		},
	}

	_, dir, _, err := gh.Repositories.GetContents(ctx, owner, repo, "", nil)
	if err != nil {
		return nil, mapError(err)
	}
	for _, entry := range dir {
		analysis.Contents = append(analysis.Contents, ContentEntry{
			Name: entry.GetName(),
			Type: entry.GetType(),
		})
	}

	langs, _, err := gh.Repositories.ListLanguages(ctx, owner, repo)
	if err != nil {
		return nil, mapError(err)
	}
	analysis.Languages = langs

	contributors, _, err := gh.Repositories.ListContributors(ctx, owner, repo,
		&gogithub.ListContributorsOptions{ListOptions: gogithub.ListOptions{PerPage: 10}})
	if err != nil {
		return nil, mapError(err)
	}
	for _, contrib := range contributors {
		analysis.Contributors = append(analysis.Contributors, Contributor{
			Login:         contrib.GetLogin(),
			Contributions: contrib.GetContributions(),
		})
	}

	// An absent README is fine; the generator writes one from scratch.
	if readme, _, err := gh.Repositories.GetReadme(ctx, owner, repo, nil); err == nil {
		if content, err := readme.GetContent(); err == nil {
			analysis.ExistingReadme = content
		}
	}

	return analysis, nil
}

func mapError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apierr.Wrap(apierr.CodeUpstreamTimeout,
			"Repository analysis timed out. Please try again later.", err)
	}

	var ghErr *gogithub.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		switch ghErr.Response.StatusCode {
		case http.StatusNotFound:
			return apierr.Wrap(apierr.CodeNotFound, "Repository not found", err)
		case http.StatusForbidden:
			return apierr.Wrap(apierr.CodeForbidden,
				"GitHub API access forbidden or rate limited. Provide a GitHub token and try again.", err)
		case http.StatusUnauthorized:
			return apierr.Wrap(apierr.CodeUnauthorized, "Invalid GitHub token", err)
		}
	}

	var rateErr *gogithub.RateLimitError
	if errors.As(err, &rateErr) {
		return apierr.Wrap(apierr.CodeForbidden,
			"GitHub API rate limit exceeded. Provide a GitHub token and try again.", err)
	}

	return fmt.Errorf("github api: %w", err)
}

var _ Analyzer = (*Client)(nil)
