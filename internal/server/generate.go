package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/readmeforge/readmeforge/internal/apierr"
	"github.com/readmeforge/readmeforge/internal/generator"
	"github.com/readmeforge/readmeforge/internal/github"
)

// Generate runs the pipeline: parse the repository URL, analyze the
// repository, prompt the model, return the README. The whole operation
// runs under one time budget; exceeding it is a 504.
func (s *Server) Generate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RepoURL     string `json:"repoUrl"`
		GitHubToken string `json:"githubToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.Write(w, apierr.New(apierr.CodeInvalidInput, "Invalid JSON body"))
		return
	}
	if req.RepoURL == "" {
		apierr.Write(w, apierr.New(apierr.CodeInvalidInput, "Repository URL is required"))
		return
	}

	if s.cfg.GeminiAPIKey == "" {
		apierr.Write(w, apierr.New(apierr.CodeInternal,
			"Gemini API key is not configured. Please set the GEMINI_API_KEY environment variable."))
		return
	}

	owner, repo, err := github.ParseRepoURL(req.RepoURL)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.GenerateTimeout)
	defer cancel()

	analysis, err := s.analyzer.Analyze(ctx, owner, repo, req.GitHubToken)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	readme, err := s.generator.Generate(ctx, generator.BuildPrompt(analysis))
	if err != nil {
		apierr.Write(w, err)
		return
	}

	apierr.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"readme":  readme,
		"metadata": map[string]any{
			"repository": map[string]any{
				"name":        analysis.Info.Name,
				"owner":       analysis.Owner,
				"description": analysis.Info.Description,
				"stars":       analysis.Info.Stars,
				"forks":       analysis.Info.Forks,
				"url":         analysis.Info.URL,
			},
			"languages":   analysis.Languages,
			"generatedAt": time.Now().UTC().Format(time.RFC3339),
		},
	})
}
