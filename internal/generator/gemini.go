// Package generator turns a repository analysis into README Markdown via
// the Gemini generateContent REST API.
package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/readmeforge/readmeforge/internal/apierr"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Generator is the text-generation provider boundary.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Gemini struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

func NewGemini(apiKey, model string) *Gemini {
	return &Gemini{
		apiKey:     apiKey,
		model:      model,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 2 * time.Minute},
	}
}

// NewGeminiWithBaseURL exists for tests that point the client at a local
// stub server.
func NewGeminiWithBaseURL(apiKey, model, baseURL string) *Gemini {
	g := NewGemini(apiKey, model)
	g.baseURL = baseURL
	return g
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		g.baseURL, url.PathEscape(g.model), url.QueryEscape(g.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", apierr.Wrap(apierr.CodeUpstreamTimeout,
				"README generation timed out. Please try again later.", err)
		}
		return "", fmt.Errorf("call gemini api: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("read gemini response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", mapStatus(resp.StatusCode, data)
	}

	var parsed generateResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("decode gemini response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", apierr.New(apierr.CodeInternal,
			"Failed to generate content with Gemini AI. Please try again later.")
	}

	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

func mapStatus(status int, body []byte) error {
	cause := fmt.Errorf("gemini api status %d: %s", status, truncate(body, 512))

	switch status {
	case http.StatusTooManyRequests:
		return apierr.Wrap(apierr.CodeForbidden,
			"Gemini API quota exceeded. Please try again later.", cause)
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
		return apierr.Wrap(apierr.CodeInternal,
			"Invalid Gemini API key. Please check your API key configuration.", cause)
	default:
		return apierr.Wrap(apierr.CodeInternal,
			"Failed to generate content with Gemini AI. Please try again later.", cause)
	}
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}

var _ Generator = (*Gemini)(nil)
