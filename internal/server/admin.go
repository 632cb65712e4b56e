package server

import (
	"encoding/json"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/readmeforge/readmeforge/internal/apierr"
)

// CreateSession exchanges the admin secret for a short-lived session
// token, so the secret itself does not accompany every management call.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	if s.cfg.AdminSecret == "" {
		apierr.Write(w, apierr.New(apierr.CodeInternal,
			"Admin secret is not configured. Please set the ADMIN_SECRET_KEY environment variable."))
		return
	}

	var req struct {
		Secret string `json:"secret"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.Write(w, apierr.New(apierr.CodeInvalidInput, "Invalid JSON body"))
		return
	}

	// Hash-then-compare keeps the check constant-content, same as the
	// admin middleware.
	hash, err := bcrypt.GenerateFromPassword([]byte(s.cfg.AdminSecret), bcrypt.DefaultCost)
	if err != nil {
		apierr.Write(w, apierr.Wrap(apierr.CodeInternal, "", err))
		return
	}
	if bcrypt.CompareHashAndPassword(hash, []byte(req.Secret)) != nil {
		apierr.Write(w, apierr.New(apierr.CodeUnauthorized, "Invalid admin secret key."))
		return
	}

	token, expiresAt, err := s.sessions.Generate()
	if err != nil {
		apierr.Write(w, apierr.Wrap(apierr.CodeInternal, "", err))
		return
	}

	apierr.WriteJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"token":     token,
		"expiresAt": expiresAt,
	})
}

// IssueKey creates a key for the fixed internal user. If the store is
// down an unpersisted fallback key is returned with a note, matching the
// availability-over-strictness stance of verification.
func (s *Server) IssueKey(w http.ResponseWriter, r *http.Request) {
	result, err := s.keys.Issue(r.Context(), adminUserID)
	if err != nil {
		apierr.Write(w, apierr.Wrap(apierr.CodeInternal, "Failed to generate API key", err))
		return
	}

	resp := map[string]any{
		"success": true,
		"apiKey":  result.Key,
	}
	if !result.Persisted {
		resp["note"] = "Using fallback API key generation due to store unavailability"
	}
	apierr.WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) ListKeys(w http.ResponseWriter, r *http.Request) {
	keys, err := s.keys.List(r.Context(), adminUserID)
	if err != nil {
		apierr.Write(w, apierr.Wrap(apierr.CodeInternal, "Failed to list API keys", err))
		return
	}

	apierr.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"apiKeys": keys,
	})
}

func (s *Server) RevokeKey(w http.ResponseWriter, r *http.Request) {
	var req struct {
		APIKey string `json:"apiKey"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.Write(w, apierr.New(apierr.CodeInvalidInput, "Invalid JSON body"))
		return
	}
	if req.APIKey == "" {
		apierr.Write(w, apierr.New(apierr.CodeInvalidInput, "API key is required"))
		return
	}

	if err := s.keys.Revoke(r.Context(), req.APIKey); err != nil {
		apierr.Write(w, apierr.Wrap(apierr.CodeInvalidInput, "Failed to revoke API key", err))
		return
	}

	apierr.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "API key revoked successfully",
	})
}
