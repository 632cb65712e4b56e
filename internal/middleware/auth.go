package middleware

import (
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/readmeforge/readmeforge/internal/apierr"
	"github.com/readmeforge/readmeforge/internal/apikey"
	"github.com/readmeforge/readmeforge/internal/auth"
)

// BearerToken extracts the bearer token from the Authorization header, or
// "" when absent.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

// AdminAuth gates key-management routes. The bearer must be either the
// admin secret itself or a live session token. The secret comparison goes
// through bcrypt against a hash computed once at startup, which keeps the
// per-request compare constant-content.
func AdminAuth(secret string, sessions *auth.SessionManager) Middleware {
	var secretHash []byte
	if secret != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
		if err != nil {
			logrus.WithError(err).Error("failed to hash admin secret")
		} else {
			secretHash = h
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secretHash == nil {
				apierr.Write(w, apierr.New(apierr.CodeInternal,
					"Admin secret is not configured. Please set the ADMIN_SECRET_KEY environment variable."))
				return
			}

			token := BearerToken(r)
			if token == "" {
				apierr.Write(w, apierr.New(apierr.CodeUnauthorized,
					"Missing or invalid admin secret key. Please provide a valid admin secret key in the Authorization header."))
				return
			}

			if bcrypt.CompareHashAndPassword(secretHash, []byte(token)) != nil {
				if sessions == nil || sessions.Verify(token) != nil {
					apierr.Write(w, apierr.New(apierr.CodeUnauthorized, "Invalid admin secret key."))
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// APIKeyAuth gates the public generation endpoint with an issued API key.
func APIKeyAuth(keys *apikey.Manager) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				apierr.Write(w, apierr.New(apierr.CodeUnauthorized,
					"Missing or invalid API key. Please provide a valid API key in the Authorization header."))
				return
			}

			v := keys.Verify(r.Context(), token)
			if !v.Valid {
				apierr.Write(w, apierr.New(apierr.CodeUnauthorized,
					"Invalid API key. Please provide a valid API key."))
				return
			}
			if v.Trust == apikey.TrustFormat {
				logrus.WithField("path", r.URL.Path).Warn("request authorized via format-fallback trust")
			}

			next.ServeHTTP(w, r)
		})
	}
}
