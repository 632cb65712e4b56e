package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/readmeforge/readmeforge/internal/apierr"
	"github.com/readmeforge/readmeforge/internal/limiter"
)

// RateLimit throttles every request before it reaches auth or handlers.
// Authenticated API callers (bearer present on a /v1/ route) are keyed by
// their token with the larger limit; everyone else is keyed by source IP
// with the small one. Class selection needs no store access.
func RateLimit(l *limiter.Limiter) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identifier, limit := classify(r)

			res := l.Allow(r.Context(), identifier, limit)

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.Itoa(int(res.Reset.Seconds())))

			if !res.Allowed {
				apierr.WriteJSON(w, http.StatusTooManyRequests, map[string]any{
					"error":     "Rate limit exceeded. Please try again later.",
					"limit":     res.Limit,
					"remaining": 0,
					"reset":     int(res.Reset.Seconds()),
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func classify(r *http.Request) (identifier string, limit int) {
	token := BearerToken(r)
	if token != "" && strings.HasPrefix(r.URL.Path, "/v1/") {
		return token, limiter.AuthenticatedLimit
	}
	return clientIP(r), limiter.AnonymousLimit
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "anonymous"
}
