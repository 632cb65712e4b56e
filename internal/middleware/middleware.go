// Package middleware implements the boundary gate: request logging,
// panic recovery, admin and API-key authorization, and rate limiting.
package middleware

import "net/http"

// Middleware defines a function that wraps an http.Handler.
type Middleware func(http.Handler) http.Handler
