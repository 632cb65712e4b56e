package middleware

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/readmeforge/readmeforge/internal/apierr"
)

// Recover converts panics into a structured 500 so no path escapes the
// boundary without a JSON error response.
func Recover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logrus.WithFields(logrus.Fields{
						"panic": rec,
						"path":  r.URL.Path,
					}).Error("panic recovered")
					apierr.Write(w, apierr.New(apierr.CodeInternal, "An unexpected error occurred"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
