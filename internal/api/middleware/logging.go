// Package middleware holds HTTP middleware specific to this API.
package middleware

import (
	"context"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// LogToggle reports whether request logging is currently enabled. The
// settings service satisfies this through a small adapter so the middleware
// stays free of storage concerns.
type LogToggle interface {
	LoggingEnabled(ctx context.Context) bool
}

// RequestLogger wraps chi's Logger but consults lt per request, so flipping
// the logging_enabled setting takes effect without a restart.
func RequestLogger(lt LogToggle) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		logged := chimw.Logger(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if lt.LoggingEnabled(r.Context()) {
				logged.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
