package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

type staticToggle bool

func (s staticToggle) LoggingEnabled(context.Context) bool { return bool(s) }

func TestRequestLogger_PassesThrough(t *testing.T) {
	t.Parallel()

	for _, enabled := range []bool{true, false} {
		called := false
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			w.WriteHeader(http.StatusTeapot)
		})

		handler := RequestLogger(staticToggle(enabled))(next)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

		if !called {
			t.Errorf("enabled=%v: inner handler not reached", enabled)
		}
		if w.Code != http.StatusTeapot {
			t.Errorf("enabled=%v: status = %d; want 418", enabled, w.Code)
		}
	}
}
