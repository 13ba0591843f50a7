package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSecurityHeaders(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	w := httptest.NewRecorder()
	SecurityHeaders(handler).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	require.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	require.Equal(t, "1; mode=block", w.Header().Get("X-XSS-Protection"))
	require.Equal(t, "strict-origin-when-cross-origin", w.Header().Get("Referrer-Policy"))
	require.Contains(t, w.Header().Get("Content-Security-Policy"), "default-src 'self'")
	require.Contains(t, w.Header().Get("Content-Security-Policy"), "connect-src 'self' ws: wss:")
	require.Contains(t, w.Header().Get("Permissions-Policy"), "camera=()")
}

func TestNoCache(t *testing.T) {
	called := false
	handler := NoCache(func(w http.ResponseWriter, r *http.Request) { called = true })

	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.True(t, called)
	require.Contains(t, w.Header().Get("Cache-Control"), "no-store")
	require.Equal(t, "no-cache", w.Header().Get("Pragma"))
}
