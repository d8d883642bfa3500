package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRateLimitAllowsWithinBudget(t *testing.T) {
	m := NewRateLimitMiddleware(100, 10)
	handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/buckets", nil)
		req.RemoteAddr = "203.0.113.7:54321"
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNoContent, rec.Code)
	}
}

func TestRateLimitRejectsBurstOnAuthPath(t *testing.T) {
	m := NewRateLimitMiddleware(100, 3)
	handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	var lastCode int
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		req.RemoteAddr = "203.0.113.8:54321"
		handler.ServeHTTP(rec, req)
		lastCode = rec.Code
	}
	require.Equal(t, http.StatusTooManyRequests, lastCode)
}

func TestRateLimitIsPerClient(t *testing.T) {
	m := NewRateLimitMiddleware(100, 1)
	handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	exhaust := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	exhaust.RemoteAddr = "203.0.113.9:1000"
	for i := 0; i < 3; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), exhaust)
	}

	rec := httptest.NewRecorder()
	other := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	other.RemoteAddr = "203.0.113.10:1000"
	handler.ServeHTTP(rec, other)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestExtractClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		realIP     string
		want       string
	}{
		{"remote addr", "198.51.100.4:9000", "", "", "198.51.100.4"},
		{"forwarded first hop", "10.0.0.1:9000", "203.0.113.1, 10.0.0.2", "", "203.0.113.1"},
		{"real ip", "10.0.0.1:9000", "", "203.0.113.2", "203.0.113.2"},
		{"empty remote addr", "", "", "", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			require.Equal(t, tt.want, extractClientIP(req))
		})
	}
}
