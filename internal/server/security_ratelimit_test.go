package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rateLimited(detector *SuspiciousActivityDetector, trustedProxies []string) http.Handler {
	return SecurityLoggingMiddleware(trustedProxies, detector)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func requestFrom(remoteAddr string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/levels/table", nil)
	req.RemoteAddr = remoteAddr
	return req
}

func TestSecurityLoggingMiddleware_RateLimiting(t *testing.T) {
	detector := NewSuspiciousActivityDetector()
	handler := rateLimited(detector, nil)

	for i := 0; i < DefaultMaxRequestsPerWindow; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, requestFrom("192.168.1.100:1234"))
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestFrom("192.168.1.100:1234"))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"`+ErrMsgTooManyRequests+`"}`, rec.Body.String())

	detector.mu.Lock()
	defer detector.mu.Unlock()
	assert.Equal(t, DefaultMaxRequestsPerWindow+1, detector.requestCountByIP["192.168.1.100"])
}

func TestSecurityLoggingMiddleware_LimitsArePerIP(t *testing.T) {
	detector := NewSuspiciousActivityDetectorWithConfig(DetectorConfig{MaxRequestsPerWindow: 2})
	handler := rateLimited(detector, nil)

	codes := func(addr string, n int) []int {
		var out []int
		for i := 0; i < n; i++ {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, requestFrom(addr))
			out = append(out, rec.Code)
		}
		return out
	}

	assert.Equal(t, []int{200, 200, 429}, codes("10.1.1.1:5000", 3))
	assert.Equal(t, []int{200, 200}, codes("10.1.1.2:5000", 2), "another client keeps its own budget")
}

func TestSecurityLoggingMiddleware_CountsForwardedClientBehindProxy(t *testing.T) {
	detector := NewSuspiciousActivityDetectorWithConfig(DetectorConfig{MaxRequestsPerWindow: 1})
	handler := rateLimited(detector, []string{"10.0.0.1"})

	send := func(client string) int {
		req := requestFrom("10.0.0.1:443")
		req.Header.Set(HeaderForwardedFor, client)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("203.0.113.5"))
	assert.Equal(t, http.StatusOK, send("203.0.113.6"), "proxy address is not the rate-limit key")
	assert.Equal(t, http.StatusTooManyRequests, send("203.0.113.5"))
}
