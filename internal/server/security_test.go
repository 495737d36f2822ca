package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAuthMiddleware(t *testing.T) {
	const apiKey = "secret-key"
	auth := AuthMiddleware(apiKey, nil, NewSuspiciousActivityDetector())
	handler := auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name string
		key  string
		path string
		want int
	}{
		{"valid key", apiKey, "/api/v1/levels/required", http.StatusOK},
		{"wrong key", "wrong-key", "/api/v1/progress/award", http.StatusUnauthorized},
		{"key prefix is not enough", "secret", "/api/v1/progress/award", http.StatusUnauthorized},
		{"missing key", "", "/api/v1/progress/user", http.StatusUnauthorized},
		{"healthz is public", "", "/healthz", http.StatusOK},
		{"readyz is public", "", "/readyz", http.StatusOK},
		{"metrics is public", "", "/metrics", http.StatusOK},
		{"version is public", "", "/version", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.key != "" {
				req.Header.Set(HeaderAPIKey, tt.key)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusUnauthorized {
				assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
			}
		})
	}
}

func TestAuthMiddleware_RecordsFailedAttempts(t *testing.T) {
	detector := NewSuspiciousActivityDetector()
	handler := AuthMiddleware("secret-key", nil, detector)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/progress/user", nil)
		req.RemoteAddr = "10.0.0.7:5555"
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	detector.mu.Lock()
	defer detector.mu.Unlock()
	assert.Equal(t, 3, detector.failedAuthByIP["10.0.0.7"])
}

func TestExtractIP(t *testing.T) {
	tests := []struct {
		name      string
		remote    string
		forwarded string
		trusted   []string
		want      string
	}{
		{"direct connection", "203.0.113.5:4000", "", nil, "203.0.113.5"},
		{"forwarded from untrusted peer ignored", "203.0.113.5:4000", "198.51.100.1", nil, "203.0.113.5"},
		{"trusted proxy uses rightmost hop", "10.0.0.1:4000", "198.51.100.1, 192.0.2.9", []string{"10.0.0.1"}, "192.0.2.9"},
		{"trusted proxy without header", "10.0.0.1:4000", "", []string{"10.0.0.1"}, "10.0.0.1"},
		{"unparseable remote addr", "garbage", "", nil, "garbage"},
		{"trusted proxy with junk hop falls back to peer", "10.0.0.1:4000", "198.51.100.1, not-an-ip", []string{"10.0.0.1"}, "10.0.0.1"},
		{"trusted proxy with trailing comma", "10.0.0.1:4000", "198.51.100.1,", []string{"10.0.0.1"}, "10.0.0.1"},
		{"ipv6 peer", "[2001:db8::1]:4000", "", nil, "2001:db8::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.forwarded != "" {
				req.Header.Set(HeaderForwardedFor, tt.forwarded)
			}
			assert.Equal(t, tt.want, extractIP(req, tt.trusted))
		})
	}
}

func TestSuspiciousActivityDetector_WindowReset(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	detector := NewSuspiciousActivityDetectorWithConfig(DetectorConfig{
		Window:               time.Minute,
		MaxRequestsPerWindow: 2,
	})
	detector.now = func() time.Time { return now }
	detector.lastResetTime = now

	assert.True(t, detector.RecordRequest("1.2.3.4"))
	assert.True(t, detector.RecordRequest("1.2.3.4"))
	assert.False(t, detector.RecordRequest("1.2.3.4"))

	now = now.Add(2 * time.Minute)
	assert.True(t, detector.RecordRequest("1.2.3.4"), "counts reset after the window")
}
