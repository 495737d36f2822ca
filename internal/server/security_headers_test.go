package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecurityHeadersMiddleware(t *testing.T) {
	wrapped := SecurityHeadersMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		t.Run(method, func(t *testing.T) {
			rec := httptest.NewRecorder()
			wrapped.ServeHTTP(rec, httptest.NewRequest(method, "/api/v1/progress/alice", nil))

			assert.Equal(t, http.StatusTeapot, rec.Code, "status passes through")
			assert.Equal(t, HeaderValueNoSniff, rec.Header().Get("X-Content-Type-Options"))
			assert.Equal(t, HeaderValueSameOrigin, rec.Header().Get("X-Frame-Options"))
			assert.Equal(t, HeaderValueXSSBlock, rec.Header().Get("X-XSS-Protection"))
			assert.Equal(t, HeaderValueReferrerStrictOrigin, rec.Header().Get("Referrer-Policy"))
			assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
		})
	}
}

func TestSecurityHeadersMiddleware_HandlerCanOverride(t *testing.T) {
	wrapped := SecurityHeadersMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(HeaderCacheControl, "max-age=60")
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/levels/table", nil))

	assert.Equal(t, "max-age=60", rec.Header().Get("Cache-Control"))
}
