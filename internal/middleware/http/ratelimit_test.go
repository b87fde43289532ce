package middleware_http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	middleware_http "product-catalog/internal/middleware/http"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func request(h http.Handler, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = ip
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter_AllowsUpToMax(t *testing.T) {
	rl := middleware_http.NewRateLimiter(3, time.Minute)
	h := rl.Middleware(okHandler())

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, request(h, "10.0.0.1:1234").Code)
	}
}

func TestRateLimiter_RejectsOverMax(t *testing.T) {
	rl := middleware_http.NewRateLimiter(2, time.Minute)
	h := rl.Middleware(okHandler())

	request(h, "10.0.0.1:1234")
	request(h, "10.0.0.1:1234")
	rec := request(h, "10.0.0.1:1234")

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Too many requests, please try again later.", body["message"])
}

func TestRateLimiter_TracksClientsSeparately(t *testing.T) {
	rl := middleware_http.NewRateLimiter(1, time.Minute)
	h := rl.Middleware(okHandler())

	assert.Equal(t, http.StatusOK, request(h, "10.0.0.1:1234").Code)
	assert.Equal(t, http.StatusTooManyRequests, request(h, "10.0.0.1:1234").Code)
	assert.Equal(t, http.StatusOK, request(h, "10.0.0.2:1234").Code)
}

func TestRateLimiter_WindowResets(t *testing.T) {
	rl := middleware_http.NewRateLimiter(1, 20*time.Millisecond)
	h := rl.Middleware(okHandler())

	assert.Equal(t, http.StatusOK, request(h, "10.0.0.1:1234").Code)
	assert.Equal(t, http.StatusTooManyRequests, request(h, "10.0.0.1:1234").Code)

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, http.StatusOK, request(h, "10.0.0.1:1234").Code)
}

func TestRateLimiter_HonorsForwardedFor(t *testing.T) {
	rl := middleware_http.NewRateLimiter(1, time.Minute)
	h := rl.Middleware(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Same forwarded client through a different hop is still one bucket.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
