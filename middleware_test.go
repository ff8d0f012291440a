package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"message":"success"}`))
})

func authRequest(handler http.Handler, ip, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/getGuestWifiStatus", nil)
	req.RemoteAddr = ip
	if key != "" {
		req.Header.Set(HeaderXAPIKey, key)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

// --- API Key Authentication Middleware Tests ---

func TestAPIKeyAuthMiddleware(t *testing.T) {
	handler := apiKeyAuthMiddleware(mockAPIKey, newAuthAttemptTracker())(okHandler)

	tests := []struct {
		name     string
		key      string
		wantCode int
		wantErr  string
	}{
		{"Valid key", mockAPIKey, http.StatusOK, ""},
		{"Missing key", "", http.StatusUnauthorized, ErrMissingAPIKey},
		{"Invalid key", "nope", http.StatusUnauthorized, ErrInvalidAPIKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := authRequest(handler, "10.0.0.1:1234", tt.key)
			assert.Equal(t, tt.wantCode, rr.Code)
			if tt.wantErr != "" {
				body := decodeEnvelope(t, rr)
				assert.Equal(t, MsgUnauthorized, body["message"])
				assert.Equal(t, tt.wantErr, body["error"])
			}
		})
	}
}

func TestAPIKeyAuthMiddleware_BruteForceLockout(t *testing.T) {
	tracker := newAuthAttemptTracker()
	handler := apiKeyAuthMiddleware(mockAPIKey, tracker)(okHandler)
	const ip = "10.0.0.2:5555"

	for i := 0; i < MaxFailedAuthAttempts; i++ {
		rr := authRequest(handler, ip, "wrong")
		require.Equal(t, http.StatusUnauthorized, rr.Code, "attempt %d", i+1)
	}

	rr := authRequest(handler, ip, mockAPIKey)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code, "even the right key is refused while locked out")
	assert.NotEmpty(t, rr.Header().Get("Retry-After"))

	t.Run("Other IPs are unaffected", func(t *testing.T) {
		rr := authRequest(handler, "10.0.0.3:5555", mockAPIKey)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Lockout ends", func(t *testing.T) {
		future := time.Now().Add(AuthLockoutDuration + time.Second)
		tracker.now = func() time.Time { return future }
		rr := authRequest(handler, ip, mockAPIKey)
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestAuthAttemptTracker(t *testing.T) {
	now := time.Now()
	tracker := newAuthAttemptTracker()
	tracker.now = func() time.Time { return now }

	t.Run("Failures outside the window start over", func(t *testing.T) {
		for i := 0; i < MaxFailedAuthAttempts-1; i++ {
			assert.False(t, tracker.recordFailure("a"))
		}
		now = now.Add(AuthAttemptWindow + time.Second)
		assert.False(t, tracker.recordFailure("a"))
		assert.Zero(t, tracker.remainingLockout("a"))
	})

	t.Run("Success clears failures", func(t *testing.T) {
		tracker.recordFailure("b")
		tracker.recordSuccess("b")
		tracker.mu.RLock()
		_, exists := tracker.attempts["b"]
		tracker.mu.RUnlock()
		assert.False(t, exists)
	})

	t.Run("Cleanup removes stale entries", func(t *testing.T) {
		tracker.recordFailure("c")
		now = now.Add(AuthAttemptWindow + time.Second)
		tracker.cleanup()
		tracker.mu.RLock()
		_, exists := tracker.attempts["c"]
		tracker.mu.RUnlock()
		assert.False(t, exists)
	})

	t.Run("Start and stop cleanup twice", func(t *testing.T) {
		tr := newAuthAttemptTracker()
		tr.cleanupInterval = 10 * time.Millisecond
		tr.StartCleanup()
		tr.StartCleanup()
		time.Sleep(30 * time.Millisecond)
		tr.StopCleanup()
		tr.StopCleanup()
	})
}

// --- Rate Limiter Tests ---

func TestRateLimiter_Allow(t *testing.T) {
	now := time.Now()
	rl := newRateLimiter(3, time.Minute)
	rl.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("1.1.1.1"), "request %d", i+1)
	}
	assert.False(t, rl.Allow("1.1.1.1"))
	assert.True(t, rl.Allow("2.2.2.2"))

	now = now.Add(time.Minute)
	assert.True(t, rl.Allow("1.1.1.1"), "new window")

	t.Run("Capacity", func(t *testing.T) {
		small := newRateLimiter(1, time.Minute)
		small.maxEntries = 2
		assert.True(t, small.Allow("a"))
		assert.True(t, small.Allow("b"))
		assert.False(t, small.Allow("c"))
	})

	t.Run("Cleanup", func(t *testing.T) {
		now = now.Add(2 * time.Minute)
		rl.cleanup()
		assert.Empty(t, rl.requests)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	handler := rateLimitMiddleware(newRateLimiter(2, time.Minute))(okHandler)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "192.0.2.1:1000"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	t.Run("Malformed X-Real-IP falls back to RemoteAddr", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "192.0.2.1:1000"
		req.Header.Set("X-Real-IP", "not-an-ip")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	})

	t.Run("Well-formed X-Real-IP is its own bucket", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "192.0.2.1:1000"
		req.Header.Set("X-Real-IP", "198.51.100.7")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	handler := securityHeadersMiddleware(okHandler)

	for _, path := range []string{"/api/getGuestWifiStatus", "/swagger/index.html"} {
		t.Run(path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
			assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
			assert.NotEmpty(t, rr.Header().Get("Content-Security-Policy"))
		})
	}
}

func TestAuditLog(t *testing.T) {
	assert.NotPanics(t, func() {
		AuditLog(AuditEventGuestToggle, "127.0.0.1", fmt.Sprintf("turnOnWifi=%t", true))
	})
}
