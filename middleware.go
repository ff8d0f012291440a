package main

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// authAttemptTracker counts failed API key attempts per client IP and locks
// an IP out after too many of them.
type authAttemptTracker struct {
	mu              sync.RWMutex
	attempts        map[string]*authAttempt
	maxFailures     int
	window          time.Duration // failures older than this are forgotten
	lockout         time.Duration
	now             func() time.Time
	stopCh          chan struct{}
	cleanupOnce     sync.Once
	stopOnce        sync.Once
	cleanupInterval time.Duration // defaults to window
}

// authAttempt tracks failed attempts and lockout status for an IP
type authAttempt struct {
	failedCount int
	firstFailed time.Time
	lockedUntil time.Time
}

func newAuthAttemptTracker() *authAttemptTracker {
	return &authAttemptTracker{
		attempts:    make(map[string]*authAttempt),
		maxFailures: MaxFailedAuthAttempts,
		window:      AuthAttemptWindow,
		lockout:     AuthLockoutDuration,
		now:         time.Now,
	}
}

// remainingLockout returns how long ip stays blocked, 0 when it is not blocked
func (at *authAttemptTracker) remainingLockout(ip string) time.Duration {
	at.mu.RLock()
	defer at.mu.RUnlock()

	attempt, exists := at.attempts[ip]
	if !exists {
		return 0
	}
	remaining := attempt.lockedUntil.Sub(at.now())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// recordFailure records a failed attempt and reports whether ip is now locked out
func (at *authAttemptTracker) recordFailure(ip string) bool {
	at.mu.Lock()
	defer at.mu.Unlock()

	now := at.now()
	attempt, exists := at.attempts[ip]
	if !exists || now.Sub(attempt.firstFailed) > at.window {
		attempt = &authAttempt{firstFailed: now}
		at.attempts[ip] = attempt
	}

	attempt.failedCount++
	if attempt.failedCount >= at.maxFailures {
		attempt.lockedUntil = now.Add(at.lockout)
		return true
	}
	return false
}

// recordSuccess clears failed attempts for an IP
func (at *authAttemptTracker) recordSuccess(ip string) {
	at.mu.Lock()
	defer at.mu.Unlock()
	delete(at.attempts, ip)
}

// StartCleanup starts periodic removal of stale entries. Calling it twice is a no-op.
func (at *authAttemptTracker) StartCleanup() {
	at.cleanupOnce.Do(func() {
		at.stopCh = make(chan struct{})
		interval := at.cleanupInterval
		if interval == 0 {
			interval = at.window
		}

		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					at.cleanup()
				case <-at.stopCh:
					return
				}
			}
		}()
	})
}

// StopCleanup stops the cleanup goroutine
func (at *authAttemptTracker) StopCleanup() {
	at.stopOnce.Do(func() {
		if at.stopCh != nil {
			close(at.stopCh)
		}
	})
}

func (at *authAttemptTracker) cleanup() {
	at.mu.Lock()
	defer at.mu.Unlock()

	now := at.now()
	for ip, attempt := range at.attempts {
		if now.After(attempt.lockedUntil) && now.Sub(attempt.firstFailed) > at.window {
			delete(at.attempts, ip)
		}
	}
}

// AuditLog logs security-relevant events for audit trail
func AuditLog(eventType, clientIP, details string) {
	logger.Info("AUDIT",
		zap.String("event", eventType),
		zap.String("client_ip", clientIP),
		zap.String("details", details),
		zap.Time("timestamp", time.Now()),
	)
}

// rateLimiter is a fixed window limiter per IP
type rateLimiter struct {
	mu         sync.Mutex
	requests   map[string]*tokenBucket
	rate       int           // requests per window
	window     time.Duration // time window
	maxEntries int           // tracked IPs before new ones are refused
	now        func() time.Time
	stopCh     chan struct{}
}

// tokenBucket tracks request counts for rate limiting
type tokenBucket struct {
	tokens    int
	lastReset time.Time
}

func newRateLimiter(rate int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		requests:   make(map[string]*tokenBucket),
		rate:       rate,
		window:     window,
		maxEntries: MaxRateLimiterEntries,
		now:        time.Now,
	}
}

// Allow reports whether a request from ip fits in the current window
func (rl *rateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	bucket, exists := rl.requests[ip]
	if !exists {
		// At capacity new IPs are refused until cleanup frees room
		if len(rl.requests) >= rl.maxEntries {
			logger.Warn("Rate limiter at max capacity, rejecting new IP",
				zap.String("ip", ip),
				zap.Int("current_entries", len(rl.requests)))
			return false
		}
		rl.requests[ip] = &tokenBucket{tokens: rl.rate - 1, lastReset: now}
		return true
	}

	if now.Sub(bucket.lastReset) >= rl.window {
		bucket.tokens = rl.rate - 1
		bucket.lastReset = now
		return true
	}
	if bucket.tokens > 0 {
		bucket.tokens--
		return true
	}
	return false
}

// StartCleanup periodically drops IPs that have been quiet for two windows
func (rl *rateLimiter) StartCleanup() {
	rl.stopCh = make(chan struct{})
	go func() {
		ticker := time.NewTicker(rl.window * 2)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rl.cleanup()
			case <-rl.stopCh:
				return
			}
		}
	}()
}

// StopCleanup stops the background cleanup goroutine
func (rl *rateLimiter) StopCleanup() {
	if rl.stopCh != nil {
		close(rl.stopCh)
	}
}

func (rl *rateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for ip, bucket := range rl.requests {
		if now.Sub(bucket.lastReset) >= rl.window*2 {
			delete(rl.requests, ip)
		}
	}
}

// apiKeyAuthMiddleware checks the X-API-Key header against key in constant
// time. Repeated failures from one IP lock that IP out for a while.
func apiKeyAuthMiddleware(key string, tracker *authAttemptTracker) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := GetClientIP(r)

			if remaining := tracker.remainingLockout(clientIP); remaining > 0 {
				AuditLog(AuditEventAuthBlocked, clientIP, "IP temporarily blocked due to too many failed attempts")
				logger.Warn("Authentication blocked: IP temporarily banned",
					zap.String("ip", clientIP),
					zap.String("remaining", formatDuration(remaining)))
				w.Header().Set("Retry-After", strconv.Itoa(int(remaining.Seconds())))
				sendError(w, http.StatusTooManyRequests, ErrTooManyAuthAttempts, nil)
				return
			}

			apiKey := r.Header.Get(HeaderXAPIKey)
			reason := ""
			switch {
			case apiKey == "":
				reason = ErrMissingAPIKey
			case subtle.ConstantTimeCompare([]byte(apiKey), []byte(key)) != 1:
				reason = ErrInvalidAPIKey
			}
			if reason != "" {
				locked := tracker.recordFailure(clientIP)
				AuditLog(AuditEventAuthFailure, clientIP, reason)
				logger.Warn("Authentication failed",
					zap.String("ip", clientIP),
					zap.String("method", r.Method),
					zap.String("reason", reason),
					zap.Bool("locked_out", locked))
				sendError(w, http.StatusUnauthorized, MsgUnauthorized, reason)
				return
			}

			tracker.recordSuccess(clientIP)
			AuditLog(AuditEventAuthSuccess, clientIP, "Authentication successful")
			next.ServeHTTP(w, r)
		})
	}
}

// rateLimitMiddleware creates a middleware that limits requests per IP
func rateLimitMiddleware(rl *rateLimiter) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Keyed on GetClientIP, so the limit is only as strong as the proxy that sets X-Real-IP
			if !rl.Allow(GetClientIP(r)) {
				sendError(w, http.StatusTooManyRequests, ErrRateLimitExceeded, nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// securityHeadersMiddleware adds security headers to all responses
func securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")

		// Swagger UI needs inline styles/scripts and data URIs for images
		if strings.HasPrefix(r.URL.Path, "/swagger") {
			w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data:")
		} else {
			w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
			w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		}

		next.ServeHTTP(w, r)
	})
}
