package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cepat-Kilat-Teknologi/tenda-relay/internal/tenda/tendatest"
)

func TestHealthCheck(t *testing.T) {
	router, handler := setupTestServer(t, tendatest.CookieOnOK, nil)

	rr := doRequest(handler, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rr.Code)
	body := decodeEnvelope(t, rr)
	assert.Equal(t, StatusSuccess, body["status"])
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "", body["message"])
	assert.Equal(t, map[string]interface{}{"status": "healthy"}, body["data"])
	assert.Zero(t, router.Logins(), "health never contacts the router")
}

func TestRouting(t *testing.T) {
	_, handler := setupTestServer(t, tendatest.CookieOnOK, nil)

	t.Run("Unknown path", func(t *testing.T) {
		rr := doRequest(handler, http.MethodPost, "/api/doesNotExist", "")
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Wrong method", func(t *testing.T) {
		rr := doRequest(handler, http.MethodGet, "/api/getGuestWifiStatus", "")
		assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	})

	t.Run("Swagger document", func(t *testing.T) {
		rr := doRequest(handler, http.MethodGet, "/swagger/doc.json", "")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Tenda Relay API")
		assert.Contains(t, rr.Body.String(), "/api/toggleGuestWifi")
	})

	t.Run("Security headers on every response", func(t *testing.T) {
		rr := doRequest(handler, http.MethodGet, "/health", "")
		assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	})
}

func TestCORS(t *testing.T) {
	_, handler := setupTestServer(t, tendatest.CookieOnOK, func(cfg *Config) {
		cfg.Server.CORSAllowedOrigins = []string{"https://admin.example"}
		cfg.Server.MiddlewareAuth = true
		cfg.Server.AuthKey = mockAPIKey
	})

	preflight := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/api/getGuestWifiStatus", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", HeaderXAPIKey)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr
	}

	t.Run("Allowed origin", func(t *testing.T) {
		rr := preflight("https://admin.example")
		assert.Equal(t, http.StatusOK, rr.Code, "preflight is answered before authentication")
		assert.Equal(t, "https://admin.example", rr.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
	})

	t.Run("Other origin", func(t *testing.T) {
		rr := preflight("https://evil.example")
		assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestAPIKeyRequiredWhenEnabled(t *testing.T) {
	router, handler := setupTestServer(t, tendatest.CookieOnOK, func(cfg *Config) {
		cfg.Server.MiddlewareAuth = true
		cfg.Server.AuthKey = mockAPIKey
	})

	rr := doRequest(handler, http.MethodPost, "/api/getGuestWifiStatus", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Zero(t, router.Logins())

	req := httptest.NewRequest(http.MethodPost, "/api/getGuestWifiStatus", nil)
	req.Header.Set(HeaderXAPIKey, mockAPIKey)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	t.Run("Health stays open", func(t *testing.T) {
		rr := doRequest(handler, http.MethodGet, "/health", "")
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

// --- runServer Tests ---

func withServerOverrides(t *testing.T) {
	t.Helper()
	origNew, origShutdown := newHTTPServer, serverShutdown
	t.Cleanup(func() {
		newHTTPServer = origNew
		serverShutdown = origShutdown
	})
}

func TestRunServer_ContextCancel(t *testing.T) {
	withServerOverrides(t)
	router := tendatest.NewRouter(mockRouterPassword, tendatest.CookieOnOK)
	t.Cleanup(router.Close)

	cfg := newTestConfig(router.URL)
	cfg.Server.Addr = "127.0.0.1:0"
	shutdownCalled := make(chan struct{})
	serverShutdown = func(ctx context.Context, server *http.Server) error {
		close(shutdownCalled)
		return server.Shutdown(ctx)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runServer(ctx, cfg) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("runServer did not return after cancel")
	}
	select {
	case <-shutdownCalled:
	default:
		t.Fatal("shutdown was not called")
	}
}

func TestRunServer_ShutdownError(t *testing.T) {
	withServerOverrides(t)
	cfg := newTestConfig("192.0.2.1")
	cfg.Server.Addr = "127.0.0.1:0"
	serverShutdown = func(_ context.Context, server *http.Server) error {
		_ = server.Close()
		return errors.New("shutdown failed")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.EqualError(t, runServer(ctx, cfg), "shutdown failed")
}

func TestRunServer_AddressInUse(t *testing.T) {
	withServerOverrides(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	cfg := newTestConfig("192.0.2.1")
	cfg.Server.Addr = ln.Addr().String()

	done := make(chan error, 1)
	go func() { done <- runServer(context.Background(), cfg) }()

	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("runServer did not report the listen error")
	}
}

func TestNewHTTPServer(t *testing.T) {
	server := newHTTPServer(":0", http.NotFoundHandler())
	assert.Equal(t, ":0", server.Addr)
	assert.Equal(t, DefaultReadHeaderTimeout, server.ReadHeaderTimeout)
}
