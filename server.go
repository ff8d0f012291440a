package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	_ "github.com/Cepat-Kilat-Teknologi/tenda-relay/docs"
)

// newHTTPServer creates the HTTP server (package-level variable for testing)
var newHTTPServer = func(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: DefaultReadHeaderTimeout,
	}
}

// serverShutdown stops the HTTP server (package-level variable for testing)
var serverShutdown = func(ctx context.Context, server *http.Server) error {
	return server.Shutdown(ctx)
}

// newRouter builds the chi router with the middleware chain and every route
func newRouter(cfg *Config, h *guestHandlers, rl *rateLimiter, tracker *authAttemptTracker) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(DefaultRequestTimeout))
	r.Use(rateLimitMiddleware(rl))
	r.Use(securityHeadersMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", HeaderXAPIKey},
		MaxAge:         cfg.Server.CORSMaxAge,
	}))

	// Health and docs stay outside authentication for load balancers and developers
	r.Get("/health", healthCheckHandler)
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Route("/api", func(r chi.Router) {
		if cfg.Server.MiddlewareAuth {
			r.Use(apiKeyAuthMiddleware(cfg.Server.AuthKey, tracker))
		}
		r.Post("/toggleGuestWifi", h.toggleGuestWifiHandler)
		r.Post("/getGuestWifiStatus", h.getGuestWifiStatusHandler)
		r.Post("/getGuestWifiUsers", h.getGuestWifiUsersHandler)
		r.Post("/cache/clear", h.clearCacheHandler)
	})
	return r
}

// runServer serves the API until ctx is cancelled or SIGINT/SIGTERM arrives
func runServer(ctx context.Context, cfg *Config) error {
	logger.Info("Starting server",
		zap.String("router", cfg.Router.URL),
		zap.Int("max_login_retries", cfg.Router.MaxLoginRetries),
		zap.Duration("login_lockout", cfg.Router.LoginLockout),
		zap.Duration("cache_ttl", cfg.Server.CacheTTL))
	logger.Info("Middleware authentication", zap.Bool("enabled", cfg.Server.MiddlewareAuth))
	logger.Info("CORS enabled", zap.Strings("allowed_origins", cfg.Server.CORSAllowedOrigins))
	logger.Info("Rate limiting configured",
		zap.Int("requests", cfg.Server.RateLimitRequests),
		zap.Duration("window", cfg.Server.RateLimitWindow))

	rl := newRateLimiter(cfg.Server.RateLimitRequests, cfg.Server.RateLimitWindow)
	rl.StartCleanup()
	defer rl.StopCleanup()

	tracker := newAuthAttemptTracker()
	tracker.StartCleanup()
	defer tracker.StopCleanup()

	handlers := newGuestHandlers(newTendaClient(cfg), newGuestCache(cfg.Server.CacheTTL))
	server := newHTTPServer(cfg.Server.Addr, newRouter(cfg, handlers, rl, tracker))

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server listening", zap.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serverErr:
		return err
	case <-quit:
		logger.Info("Shutdown signal received, starting graceful shutdown...")
	case <-ctx.Done():
		logger.Info("Context cancelled, starting graceful shutdown...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()
	if err := serverShutdown(shutdownCtx, server); err != nil {
		return err
	}
	logger.Info("Server exited properly")
	return nil
}
