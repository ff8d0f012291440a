package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/Cepat-Kilat-Teknologi/tenda-relay/internal/tenda"
)

// Config holds everything the service needs to reach the router and serve the API.
// Values come from defaults, then an optional YAML file, then environment variables.
type Config struct {
	Router   RouterConfig               `yaml:"router"`
	Server   ServerConfig               `yaml:"server"`
	Guest    tenda.GuestNetworkSettings `yaml:"guest"`
	LogLevel string                     `yaml:"log_level"`
}

// RouterConfig describes the router admin interface
type RouterConfig struct {
	URL             string        `yaml:"url"`               // Host, host:port or full base URL
	Password        string        `yaml:"password"`          // Plaintext admin password
	MaxLoginRetries int           `yaml:"max_login_retries"` // Rejected logins before giving up
	LoginLockout    time.Duration `yaml:"login_lockout"`     // How long exhaustion lasts, 0 = until restart
	Timeout         time.Duration `yaml:"timeout"`           // Per request timeout
}

// ServerConfig describes the HTTP API
type ServerConfig struct {
	Addr               string        `yaml:"addr"`
	MiddlewareAuth     bool          `yaml:"middleware_auth"`
	AuthKey            string        `yaml:"auth_key"`
	CORSAllowedOrigins []string      `yaml:"cors_allowed_origins"`
	CORSMaxAge         int           `yaml:"cors_max_age"`
	RateLimitRequests  int           `yaml:"rate_limit_requests"`
	RateLimitWindow    time.Duration `yaml:"rate_limit_window"`
	CacheTTL           time.Duration `yaml:"cache_ttl"`
}

// defaultConfig returns the configuration used when nothing is overridden
func defaultConfig() *Config {
	return &Config{
		Router: RouterConfig{
			MaxLoginRetries: tenda.DefaultMaxLoginRetries,
			LoginLockout:    tenda.DefaultLoginLockout,
			Timeout:         DefaultDeviceTimeout,
		},
		Server: ServerConfig{
			Addr:               DefaultServerAddr,
			AuthKey:            DefaultAuthKey,
			CORSAllowedOrigins: []string{DefaultCORSAllowedOrigins},
			CORSMaxAge:         DefaultCORSMaxAge,
			RateLimitRequests:  DefaultRateLimitRequests,
			RateLimitWindow:    time.Duration(DefaultRateLimitWindow) * time.Second,
			CacheTTL:           DefaultCacheTTL,
		},
		Guest:    tenda.DefaultGuestNetworkSettings(),
		LogLevel: DefaultLogLevel,
	}
}

// loadConfig builds the configuration from defaults, the YAML file at path
// (skipped when empty) and the environment, then validates it.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides cfg with any environment variable that is set
func applyEnv(cfg *Config) {
	cfg.Router.URL = getEnv(EnvAdminURL, cfg.Router.URL)
	cfg.Router.Password = getEnv(EnvAdminPassword, cfg.Router.Password)
	cfg.Router.MaxLoginRetries = getEnvInt(EnvLoginMaxRetries, cfg.Router.MaxLoginRetries, 1)
	cfg.Router.LoginLockout = getEnvSeconds(EnvLoginLockout, cfg.Router.LoginLockout, 0)
	cfg.Router.Timeout = getEnvSeconds(EnvDeviceTimeout, cfg.Router.Timeout, 1)

	cfg.Server.Addr = getEnv(EnvServerAddr, cfg.Server.Addr)
	if v, ok := os.LookupEnv(EnvMiddlewareAuth); ok {
		cfg.Server.MiddlewareAuth = v == "true"
	}
	cfg.Server.AuthKey = getEnv(EnvAuthKey, cfg.Server.AuthKey)
	if v, ok := os.LookupEnv(EnvCORSAllowedOrigins); ok {
		cfg.Server.CORSAllowedOrigins = splitOrigins(v)
	}
	cfg.Server.CORSMaxAge = getEnvInt(EnvCORSMaxAge, cfg.Server.CORSMaxAge, 1)
	cfg.Server.RateLimitRequests = getEnvInt(EnvRateLimitRequests, cfg.Server.RateLimitRequests, 1)
	cfg.Server.RateLimitWindow = getEnvSeconds(EnvRateLimitWindow, cfg.Server.RateLimitWindow, 1)
	cfg.Server.CacheTTL = getEnvSeconds(EnvCacheTTL, cfg.Server.CacheTTL, 0)

	cfg.Guest.SSID24GHz = getEnv(EnvGuestSSID24G, cfg.Guest.SSID24GHz)
	cfg.Guest.SSID5GHz = getEnv(EnvGuestSSID5G, cfg.Guest.SSID5GHz)
	cfg.Guest.Password24GHz = getEnv(EnvGuestPassword24G, cfg.Guest.Password24GHz)
	cfg.Guest.Password5GHz = getEnv(EnvGuestPassword5G, cfg.Guest.Password5GHz)
	cfg.Guest.EffectiveTime = getEnv(EnvGuestEffectiveTime, cfg.Guest.EffectiveTime)
	cfg.Guest.ShareSpeed = getEnv(EnvGuestShareSpeed, cfg.Guest.ShareSpeed)

	cfg.LogLevel = getEnv(EnvLogLevel, cfg.LogLevel)
}

// validate refuses configurations the service cannot run with
func (c *Config) validate() error {
	if strings.TrimSpace(c.Router.URL) == "" || c.Router.Password == "" {
		return errors.New(ErrRouterNotConfigured)
	}
	// Starting with auth enabled but no key would leave the API open
	if c.Server.MiddlewareAuth && c.Server.AuthKey == "" {
		return fmt.Errorf("%s. Set AUTH_KEY environment variable or disable MIDDLEWARE_AUTH", ErrAuthKeyNotConfigured)
	}
	switch {
	case c.Router.Timeout <= 0:
		return fmt.Errorf("router timeout must be positive, got %s", c.Router.Timeout)
	case c.Router.MaxLoginRetries < 1:
		return fmt.Errorf("router max_login_retries must be at least 1, got %d", c.Router.MaxLoginRetries)
	case c.Router.LoginLockout < 0:
		return fmt.Errorf("router login_lockout must not be negative, got %s", c.Router.LoginLockout)
	case c.Server.RateLimitRequests < 1:
		return fmt.Errorf("server rate_limit_requests must be at least 1, got %d", c.Server.RateLimitRequests)
	case c.Server.RateLimitWindow <= 0:
		return fmt.Errorf("server rate_limit_window must be positive, got %s", c.Server.RateLimitWindow)
	case c.Server.CacheTTL < 0:
		return fmt.Errorf("server cache_ttl must not be negative, got %s", c.Server.CacheTTL)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return nil
}

// getEnv retrieves environment variable value with fallback to default if not set
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt parses an integer variable, keeping defaultValue when the
// variable is unset, malformed or below minValue.
func getEnvInt(key string, defaultValue, minValue int) int {
	str := getEnv(key, "")
	if str == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(str)
	if err != nil || n < minValue {
		return defaultValue
	}
	return n
}

// getEnvSeconds is getEnvInt for durations given in seconds
func getEnvSeconds(key string, defaultValue time.Duration, minSeconds int) time.Duration {
	n := getEnvInt(key, -1, minSeconds)
	if n < 0 {
		return defaultValue
	}
	return time.Duration(n) * time.Second
}

func splitOrigins(s string) []string {
	origins := strings.Split(s, ",")
	out := origins[:0]
	for _, o := range origins {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// initLoggerWrapper handles logger initialization and returns error
func initLoggerWrapper(level string) error {
	var err error
	logger, err = initLogger(level)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// Function to initialize logger (package-level variable for testing)
var initLogger = func(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
