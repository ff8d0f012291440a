package main

import "time"

// Environment variable names
const (
	EnvAdminURL           = "ADMIN_URL"
	EnvAdminPassword      = "ADMIN_PASSWORD"
	EnvServerAddr         = "SERVER_ADDR"
	EnvLoginMaxRetries    = "LOGIN_MAX_RETRIES"
	EnvLoginLockout       = "LOGIN_LOCKOUT_SECONDS"
	EnvDeviceTimeout      = "DEVICE_TIMEOUT_SECONDS"
	EnvCacheTTL           = "CACHE_TTL_SECONDS"
	EnvLogLevel           = "LOG_LEVEL"
	EnvMiddlewareAuth     = "MIDDLEWARE_AUTH"
	EnvAuthKey            = "AUTH_KEY"
	EnvCORSAllowedOrigins = "CORS_ALLOWED_ORIGINS"
	EnvCORSMaxAge         = "CORS_MAX_AGE"
	EnvRateLimitRequests  = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow    = "RATE_LIMIT_WINDOW"

	// Guest network values posted with every toggle
	EnvGuestSSID24G       = "GUEST_SSID_24G"
	EnvGuestSSID5G        = "GUEST_SSID_5G"
	EnvGuestPassword24G   = "GUEST_PASSWORD_24G"
	EnvGuestPassword5G    = "GUEST_PASSWORD_5G"
	EnvGuestEffectiveTime = "GUEST_EFFECTIVE_TIME"
	EnvGuestShareSpeed    = "GUEST_SHARE_SPEED"
)

// Server and device defaults
const (
	DefaultServerAddr        = ":3001"
	DefaultLogLevel          = "info"
	DefaultDeviceTimeout     = 10 * time.Second
	DefaultCacheTTL          = 5 * time.Second
	DefaultShutdownTimeout   = 30 * time.Second
	DefaultRequestTimeout    = 60 * time.Second
	DefaultReadHeaderTimeout = 10 * time.Second
	DefaultCLITimeout        = 30 * time.Second

	// DefaultAuthKey is empty on purpose, AUTH_KEY must be set when MIDDLEWARE_AUTH is on
	DefaultAuthKey = ""
)

// CORS and rate limit defaults
const (
	DefaultCORSAllowedOrigins = "*"
	DefaultCORSMaxAge         = 86400 // seconds
	DefaultRateLimitRequests  = 100   // requests per window
	DefaultRateLimitWindow    = 60    // seconds
	MaxRateLimiterEntries     = 10000
)

// API key brute force protection
const (
	HeaderXAPIKey         = "X-API-Key"
	MaxFailedAuthAttempts = 5
	AuthAttemptWindow     = 5 * time.Minute
	AuthLockoutDuration   = 15 * time.Minute
)

// Request limits
const (
	MaxRequestBodySize = 1 << 10 // the only body is {"turnOnWifi": bool}
)

// Cache keys
const (
	cacheKeyStatus = "guest_status"
	cacheKeyUsers  = "guest_users"
)

// Audit event types
const (
	AuditEventAuthSuccess = "auth_success"
	AuditEventAuthFailure = "auth_failure"
	AuditEventAuthBlocked = "auth_blocked"
	AuditEventGuestToggle = "guest_wifi_toggle"
	AuditEventCacheClear  = "cache_clear"
)

// Response status values
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error messages
const (
	ErrInvalidJSON          = "Invalid JSON format"
	ErrInvalidContentType   = "Content-Type must be application/json"
	ErrRequestBodyTooLarge  = "Request body too large"
	ErrTurnOnWifiRequired   = "turnOnWifi (boolean) is required"
	ErrMissingAPIKey        = "Missing API key"
	ErrInvalidAPIKey        = "Invalid API key"
	ErrTooManyAuthAttempts  = "Too many failed authentication attempts. Please try again later."
	ErrRateLimitExceeded    = "Rate limit exceeded. Please try again later."
	ErrToggleGuestWifi      = "Failed to toggle guest WiFi"
	ErrGetGuestWifiStatus   = "Failed to get guest WiFi status"
	ErrGetGuestWifiUsers    = "Failed to get guest WiFi users"
	ErrUnexpectedInternal   = "Unexpected internal error"
	ErrRouterNotConfigured  = "ADMIN_URL and ADMIN_PASSWORD must be set"
	ErrAuthKeyNotConfigured = "MIDDLEWARE_AUTH is enabled but AUTH_KEY is not set"
)

// Success messages
const (
	MsgGuestWifiToggled = "Guest WiFi switched"
	MsgCacheCleared     = "Cache cleared"
	MsgUnauthorized     = "Unauthorized"
)
