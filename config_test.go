package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Cepat-Kilat-Teknologi/tenda-relay/internal/tenda"
)

// clearConfigEnv unsets every variable loadConfig reads for the duration of the test
func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvAdminURL, EnvAdminPassword, EnvServerAddr, EnvLoginMaxRetries, EnvLoginLockout,
		EnvDeviceTimeout, EnvCacheTTL, EnvLogLevel, EnvMiddlewareAuth, EnvAuthKey,
		EnvCORSAllowedOrigins, EnvCORSMaxAge, EnvRateLimitRequests, EnvRateLimitWindow,
		EnvGuestSSID24G, EnvGuestSSID5G, EnvGuestPassword24G, EnvGuestPassword5G,
		EnvGuestEffectiveTime, EnvGuestShareSpeed,
	} {
		if old, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { _ = os.Setenv(key, old) })
			_ = os.Unsetenv(key)
		}
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "relay.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// --- Environment Variable Tests ---

func TestGetEnv(t *testing.T) {
	t.Setenv("TEST_ENV_VAR", "hello_world")
	assert.Equal(t, "hello_world", getEnv("TEST_ENV_VAR", "default"))
	assert.Equal(t, "default", getEnv("TEST_ENV_VAR_UNSET", "default"))

	t.Setenv("TEST_ENV_EMPTY", "")
	assert.Equal(t, "", getEnv("TEST_ENV_EMPTY", "default"), "set but empty wins over the default")
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		value string
		want  int
	}{
		{"", 7},
		{"12", 12},
		{"abc", 7},
		{"0", 7},
		{"-3", 7},
	}
	for _, tt := range tests {
		t.Run("value "+tt.value, func(t *testing.T) {
			t.Setenv("TEST_ENV_INT", tt.value)
			assert.Equal(t, tt.want, getEnvInt("TEST_ENV_INT", 7, 1))
		})
	}

	t.Run("Zero allowed when minimum is zero", func(t *testing.T) {
		t.Setenv("TEST_ENV_SECONDS", "0")
		assert.Equal(t, time.Duration(0), getEnvSeconds("TEST_ENV_SECONDS", time.Minute, 0))
	})
}

func TestSplitOrigins(t *testing.T) {
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, splitOrigins(" https://a.example , ,https://b.example"))
	assert.Equal(t, []string{"*"}, splitOrigins("*"))
}

// --- loadConfig Tests ---

func TestLoadConfig_Defaults(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv(EnvAdminURL, "192.168.0.1")
	t.Setenv(EnvAdminPassword, "secret")

	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "192.168.0.1", cfg.Router.URL)
	assert.Equal(t, tenda.DefaultMaxLoginRetries, cfg.Router.MaxLoginRetries)
	assert.Equal(t, tenda.DefaultLoginLockout, cfg.Router.LoginLockout)
	assert.Equal(t, DefaultServerAddr, cfg.Server.Addr)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, DefaultCacheTTL, cfg.Server.CacheTTL)
	assert.Equal(t, tenda.DefaultGuestNetworkSettings(), cfg.Guest)
	assert.False(t, cfg.Server.MiddlewareAuth)
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	clearConfigEnv(t)
	path := writeConfigFile(t, `
router:
  url: 10.0.0.1
  password: from-file
  max_login_retries: 5
  login_lockout: 1m
server:
  addr: ":9000"
  cors_allowed_origins: ["https://admin.example"]
guest:
  ssid_2_4ghz: Lobby
  effective_time: "0"
log_level: debug
`)
	t.Setenv(EnvAdminPassword, "from-env")
	t.Setenv(EnvLoginLockout, "0")
	t.Setenv(EnvGuestShareSpeed, "1200")

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", cfg.Router.URL)
	assert.Equal(t, "from-env", cfg.Router.Password, "environment overrides the file")
	assert.Equal(t, 5, cfg.Router.MaxLoginRetries)
	assert.Equal(t, time.Duration(0), cfg.Router.LoginLockout)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, []string{"https://admin.example"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, "Lobby", cfg.Guest.SSID24GHz)
	assert.Equal(t, "Free WiFi 5G", cfg.Guest.SSID5GHz, "fields missing from the file keep defaults")
	assert.Equal(t, "0", cfg.Guest.EffectiveTime)
	assert.Equal(t, "1200", cfg.Guest.ShareSpeed)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		file string
	}{
		{"Missing router URL", map[string]string{EnvAdminPassword: "x"}, ""},
		{"Missing password", map[string]string{EnvAdminURL: "192.168.0.1"}, ""},
		{"Auth without key", map[string]string{EnvAdminURL: "r", EnvAdminPassword: "x", EnvMiddlewareAuth: "true"}, ""},
		{"Bad log level", map[string]string{EnvAdminURL: "r", EnvAdminPassword: "x", EnvLogLevel: "loud"}, ""},
		{"Malformed file", map[string]string{EnvAdminURL: "r", EnvAdminPassword: "x"}, "router: [unclosed"},
		{"Zero router timeout in file", map[string]string{EnvAdminURL: "r", EnvAdminPassword: "x"}, "router:\n  timeout: 0s"},
		{"Negative login lockout in file", map[string]string{EnvAdminURL: "r", EnvAdminPassword: "x"}, "router:\n  login_lockout: -1s"},
		{"Zero login retries in file", map[string]string{EnvAdminURL: "r", EnvAdminPassword: "x"}, "router:\n  max_login_retries: 0"},
		{"Zero rate limit window in file", map[string]string{EnvAdminURL: "r", EnvAdminPassword: "x"}, "server:\n  rate_limit_window: 0s"},
		{"Zero rate limit requests in file", map[string]string{EnvAdminURL: "r", EnvAdminPassword: "x"}, "server:\n  rate_limit_requests: 0"},
		{"Negative cache TTL in file", map[string]string{EnvAdminURL: "r", EnvAdminPassword: "x"}, "server:\n  cache_ttl: -5s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConfigEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeConfigFile(t, tt.file)
			}
			cfg, err := loadConfig(path)
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}

	t.Run("Zero durations that mean disabled are accepted", func(t *testing.T) {
		clearConfigEnv(t)
		t.Setenv(EnvAdminURL, "r")
		t.Setenv(EnvAdminPassword, "x")
		cfg, err := loadConfig(writeConfigFile(t, "router:\n  login_lockout: 0s\nserver:\n  cache_ttl: 0s\n"))
		require.NoError(t, err)
		assert.Zero(t, cfg.Router.LoginLockout)
		assert.Zero(t, cfg.Server.CacheTTL)
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := loadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

// --- Logger Tests ---

func TestInitLoggerWrapper(t *testing.T) {
	original := logger
	t.Cleanup(func() { logger = original })

	require.NoError(t, initLoggerWrapper("warn"))
	assert.False(t, logger.Core().Enabled(zap.InfoLevel))
	assert.True(t, logger.Core().Enabled(zap.WarnLevel))

	t.Run("Failure is wrapped", func(t *testing.T) {
		originalInit := initLogger
		t.Cleanup(func() { initLogger = originalInit })
		initLogger = func(string) (*zap.Logger, error) { return nil, errors.New("mock error") }

		err := initLoggerWrapper("info")
		assert.EqualError(t, err, "failed to initialize logger: mock error")
	})
}
