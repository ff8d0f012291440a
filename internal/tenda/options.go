package tenda

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Defaults for a router client
const (
	DefaultMaxLoginRetries = 3
	DefaultLoginLockout    = 5 * time.Minute
	DefaultTimeout         = 10 * time.Second
)

type options struct {
	httpClient *http.Client
	timeout    time.Duration
	maxRetries int
	lockout    time.Duration
	logger     *zap.Logger
	now        func() time.Time
	guest      GuestNetworkSettings
}

// Option configures a SessionManager, Executor or Client
type Option func(*options)

// WithHTTPClient sets the transport used for router requests. The client is
// copied; redirect following is always disabled on the copy.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithTimeout bounds every single router request
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithMaxLoginRetries sets how many rejected logins exhaust the manager
func WithMaxLoginRetries(n int) Option {
	return func(o *options) { o.maxRetries = n }
}

// WithLoginLockout sets how long the manager stays exhausted. Zero keeps it
// exhausted until ResetLoginAttempts is called.
func WithLoginLockout(d time.Duration) Option {
	return func(o *options) { o.lockout = d }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithGuestNetworkSettings sets the values sent with every WifiGuestSet
func WithGuestNetworkSettings(s GuestNetworkSettings) Option {
	return func(o *options) { o.guest = s }
}

func withClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{
		timeout:    DefaultTimeout,
		maxRetries: DefaultMaxLoginRetries,
		lockout:    DefaultLoginLockout,
		now:        time.Now,
		guest:      DefaultGuestNetworkSettings(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.maxRetries <= 0 {
		o.maxRetries = DefaultMaxLoginRetries
	}
	o.httpClient = noRedirectClient(o.httpClient, o.timeout)
	return o
}

// noRedirectClient copies hc so the login redirect stays visible to us
func noRedirectClient(hc *http.Client, timeout time.Duration) *http.Client {
	var c http.Client
	if hc != nil {
		c = *hc
	}
	if timeout > 0 {
		c.Timeout = timeout
	}
	c.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return &c
}
