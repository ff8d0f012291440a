package tenda

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// SessionState is the diagnostic state of a SessionManager
type SessionState int

const (
	StateNoSession SessionState = iota
	StateAuthenticated
	StateExhausted
)

func (s SessionState) String() string {
	switch s {
	case StateNoSession:
		return "no_session"
	case StateAuthenticated:
		return "authenticated"
	case StateExhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("SessionState(%d)", s)
	}
}

// SessionManager holds the single login session for one router
type SessionManager struct {
	creds      Credentials
	httpClient *http.Client
	maxRetries int
	lockout    time.Duration
	logger     *zap.Logger
	now        func() time.Time

	mu          sync.Mutex
	session     string
	attempts    int
	exhaustedAt time.Time
}

// NewSessionManager creates a manager with no session. Nothing is sent to
// the router until the first Session or Login call.
func NewSessionManager(creds Credentials, opts ...Option) *SessionManager {
	o := buildOptions(opts)
	return &SessionManager{
		creds:      creds,
		httpClient: o.httpClient,
		maxRetries: o.maxRetries,
		lockout:    o.lockout,
		logger:     o.logger.With(zap.String("host", creds.Host())),
		now:        o.now,
	}
}

// Session returns the current session cookie, logging in first if there is
// none. Callers must ask again for every request.
func (m *SessionManager) Session(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session != "" {
		return m.session, nil
	}
	return m.login(ctx)
}

// Login performs a fresh login, replacing any current session.
func (m *SessionManager) Login(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.login(ctx)
}

// Invalidate drops the session so the next Session call logs in again.
// When stale is non-empty and another caller already replaced it with a
// newer session, the newer session is kept.
func (m *SessionManager) Invalidate(stale string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if stale != "" && m.session != stale {
		return
	}
	if m.session != "" {
		m.logger.Debug("Router session invalidated")
	}
	m.session = ""
}

// State reports whether the manager holds a session or is locked out.
// An elapsed lockout is cleared here too.
func (m *SessionManager) State() SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case m.exhausted():
		return StateExhausted
	case m.session != "":
		return StateAuthenticated
	default:
		return StateNoSession
	}
}

// ResetLoginAttempts clears the rejected login counter
func (m *SessionManager) ResetLoginAttempts() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts = 0
	m.exhaustedAt = time.Time{}
}

// login runs the bounded login loop. m.mu must be held.
func (m *SessionManager) login(ctx context.Context) (string, error) {
	m.session = ""
	var lastErr error
	for {
		if m.exhausted() {
			return "", &Error{
				Type:    ErrTypeAuthExhausted,
				Op:      opLogin,
				Message: fmt.Sprintf("maximum login attempts reached (%d)", m.maxRetries),
				Err:     lastErr,
			}
		}

		cookie, err := m.attempt(ctx)
		if err == nil {
			m.attempts = 0
			m.exhaustedAt = time.Time{}
			m.session = cookie
			m.logger.Info("Router login successful")
			return cookie, nil
		}

		if !errors.Is(err, ErrCredentialRejected) {
			m.logger.Error("Router login failed", zap.Error(err))
			return "", err
		}

		lastErr = err
		m.attempts++
		if m.attempts >= m.maxRetries {
			m.exhaustedAt = m.now()
		}
		m.logger.Warn("Router rejected login",
			zap.Int("attempt", m.attempts),
			zap.Int("max", m.maxRetries),
			zap.Error(err))
	}
}

// exhausted reports whether the attempt bound is reached, clearing it once
// the lockout has elapsed.
func (m *SessionManager) exhausted() bool {
	if m.attempts < m.maxRetries {
		return false
	}
	if m.lockout > 0 && m.now().Sub(m.exhaustedAt) >= m.lockout {
		m.logger.Info("Login lockout elapsed, attempts reset", zap.Duration("lockout", m.lockout))
		m.attempts = 0
		m.exhaustedAt = time.Time{}
		return false
	}
	return true
}

// attempt sends the credential form once and interprets the answer
func (m *SessionManager) attempt(ctx context.Context) (string, error) {
	body := "username=" + url.QueryEscape(AdminUsername) + "&password=" + m.creds.PasswordHash()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.creds.BaseURL()+PathLogin, strings.NewReader(body))
	if err != nil {
		return "", newTransportError(opLogin, err, "build login request")
	}
	req.Header.Set("Content-Type", ContentTypeForm)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", newTransportError(opLogin, err, "login request failed")
	}
	defer drainClose(resp.Body)

	cookie := cookieHeader(resp)
	switch {
	case resp.StatusCode == http.StatusOK:
		if cookie == "" {
			return "", newRejectedError("no session cookie issued", resp.StatusCode)
		}
		return cookie, nil
	case isRedirect(resp.StatusCode):
		return m.confirmRedirect(ctx, req.URL, resp, cookie)
	default:
		return "", newStatusError(opLogin, resp.StatusCode)
	}
}

// confirmRedirect handles the redirect variant: main.html means accepted,
// and the landing page is fetched to confirm it and possibly pick up the
// cookie.
func (m *SessionManager) confirmRedirect(ctx context.Context, from *url.URL, resp *http.Response, cookie string) (string, error) {
	target, err := redirectTarget(from, resp)
	if err != nil {
		return "", newRejectedError("redirect without a usable Location", resp.StatusCode)
	}
	switch landingPage(target) {
	case PageMain:
	case PageLogin:
		return "", newRejectedError("redirected to the login page", resp.StatusCode)
	default:
		return "", newRejectedError(fmt.Sprintf("unexpected redirect target %q", target.Path), resp.StatusCode)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return "", newTransportError(opLogin, err, "build landing page request")
	}
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	landing, err := m.httpClient.Do(req)
	if err != nil {
		return "", newTransportError(opLogin, err, "landing page request failed")
	}
	defer drainClose(landing.Body)

	if c := cookieHeader(landing); c != "" {
		cookie = c
	}
	switch {
	case landing.StatusCode == http.StatusOK:
	case isRedirect(landing.StatusCode):
		next, err := redirectTarget(target, landing)
		if err != nil || landingPage(next) == PageLogin {
			return "", newRejectedError("landing page sent us back to login", landing.StatusCode)
		}
	default:
		return "", newStatusError(opLogin, landing.StatusCode)
	}

	if cookie == "" {
		return "", newRejectedError("no session cookie issued", landing.StatusCode)
	}
	return cookie, nil
}

// cookieHeader renders the cookies set by resp as a Cookie header value.
// Cleared cookies (empty value) are ignored.
func cookieHeader(resp *http.Response) string {
	var parts []string
	for _, c := range resp.Cookies() {
		if c.Value == "" {
			continue
		}
		parts = append(parts, c.Name+"="+c.Value)
	}
	return strings.Join(parts, "; ")
}

func isRedirect(status int) bool {
	return status >= 300 && status < 400 && status != http.StatusNotModified
}

func redirectTarget(from *url.URL, resp *http.Response) (*url.URL, error) {
	loc := resp.Header.Get("Location")
	if loc == "" {
		return nil, errors.New("empty Location header")
	}
	target, err := from.Parse(loc)
	if err != nil {
		return nil, errors.Wrap(err, "parse Location")
	}
	return target, nil
}

// landingPage returns the file name of a redirect target, lower-cased
func landingPage(u *url.URL) string {
	return strings.ToLower(path.Base(u.Path))
}

// drainClose reads a bounded amount of the body so the connection can be
// reused, then closes it.
func drainClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 64<<10))
	_ = body.Close()
}
