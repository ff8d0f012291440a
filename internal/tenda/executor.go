package tenda

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// maxResponseSize caps how much of a router response is read
const maxResponseSize = 1 << 20

// operationAttempts is the first try plus one retry after re-authentication
const operationAttempts = 2

// errSessionExpired marks responses that show the router dropped the session
var errSessionExpired = errors.New("session expired")

// SessionProvider hands out session cookies and forgets dead ones.
// *SessionManager implements it.
type SessionProvider interface {
	Session(ctx context.Context) (string, error)
	Invalidate(session string)
}

// Request describes one router call
type Request struct {
	Method string      // defaults to GET
	Path   string      // e.g. PathGuestGet
	Header http.Header // extra headers
	Form   url.Values  // form body, sent url-encoded when non-nil
}

func (r Request) op() string {
	return path.Base(r.Path)
}

// Executor issues authenticated router requests
type Executor struct {
	baseURL    string
	sessions   SessionProvider
	httpClient *http.Client
	logger     *zap.Logger
}

// NewExecutor creates an executor that sends requests to baseURL with
// sessions obtained from sessions.
func NewExecutor(baseURL string, sessions SessionProvider, opts ...Option) *Executor {
	o := buildOptions(opts)
	return &Executor{
		baseURL:    strings.TrimRight(baseURL, "/"),
		sessions:   sessions,
		httpClient: o.httpClient,
		logger:     o.logger,
	}
}

// Do sends req with the current session and decodes the JSON answer into
// out. A nil out accepts any non-HTML body. If the router answers with its
// login page the session is dropped, a new one obtained and the request
// sent once more; a second login page yields ErrSessionRecoveryFailed.
func (e *Executor) Do(ctx context.Context, req Request, out interface{}) error {
	op := req.op()
	log := e.logger.With(zap.String("op", op), zap.String("op_id", uuid.NewString()))

	var lastErr error
	for attempt := 1; attempt <= operationAttempts; attempt++ {
		session, err := e.sessions.Session(ctx)
		if err != nil {
			log.Error("No router session", zap.Error(err))
			return err
		}

		body, err := e.send(ctx, req, session)
		if err == nil {
			err = decode(op, body, out)
		}
		if err == nil {
			log.Debug("Router request completed", zap.Int("attempt", attempt))
			return nil
		}
		if !errors.Is(err, errSessionExpired) {
			log.Error("Router request failed", zap.Int("attempt", attempt), zap.Error(err))
			return err
		}

		lastErr = err
		if attempt < operationAttempts {
			log.Warn("Router returned the login page, re-authenticating", zap.Error(err))
			e.sessions.Invalidate(session)
		}
	}

	log.Error("Session recovery failed", zap.Error(lastErr))
	return &Error{
		Type:    ErrTypeSessionRecoveryFailed,
		Op:      op,
		Message: "router kept returning the login page after re-authentication",
		Err:     lastErr,
	}
}

// send performs one HTTP round-trip and returns the body of a 2xx answer
func (e *Executor) send(ctx context.Context, req Request, session string) ([]byte, error) {
	op := req.op()
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	var body io.Reader
	if req.Form != nil {
		body = strings.NewReader(req.Form.Encode())
	}

	hreq, err := http.NewRequestWithContext(ctx, method, e.baseURL+req.Path, body)
	if err != nil {
		return nil, newTransportError(op, err, "build request")
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			hreq.Header.Add(k, v)
		}
	}
	if req.Form != nil && hreq.Header.Get("Content-Type") == "" {
		hreq.Header.Set("Content-Type", ContentTypeForm)
	}
	hreq.Header.Set("Cookie", session)

	resp, err := e.httpClient.Do(hreq)
	if err != nil {
		return nil, newTransportError(op, err, "request failed")
	}
	defer drainClose(resp.Body)

	if isRedirect(resp.StatusCode) {
		target, err := redirectTarget(hreq.URL, resp)
		if err == nil && landingPage(target) == PageLogin {
			return nil, errors.Wrapf(errSessionExpired, "redirected to %s", target.Path)
		}
		return nil, newStatusError(op, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newStatusError(op, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, newTransportError(op, err, "read response body")
	}
	return data, nil
}

// decode classifies a 2xx body: HTML or non-JSON means the session is gone,
// JSON of the wrong shape is ErrUnexpectedResponse.
func decode(op string, body []byte, out interface{}) error {
	trimmed := bytes.TrimSpace(body)
	if out == nil {
		if bytes.HasPrefix(trimmed, []byte("<")) {
			return errors.Wrap(errSessionExpired, "HTML page instead of an API response")
		}
		return nil
	}
	if !json.Valid(trimmed) {
		return errors.Wrap(errSessionExpired, "response is not JSON")
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return newShapeError(op, err, "decode response")
	}
	return nil
}
