// Package tenda is a session-aware client for the web-admin interface of
// Tenda consumer routers.
//
// The router has no real API. Its admin pages call a handful of /goform
// endpoints that are only usable with the cookie issued by the legacy login
// form at /login/Auth. This package logs in, keeps that cookie for as long
// as the router accepts it, and logs in again when a response shows the
// session was dropped on the device side.
//
// # Components
//
//   - SessionManager owns the credentials and the session cookie. Login is
//     an explicit bounded loop: a rejected attempt increments a counter and
//     once the counter reaches the configured maximum every further login
//     fails with ErrAuthExhausted until the lockout elapses.
//   - Executor issues one authenticated request. When the router answers
//     with its login page instead of JSON, the session is invalidated and
//     the request is retried exactly once.
//   - Client maps the guest WiFi endpoints onto typed results.
//
// # Usage Example
//
//	client := tenda.NewClient(tenda.NewCredentials("192.168.0.1", "secret"),
//	    tenda.WithLogger(logger))
//
//	status, err := client.GuestWifiStatus(ctx)
//	if err != nil {
//	    if errors.Is(err, tenda.ErrAuthExhausted) {
//	        // wrong password, do not retry
//	    }
//	    return err
//	}
//
// # Thread Safety
//
// A Client may be shared between goroutines. Session state is guarded by a
// single lock and a login runs under that lock, so concurrent callers never
// log in twice for the same expired session.
package tenda
