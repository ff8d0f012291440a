package tenda

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorType represents the category of a router communication failure
type ErrorType int

const (
	// ErrTypeTransport covers network, DNS and connection failures and
	// responses with a status the protocol does not use.
	ErrTypeTransport ErrorType = iota
	// ErrTypeCredentialRejected means the router sent the login page back.
	ErrTypeCredentialRejected
	// ErrTypeAuthExhausted means the login attempt bound was reached.
	ErrTypeAuthExhausted
	// ErrTypeUnexpectedResponse means the router answered with a payload
	// that is neither the expected JSON nor a login redirect.
	ErrTypeUnexpectedResponse
	// ErrTypeSessionRecoveryFailed means a fresh login did not make the
	// router return a parseable response.
	ErrTypeSessionRecoveryFailed
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeTransport:
		return "TransportError"
	case ErrTypeCredentialRejected:
		return "CredentialRejected"
	case ErrTypeAuthExhausted:
		return "AuthExhausted"
	case ErrTypeUnexpectedResponse:
		return "UnexpectedResponseShape"
	case ErrTypeSessionRecoveryFailed:
		return "SessionRecoveryFailed"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// Error is returned by every operation in this package
type Error struct {
	Type       ErrorType // Category of failure
	Op         string    // Operation that failed (e.g. "login", "WifiGuestGet")
	Message    string    // Human-readable message
	StatusCode int       // HTTP status from the router, 0 if none
	Err        error     // Underlying cause, if any
}

// Sentinels for errors.Is. Matching is by Type only.
var (
	ErrTransport             = &Error{Type: ErrTypeTransport}
	ErrCredentialRejected    = &Error{Type: ErrTypeCredentialRejected}
	ErrAuthExhausted         = &Error{Type: ErrTypeAuthExhausted}
	ErrUnexpectedResponse    = &Error{Type: ErrTypeUnexpectedResponse}
	ErrSessionRecoveryFailed = &Error{Type: ErrTypeSessionRecoveryFailed}
)

func (e *Error) Error() string {
	msg := e.Type.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error for error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same Type.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Type == e.Type
}

func newTransportError(op string, err error, msg string) *Error {
	return &Error{Type: ErrTypeTransport, Op: op, Message: msg, Err: err}
}

func newStatusError(op string, status int) *Error {
	return &Error{
		Type:       ErrTypeTransport,
		Op:         op,
		Message:    fmt.Sprintf("unexpected status %d", status),
		StatusCode: status,
	}
}

func newRejectedError(msg string, status int) *Error {
	return &Error{Type: ErrTypeCredentialRejected, Op: opLogin, Message: msg, StatusCode: status}
}

func newShapeError(op string, err error, msg string) *Error {
	return &Error{Type: ErrTypeUnexpectedResponse, Op: op, Message: msg, Err: err}
}

// TypeOf returns the ErrorType carried by err and false when err does not
// come from this package.
func TypeOf(err error) (ErrorType, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Type, true
	}
	return 0, false
}

// IsTransient reports whether retrying the same call later may succeed.
// Credential problems are never transient.
func IsTransient(err error) bool {
	t, ok := TypeOf(err)
	if !ok {
		return false
	}
	return t == ErrTypeTransport || t == ErrTypeSessionRecoveryFailed
}
