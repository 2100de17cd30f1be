package retry

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/aws/smithy-go"
)

// ErrorKind is the discriminant used to classify failures without relying on
// the concrete Go type of the error.
type ErrorKind string

const (
	KindUnknown         ErrorKind = ""
	KindService         ErrorKind = "service"
	KindThrottling      ErrorKind = "throttling"
	KindReadTimeout     ErrorKind = "read_timeout"
	KindWaiter          ErrorKind = "waiter"
	KindConnection      ErrorKind = "connection"
	KindAuthentication  ErrorKind = "authentication"
	KindAPI             ErrorKind = "api"
	KindTimeout         ErrorKind = "timeout"
	KindExpectedTimeout ErrorKind = "expected_timeout"
)

var knownKinds = map[ErrorKind]struct{}{
	KindService:         {},
	KindThrottling:      {},
	KindReadTimeout:     {},
	KindWaiter:          {},
	KindConnection:      {},
	KindAuthentication:  {},
	KindAPI:             {},
	KindTimeout:         {},
	KindExpectedTimeout: {},
}

// Valid reports whether k is one of the kinds this package knows how to detect.
func (k ErrorKind) Valid() bool {
	_, ok := knownKinds[k]
	return ok
}

var (
	// ErrInvalidRule is returned before any attempt when a RuleSet is malformed.
	ErrInvalidRule = errors.New("invalid retry rule")

	// ErrTimeout is returned by WaitForState when the target state is not reached in time.
	ErrTimeout = &Error{Kind: KindTimeout, Message: "timed out"}

	// ErrExpectedTimeout is returned by WaitForState when a resource enters a state from
	// which the target can no longer be reached.
	ErrExpectedTimeout = &Error{Kind: KindExpectedTimeout, Message: "resource entered a terminal state"}
)

// Error is a classified failure. Code carries a service error code when one exists.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Code != "" {
		fmt.Fprintf(&b, " (%s)", e.Code)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches bare kind sentinels, so errors.Is(err, ErrTimeout) holds for every
// timeout. An expected timeout is also a timeout.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Code != "" || t.Err != nil {
		return false
	}
	if t.Kind == KindTimeout && e.Kind == KindExpectedTimeout {
		return true
	}
	return t.Kind == e.Kind
}

// NewError builds a classified error.
func NewError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf classifies err. Explicit *Error values win; then AWS service errors,
// then network timeouts.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}

	var classified *Error
	if errors.As(err, &classified) {
		return classified.Kind
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return KindService
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return KindReadTimeout
		}
		return KindConnection
	}

	return KindUnknown
}

// CodeOf returns the service error code carried by err, if any.
func CodeOf(err error) string {
	var classified *Error
	if errors.As(err, &classified) && classified.Code != "" {
		return classified.Code
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}

	return ""
}
