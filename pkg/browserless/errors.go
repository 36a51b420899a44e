// File: pkg/browserless/errors.go
package browserless

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every concrete error type below matches one of these
// through errors.Is.
var (
	// ErrInvalidOptions reports a setter or send-time validation failure.
	ErrInvalidOptions = errors.New("invalid options")
	// ErrPrecondition reports a setter that needs state which has not been set yet.
	ErrPrecondition = errors.New("precondition failed")
	// ErrInvalidResponse reports a response body that could not be decoded.
	ErrInvalidResponse = errors.New("invalid response")
	// ErrClientNotConfigured is returned when no HTTP transport is attached.
	ErrClientNotConfigured = errors.New("browserless client not configured: no HTTP transport")
	// ErrInvalidConfiguration reports an unusable token or base URL.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrRemote reports a transport level failure.
	ErrRemote = errors.New("remote request failed")
	// ErrAPI reports a response with status >= 400.
	ErrAPI = errors.New("browserless api error")
	// ErrWebSocket reports a WebSocket connection or exchange failure.
	ErrWebSocket = errors.New("websocket error")
	// ErrNotConnected is returned by WebSocket operations issued before Connect.
	ErrNotConnected = errors.New("websocket connection not established: call Connect first")
)

// OptionsError describes a rejected option value.
type OptionsError struct {
	Feature Feature
	Reason  string
	// Kind is ErrInvalidOptions or ErrPrecondition.
	Kind error
}

func (e *OptionsError) Error() string {
	if e.Kind == ErrPrecondition {
		return fmt.Sprintf("%s precondition failed: %s", e.Feature, e.Reason)
	}
	return fmt.Sprintf("invalid %s options: %s", e.Feature, e.Reason)
}

// Is matches the error kind.
func (e *OptionsError) Is(target error) bool {
	if e.Kind == nil {
		return target == ErrInvalidOptions
	}
	return target == e.Kind
}

func invalidOptions(f Feature, format string, args ...any) *OptionsError {
	return &OptionsError{Feature: f, Reason: fmt.Sprintf(format, args...), Kind: ErrInvalidOptions}
}

func preconditionFailed(f Feature, format string, args ...any) *OptionsError {
	return &OptionsError{Feature: f, Reason: fmt.Sprintf(format, args...), Kind: ErrPrecondition}
}

// ResponseError describes a body that could not be decoded.
type ResponseError struct {
	Feature Feature
	Err     error
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("invalid %s response: %v", e.Feature, e.Err)
}

func (e *ResponseError) Unwrap() error { return e.Err }

func (e *ResponseError) Is(target error) bool { return target == ErrInvalidResponse }

// RemoteError wraps a failure raised by the HTTP transport itself.
type RemoteError struct {
	Op  string
	URL string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

func (e *RemoteError) Is(target error) bool { return target == ErrRemote }

// APIError is returned when the service answers with status >= 400.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("browserless API error (HTTP %d): %s", e.StatusCode, e.Body)
}

func (e *APIError) Is(target error) bool { return target == ErrAPI }

// FeatureError labels a failure with the feature that raised it. The original
// cause stays reachable through errors.Is and errors.As.
type FeatureError struct {
	Feature Feature
	Err     error
}

func (e *FeatureError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Feature.verb(), e.Err)
}

func (e *FeatureError) Unwrap() error { return e.Err }

// wrapFeature attaches the feature label unless err is nil or a validation
// error, which is always surfaced unwrapped.
func wrapFeature(f Feature, err error) error {
	if err == nil {
		return nil
	}
	var optErr *OptionsError
	if errors.As(err, &optErr) {
		return err
	}
	var fe *FeatureError
	if errors.As(err, &fe) {
		return err
	}
	return &FeatureError{Feature: f, Err: err}
}

// WebSocketError reports a connection or exchange failure on a WebSocket session.
type WebSocketError struct {
	Op  string
	Err error
}

func (e *WebSocketError) Error() string {
	switch e.Op {
	case "connect":
		return fmt.Sprintf("failed to connect to WebSocket: %v", e.Err)
	case "send":
		return fmt.Sprintf("failed to send WebSocket message: %v", e.Err)
	default:
		return fmt.Sprintf("websocket %s: %v", e.Op, e.Err)
	}
}

func (e *WebSocketError) Unwrap() error { return e.Err }

func (e *WebSocketError) Is(target error) bool { return target == ErrWebSocket }
