package errors

import (
	"errors"
	"fmt"
)

// ValuSDKError is the base interface for all SDK errors.
type ValuSDKError interface {
	error
	IsValuSDKError() bool
}

// Compile-time verification that all error types implement ValuSDKError.
var (
	_ ValuSDKError = (*RegistrationError)(nil)
	_ ValuSDKError = (*InvocationError)(nil)
	_ ValuSDKError = (*IntentError)(nil)
	_ ValuSDKError = (*FrameDecodeError)(nil)
)

// Sentinel errors for commonly checked conditions.
var (
	// ErrNotConnected indicates the host has not completed the readiness
	// handshake, so no channel endpoint exists to post to.
	ErrNotConnected = errors.New("not connected: host readiness not received")

	// ErrClientAlreadyStarted indicates Start was called twice.
	ErrClientAlreadyStarted = errors.New("client already started")

	// ErrClientClosed indicates the client has been closed and cannot be reused.
	ErrClientClosed = errors.New("client closed: clients are single-use, create a new one with NewClient()")

	// ErrTransportClosed indicates the transport stopped delivering frames.
	ErrTransportClosed = errors.New("transport closed")

	// ErrInvalidIntent indicates a nil or malformed intent was passed to an operation.
	ErrInvalidIntent = errors.New("invalid intent")

	// ErrNoApplication indicates a host intent arrived with no application bound.
	ErrNoApplication = errors.New("no application bound")
)

// RegistrationError indicates the host refused to create a module pointer.
type RegistrationError struct {
	Module  string
	Message string
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("register module %q: %s", e.Module, e.Message)
}

// IsValuSDKError implements ValuSDKError.
func (e *RegistrationError) IsValuSDKError() bool { return true }

// InvocationError indicates a module function call returned an error reply.
// Message carries the host-supplied text verbatim.
type InvocationError struct {
	Module   string
	Function string
	Message  string
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("invoke %s.%s: %s", e.Module, e.Function, e.Message)
}

// IsValuSDKError implements ValuSDKError.
func (e *InvocationError) IsValuSDKError() bool { return true }

// IntentError indicates an intent or service call was rejected by the host.
type IntentError struct {
	ApplicationID string
	Action        string
	Message       string
}

func (e *IntentError) Error() string {
	return fmt.Sprintf("intent %s/%s: %s", e.ApplicationID, e.Action, e.Message)
}

// IsValuSDKError implements ValuSDKError.
func (e *IntentError) IsValuSDKError() bool { return true }

// FrameDecodeError indicates a frame from the transport was not valid JSON.
// This error preserves the original raw data that failed to parse.
type FrameDecodeError struct {
	RawData string
	Err     error
}

func (e *FrameDecodeError) Error() string {
	return fmt.Sprintf("failed to decode frame: %v", e.Err)
}

func (e *FrameDecodeError) Unwrap() error {
	return e.Err
}

// IsValuSDKError implements ValuSDKError.
func (e *FrameDecodeError) IsValuSDKError() bool { return true }
