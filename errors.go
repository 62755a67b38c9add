package valusdk

import "github.com/wagiedev/valu-sdk-go/internal/errors"

// Re-export error types from internal package

// RegistrationError indicates the host refused to bind a module.
type RegistrationError = errors.RegistrationError

// InvocationError indicates a module function failed on the host.
type InvocationError = errors.InvocationError

// IntentError indicates an intent or service call was rejected.
type IntentError = errors.IntentError

// FrameDecodeError indicates an inbound frame was not valid JSON.
type FrameDecodeError = errors.FrameDecodeError

// ValuSDKError is the base interface for all SDK errors.
type ValuSDKError = errors.ValuSDKError

// Re-export sentinel errors from internal package.
var (
	// ErrNotConnected indicates the host has not announced readiness.
	ErrNotConnected = errors.ErrNotConnected

	// ErrClientAlreadyStarted indicates Start was called twice.
	ErrClientAlreadyStarted = errors.ErrClientAlreadyStarted

	// ErrClientClosed indicates the client has been closed and cannot be reused.
	ErrClientClosed = errors.ErrClientClosed

	// ErrTransportClosed indicates the channel ended.
	ErrTransportClosed = errors.ErrTransportClosed

	// ErrInvalidIntent indicates a nil or malformed intent.
	ErrInvalidIntent = errors.ErrInvalidIntent

	// ErrNoApplication is reported to the host when it delivers an intent and
	// no application is bound.
	ErrNoApplication = errors.ErrNoApplication
)
