// Package errors defines error types for the Valu SDK.
//
// This package provides structured error types for the failure scenarios that
// can surface from the host channel: module registration, function invocation,
// intent delivery and frame decoding. All error types support error unwrapping
// and can be checked using errors.Is, errors.As, and errors.AsType.
//
// Replies that cannot be routed and envelopes addressed to other consumers are
// not errors; the client drops them without surfacing anything to callers.
package errors
