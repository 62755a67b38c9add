// Package config provides configuration types for the Valu SDK.
package config

import "context"

// Endpoint is the posting capability of the host. It is learnt from the first
// readiness frame and used for every outbound message afterwards.
type Endpoint interface {
	// PostMessage delivers a complete JSON message to the host. targetOrigin
	// is the origin captured during the readiness handshake.
	// This method must be safe for concurrent use.
	PostMessage(ctx context.Context, data []byte, targetOrigin string) error
}

// Frame is one inbound message together with the transport envelope it
// arrived in.
type Frame struct {
	// Source is the endpoint that posted the frame.
	Source Endpoint

	// Origin identifies the sender as reported by the transport.
	Origin string

	// Data is the raw JSON message.
	Data []byte
}

// Transport defines the interface for host channel communication.
// Implement this to provide custom transports for testing, mocking,
// or alternative channels (e.g., in-process hosts).
//
// The default implementation is transport.Stdio which exchanges newline
// delimited JSON with the parent process over stdin and stdout.
type Transport interface {
	// Start initializes the transport and prepares it for communication.
	Start(ctx context.Context) error

	// ReadFrames returns channels for receiving frames and errors.
	// Both channels are closed when reading completes.
	ReadFrames(ctx context.Context) (<-chan *Frame, <-chan error)

	// Close terminates the transport and releases resources.
	// It's safe to call Close multiple times.
	Close() error
}
