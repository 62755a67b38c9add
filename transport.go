package valusdk

import (
	"io"
	"log/slog"

	"github.com/wagiedev/valu-sdk-go/internal/config"
	"github.com/wagiedev/valu-sdk-go/internal/transport"
)

// Transport defines the interface for host channel communication.
// Implement this to provide custom transports for testing, mocking,
// or alternative channels.
//
// The default implementation exchanges newline-delimited JSON with the parent
// process over stdin and stdout. Custom transports are injected with
// WithTransport.
type Transport = config.Transport

// Endpoint is the posting capability learnt from the readiness frame.
type Endpoint = config.Endpoint

// Frame is one inbound message with its source endpoint and origin.
type Frame = config.Frame

// PipeHost is the host side of an in-process channel.
type PipeHost = transport.PipeHost

// NewStdioTransport creates a transport reading frames from in and writing to
// out, one JSON message per line. origin names the peer.
func NewStdioTransport(logger *slog.Logger, in io.Reader, out io.Writer, origin string) Transport {
	return transport.NewStdioWith(logger, in, out, origin)
}

// NewPipe creates an in-process channel. The returned transport is given to
// the client; the host side posts frames to it and receives its messages.
// Useful for tests and for hosting modules in the same process.
func NewPipe(logger *slog.Logger, origin string, buffer int) (Transport, *PipeHost) {
	return transport.NewPipe(logger, origin, buffer)
}
